// Package payments wraps the Stripe calls the billing flow makes.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const (
	EventInvoicePaid      = "invoice.paid"
	EventCheckoutComplete = "checkout.session.completed"

	PlanMonth = "month"
	PlanYear  = "year"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrNotConfigured    = errors.New("stripe is not configured")
)

type Config struct {
	SecretKey      string
	WebhookSecret  string
	MonthPriceID   string
	YearPriceID    string
	PortalConfigID string
	SuccessURL     string
	CancelURL      string
	ReturnURL      string
}

// Event is the part of a webhook event the billing flow reads.
// Exactly one of Invoice and Checkout is set for the handled types.
type Event struct {
	ID       string
	Type     string
	Invoice  *Invoice
	Checkout *CheckoutSession
}

type Invoice struct {
	PaymentIntentID string
	SubscriptionID  string
	CustomerID      string
	AmountPaid      int64
	Created         time.Time
}

type CheckoutSession struct {
	ID          string
	ClientID    string
	AmountTotal int64
	Currency    string
}

type Subscription struct {
	ID               string
	CurrentPeriodEnd time.Time
	Raw              []byte
}

type Gateway struct {
	api *client.API
	cfg Config
}

func NewGateway(cfg Config) *Gateway {
	return &Gateway{api: client.New(cfg.SecretKey, nil), cfg: cfg}
}

func (g *Gateway) CreateCustomer(ctx context.Context, email, userID string) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx
	params.AddMetadata("puid", userID)

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cust.ID, nil
}

// CheckoutURL opens a subscription checkout. Any plan other than PlanMonth
// is billed yearly.
func (g *Gateway) CheckoutURL(ctx context.Context, customerID, plan, clientID string) (string, error) {
	price := g.cfg.YearPriceID
	if plan == PlanMonth {
		price = g.cfg.MonthPriceID
	}
	if price == "" {
		return "", ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(price),
				Quantity: stripe.Int64(1),
			},
		},
		AllowPromotionCodes: stripe.Bool(true),
		SuccessURL:          stripe.String(g.cfg.SuccessURL),
		CancelURL:           stripe.String(g.cfg.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("analyticsClientId", clientID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

func (g *Gateway) PortalURL(ctx context.Context, customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(g.cfg.ReturnURL),
	}
	if g.cfg.PortalConfigID != "" {
		params.Configuration = stripe.String(g.cfg.PortalConfigID)
	}
	params.Context = ctx

	sess, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}

func (g *Gateway) Subscription(ctx context.Context, id string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve subscription %s: %w", id, err)
	}
	raw, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode subscription: %w", err)
	}
	return &Subscription{
		ID:               sub.ID,
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		Raw:              raw,
	}, nil
}

// ParseEvent verifies the Stripe-Signature header against payload and
// decodes the handled event types.
func (g *Gateway) ParseEvent(payload []byte, signature string) (*Event, error) {
	if g.cfg.WebhookSecret == "" {
		return nil, ErrNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return decodeEvent(event.ID, string(event.Type), event.Data.Raw)
}

func decodeEvent(id, typ string, raw json.RawMessage) (*Event, error) {
	ev := &Event{ID: id, Type: typ}

	switch typ {
	case EventInvoicePaid:
		var inv stripe.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("decode invoice: %w", err)
		}
		ev.Invoice = &Invoice{
			AmountPaid: inv.AmountPaid,
			Created:    time.Unix(inv.Created, 0).UTC(),
		}
		if inv.PaymentIntent != nil {
			ev.Invoice.PaymentIntentID = inv.PaymentIntent.ID
		}
		if inv.Subscription != nil {
			ev.Invoice.SubscriptionID = inv.Subscription.ID
		}
		if inv.Customer != nil {
			ev.Invoice.CustomerID = inv.Customer.ID
		}
	case EventCheckoutComplete:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		ev.Checkout = &CheckoutSession{
			ID:          sess.ID,
			ClientID:    sess.Metadata["analyticsClientId"],
			AmountTotal: sess.AmountTotal,
			Currency:    string(sess.Currency),
		}
	}
	return ev, nil
}
