package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/analytics"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/payments"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"gorm.io/datatypes"
)

type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email, userID string) (string, error)
	CheckoutURL(ctx context.Context, customerID, plan, clientID string) (string, error)
	PortalURL(ctx context.Context, customerID string) (string, error)
	Subscription(ctx context.Context, id string) (*payments.Subscription, error)
	ParseEvent(payload []byte, signature string) (*payments.Event, error)
}

type PurchaseTracker interface {
	TrackPurchase(ctx context.Context, p analytics.Purchase) error
}

type BillingService struct {
	store   store.Store
	gateway PaymentGateway
	tracker PurchaseTracker
}

func NewBillingService(st store.Store, gateway PaymentGateway, tracker PurchaseTracker) *BillingService {
	return &BillingService{store: st, gateway: gateway, tracker: tracker}
}

// Checkout returns a Stripe checkout URL for plan. The Stripe customer is
// created on first use and remembered on the user.
func (s *BillingService) Checkout(ctx context.Context, p *Principal, plan string) (string, error) {
	customerID := p.User.PaymentCustomerID
	if customerID == "" {
		id, err := s.gateway.CreateCustomer(ctx, p.User.Email, p.ID().String())
		if err != nil {
			slog.Error("failed to create payment customer", "user_id", p.ID().String(), "error", err)
			return "", upstream(dto.CodeCreateOrder, err)
		}
		customerID = id
		if err := s.store.Users().SetPaymentCustomer(ctx, p.ID(), customerID); err != nil {
			slog.Error("failed to store payment customer", "user_id", p.ID().String(), "error", err)
		}
		p.User.PaymentCustomerID = customerID
	}

	url, err := s.gateway.CheckoutURL(ctx, customerID, plan, p.ID().String())
	if err != nil {
		slog.Error("failed to create checkout session", "user_id", p.ID().String(), "error", err)
		return "", upstream(dto.CodeCreateOrder, err)
	}
	return url, nil
}

func (s *BillingService) Portal(ctx context.Context, p *Principal) (string, error) {
	if p.User.PaymentCustomerID == "" {
		return "", invalid(dto.CodeCreatePortal, "user has no payment customer")
	}
	url, err := s.gateway.PortalURL(ctx, p.User.PaymentCustomerID)
	if err != nil {
		slog.Error("failed to create portal session", "user_id", p.ID().String(), "error", err)
		return "", upstream(dto.CodeCreatePortal, err)
	}
	return url, nil
}

func (s *BillingService) ParseEvent(payload []byte, signature string) (*payments.Event, error) {
	return s.gateway.ParseEvent(payload, signature)
}

// HandleEvent applies a verified webhook event. A returned error means the
// event was not applied and Stripe should retry it.
func (s *BillingService) HandleEvent(ctx context.Context, ev *payments.Event) error {
	switch {
	case ev.Type == payments.EventInvoicePaid && ev.Invoice != nil:
		return s.invoicePaid(ctx, ev.Invoice)
	case ev.Type == payments.EventCheckoutComplete && ev.Checkout != nil:
		s.checkoutCompleted(ctx, ev.Checkout)
	}
	return nil
}

func (s *BillingService) invoicePaid(ctx context.Context, inv *payments.Invoice) error {
	user, err := s.store.Users().FindByPaymentCustomer(ctx, inv.CustomerID)
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("invoice for unknown customer", "customer", inv.CustomerID)
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.store.Orders().FindByTransaction(ctx, user.ID, inv.PaymentIntentID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	sub, err := s.gateway.Subscription(ctx, inv.SubscriptionID)
	if err != nil {
		return err
	}

	order := &models.Order{
		UserID:            user.ID,
		PaymentCustomerID: inv.CustomerID,
		Email:             user.Email,
		Amount:            inv.AmountPaid,
		Status:            models.OrderStatusFinish,
		PayMethod:         models.PayMethodStripe,
		TransactionID:     inv.PaymentIntentID,
		Details:           datatypes.JSON(sub.Raw),
	}
	err = s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		return tx.Users().ApplyMembership(ctx, user.ID, models.MembershipPlus, sub.CurrentPeriodEnd)
	})
	if errors.Is(err, store.ErrConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply invoice %s: %w", inv.PaymentIntentID, err)
	}

	slog.Info("membership extended", "user_id", user.ID.String(), "expires_at", sub.CurrentPeriodEnd)
	return nil
}

func (s *BillingService) checkoutCompleted(ctx context.Context, sess *payments.CheckoutSession) {
	if s.tracker == nil {
		return
	}
	err := s.tracker.TrackPurchase(ctx, analytics.Purchase{
		ClientID:      sess.ClientID,
		TransactionID: sess.ID,
		Value:         float64(sess.AmountTotal) / 100,
		Currency:      sess.Currency,
	})
	if err != nil {
		slog.Warn("failed to record purchase", "session", sess.ID, "error", err)
	}
}
