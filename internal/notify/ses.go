// Package notify sends login emails through Amazon SES.
package notify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const loginSubject = "Login for Prompter"

type emailAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Mailer struct {
	api        emailAPI
	from       string
	appBaseURL string
	baseURL    string
}

func NewMailer(ctx context.Context, region, from, appBaseURL, baseURL string) (*Mailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &Mailer{
		api:        sesv2.NewFromConfig(cfg),
		from:       from,
		appBaseURL: appBaseURL,
		baseURL:    baseURL,
	}, nil
}

func (m *Mailer) SendLoginOTP(ctx context.Context, email, code string) error {
	in := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination:      &types.Destination{ToAddresses: []string{email}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(loginSubject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(m.loginBody(email, code)), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if _, err := m.api.SendEmail(ctx, in); err != nil {
		return fmt.Errorf("failed to send login email: %w", err)
	}
	return nil
}

func (m *Mailer) loginLink(email, code string) string {
	link := url.URL{
		Scheme:   "https",
		Host:     m.appBaseURL,
		Path:     "/auth",
		RawQuery: url.Values{"email": {email}, "otp": {code}}.Encode(),
	}
	return link.String()
}

func (m *Mailer) loginBody(email, code string) string {
	return fmt.Sprintf(`To login to Prompter, please follow this link:

%[1]s

Or enter this verification code on the login page:

%[2]s

This link and code will only be valid for the next 2 minutes.

To make sure you continue to receive important account emails from our support team, whitelist *.%[3]s

--
Yours securely,
Team Prompter
https://%[3]s`, m.loginLink(email, code), code, m.baseURL)
}
