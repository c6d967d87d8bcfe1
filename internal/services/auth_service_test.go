package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store/memstore"
)

type fakeMailer struct {
	sent map[string]string
	err  error
}

func (m *fakeMailer) SendLoginOTP(ctx context.Context, email, code string) error {
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[email] = code
	return nil
}

type fakeGoogle struct {
	identity *GoogleIdentity
	err      error
}

func (g *fakeGoogle) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	return g.identity, g.err
}

func newAuth(st *memstore.Store, mailer OTPSender, google IdentityExchanger, production bool) *AuthService {
	return NewAuthService(st, NewTokenIssuer("secret", time.Hour), NewMemoryOTPStore(), mailer, google, production)
}

func TestDevelopmentLoginBootstrapsWorkspace(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	auth := newAuth(st, nil, nil, false)

	if err := auth.SendOTP(ctx, " New@Example.com "); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	info, err := auth.LoginEmail(ctx, "new@example.com", DevelopmentOTP)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !info.Newcomer || info.Token == "" || info.LatestPromptID == nil {
		t.Fatalf("unexpected first login %+v", info)
	}
	if info.Membership != models.MembershipBasic {
		t.Errorf("expected basic membership, got %s", info.Membership)
	}

	suites, _ := st.Suites().ListActive(ctx, info.ID, false)
	if len(suites) != 1 || suites[0].Name != models.DefaultSuiteName {
		t.Fatalf("expected one starter suite, got %+v", suites)
	}
	prompt, err := st.Prompts().Get(ctx, *info.LatestPromptID, false)
	if err != nil || prompt.SuiteID != suites[0].ID {
		t.Fatalf("starter prompt not in starter suite: %v", err)
	}

	_ = auth.SendOTP(ctx, "new@example.com")
	again, err := auth.LoginEmail(ctx, "new@example.com", DevelopmentOTP)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.Newcomer {
		t.Error("second login must not be a newcomer")
	}
	if *again.LatestPromptID != *info.LatestPromptID {
		t.Errorf("expected latest prompt %s, got %s", info.LatestPromptID, again.LatestPromptID)
	}
}

func TestLoginRejectsWrongOrReusedCode(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	auth := newAuth(st, nil, nil, false)

	_, err := auth.LoginEmail(ctx, "a@example.com", DevelopmentOTP)
	expectCode(t, err, dto.CodeInvalidOTP)

	_ = auth.SendOTP(ctx, "a@example.com")
	_, err = auth.LoginEmail(ctx, "a@example.com", "123456")
	expectCode(t, err, dto.CodeInvalidOTP)

	if _, err := auth.LoginEmail(ctx, "a@example.com", DevelopmentOTP); err != nil {
		t.Fatalf("login: %v", err)
	}
	_, err = auth.LoginEmail(ctx, "a@example.com", DevelopmentOTP)
	expectCode(t, err, dto.CodeInvalidOTP)
}

func TestProductionOTPIsMailed(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	mailer := &fakeMailer{}
	auth := newAuth(st, mailer, nil, true)

	if err := auth.SendOTP(ctx, "a@example.com"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	code := mailer.sent["a@example.com"]
	if len(code) != otpLength || code == DevelopmentOTP {
		t.Fatalf("unexpected mailed code %q", code)
	}

	_, err := auth.LoginEmail(ctx, "a@example.com", DevelopmentOTP)
	expectCode(t, err, dto.CodeInvalidOTP)

	if _, err := auth.LoginEmail(ctx, "a@example.com", code); err != nil {
		t.Fatalf("login with mailed code: %v", err)
	}
}

func TestSendOTPFailures(t *testing.T) {
	ctx := context.Background()

	failing := newAuth(newTestStore(), &fakeMailer{err: errors.New("ses down")}, nil, true)
	err := failing.SendOTP(ctx, "a@example.com")
	expectCode(t, err, dto.CodeSendOTP)
	_, err = failing.LoginEmail(ctx, "a@example.com", DevelopmentOTP)
	expectCode(t, err, dto.CodeInvalidOTP)

	err = newAuth(newTestStore(), nil, nil, false).SendOTP(ctx, "  ")
	expectCode(t, err, dto.CodeSendOTP)
}

func TestGoogleLogin(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	google := &fakeGoogle{identity: &GoogleIdentity{Email: "G@Example.com", Name: "Gee", Subject: "sub-1", Picture: "https://img"}}
	auth := newAuth(st, nil, google, false)

	info, err := auth.LoginGoogle(ctx, "auth-code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if info.Email != "g@example.com" || info.Name != "Gee" || info.Avatar != "https://img" || !info.Newcomer {
		t.Errorf("unexpected user info %+v", info)
	}

	_, err = auth.LoginGoogle(ctx, "")
	expectCode(t, err, dto.CodeGoogleAuth)

	google.err = errors.New("bad code")
	_, err = auth.LoginGoogle(ctx, "auth-code")
	expectCode(t, err, dto.CodeGoogleAuth)

	_, err = newAuth(st, nil, nil, false).LoginGoogle(ctx, "auth-code")
	expectCode(t, err, dto.CodeGoogleAuth)
}

func TestLoginRestoresMissingPrompt(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	auth := newAuth(st, nil, nil, false)
	p := seedUser(t, st, models.MembershipBasic)

	_ = auth.SendOTP(ctx, p.User.Email)
	info, err := auth.LoginEmail(ctx, p.User.Email, DevelopmentOTP)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if info.Newcomer {
		t.Error("existing user reported as newcomer")
	}
	suites, _ := st.Suites().ListActive(ctx, p.ID(), false)
	if len(suites) != 1 {
		t.Fatalf("expected a starter suite for a user without suites, got %d", len(suites))
	}

	suite := seedSuite(t, st, p)
	_ = NewSuiteService(st).Remove(ctx, p, suites[0].ID.String())
	_ = auth.SendOTP(ctx, p.User.Email)
	info, err = auth.LoginEmail(ctx, p.User.Email, DevelopmentOTP)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	prompt, err := st.Prompts().Get(ctx, *info.LatestPromptID, false)
	if err != nil || prompt.SuiteID != suite.ID {
		t.Fatalf("expected a prompt created in the remaining suite: %v", err)
	}
}

func TestUpdateName(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	auth := newAuth(st, nil, nil, false)
	p := seedUser(t, st, models.MembershipBasic)

	if err := auth.UpdateName(ctx, p, "  Renamed "); err != nil {
		t.Fatalf("update: %v", err)
	}
	u, _ := st.Users().FindByID(ctx, p.ID())
	if u.Name != "Renamed" {
		t.Errorf("expected trimmed name, got %q", u.Name)
	}
	expectCode(t, auth.UpdateName(ctx, p, " "), dto.CodeSystem)
}

func TestUpdateSettings(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	auth := newAuth(st, nil, nil, false)
	p := seedUser(t, st, models.MembershipBasic)

	settings := func(key, custom, endpoint string) *dto.UpdateSettingsRequest {
		return &dto.UpdateSettingsRequest{OpenAISettings: &dto.SettingsInput{
			APIKey:         json.RawMessage(key),
			IsCustom:       json.RawMessage(custom),
			CustomEndpoint: json.RawMessage(endpoint),
		}}
	}

	cases := []struct {
		name string
		req  *dto.UpdateSettingsRequest
		code int
	}{
		{"missing body", nil, dto.CodeInvalidSettings},
		{"missing settings", &dto.UpdateSettingsRequest{}, dto.CodeInvalidSettings},
		{"string isCustom", settings(`"sk"`, `"true"`, `"https://llm.local"`), dto.CodeInvalidSettings},
		{"numeric isCustom", settings(`"sk"`, `1`, `"https://llm.local"`), dto.CodeInvalidSettings},
		{"bad isCustom wins over bad key", settings(`42`, `"yes"`, ``), dto.CodeInvalidSettings},
		{"custom without endpoint", settings(``, `true`, ``), dto.CodeInvalidEndpoint},
		{"custom with blank endpoint", settings(`"sk"`, `true`, `"  "`), dto.CodeInvalidEndpoint},
		{"numeric endpoint", settings(`"sk"`, `false`, `5`), dto.CodeInvalidEndpoint},
		{"numeric key", settings(`42`, `false`, ``), dto.CodeInvalidAPIKey},
		{"key too long", settings(`"`+strings.Repeat("k", 256)+`"`, ``, ``), dto.CodeInvalidAPIKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectCode(t, auth.UpdateSettings(ctx, p, tc.req), tc.code)
		})
	}

	if err := auth.UpdateSettings(ctx, p, settings(`" sk-1 "`, `true`, `"https://llm.local/v1"`)); err != nil {
		t.Fatalf("update: %v", err)
	}
	u, _ := st.Users().FindByID(ctx, p.ID())
	if u.Settings.APIKey != "sk-1" || !u.Settings.IsCustom || u.Settings.CustomEndpoint != "https://llm.local/v1" {
		t.Errorf("unexpected stored settings %+v", u.Settings)
	}
}
