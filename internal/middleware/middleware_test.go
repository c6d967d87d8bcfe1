package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store/memstore"
	"github.com/gofiber/fiber/v2"
)

func setupAuthApp(t *testing.T) (*fiber.App, *services.TokenIssuer, *models.User) {
	t.Helper()
	st := memstore.New()
	user := &models.User{Email: "a@example.com", Name: "a"}
	if err := st.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tokens := services.NewTokenIssuer("secret", time.Hour)

	app := fiber.New()
	app.Get("/me", JWTProtected(tokens.Secret()), Authenticate(services.NewPrincipalResolver(st.Users())), func(c *fiber.Ctx) error {
		return c.SendString(session.UserID(c))
	})
	return app, tokens, user
}

func decodeCode(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return resp.StatusCode, string(raw)
	}
	return env.Code, ""
}

func TestAuthChain(t *testing.T) {
	app, tokens, user := setupAuthApp(t)

	if code, _ := decodeCode(t, app, ""); code != dto.CodeMissingToken {
		t.Errorf("missing: expected %d, got %d", dto.CodeMissingToken, code)
	}
	if code, _ := decodeCode(t, app, "not.a.jwt"); code != dto.CodeInvalidToken {
		t.Errorf("malformed: expected %d, got %d", dto.CodeInvalidToken, code)
	}

	token, _ := tokens.Issue(user)
	status, body := decodeCode(t, app, token)
	if status != fiber.StatusOK || body != user.ID.String() {
		t.Errorf("valid token: status %d body %q", status, body)
	}

	// The Authorization header is not a credential source.
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	var env dto.Envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	if env.Code != dto.CodeMissingToken {
		t.Errorf("authorization header: expected %d, got %d", dto.CodeMissingToken, env.Code)
	}
}

func TestCORSAllowsTokenHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{AppEnv: "production", AppBaseURL: "app.prompter.test"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("OPTIONS", "/", nil)
	req.Header.Set("Origin", "https://app.prompter.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", TokenHeader)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.prompter.test" {
		t.Errorf("expected origin echo, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Headers"); !strings.Contains(got, TokenHeader) {
		t.Errorf("expected %s in allowed headers, got %q", TokenHeader, got)
	}
}
