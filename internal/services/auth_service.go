package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// OTPSender delivers a login code to an email address.
type OTPSender interface {
	SendLoginOTP(ctx context.Context, email, code string) error
}

type AuthService struct {
	store      store.Store
	tokens     *TokenIssuer
	otps       OTPStore
	mailer     OTPSender
	google     IdentityExchanger
	principals *PrincipalResolver
	production bool
}

func NewAuthService(st store.Store, tokens *TokenIssuer, otps OTPStore, mailer OTPSender, google IdentityExchanger, production bool) *AuthService {
	return &AuthService{
		store:      st,
		tokens:     tokens,
		otps:       otps,
		mailer:     mailer,
		google:     google,
		principals: NewPrincipalResolver(st.Users()),
		production: production,
	}
}

// SendOTP issues a login code for email. Outside production the code is
// always DevelopmentOTP and nothing is sent.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return invalid(dto.CodeSendOTP, "empty email")
	}

	if !s.production {
		if err := s.otps.Put(email, DevelopmentOTP, OTPTTL); err != nil {
			return internal(dto.CodeSendOTP, err)
		}
		return nil
	}

	code, err := generateOTP()
	if err != nil {
		return internal(dto.CodeSendOTP, err)
	}
	if s.mailer == nil {
		return upstream(dto.CodeSendOTP, errors.New("email delivery is not configured"))
	}
	if err := s.mailer.SendLoginOTP(ctx, email, code); err != nil {
		slog.Error("failed to send login code", "error", err)
		return upstream(dto.CodeSendOTP, err)
	}
	if err := s.otps.Put(email, code, OTPTTL); err != nil {
		return internal(dto.CodeSendOTP, err)
	}
	return nil
}

func (s *AuthService) LoginEmail(ctx context.Context, email, otp string) (*dto.UserInfo, error) {
	email = normalizeEmail(email)
	if email == "" || !s.otps.Consume(email, strings.TrimSpace(otp)) {
		return nil, invalid(dto.CodeInvalidOTP, "verification code mismatch")
	}
	return s.login(ctx, newcomerProfile{email: email, name: email})
}

func (s *AuthService) LoginGoogle(ctx context.Context, code string) (*dto.UserInfo, error) {
	if strings.TrimSpace(code) == "" {
		return nil, invalid(dto.CodeGoogleAuth, "empty authorization code")
	}
	if s.google == nil {
		return nil, upstream(dto.CodeGoogleAuth, errors.New("google sign-in is not configured"))
	}

	identity, err := s.google.Exchange(ctx, code)
	if err != nil {
		slog.Error("google sign-in failed", "error", err)
		return nil, upstream(dto.CodeGoogleAuth, err)
	}
	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, upstream(dto.CodeGoogleAuth, errors.New("google profile has no email"))
	}

	name := identity.Name
	if name == "" {
		name = email
	}
	return s.login(ctx, newcomerProfile{email: email, name: name, googleID: identity.Subject, avatar: identity.Picture})
}

type newcomerProfile struct {
	email    string
	name     string
	googleID string
	avatar   string
}

// login finds or registers the user behind profile and issues a credential.
func (s *AuthService) login(ctx context.Context, profile newcomerProfile) (*dto.UserInfo, error) {
	var (
		latest   uuid.UUID
		newcomer bool
	)

	user, err := s.store.Users().FindByEmail(ctx, profile.email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		user, latest, err = s.register(ctx, profile)
		if errors.Is(err, store.ErrConflict) {
			// Registered concurrently by another request.
			user, err = s.store.Users().FindByEmail(ctx, profile.email)
		} else if err == nil {
			newcomer = true
		}
		if err != nil {
			return nil, internal(dto.CodeCreateUser, err)
		}
	case err != nil:
		return nil, internal(dto.CodeCreateUser, err)
	}

	if user.IsDeleted() {
		return nil, invalid(dto.CodeCreateUser, "account is deleted")
	}

	if latest == uuid.Nil {
		latest, err = s.latestPromptID(ctx, user.ID)
		if err != nil {
			return nil, internal(dto.CodeCreateUser, err)
		}
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, internal(dto.CodeCreateUser, err)
	}

	info := s.userInfo(s.principals.principalFor(user))
	info.LatestPromptID = &latest
	info.Newcomer = newcomer
	info.Token = token
	return &info, nil
}

// register creates the user with a starter suite and prompt in one transaction.
func (s *AuthService) register(ctx context.Context, profile newcomerProfile) (*models.User, uuid.UUID, error) {
	user := &models.User{
		Email:      profile.email,
		Name:       profile.name,
		Avatar:     profile.avatar,
		GoogleID:   profile.googleID,
		Membership: models.MembershipBasic,
		State:      models.LifecycleActive,
	}

	var promptID uuid.UUID
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		prompt, err := createStarter(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		promptID = prompt.ID
		return nil
	})
	if err != nil {
		return nil, uuid.Nil, err
	}

	slog.Info("user created", "user_id", user.ID.String())
	return user, promptID, nil
}

// latestPromptID returns the most recently updated live prompt of the user.
// A prompt, and a suite when needed, is created for users with none.
func (s *AuthService) latestPromptID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	suites, err := s.store.Suites().ListActive(ctx, userID, true)
	if err != nil {
		return uuid.Nil, err
	}
	if len(suites) == 0 {
		var prompt *models.Prompt
		err := s.store.InTx(ctx, func(tx store.Store) error {
			var err error
			prompt, err = createStarter(ctx, tx, userID)
			return err
		})
		if err != nil {
			return uuid.Nil, err
		}
		return prompt.ID, nil
	}

	ids := make([]uuid.UUID, len(suites))
	for i := range suites {
		ids[i] = suites[i].ID
	}
	latest, err := s.store.Prompts().LatestActive(ctx, userID, ids)
	if err == nil {
		return latest.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return uuid.Nil, err
	}

	prompt := models.NewPrompt(userID, suites[0].ID, "")
	if err := s.store.Prompts().Create(ctx, prompt); err != nil {
		return uuid.Nil, err
	}
	return prompt.ID, nil
}

func createStarter(ctx context.Context, tx store.Store, userID uuid.UUID) (*models.Prompt, error) {
	suite := &models.Suite{Name: models.DefaultSuiteName, OwnerID: userID}
	if err := tx.Suites().Create(ctx, suite); err != nil {
		return nil, fmt.Errorf("create starter suite: %w", err)
	}
	prompt := models.NewPrompt(userID, suite.ID, "")
	if err := tx.Prompts().Create(ctx, prompt); err != nil {
		return nil, fmt.Errorf("create starter prompt: %w", err)
	}
	return prompt, nil
}

func (s *AuthService) userInfo(p *Principal) dto.UserInfo {
	u := p.User
	return dto.UserInfo{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Avatar:         u.Avatar,
		Membership:     p.Membership,
		OpenAISettings: settingsDTO(u.Settings),
	}
}

func (s *AuthService) UserInfo(p *Principal) dto.UserInfo {
	return s.userInfo(p)
}

func (s *AuthService) UpdateName(ctx context.Context, p *Principal, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(dto.CodeSystem, "empty name")
	}
	if err := s.store.Users().UpdateName(ctx, p.ID(), name); err != nil {
		return internal(dto.CodeSystem, err)
	}
	return nil
}

func (s *AuthService) Settings(p *Principal) dto.APISettings {
	return settingsDTO(p.User.Settings)
}

func (s *AuthService) UpdateSettings(ctx context.Context, p *Principal, req *dto.UpdateSettingsRequest) error {
	if req == nil || req.OpenAISettings == nil {
		return invalid(dto.CodeInvalidSettings, "openaiSettings is required")
	}
	in := req.OpenAISettings
	err := validation.ValidateStruct(in,
		validation.Field(&in.APIKey, jsonString),
		validation.Field(&in.IsCustom, jsonBool),
		validation.Field(&in.CustomEndpoint, jsonString),
	)
	if err != nil {
		return settingsError(err)
	}

	settings := models.APISettings{
		APIKey:         strings.TrimSpace(rawString(in.APIKey)),
		IsCustom:       rawBool(in.IsCustom),
		CustomEndpoint: strings.TrimSpace(rawString(in.CustomEndpoint)),
	}
	err = validation.ValidateStruct(&settings,
		validation.Field(&settings.APIKey, validation.Length(0, 255)),
		validation.Field(&settings.CustomEndpoint,
			validation.When(settings.IsCustom, validation.Required),
			validation.Length(0, 1024)),
	)
	if err != nil {
		return settingsError(err)
	}

	if err := s.store.Users().UpdateSettings(ctx, p.ID(), settings); err != nil {
		return internal(dto.CodeSystem, err)
	}
	return nil
}

func settingsError(err error) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		if _, ok := errs["isCustom"]; ok {
			return newError(KindInvalidArgument, dto.CodeInvalidSettings, err)
		}
		if _, ok := errs["customEndpoint"]; ok {
			return newError(KindInvalidArgument, dto.CodeInvalidEndpoint, err)
		}
		if _, ok := errs["apiKey"]; ok {
			return newError(KindInvalidArgument, dto.CodeInvalidAPIKey, err)
		}
	}
	return newError(KindInvalidArgument, dto.CodeInvalidSettings, err)
}

func settingsDTO(s models.APISettings) dto.APISettings {
	return dto.APISettings{APIKey: s.APIKey, IsCustom: s.IsCustom, CustomEndpoint: s.CustomEndpoint}
}
