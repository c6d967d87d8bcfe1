package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const duplicateSuffix = "_Duplicate"

type PromptService struct {
	store store.Store
	quota *QuotaPolicy
}

func NewPromptService(st store.Store, quota *QuotaPolicy) *PromptService {
	return &PromptService{store: st, quota: quota}
}

// List returns the live prompts of a suite the caller owns, oldest first.
func (s *PromptService) List(ctx context.Context, p *Principal, suiteID string) ([]models.Prompt, error) {
	suite, err := resolveOwned(ctx, p, suiteID, false, suiteLoader(s.store),
		guardCodes{invalid: dto.CodeListPrompts, denied: dto.CodeGetPromptDenied})
	if err != nil {
		return nil, err
	}

	prompts, err := s.store.Prompts().ListBySuite(ctx, p.ID(), suite.ID)
	if err != nil {
		return nil, internal(dto.CodeListPrompts, err)
	}
	if prompts == nil {
		prompts = []models.Prompt{}
	}
	return prompts, nil
}

// Create adds a prompt to a suite the caller owns. The quota check and
// the insert share one transaction.
func (s *PromptService) Create(ctx context.Context, p *Principal, name, suiteID string) (*models.Prompt, error) {
	var prompt *models.Prompt
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := s.quota.AllowPromptCreate(ctx, tx, p); err != nil {
			return err
		}

		suite, err := resolveOwned(ctx, p, suiteID, false, suiteLoader(tx),
			guardCodes{invalid: dto.CodeCreatePrompt, denied: dto.CodeCreatePromptDenied})
		if err != nil {
			return err
		}

		prompt = models.NewPrompt(p.ID(), suite.ID, strings.TrimSpace(name))
		if err := tx.Prompts().Create(ctx, prompt); err != nil {
			return internal(dto.CodeCreatePrompt, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prompt, nil
}

// Duplicate copies one of the caller's prompts into the same suite.
func (s *PromptService) Duplicate(ctx context.Context, p *Principal, promptID string) (*models.Prompt, error) {
	var dup *models.Prompt
	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := s.quota.AllowPromptCreate(ctx, tx, p); err != nil {
			return err
		}

		src, err := resolveOwned(ctx, p, promptID, false, promptLoader(tx),
			guardCodes{invalid: dto.CodeDuplicatePrompt, denied: dto.CodeCreatePromptDenied})
		if err != nil {
			return err
		}

		dup = models.NewPrompt(p.ID(), src.SuiteID, src.Name+duplicateSuffix)
		dup.Parameters = src.Parameters
		dup.Messages = src.Messages
		dup.Variables = src.Variables
		dup.Functions = src.Functions
		dup.ToolChoice = src.ToolChoice
		dup.BatchConfigs = src.BatchConfigs

		if err := tx.Prompts().Create(ctx, dup); err != nil {
			return internal(dto.CodeDuplicatePrompt, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}

func (s *PromptService) Rename(ctx context.Context, p *Principal, id, name string) (*models.Prompt, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSpace(id) == "" || name == "" {
		return nil, invalid(dto.CodeUpdatePrompt, "id and name are required")
	}

	prompt, err := resolveOwned(ctx, p, id, false, promptLoader(s.store),
		guardCodes{invalid: dto.CodeUpdatePrompt, denied: dto.CodeUpdatePromptDenied})
	if err != nil {
		return nil, err
	}
	if prompt.Name == name {
		return prompt, nil
	}

	updated, err := s.store.Prompts().Rename(ctx, prompt.ID, p.ID(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(dto.CodeUpdatePromptDenied)
		}
		return nil, internal(dto.CodeUpdatePrompt, err)
	}
	return updated, nil
}

// Sync replaces the editable content of a prompt. The suite in the request
// must be the prompt's own suite.
func (s *PromptService) Sync(ctx context.Context, p *Principal, req *dto.SyncPromptRequest) (*models.Prompt, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ID, notBlank),
		validation.Field(&req.Name, notBlank),
		validation.Field(&req.SuiteID, notBlank),
		validation.Field(&req.Parameters, validJSON),
		validation.Field(&req.Variables, validJSON),
		validation.Field(&req.Functions, validJSON),
		validation.Field(&req.BatchConfigs, validJSON),
	)
	if err != nil {
		return nil, newError(KindInvalidArgument, dto.CodeUpdatePrompt, err)
	}

	prompt, err := resolveOwned(ctx, p, req.ID, false, promptLoader(s.store),
		guardCodes{invalid: dto.CodeUpdatePrompt, denied: dto.CodeUpdatePromptDenied})
	if err != nil {
		return nil, err
	}
	if prompt.SuiteID.String() != strings.ToLower(strings.TrimSpace(req.SuiteID)) {
		return nil, notFound(dto.CodeUpdatePromptDenied)
	}

	edit := store.PromptEdit{
		Name:         strings.TrimSpace(req.Name),
		Parameters:   req.Parameters,
		Messages:     req.Messages,
		Variables:    jsonArrayOrEmpty(req.Variables),
		Functions:    jsonArrayOrEmpty(req.Functions),
		BatchConfigs: jsonArrayOrEmpty(req.BatchConfigs),
	}
	if len(edit.Parameters) == 0 {
		edit.Parameters = prompt.Parameters
	}
	if edit.Messages == nil {
		edit.Messages = []models.Message(prompt.Messages)
	}
	if req.ToolChoice != nil && strings.TrimSpace(*req.ToolChoice) != "" {
		edit.ToolChoice = req.ToolChoice
	}

	updated, err := s.store.Prompts().Update(ctx, prompt.ID, p.ID(), prompt.SuiteID, edit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(dto.CodeUpdatePromptDenied)
		}
		return nil, internal(dto.CodeUpdatePrompt, err)
	}
	return updated, nil
}

// Remove soft-deletes a prompt. Its history rows are left in place.
// Removing an already deleted prompt succeeds without writing.
func (s *PromptService) Remove(ctx context.Context, p *Principal, id string) error {
	prompt, err := resolveOwned(ctx, p, id, true, promptLoader(s.store),
		guardCodes{invalid: dto.CodeRemovePrompt, denied: dto.CodeRemoveSuiteDenied})
	if err != nil {
		return err
	}
	if prompt.IsDeleted() {
		return nil
	}

	if _, err := s.store.Prompts().SoftDelete(ctx, prompt.ID, p.ID()); err != nil {
		return internal(dto.CodeRemovePrompt, err)
	}
	return nil
}

// Get returns a live prompt together with its suite's name.
func (s *PromptService) Get(ctx context.Context, p *Principal, id string) (*dto.PromptDetail, error) {
	prompt, err := resolveOwned(ctx, p, id, false, promptLoader(s.store),
		guardCodes{invalid: dto.CodeGetPrompt, denied: dto.CodeGetPromptDenied})
	if err != nil {
		return nil, err
	}

	detail := &dto.PromptDetail{Prompt: *prompt}
	suite, err := s.store.Suites().Get(ctx, prompt.SuiteID, true)
	if err != nil {
		return nil, internal(dto.CodeGetPrompt, err)
	}
	detail.SuiteName = suite.Name
	return detail, nil
}
