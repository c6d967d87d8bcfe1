package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
)

type SuiteService struct {
	store store.Store
}

func NewSuiteService(st store.Store) *SuiteService {
	return &SuiteService{store: st}
}

// List returns the caller's live suites, oldest first.
func (s *SuiteService) List(ctx context.Context, p *Principal) ([]models.Suite, error) {
	suites, err := s.store.Suites().ListActive(ctx, p.ID(), false)
	if err != nil {
		return nil, internal(dto.CodeSystem, err)
	}
	if suites == nil {
		suites = []models.Suite{}
	}
	return suites, nil
}

func (s *SuiteService) Create(ctx context.Context, p *Principal, name string) (*models.Suite, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultSuiteName
	}

	suite := &models.Suite{Name: name, OwnerID: p.ID()}
	if err := s.store.Suites().Create(ctx, suite); err != nil {
		return nil, internal(dto.CodeCreateSuite, err)
	}
	return suite, nil
}

func (s *SuiteService) Rename(ctx context.Context, p *Principal, id, name string) (*models.Suite, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid(dto.CodeUpdateSuite, "empty id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(dto.CodeSuiteNameEmpty, "empty name")
	}

	suite, err := resolveOwned(ctx, p, id, false, suiteLoader(s.store),
		guardCodes{invalid: dto.CodeUpdateSuite, denied: dto.CodeUpdateSuiteDenied})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Suites().Rename(ctx, suite.ID, p.ID(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(dto.CodeUpdateSuiteDenied)
		}
		return nil, internal(dto.CodeUpdateSuite, err)
	}
	return updated, nil
}

// Remove soft-deletes a suite and every live prompt the caller owns in it.
// Removing an already deleted suite succeeds without writing.
func (s *SuiteService) Remove(ctx context.Context, p *Principal, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid(dto.CodeRemoveSuite, "empty id")
	}

	suite, err := resolveOwned(ctx, p, id, true, suiteLoader(s.store),
		guardCodes{invalid: dto.CodeRemoveSuite, denied: dto.CodeRemoveSuiteDenied})
	if err != nil {
		return err
	}
	if suite.IsDeleted() {
		return nil
	}

	var prompts int64
	err = s.store.InTx(ctx, func(tx store.Store) error {
		deleted, err := tx.Suites().SoftDelete(ctx, suite.ID, p.ID())
		if err != nil || !deleted {
			return err
		}
		prompts, err = tx.Prompts().SoftDeleteBySuite(ctx, p.ID(), suite.ID)
		return err
	})
	if err != nil {
		return internal(dto.CodeRemoveSuite, err)
	}

	slog.Info("suite removed", "user_id", p.ID().String(), "suite_id", suite.ID.String(), "prompts", prompts)
	return nil
}
