package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/datatypes"
)

type HistoryService struct {
	store store.Store
	quota *QuotaPolicy
}

func NewHistoryService(st store.Store, quota *QuotaPolicy) *HistoryService {
	return &HistoryService{store: st, quota: quota}
}

var nonEmptyArray = validation.By(func(value interface{}) error {
	raw, _ := value.(json.RawMessage)
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return errors.New("must be a JSON array")
	}
	if len(items) == 0 {
		return errors.New("cannot be empty")
	}
	return nil
})

func validateHistory(req *dto.AddHistoryRequest) error {
	if req.History == nil {
		return errors.New("history: cannot be blank")
	}
	h := req.History
	if err := validation.Validate(req.PromptID, notBlank); err != nil {
		return err
	}
	return validation.ValidateStruct(h,
		validation.Field(&h.ExecutionTime, validation.Required, validation.Min(int64(1))),
		validation.Field(&h.Executions, nonEmptyArray),
		validation.Field(&h.Config, validation.Required, validJSON),
	)
}

// Add records one execution of a live prompt the caller owns.
func (s *HistoryService) Add(ctx context.Context, p *Principal, req *dto.AddHistoryRequest) (*models.History, error) {
	if err := validateHistory(req); err != nil {
		return nil, newError(KindInvalidArgument, dto.CodeAddHistory, err)
	}

	prompt, err := resolveOwned(ctx, p, req.PromptID, false, promptLoader(s.store),
		guardCodes{invalid: dto.CodeAddHistory, denied: dto.CodeAddHistoryDenied})
	if err != nil {
		return nil, err
	}

	history := &models.History{
		OwnerID:       p.ID(),
		PromptID:      prompt.ID,
		ExecutionTime: time.UnixMilli(req.History.ExecutionTime).UTC(),
		Config:        datatypes.JSON(req.History.Config),
		Executions:    datatypes.JSON(req.History.Executions),
		Label:         models.LabelUntagged,
	}
	if fp := strings.TrimSpace(req.History.SystemFingerprint); fp != "" {
		history.SystemFingerprint = &fp
	}

	if err := s.store.Histories().Create(ctx, history); err != nil {
		return nil, internal(dto.CodeAddHistory, err)
	}
	return history, nil
}

// Label sets the label of one history row. Setting the current label returns
// the row unchanged.
func (s *HistoryService) Label(ctx context.Context, p *Principal, id string, label json.RawMessage) (*models.History, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid(dto.CodeLabelHistory, "empty id")
	}
	if err := validation.Validate(label, labelRule); err != nil {
		return nil, newError(KindInvalidArgument, dto.CodeLabelHistory, err)
	}
	want, _ := decodeLabel(label)

	history, err := resolveOwned(ctx, p, id, false, historyLoader(s.store),
		guardCodes{invalid: dto.CodeLabelHistory, denied: dto.CodeLabelHistoryDenied})
	if err != nil {
		return nil, err
	}
	if history.Label == want {
		return history, nil
	}

	updated, err := s.store.Histories().SetLabel(ctx, history.ID, p.ID(), want)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(dto.CodeLabelHistoryDenied)
		}
		return nil, internal(dto.CodeLabelHistory, err)
	}
	return updated, nil
}

// RemoveAll soft-deletes every live history row of a live prompt the caller owns.
func (s *HistoryService) RemoveAll(ctx context.Context, p *Principal, promptID string) (int64, error) {
	prompt, err := resolveOwned(ctx, p, promptID, false, promptLoader(s.store),
		guardCodes{invalid: dto.CodeClearHistory, denied: dto.CodeClearHistoryDenied})
	if err != nil {
		return 0, err
	}

	n, err := s.store.Histories().SoftDeleteByPrompt(ctx, prompt.ID)
	if err != nil {
		return 0, internal(dto.CodeClearHistory, err)
	}
	return n, nil
}

// List pages through a live prompt's history. Page fields default to size
// DefaultPageSize and index 1.
func (s *HistoryService) List(ctx context.Context, p *Principal, req *dto.ListHistoryRequest) (*dto.HistoryPage, error) {
	prompt, err := resolveOwned(ctx, p, req.PromptID, false, promptLoader(s.store),
		guardCodes{invalid: dto.CodeListHistory, denied: dto.CodeListHistoryDenied})
	if err != nil {
		return nil, err
	}

	page := HistoryPage{PromptID: prompt.ID, Size: pageNumber(req.PageSize), Index: pageNumber(req.PageIndex)}
	if req.Filter != nil {
		labels, err := decodeLabelFilter(req.Filter.Label)
		if err != nil {
			return nil, newError(KindInvalidArgument, dto.CodeListHistory, err)
		}
		page.Labels = labels
	}

	rows, reachLimit, err := s.quota.ListHistory(ctx, p, page)
	if err != nil {
		return nil, internal(dto.CodeListHistory, err)
	}
	if rows == nil {
		rows = []models.History{}
	}
	return &dto.HistoryPage{Histories: rows, ReachLimit: reachLimit}, nil
}
