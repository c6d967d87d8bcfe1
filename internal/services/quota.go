package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

const (
	BasicPromptLimit   = 3
	BasicHistoryWindow = 100

	DefaultPageSize = 10
)

var ErrPromptQuota = newError(KindQuotaExceeded, dto.CodePromptQuota, nil)

// QuotaPolicy applies the basic tier limits. Plus members are never limited.
type QuotaPolicy struct {
	store store.Store
}

func NewQuotaPolicy(st store.Store) *QuotaPolicy {
	return &QuotaPolicy{store: st}
}

// AllowPromptCreate fails with ErrPromptQuota when a basic member already has
// BasicPromptLimit live prompts across their live suites. tx must be the
// transaction that performs the insert: the user row stays locked until it
// ends, so concurrent creates by the same member are counted one at a time.
func (q *QuotaPolicy) AllowPromptCreate(ctx context.Context, tx store.Store, p *Principal) error {
	if !p.IsBasic() {
		return nil
	}
	if err := tx.Users().Lock(ctx, p.ID()); err != nil {
		return internal(dto.CodeSystem, err)
	}

	suites, err := tx.Suites().ListActive(ctx, p.ID(), true)
	if err != nil {
		return internal(dto.CodeSystem, err)
	}
	if len(suites) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(suites))
	for i := range suites {
		ids[i] = suites[i].ID
	}
	count, err := tx.Prompts().CountActive(ctx, p.ID(), ids)
	if err != nil {
		return internal(dto.CodeSystem, err)
	}
	if count >= BasicPromptLimit {
		return ErrPromptQuota
	}
	return nil
}

// HistoryPage is a 1-based page request over a prompt's history.
type HistoryPage struct {
	PromptID uuid.UUID
	Labels   []models.Label
	Size     int
	Index    int
}

func (pg HistoryPage) bounds() (offset, limit int) {
	limit = pg.Size
	if limit <= 0 {
		limit = DefaultPageSize
	}
	index := pg.Index
	if index < 1 {
		index = 1
	}
	return (index - 1) * limit, limit
}

// ListHistory returns one page of history, newest first. A basic member whose
// prompt has more than BasicHistoryWindow live rows only sees the newest
// BasicHistoryWindow of them; the label filter and paging apply inside that
// window and reachLimit is set whenever the page comes back short.
func (q *QuotaPolicy) ListHistory(ctx context.Context, p *Principal, pg HistoryPage) ([]models.History, bool, error) {
	offset, limit := pg.bounds()

	if p.IsBasic() {
		total, err := q.store.Histories().CountActive(ctx, pg.PromptID)
		if err != nil {
			return nil, false, err
		}
		if total > BasicHistoryWindow {
			window, err := q.store.Histories().Recent(ctx, pg.PromptID, BasicHistoryWindow)
			if err != nil {
				return nil, false, err
			}
			filtered := filterLabels(window, pg.Labels)
			page := slicePage(filtered, offset, limit)
			return page, len(page) < limit, nil
		}
	}

	rows, err := q.store.Histories().List(ctx, store.HistoryQuery{
		PromptID: pg.PromptID,
		Labels:   pg.Labels,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		return nil, false, err
	}
	return rows, false, nil
}

func filterLabels(rows []models.History, labels []models.Label) []models.History {
	if len(labels) == 0 {
		return rows
	}
	wanted := make(map[models.Label]bool, len(labels))
	for _, l := range labels {
		wanted[l] = true
	}
	out := make([]models.History, 0, len(rows))
	for _, h := range rows {
		if wanted[h.Label] {
			out = append(out, h)
		}
	}
	return out
}

func slicePage(rows []models.History, offset, limit int) []models.History {
	if offset >= len(rows) {
		return []models.History{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
