package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormHistories struct {
	db *gorm.DB
}

func (r *gormHistories) Create(ctx context.Context, history *models.History) error {
	if history.ID == uuid.Nil {
		history.ID = uuid.New()
	}
	if history.State == "" {
		history.State = models.LifecycleActive
	}
	return translate(r.db.WithContext(ctx).Create(history).Error, "create history")
}

func (r *gormHistories) Get(ctx context.Context, id uuid.UUID) (*models.History, error) {
	var history models.History
	if err := r.db.WithContext(ctx).Scopes(Active()).First(&history, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get history")
	}
	return &history, nil
}

func (r *gormHistories) SetLabel(ctx context.Context, id, owner uuid.UUID, label models.Label) (*models.History, error) {
	var history models.History
	res := r.db.WithContext(ctx).Model(&history).
		Clauses(clause.Returning{}).
		Scopes(Active(), OwnedBy(owner)).
		Where("id = ?", id).
		Updates(map[string]interface{}{"label": label, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, translate(res.Error, "label history")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "label history")
	}
	return &history, nil
}

func (r *gormHistories) CountActive(ctx context.Context, prompt uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.History{}).
		Scopes(Active()).
		Where("prompt_id = ?", prompt).
		Count(&count).Error
	return count, translate(err, "count histories")
}

func (r *gormHistories) Recent(ctx context.Context, prompt uuid.UUID, limit int) ([]models.History, error) {
	return r.List(ctx, HistoryQuery{PromptID: prompt, Limit: limit})
}

func (r *gormHistories) List(ctx context.Context, q HistoryQuery) ([]models.History, error) {
	query := r.db.WithContext(ctx).
		Scopes(Active()).
		Where("prompt_id = ?", q.PromptID)
	if len(q.Labels) > 0 {
		query = query.Where("label IN ?", q.Labels)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var histories []models.History
	err := query.Order("created_at DESC").Find(&histories).Error
	return histories, translate(err, "list histories")
}

func (r *gormHistories) SoftDeleteByPrompt(ctx context.Context, prompt uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.History{}).
		Scopes(Active()).
		Where("prompt_id = ?", prompt).
		Updates(map[string]interface{}{"state": models.LifecycleDeleted, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, translate(res.Error, "delete histories")
	}
	return res.RowsAffected, nil
}
