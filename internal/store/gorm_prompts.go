package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormPrompts struct {
	db *gorm.DB
}

func (r *gormPrompts) Create(ctx context.Context, prompt *models.Prompt) error {
	if prompt.ID == uuid.Nil {
		prompt.ID = uuid.New()
	}
	if prompt.State == "" {
		prompt.State = models.LifecycleActive
	}
	return translate(r.db.WithContext(ctx).Create(prompt).Error, "create prompt")
}

func (r *gormPrompts) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Prompt, error) {
	q := r.db.WithContext(ctx)
	if !includeDeleted {
		q = q.Scopes(Active())
	}
	var prompt models.Prompt
	if err := q.First(&prompt, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get prompt")
	}
	return &prompt, nil
}

func (r *gormPrompts) ListBySuite(ctx context.Context, owner, suite uuid.UUID) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := r.db.WithContext(ctx).
		Scopes(Active(), OwnedBy(owner)).
		Where("suite_id = ?", suite).
		Order("created_at ASC").
		Find(&prompts).Error
	return prompts, translate(err, "list prompts")
}

func (r *gormPrompts) CountActive(ctx context.Context, owner uuid.UUID, suites []uuid.UUID) (int64, error) {
	if len(suites) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Prompt{}).
		Scopes(Active(), OwnedBy(owner)).
		Where("suite_id IN ?", suites).
		Count(&count).Error
	return count, translate(err, "count prompts")
}

func (r *gormPrompts) LatestActive(ctx context.Context, owner uuid.UUID, suites []uuid.UUID) (*models.Prompt, error) {
	if len(suites) == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "latest prompt")
	}
	var prompt models.Prompt
	err := r.db.WithContext(ctx).
		Scopes(Active(), OwnedBy(owner)).
		Where("suite_id IN ?", suites).
		Order("updated_at DESC").
		First(&prompt).Error
	if err != nil {
		return nil, translate(err, "latest prompt")
	}
	return &prompt, nil
}

func (r *gormPrompts) Rename(ctx context.Context, id, owner uuid.UUID, name string) (*models.Prompt, error) {
	return r.updateReturning(ctx, r.db.WithContext(ctx).Where("id = ?", id), owner,
		map[string]interface{}{"name": name}, "rename prompt")
}

func (r *gormPrompts) Update(ctx context.Context, id, owner, suite uuid.UUID, edit PromptEdit) (*models.Prompt, error) {
	fields := map[string]interface{}{
		"name":          edit.Name,
		"parameters":    datatypes.JSON(edit.Parameters),
		"messages":      datatypes.JSONSlice[models.Message](edit.Messages),
		"variables":     datatypes.JSON(edit.Variables),
		"functions":     datatypes.JSON(edit.Functions),
		"tool_choice":   edit.ToolChoice,
		"batch_configs": datatypes.JSON(edit.BatchConfigs),
	}
	q := r.db.WithContext(ctx).Where("id = ? AND suite_id = ?", id, suite)
	return r.updateReturning(ctx, q, owner, fields, "update prompt")
}

func (r *gormPrompts) updateReturning(ctx context.Context, q *gorm.DB, owner uuid.UUID, fields map[string]interface{}, what string) (*models.Prompt, error) {
	fields["updated_at"] = time.Now()
	var prompt models.Prompt
	res := q.Model(&prompt).
		Clauses(clause.Returning{}).
		Scopes(Active(), OwnedBy(owner)).
		Updates(fields)
	if res.Error != nil {
		return nil, translate(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, what)
	}
	return &prompt, nil
}

func (r *gormPrompts) SoftDelete(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Prompt{}).
		Scopes(Active(), OwnedBy(owner)).
		Where("id = ?", id).
		Updates(map[string]interface{}{"state": models.LifecycleDeleted, "updated_at": time.Now()})
	if res.Error != nil {
		return false, translate(res.Error, "delete prompt")
	}
	return res.RowsAffected > 0, nil
}

func (r *gormPrompts) SoftDeleteBySuite(ctx context.Context, owner, suite uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Prompt{}).
		Scopes(Active(), OwnedBy(owner)).
		Where("suite_id = ?", suite).
		Updates(map[string]interface{}{"state": models.LifecycleDeleted, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, translate(res.Error, "delete suite prompts")
	}
	return res.RowsAffected, nil
}
