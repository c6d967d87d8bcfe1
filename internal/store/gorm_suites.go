package store

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormSuites struct {
	db *gorm.DB
}

func (r *gormSuites) Create(ctx context.Context, suite *models.Suite) error {
	if suite.ID == uuid.Nil {
		suite.ID = uuid.New()
	}
	if suite.State == "" {
		suite.State = models.LifecycleActive
	}
	return translate(r.db.WithContext(ctx).Create(suite).Error, "create suite")
}

func (r *gormSuites) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Suite, error) {
	q := r.db.WithContext(ctx)
	if !includeDeleted {
		q = q.Scopes(Active())
	}
	var suite models.Suite
	if err := q.First(&suite, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get suite")
	}
	return &suite, nil
}

func (r *gormSuites) ListActive(ctx context.Context, owner uuid.UUID, newestFirst bool) ([]models.Suite, error) {
	order := "created_at ASC"
	if newestFirst {
		order = "created_at DESC"
	}
	var suites []models.Suite
	err := r.db.WithContext(ctx).
		Scopes(Active(), OwnedBy(owner)).
		Order(order).
		Find(&suites).Error
	return suites, translate(err, "list suites")
}

func (r *gormSuites) Rename(ctx context.Context, id, owner uuid.UUID, name string) (*models.Suite, error) {
	var suite models.Suite
	res := r.db.WithContext(ctx).Model(&suite).
		Clauses(clause.Returning{}).
		Scopes(Active(), OwnedBy(owner)).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, translate(res.Error, "rename suite")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "rename suite")
	}
	return &suite, nil
}

func (r *gormSuites) SoftDelete(ctx context.Context, id, owner uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Suite{}).
		Scopes(Active(), OwnedBy(owner)).
		Where("id = ?", id).
		Updates(map[string]interface{}{"state": models.LifecycleDeleted, "updated_at": time.Now()})
	if res.Error != nil {
		return false, translate(res.Error, "delete suite")
	}
	return res.RowsAffected > 0, nil
}
