// Package store holds the entity collections behind the service layer.
// Every owned collection is soft-deleted through models.Lifecycle and every
// mutating method matches on id, owner and active state in a single statement.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPaymentCustomer(ctx context.Context, customerID string) (*models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdateSettings(ctx context.Context, id uuid.UUID, settings models.APISettings) error
	SetPaymentCustomer(ctx context.Context, id uuid.UUID, customerID string) error
	ApplyMembership(ctx context.Context, id uuid.UUID, membership models.Membership, expiresAt time.Time) error
	// Lock holds the user row until the surrounding transaction ends. Outside
	// InTx it only checks that the row exists.
	Lock(ctx context.Context, id uuid.UUID) error
}

type SuiteRepository interface {
	Create(ctx context.Context, suite *models.Suite) error
	// Get loads a suite by id. Deleted rows are returned only when includeDeleted is set.
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Suite, error)
	// ListActive returns the owner's live suites ordered by creation time.
	ListActive(ctx context.Context, owner uuid.UUID, newestFirst bool) ([]models.Suite, error)
	Rename(ctx context.Context, id, owner uuid.UUID, name string) (*models.Suite, error)
	// SoftDelete reports whether a live row transitioned to deleted.
	SoftDelete(ctx context.Context, id, owner uuid.UUID) (bool, error)
}

// PromptEdit is the full replacement applied by a prompt sync.
type PromptEdit struct {
	Name         string
	Parameters   []byte
	Messages     []models.Message
	Variables    []byte
	Functions    []byte
	ToolChoice   *string
	BatchConfigs []byte
}

type PromptRepository interface {
	Create(ctx context.Context, prompt *models.Prompt) error
	Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Prompt, error)
	ListBySuite(ctx context.Context, owner, suite uuid.UUID) ([]models.Prompt, error)
	// CountActive counts the owner's live prompts inside the given suites.
	CountActive(ctx context.Context, owner uuid.UUID, suites []uuid.UUID) (int64, error)
	// LatestActive returns the most recently updated live prompt inside the given suites.
	LatestActive(ctx context.Context, owner uuid.UUID, suites []uuid.UUID) (*models.Prompt, error)
	Rename(ctx context.Context, id, owner uuid.UUID, name string) (*models.Prompt, error)
	Update(ctx context.Context, id, owner, suite uuid.UUID, edit PromptEdit) (*models.Prompt, error)
	SoftDelete(ctx context.Context, id, owner uuid.UUID) (bool, error)
	SoftDeleteBySuite(ctx context.Context, owner, suite uuid.UUID) (int64, error)
}

// HistoryQuery selects one page of a prompt's live history, newest first.
type HistoryQuery struct {
	PromptID uuid.UUID
	Labels   []models.Label
	Offset   int
	Limit    int
}

type HistoryRepository interface {
	Create(ctx context.Context, history *models.History) error
	Get(ctx context.Context, id uuid.UUID) (*models.History, error)
	SetLabel(ctx context.Context, id, owner uuid.UUID, label models.Label) (*models.History, error)
	CountActive(ctx context.Context, prompt uuid.UUID) (int64, error)
	// Recent returns the newest live rows of a prompt, unfiltered.
	Recent(ctx context.Context, prompt uuid.UUID, limit int) ([]models.History, error)
	List(ctx context.Context, q HistoryQuery) ([]models.History, error)
	SoftDeleteByPrompt(ctx context.Context, prompt uuid.UUID) (int64, error)
}

type OrderRepository interface {
	FindByTransaction(ctx context.Context, user uuid.UUID, transactionID string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
}

// Store groups the repositories. InTx runs fn against a transactional view;
// returning an error from fn rolls back every write made through tx.
type Store interface {
	Users() UserRepository
	Suites() SuiteRepository
	Prompts() PromptRepository
	Histories() HistoryRepository
	Orders() OrderRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
