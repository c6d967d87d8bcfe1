// Package memstore is an in-memory store.Store. It backs the service tests
// and local runs with STORE_DRIVER=memory. Transactions work on a copy of
// the state that replaces the live state only when fn succeeds.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/prompter-backend/internal/store"
	"github.com/google/uuid"
)

type state struct {
	users     map[uuid.UUID]models.User
	suites    map[uuid.UUID]models.Suite
	prompts   map[uuid.UUID]models.Prompt
	histories map[uuid.UUID]models.History
	orders    map[uuid.UUID]models.Order
	seq       map[uuid.UUID]int64
	nextSeq   int64
	writes    int
}

func newState() *state {
	return &state{
		users:     make(map[uuid.UUID]models.User),
		suites:    make(map[uuid.UUID]models.Suite),
		prompts:   make(map[uuid.UUID]models.Prompt),
		histories: make(map[uuid.UUID]models.History),
		orders:    make(map[uuid.UUID]models.Order),
		seq:       make(map[uuid.UUID]int64),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.suites {
		c.suites[k] = v
	}
	for k, v := range s.prompts {
		c.prompts[k] = v
	}
	for k, v := range s.histories {
		c.histories[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.nextSeq = s.nextSeq
	c.writes = s.writes
	return c
}

func (s *state) track(id uuid.UUID) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

// Store is safe for concurrent use.
type Store struct {
	mu    *sync.Mutex
	state *state
	inTx  bool
	now   func() time.Time
}

func New() *Store {
	return &Store{mu: &sync.Mutex{}, state: newState(), now: time.Now}
}

// WithClock replaces the timestamp source. Tests use it to get distinct,
// ordered created/updated values.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Writes reports how many mutations have been applied.
func (s *Store) Writes() int {
	unlock := s.lock()
	defer unlock()
	return s.state.writes
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() store.UserRepository        { return &users{s} }
func (s *Store) Suites() store.SuiteRepository      { return &suites{s} }
func (s *Store) Prompts() store.PromptRepository    { return &prompts{s} }
func (s *Store) Histories() store.HistoryRepository { return &histories{s} }
func (s *Store) Orders() store.OrderRepository      { return &orders{s} }

func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, state: s.state.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func byCreated[T any](s *state, rows []T, id func(T) uuid.UUID, created func(T) time.Time, newestFirst bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		ci, cj := created(rows[i]), created(rows[j])
		if !ci.Equal(cj) {
			if newestFirst {
				return ci.After(cj)
			}
			return ci.Before(cj)
		}
		si, sj := s.seq[id(rows[i])], s.seq[id(rows[j])]
		if newestFirst {
			return si > sj
		}
		return si < sj
	})
}
