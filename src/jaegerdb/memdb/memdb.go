// Package memdb is a jaegerdb.Gateway kept in process memory. It enforces the
// same keys and cascades as the Postgres schema and backs the server when no
// DB_URL is configured.
package memdb

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

type state struct {
	users     map[int64]jaegermodel.User
	companies map[int64]jaegermodel.Company
	apps      map[int64]jaegermodel.JobApplication
	rounds    map[int64]jaegermodel.InterviewRound
	lastID    map[string]int64
}

func newState() *state {
	return &state{
		users:     map[int64]jaegermodel.User{},
		companies: map[int64]jaegermodel.Company{},
		apps:      map[int64]jaegermodel.JobApplication{},
		rounds:    map[int64]jaegermodel.InterviewRound{},
		lastID:    map[string]int64{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:     maps.Clone(s.users),
		companies: maps.Clone(s.companies),
		apps:      maps.Clone(s.apps),
		rounds:    maps.Clone(s.rounds),
		lastID:    maps.Clone(s.lastID),
	}
}

func (s *state) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

// Store is safe for concurrent use. Transactions hold the store lock for
// their whole duration.
type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

var _ jaegerdb.Gateway = (*Store)(nil)

// Seed adds the sample companies the Postgres migrations ship with.
func (s *Store) Seed(ctx context.Context) error {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []jaegermodel.CompanyCreate{
		{Name: "Acme Corp", Website: ptr("https://acme.com"), Industry: ptr("Technology"), Location: ptr("San Francisco, CA")},
		{Name: "Tech Solutions Inc.", Website: ptr("https://techsolutions.com"), Industry: ptr("Software"), Location: ptr("New York, NY")},
	}
	for _, c := range seed {
		if _, err := s.Companies().Add(ctx, c.NewCompany(at)); err != nil {
			return err
		}
	}
	return nil
}

func ptr(s string) *string { return &s }

func (s *Store) Users() jaegerdb.UserRepository { return &userStore{view{s: s}} }

func (s *Store) Companies() jaegerdb.CompanyRepository { return &companyStore{view{s: s}} }

func (s *Store) Applications() jaegerdb.ApplicationRepository {
	return &applicationStore{view{s: s}}
}

func (s *Store) Rounds() jaegerdb.RoundRepository { return &roundStore{view{s: s}} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// InTx restores the previous state when fn fails.
func (s *Store) InTx(ctx context.Context, fn func(tx jaegerdb.Gateway) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	err := fn(&txGateway{view{s: s, tx: true}})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// view is how every repository reaches the state. Inside a transaction the
// store lock is already held.
type view struct {
	s  *Store
	tx bool
}

func (v view) do(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return jaegererr.Internal("memdb", err)
	}
	if !v.tx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	return fn(v.s.st)
}

type txGateway struct {
	v view
}

func (g *txGateway) Users() jaegerdb.UserRepository               { return &userStore{g.v} }
func (g *txGateway) Companies() jaegerdb.CompanyRepository        { return &companyStore{g.v} }
func (g *txGateway) Applications() jaegerdb.ApplicationRepository { return &applicationStore{g.v} }
func (g *txGateway) Rounds() jaegerdb.RoundRepository             { return &roundStore{g.v} }
func (g *txGateway) Ping(ctx context.Context) error               { return ctx.Err() }

func (g *txGateway) InTx(ctx context.Context, fn func(tx jaegerdb.Gateway) error) error {
	return fn(g)
}
