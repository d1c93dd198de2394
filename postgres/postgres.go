package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTreeID names the tree when none is given.
const DefaultTreeID = "skill-tree-data"

// PGStore implements skilltree.Store using PostgreSQL via pgx.
// Each store reads and writes a single tree.
type PGStore struct {
	db     *pgxpool.Pool
	treeID string
}

// New creates a new PGStore backed by the given pgx connection pool.
// An empty treeID selects DefaultTreeID.
func New(db *pgxpool.Pool, treeID string) *PGStore {
	if treeID == "" {
		treeID = DefaultTreeID
	}
	return &PGStore{db: db, treeID: treeID}
}

// TreeID returns the tree this store is bound to.
func (s *PGStore) TreeID() string {
	return s.treeID
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
