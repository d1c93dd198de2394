package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/skilltree"
)

// Save replaces the stored tree (viewport, nodes and edges) in one transaction.
func (s *PGStore) Save(ctx context.Context, snap *skilltree.Snapshot) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("skilltree: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var x, y, zoom *float64
	if vp := snap.Viewport; vp != nil {
		x, y, zoom = &vp.X, &vp.Y, &vp.Zoom
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO skill_trees (tree_id, vp_x, vp_y, vp_zoom, updated_at) VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (tree_id) DO UPDATE SET vp_x = $2, vp_y = $3, vp_zoom = $4, updated_at = NOW()`,
		s.treeID, x, y, zoom,
	); err != nil {
		return fmt.Errorf("skilltree: upsert tree: %w", err)
	}

	// Replace semantics: edges go first because they reference nodes.
	if _, err := tx.Exec(ctx, `DELETE FROM skill_edges WHERE tree_id = $1`, s.treeID); err != nil {
		return fmt.Errorf("skilltree: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM skill_nodes WHERE tree_id = $1`, s.treeID); err != nil {
		return fmt.Errorf("skilltree: delete nodes: %w", err)
	}

	if err := insertNodes(ctx, tx, s.treeID, snap.Nodes); err != nil {
		return err
	}
	if err := insertEdges(ctx, tx, s.treeID, snap.Edges); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("skilltree: commit: %w", err)
	}
	return nil
}

// Load retrieves the stored tree.
// Returns nil, nil if the tree was never saved.
func (s *PGStore) Load(ctx context.Context) (*skilltree.Snapshot, error) {
	var x, y, zoom *float64
	err := s.db.QueryRow(ctx,
		`SELECT vp_x, vp_y, vp_zoom FROM skill_trees WHERE tree_id = $1`, s.treeID,
	).Scan(&x, &y, &zoom)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("skilltree: get tree: %w", err)
	}

	snap := &skilltree.Snapshot{}
	if x != nil && y != nil && zoom != nil {
		snap.Viewport = &skilltree.Viewport{X: *x, Y: *y, Zoom: *zoom}
	}

	if snap.Nodes, err = listNodes(ctx, s.db, s.treeID); err != nil {
		return nil, err
	}
	if snap.Edges, err = listEdges(ctx, s.db, s.treeID); err != nil {
		return nil, err
	}
	return snap, nil
}

// DeleteTree removes the tree and everything in it.
// No error if the tree doesn't exist.
func (s *PGStore) DeleteTree(ctx context.Context) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("skilltree: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM skill_edges WHERE tree_id = $1`, s.treeID); err != nil {
		return fmt.Errorf("skilltree: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM skill_nodes WHERE tree_id = $1`, s.treeID); err != nil {
		return fmt.Errorf("skilltree: delete nodes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM skill_trees WHERE tree_id = $1`, s.treeID); err != nil {
		return fmt.Errorf("skilltree: delete tree: %w", err)
	}

	return tx.Commit(ctx)
}
