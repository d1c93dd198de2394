package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/skilltree"
)

// insertEdges writes edges in slice order with their current styling.
func insertEdges(ctx context.Context, q querier, treeID string, edges []skilltree.Edge) error {
	for i, e := range edges {
		style, err := json.Marshal(e.Style)
		if err != nil {
			return fmt.Errorf("skilltree: encode edge %s: %w", e.ID, err)
		}
		marker, err := json.Marshal(e.MarkerEnd)
		if err != nil {
			return fmt.Errorf("skilltree: encode edge %s: %w", e.ID, err)
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO skill_edges (tree_id, id, ord, source, target, type, animated, style, marker_end)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			treeID, e.ID, i, e.Source, e.Target, e.Type, e.Animated, style, marker,
		); err != nil {
			return fmt.Errorf("skilltree: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns all edges of a tree in their saved order.
// Returns an empty slice (not nil) if none found.
func listEdges(ctx context.Context, q querier, treeID string) ([]skilltree.Edge, error) {
	rows, err := q.Query(ctx,
		`SELECT id, source, target, type, animated, style, marker_end FROM skill_edges WHERE tree_id = $1 ORDER BY ord`, treeID)
	if err != nil {
		return nil, fmt.Errorf("skilltree: list edges: %w", err)
	}
	defer rows.Close()

	edges := []skilltree.Edge{}
	for rows.Next() {
		var (
			e             skilltree.Edge
			style, marker []byte
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &e.Type, &e.Animated, &style, &marker); err != nil {
			return nil, fmt.Errorf("skilltree: scan edge: %w", err)
		}
		if err := json.Unmarshal(style, &e.Style); err != nil {
			return nil, fmt.Errorf("skilltree: decode edge %s: %w", e.ID, err)
		}
		if err := json.Unmarshal(marker, &e.MarkerEnd); err != nil {
			return nil, fmt.Errorf("skilltree: decode edge %s: %w", e.ID, err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skilltree: rows edges: %w", err)
	}

	return edges, nil
}
