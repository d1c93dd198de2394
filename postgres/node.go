package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meikuraledutech/skilltree"
)

// insertNodes writes nodes in slice order.
func insertNodes(ctx context.Context, q querier, treeID string, nodes []skilltree.Node) error {
	for i, n := range nodes {
		data, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("skilltree: encode node %s: %w", n.ID, err)
		}
		if _, err := q.Exec(ctx,
			`INSERT INTO skill_nodes (tree_id, id, ord, type, pos_x, pos_y, data) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			treeID, n.ID, i, string(n.Type), n.Position.X, n.Position.Y, data,
		); err != nil {
			return fmt.Errorf("skilltree: insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

// listNodes returns all nodes of a tree in their saved order.
// Returns an empty slice (not nil) if none found.
func listNodes(ctx context.Context, q querier, treeID string) ([]skilltree.Node, error) {
	rows, err := q.Query(ctx,
		`SELECT id, type, pos_x, pos_y, data FROM skill_nodes WHERE tree_id = $1 ORDER BY ord`, treeID)
	if err != nil {
		return nil, fmt.Errorf("skilltree: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []skilltree.Node{}
	for rows.Next() {
		var (
			n    skilltree.Node
			typ  string
			data []byte
		)
		if err := rows.Scan(&n.ID, &typ, &n.Position.X, &n.Position.Y, &data); err != nil {
			return nil, fmt.Errorf("skilltree: scan node: %w", err)
		}
		n.Type = skilltree.NodeType(typ)
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("skilltree: decode node %s: %w", n.ID, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skilltree: rows nodes: %w", err)
	}

	return nodes, nil
}
