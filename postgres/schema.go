package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS skill_trees (
    tree_id    TEXT PRIMARY KEY,
    vp_x       DOUBLE PRECISION,
    vp_y       DOUBLE PRECISION,
    vp_zoom    DOUBLE PRECISION,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS skill_nodes (
    tree_id    TEXT NOT NULL REFERENCES skill_trees(tree_id) ON DELETE CASCADE,
    id         TEXT NOT NULL,
    ord        INTEGER NOT NULL,
    type       TEXT NOT NULL,
    pos_x      DOUBLE PRECISION NOT NULL,
    pos_y      DOUBLE PRECISION NOT NULL,
    data       JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (tree_id, id)
);

CREATE TABLE IF NOT EXISTS skill_edges (
    tree_id    TEXT NOT NULL,
    id         TEXT NOT NULL,
    ord        INTEGER NOT NULL,
    source     TEXT NOT NULL,
    target     TEXT NOT NULL,
    type       TEXT NOT NULL DEFAULT '',
    animated   BOOLEAN NOT NULL DEFAULT FALSE,
    style      JSONB NOT NULL DEFAULT '{}',
    marker_end JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (tree_id, id),
    UNIQUE (tree_id, source, target),
    FOREIGN KEY (tree_id, source) REFERENCES skill_nodes(tree_id, id) ON DELETE CASCADE,
    FOREIGN KEY (tree_id, target) REFERENCES skill_nodes(tree_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_skill_nodes_tree ON skill_nodes(tree_id, ord);
CREATE INDEX IF NOT EXISTS idx_skill_edges_tree ON skill_edges(tree_id, ord);
`

// CreateSchema creates the skill tree tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the skill tree tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS skill_edges, skill_nodes, skill_trees CASCADE;`)
	return err
}
