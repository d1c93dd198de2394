// Package storetest holds the contract every skilltree.Store must satisfy.
package storetest

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/meikuraledutech/skilltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sample returns a small snapshot with every optional field populated.
func Sample() *skilltree.Snapshot {
	cost, maxLevel, icon := 3, 5, "flame"
	palette := skilltree.DefaultPalette()
	active := palette.EdgeOptions(true, false)

	return &skilltree.Snapshot{
		Nodes: []skilltree.Node{
			{
				ID:       "a",
				Type:     skilltree.TypeStart,
				Position: skilltree.Position{X: 10, Y: 20},
				Data: skilltree.NodeData{
					Name:      "Basics",
					Unlocked:  true,
					SkillType: skilltree.LabelStart,
				},
			},
			{
				ID:       "b",
				Type:     skilltree.TypeCapstone,
				Position: skilltree.Position{X: 10, Y: 140.5},
				Data: skilltree.NodeData{
					Name:        "Fireball",
					Description: "Throws fire",
					Cost:        &cost,
					MaxLevel:    &maxLevel,
					Icon:        &icon,
					SkillType:   skilltree.LabelCapstone,
				},
			},
		},
		Edges: []skilltree.Edge{
			{
				ID:        skilltree.EdgeID("a", "b"),
				Source:    "a",
				Target:    "b",
				Type:      skilltree.EdgeConnector,
				Animated:  active.Animated,
				Style:     active.Style,
				MarkerEnd: active.MarkerEnd,
			},
		},
		Viewport: &skilltree.Viewport{X: -12, Y: 4, Zoom: 1.25},
	}
}

// Run exercises store against the Store contract. The store must start empty.
func Run(t *testing.T, store skilltree.Store) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		snap, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap, "an empty store loads as nil")
	})

	t.Run("Save and Load", func(t *testing.T) {
		want := Sample()
		require.NoError(t, store.Save(ctx, want))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Save Replaces", func(t *testing.T) {
		next := Sample()
		next.Nodes = next.Nodes[:1]
		next.Edges = []skilltree.Edge{}
		next.Viewport = nil
		require.NoError(t, store.Save(ctx, next))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Len(t, got.Nodes, 1)
		assert.Empty(t, got.Edges)
		assert.Nil(t, got.Viewport)
	})

	t.Run("Engine Round Trip", func(t *testing.T) {
		e := skilltree.New(skilltree.WithStore(store))
		a := e.AddNode(skilltree.NodeData{Name: "A"}, skilltree.TypeStart, skilltree.Position{})
		b := e.AddNode(skilltree.NodeData{Name: "B"}, skilltree.TypeRegular, skilltree.Position{X: 1})
		require.NoError(t, e.AddEdge(a, b))
		require.NoError(t, e.UnlockNode(a))

		reopened := skilltree.Open(ctx, skilltree.WithStore(store))
		if diff := cmp.Diff(e.Snapshot(), reopened.Snapshot()); diff != "" {
			t.Errorf("reopened engine differs (-want +got):\n%s", diff)
		}
	})
}
