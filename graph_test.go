package skilltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func chain(ids ...string) []Edge {
	var edges []Edge
	for i := 0; i+1 < len(ids); i++ {
		edges = append(edges, Edge{ID: EdgeID(ids[i], ids[i+1]), Source: ids[i], Target: ids[i+1]})
	}
	return edges
}

func TestReaches(t *testing.T) {
	edges := chain("a", "b", "c")

	assert.True(t, reaches(edges, "a", "c"))
	assert.True(t, reaches(edges, "b", "b"), "a node reaches itself")
	assert.False(t, reaches(edges, "c", "a"))
	assert.False(t, reaches(nil, "a", "b"))
}

func TestClosure_DiamondVisitsOnce(t *testing.T) {
	edges := append(chain("a", "b", "d"), chain("a", "c", "d")...)
	edges = append(edges, chain("d", "e")...)

	got := closure(edges, "a")

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, got)
	assert.Equal(t, "a", got[0])
}

func TestValidateAcyclic(t *testing.T) {
	nodes := []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.NoError(t, validateAcyclic(nodes, chain("a", "b", "c")))
	assert.ErrorIs(t, validateAcyclic(nodes, chain("a", "b", "c", "a")), ErrCyclicDependency)
	assert.ErrorIs(t, validateAcyclic(nodes, chain("b", "b")), ErrCyclicDependency)
}

func TestSnapshotValidate(t *testing.T) {
	node := func(id string) Node { return Node{ID: id, Type: TypeRegular, Data: NodeData{Name: id}} }

	valid := &Snapshot{Nodes: []Node{node("a"), node("b")}, Edges: chain("a", "b")}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, (&Snapshot{}).Validate())

	cases := map[string]*Snapshot{
		"empty id":       {Nodes: []Node{node("")}},
		"duplicate node": {Nodes: []Node{node("a"), node("a")}},
		"bad type":       {Nodes: []Node{{ID: "a", Type: "boss", Data: NodeData{Name: "A"}}}},
		"no name":        {Nodes: []Node{{ID: "a", Type: TypeStart}}},
		"dangling":       {Nodes: []Node{node("a")}, Edges: chain("a", "z")},
		"duplicate pair": {Nodes: []Node{node("a"), node("b")}, Edges: append(chain("a", "b"), Edge{ID: "x", Source: "a", Target: "b"})},
		"empty edge id":  {Nodes: []Node{node("a"), node("b")}, Edges: []Edge{{Source: "a", Target: "b"}}},
		"duplicate edge id": {
			Nodes: []Node{node("a-b"), node("c"), node("a"), node("b-c")},
			Edges: []Edge{
				{ID: EdgeID("a-b", "c"), Source: "a-b", Target: "c"},
				{ID: EdgeID("a", "b-c"), Source: "a", Target: "b-c"},
			},
		},
		"cycle": {Nodes: []Node{node("a"), node("b")}, Edges: chain("a", "b", "a")},
	}
	for name, snap := range cases {
		assert.ErrorIs(t, snap.Validate(), ErrMalformedSnapshot, name)
	}

	var missing *Snapshot
	assert.ErrorIs(t, missing.Validate(), ErrMalformedSnapshot)
}
