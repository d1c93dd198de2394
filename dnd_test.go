package skilltree_test

import (
	"testing"

	"github.com/meikuraledutech/skilltree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowTypeFromDragType(t *testing.T) {
	cases := map[string]skilltree.NodeType{
		"input":    skilltree.TypeStart,
		"start":    skilltree.TypeStart,
		"output":   skilltree.TypeCapstone,
		"capstone": skilltree.TypeCapstone,
		"regular":  skilltree.TypeRegular,
		"default":  skilltree.TypeRegular,
		"":         skilltree.TypeRegular,
	}
	for in, want := range cases {
		assert.Equal(t, want, skilltree.FlowTypeFromDragType(in), in)
	}
}

func TestSkillLabelFromType(t *testing.T) {
	assert.Equal(t, skilltree.LabelStart, skilltree.SkillLabelFromType("input"))
	assert.Equal(t, skilltree.LabelCapstone, skilltree.SkillLabelFromType("capstone"))
	assert.Equal(t, skilltree.LabelRegular, skilltree.SkillLabelFromType("anything"))
}

func TestDragSession_DropCreatesPendingDrop(t *testing.T) {
	s := skilltree.NewDragSession()

	s.Over()
	assert.False(t, s.DragOver(), "hovering without a drag does nothing")

	s.Start("input")
	s.Over()
	assert.True(t, s.Dragging())
	assert.True(t, s.DragOver())
	assert.Equal(t, "input", s.DraggedType())

	drop, ok := s.Drop(skilltree.Position{X: 5, Y: 6}, "output")
	require.True(t, ok)
	assert.Equal(t, skilltree.TypeStart, drop.FlowType, "dragged type wins over the payload")
	assert.Equal(t, skilltree.LabelStart, drop.SkillType)
	assert.Equal(t, skilltree.Position{X: 5, Y: 6}, drop.Position)

	assert.False(t, s.Dragging())
	assert.False(t, s.DragOver())
	assert.Empty(t, s.DraggedType())

	pending, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, *drop, pending)

	s.CancelPendingDrop()
	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestDragSession_DropUsesPayloadType(t *testing.T) {
	s := skilltree.NewDragSession()

	drop, ok := s.Drop(skilltree.Position{}, "capstone")
	require.True(t, ok)
	assert.Equal(t, skilltree.TypeCapstone, drop.FlowType)

	s.CancelPendingDrop()
	_, ok = s.Drop(skilltree.Position{}, "")
	assert.False(t, ok)
	_, ok = s.Pending()
	assert.False(t, ok)
}

func TestDragSession_LeaveAndEnd(t *testing.T) {
	s := skilltree.NewDragSession()
	s.Start("regular")
	s.Over()
	s.Leave()
	assert.False(t, s.DragOver())
	assert.True(t, s.Dragging())

	s.End()
	assert.False(t, s.Dragging())
}

func TestAddNodeFromDrop(t *testing.T) {
	e := newEngine(t)
	s := skilltree.NewDragSession()
	s.Start("output")
	drop, ok := s.Drop(skilltree.Position{X: 10, Y: 20}, "")
	require.True(t, ok)

	id := e.AddNodeFromDrop(*drop, skilltree.NodeData{Name: "Ultimate"})

	n, ok := e.Node(id)
	require.True(t, ok)
	assert.Equal(t, skilltree.TypeCapstone, n.Type)
	assert.Equal(t, skilltree.LabelCapstone, n.Data.SkillType)
	assert.Equal(t, skilltree.Position{X: 10, Y: 20}, n.Position)
	assert.False(t, n.Data.Unlocked)
}
