package skilltree

// NodeType is the flow type of a node on the canvas.
type NodeType string

const (
	TypeStart    NodeType = "start"
	TypeRegular  NodeType = "regular"
	TypeCapstone NodeType = "capstone"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case TypeStart, TypeRegular, TypeCapstone:
		return true
	}
	return false
}

// SkillLabel is the human readable name of a node type.
type SkillLabel string

const (
	LabelStart    SkillLabel = "Skill Tree Start"
	LabelRegular  SkillLabel = "Regular Skill"
	LabelCapstone SkillLabel = "Capstone Skill"
)

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport is stored and persisted but never interpreted.
type Viewport struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// NodeData is the payload of a skill node.
type NodeData struct {
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description"`
	Cost        *int       `json:"cost,omitempty" validate:"omitempty,gte=0"`
	MaxLevel    *int       `json:"maxLevel,omitempty" validate:"omitempty,gte=1"`
	Icon        *string    `json:"icon,omitempty"`
	Unlocked    bool       `json:"unlocked"`
	SkillType   SkillLabel `json:"skillType,omitempty"`
}

// NodePatch holds the fields UpdateNode merges into NodeData.
// Nil fields are left untouched.
type NodePatch struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Cost        *int        `json:"cost,omitempty"`
	MaxLevel    *int        `json:"maxLevel,omitempty"`
	Icon        *string     `json:"icon,omitempty"`
	Unlocked    *bool       `json:"unlocked,omitempty"`
	SkillType   *SkillLabel `json:"skillType,omitempty"`
}

// Node is a skill in the tree.
type Node struct {
	ID       string   `json:"id"`
	Type     NodeType `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// Edge says Target depends on Source. Animated, Style and MarkerEnd are
// derived from the unlocked state of both endpoints.
type Edge struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Type      string    `json:"type,omitempty"`
	Animated  bool      `json:"animated"`
	Style     EdgeStyle `json:"style"`
	MarkerEnd Marker    `json:"markerEnd"`
}

// Snapshot is the complete, round-trippable state of an engine.
type Snapshot struct {
	Nodes    []Node    `json:"nodes"`
	Edges    []Edge    `json:"edges"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// EdgeID returns the deterministic id of the edge source -> target.
func EdgeID(sourceID, targetID string) string {
	return "edge-" + sourceID + "-" + targetID
}

func (d NodeData) clone() NodeData {
	c := d
	if d.Cost != nil {
		v := *d.Cost
		c.Cost = &v
	}
	if d.MaxLevel != nil {
		v := *d.MaxLevel
		c.MaxLevel = &v
	}
	if d.Icon != nil {
		v := *d.Icon
		c.Icon = &v
	}
	return c
}

func (n *Node) clone() Node {
	c := *n
	c.Data = n.Data.clone()
	return c
}

// apply merges p into d in place and reports whether Unlocked was set.
// An empty name is ignored.
func (p NodePatch) apply(d *NodeData) bool {
	if p.Name != nil && *p.Name != "" {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Cost != nil {
		v := *p.Cost
		d.Cost = &v
	}
	if p.MaxLevel != nil {
		v := *p.MaxLevel
		d.MaxLevel = &v
	}
	if p.Icon != nil {
		v := *p.Icon
		d.Icon = &v
	}
	if p.SkillType != nil {
		d.SkillType = *p.SkillType
	}
	if p.Unlocked != nil {
		d.Unlocked = *p.Unlocked
		return true
	}
	return false
}
