package skilltree

const (
	DefaultActiveColor = "var(--foreground)"
	DefaultDullColor   = "var(--muted)"

	// EdgeConnector is the connector type given to every new edge.
	EdgeConnector = "smoothstep"
	// MarkerArrowClosed is the only marker type edges use.
	MarkerArrowClosed = "arrowclosed"

	strokeWidth = 2
	markerSize  = 20
)

// EdgeStyle holds the stroke attributes of an edge.
type EdgeStyle struct {
	StrokeWidth int    `json:"strokeWidth"`
	Stroke      string `json:"stroke"`
}

// Marker is the arrow drawn at the target end of an edge.
type Marker struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Color  string `json:"color"`
}

// Palette picks the colours used by EdgeOptions.
type Palette struct {
	Active string `yaml:"active" json:"active"`
	Dull   string `yaml:"dull" json:"dull"`
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{Active: DefaultActiveColor, Dull: DefaultDullColor}
}

// EdgeOptions is the derived presentation of an edge.
type EdgeOptions struct {
	Animated  bool
	Style     EdgeStyle
	MarkerEnd Marker
}

// EdgeOptions derives edge presentation from the endpoint states:
// an unlocked source with a locked target animates ("unlock this next"),
// two unlocked endpoints draw a solid active path, and anything with a
// locked source is dull.
func (p Palette) EdgeOptions(sourceUnlocked, targetUnlocked bool) EdgeOptions {
	animated := false
	color := p.Dull

	switch {
	case sourceUnlocked && !targetUnlocked:
		animated = true
		color = p.Active
	case sourceUnlocked && targetUnlocked:
		color = p.Active
	}

	return EdgeOptions{
		Animated: animated,
		Style:    EdgeStyle{StrokeWidth: strokeWidth, Stroke: color},
		MarkerEnd: Marker{
			Type:   MarkerArrowClosed,
			Width:  markerSize,
			Height: markerSize,
			Color:  color,
		},
	}
}

// applyTo copies the options onto e.
func (o EdgeOptions) applyTo(e *Edge) {
	e.Animated = o.Animated
	e.Style = o.Style
	e.MarkerEnd = o.MarkerEnd
}
