package skilltree

// FlowTypeFromDragType maps a palette drag type to a node type.
// "input" and "output" are the canvas library's built-in aliases.
func FlowTypeFromDragType(dragType string) NodeType {
	switch dragType {
	case "input", string(TypeStart):
		return TypeStart
	case "output", string(TypeCapstone):
		return TypeCapstone
	}
	return TypeRegular
}

// SkillLabelFromType maps a drag or node type to its human readable label.
func SkillLabelFromType(t string) SkillLabel {
	switch FlowTypeFromDragType(t) {
	case TypeStart:
		return LabelStart
	case TypeCapstone:
		return LabelCapstone
	}
	return LabelRegular
}

// PendingDrop is a completed drop waiting for the creation form.
type PendingDrop struct {
	Position  Position   `json:"position"`
	SkillType SkillLabel `json:"skillType"`
	FlowType  NodeType   `json:"flowType"`
}

// DragSession is the drag state shared by every UI entry point. The
// application shell owns a single instance and passes it to whoever needs it.
type DragSession struct {
	draggedType string
	dragOver    bool
	dragging    bool
	pending     *PendingDrop
}

// NewDragSession returns an idle session.
func NewDragSession() *DragSession {
	return &DragSession{}
}

// Start begins dragging a palette item of the given type.
func (s *DragSession) Start(dragType string) {
	s.draggedType = dragType
	s.dragging = true
}

// Over marks the pointer as hovering the canvas while a drag is active.
func (s *DragSession) Over() {
	if s.draggedType != "" {
		s.dragOver = true
	}
}

// Leave marks the pointer as having left the canvas.
func (s *DragSession) Leave() {
	s.dragOver = false
}

// End resets the drag flags. A pending drop survives.
func (s *DragSession) End() {
	s.dragging = false
	s.dragOver = false
	s.draggedType = ""
}

// Drop records a pending drop at pos. The dragged type wins over
// fallbackType, which stands in for the drag payload. With neither, the drag
// ends without a pending drop.
func (s *DragSession) Drop(pos Position, fallbackType string) (*PendingDrop, bool) {
	defer s.End()

	t := s.draggedType
	if t == "" {
		t = fallbackType
	}
	if t == "" {
		return nil, false
	}

	s.pending = &PendingDrop{
		Position:  pos,
		SkillType: SkillLabelFromType(t),
		FlowType:  FlowTypeFromDragType(t),
	}
	drop := *s.pending
	return &drop, true
}

// Pending returns the pending drop, if any.
func (s *DragSession) Pending() (PendingDrop, bool) {
	if s.pending == nil {
		return PendingDrop{}, false
	}
	return *s.pending, true
}

// CancelPendingDrop discards the pending drop.
func (s *DragSession) CancelPendingDrop() {
	s.pending = nil
}

// Dragging reports whether a drag is in progress.
func (s *DragSession) Dragging() bool { return s.dragging }

// DragOver reports whether the active drag hovers the canvas.
func (s *DragSession) DragOver() bool { return s.dragOver }

// DraggedType returns the type being dragged, or "".
func (s *DragSession) DraggedType() string { return s.draggedType }

// AddNodeFromDrop creates the node described by a pending drop once the
// creation form supplied its data. An empty data.SkillType takes the drop's.
func (e *Engine) AddNodeFromDrop(drop PendingDrop, data NodeData) string {
	if data.SkillType == "" {
		data.SkillType = drop.SkillType
	}
	return e.AddNode(data, drop.FlowType, drop.Position)
}
