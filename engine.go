package skilltree

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/meikuraledutech/skilltree/internal/logging"
)

// Op names a mutating engine operation.
type Op string

const (
	OpAddNode     Op = "add_node"
	OpUpdateNode  Op = "update_node"
	OpDeleteNode  Op = "delete_node"
	OpDeleteAll   Op = "delete_all"
	OpAddEdge     Op = "add_edge"
	OpDeleteEdge  Op = "delete_edge"
	OpUnlock      Op = "unlock"
	OpLock        Op = "lock"
	OpResetAll    Op = "reset_all"
	OpSetViewport Op = "set_viewport"
	OpRestore     Op = "restore"
)

// Stats summarises the graph after a mutation.
type Stats struct {
	Nodes    int
	Edges    int
	Unlocked int
}

// Observer is notified after every mutation attempt and every failed commit.
type Observer interface {
	Mutated(op Op, err error, stats Stats)
	CommitFailed(op Op, err error)
}

// Engine is the in-memory skill graph. It is not safe for concurrent use:
// a single caller mutates it at a time.
type Engine struct {
	nodes    []*Node
	index    map[string]*Node
	edges    []Edge
	viewport *Viewport

	palette       Palette
	store         Store
	commitTimeout time.Duration
	logger        *slog.Logger
	observer      Observer
	newID         func() string
}

type Option func(*Engine)

// WithStore sets the collaborator that receives a snapshot after every
// successful mutation.
func WithStore(s Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithPalette overrides the edge colours.
func WithPalette(p Palette) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// WithIDGenerator overrides node id generation.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.newID = fn
	}
}

// WithObserver registers a mutation observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithCommitTimeout bounds each Save call made after a mutation.
func WithCommitTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.commitTimeout = d
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		index:         make(map[string]*Node),
		palette:       DefaultPalette(),
		commitTimeout: 5 * time.Second,
		logger:        logging.NewNop(),
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open creates an engine and loads its initial state from the configured
// store. An absent, unreadable or malformed snapshot leaves the engine empty.
func Open(ctx context.Context, opts ...Option) *Engine {
	e := New(opts...)
	if e.store == nil {
		return e
	}

	snap, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load snapshot, starting empty", "error", err)
		return e
	}
	if snap == nil {
		return e
	}
	if err := snap.Validate(); err != nil {
		e.logger.Warn("ignoring stored snapshot, starting empty", "error", err)
		return e
	}

	e.adopt(snap)
	e.logger.Info("snapshot loaded", "nodes", len(e.nodes), "edges", len(e.edges))
	return e
}

// Restore replaces the whole graph with s and re-derives edge styling.
func (e *Engine) Restore(s *Snapshot) error {
	if err := s.Validate(); err != nil {
		return e.reject(OpRestore, err)
	}
	e.adopt(s)
	e.commit(OpRestore)
	return nil
}

func (e *Engine) adopt(s *Snapshot) {
	e.nodes = make([]*Node, 0, len(s.Nodes))
	e.index = make(map[string]*Node, len(s.Nodes))
	for i := range s.Nodes {
		n := s.Nodes[i].clone()
		e.nodes = append(e.nodes, &n)
		e.index[n.ID] = &n
	}
	e.edges = slices.Clone(s.Edges)
	if e.edges == nil {
		e.edges = []Edge{}
	}
	e.viewport = nil
	if s.Viewport != nil {
		vp := *s.Viewport
		e.viewport = &vp
	}
	e.syncAllEdges()
}

// ── Nodes ─────────────────────────────────────────────────────────────

// AddNode appends a locked node and returns its generated id. An unknown
// type is stored as TypeRegular.
func (e *Engine) AddNode(data NodeData, typ NodeType, pos Position) string {
	if !typ.Valid() {
		typ = TypeRegular
	}
	if data.Name == "" {
		data.Name = string(SkillLabelFromType(string(typ)))
	}
	n := &Node{
		ID:       e.newID(),
		Type:     typ,
		Position: pos,
		Data:     data.clone(),
	}
	n.Data.Unlocked = false

	e.nodes = append(e.nodes, n)
	e.index[n.ID] = n
	e.commit(OpAddNode)
	return n.ID
}

// UpdateNode merges patch into the node's data in place. Changing the
// unlocked flag refreshes the node's incident edges. Unknown ids are ignored.
func (e *Engine) UpdateNode(id string, patch NodePatch) {
	n, ok := e.index[id]
	if !ok {
		return
	}
	if patch.apply(&n.Data) {
		e.updateConnectedEdges(id)
	}
	e.commit(OpUpdateNode)
}

// DeleteNode removes the node and every edge incident to it.
func (e *Engine) DeleteNode(id string) {
	if _, ok := e.index[id]; !ok {
		return
	}
	e.nodes = slices.DeleteFunc(e.nodes, func(n *Node) bool { return n.ID == id })
	delete(e.index, id)
	e.edges = slices.DeleteFunc(e.edges, func(edge Edge) bool {
		return edge.Source == id || edge.Target == id
	})
	e.commit(OpDeleteNode)
}

// DeleteAllNodes clears nodes and edges. The viewport is kept.
func (e *Engine) DeleteAllNodes() {
	e.nodes = nil
	e.index = make(map[string]*Node)
	e.edges = []Edge{}
	e.commit(OpDeleteAll)
}

// SetViewport stores vp verbatim.
func (e *Engine) SetViewport(vp Viewport) {
	e.viewport = &vp
	e.commit(OpSetViewport)
}

// ── Edges ─────────────────────────────────────────────────────────────

// AddEdge makes target depend on source. It fails with ErrDuplicateEdge if
// the ordered pair already exists, ErrCyclicDependency if the edge would
// close a cycle and ErrNodeNotFound if either endpoint is unknown.
func (e *Engine) AddEdge(sourceID, targetID string) error {
	id := EdgeID(sourceID, targetID)
	if e.hasEdge(sourceID, targetID) || e.hasEdgeID(id) {
		return e.reject(OpAddEdge, ErrDuplicateEdge)
	}
	if e.WouldCreateCycle(sourceID, targetID) {
		return e.reject(OpAddEdge, ErrCyclicDependency)
	}
	if _, ok := e.index[sourceID]; !ok {
		return e.reject(OpAddEdge, ErrNodeNotFound)
	}
	if _, ok := e.index[targetID]; !ok {
		return e.reject(OpAddEdge, ErrNodeNotFound)
	}

	edge := Edge{
		ID:     id,
		Source: sourceID,
		Target: targetID,
		Type:   EdgeConnector,
	}
	e.optionsFor(sourceID, targetID).applyTo(&edge)
	e.edges = append(e.edges, edge)
	e.commit(OpAddEdge)
	return nil
}

// DeleteEdge removes the edge if present. Node status is untouched.
func (e *Engine) DeleteEdge(edgeID string) {
	before := len(e.edges)
	e.edges = slices.DeleteFunc(e.edges, func(edge Edge) bool { return edge.ID == edgeID })
	if len(e.edges) == before {
		return
	}
	e.commit(OpDeleteEdge)
}

// WouldCreateCycle reports whether adding source -> target closes a cycle,
// that is whether source is already reachable from target.
func (e *Engine) WouldCreateCycle(sourceID, targetID string) bool {
	if sourceID == targetID {
		return true
	}
	return reaches(e.edges, targetID, sourceID)
}

func (e *Engine) hasEdge(sourceID, targetID string) bool {
	return slices.ContainsFunc(e.edges, func(edge Edge) bool {
		return edge.Source == sourceID && edge.Target == targetID
	})
}

// hasEdgeID reports whether id is taken. Node ids containing '-' can map two
// different pairs onto the same edge id.
func (e *Engine) hasEdgeID(id string) bool {
	return slices.ContainsFunc(e.edges, func(edge Edge) bool { return edge.ID == id })
}

// ── Unlock / lock ─────────────────────────────────────────────────────

// CanUnlock reports whether the node may be unlocked now. Already unlocked
// nodes can; nodes without prerequisites can only if they are start nodes;
// otherwise every prerequisite must be unlocked.
func (e *Engine) CanUnlock(id string) bool {
	n, ok := e.index[id]
	if !ok {
		return false
	}
	if n.Data.Unlocked {
		return true
	}

	incoming := e.IncomingEdges(id)
	if len(incoming) == 0 {
		return n.Type == TypeStart
	}
	for _, edge := range incoming {
		src, ok := e.index[edge.Source]
		if !ok || !src.Data.Unlocked {
			return false
		}
	}
	return true
}

// UnlockNode unlocks a single node. Descendants are never unlocked with it.
// Unlocking an already unlocked node succeeds.
func (e *Engine) UnlockNode(id string) error {
	n, ok := e.index[id]
	if !ok {
		return e.reject(OpUnlock, ErrNodeNotFound)
	}
	if !e.CanUnlock(id) {
		return e.reject(OpUnlock, ErrPrerequisitesNotMet)
	}

	n.Data.Unlocked = true
	e.updateConnectedEdges(id)
	e.commit(OpUnlock)
	return nil
}

// LockNode locks the node and everything that transitively depends on it,
// then refreshes every edge.
func (e *Engine) LockNode(id string) {
	if _, ok := e.index[id]; !ok {
		return
	}
	for _, depID := range closure(e.edges, id) {
		if n, ok := e.index[depID]; ok {
			n.Data.Unlocked = false
		}
	}
	e.syncAllEdges()
	e.commit(OpLock)
}

// ResetAll locks every node and dulls every edge.
func (e *Engine) ResetAll() {
	for _, n := range e.nodes {
		n.Data.Unlocked = false
	}
	dull := e.palette.EdgeOptions(false, false)
	for i := range e.edges {
		dull.applyTo(&e.edges[i])
	}
	e.commit(OpResetAll)
}

// ── Queries ───────────────────────────────────────────────────────────

// Node returns a copy of the node with the given id.
func (e *Engine) Node(id string) (Node, bool) {
	n, ok := e.index[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// Nodes returns a copy of every node in insertion order.
func (e *Engine) Nodes() []Node {
	return e.filterNodes(func(*Node) bool { return true })
}

// UnlockedNodes returns the unlocked nodes.
func (e *Engine) UnlockedNodes() []Node {
	return e.filterNodes(func(n *Node) bool { return n.Data.Unlocked })
}

// LockedNodes returns the locked nodes.
func (e *Engine) LockedNodes() []Node {
	return e.filterNodes(func(n *Node) bool { return !n.Data.Unlocked })
}

func (e *Engine) filterNodes(keep func(*Node) bool) []Node {
	out := []Node{}
	for _, n := range e.nodes {
		if keep(n) {
			out = append(out, n.clone())
		}
	}
	return out
}

// Edge returns the edge with the given id.
func (e *Engine) Edge(id string) (Edge, bool) {
	for _, edge := range e.edges {
		if edge.ID == id {
			return edge, true
		}
	}
	return Edge{}, false
}

// Edges returns a copy of every edge with its current styling.
func (e *Engine) Edges() []Edge {
	out := slices.Clone(e.edges)
	if out == nil {
		out = []Edge{}
	}
	return out
}

// IncomingEdges returns the edges targeting id.
func (e *Engine) IncomingEdges(id string) []Edge {
	var out []Edge
	for _, edge := range e.edges {
		if edge.Target == id {
			out = append(out, edge)
		}
	}
	return out
}

// Dependents returns every node that transitively depends on id,
// excluding id itself.
func (e *Engine) Dependents(id string) []string {
	if _, ok := e.index[id]; !ok {
		return nil
	}
	return closure(e.edges, id)[1:]
}

// Viewport returns the stored viewport, or nil.
func (e *Engine) Viewport() *Viewport {
	if e.viewport == nil {
		return nil
	}
	vp := *e.viewport
	return &vp
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() *Snapshot {
	return &Snapshot{
		Nodes:    e.Nodes(),
		Edges:    e.Edges(),
		Viewport: e.Viewport(),
	}
}

// Stats counts nodes, edges and unlocked nodes.
func (e *Engine) Stats() Stats {
	s := Stats{Nodes: len(e.nodes), Edges: len(e.edges)}
	for _, n := range e.nodes {
		if n.Data.Unlocked {
			s.Unlocked++
		}
	}
	return s
}

// ── Styling ───────────────────────────────────────────────────────────

func (e *Engine) optionsFor(sourceID, targetID string) EdgeOptions {
	var srcUnlocked, tgtUnlocked bool
	if n, ok := e.index[sourceID]; ok {
		srcUnlocked = n.Data.Unlocked
	}
	if n, ok := e.index[targetID]; ok {
		tgtUnlocked = n.Data.Unlocked
	}
	return e.palette.EdgeOptions(srcUnlocked, tgtUnlocked)
}

func (e *Engine) updateConnectedEdges(id string) {
	for i := range e.edges {
		edge := &e.edges[i]
		if edge.Source == id || edge.Target == id {
			e.optionsFor(edge.Source, edge.Target).applyTo(edge)
		}
	}
}

func (e *Engine) syncAllEdges() {
	for i := range e.edges {
		edge := &e.edges[i]
		e.optionsFor(edge.Source, edge.Target).applyTo(edge)
	}
}

// ── Commit ────────────────────────────────────────────────────────────

// commit hands the full snapshot to the store. A failed save is logged
// and never undoes the mutation.
func (e *Engine) commit(op Op) {
	stats := e.Stats()
	e.logger.Debug("mutation applied", "op", op, "nodes", stats.Nodes, "edges", stats.Edges)

	if e.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), e.commitTimeout)
		defer cancel()
		if err := e.store.Save(ctx, e.Snapshot()); err != nil {
			e.logger.Error("failed to commit snapshot", "op", op, "error", err)
			if e.observer != nil {
				e.observer.CommitFailed(op, err)
			}
		}
	}
	if e.observer != nil {
		e.observer.Mutated(op, nil, stats)
	}
}

func (e *Engine) reject(op Op, err error) error {
	e.logger.Debug("mutation rejected", "op", op, "error", err)
	if e.observer != nil {
		e.observer.Mutated(op, err, e.Stats())
	}
	return err
}
