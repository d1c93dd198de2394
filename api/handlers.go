package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/skilltree"
)

type createNodeRequest struct {
	Data     skilltree.NodeData `json:"data"`
	Type     skilltree.NodeType `json:"type" validate:"required,oneof=start regular capstone"`
	Position skilltree.Position `json:"position"`
}

type createEdgeRequest struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

type dragStartRequest struct {
	Type string `json:"type" validate:"required"`
}

type dropRequest struct {
	Position skilltree.Position `json:"position"`
	Type     string             `json:"type"`
}

type commitDropRequest struct {
	Data skilltree.NodeData `json:"data"`
}

// ── Tree ──────────────────────────────────────────────────────────────

func (h *Handler) getTree(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(h.engine.Snapshot())
}

func (h *Handler) restoreTree(c fiber.Ctx) error {
	var snap skilltree.Snapshot
	if err := c.Bind().JSON(&snap); err != nil {
		return badRequest(c, errInvalidBody)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.engine.Restore(&snap); err != nil {
		return result(c, fiber.StatusOK, err)
	}
	return c.JSON(h.engine.Snapshot())
}

func (h *Handler) deleteAll(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.DeleteAllNodes()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) resetAll(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.ResetAll()
	return c.JSON(h.engine.Snapshot())
}

func (h *Handler) setViewport(c fiber.Ctx) error {
	var vp skilltree.Viewport
	if err := c.Bind().JSON(&vp); err != nil {
		return badRequest(c, errInvalidBody)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.SetViewport(vp)
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Nodes ─────────────────────────────────────────────────────────────

func (h *Handler) listNodes(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch c.Query("status") {
	case "":
		return c.JSON(h.engine.Nodes())
	case "unlocked":
		return c.JSON(h.engine.UnlockedNodes())
	case "locked":
		return c.JSON(h.engine.LockedNodes())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be locked or unlocked"})
}

func (h *Handler) addNode(c fiber.Ctx) error {
	var req createNodeRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.Data.SkillType == "" {
		req.Data.SkillType = skilltree.SkillLabelFromType(string(req.Type))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.engine.AddNode(req.Data, req.Type, req.Position)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *Handler) getNode(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, ok := h.engine.Node(c.Params("id"))
	if !ok {
		return notFound(c, "node")
	}
	return c.JSON(n)
}

func (h *Handler) updateNode(c fiber.Ctx) error {
	var patch skilltree.NodePatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c, errInvalidBody)
	}
	if patch.Name != nil && *patch.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name must not be empty"})
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := c.Params("id")
	if _, ok := h.engine.Node(id); !ok {
		return notFound(c, "node")
	}
	h.engine.UpdateNode(id, patch)
	n, _ := h.engine.Node(id)
	return c.JSON(n)
}

func (h *Handler) deleteNode(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.DeleteNode(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) canUnlock(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(fiber.Map{"canUnlock": h.engine.CanUnlock(c.Params("id"))})
}

func (h *Handler) unlockNode(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return result(c, fiber.StatusOK, h.engine.UnlockNode(c.Params("id")))
}

func (h *Handler) lockNode(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := c.Params("id")
	if _, ok := h.engine.Node(id); !ok {
		return notFound(c, "node")
	}
	h.engine.LockNode(id)
	return c.JSON(skilltree.ResultOf(nil))
}

// ── Edges ─────────────────────────────────────────────────────────────

func (h *Handler) listEdges(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(h.engine.Edges())
}

func (h *Handler) addEdge(c fiber.Ctx) error {
	var req createEdgeRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return result(c, fiber.StatusCreated, h.engine.AddEdge(req.Source, req.Target))
}

func (h *Handler) cycleCheck(c fiber.Ctx) error {
	source, target := c.Query("source"), c.Query("target")
	if source == "" || target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source and target are required"})
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return c.JSON(fiber.Map{"wouldCreateCycle": h.engine.WouldCreateCycle(source, target)})
}

func (h *Handler) deleteEdge(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.DeleteEdge(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Drag and drop ─────────────────────────────────────────────────────

func (h *Handler) dragState(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	state := fiber.Map{
		"draggedType": h.drag.DraggedType(),
		"dragging":    h.drag.Dragging(),
		"dragOver":    h.drag.DragOver(),
		"pendingDrop": nil,
	}
	if drop, ok := h.drag.Pending(); ok {
		state["pendingDrop"] = drop
	}
	return c.JSON(state)
}

func (h *Handler) dragStart(c fiber.Ctx) error {
	var req dragStartRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.drag.Start(req.Type)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) dragOver(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drag.Over()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) dragLeave(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drag.Leave()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) dragEnd(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drag.End()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) drop(c fiber.Ctx) error {
	var req dropRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	drop, ok := h.drag.Drop(req.Position, req.Type)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nothing is being dragged"})
	}
	return c.Status(fiber.StatusCreated).JSON(drop)
}

func (h *Handler) commitDrop(c fiber.Ctx) error {
	var req commitDropRequest
	if err := h.bind(c, &req); err != nil {
		return badRequest(c, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	drop, ok := h.drag.Pending()
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "no pending drop"})
	}
	id := h.engine.AddNodeFromDrop(drop, req.Data)
	h.drag.CancelPendingDrop()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *Handler) cancelDrop(c fiber.Ctx) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drag.CancelPendingDrop()
	return c.SendStatus(fiber.StatusNoContent)
}
