// Package api serves a skill graph engine over HTTP.
package api

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/meikuraledutech/skilltree"
	"github.com/meikuraledutech/skilltree/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures New.
type Options struct {
	Logger *slog.Logger
	// Gatherer, when set, is served at GET /metrics.
	Gatherer prometheus.Gatherer
}

// Handler owns the engine and the drag session. Fiber serves requests
// concurrently, the engine expects a single caller, so every handler holds mu.
type Handler struct {
	mu       sync.Mutex
	engine   *skilltree.Engine
	drag     *skilltree.DragSession
	validate *validator.Validate
	logger   *slog.Logger
}

// New builds the Fiber app.
func New(engine *skilltree.Engine, drag *skilltree.DragSession, opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	h := &Handler{
		engine:   engine,
		drag:     drag,
		validate: validator.New(),
		logger:   opts.Logger,
	}

	app := fiber.New()
	app.Use(h.logRequests)

	// ── Tree ──────────────────────────────────────────────────────────
	app.Get("/tree", h.getTree)
	app.Put("/tree", h.restoreTree)
	app.Delete("/tree", h.deleteAll)
	app.Post("/tree/reset", h.resetAll)
	app.Put("/tree/viewport", h.setViewport)

	// ── Nodes ─────────────────────────────────────────────────────────
	app.Get("/nodes", h.listNodes)
	app.Post("/nodes", h.addNode)
	app.Get("/nodes/:id", h.getNode)
	app.Patch("/nodes/:id", h.updateNode)
	app.Delete("/nodes/:id", h.deleteNode)
	app.Get("/nodes/:id/can-unlock", h.canUnlock)
	app.Post("/nodes/:id/unlock", h.unlockNode)
	app.Post("/nodes/:id/lock", h.lockNode)

	// ── Edges ─────────────────────────────────────────────────────────
	app.Get("/edges", h.listEdges)
	app.Post("/edges", h.addEdge)
	app.Get("/edges/cycle-check", h.cycleCheck)
	app.Delete("/edges/:id", h.deleteEdge)

	// ── Drag and drop ─────────────────────────────────────────────────
	app.Get("/drag", h.dragState)
	app.Post("/drag/start", h.dragStart)
	app.Post("/drag/over", h.dragOver)
	app.Post("/drag/leave", h.dragLeave)
	app.Post("/drag/end", h.dragEnd)
	app.Post("/drops", h.drop)
	app.Post("/drops/commit", h.commitDrop)
	app.Delete("/drops", h.cancelDrop)

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return app
}

func (h *Handler) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

var errInvalidBody = errors.New("invalid body")

// bind decodes the JSON body into out and validates it.
func (h *Handler) bind(c fiber.Ctx, out any) error {
	if err := c.Bind().JSON(out); err != nil {
		return errInvalidBody
	}
	return h.validate.Struct(out)
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// result writes the Result record for err with a matching status code.
func result(c fiber.Ctx, okStatus int, err error) error {
	status := okStatus
	switch {
	case err == nil:
	case errors.Is(err, skilltree.ErrNodeNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, skilltree.ErrDuplicateEdge), errors.Is(err, skilltree.ErrPrerequisitesNotMet):
		status = fiber.StatusConflict
	case errors.Is(err, skilltree.ErrCyclicDependency), errors.Is(err, skilltree.ErrMalformedSnapshot):
		status = fiber.StatusUnprocessableEntity
	default:
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(skilltree.ResultOf(err))
}

func notFound(c fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
}
