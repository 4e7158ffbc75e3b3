package router

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/ishantswami13-crypto/ledger-api/internal/logging"
	"github.com/ishantswami13-crypto/ledger-api/internal/session"
	"github.com/ishantswami13-crypto/ledger-api/internal/transactions"
)

type Router struct {
	TransactionsHandler *transactions.Handler
	Log                 zerolog.Logger
	CORSOrigin          string
	WriteLimit          fiber.Handler
}

// NewApp returns a Fiber app whose errors render as {"error": msg}.
func NewApp(log zerolog.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               "ledger-api",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(log),
	})
}

func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(CorsMiddleware(r.CORSOrigin))
	app.Use(logging.RequestLogger(r.Log))

	health := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	}
	app.Get("/health", health)
	app.Get("/healthz", health)

	if r.TransactionsHandler == nil {
		return
	}

	h := r.TransactionsHandler
	g := app.Group("/transactions")

	if r.WriteLimit != nil {
		g.Post("/", r.WriteLimit, h.Create)
	} else {
		g.Post("/", h.Create)
	}

	requireSession := session.Require()
	g.Get("/", requireSession, h.List)
	g.Get("/summary", requireSession, h.Summary)
	g.Get("/statement", requireSession, h.Statement)
	g.Get("/:id", requireSession, h.Get)
}
