// FILE: internal/server/http/handler.go

// Package http is the fiber REST surface over the processor. Handlers
// stay thin: parameter checks and status mapping here, game semantics
// in the processor.
package http

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"konane/internal/server/core"
	"konane/internal/server/processor"
	"konane/internal/server/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const gameRateLimit = 10 // req/sec per client

type HTTPHandler struct {
	proc *processor.Processor
	svc  *service.Service
}

func NewHTTPHandler(proc *processor.Processor, svc *service.Service) *HTTPHandler {
	return &HTTPHandler{proc: proc, svc: svc}
}

// NewFiberApp wires middleware and routes. Write timeout exceeds the
// long-poll window so waiting GETs are not cut off by the server.
func NewFiberApp(proc *processor.Processor, svc *service.Service, devMode bool) *fiber.App {
	h := NewHTTPHandler(proc, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Unlimited so monitoring never gets throttled
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", perIPLimiter(5, time.Minute, "5 registrations per minute allowed"), h.RegisterHandler)
	auth.Post("/login", perIPLimiter(10, time.Minute, "10 login attempts per minute allowed"), h.LoginHandler)

	validateToken := svc.ValidateToken
	auth.Get("/me", AuthRequired(validateToken), h.GetCurrentUserHandler)
	auth.Post("/logout", AuthRequired(validateToken), h.LogoutHandler)

	maxReq := gameRateLimit
	if devMode {
		maxReq *= 2
	}
	api.Use(limiter.New(limiter.Config{
		Max:          maxReq,
		Expiration:   time.Second,
		KeyGenerator: clientKey,
		LimitReached: limitReached(fmt.Sprintf("%d requests per second allowed", maxReq)),
	}))

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	// Optional auth on create/move associates moves with an account
	api.Post("/games", OptionalAuth(validateToken), h.CreateGame)
	api.Put("/games/:gameId/players", h.ConfigurePlayers)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Post("/games/:gameId/moves", OptionalAuth(validateToken), h.MakeMove)
	api.Get("/games/:gameId/moves", h.PossibleMoves)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Get("/games/:gameId/board", h.GetBoard)

	return app
}

// perIPLimiter builds a per-IP rate limiter for the auth routes.
func perIPLimiter(max int, window time.Duration, detail string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: limitReached(detail),
	})
}

func limitReached(detail string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
			Error:   "rate limit exceeded",
			Code:    core.ErrRateLimitExceeded,
			Details: detail,
		})
	}
}

// clientKey prefers the first X-Forwarded-For hop so clients behind a
// proxy are limited individually.
func clientKey(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.IP()
}

// contentTypeValidator rejects POST and PUT bodies that are not JSON.
func contentTypeValidator(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodPost || method == fiber.MethodPut {
		ct := c.Get("Content-Type")
		if ct != "application/json" && ct != "" {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler keeps framework-level failures in the same error
// envelope the handlers use.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		response.Error = e.Message
		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// gameIDParam validates the :gameId path parameter. A non-empty error
// response has already been written when ok is false.
func (h *HTTPHandler) gameIDParam(c *fiber.Ctx) (string, bool) {
	gameID := c.Params("gameId")
	if !isValidUUID(gameID) {
		c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.ErrInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
		return "", false
	}
	return gameID, true
}

// requestBody pulls the DTO the validation middleware parsed. A miss
// means the middleware chain was misconfigured, not a client error.
func requestBody[T any](c *fiber.Ctx) (T, bool) {
	var zero T
	if validated, ok := c.Locals("validated").(bool); !ok || !validated {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation bypass detected",
			Code:  core.ErrInternalError,
		})
		return zero, false
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "validation data missing",
			Code:  core.ErrInternalError,
		})
		return zero, false
	}
	return *body, true
}

// respond maps a processor response onto HTTP status codes.
func respond(c *fiber.Ctx, resp processor.ProcessorResponse) error {
	if resp.Success {
		return c.JSON(resp.Data)
	}
	status := fiber.StatusBadRequest
	switch resp.Error.Code {
	case core.ErrGameNotFound:
		status = fiber.StatusNotFound
	case core.ErrUnauthorized:
		status = fiber.StatusForbidden
	}
	return c.Status(status).JSON(resp.Error)
}

func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}

func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := requestBody[core.CreateGameRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewCreateGameCommand(req)
	cmd.UserID, _ = c.Locals("userID").(string)

	resp := h.proc.Execute(cmd)
	if !resp.Success {
		return c.Status(fiber.StatusBadRequest).JSON(resp.Error)
	}
	return c.Status(fiber.StatusCreated).JSON(resp.Data)
}

func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := requestBody[core.ConfigurePlayersRequest](c)
	if !ok {
		return nil
	}

	return respond(c, h.proc.Execute(processor.NewConfigurePlayersCommand(gameID, req)))
}

// GetGame returns the game state, optionally long-polling: with
// wait=true the request parks until the move count changes from the
// client's moveCount or the wait window lapses.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}

	if c.Query("wait", "false") != "true" {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)))
	}

	moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
	if err != nil {
		moveCount = -1
	}

	g, err := h.svc.GetGame(gameID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		})
	}

	// Already ahead of the client, answer right away
	if moveCount != len(g.Moves()) {
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)))
	}

	ctx := c.Context()
	notify := h.svc.RegisterWait(gameID, moveCount, ctx)

	select {
	case <-notify:
		// Re-fetch: the game may have advanced or been deleted
		return respond(c, h.proc.Execute(processor.NewGetGameCommand(gameID)))
	case <-ctx.Done():
		return nil
	}
}

func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := requestBody[core.MoveRequest](c)
	if !ok {
		return nil
	}

	cmd := processor.NewMakeMoveCommand(gameID, req)
	cmd.UserID, _ = c.Locals("userID").(string)

	return respond(c, h.proc.Execute(cmd))
}

// PossibleMoves lists capture destinations from the square named by
// the from query parameter.
func (h *HTTPHandler) PossibleMoves(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}

	from := c.Query("from")
	if from == "" {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "missing source square",
			Code:    core.ErrInvalidRequest,
			Details: "from query parameter is required, e.g. ?from=d4",
		})
	}

	return respond(c, h.proc.Execute(processor.NewPossibleMovesCommand(gameID, from)))
}

func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}
	req, ok := requestBody[core.UndoRequest](c)
	if !ok {
		return nil
	}

	return respond(c, h.proc.Execute(processor.NewUndoMoveCommand(gameID, req)))
}

func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewDeleteGameCommand(gameID))
	if !resp.Success {
		return c.Status(fiber.StatusNotFound).JSON(resp.Error)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	gameID, ok := h.gameIDParam(c)
	if !ok {
		return nil
	}

	resp := h.proc.Execute(processor.NewGetBoardCommand(gameID))
	if !resp.Success {
		return c.Status(fiber.StatusNotFound).JSON(resp.Error)
	}
	return c.JSON(resp.Data)
}
