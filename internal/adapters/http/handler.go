package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/randomtoy/tarot3d/internal/app"
	"github.com/randomtoy/tarot3d/internal/domain"
)

// headerOutcome tells clients whether the reading came from the model or
// from the fallback text. The body is the same shape either way.
const headerOutcome = "X-Reading-Outcome"

type Handler struct {
	svc *app.TarotService
}

func NewHandler(svc *app.TarotService) *Handler {
	return &Handler{svc: svc}
}

// NewServer builds an echo instance with middleware and all routes registered.
func NewServer(svc *app.TarotService, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(RequestContext(logger))
	e.Use(AccessLog())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	NewHandler(svc).Register(e)
	return e
}

func (h *Handler) Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/", h.Root)
	api.GET("/health", h.Health)
	api.GET("/spreads", h.Spreads)

	api.GET("/cards", h.Catalog)
	api.POST("/cards/random", h.RandomCards)

	api.POST("/reading/generate", h.GenerateReading)
	api.POST("/reading/save", h.SaveReading)
	api.GET("/reading/history", h.History)
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "3D Tarot API v1.0 с AI предсказаниями"})
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Message: "API работает"})
}

func (h *Handler) Spreads(c echo.Context) error {
	return c.JSON(http.StatusOK, SpreadsResponse{Spreads: h.svc.Spreads()})
}

func (h *Handler) Catalog(c echo.Context) error {
	deck, err := h.svc.Deck(c.Request().Context())
	if err != nil {
		return mapError(c, "Ошибка загрузки колоды", err)
	}
	return c.JSON(http.StatusOK, CatalogResponse{Cards: deck.Cards})
}

func (h *Handler) RandomCards(c echo.Context) error {
	var req RandomCardsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return mapError(c, "Ошибка получения карт", err)
	}

	cards, err := h.svc.DrawCards(c.Request().Context(), *req.Count, domain.SpreadType(req.SpreadType))
	if err != nil {
		return mapError(c, "Ошибка получения карт", err)
	}
	return c.JSON(http.StatusOK, CardsResponse{Cards: cards})
}

// GenerateReading answers 200 even when the model failed; only a malformed
// request is an error.
func (h *Handler) GenerateReading(c echo.Context) error {
	var req GenerateReadingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return mapError(c, "Ошибка генерации предсказания", err)
	}

	question := ""
	if req.Question != nil {
		question = *req.Question
	}

	res := h.svc.GenerateReading(c.Request().Context(), req.Cards, domain.SpreadType(req.SpreadType), question)
	c.Response().Header().Set(headerOutcome, res.Outcome.String())
	return c.JSON(http.StatusOK, GenerateReadingResponse{
		Interpretation: res.Interpretation.Interpretation,
		Advice:         res.Advice,
	})
}

func (h *Handler) SaveReading(c echo.Context) error {
	var req SaveReadingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return mapError(c, "Ошибка сохранения гадания", err)
	}

	id, err := h.svc.SaveReading(c.Request().Context(), app.SaveReadingRequest{
		SessionID:      req.UserSession,
		SpreadType:     domain.SpreadType(req.SpreadType),
		Question:       req.Question,
		Cards:          req.Cards,
		Interpretation: req.Interpretation,
	})
	if err != nil {
		return mapError(c, "Ошибка сохранения гадания", err)
	}
	return c.JSON(http.StatusOK, SaveReadingResponse{Message: "Гадание сохранено", ReadingID: id})
}

func (h *Handler) History(c echo.Context) error {
	var req HistoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return mapError(c, "Ошибка загрузки истории", err)
	}

	readings, err := h.svc.History(c.Request().Context(), req.Session)
	if err != nil {
		return mapError(c, "Ошибка загрузки истории", err)
	}
	return c.JSON(http.StatusOK, HistoryResponse{Readings: readings})
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, he.Message)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	return nil
}

// mapError reports every failure as 500 with a detail message.
func mapError(c echo.Context, action string, err error) error {
	logger := requestLogger(c)

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		logger.Warn("invalid request", "action", action, "error", err)
	case errors.Is(err, domain.ErrStore):
		logger.Error("store failure", "action", action, "error", err)
	default:
		logger.Error("internal error", "action", action, "error", err)
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: fmt.Sprintf("%s: %v", action, err)})
}
