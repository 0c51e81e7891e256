package http

import "github.com/randomtoy/tarot3d/internal/domain"

type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the JSON shape returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SpreadsResponse struct {
	Spreads []domain.Spread `json:"spreads"`
}

type CatalogResponse struct {
	Cards []domain.Card `json:"cards"`
}

type RandomCardsRequest struct {
	Count      *int   `json:"count" validate:"required"`
	SpreadType string `json:"spread_type" validate:"required"`
}

type CardsResponse struct {
	Cards []domain.DrawnCard `json:"cards"`
}

type GenerateReadingRequest struct {
	SpreadType string             `json:"spread_type" validate:"required"`
	Question   *string            `json:"question"`
	Cards      []domain.DrawnCard `json:"cards" validate:"required"`
}

type GenerateReadingResponse struct {
	Interpretation string `json:"interpretation"`
	Advice         string `json:"advice"`
}

type SaveReadingRequest struct {
	SpreadType     string             `json:"spread_type" validate:"required"`
	Question       *string            `json:"question"`
	Cards          []domain.DrawnCard `json:"cards" validate:"required"`
	Interpretation string             `json:"interpretation"`
	UserSession    string             `json:"user_session" validate:"required"`
}

type SaveReadingResponse struct {
	Message   string `json:"message"`
	ReadingID string `json:"reading_id"`
}

type HistoryRequest struct {
	Session string `query:"session" validate:"required"`
}

type HistoryResponse struct {
	Readings []domain.Reading `json:"readings"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
