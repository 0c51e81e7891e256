package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/tarot3d/internal/adapters/decks"
	httpadapter "github.com/randomtoy/tarot3d/internal/adapters/http"
	"github.com/randomtoy/tarot3d/internal/adapters/store/sqlite"
	"github.com/randomtoy/tarot3d/internal/app"
	"github.com/randomtoy/tarot3d/internal/domain"
)

type stubCompleter struct {
	out string
	err error
}

func (s stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.out, s.err
}

type seqRNG struct{ n int }

func (r *seqRNG) Intn(n int) int {
	r.n++
	return r.n % n
}

func (r *seqRNG) Float64() float64 { return 0.9 }

func newTestServer(t *testing.T, completer stubCompleter) *echo.Echo {
	t.Helper()
	store, err := sqlite.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := app.NewTarotService(decks.NewEmbeddedStore(), completer, store, &seqRNG{}, logger)
	return httpadapter.NewServer(svc, logger)
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type rawCards struct {
	Cards []map[string]any `json:"cards"`
}

type rawHistory struct {
	Readings []map[string]any `json:"readings"`
}

const threeCards = `[
	{"id": 1, "name": "Шут", "arcana": "major", "image": "", "keywords": ["свобода"],
	 "upright_meaning": "up", "reversed_meaning": "down", "reversed": false, "position": "Прошлое"},
	{"id": 7, "name": "Влюбленные", "arcana": "major", "image": "", "keywords": ["любовь"],
	 "upright_meaning": "up", "reversed_meaning": "down", "reversed": true, "position": "Настоящее"},
	{"id": 9, "name": "Сила", "arcana": "major", "image": "", "keywords": ["терпение"],
	 "upright_meaning": "up", "reversed_meaning": "down", "reversed": false, "position": "Будущее"}
]`

func TestHealth(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	rec := do(t, e, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[map[string]string](t, rec)
	if got["status"] != "ok" || got["message"] == "" {
		t.Errorf("unexpected body: %v", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected a request id header")
	}
}

func TestRoot(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	rec := do(t, e, http.MethodGet, "/api/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["message"] == "" {
		t.Errorf("unexpected body: %v", got)
	}
}

func TestSpreadsAndCatalog(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	spreads := decode[httpadapter.SpreadsResponse](t, do(t, e, http.MethodGet, "/api/spreads", ""))
	if len(spreads.Spreads) != 6 {
		t.Errorf("expected 6 spreads, got %d", len(spreads.Spreads))
	}

	catalog := decode[httpadapter.CatalogResponse](t, do(t, e, http.MethodGet, "/api/cards", ""))
	if len(catalog.Cards) != 10 {
		t.Errorf("expected 10 cards, got %d", len(catalog.Cards))
	}
}

func TestRandomCards(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	tests := []struct {
		spread string
		count  int
	}{
		{"single", 1},
		{"three", 3},
		{"love", 5},
		{"weekly", 7},
		{"celtic", 10},
	}

	for _, tt := range tests {
		t.Run(tt.spread, func(t *testing.T) {
			body := `{"count": ` + itoa(tt.count) + `, "spread_type": "` + tt.spread + `"}`
			rec := do(t, e, http.MethodPost, "/api/cards/random", body)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			got := decode[rawCards](t, rec)
			if len(got.Cards) != tt.count {
				t.Fatalf("expected %d cards, got %d", tt.count, len(got.Cards))
			}
			for _, c := range got.Cards {
				for _, field := range []string{"id", "name", "arcana", "keywords", "upright_meaning", "reversed_meaning", "reversed", "position"} {
					if _, ok := c[field]; !ok {
						t.Errorf("card is missing %q: %v", field, c)
					}
				}
			}
		})
	}
}

func TestRandomCards_ThreePositions(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	rec := do(t, e, http.MethodPost, "/api/cards/random", `{"count": 3, "spread_type": "three"}`)
	got := decode[httpadapter.CardsResponse](t, rec)

	want := []string{"Прошлое", "Настоящее", "Будущее"}
	for i, c := range got.Cards {
		if c.Position != want[i] {
			t.Errorf("card %d: expected %q, got %q", i, want[i], c.Position)
		}
	}
}

func TestRandomCards_Errors(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	tests := map[string]string{
		"too many":      `{"count": 11, "spread_type": "celtic"}`,
		"missing count": `{"spread_type": "three"}`,
		"bad json":      `{"count": `,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/api/cards/random", body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			if got := decode[httpadapter.ErrorResponse](t, rec); got.Detail == "" {
				t.Error("expected an error detail")
			}
		})
	}
}

func TestGenerateReading_Success(t *testing.T) {
	e := newTestServer(t, stubCompleter{out: "ИНТЕРПРЕТАЦИЯ:\nПуть открыт.\nСОВЕТ:\nДействуйте."})

	body := `{"spread_type": "three", "question": "Что меня ждет?", "cards": ` + threeCards + `}`
	rec := do(t, e, http.MethodPost, "/api/reading/generate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decode[httpadapter.GenerateReadingResponse](t, rec)
	if got.Interpretation != "Путь открыт." || got.Advice != "Действуйте." {
		t.Errorf("unexpected body: %+v", got)
	}
	if rec.Header().Get("X-Reading-Outcome") != "ok" {
		t.Errorf("unexpected outcome header: %q", rec.Header().Get("X-Reading-Outcome"))
	}
}

func TestGenerateReading_ProviderFailureFallsBack(t *testing.T) {
	e := newTestServer(t, stubCompleter{err: domain.ErrProvider})

	body := `{"spread_type": "single", "question": null, "cards": ` + threeCards + `}`
	rec := do(t, e, http.MethodPost, "/api/reading/generate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decode[httpadapter.GenerateReadingResponse](t, rec)
	if got.Interpretation != domain.FallbackInterpretation || got.Advice != domain.FallbackAdvice {
		t.Errorf("expected fallback content, got %+v", got)
	}
	if rec.Header().Get("X-Reading-Outcome") != "degraded" {
		t.Errorf("unexpected outcome header: %q", rec.Header().Get("X-Reading-Outcome"))
	}
}

func TestGenerateReading_InvalidRequest(t *testing.T) {
	e := newTestServer(t, stubCompleter{out: "ok"})

	for name, body := range map[string]string{
		"no spread": `{"cards": []}`,
		"no cards":  `{"spread_type": "three"}`,
		"bad cards": `{"spread_type": "three", "cards": "nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/api/reading/generate", body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
		})
	}
}

func TestSaveThenHistory(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	body := `{"spread_type": "three", "question": "Что меня ждет?", "cards": ` + threeCards +
		`, "interpretation": "Путь открыт.", "user_session": "test_session_1"}`
	rec := do(t, e, http.MethodPost, "/api/reading/save", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	saved := decode[httpadapter.SaveReadingResponse](t, rec)
	if saved.ReadingID == "" || saved.Message == "" {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	rec = do(t, e, http.MethodGet, "/api/reading/history?session=test_session_1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	raw := decode[rawHistory](t, rec)
	if len(raw.Readings) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(raw.Readings))
	}
	for _, field := range []string{"id", "session_id", "spread_type", "question", "cards", "interpretation", "created_at"} {
		if _, ok := raw.Readings[0][field]; !ok {
			t.Errorf("reading is missing %q", field)
		}
	}
	if raw.Readings[0]["id"] != saved.ReadingID {
		t.Errorf("history id %v does not match saved id %s", raw.Readings[0]["id"], saved.ReadingID)
	}
}

func TestHistory_UnknownSession(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	rec := do(t, e, http.MethodGet, "/api/reading/history?session=nobody", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"readings":[]`) {
		t.Errorf("expected an empty readings list, got %s", rec.Body.String())
	}
}

func TestHistory_MissingSession(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	rec := do(t, e, http.MethodGet, "/api/reading/history", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestSave_MissingSession(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	body := `{"spread_type": "three", "cards": [], "interpretation": "x"}`
	rec := do(t, e, http.MethodPost, "/api/reading/save", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) == "" {
		t.Error("expected CORS allow-origin header")
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestRequestID(t *testing.T) {
	e := newTestServer(t, stubCompleter{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("expected incoming id to be reused, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Errorf("expected a generated uuid for an oversized id, got %q", got)
	}
}
