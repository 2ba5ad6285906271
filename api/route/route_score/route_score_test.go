package route_score

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/scorecatalog/mutopia-catalog/api/middleware"
	"github.com/scorecatalog/mutopia-catalog/domain/domain_score/score_models"
	"github.com/scorecatalog/mutopia-catalog/logger"
	"github.com/scorecatalog/mutopia-catalog/mongo/mongotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	testCollection = "pieces_metadata"
	testSecret     = "route-test-secret"
)

type idleIngestion struct{}

func (idleIngestion) Start(int) (*score_models.ScrapeRunReport, error) {
	return &score_models.ScrapeRunReport{RunID: "r"}, nil
}
func (idleIngestion) Status() *score_models.ScrapeRunReport { return nil }

type fixedInfo struct{}

func (fixedInfo) Describe(context.Context, string) (string, error) { return "described", nil }

func newTestEngine(t *testing.T, db *mongotest.Database, admin gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("")
	log := logger.NewNop()

	NewSystemRouter(time.Second, db.FakeClient(), db, testCollection, false, "", log, group)
	NewMusicalPieceRouter(time.Second, db, testCollection, log, group, admin)
	NewScrapeRouter(idleIngestion{}, group)
	NewEnrichmentRouter(time.Second, time.Second, db, testCollection,
		EnrichmentAdapters{Info: fixedInfo{}}, log, group)
	return r
}

func do(r *gin.Engine, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPieceRoutesOverStore(t *testing.T) {
	db := mongotest.NewDatabase()
	db.Coll(testCollection).Seed(
		bson.M{"_id": "p1", "title": "Prelude in C", "style": "Baroque", "instruments": "Piano", "composer": "BachJS"},
		bson.M{"_id": "p2", "title": "Nocturne", "style": "Romantic", "instruments": "Piano", "composer": "ChopinFF"},
		bson.M{"_id": "p3", "title": ""},
	)
	r := newTestEngine(t, db, nil)

	w := do(r, http.MethodGet, "/pieces/number", "", "")
	assert.JSONEq(t, `[{"number_of_pieces":2}]`, w.Body.String())

	w = do(r, http.MethodGet, "/pieces", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"p3"`)

	w = do(r, http.MethodGet, "/pieces/styles/baroque", "", "")
	assert.Contains(t, w.Body.String(), "Prelude in C")

	w = do(r, http.MethodGet, "/pieces/p2", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nocturne")

	w = do(r, http.MethodGet, "/pieces/title/noct", "", "")
	assert.Contains(t, w.Body.String(), "Nocturne")
	assert.NotContains(t, w.Body.String(), "Prelude")

	w = do(r, http.MethodGet, "/composers", "", "")
	assert.JSONEq(t, `{"composers":["BachJS","ChopinFF"]}`, w.Body.String())
}

func TestNotesRouteWithoutTranscriber(t *testing.T) {
	db := mongotest.NewDatabase()
	db.Coll(testCollection).Seed(bson.M{"_id": "p1", "title": "Prelude", "pdf_url": "https://example.org/a4.pdf"})
	r := newTestEngine(t, db, nil)

	w := do(r, http.MethodGet, "/pieces/get_notes_with_ai/p1", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(r, http.MethodGet, "/pieces/get_notes_with_ai/missing", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/piece_info/Prelude", "", "")
	assert.JSONEq(t, `{"info":"described"}`, w.Body.String())
}

func TestAdminRoutesAbsentWithoutSecret(t *testing.T) {
	r := newTestEngine(t, mongotest.NewDatabase(), nil)

	w := do(r, http.MethodPost, "/pieces", `{"title":"x"}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	db := mongotest.NewDatabase()
	r := newTestEngine(t, db, middleware.JwtAuthMiddleware(testSecret))

	w := do(r, http.MethodPost, "/pieces", `{"title":"Gymnopedie 1","music_id_number":"42"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.CreateAdminToken(testSecret, "ops", jwt.NewNumericDate(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	w = do(r, http.MethodPost, "/pieces", `{"title":"Gymnopedie 1","music_id_number":"42"}`, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/pieces", `{"title":"Gymnopedie 1 again","music_id_number":"42"}`, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, db.Coll(testCollection).Docs(), 1)

	w = do(r, http.MethodDelete, "/pieces", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())
}

func TestSystemRouteHealthSkipped(t *testing.T) {
	r := newTestEngine(t, mongotest.NewDatabase(), nil)

	w := do(r, http.MethodGet, "/health", "", "")
	assert.JSONEq(t, `{"db":"skipped","status":"ok"}`, w.Body.String())

	w = do(r, http.MethodHead, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListingIterationFailureIs500(t *testing.T) {
	db := mongotest.NewDatabase()
	coll := db.Coll(testCollection)
	coll.Seed(bson.M{"title": "Prelude"}, bson.M{"title": "Fugue"})
	coll.IterateErr = errors.New("getMore: connection reset")
	coll.IterateErrAfter = 1
	r := newTestEngine(t, db, nil)

	for _, target := range []string{"/pieces", "/pieces/number", "/pieces/search/e"} {
		w := do(r, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, target)
		assert.Contains(t, w.Body.String(), "getMore: connection reset", target)
	}
}
