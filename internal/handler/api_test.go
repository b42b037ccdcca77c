package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

// strategyRepoStub serves the handful of reads the API handler performs.
// Unimplemented Repository methods panic if reached.
type strategyRepoStub struct {
	repository.Repository
	strategies map[uint64]*models.Strategy
}

func (s *strategyRepoStub) GetStrategyByID(ctx context.Context, id uint64) (*models.Strategy, error) {
	return s.strategies[id], nil
}

func newAPIRouter(strategies map[uint64]*models.Strategy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &StrategyAPIHandler{
		Repo:   &strategyRepoStub{strategies: strategies},
		Logger: zap.NewNop(),
	}
	h.Register(r)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (int, apiResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(rec, req)
	var body apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestStrategyDetailMissingID(t *testing.T) {
	r := newAPIRouter(nil)

	for _, path := range []string{"/api/strategies", "/api/strategies/abc", "/api/strategies/0"} {
		code, body := getJSON(t, r, path)
		require.Equal(t, http.StatusBadRequest, code, path)
		require.Equal(t, "missing strategy id", body.Message, path)
	}
}

func TestStrategyDetailNotFound(t *testing.T) {
	r := newAPIRouter(map[uint64]*models.Strategy{})

	code, body := getJSON(t, r, "/api/strategies/42")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "strategy not found", body.Message)
}

func TestStrategyDetailOK(t *testing.T) {
	r := newAPIRouter(map[uint64]*models.Strategy{
		3: {
			ID:         3,
			Name:       "London Open Breakout",
			Instrument: "EURUSD",
			Timeframes: datatypes.JSON(`["M15"]`),
			Sessions:   datatypes.JSON(`["London"]`),
			EntryCriteria: []models.EntryCriterion{
				{ID: 10, StrategyID: 3, Label: "Liquidity swept", SortOrder: 0},
			},
			ExitCriteria: []models.ExitCriterion{
				{ID: 20, StrategyID: 3, Label: "Target reached", SortOrder: 0},
			},
			Invalidations: []models.Invalidation{
				{ID: 30, StrategyID: 3, Label: "Closed back inside", Code: "A"},
			},
		},
	})

	code, body := getJSON(t, r, "/api/strategies/3")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body.Message)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)
	var detail strategyDetail
	require.NoError(t, json.Unmarshal(raw, &detail))

	require.Equal(t, uint64(3), detail.ID)
	require.Len(t, detail.EntryCriteria, 1)
	require.Equal(t, uint64(10), detail.EntryCriteria[0].ID)
	require.Len(t, detail.Invalidations, 1)
	require.Equal(t, "A", detail.Invalidations[0].Code)
	require.JSONEq(t, `["M15"]`, string(detail.Timeframes))
}
