package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windratio/adapters/exec"
	"windratio/app"
	"windratio/internal/testkit"
)

func newTestServer() *Server {
	return NewServer(app.NewEnergyRatioService(exec.NewSerial(), exec.NewPool(2)))
}

func postCompute(t *testing.T, srv *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/energy-ratio", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCompute_OK(t *testing.T) {
	params := app.DefaultParams()
	params.RefTurbines = []int{0}
	params.TestTurbines = []int{1}
	params.WdTurbines = []int{0}
	params.WsTurbines = []int{0}

	rec := postCompute(t, newTestServer(), ComputeRequest{
		Table:  testkit.TwoConditionFarm(36, 1.1),
		Params: params,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		ID    string          `json:"id"`
		Names []string        `json:"df_names"`
		Table json.RawMessage `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, []string{"baseline", "wake_steering"}, result.Names)
	assert.NotEmpty(t, result.Table)
}

func TestCompute_ConfigurationErrorIs400(t *testing.T) {
	params := app.DefaultParams()
	// No source turbines configured at all.
	rec := postCompute(t, newTestServer(), ComputeRequest{
		Table:  testkit.SweepFarm("baseline", 10),
		Params: params,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestCompute_DataErrorIs422(t *testing.T) {
	params := app.DefaultParams()
	params.UsePredefinedRef = true
	params.TestTurbines = []int{1}
	params.WdTurbines = []int{0}
	params.WsTurbines = []int{0}

	rec := postCompute(t, newTestServer(), ComputeRequest{
		Table:  testkit.SweepFarm("baseline", 10),
		Params: params,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "pow_ref")
}

func TestCompute_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/energy-ratio", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	newTestServer().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompute_MissingTable(t *testing.T) {
	rec := postCompute(t, newTestServer(), map[string]any{"params": app.DefaultParams()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "table is required")
}
