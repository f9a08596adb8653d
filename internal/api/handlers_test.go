package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/auth"
	"github.com/yourname/healthtrack/internal/connectivity"
	"github.com/yourname/healthtrack/internal/service"
	"github.com/yourname/healthtrack/internal/storage"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := internal.NewNopLogger()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "store.json"), logger)
	require.NoError(t, err)

	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(probe.Close)

	monitor := connectivity.NewMonitor(probe.URL, time.Second, logger)
	facade := service.NewFacade(context.Background(), store, monitor, logger, service.Options{
		Cache: service.CacheOptions{RetryDelay: time.Millisecond, StaleTime: time.Minute},
	})
	session := auth.NewSession(store, logger)

	return NewRouter(NewServer(logger, facade, session))
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signIn(t *testing.T, r *gin.Engine) {
	t.Helper()
	rec := doJSON(t, r, "POST", "/api/auth/signin", `{"email":"demo@example.com"}`)
	require.Equal(t, 200, rec.Code)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) map[string]any {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
		Meta map[string]any  `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Meta
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/api/health", "/api/workouts", "/api/milestones"} {
		rec := doJSON(t, r, "GET", path, "")
		assert.Equal(t, 401, rec.Code, path)
	}
}

func TestSignInAndReadHealth(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	rec := doJSON(t, r, "GET", "/api/health", "")
	require.Equal(t, 200, rec.Code)

	var data internal.HealthRecord
	meta := decodeData(t, rec, &data)
	assert.Nil(t, meta)
	assert.Greater(t, data.Steps, 0)
	assert.Len(t, data.ActivityHistory, 7)
}

func TestPutHealthMergesPartialUpdate(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	rec := doJSON(t, r, "PUT", "/api/health", `{"steps": 5000}`)
	require.Equal(t, 200, rec.Code)

	var data internal.HealthRecord
	decodeData(t, rec, &data)
	assert.Equal(t, 5000, data.Steps)
	assert.Greater(t, data.HeartRate, 0, "unsent fields stay intact")
}

func TestPutHealthRejectsInvalidUpdate(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	rec := doJSON(t, r, "PUT", "/api/health", `{"steps": -5}`)
	assert.Equal(t, 400, rec.Code)
}

func TestWorkoutLifecycleOverHTTP(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	// seeded samples
	rec := doJSON(t, r, "GET", "/api/workouts", "")
	require.Equal(t, 200, rec.Code)
	var workouts []internal.Workout
	decodeData(t, rec, &workouts)
	require.Len(t, workouts, 2)

	rec = doJSON(t, r, "POST", "/api/workouts", `{"name":"Run","type":"cardio","duration":30,"caloriesBurned":300,"date":"2024-01-01"}`)
	require.Equal(t, 201, rec.Code)
	var created internal.Workout
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.ID, "workout-"))

	rec = doJSON(t, r, "PUT", "/api/workouts/"+created.ID, `{"name":"Long Run","type":"cardio","duration":45,"caloriesBurned":400,"date":"2024-01-01"}`)
	require.Equal(t, 200, rec.Code)
	decodeData(t, rec, &workouts)
	require.Len(t, workouts, 3)

	rec = doJSON(t, r, "DELETE", "/api/workouts/"+created.ID, "")
	require.Equal(t, 200, rec.Code)
	decodeData(t, rec, &workouts)
	assert.Len(t, workouts, 2)
}

func TestPostWorkoutValidation(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	rec := doJSON(t, r, "POST", "/api/workouts", `{"name":"Run","type":"banana","duration":30,"caloriesBurned":300,"date":"2024-01-01"}`)
	assert.Equal(t, 400, rec.Code)
}

func TestExportDownload(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	rec := doJSON(t, r, "GET", "/api/health/export", "")
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "health-data-export.json")

	var payload internal.ExportPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotZero(t, payload.HealthData.Steps)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{\n  "), "export is indented JSON")
}

func TestStatusEndpointIsPublic(t *testing.T) {
	r := setupRouter(t)

	rec := doJSON(t, r, "GET", "/api/status", "")
	require.Equal(t, 200, rec.Code)

	var status struct {
		Offline   bool `json:"offline"`
		Reachable bool `json:"reachable"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Offline)
	assert.True(t, status.Reachable)
}

func TestSignOutEndsSession(t *testing.T) {
	r := setupRouter(t)
	signIn(t, r)

	rec := doJSON(t, r, "GET", "/api/auth/me", "")
	require.Equal(t, 200, rec.Code)
	var user internal.User
	decodeData(t, rec, &user)
	assert.Equal(t, "demo@example.com", user.Email)

	rec = doJSON(t, r, "POST", "/api/auth/signout", "")
	require.Equal(t, 200, rec.Code)

	rec = doJSON(t, r, "GET", "/api/health", "")
	assert.Equal(t, 401, rec.Code)
}
