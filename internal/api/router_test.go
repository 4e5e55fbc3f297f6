package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/hillview/occupancy-backend-go/internal/analysis/occupancy"
	"github.com/hillview/occupancy-backend-go/internal/config"
	"github.com/hillview/occupancy-backend-go/internal/database"
)

func setupRouter(t *testing.T, authEnabled bool) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Port:           ":0",
		DBPath:         filepath.Join(dir, "test.db"),
		DataDir:        dir,
		DefaultBinMins: 30,
		RateLimit:      1000,
		RateWindow:     time.Minute,
		JWTSecret:      "test-secret",
		AuthEnabled:    authEnabled,
	}

	return SetupRouter(cfg, db), cfg
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestIngestAndScenarioFlow(t *testing.T) {
	r, cfg := setupRouter(t, false)

	csvData := "PatType,InRoomTS,OutRoomTS\n" +
		"IVT,2013-01-07 10:00,2013-01-07 10:45\n" +
		"CAT,2013-01-07 11:00,2013-01-07 12:30\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DataDir, "stops.csv"), []byte(csvData), 0o644))

	// Ingest the CSV.
	w := doJSON(t, r, http.MethodPost, "/api/v1/stop-records/ingest", map[string]any{
		"file":          "stops.csv",
		"categoryField": "PatType",
		"entryField":    "InRoomTS",
		"exitField":     "OutRoomTS",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var ingestResp struct {
		Data struct {
			BatchID string `json:"batchId"`
			Loaded  int    `json:"loaded"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingestResp))
	assert.Equal(t, 2, ingestResp.Data.Loaded)
	assert.NotEmpty(t, ingestResp.Data.BatchID)

	// Records are queryable.
	w = doJSON(t, r, http.MethodGet, "/api/v1/stop-records?category=IVT", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "IVT")

	// Create a scenario over the ingested batch.
	w = doJSON(t, r, http.MethodPost, "/api/v1/scenarios", map[string]any{
		"name":        "day view",
		"binSizeMins": 30,
		"windowStart": "2013-01-07",
		"windowEnd":   "2013-01-08",
		"batchId":     ingestResp.Data.BatchID,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var scenarioResp struct {
		Data struct {
			ID     int64  `json:"id"`
			TaskID int64  `json:"taskId"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scenarioResp))
	require.NotZero(t, scenarioResp.Data.ID)

	// Poll until the background analyzer finishes.
	scenarioPath := fmt.Sprintf("/api/v1/scenarios/%d", scenarioResp.Data.ID)
	deadline := time.Now().Add(10 * time.Second)
	status := ""
	for time.Now().Before(deadline) {
		w = doJSON(t, r, http.MethodGet, scenarioPath, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got struct {
			Data struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		status = got.Data.Status
		if status == "completed" || status == "failed" {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, "completed", status)

	// Bydate table and summary are served.
	w = doJSON(t, r, http.MethodGet, scenarioPath+"/bydate?category=Total", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "occupancy")

	w = doJSON(t, r, http.MethodGet, scenarioPath+"/summary", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "binOfWeek")

	// The task is visible with its run counters.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", scenarioResp.Data.TaskID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bydate_occupancy")
}

func TestIngestRejectsPathTraversal(t *testing.T) {
	r, _ := setupRouter(t, false)

	w := doJSON(t, r, http.MethodPost, "/api/v1/stop-records/ingest", map[string]any{
		"file": "../../etc/passwd",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthProtectsAPI(t *testing.T) {
	r, cfg := setupRouter(t, true)

	// Without a token the API is closed.
	w := doJSON(t, r, http.MethodGet, "/api/v1/scenarios", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token issuance requires the shared secret.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/token", map[string]any{"client": "tester"},
		map[string]string{"X-Api-Secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/token", map[string]any{"client": "tester"},
		map[string]string{"X-Api-Secret": cfg.JWTSecret})
	require.Equal(t, http.StatusOK, w.Code)

	var tokenResp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokenResp))
	require.NotEmpty(t, tokenResp.Data.Token)

	// With the token the API opens up.
	w = doJSON(t, r, http.MethodGet, "/api/v1/scenarios", nil,
		map[string]string{"Authorization": "Bearer " + tokenResp.Data.Token})
	assert.Equal(t, http.StatusOK, w.Code)

	// A mangled token is rejected.
	w = doJSON(t, r, http.MethodGet, "/api/v1/scenarios", nil,
		map[string]string{"Authorization": "Bearer not.a.token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
