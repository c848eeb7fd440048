package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vibecoding/backoffice/internal/players"
	"github.com/vibecoding/backoffice/internal/service"
	"github.com/vibecoding/backoffice/internal/store"
)

func newTestPlayersServer(t *testing.T) *PlayersServer {
	t.Helper()
	dir := t.TempDir()
	logger := zap.NewNop()

	svc := service.NewPlayersService(
		store.NewPlayerStore(filepath.Join(dir, "player_master.csv"), logger),
		store.NewConditionStore(filepath.Join(dir, "daily_condition.csv"), logger),
		store.NewPhysicalStore(filepath.Join(dir, "physical_tests.csv"), logger),
		players.NewSessionManager(time.Hour),
		"admin123",
		filepath.Join(dir, "player_images"),
		logger,
	)
	return NewPlayersServer(ServerConfig{Host: "127.0.0.1", Port: 0}, svc, logger)
}

func doAuthedJSON(t *testing.T, server http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, server *PlayersServer, name, password string) string {
	t.Helper()
	w := doAuthedJSON(t, server.Router(), http.MethodPost, "/api/login", "",
		gin.H{"name": name, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func createPlayer(t *testing.T, server *PlayersServer, admin string, number int, name string) {
	t.Helper()
	w := doAuthedJSON(t, server.Router(), http.MethodPost, "/api/players", admin, gin.H{
		"number":    number,
		"name":      name,
		"position":  "MF",
		"height_cm": 172,
		"weight_kg": 64,
		"password":  "pass123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestPlayersLoginAndLogout(t *testing.T) {
	server := newTestPlayersServer(t)

	token := login(t, server, "admin", "admin123")

	w := doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked token must not resolve")
}

func TestPlayersLoginRejectsBadCredentials(t *testing.T) {
	server := newTestPlayersServer(t)

	w := doAuthedJSON(t, server.Router(), http.MethodPost, "/api/login", "",
		gin.H{"name": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/login", "", gin.H{"name": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlayersRequireAuth(t *testing.T) {
	server := newTestPlayersServer(t)

	w := doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players", "bad-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlayersAdminOnlyRoutes(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")
	playerToken := login(t, server, "watanabe", "pass123")

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/players", gin.H{"number": 9, "name": "x", "position": "FW", "password": "p"}},
		{http.MethodPut, "/api/players/watanabe", gin.H{"number": 10}},
		{http.MethodPost, "/api/physicals", gin.H{"player": "watanabe", "event": "yoyo_test", "value": 1600}},
		{http.MethodDelete, "/api/physicals/some-id", nil},
		{http.MethodGet, "/api/dashboard/status", nil},
		{http.MethodGet, "/api/dashboard/missing", nil},
	}
	for _, tc := range cases {
		w := doAuthedJSON(t, server.Router(), tc.method, tc.path, playerToken, tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPlayersCreateAndUpdate(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")

	// Duplicate registration.
	w := doAuthedJSON(t, server.Router(), http.MethodPost, "/api/players", admin, gin.H{
		"number": 9, "name": "watanabe", "position": "FW", "height_cm": 170, "weight_kg": 62, "password": "p",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown position.
	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/players", admin, gin.H{
		"number": 9, "name": "ito", "position": "ST", "height_cm": 170, "weight_kg": 62, "password": "p",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Missing height is rejected, not stored.
	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/players", admin, gin.H{
		"number": 9, "name": "ito", "position": "FW", "weight_kg": 62, "password": "p",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodPut, "/api/players/watanabe", admin, gin.H{"weight_kg": 66.5})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data players.Player `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 66.5, resp.Data.WeightKG)

	w = doAuthedJSON(t, server.Router(), http.MethodPut, "/api/players/nobody", admin, gin.H{"weight_kg": 60})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlayersRosterHidesPasswordHash(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")

	w := doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), players.HashPassword("pass123"))
}

func TestPlayersConditionFlow(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")
	createPlayer(t, server, admin, 9, "ito")
	playerToken := login(t, server, "watanabe", "pass123")

	// A player submission is always recorded under their own name.
	w := doAuthedJSON(t, server.Router(), http.MethodPost, "/api/conditions", playerToken, gin.H{
		"player": "ito", "weight_kg": 64.0, "fatigue": 4, "sleep_quality": 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "watanabe", created.Data["player"])
	date := created.Data["date"]
	require.NotEmpty(t, date)

	// Out-of-range scale.
	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/conditions", playerToken, gin.H{
		"fatigue": 9, "sleep_quality": 3,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// The flagged player appears on the admin dashboard.
	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/dashboard/status", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Data service.TeamStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Len(t, status.Data.Alerts, 1)
	assert.Equal(t, "watanabe", status.Data.Alerts[0].Player)

	// ito has not submitted yet.
	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/dashboard/missing", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var missing struct {
		Data struct {
			Missing []string `json:"missing"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &missing))
	assert.Equal(t, []string{"ito"}, missing.Data.Missing)

	// A player cannot delete another player's entry; the admin can.
	itoToken := login(t, server, "ito", "pass123")
	w = doAuthedJSON(t, server.Router(), http.MethodDelete, "/api/conditions?player=watanabe&date="+date, itoToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodDelete, "/api/conditions?player=watanabe&date="+date, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPlayersPhysicalsAndLeaderboards(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")
	createPlayer(t, server, admin, 9, "ito")

	w := doAuthedJSON(t, server.Router(), http.MethodPost, "/api/physicals", admin, gin.H{
		"player": "watanabe", "event": "sprint_30m", "value": 4.32, "date": "2026-02-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data players.PhysicalTest `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/physicals", admin, gin.H{
		"player": "ito", "event": "sprint_30m", "value": 4.50, "date": "2026-02-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Unknown event.
	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/physicals", admin, gin.H{
		"player": "ito", "event": "marathon", "value": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Any authenticated user can read the leaderboards.
	playerToken := login(t, server, "watanabe", "pass123")
	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/dashboard/leaderboards?limit=1", playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var boards struct {
		Data []service.EventLeaderboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &boards))
	require.Len(t, boards.Data, len(players.Events))
	require.Len(t, boards.Data[0].Entries, 1)
	assert.Equal(t, "watanabe", boards.Data[0].Entries[0].Player)

	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/dashboard/leaderboards?limit=zero", playerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodDelete, "/api/physicals/"+created.Data.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doAuthedJSON(t, server.Router(), http.MethodDelete, "/api/physicals/"+created.Data.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlayersImageUpload(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/players/watanabe/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "8_watanabe.jpg")

	w = doAuthedJSON(t, server.Router(), http.MethodPost, "/api/players/watanabe/image", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing multipart field")
}

func TestPlayersSummaryAccess(t *testing.T) {
	server := newTestPlayersServer(t)
	admin := login(t, server, "admin", "admin123")
	createPlayer(t, server, admin, 8, "watanabe")
	createPlayer(t, server, admin, 9, "ito")
	playerToken := login(t, server, "watanabe", "pass123")

	w := doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players/watanabe/summary", playerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data service.PlayerSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "watanabe", resp.Data.Player.Name)
	assert.NotEmpty(t, resp.Data.BMI.Status)

	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players/ito/summary", playerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doAuthedJSON(t, server.Router(), http.MethodGet, "/api/players/ito/summary", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
