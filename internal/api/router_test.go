package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranchoudharyy/BroCode-sub000/internal/config"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/handlers"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/models"
	"github.com/kiranchoudharyy/BroCode-sub000/internal/realtime"
)

func newTestRouter(t *testing.T, token string) (http.Handler, *realtime.Coordinator) {
	t.Helper()
	cfg := &config.Config{
		Port:            "8080",
		Env:             "development",
		PresenceWindow:  time.Minute,
		SweepInterval:   time.Minute,
		MaxPayloadBytes: 4096,
		InternalToken:   token,
	}
	coord := realtime.NewCoordinator(realtime.Options{
		PresenceWindow:  cfg.PresenceWindow,
		MaxPayloadBytes: cfg.MaxPayloadBytes,
		Logger:          zerolog.Nop(),
	})
	return NewRouter(zerolog.Nop(), cfg, coord, nil), coord
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := doRequest(router, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Version)
	assert.Empty(t, resp.Checks, "no redis configured, no checks reported")
}

func TestRouter_RoomsEmpty(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := doRequest(router, http.MethodGet, "/rooms", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.RoomListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Rooms)
}

func TestRouter_RoomMembersUnknownRoom(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := doRequest(router, http.MethodGet, "/rooms/nope/members", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.RoomMembersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "nope", resp.RoomID)
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Members)
}

func TestRouter_RoomMembersAfterJoin(t *testing.T) {
	router, coord := newTestRouter(t, "")
	coord.Connect("c1")
	coord.Identify("c1", models.Identity{UserID: "ua", Name: "A"})
	coord.JoinRoom("c1", "g1", realtime.RoomGroup, nil)

	rec := doRequest(router, http.MethodGet, "/rooms/g1/members", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.RoomMembersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, []string{"ua"}, resp.Members)
}

func TestRouter_PublishRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, "secret")

	body := `{"event":"leaderboardUpdate","data":{"first":"ua"}}`

	rec := doRequest(router, http.MethodPost, "/internal/rooms/g1/publish", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/internal/rooms/g1/publish", "wrong", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/internal/rooms/g1/publish", "secret", body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PublishValidation(t *testing.T) {
	router, _ := newTestRouter(t, "secret")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown event", `{"event":"dropTables"}`, http.StatusBadRequest},
		{"missing event", `{"data":{}}`, http.StatusBadRequest},
		{"malformed body", `{"event":`, http.StatusBadRequest},
		{"valid", `{"event":"memberCountUpdate","data":{"roomId":"g1","count":3}}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/internal/rooms/g1/publish", "secret", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_LeaderboardPublish(t *testing.T) {
	router, coord := newTestRouter(t, "secret")
	coord.Connect("c1")
	coord.Identify("c1", models.Identity{UserID: "ua", Name: "A"})
	coord.JoinRoom("c1", "c7", realtime.RoomChallenge, nil)

	body := `{"rankings":[{"userId":"ua","score":100}]}`
	rec := doRequest(router, http.MethodPost, "/internal/challenges/c7/leaderboard", "secret", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.PublishResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "c7", resp.RoomID)
	assert.Equal(t, realtime.EventLeaderboardUpdate, resp.Event)
	assert.Equal(t, 1, resp.Recipients)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := doRequest(router, http.MethodGet, "/health", "", "")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestRouter_Root(t *testing.T) {
	router, _ := newTestRouter(t, "")

	rec := doRequest(router, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BroCode Realtime")
}
