package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/config"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/database"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/guard"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/metrics"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/notifier"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/positions"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/processor"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/pubsub"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/roster"
	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, n notifier.Notifier, ps pubsub.PubSubClient) *Server {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, dbTeardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	store := roster.New(db)
	cfg := config.Config{}

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	g := guard.New(store, 30*time.Second)
	proc := processor.New(store, g, positions.Default(), n, metricsSvc, ps)

	return NewServer(store, metricsSvc, metricsHandler, cfg, n, proc, ps)
}

func seedGroupAndPlayers(t *testing.T, store roster.RosterStore) {
	t.Helper()
	require.NoError(t, store.CreateGroup(&volley.Group{ID: "group-1", Name: "Tuesday Volley", AdminID: "admin-1"}))
	require.NoError(t, store.UpsertPlayer(&volley.Player{
		ID: "ana", Name: "Ana", Commitment: 3, PreferredPositions: []string{"setter"},
	}))
	require.NoError(t, store.UpsertPlayer(&volley.Player{
		ID: "bea", Name: "Bea", Commitment: 1, PreferredPositions: []string{"outside", "middle"},
	}))
}

func seedOpenMatch(t *testing.T, store roster.RosterStore) *volley.Match {
	t.Helper()
	match := &volley.Match{
		ID:           "match-1",
		GroupID:      "group-1",
		State:        volley.StateOpen,
		StartTime:    time.Now().Add(48 * time.Hour).Unix(),
		Quotas:       map[string]int{"setter": 1, "outside": 2},
		SubsCapacity: 2,
		TeamCount:    2,
		CreatedAt:    time.Now().Unix(),
	}
	require.NoError(t, store.CreateMatch(match))
	return match
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestCreateGroupHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))

	body, _ := json.Marshal(map[string]string{"id": "group-1", "name": "Tuesday Volley", "admin_id": "admin-1"})
	req, err := http.NewRequest("POST", "/groups", bytes.NewReader(body))
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	group, err := server.Store.GetGroup("group-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", group.AdminID)

	t.Run("rejects missing admin", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"name": "No Admin"})
		req, err := http.NewRequest("POST", "/groups", bytes.NewReader(body))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCreateMatchHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)

	payload := map[string]any{
		"group_id":   "group-1",
		"caller_id":  "admin-1",
		"start_time": time.Now().Add(48 * time.Hour).Unix(),
	}

	t.Run("admin creates match", func(t *testing.T) {
		body, _ := json.Marshal(payload)
		req, err := http.NewRequest("POST", "/matches/create", bytes.NewReader(body))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var match volley.Match
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &match))
		assert.Equal(t, volley.StateOpen, match.State)
		assert.NotEmpty(t, match.Quotas)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		payload["caller_id"] = "somebody-else"
		body, _ := json.Marshal(payload)
		req, err := http.NewRequest("POST", "/matches/create", bytes.NewReader(body))
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestJoinHandler(t *testing.T) {
	mockNotifier := notifier.NewMock()
	server := setupTestServer(t, mockNotifier, pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	t.Run("join allocates the roster", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/matches/join?matchID=match-1&playerID=ana", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		starters, err := server.Store.GetParticipationsByStatus("match-1", volley.ParticipationStarter)
		require.NoError(t, err)
		require.Len(t, starters, 1)
		assert.Equal(t, "ana", starters[0].PlayerID)
		assert.Equal(t, "setter", starters[0].Position)
		assert.Len(t, mockNotifier.SendRosterNotificationCalls, 1)
	})

	t.Run("double join conflicts", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/matches/join?matchID=match-1&playerID=ana", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("unknown match is not found", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/matches/join?matchID=nope&playerID=ana", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing parameter is rejected", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/matches/join?matchID=match-1", nil)
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "playerID")
	})
}

func TestWithdrawHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	req, err := http.NewRequest("POST", "/matches/join?matchID=match-1&playerID=ana", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var participation volley.Participation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participation))

	req, err = http.NewRequest("POST", "/matches/withdraw?participationID="+participation.ID, nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// A second withdrawal of the same participation conflicts.
	req, err = http.NewRequest("POST", "/matches/withdraw?participationID="+participation.ID, nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestWithdrawHandlerBusyLeaseAccepts(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	req, err := http.NewRequest("POST", "/matches/join?matchID=match-1&playerID=ana", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var participation volley.Participation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participation))

	// Another run holds the match lease while the withdrawal arrives.
	require.NoError(t, server.Store.AcquireMatchLease("match-1", "other-run", time.Minute))

	req, err = http.NewRequest("POST", "/matches/withdraw?participationID="+participation.ID, nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	// The withdrawal itself committed despite the deferred recalculation.
	removed, err := server.Store.GetParticipation(participation.ID)
	require.NoError(t, err)
	assert.Equal(t, volley.ParticipationRemoved, removed.Status)
}

func TestPaymentHandlerRejectsUnknownStatus(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	req, err := http.NewRequest("POST", "/matches/join?matchID=match-1&playerID=ana", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	var participation volley.Participation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &participation))

	req, err = http.NewRequest("POST", "/participations/payment?participationID="+participation.ID+"&status=PAID", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req, err = http.NewRequest("POST", "/participations/payment?participationID="+participation.ID+"&status=CONFIRMED", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListMatchesHandler(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	req, err := http.NewRequest("GET", "/matches?state=OPEN", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "match-1")

	req, err = http.NewRequest("GET", "/matches?state=PLAYED", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "match-1")
}

func TestTeamsHandlerGetBeforeGeneration(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	req, err := http.NewRequest("GET", "/matches/teams?matchID=match-1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTeamsHandlerRejectsOpenMatch(t *testing.T) {
	server := setupTestServer(t, notifier.NewMock(), pubsub.NewMock("TEST"))
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	req, err := http.NewRequest("POST", "/matches/teams?matchID=match-1&callerID=admin-1", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRecalculateHandler(t *testing.T) {
	mockPubsub := pubsub.NewMock("TEST")
	mockPubsub.ProcessMessageFunc = func(data []byte, returnValue any) error {
		*(returnValue.(*pubsub.RosterEvent)) = pubsub.RosterEvent{MatchID: "match-1", GroupID: "group-1"}
		return nil
	}
	server := setupTestServer(t, notifier.NewMock(), mockPubsub)
	seedGroupAndPlayers(t, server.Store)
	seedOpenMatch(t, server.Store)

	// A pending participation whose allocation was previously skipped.
	require.NoError(t, server.Store.CreateParticipation(&volley.Participation{
		ID: "part-ana", MatchID: "match-1", PlayerID: "ana",
		Status: volley.ParticipationPending, PaymentStatus: volley.PaymentPending,
		CreatedAt: time.Now().Unix(),
	}))

	wrapper := map[string]any{
		"subscription": "roster-recalc-sub",
		"message": map[string]string{
			"data": base64.StdEncoding.EncodeToString([]byte("payload")),
		},
	}
	body, _ := json.Marshal(wrapper)

	req, err := http.NewRequest("POST", "/pubsub/roster-recalc", bytes.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// The retried recalculation promoted the pending join to starter.
	starters, err := server.Store.GetParticipationsByStatus("match-1", volley.ParticipationStarter)
	require.NoError(t, err)
	require.Len(t, starters, 1)
	assert.Equal(t, "ana", starters[0].PlayerID)

	t.Run("rejects malformed wrapper", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/pubsub/roster-recalc", bytes.NewReader([]byte("not json")))
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
