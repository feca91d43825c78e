package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/facilityhub/lobby-service/internal/api/handlers"
	"github.com/facilityhub/lobby-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, url string, actorID uuid.UUID, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", actorID.String())
	req.Header.Set("X-Actor-Email", fmt.Sprintf("%s@example.com", actorID.String()[:8]))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestLobbyEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	facility := testutil.NewFacilityBuilder().Build(t, ts.DB.DB)

	creator := uuid.New()
	date := time.Now().AddDate(0, 0, 5).Format("2006-01-02")

	// Create
	resp := doJSON(t, http.MethodPost, ts.APIURL("/lobbies"), creator, handlers.CreateLobbyRequest{
		FacilityID: facility.ID.String(),
		Date:       date,
		StartTime:  "18:00",
		EndTime:    "19:00",
		MinPlayers: 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	lobby := decode[handlers.LobbyResponse](t, resp)
	assert.Equal(t, "open", lobby.Status)
	assert.Equal(t, 1, lobby.CurrentPlayers)

	// Creator joining again conflicts
	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID+"/join"), creator, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Two more joins fill the lobby; the second one books
	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID+"/join"), uuid.New(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	join1 := decode[map[string]interface{}](t, resp)
	assert.Equal(t, false, join1["isFull"])

	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID+"/join"), uuid.New(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	join2 := decode[map[string]interface{}](t, resp)
	assert.Equal(t, true, join2["isFull"])
	assert.NotEmpty(t, join2["bookingId"])

	// State shows three seated members, filled
	resp = doJSON(t, http.MethodGet, ts.APIURL("/lobbies/"+lobby.ID), creator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[handlers.LobbyResponse](t, resp)
	assert.Equal(t, "filled", state.Status)
	assert.Len(t, state.Participants, 3)

	// Only the creator can cancel
	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID+"/cancel"), uuid.New(), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID+"/cancel"), creator, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// Cancelled lobby rejects joins
	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID+"/join"), uuid.New(), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestLobbyEndpoints_Errors(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Missing actor header
	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/lobbies/"+uuid.New().String()), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Unknown lobby
	resp = doJSON(t, http.MethodGet, ts.APIURL("/lobbies/"+uuid.New().String()), uuid.New(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Leaving a lobby you never joined
	lobby, _ := testutil.NewLobbyBuilder().Build(t, ts.DB.DB)
	resp = doJSON(t, http.MethodPost, ts.APIURL("/lobbies/"+lobby.ID.String()+"/leave"), uuid.New(), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
