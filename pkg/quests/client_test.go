package quests_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailquest/trailquest-go/pkg/authapi"
	"github.com/trailquest/trailquest-go/pkg/authtest"
	"github.com/trailquest/trailquest-go/pkg/gateway"
	"github.com/trailquest/trailquest-go/pkg/quests"
	"github.com/trailquest/trailquest-go/pkg/session"
	"github.com/trailquest/trailquest-go/pkg/store"
)

// questsBackend fakes the domain API, guarding routes the way the real one
// does: any access credential signed by the auth service is accepted.
func questsBackend(t *testing.T, auth *authtest.Server, unauthorized *int32) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()

	guard := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !auth.ValidAccess(token) {
				atomic.AddInt32(unauthorized, 1)
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "credential rejected"})
				return
			}
			next(w, r)
		}
	}

	r.HandleFunc("/quests", guard(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"quests": []quests.Quest{{ID: "q1", Title: "Winter Waterfowl"}},
		})
	})).Methods(http.MethodGet)

	r.HandleFunc("/quests/{id}/leaderboard", guard(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entries": []quests.LeaderboardEntry{{Rank: 1, Username: "alice", Score: 42}},
		})
	})).Methods(http.MethodGet)

	r.HandleFunc("/sightings", guard(func(w http.ResponseWriter, r *http.Request) {
		var s quests.Sighting
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(s)
	})).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_EndToEnd_TransparentRenewal(t *testing.T) {
	authSrv := authtest.NewServer()
	defer authSrv.Close()
	profile := authSrv.Seed("alice", "alice@example.com", "s3cret")

	var unauthorized int32
	apiSrv := questsBackend(t, authSrv, &unauthorized)

	// seed the store with an expired access credential and a live refresh
	// credential, as if the app had been closed for a while
	backend := store.NewMemoryStore()
	sessions := store.NewSessionStore(backend, nil, nil)
	sessions.SaveSession(&profile,
		authSrv.IssueAccess(profile.ID, -time.Minute),
		authSrv.IssueRefresh(profile.ID, 24*time.Hour))

	ctl := session.New(session.Config{
		Auth:          authapi.NewClient(authSrv.URL(), nil),
		Store:         sessions,
		CheckInterval: time.Hour,
	})
	defer ctl.Close()
	st := ctl.Restore(context.Background())
	require.True(t, st.IsAuthenticated(), "restore should have renewed the stale credential")
	require.Equal(t, 1, authSrv.RefreshCalls())

	client := quests.NewClient(apiSrv.URL, gateway.NewClient(ctl))

	list, err := client.ListQuests(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Winter Waterfowl", list[0].Title)

	entries, err := client.Leaderboard(context.Background(), "q1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Username)

	// fresh credential throughout: the backend never saw a rejection and
	// no extra renewal ran
	assert.Equal(t, int32(0), atomic.LoadInt32(&unauthorized))
	assert.Equal(t, 1, authSrv.RefreshCalls())
}

func TestClient_EndToEnd_RetryAfterServerSideRejection(t *testing.T) {
	// access TTL is long enough to pass local validation but the server
	// will still reject the first credential: simulated by handing the
	// controller a credential the auth service never signed
	authSrv := authtest.NewServer()
	defer authSrv.Close()
	profile := authSrv.Seed("alice", "alice@example.com", "s3cret")

	var unauthorized int32
	apiSrv := questsBackend(t, authSrv, &unauthorized)

	foreign := authtest.NewServer()
	foreignProfile := foreign.Seed("alice", "alice@example.com", "s3cret")
	foreignAccess := foreign.IssueAccess(foreignProfile.ID, time.Hour)
	foreign.Close()

	backend := store.NewMemoryStore()
	sessions := store.NewSessionStore(backend, nil, nil)
	sessions.SaveSession(&profile, foreignAccess, authSrv.IssueRefresh(profile.ID, 24*time.Hour))

	ctl := session.New(session.Config{
		Auth:          authapi.NewClient(authSrv.URL(), nil),
		Store:         sessions,
		CheckInterval: time.Hour,
	})
	defer ctl.Close()
	st := ctl.Restore(context.Background())
	require.True(t, st.IsAuthenticated())

	client := quests.NewClient(apiSrv.URL, gateway.NewClient(ctl))

	sighting, err := client.ReportSighting(context.Background(), quests.Sighting{
		QuestID:     "q1",
		StepID:      "s1",
		SpeciesName: "Eurasian lynx",
		Latitude:    61.5,
		Longitude:   8.3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sighting.ID)

	// the backend rejected the foreign credential exactly once, the
	// gateway renewed and retried, and the caller never saw the 401
	assert.Equal(t, int32(1), atomic.LoadInt32(&unauthorized))
	assert.Equal(t, 1, authSrv.RefreshCalls())
}
