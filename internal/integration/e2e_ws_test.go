package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/MeiRomney/CollabOrCancel-sub000/internal/config"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/engine"
	httpserver "github.com/MeiRomney/CollabOrCancel-sub000/internal/http"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/scheduler"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/service"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/store"
	"github.com/MeiRomney/CollabOrCancel-sub000/internal/ws"
)

type wsEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// startReader funnels one connection into a channel so nothing calls
// ReadMessage concurrently.
func startReader(conn *websocket.Conn) chan wsEnvelope {
	out := make(chan wsEnvelope, 64)
	go func() {
		defer close(out)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var env wsEnvelope
			if json.Unmarshal(msg, &env) == nil {
				out <- env
			}
		}
	}()
	return out
}

func waitFor(t *testing.T, ch chan wsEnvelope, eventType string) wsEnvelope {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case env, ok := <-ch:
			if !ok {
				t.Fatalf("connection closed waiting for %s", eventType)
			}
			if env.Type == eventType {
				return env
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s", eventType)
		}
	}
}

func postJSON(t *testing.T, url string, body any) map[string]any {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		t.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return out
}

func TestE2EMatchOverSockets(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	gameStore := store.NewGameStore()
	sched := scheduler.New()
	hub := ws.NewHub()
	eng := engine.New(gameStore, sched, hub, engine.Config{
		ProposalDuration: time.Hour,
		VotingDuration:   time.Hour,
		DMDuration:       time.Hour,
		ActionDuration:   time.Hour,
		Seed:             7,
	})
	defer eng.Shutdown()

	cfg := &config.Config{APIRateLimit: 1000, APIRateWindow: time.Minute}
	httpserver.RegisterRoutes(r, eng, hub, nil, "test", cfg)

	ts := httptest.NewServer(r)
	defer ts.Close()
	base := ts.URL + "/api/v1"

	// red opens the lobby, blue and green join over REST
	created := postJSON(t, base+"/games", map[string]any{
		"name": "alice", "color": "red", "bots": 0,
	})
	gameID, _ := created["game_id"].(string)
	redToken, _ := created["token"].(string)
	if gameID == "" || redToken == "" {
		t.Fatalf("create response incomplete: %v", created)
	}

	joinedB := postJSON(t, base+"/games/"+gameID+"/join", map[string]any{
		"name": "bob", "color": "blue",
	})
	blueToken, _ := joinedB["token"].(string)

	postJSON(t, base+"/games/"+gameID+"/join", map[string]any{
		"name": "carol", "color": "green",
	})

	dial := func(token string) (*websocket.Conn, chan wsEnvelope) {
		url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=" + token
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		t.Cleanup(func() { conn.Close() })
		ch := startReader(conn)
		waitFor(t, ch, "joined")
		return conn, ch
	}

	connRed, chRed := dial(redToken)
	connBlue, chBlue := dial(blueToken)

	send := func(conn *websocket.Conn, msg string) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// lobby -> first proposal phase
	send(connRed, `{"type":"start_game"}`)
	waitFor(t, chRed, "phase_changed")
	waitFor(t, chBlue, "phase_changed")

	// red floats a collab; both sockets see it
	send(connRed, `{"type":"propose_collab"}`)
	proposed := waitFor(t, chBlue, "collab_proposed")

	var proposedPayload struct {
		Proposals []struct {
			ID       string `json:"id"`
			Proposer string `json:"proposer"`
		} `json:"proposals"`
	}
	if err := json.Unmarshal(proposed.Data, &proposedPayload); err != nil {
		t.Fatalf("decode collab_proposed: %v", err)
	}
	if len(proposedPayload.Proposals) != 1 || proposedPayload.Proposals[0].Proposer != "red" {
		t.Fatalf("proposals = %+v; want one from red", proposedPayload.Proposals)
	}
	proposalID := proposedPayload.Proposals[0].ID

	// advance to voting, blue backs red's proposal
	send(connRed, `{"type":"end_phase"}`)
	waitFor(t, chBlue, "phase_changed")

	send(connBlue, `{"type":"vote_collab","data":{"choice":"`+proposalID+`"}}`)
	waitFor(t, chRed, "collab_vote_updated")

	// closing the vote crowns red as host
	send(connRed, `{"type":"end_phase"}`)
	resolved := waitFor(t, chRed, "collab_resolved")

	var resolvedPayload struct {
		Winner *struct {
			Proposer string `json:"proposer"`
		} `json:"winner"`
		Tie bool `json:"tie"`
	}
	if err := json.Unmarshal(resolved.Data, &resolvedPayload); err != nil {
		t.Fatalf("decode collab_resolved: %v", err)
	}
	if resolvedPayload.Tie || resolvedPayload.Winner == nil || resolvedPayload.Winner.Proposer != "red" {
		t.Fatalf("collab_resolved = %+v; want red's proposal winning", resolvedPayload)
	}

	// phase errors come back on the offending socket only
	send(connBlue, `{"type":"propose_collab"}`)
	waitFor(t, chBlue, "error")
}
