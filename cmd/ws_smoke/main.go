package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// End-to-end smoke run against a live server: create a game with bots, open
// a socket, start the match and watch events stream until game over or
// timeout.

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://127.0.0.1:%s/api/v1", port)

	body, _ := json.Marshal(map[string]any{
		"name":  "smoke",
		"color": "red",
		"bots":  4,
	})
	resp, err := http.Post(base+"/games", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("create game: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("create game: status %d", resp.StatusCode)
	}

	var created struct {
		GameID string `json:"game_id"`
		Token  string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		log.Fatalf("decode create response: %v", err)
	}
	log.Printf("created game %s", created.GameID)

	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, created.Token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// wait for the joined snapshot before starting
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, msg, err := conn.ReadMessage(); err != nil {
		log.Fatalf("read joined: %v", err)
	} else {
		log.Printf("joined: %s", truncate(msg))
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"start_game"}`)); err != nil {
		log.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(5 * time.Minute)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}

		var env struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(msg, &env)
		log.Printf("<- %s: %s", env.Type, truncate(msg))

		if env.Type == "game_over" {
			log.Println("smoke run finished")
			return
		}
	}
	log.Fatal("timed out waiting for game over")
}

func truncate(msg []byte) string {
	const max = 200
	if len(msg) <= max {
		return string(msg)
	}
	return string(msg[:max]) + "..."
}
