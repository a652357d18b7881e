package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/session"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
)

// wsMessage is a command sent by a websocket client.
type wsMessage struct {
	Type  string       `json:"type"` // "move" or "promote"
	From  board.Square `json:"from"`
	To    board.Square `json:"to"`
	Piece board.Kind   `json:"piece"`
}

// client is one websocket connection watching a game. All writes go through
// send so only writeLoop touches the connection for writing.
type client struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
}

func (c *client) push(v any) {
	select {
	case c.send <- v:
	default:
		log.Printf("api: websocket %s is not keeping up, dropping update", c.conn.RemoteAddr())
	}
}

func (c *client) writeLoop() {
	for {
		select {
		case v := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(v); err != nil {
				c.conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	snap, err := s.games.Get(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Printf("api: websocket upgrade: %v", err)
		return
	}
	log.Printf("api: websocket %s watching game %s", conn.RemoteAddr(), id)

	c := &client{
		conn: conn,
		send: make(chan any, sendBuffer),
		done: make(chan struct{}),
	}
	c.push(snap)
	cancel := s.games.Subscribe(id, func(snap *session.Snapshot) { c.push(snap) })
	go c.writeLoop()

	s.readLoop(r.Context(), c, id)

	cancel()
	close(c.done)
	conn.Close()
}

// readLoop applies client commands until the connection fails. Resulting
// states reach the client through the subscription; failures are sent back
// as error bodies.
func (s *Server) readLoop(ctx context.Context, c *client, id string) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if _, ok := err.(*websocket.CloseError); !ok {
				log.Printf("api: websocket %s: %v", c.conn.RemoteAddr(), err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.push(errorBody{Error: badRequest(err).Error()})
			continue
		}

		switch msg.Type {
		case "move":
			_, err = s.games.Move(ctx, id, msg.From, msg.To)
		case "promote":
			_, err = s.games.Promote(ctx, id, msg.Piece)
		default:
			err = badRequest(fmt.Errorf("unknown message type %q", msg.Type))
		}
		if err != nil {
			c.push(errorBody{Error: err.Error(), Kind: errorKind(err)})
		}
	}
}
