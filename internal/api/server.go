// Package api exposes game sessions over HTTP and websockets.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/diagram"
	"github.com/hailam/chessrules/internal/session"
)

// Server routes HTTP requests to a session manager.
type Server struct {
	router   *mux.Router
	games    *session.Manager
	upgrader websocket.Upgrader
}

func stdoutLogger(next http.Handler) http.Handler {
	return handlers.LoggingHandler(os.Stdout, next)
}

// NewServer builds the router. When accessLog is false requests are not
// logged.
func NewServer(games *session.Manager, accessLog bool) *Server {
	s := &Server{
		router: mux.NewRouter(),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if accessLog {
		s.router.Use(stdoutLogger)
	}
	s.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	s.router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/games", s.createHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/games", s.listHandler).Methods(http.MethodGet)

	s.router.HandleFunc("/games/{id}", s.getHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/games/{id}/legal/{square}", s.legalHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/games/{id}/moves", s.moveHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/games/{id}/promotion", s.promotionHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/games/{id}/diagram.png", s.diagramHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/games/{id}/diagram.svg", s.svgHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/games/{id}/ws", s.wsHandler).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "no such route")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createRequest struct {
	// Position is serialized board text or FEN; empty means the start position.
	Position string `json:"position"`
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeEngineError(w, badRequest(err))
			return
		}
	}
	snap, err := s.games.Create(r.Context(), req.Position)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := s.games.List(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"games": ids})
}

func (s *Server) getHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := s.games.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) legalHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sq, err := board.ParseSquare(vars["square"])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	moves, err := s.games.Legal(r.Context(), vars["id"], sq)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if moves == nil {
		moves = []board.Square{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"square": sq, "moves": moves})
}

type moveRequest struct {
	From board.Square `json:"from"`
	To   board.Square `json:"to"`
}

func (s *Server) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, badRequest(err))
		return
	}
	snap, err := s.games.Move(r.Context(), mux.Vars(r)["id"], req.From, req.To)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type promotionRequest struct {
	Piece board.Kind `json:"piece"`
}

func (s *Server) promotionHandler(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEngineError(w, badRequest(err))
		return
	}
	snap, err := s.games.Promote(r.Context(), mux.Vars(r)["id"], req.Piece)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// diagramOptions reads ?size=, ?flip= and ?coords= from the query.
func diagramOptions(r *http.Request) (diagram.Options, error) {
	q := r.URL.Query()
	var opts diagram.Options
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, badRequest(err)
		}
		opts.Size = n
	}
	opts.Flipped = q.Get("flip") == "1" || q.Get("flip") == "true"
	opts.Coordinates = q.Get("coords") != "0" && q.Get("coords") != "false"
	return opts, nil
}

func (s *Server) diagramHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := diagramOptions(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	b, err := s.games.Board(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := diagram.WritePNG(w, b, opts); err != nil {
		writeEngineError(w, err)
	}
}

func (s *Server) svgHandler(w http.ResponseWriter, r *http.Request) {
	opts, err := diagramOptions(r)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	b, err := s.games.Board(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(diagram.SVG(b, opts)))
}
