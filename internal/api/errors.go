package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/diagram"
	"github.com/hailam/chessrules/internal/session"
)

// errBadRequest marks malformed request bodies and query values.
var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return errors.Join(errBadRequest, err)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusOf maps an error to the HTTP status reported for it. Rule violations
// caused by the current game state are conflicts; malformed input is a bad
// request.
func statusOf(err error) int {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, board.ErrOutOfBounds),
		errors.Is(err, board.ErrInvalidBoardRepresentation),
		errors.Is(err, board.ErrInvalidPromotionPiece),
		errors.Is(err, diagram.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, board.ErrEmptySquare),
		errors.Is(err, board.ErrWrongPlayer),
		errors.Is(err, board.ErrIllegalMove),
		errors.Is(err, board.ErrPromotionRequired),
		errors.Is(err, board.ErrNoPawnToPromote),
		errors.Is(err, board.ErrGameAlreadyDecided):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func errorKind(err error) string {
	if name := board.ErrorName(err); name != "" {
		return name
	}
	if errors.Is(err, session.ErrGameNotFound) {
		return "GameNotFound"
	}
	return ""
}

func writeEngineError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("api: %v", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Kind: errorKind(err)})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}
