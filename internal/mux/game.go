package mux

import (
	"errors"
	"net/http"

	gmux "github.com/gorilla/mux"

	"jaffre-server/pkg/protocol"
)

// getGameID returns the spectator view of a running game
func (m *Mux) getGameID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer, ok := m.pitBoss.Dealer(gmux.Vars(r)["id"])
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		state, err := dealer.State(r.Context())
		if err != nil {
			if errors.Is(err, protocol.ErrGameNotFound) {
				writeJSONError(w, http.StatusNotFound, nil)
				return
			}

			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, state)
	}
}
