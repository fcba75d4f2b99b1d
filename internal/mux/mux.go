package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"jaffre-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/game/{id}").Handler(this.getGameID())
	r.Methods(http.MethodGet).Path("/ws").Handler(this.getWS())

	return this
}
