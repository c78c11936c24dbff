package app

import (
	"github.com/gorilla/mux"
	"github.com/klokku/eventroster/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Roster view
	r.HandleFunc("/api/roster", deps.RosterHandler.GetView).Methods("GET")
	r.HandleFunc("/api/roster/reload", deps.RosterHandler.Reload).Methods("POST")
	r.HandleFunc("/api/roster/section/{section}", deps.RosterHandler.ToggleSection).Methods("PUT")

	// Form
	r.HandleFunc("/api/roster/create", deps.RosterHandler.StartCreate).Methods("POST")
	r.HandleFunc("/api/roster/edit/{index:[0-9]+}", deps.RosterHandler.StartEdit).Methods("POST")
	r.HandleFunc("/api/roster/form", deps.RosterHandler.UpdateForm).Methods("PUT")
	r.HandleFunc("/api/roster/form/schedule", deps.RosterHandler.ClearSchedule).Methods("DELETE")
	r.HandleFunc("/api/roster/form/participants/{userId}", deps.RosterHandler.AddParticipant).Methods("POST")
	r.HandleFunc("/api/roster/form/participants/{userId}", deps.RosterHandler.RemoveParticipant).Methods("DELETE")
	r.HandleFunc("/api/roster/form/submit", deps.RosterHandler.Submit).Methods("POST")
	r.HandleFunc("/api/roster/form/cancel", deps.RosterHandler.Cancel).Methods("POST")

	// Delete confirmation
	r.HandleFunc("/api/roster/delete/confirm", deps.RosterHandler.ConfirmDelete).Methods("POST")
	r.HandleFunc("/api/roster/delete/cancel", deps.RosterHandler.CancelDelete).Methods("POST")
	r.HandleFunc("/api/roster/delete/{index:[0-9]+}", deps.RosterHandler.RequestDelete).Methods("POST")
}
