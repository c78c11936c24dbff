package event_roster

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/klokku/eventroster/internal/rest"
	log "github.com/sirupsen/logrus"
)

// FormDTO carries a partial form update. Absent fields are left unchanged.
type FormDTO struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Date    *string `json:"date,omitempty"`
	Time    *string `json:"time,omitempty"`
}

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

// GetView godoc
// @Summary Get the roster view
// @Description Current mode, event list, roster and open form
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Router /api/roster [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting roster view")
	h.writeView(w, http.StatusOK)
}

// Reload godoc
// @Summary Reload users and events
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Router /api/roster/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reloading roster")
	h.controller.Init(r.Context())
	h.writeView(w, http.StatusOK)
}

// StartCreate godoc
// @Summary Open an empty event form
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Router /api/roster/create [post]
func (h *Handler) StartCreate(w http.ResponseWriter, r *http.Request) {
	h.controller.StartCreate()
	h.writeView(w, http.StatusOK)
}

// StartEdit godoc
// @Summary Open the edit form for an event
// @Tags Roster
// @Produce json
// @Param index path int true "Event index"
// @Success 200 {object} View
// @Failure 400 {object} rest.ErrorResponse "Invalid index"
// @Failure 404 {object} rest.ErrorResponse "No event at index"
// @Router /api/roster/edit/{index} [post]
func (h *Handler) StartEdit(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	if err := h.controller.StartEdit(index); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// UpdateForm godoc
// @Summary Update the open form
// @Description Sets name, address and schedule. Date and time are applied together.
// @Tags Roster
// @Accept json
// @Produce json
// @Param form body FormDTO true "Form fields"
// @Success 200 {object} View
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "No form open"
// @Router /api/roster/form [put]
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var form FormDTO
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid request body format",
			Details: err.Error(),
		})
		return
	}
	log.Tracef("Updating roster form: %+v", form)

	if form.Name != nil {
		if err := h.controller.SetName(*form.Name); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if form.Address != nil {
		if err := h.controller.SetAddress(*form.Address); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if form.Date != nil || form.Time != nil {
		if err := h.controller.SetSchedule(deref(form.Date), deref(form.Time)); err != nil {
			h.writeError(w, err)
			return
		}
	}
	h.writeView(w, http.StatusOK)
}

// ClearSchedule godoc
// @Summary Clear the schedule of the open form
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Failure 409 {object} rest.ErrorResponse "No form open"
// @Router /api/roster/form/schedule [delete]
func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ClearSchedule(); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// AddParticipant godoc
// @Summary Select a participant in the open form
// @Tags Roster
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} View
// @Failure 404 {object} rest.ErrorResponse "Unknown user"
// @Failure 409 {object} rest.ErrorResponse "No form open"
// @Router /api/roster/form/participants/{userId} [post]
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.AddParticipant(mux.Vars(r)["userId"]); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// RemoveParticipant godoc
// @Summary Unselect a participant in the open form
// @Tags Roster
// @Produce json
// @Param userId path string true "User id"
// @Success 200 {object} View
// @Failure 404 {object} rest.ErrorResponse "Unknown user"
// @Failure 409 {object} rest.ErrorResponse "No form open"
// @Router /api/roster/form/participants/{userId} [delete]
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.RemoveParticipant(mux.Vars(r)["userId"]); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// Submit godoc
// @Summary Submit the open form
// @Description Creates a new event or updates the edited one
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Failure 400 {object} rest.ErrorResponse "Validation failed"
// @Failure 409 {object} rest.ErrorResponse "No form open or request in flight"
// @Failure 502 {object} rest.ErrorResponse "Event backend failed"
// @Router /api/roster/form/submit [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log.Debug("Submitting roster form")
	if err := h.controller.Submit(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// Cancel godoc
// @Summary Discard the open form
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Router /api/roster/form/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.controller.Cancel()
	h.writeView(w, http.StatusOK)
}

// RequestDelete godoc
// @Summary Ask for confirmation before deleting an event
// @Tags Roster
// @Produce json
// @Param index path int true "Event index"
// @Success 200 {object} View
// @Failure 400 {object} rest.ErrorResponse "Invalid index"
// @Failure 404 {object} rest.ErrorResponse "No event at index"
// @Failure 409 {object} rest.ErrorResponse "Form open"
// @Router /api/roster/delete/{index} [post]
func (h *Handler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	index, ok := h.index(w, r)
	if !ok {
		return
	}
	if err := h.controller.RequestDelete(index); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// ConfirmDelete godoc
// @Summary Delete the event awaiting confirmation
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Failure 409 {object} rest.ErrorResponse "Request in flight"
// @Failure 502 {object} rest.ErrorResponse "Event backend failed"
// @Router /api/roster/delete/confirm [post]
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	log.Debug("Confirming event deletion")
	if err := h.controller.ConfirmDelete(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, http.StatusOK)
}

// CancelDelete godoc
// @Summary Close the delete confirmation
// @Tags Roster
// @Produce json
// @Success 200 {object} View
// @Router /api/roster/delete/cancel [post]
func (h *Handler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelDelete()
	h.writeView(w, http.StatusOK)
}

// ToggleSection godoc
// @Summary Expand or collapse a panel
// @Tags Roster
// @Produce json
// @Param section path string true "create, edit or list"
// @Success 200 {object} View
// @Failure 400 {object} rest.ErrorResponse "Unknown section"
// @Router /api/roster/section/{section} [put]
func (h *Handler) ToggleSection(w http.ResponseWriter, r *http.Request) {
	section, ok := ParseSection(mux.Vars(r)["section"])
	if !ok {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Unknown section",
			Details: "section must be one of create, edit, list",
		})
		return
	}
	h.controller.ToggleSection(section)
	h.writeView(w, http.StatusOK)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid event index",
			Details: err.Error(),
		})
		return 0, false
	}
	return index, true
}

func (h *Handler) writeView(w http.ResponseWriter, status int) {
	writeJSON(w, status, h.controller.View())
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	var remoteErr *RemoteError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   validationErr.Message,
			Details: string(validationErr.Field),
		})
	case errors.As(err, &remoteErr):
		writeJSON(w, http.StatusBadGateway, rest.ErrorResponse{
			Error:   h.controller.Error(),
			Details: remoteErr.Error(),
		})
	case errors.Is(err, ErrIndexOutOfRange), errors.Is(err, ErrUnknownUser):
		writeJSON(w, http.StatusNotFound, rest.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrEventNotPersisted):
		writeJSON(w, http.StatusUnprocessableEntity, rest.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNoActiveForm), errors.Is(err, ErrFormOpen), errors.Is(err, ErrRequestInFlight):
		writeJSON(w, http.StatusConflict, rest.ErrorResponse{Error: err.Error()})
	default:
		log.Errorf("Unexpected roster error: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
