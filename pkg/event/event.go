package event

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/klokku/eventroster/pkg/schedule"
)

// Event is a persisted (or server-returned) event. An empty Id means the backend did not
// assign one.
type Event struct {
	Id             string
	Name           string
	Address        string
	ScheduleSlot   []string
	ParticipantIds []string
}

// Draft is the payload sent on create and update.
type Draft struct {
	Name           string
	Address        string
	ScheduleSlot   []string
	ParticipantIds []string
}

type Store interface {
	List(ctx context.Context) ([]Event, error)
	GetById(ctx context.Context, id string) (Event, error)
	Create(ctx context.Context, draft Draft) (Event, error)
	Update(ctx context.Context, id string, draft Draft) error
	Delete(ctx context.Context, id string) error
}

type eventDTO struct {
	Id           string          `json:"_id,omitempty"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Schedule     json.RawMessage `json:"schedule,omitempty"`
	Participants json.RawMessage `json:"participantes,omitempty"`
}

type draftDTO struct {
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Schedule     []string `json:"schedule"`
	Participants []string `json:"participantes"`
}

// UnmarshalJSON normalizes the schedule and participant fields, which the backend may send
// as a bare value, an array or not at all.
func (e *Event) UnmarshalJSON(data []byte) error {
	var dto eventDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}
	*e = Event{
		Id:             dto.Id,
		Name:           dto.Name,
		Address:        dto.Address,
		ScheduleSlot:   schedule.Decode(dto.Schedule),
		ParticipantIds: schedule.DecodeParticipants(dto.Participants),
	}
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	n := Normalize(e)
	return json.Marshal(struct {
		Id           string   `json:"_id,omitempty"`
		Name         string   `json:"name"`
		Address      string   `json:"address"`
		Schedule     []string `json:"schedule"`
		Participants []string `json:"participantes"`
	}{n.Id, n.Name, n.Address, n.ScheduleSlot, n.ParticipantIds})
}

func (d Draft) MarshalJSON() ([]byte, error) {
	dto := draftDTO{
		Name:         d.Name,
		Address:      d.Address,
		Schedule:     nonNil(d.ScheduleSlot),
		Participants: nonNil(d.ParticipantIds),
	}
	return json.Marshal(dto)
}

// Normalize returns a copy of e holding at most one schedule slot and non-nil slices.
func Normalize(e Event) Event {
	slots := slices.DeleteFunc(slices.Clone(e.ScheduleSlot), func(s string) bool { return s == "" })
	if len(slots) > 1 {
		slots = slots[:1]
	}
	e.ScheduleSlot = nonNil(slots)
	e.ParticipantIds = nonNil(slices.Clone(e.ParticipantIds))
	return e
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
