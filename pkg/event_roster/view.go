package event_roster

import (
	"slices"
	"strings"

	"github.com/klokku/eventroster/pkg/event"
	"github.com/klokku/eventroster/pkg/schedule"
	"github.com/klokku/eventroster/pkg/user"
)

// View is a read-only snapshot of the controller for the presentation layer.
type View struct {
	Mode          ModeName    `json:"mode"`
	EditingId     string      `json:"editingId,omitempty"`
	Section       Section     `json:"section"`
	Error         string      `json:"error,omitempty"`
	PendingDelete *int        `json:"pendingDelete,omitempty"`
	Events        []EventView `json:"events"`
	Users         []user.User `json:"users"`
	Form          *FormView   `json:"form,omitempty"`
}

type EventView struct {
	Index          int      `json:"index"`
	Id             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Schedule       string   `json:"schedule"`
	ScheduleSlot   []string `json:"scheduleSlot"`
	Participants   string   `json:"participants"`
	ParticipantIds []string `json:"participantIds"`
}

type FormView struct {
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Date           string      `json:"date"`
	Time           string      `json:"time"`
	ScheduleSlot   []string    `json:"scheduleSlot"`
	Available      []user.User `json:"available"`
	Selected       []user.User `json:"selected"`
	ParticipantIds []string    `json:"participantIds"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Mode:    c.mode.Name(),
		Section: c.section,
		Error:   c.errMsg,
		Events:  make([]EventView, 0, len(c.events)),
		Users:   slices.Clone(c.users),
	}
	if m, ok := c.mode.(EditingMode); ok {
		v.EditingId = m.EventId
	}
	if c.pendingDelete != nil {
		idx := c.pendingDelete.Index
		v.PendingDelete = &idx
	}
	for i, e := range c.events {
		v.Events = append(v.Events, EventView{
			Index:          i,
			Id:             e.Id,
			Name:           e.Name,
			Address:        AddressText(e),
			Schedule:       ScheduleText(e),
			ScheduleSlot:   slices.Clone(e.ScheduleSlot),
			Participants:   participantNames(e, c.users),
			ParticipantIds: slices.Clone(e.ParticipantIds),
		})
	}
	if f := c.activeForm(); f != nil {
		v.Form = &FormView{
			Name:           f.Name,
			Address:        f.Address,
			Date:           f.Date,
			Time:           f.Time,
			ScheduleSlot:   slices.Clone(f.ScheduleSlot),
			Available:      f.partition.Available(),
			Selected:       f.partition.Selected(),
			ParticipantIds: f.partition.DerivedIds(),
		}
	}
	return v
}

// ParticipantNames joins the usernames of e's participants known to the roster.
func (c *Controller) ParticipantNames(e event.Event) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return participantNames(e, c.users)
}

func participantNames(e event.Event, roster []user.User) string {
	names := make([]string, 0, len(e.ParticipantIds))
	for _, id := range e.ParticipantIds {
		i := slices.IndexFunc(roster, func(u user.User) bool { return u.Id == id })
		if i >= 0 && roster[i].Username != "" {
			names = append(names, roster[i].Username)
		}
	}
	if len(names) == 0 {
		return schedule.Placeholder
	}
	return strings.Join(names, ", ")
}

func ScheduleText(e event.Event) string {
	return schedule.FormatSlots(e.ScheduleSlot)
}

func AddressText(e event.Event) string {
	if strings.TrimSpace(e.Address) == "" {
		return schedule.Placeholder
	}
	return e.Address
}
