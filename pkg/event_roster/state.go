package event_roster

import (
	"slices"
	"strings"

	"github.com/klokku/eventroster/pkg/event"
	"github.com/klokku/eventroster/pkg/participant"
	"github.com/klokku/eventroster/pkg/schedule"
	"github.com/klokku/eventroster/pkg/user"
)

type ModeName string

const (
	ModeList    ModeName = "list"
	ModeCreate  ModeName = "create"
	ModeEditing ModeName = "editing"
)

// Mode is the controller state. Only the form modes carry a form.
type Mode interface {
	Name() ModeName
}

type ListMode struct{}

type CreateMode struct {
	form *Form
}

type EditingMode struct {
	EventId string
	form    *Form
}

func (ListMode) Name() ModeName    { return ModeList }
func (CreateMode) Name() ModeName  { return ModeCreate }
func (EditingMode) Name() ModeName { return ModeEditing }

// DeletePending is the confirmation overlay on the list. EventId is empty for entries the
// backend never assigned an id to.
type DeletePending struct {
	Index   int
	EventId string
}

// Section is the panel currently expanded in the operator UI. It carries no workflow state.
type Section string

const (
	SectionNone   Section = ""
	SectionCreate Section = "create"
	SectionEdit   Section = "edit"
	SectionList   Section = "list"
)

func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionCreate, SectionEdit, SectionList:
		return Section(s), true
	}
	return SectionNone, false
}

// Form is the draft being created or edited.
type Form struct {
	Name         string
	Address      string
	Date         string
	Time         string
	ScheduleSlot []string
	partition    *participant.Partition
}

func newForm(roster []user.User) *Form {
	return &Form{
		ScheduleSlot: []string{},
		partition:    participant.New(roster, nil),
	}
}

func formFromEvent(e event.Event, roster []user.User) *Form {
	e = event.Normalize(e)
	f := &Form{
		Name:         e.Name,
		Address:      e.Address,
		ScheduleSlot: e.ScheduleSlot,
		partition:    participant.New(roster, e.ParticipantIds),
	}
	if len(f.ScheduleSlot) > 0 {
		f.Date, f.Time = schedule.Split(f.ScheduleSlot[0])
	}
	return f
}

// repartition rebuilds the partition against a refreshed roster, keeping the current selection.
func (f *Form) repartition(roster []user.User) {
	f.partition = participant.New(roster, f.partition.DerivedIds())
}

func (f *Form) draft() event.Draft {
	return event.Draft{
		Name:           strings.TrimSpace(f.Name),
		Address:        strings.TrimSpace(f.Address),
		ScheduleSlot:   slices.Clone(f.ScheduleSlot),
		ParticipantIds: f.partition.DerivedIds(),
	}
}
