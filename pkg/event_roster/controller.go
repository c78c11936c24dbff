package event_roster

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/klokku/eventroster/internal/event_bus"
	"github.com/klokku/eventroster/pkg/event"
	"github.com/klokku/eventroster/pkg/participant"
	"github.com/klokku/eventroster/pkg/schedule"
	"github.com/klokku/eventroster/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Controller owns the local event list, the known roster and the form being edited.
//
// The mutex guards all fields but is never held while waiting on the store or the directory:
// a transition takes what it needs, releases the lock for the remote call and re-acquires it
// to apply the result. Local state changes only after the store acknowledged a call.
type Controller struct {
	store     event.Store
	directory user.Directory
	bus       *event_bus.EventBus
	messages  Messages

	mu            sync.Mutex
	users         []user.User
	events        []event.Event
	mode          Mode
	pendingDelete *DeletePending
	section       Section
	errMsg        string
	inFlight      bool
}

// NewController creates a controller in list mode. bus may be nil.
func NewController(store event.Store, directory user.Directory, bus *event_bus.EventBus, messages Messages) *Controller {
	return &Controller{
		store:         store,
		directory:     directory,
		bus:           bus,
		messages:      messages,
		users:         []user.User{},
		events:        []event.Event{},
		mode:          ListMode{},
		section:       SectionList,
	}
}

// Init loads the roster and then the events. Participant names resolve against the roster,
// so the order matters. Failures are logged and leave the collections as they were.
func (c *Controller) Init(ctx context.Context) {
	c.ReloadUsers(ctx)
	c.reloadEvents(ctx)
}

func (c *Controller) ReloadUsers(ctx context.Context) {
	users, err := c.directory.List(ctx)
	if err != nil {
		log.Warnf("Failed to load users: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = slices.Clone(users)
	if form := c.activeForm(); form != nil {
		form.repartition(c.users)
	}
	log.Debugf("Loaded %d users", len(users))
}

func (c *Controller) reloadEvents(ctx context.Context) {
	events, err := c.store.List(ctx)
	if err != nil {
		log.Warnf("Failed to load events: %v", err)
		return
	}

	normalized := make([]event.Event, 0, len(events))
	for _, e := range events {
		normalized = append(normalized, event.Normalize(e))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = normalized
	c.resolvePendingDelete()
	log.Debugf("Loaded %d events", len(events))
}

// StartCreate opens an empty form with the whole roster available.
func (c *Controller) StartCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Trace("Starting event creation")
	c.mode = CreateMode{form: newForm(c.users)}
	c.pendingDelete = nil
	c.section = SectionCreate
	c.errMsg = ""
}

// StartEdit opens a form holding a copy of the event at index.
func (c *Controller) StartEdit(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.events) {
		return ErrIndexOutOfRange
	}
	e := c.events[index]
	if e.Id == "" {
		return ErrEventNotPersisted
	}

	log.Tracef("Starting edit of event %s", e.Id)
	c.mode = EditingMode{EventId: e.Id, form: formFromEvent(e, c.users)}
	c.pendingDelete = nil
	c.section = SectionEdit
	c.errMsg = ""
	return nil
}

// Cancel discards the form and returns to list mode.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toList()
}

func (c *Controller) SetName(name string) error {
	return c.withForm(func(f *Form) error {
		f.Name = name
		return nil
	})
}

func (c *Controller) SetAddress(address string) error {
	return c.withForm(func(f *Form) error {
		f.Address = address
		return nil
	})
}

// SetSchedule replaces the form's slot with the one built from date and clock.
func (c *Controller) SetSchedule(date, clock string) error {
	return c.withForm(func(f *Form) error {
		f.Date, f.Time = date, clock
		slot, err := schedule.Encode(date, clock)
		if err != nil {
			field := FieldDate
			if errors.Is(err, schedule.ErrTimeRequired) {
				field = FieldTime
			}
			return c.fail(&ValidationError{Field: field, Message: c.messages.DateTimeRequired})
		}
		f.ScheduleSlot = []string{slot}
		c.errMsg = ""
		return nil
	})
}

func (c *Controller) ClearSchedule() error {
	return c.withForm(func(f *Form) error {
		f.ScheduleSlot = []string{}
		f.Date, f.Time = "", ""
		return nil
	})
}

func (c *Controller) AddParticipant(userId string) error {
	return c.withForm(func(f *Form) error {
		u, ok := participant.Lookup(c.users, userId)
		if !ok {
			return ErrUnknownUser
		}
		f.partition.Add(u)
		return nil
	})
}

func (c *Controller) RemoveParticipant(userId string) error {
	return c.withForm(func(f *Form) error {
		u, ok := participant.Lookup(c.users, userId)
		if !ok {
			return ErrUnknownUser
		}
		f.partition.Remove(u)
		return nil
	})
}

// Submit validates the form and creates or updates the event.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := c.activeForm()
	if form == nil {
		c.mu.Unlock()
		return ErrNoActiveForm
	}
	c.errMsg = ""
	if err := c.validate(form); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	c.inFlight = true
	draft := form.draft()
	editing, isEdit := c.mode.(EditingMode)
	c.mu.Unlock()

	if isEdit {
		return c.update(ctx, form, editing.EventId, draft)
	}
	return c.create(ctx, form, draft)
}

func (c *Controller) validate(f *Form) error {
	if strings.TrimSpace(f.Name) == "" {
		return c.fail(&ValidationError{Field: FieldName, Message: c.messages.NameRequired})
	}
	if len(f.ScheduleSlot) == 0 {
		return c.fail(&ValidationError{Field: FieldSchedule, Message: c.messages.ScheduleRequired})
	}
	if strings.TrimSpace(f.Address) == "" {
		return c.fail(&ValidationError{Field: FieldAddress, Message: c.messages.AddressRequired})
	}
	return nil
}

func (c *Controller) create(ctx context.Context, form *Form, draft event.Draft) error {
	created, err := c.store.Create(ctx, draft)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		log.Errorf("Failed to create event: %v", err)
		c.errMsg = c.messages.CreateFailed
		c.mu.Unlock()
		return &RemoteError{Op: "create", Err: err}
	}
	created = event.Normalize(created)
	c.events = append(c.events, created)
	if c.activeForm() == form {
		c.toList()
	}
	c.mu.Unlock()

	log.Infof("Created event %s (%s)", created.Id, created.Name)
	c.publish(ctx, event_bus.RosterEventCreated, event_bus.EventCreated{
		Id:             created.Id,
		Name:           created.Name,
		ScheduleSlot:   firstSlot(created),
		ParticipantIds: slices.Clone(created.ParticipantIds),
	})
	return nil
}

// update sends the draft, then re-fetches the canonical entity once the update is acknowledged.
func (c *Controller) update(ctx context.Context, form *Form, id string, draft event.Draft) error {
	if err := c.store.Update(ctx, id, draft); err != nil {
		log.Errorf("Failed to update event %s: %v", id, err)
		c.finishWithError(c.messages.UpdateFailed)
		return &RemoteError{Op: "update", Err: err}
	}

	fresh, err := c.store.GetById(ctx, id)
	if err != nil {
		log.Errorf("Failed to reload event %s after update: %v", id, err)
		c.finishWithError(c.messages.ReloadFailed)
		return &RemoteError{Op: "reload", Err: err}
	}
	fresh = event.Normalize(fresh)

	c.mu.Lock()
	if idx := c.indexOf(id); idx >= 0 {
		c.events[idx] = fresh
	}
	c.mu.Unlock()

	c.ReloadUsers(ctx)

	c.mu.Lock()
	c.inFlight = false
	if c.activeForm() == form {
		c.toList()
	}
	c.mu.Unlock()

	log.Infof("Updated event %s (%s)", fresh.Id, fresh.Name)
	c.publish(ctx, event_bus.RosterEventUpdated, event_bus.EventUpdated{
		Id:             fresh.Id,
		Name:           fresh.Name,
		ScheduleSlot:   firstSlot(fresh),
		ParticipantIds: slices.Clone(fresh.ParticipantIds),
	})
	return nil
}

// RequestDelete asks for confirmation before deleting the event at index.
func (c *Controller) RequestDelete(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.mode.(ListMode); !ok {
		return ErrFormOpen
	}
	if index < 0 || index >= len(c.events) {
		return ErrIndexOutOfRange
	}
	c.pendingDelete = &DeletePending{Index: index, EventId: c.events[index].Id}
	return nil
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete deletes the event awaiting confirmation. The confirmation is closed whatever
// the outcome; on failure the entry stays in the list.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	c.resolvePendingDelete()
	pending := c.pendingDelete
	if pending == nil {
		c.mu.Unlock()
		return nil
	}
	if pending.EventId == "" {
		c.pendingDelete = nil
		c.mu.Unlock()
		return nil
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrRequestInFlight
	}
	c.inFlight = true
	id := pending.EventId
	c.mu.Unlock()

	err := c.store.Delete(ctx, id)

	c.mu.Lock()
	c.inFlight = false
	if c.pendingDelete != nil && c.pendingDelete.EventId == id {
		c.pendingDelete = nil
	}
	if err != nil {
		log.Errorf("Failed to delete event %s: %v", id, err)
		c.errMsg = c.messages.DeleteFailed
		c.mu.Unlock()
		return &RemoteError{Op: "delete", Err: err}
	}
	// The list may have changed while the call was in flight.
	idx := c.indexOf(id)
	if idx >= 0 {
		c.events = slices.Delete(c.events, idx, idx+1)
	}
	c.resolvePendingDelete()
	c.mu.Unlock()

	log.Infof("Deleted event %s", id)
	c.publish(ctx, event_bus.RosterEventDeleted, event_bus.EventDeleted{Id: id, Index: idx})
	return nil
}

// resolvePendingDelete points the confirmation at the current index of its event, or closes it
// when the event is gone.
func (c *Controller) resolvePendingDelete() {
	p := c.pendingDelete
	if p == nil {
		return
	}
	if p.EventId == "" {
		if p.Index >= len(c.events) || c.events[p.Index].Id != "" {
			c.pendingDelete = nil
		}
		return
	}
	idx := c.indexOf(p.EventId)
	if idx < 0 {
		c.pendingDelete = nil
		return
	}
	p.Index = idx
}

func (c *Controller) ToggleSection(section Section) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.section == section {
		c.section = SectionNone
		return
	}
	c.section = section
}

// Error returns the current user-visible error message.
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) Events() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

func (c *Controller) Users() []user.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.users)
}

func (c *Controller) Mode() ModeName {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode.Name()
}

// EditingId returns the id of the event being edited, if any.
func (c *Controller) EditingId() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(EditingMode); ok {
		return m.EventId, true
	}
	return "", false
}

func (c *Controller) PendingDelete() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDelete == nil {
		return -1, false
	}
	return c.pendingDelete.Index, true
}

func (c *Controller) withForm(fn func(f *Form) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	form := c.activeForm()
	if form == nil {
		return ErrNoActiveForm
	}
	return fn(form)
}

func (c *Controller) activeForm() *Form {
	switch m := c.mode.(type) {
	case CreateMode:
		return m.form
	case EditingMode:
		return m.form
	}
	return nil
}

func (c *Controller) toList() {
	c.mode = ListMode{}
	c.errMsg = ""
}

func (c *Controller) fail(err *ValidationError) error {
	c.errMsg = err.Message
	return err
}

func (c *Controller) finishWithError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.errMsg = msg
}

func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.events, func(e event.Event) bool { return e.Id == id })
}

func (c *Controller) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Warnf("Failed to publish %s: %v", eventType, err)
	}
}

func firstSlot(e event.Event) string {
	if len(e.ScheduleSlot) == 0 {
		return ""
	}
	return e.ScheduleSlot[0]
}
