package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// StoreStub is an in-memory Store that records every call it receives.
type StoreStub struct {
	mu         sync.RWMutex
	events     []Event
	calls      []string
	drafts     []Draft
	errs       map[string]error
	beforeCall func(op string)
}

func NewStoreStub(events ...Event) *StoreStub {
	s := &StoreStub{errs: make(map[string]error)}
	for _, e := range events {
		s.events = append(s.events, Normalize(e))
	}
	return s
}

func (s *StoreStub) begin(op, id string) error {
	s.mu.Lock()
	call := op
	if id != "" {
		call = op + ":" + id
	}
	s.calls = append(s.calls, call)
	hook := s.beforeCall
	err := s.errs[op]
	s.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	return err
}

func (s *StoreStub) List(ctx context.Context) ([]Event, error) {
	if err := s.begin("list", ""); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		result = append(result, Normalize(e))
	}
	return result, nil
}

func (s *StoreStub) GetById(ctx context.Context, id string) (Event, error) {
	if err := s.begin("get", id); err != nil {
		return Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return Event{}, fmt.Errorf("event %s not found", id)
	}
	return Normalize(s.events[idx]), nil
}

func (s *StoreStub) Create(ctx context.Context, draft Draft) (Event, error) {
	if err := s.begin("create", ""); err != nil {
		return Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, draft)
	created := Normalize(Event{
		Id:             uuid.NewString(),
		Name:           draft.Name,
		Address:        draft.Address,
		ScheduleSlot:   draft.ScheduleSlot,
		ParticipantIds: draft.ParticipantIds,
	})
	s.events = append(s.events, created)
	return created, nil
}

func (s *StoreStub) Update(ctx context.Context, id string, draft Draft) error {
	if err := s.begin("update", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, draft)
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("event %s not found", id)
	}
	s.events[idx] = Normalize(Event{
		Id:             id,
		Name:           draft.Name,
		Address:        draft.Address,
		ScheduleSlot:   draft.ScheduleSlot,
		ParticipantIds: draft.ParticipantIds,
	})
	return nil
}

func (s *StoreStub) Delete(ctx context.Context, id string) error {
	if err := s.begin("delete", id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("no event found with id %s", id)
	}
	s.events = slices.Delete(s.events, idx, idx+1)
	return nil
}

func (s *StoreStub) indexOf(id string) int {
	return slices.IndexFunc(s.events, func(e Event) bool { return e.Id == id })
}

// Helper methods for test setup and assertions

// SetError makes the given operation ("list", "get", "create", "update", "delete") fail.
func (s *StoreStub) SetError(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, op)
		return
	}
	s.errs[op] = err
}

// SetBeforeCall registers a hook run after a call is recorded and before it is served.
func (s *StoreStub) SetBeforeCall(hook func(op string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeCall = hook
}

// PutEvent replaces (or adds) the stored entity, e.g. to simulate server-side canonicalization.
func (s *StoreStub) PutEvent(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(e.Id); idx >= 0 {
		s.events[idx] = e
		return
	}
	s.events = append(s.events, e)
}

func (s *StoreStub) Calls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.calls)
}

func (s *StoreStub) Drafts() []Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.drafts)
}

func (s *StoreStub) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.drafts = nil
}

var ErrStoreTestError = errors.New("store test error")
