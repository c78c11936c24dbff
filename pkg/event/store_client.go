package event

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/klokku/eventroster/internal/transport"
	log "github.com/sirupsen/logrus"
)

const eventsPath = "/api/event"

// StoreClient is the HTTP implementation of Store.
type StoreClient struct {
	client *transport.Client
}

func NewStoreClient(client *transport.Client) *StoreClient {
	return &StoreClient{client: client}
}

func eventPath(id string) string {
	return eventsPath + "/" + url.PathEscape(id)
}

func (s *StoreClient) List(ctx context.Context) ([]Event, error) {
	log.Trace("Listing events")
	var events []Event
	if err := s.client.Do(ctx, http.MethodGet, eventsPath, nil, &events); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	log.Tracef("Events returned: %d", len(events))
	return events, nil
}

func (s *StoreClient) GetById(ctx context.Context, id string) (Event, error) {
	log.Tracef("Getting event %s", id)
	var e Event
	if err := s.client.Do(ctx, http.MethodGet, eventPath(id), nil, &e); err != nil {
		return Event{}, fmt.Errorf("failed to get event %s: %w", id, err)
	}
	return e, nil
}

func (s *StoreClient) Create(ctx context.Context, draft Draft) (Event, error) {
	log.Debugf("Creating event: %+v", draft)
	var created Event
	if err := s.client.Do(ctx, http.MethodPost, eventsPath, draft, &created); err != nil {
		return Event{}, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (s *StoreClient) Update(ctx context.Context, id string, draft Draft) error {
	log.Debugf("Updating event %s: %+v", id, draft)
	if err := s.client.Do(ctx, http.MethodPut, eventPath(id), draft, nil); err != nil {
		return fmt.Errorf("failed to update event %s: %w", id, err)
	}
	return nil
}

func (s *StoreClient) Delete(ctx context.Context, id string) error {
	log.Debugf("Deleting event %s", id)
	if err := s.client.Do(ctx, http.MethodDelete, eventPath(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}
