package event

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/eventroster/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_UnmarshalJSON(t *testing.T) {
	t.Run("should wrap bare schedule string into a single slot", func(t *testing.T) {
		// given
		raw := `{"_id":"E1","name":"Kickoff","address":"Office","schedule":"2024-05-01 10:00","participantes":["A"]}`

		// when
		var e Event
		err := json.Unmarshal([]byte(raw), &e)

		// then
		require.NoError(t, err)
		assert.Equal(t, Event{
			Id:             "E1",
			Name:           "Kickoff",
			Address:        "Office",
			ScheduleSlot:   []string{"2024-05-01 10:00"},
			ParticipantIds: []string{"A"},
		}, e)
	})

	t.Run("should default missing schedule and participants to empty", func(t *testing.T) {
		// given
		raw := `{"_id":"E2","name":"Standup","address":"Room 1","schedule":null}`

		// when
		var e Event
		err := json.Unmarshal([]byte(raw), &e)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{}, e.ScheduleSlot)
		assert.Equal(t, []string{}, e.ParticipantIds)
	})

	t.Run("should resolve populated participant objects to ids", func(t *testing.T) {
		// given
		raw := `{"_id":"E3","name":"Retro","address":"Room 2","schedule":["2024-05-02 09:30"],
			"participantes":[{"_id":"A","username":"alice"},{"_id":"B","username":"bob"}]}`

		// when
		var e Event
		err := json.Unmarshal([]byte(raw), &e)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, e.ParticipantIds)
	})
}

func TestDraft_MarshalJSON(t *testing.T) {
	t.Run("should always send arrays", func(t *testing.T) {
		// when
		data, err := json.Marshal(Draft{Name: "Kickoff", Address: "Office"})

		// then
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Kickoff","address":"Office","schedule":[],"participantes":[]}`, string(data))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("should keep a single non empty slot", func(t *testing.T) {
		// given
		e := Event{Id: "E1", ScheduleSlot: []string{"", "2024-05-01 10:00", "2024-06-01 10:00"}}

		// when
		n := Normalize(e)

		// then
		assert.Equal(t, []string{"2024-05-01 10:00"}, n.ScheduleSlot)
		assert.Equal(t, []string{}, n.ParticipantIds)
		assert.Len(t, e.ScheduleSlot, 3, "input must not be modified")
	})
}

type recordedRequest struct {
	method string
	path   string
	body   string
}

func setupStoreClientTest(t *testing.T) (*StoreClient, *[]recordedRequest) {
	var requests []recordedRequest
	record := func(r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{r.Method, r.URL.Path, string(body)})
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/event", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = w.Write([]byte(`[
			{"_id":"E1","name":"Kickoff","address":"Office","schedule":"2024-05-01 10:00","participantes":["A"]},
			{"_id":"E2","name":"Retro","address":"Room 2"}
		]`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/event", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"E9","name":"Kickoff","address":"Office","schedule":["2024-05-01 10:00"],"participantes":["A"]}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/event/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if mux.Vars(r)["id"] == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"_id":"E1","name":"New","address":"Office","schedule":"2024-05-01T10:00:00Z","participantes":[]}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/api/event/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		_, _ = w.Write([]byte(`{"message":"updated"}`))
	}).Methods(http.MethodPut)
	r.HandleFunc("/api/event/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if mux.Vars(r)["id"] == "locked" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewStoreClient(transport.NewClient(srv.URL, srv.Client())), &requests
}

func TestStoreClient(t *testing.T) {
	ctx := context.Background()

	t.Run("should list and normalize events", func(t *testing.T) {
		// given
		store, _ := setupStoreClientTest(t)

		// when
		events, err := store.List(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, []string{"2024-05-01 10:00"}, events[0].ScheduleSlot)
		assert.Equal(t, []string{}, events[1].ScheduleSlot)
	})

	t.Run("should get event by id", func(t *testing.T) {
		// given
		store, requests := setupStoreClientTest(t)

		// when
		e, err := store.GetById(ctx, "E1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "New", e.Name)
		assert.Equal(t, []string{"2024-05-01 10:00"}, e.ScheduleSlot)
		assert.Equal(t, "/api/event/E1", (*requests)[0].path)
	})

	t.Run("should report missing event as not found", func(t *testing.T) {
		// given
		store, _ := setupStoreClientTest(t)

		// when
		_, err := store.GetById(ctx, "missing")

		// then
		assert.ErrorIs(t, err, transport.ErrNotFound)
	})

	t.Run("should post draft on create", func(t *testing.T) {
		// given
		store, requests := setupStoreClientTest(t)
		draft := Draft{Name: "Kickoff", Address: "Office", ScheduleSlot: []string{"2024-05-01 10:00"}, ParticipantIds: []string{"A"}}

		// when
		created, err := store.Create(ctx, draft)

		// then
		require.NoError(t, err)
		assert.Equal(t, "E9", created.Id)
		require.Len(t, *requests, 1)
		assert.Equal(t, http.MethodPost, (*requests)[0].method)
		assert.JSONEq(t, `{"name":"Kickoff","address":"Office","schedule":["2024-05-01 10:00"],"participantes":["A"]}`, (*requests)[0].body)
	})

	t.Run("should put draft on update", func(t *testing.T) {
		// given
		store, requests := setupStoreClientTest(t)

		// when
		err := store.Update(ctx, "E1", Draft{Name: "New", Address: "Office", ScheduleSlot: []string{"2024-05-01 10:00"}})

		// then
		require.NoError(t, err)
		require.Len(t, *requests, 1)
		assert.Equal(t, http.MethodPut, (*requests)[0].method)
		assert.Equal(t, "/api/event/E1", (*requests)[0].path)
		assert.JSONEq(t, `{"name":"New","address":"Office","schedule":["2024-05-01 10:00"],"participantes":[]}`, (*requests)[0].body)
	})

	t.Run("should delete event", func(t *testing.T) {
		// given
		store, requests := setupStoreClientTest(t)

		// when
		err := store.Delete(ctx, "E7")

		// then
		require.NoError(t, err)
		assert.Equal(t, "/api/event/E7", (*requests)[0].path)
	})

	t.Run("should wrap backend failure on delete", func(t *testing.T) {
		// given
		store, _ := setupStoreClientTest(t)

		// when
		err := store.Delete(ctx, "locked")

		// then
		var statusErr *transport.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
		assert.Contains(t, err.Error(), "failed to delete event locked")
	})
}

func TestStoreStub(t *testing.T) {
	t.Run("should record calls in order", func(t *testing.T) {
		// given
		stub := NewStoreStub(Event{Id: "E1", Name: "Old"})
		ctx := context.Background()

		// when
		require.NoError(t, stub.Update(ctx, "E1", Draft{Name: "New"}))
		e, err := stub.GetById(ctx, "E1")

		// then
		require.NoError(t, err)
		assert.Equal(t, "New", e.Name)
		assert.Equal(t, []string{"update:E1", "get:E1"}, stub.Calls())
	})

	t.Run("should fail configured operation", func(t *testing.T) {
		// given
		stub := NewStoreStub(Event{Id: "E1"})
		stub.SetError("delete", ErrStoreTestError)

		// when
		err := stub.Delete(context.Background(), "E1")
		events, _ := stub.List(context.Background())

		// then
		assert.ErrorIs(t, err, ErrStoreTestError)
		assert.Len(t, events, 1)
	})
}
