package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/eventroster/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDirectoryTest(t *testing.T, handler http.HandlerFunc) *DirectoryClient {
	r := mux.NewRouter()
	r.HandleFunc("/api/user", handler).Methods(http.MethodGet)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewDirectoryClient(transport.NewClient(srv.URL, srv.Client()))
}

func TestDirectoryClient_List(t *testing.T) {
	t.Run("should decode users from backend", func(t *testing.T) {
		// given
		directory := setupDirectoryTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"_id":"A","username":"alice","gmail":"alice@example.com","birthday":"1990-01-01"},
				{"_id":"B","username":"bob"}
			]`))
		})

		// when
		users, err := directory.List(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, []User{
			{Id: "A", Username: "alice", Email: "alice@example.com", Birthday: "1990-01-01"},
			{Id: "B", Username: "bob"},
		}, users)
	})

	t.Run("should return error when backend fails", func(t *testing.T) {
		// given
		directory := setupDirectoryTest(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		// when
		users, err := directory.List(context.Background())

		// then
		assert.Error(t, err)
		assert.Nil(t, users)
	})
}

func TestDirectoryStub(t *testing.T) {
	t.Run("should return copies and count calls", func(t *testing.T) {
		// given
		stub := NewDirectoryStub(User{Id: "A", Username: "alice"})

		// when
		users, err := stub.List(context.Background())
		users[0].Username = "mutated"
		again, _ := stub.List(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, "alice", again[0].Username)
		assert.Equal(t, 2, stub.Calls())
	})

	t.Run("should return configured error", func(t *testing.T) {
		// given
		stub := NewDirectoryStub()
		stub.SetListError(ErrDirectoryTestError)

		// when
		_, err := stub.List(context.Background())

		// then
		assert.ErrorIs(t, err, ErrDirectoryTestError)
	})
}
