package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/eventroster/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func setupServer(t *testing.T, register func(r *mux.Router)) *Client {
	r := mux.NewRouter()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client())
}

func TestClient_Do(t *testing.T) {
	t.Run("should send json body and decode json response", func(t *testing.T) {
		// given
		var received payload
		var contentType string
		client := setupServer(t, func(r *mux.Router) {
			r.HandleFunc("/api/echo", func(w http.ResponseWriter, r *http.Request) {
				contentType = r.Header.Get("Content-Type")
				_ = json.NewDecoder(r.Body).Decode(&received)
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(payload{Name: received.Name + "!"})
			}).Methods(http.MethodPost)
		})

		// when
		var out payload
		err := client.Do(context.Background(), http.MethodPost, "/api/echo", payload{Name: "hello"}, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, "hello", received.Name)
		assert.Equal(t, "hello!", out.Name)
	})

	t.Run("should propagate request id from context", func(t *testing.T) {
		// given
		var header string
		client := setupServer(t, func(r *mux.Router) {
			r.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
				header = r.Header.Get(RequestIdHeader)
				w.WriteHeader(http.StatusNoContent)
			})
		})
		ctx := WithRequestId(context.Background(), "req-42")

		// when
		err := client.Do(ctx, http.MethodGet, "/api/ping", nil, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "req-42", header)
	})

	t.Run("should generate request id when context has none", func(t *testing.T) {
		// given
		var header string
		client := setupServer(t, func(r *mux.Router) {
			r.HandleFunc("/api/ping", func(w http.ResponseWriter, r *http.Request) {
				header = r.Header.Get(RequestIdHeader)
				w.WriteHeader(http.StatusNoContent)
			})
		})

		// when
		err := client.Do(context.Background(), http.MethodGet, "/api/ping", nil, nil)

		// then
		require.NoError(t, err)
		assert.NotEmpty(t, header)
	})

	t.Run("should map 404 to ErrNotFound", func(t *testing.T) {
		// given
		client := setupServer(t, func(r *mux.Router) {})

		// when
		err := client.Do(context.Background(), http.MethodGet, "/api/missing", nil, nil)

		// then
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should return status error on server failure", func(t *testing.T) {
		// given
		client := setupServer(t, func(r *mux.Router) {
			r.HandleFunc("/api/broken", func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			})
		})

		// when
		err := client.Do(context.Background(), http.MethodDelete, "/api/broken", nil, nil)

		// then
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		assert.Equal(t, http.MethodDelete, statusErr.Method)
	})

	t.Run("should fail on undecodable response", func(t *testing.T) {
		// given
		client := setupServer(t, func(r *mux.Router) {
			r.HandleFunc("/api/garbage", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			})
		})

		// when
		var out payload
		err := client.Do(context.Background(), http.MethodGet, "/api/garbage", nil, &out)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
	})
}

func TestNewClientFromConfig(t *testing.T) {
	t.Run("should attach client credentials token", func(t *testing.T) {
		// given
		r := mux.NewRouter()
		var authorization string
		r.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
		}).Methods(http.MethodPost)
		r.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
			authorization = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[]`))
		})
		srv := httptest.NewServer(r)
		t.Cleanup(srv.Close)

		client := NewClientFromConfig(context.Background(), config.Backend{
			BaseUrl: srv.URL,
			Timeout: 5 * time.Second,
			OAuth: config.OAuth{
				ClientId:     "roster",
				ClientSecret: "secret",
				TokenUrl:     srv.URL + "/token",
			},
		})

		// when
		var out []any
		err := client.Do(context.Background(), http.MethodGet, "/api/user", nil, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", authorization)
	})

	t.Run("should apply configured timeout", func(t *testing.T) {
		// when
		client := NewClientFromConfig(context.Background(), config.Backend{
			BaseUrl: "http://localhost",
			Timeout: 2 * time.Second,
		})

		// then
		assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	})
}
