package user

import (
	"context"
	"net/http"

	"github.com/klokku/eventroster/internal/transport"
	log "github.com/sirupsen/logrus"
)

const usersPath = "/api/user"

type User struct {
	Id       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"gmail,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

// Directory lists the users that can take part in events.
type Directory interface {
	List(ctx context.Context) ([]User, error)
}

type DirectoryClient struct {
	client *transport.Client
}

func NewDirectoryClient(client *transport.Client) *DirectoryClient {
	return &DirectoryClient{client: client}
}

func (d *DirectoryClient) List(ctx context.Context) ([]User, error) {
	log.Trace("Listing users")
	var users []User
	if err := d.client.Do(ctx, http.MethodGet, usersPath, nil, &users); err != nil {
		return nil, err
	}
	log.Tracef("Users returned: %d", len(users))
	return users, nil
}
