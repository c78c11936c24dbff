package user

import (
	"context"
	"errors"
	"sync"
)

type DirectoryStub struct {
	mu      sync.RWMutex
	users   []User
	calls   int
	listErr error
}

func NewDirectoryStub(users ...User) *DirectoryStub {
	d := &DirectoryStub{}
	d.SetUsers(users)
	return d
}

func (d *DirectoryStub) List(ctx context.Context) ([]User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if d.listErr != nil {
		return nil, d.listErr
	}
	result := make([]User, len(d.users))
	copy(result, d.users)
	return result, nil
}

func (d *DirectoryStub) SetUsers(users []User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = make([]User, len(users))
	copy(d.users, users)
}

func (d *DirectoryStub) SetListError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listErr = err
}

// Calls returns how many times List was invoked.
func (d *DirectoryStub) Calls() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.calls
}

var ErrDirectoryTestError = errors.New("directory test error")
