package accounts

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/storefront/platform/internal/domain/user"
)

type fakeUsers struct {
	mu      sync.Mutex
	byID    map[int64]user.User
	nextID  int64
	byIDHit int

	// simulates losing the race between pre-check and insert
	raceLost bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]user.User{}}
}

func (f *fakeUsers) Create(_ context.Context, email, hash, name string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.raceLost {
		return user.User{}, user.ErrDuplicateEmail
	}
	for _, u := range f.byID {
		if u.Email == email {
			return user.User{}, user.ErrDuplicateEmail
		}
	}

	f.nextID++
	u := user.User{
		ID:           f.nextID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byIDHit++
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (f *fakeUsers) rename(id int64, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.Name = name
	f.byID[id] = u
}

func (f *fakeUsers) byIDCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byIDHit
}

// countingHasher records how many comparisons ran so the unknown-email path
// can be checked for doing the same work as a wrong password.
type countingHasher struct {
	mu     sync.Mutex
	checks int
}

func (h *countingHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }

func (h *countingHasher) Check(hash, plain string) bool {
	h.mu.Lock()
	h.checks++
	h.mu.Unlock()
	return hash == "h:"+plain
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
