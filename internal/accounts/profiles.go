package accounts

import (
	"context"
	"strconv"
	"time"

	"github.com/storefront/platform/internal/cache"
	"github.com/storefront/platform/internal/domain/user"
)

const ProfileTTL = 3600 * time.Second

type UserByID interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// ProfileReader serves public profiles through the "user:<id>" cache space.
// Entries are written on register/login and expire by TTL only.
type ProfileReader struct {
	users UserByID
	cache *cache.Aside[user.Public]
}

func NewProfileReader(users UserByID, store cache.Store, opts ...cache.Option) *ProfileReader {
	return &ProfileReader{
		users: users,
		cache: cache.NewAside[user.Public](store, "user", ProfileTTL, opts...),
	}
}

func ProfileKey(id int64) string {
	return "user:" + strconv.FormatInt(id, 10)
}

func (r *ProfileReader) GetByID(ctx context.Context, id int64) (user.Public, error) {
	return r.cache.Get(ctx, ProfileKey(id), func(ctx context.Context) (user.Public, error) {
		u, err := r.users.GetByID(ctx, id)
		if err != nil {
			return user.Public{}, err
		}
		return u.Public(), nil
	})
}

// Prime writes the profile through after a successful register or login.
// A cache failure is logged by the cache layer and otherwise ignored.
func (r *ProfileReader) Prime(ctx context.Context, u user.User) {
	_ = r.cache.Set(ctx, ProfileKey(u.ID), u.Public())
}
