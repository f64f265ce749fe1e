package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mateoavila/nft-transfers/pkg/db/models"
	"github.com/mateoavila/nft-transfers/pkg/logger"
	pkgredis "github.com/mateoavila/nft-transfers/pkg/redis"
)

// Resolver maps a wallet address to its marketplace display name. An
// unknown address is not an error: it resolves to the empty string.
type Resolver interface {
	ResolveDisplayName(ctx context.Context, address string) (string, error)
}

// UserRepository is the persistence surface for profile lookups.
type UserRepository interface {
	FindByAddress(ctx context.Context, address string) (*models.User, error)
}

type usernameCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	UsernameKey(address string) string
}

type resolver struct {
	users UserRepository
	cache usernameCache
	ttl   time.Duration
	logg  *logger.Logger
}

// NewResolver builds a cached display-name resolver.
func NewResolver(users UserRepository, cache usernameCache, ttl time.Duration, logg *logger.Logger) (Resolver, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	return &resolver{users: users, cache: cache, ttl: ttl, logg: logg}, nil
}

func (r *resolver) ResolveDisplayName(ctx context.Context, address string) (string, error) {
	key := r.cache.UsernameKey(address)

	cached, err := r.cache.Get(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !pkgredis.IsMiss(err) && r.logg != nil {
		r.logg.Warn(r.logg.WithField(ctx, "address", address), "username cache read failed")
	}

	user, err := r.users.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find user %s: %w", address, err)
	}

	if setErr := r.cache.Set(ctx, key, user.DisplayName, r.ttl); setErr != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithField(ctx, "address", address), "username cache write failed")
	}

	return user.DisplayName, nil
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds the users lookup bound to the provided DB.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByAddress(ctx context.Context, address string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
