package redis

import (
	"errors"
	"time"

	"github.com/x-xyz/permapi/base/ctx"
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis key not found")
)

// Service wraps the redigo pool with the small command surface we use
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, value []byte, expire time.Duration) error
	Del(context ctx.Ctx, key string) (int, error)
	Incrby(context ctx.Ctx, key string, diff int) (int64, error)
	TTL(context ctx.Ctx, key string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
}
