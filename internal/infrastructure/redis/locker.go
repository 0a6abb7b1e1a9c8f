package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Locker lock distribuido simple con SET NX PX; expira solo, no se libera.
type Locker struct {
	rdb   goredis.Cmdable
	owner string
}

// NewLocker crea el locker; owner identifica a la instancia en el valor de la clave.
func NewLocker(rdb goredis.Cmdable, owner string) *Locker {
	return &Locker{rdb: rdb, owner: owner}
}

// TryLock devuelve true si esta instancia tomó la clave por ttl.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, l.owner, ttl).Result()
}
