package redis

import (
	"context"
	"encoding/json"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/medical-farma-api/internal/infrastructure/automation"
)

// DLQPrefix prefijo de las listas de eventos fallidos: dlq:<cola>.
const DLQPrefix = "dlq:"

var _ automation.DeadLetterSink = (*DLQ)(nil)

// DLQ guarda los eventos no entregados en una lista de Redis para inspección manual.
type DLQ struct {
	rdb goredis.Cmdable
}

// NewDLQ crea la DLQ.
func NewDLQ(rdb goredis.Cmdable) *DLQ { return &DLQ{rdb: rdb} }

// Push agrega la entrada al frente de dlq:<cola>.
func (q *DLQ) Push(ctx context.Context, e automation.DeadLetter) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, DLQPrefix+e.Queue, data).Err()
}

// Len cantidad de entradas pendientes de una cola.
func (q *DLQ) Len(ctx context.Context, queue string) (int64, error) {
	return q.rdb.LLen(ctx, DLQPrefix+queue).Result()
}
