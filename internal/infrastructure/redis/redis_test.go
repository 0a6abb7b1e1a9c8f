package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/infrastructure/automation"
)

// fakeCmdable implementa solo los comandos usados; el resto provoca panic.
type fakeCmdable struct {
	goredis.Cmdable
	lists map[string][][]byte
	keys  map[string]time.Duration
}

func newFake() *fakeCmdable {
	return &fakeCmdable{lists: map[string][][]byte{}, keys: map[string]time.Duration{}}
}

func (f *fakeCmdable) LPush(_ context.Context, key string, values ...interface{}) *goredis.IntCmd {
	for _, v := range values {
		f.lists[key] = append([][]byte{v.([]byte)}, f.lists[key]...)
	}
	return goredis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeCmdable) LLen(_ context.Context, key string) *goredis.IntCmd {
	return goredis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeCmdable) SetNX(_ context.Context, key string, _ interface{}, ttl time.Duration) *goredis.BoolCmd {
	if _, taken := f.keys[key]; taken {
		return goredis.NewBoolResult(false, nil)
	}
	f.keys[key] = ttl
	return goredis.NewBoolResult(true, nil)
}

func TestDLQ_PushEnListaPorCola(t *testing.T) {
	fake := newFake()
	q := NewDLQ(fake)
	entry := automation.DeadLetter{Queue: automation.QueueName, Event: "nuevo-pedido", Payload: json.RawMessage(`{"pedidoId":"p1"}`), Reason: "cola llena"}
	require.NoError(t, q.Push(context.Background(), entry))

	n, err := q.Len(context.Background(), automation.QueueName)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var stored automation.DeadLetter
	require.NoError(t, json.Unmarshal(fake.lists["dlq:automation"][0], &stored))
	assert.Equal(t, "nuevo-pedido", stored.Event)
	assert.JSONEq(t, `{"pedidoId":"p1"}`, string(stored.Payload))
}

func TestLocker_SoloUnaInstanciaPorVentana(t *testing.T) {
	fake := newFake()
	a, b := NewLocker(fake, "a"), NewLocker(fake, "b")
	ok, err := a.TryLock(context.Background(), "lock:alertas", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.TryLock(context.Background(), "lock:alertas", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, fake.keys["lock:alertas"])
}

func TestNewClient_URLInvalida(t *testing.T) {
	_, err := NewClient(context.Background(), "http://no-es-redis")
	assert.Error(t, err)
}
