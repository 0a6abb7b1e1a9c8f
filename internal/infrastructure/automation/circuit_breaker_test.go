package automation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_AbreSemiabreYCierra(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	b.now = func() time.Time { return now }
	fail := errors.New("caído")

	assert.Equal(t, fail, b.Execute(func() error { return fail }))
	assert.Equal(t, BreakerClosed, b.State())
	_ = b.Execute(func() error { return fail })
	assert.Equal(t, BreakerOpen, b.State())
	assert.ErrorIs(t, b.Execute(func() error { return nil }), ErrBreakerOpen)

	now = now.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, b.State())
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_SondaFallidaReabre(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	b.now = func() time.Time { return now }
	_ = b.Execute(func() error { return errors.New("x") })
	now = now.Add(time.Second)
	_ = b.Execute(func() error { return errors.New("x") })
	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, "abierto", b.State().String())
}
