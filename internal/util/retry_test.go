package util

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("not yet")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func() error {
		calls++
		return errors.New("never")
	})
	assert.EqualError(t, err, "never")
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(ctx, 5, time.Millisecond, func() error {
		calls++
		return RetryStop{Err: errors.New("stop")}
	})
	assert.EqualError(t, err, "stop")
	assert.Equal(t, 1, calls)
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 10, time.Hour, func() error {
		calls++
		return errors.New("unreachable")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
