package util

import (
	"context"
	"math/rand"
	"time"
)

// Retry attempts a function `attempts` number of times. It exponentially
// backs off the initial `sleep` upon failures and gives up early when `ctx`
// is done, returning the last error seen.
// Credit to Nick Stogner from a May 2017 post.
func Retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	if err := f(); err != nil {
		if s, ok := err.(RetryStop); ok {
			return s
		}

		if attempts--; attempts > 0 {
			// Add some randomness to prevent creating a Thundering Herd
			jitter := time.Duration(rand.Int63n(int64(sleep)))
			sleep = sleep + jitter/2

			select {
			case <-ctx.Done():
				return err
			case <-time.After(sleep):
			}
			return Retry(ctx, attempts, 2*sleep, f)
		}
		return err
	}
	return nil
}

// RetryStop : return this error from your Retry-ing function to abort
// future attempts.
type RetryStop struct {
	Err error
}

func (stop RetryStop) Error() string {
	return stop.Err.Error()
}
