package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// effects runs best-effort work detached from the request. Failures are logged and never reach
// the caller; Wait lets shutdown drain what is still in flight.
type effects struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

func newEffects(timeout time.Duration) *effects {
	return &effects{timeout: timeout}
}

func (e *effects) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("effect", name).Msg("side effect panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Warn().Err(err).Str("effect", name).Msg("side effect failed")

			return
		}

		log.Debug().Str("effect", name).Msg("side effect done")
	}()
}

func (e *effects) Wait() {
	e.wg.Wait()
}
