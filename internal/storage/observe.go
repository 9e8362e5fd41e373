// ABOUTME: Change observation pipeline over tracked queries.
// ABOUTME: Re-fetches after each commit, diffs, and delivers coalesced full results.
package storage

import (
	"context"

	"github.com/harperreed/gymtrack/internal/models"
)

// Subscription delivers full refreshed results for a tracked query.
// Results arrives in commit order; rapid successive writes coalesce into a
// single delivery of the latest state. Errors carries read failures
// out-of-band; the last delivered result stays valid. Both channels close
// when the subscription's context is cancelled.
type Subscription[T any] struct {
	Results <-chan T
	Errors  <-chan error
}

// ObserveSessions tracks all sessions ordered by date descending. The
// first delivery is the current state; subsequent deliveries follow
// committed writes that changed the result.
func (d *DB) ObserveSessions(ctx context.Context) *Subscription[[]models.WorkoutSession] {
	return observe(ctx, d,
		func(ctx context.Context, q Querier) ([]models.WorkoutSession, error) {
			return ListSessions(ctx, q)
		},
		sessionsEqual,
	)
}

// ObserveTemplates tracks all templates ordered by name.
func (d *DB) ObserveTemplates(ctx context.Context) *Subscription[[]models.WorkoutTemplate] {
	return observe(ctx, d,
		func(ctx context.Context, q Querier) ([]models.WorkoutTemplate, error) {
			return ListTemplates(ctx, q)
		},
		templatesEqual,
	)
}

// observe runs one goroutine per subscription: fetch once up front, then
// re-fetch on every commit signal and deliver only when the result differs
// from the last delivered one. The results channel holds one value; a
// stale undelivered value is replaced by the newer one, which keeps
// deliveries monotonic in commit order without blocking the pipeline.
func observe[T any](ctx context.Context, d *DB, fetch func(context.Context, Querier) (T, error), equal func(a, b T) bool) *Subscription[T] {
	results := make(chan T, 1)
	errs := make(chan error, 1)
	signal, unsubscribe := d.subscribe()

	go func() {
		defer close(results)
		defer close(errs)
		defer unsubscribe()

		var last T
		delivered := false

		refresh := func() {
			var cur T
			err := d.Read(ctx, func(q Querier) error {
				var ferr error
				cur, ferr = fetch(ctx, q)
				return ferr
			})
			if err != nil {
				// Keep last-known-good state; report out-of-band.
				select {
				case errs <- err:
				default:
				}
				return
			}
			if delivered && equal(last, cur) {
				return
			}
			last = cur
			delivered = true
			select {
			case results <- cur:
			default:
				select {
				case <-results:
				default:
				}
				results <- cur
			}
		}

		refresh()
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
				refresh()
			}
		}
	}()

	return &Subscription[T]{Results: results, Errors: errs}
}

func sessionsEqual(a, b []models.WorkoutSession) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func templatesEqual(a, b []models.WorkoutTemplate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Name != y.Name {
			return false
		}
		if (x.Notes == nil) != (y.Notes == nil) || (x.Notes != nil && *x.Notes != *y.Notes) {
			return false
		}
		if (x.LastUsed == nil) != (y.LastUsed == nil) || (x.LastUsed != nil && !x.LastUsed.Equal(*y.LastUsed)) {
			return false
		}
		if !x.CreatedAt.Equal(y.CreatedAt) || !x.UpdatedAt.Equal(y.UpdatedAt) {
			return false
		}
	}
	return true
}
