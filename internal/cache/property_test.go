//go:build property
// +build property

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"bondfeed/internal/cache"
	"bondfeed/internal/clock"
)

// TestSetGetLaw verifies set followed by get returns the value until the
// entry is older than the read window.
func TestSetGetLaw(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	properties.Property("get after set returns the value", prop.ForAll(
		func(key string, value int64) bool {
			store := cache.New(cache.Options{Clock: clock.NewFake(time.Unix(0, 0))}, zerolog.Nop())
			store.Set(ctx, key, value)

			var got int64
			return store.Get(ctx, key, time.Minute, &got) && got == value
		},
		gen.AnyString(),
		gen.Int64(),
	))

	properties.Property("get after expiry is absent", prop.ForAll(
		func(key string, value int64, ttlSeconds, overSeconds int64) bool {
			fake := clock.NewFake(time.Unix(1_700_000_000, 0))
			store := cache.New(cache.Options{Clock: fake}, zerolog.Nop())
			ttl := time.Duration(ttlSeconds) * time.Second

			store.Set(ctx, key, value)
			fake.Advance(ttl + time.Duration(overSeconds)*time.Second)

			var got int64
			return !store.Get(ctx, key, ttl, &got)
		},
		gen.AnyString(),
		gen.Int64(),
		gen.Int64Range(1, 86400),
		gen.Int64Range(0, 3600),
	))

	properties.TestingRun(t)
}
