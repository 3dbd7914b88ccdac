package state

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

type localBackend struct {
	name string
	open func(t *testing.T) Backend
	// holds reports whether the backend can store value at all.
	holds func(value string) bool
}

func anyValue(string) bool { return true }

func envFileValue(value string) bool {
	return !strings.HasSuffix(value, `\`) && !strings.HasSuffix(value, `"`)
}

func localBackends() []localBackend {
	return []localBackend{
		{"memory", func(*testing.T) Backend { return NewMemoryBackend() }, anyValue},
		{"file", func(t *testing.T) Backend {
			return NewEnvFileBackend(filepath.Join(t.TempDir(), "environment.env"))
		}, envFileValue},
		{"sqlite", func(t *testing.T) Backend {
			b, err := OpenSQLiteBackend(context.Background(), filepath.Join(t.TempDir(), "environment.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			return b
		}, anyValue},
	}
}

// valueGen produces arbitrary text, digit strings with leading zeros and signed numbers.
func valueGen(holds func(string) bool) gopter.Gen {
	return gen.OneGenOf(
		gen.AnyString(),
		gen.NumString().Map(func(s string) string { return "0" + s }),
		gen.Int64().Map(func(n int64) string { return "+" + Text(n) }),
		gen.Const("-0"),
	).SuchThat(func(v string) bool { return holds(v) })
}

// Property: Get(k) == Text(v) after Set(k, v)
func TestSetThenGetProperty(t *testing.T) {
	for _, backend := range localBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := NewStore(backend.open(t), nil)
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 200
			properties := gopter.NewProperties(parameters)

			properties.Property("get returns what set stored", prop.ForAll(
				func(key string, value string) bool {
					ctx := context.Background()
					if err := s.Reset(ctx); err != nil {
						return false
					}
					if err := s.Set(ctx, key, value); err != nil {
						return false
					}
					return s.Get(ctx, key) == value
				},
				gen.Identifier(),
				valueGen(backend.holds),
			))

			properties.Property("numbers are stored in base 10", prop.ForAll(
				func(key string, value int64) bool {
					ctx := context.Background()
					if err := s.Set(ctx, key, value); err != nil {
						return false
					}
					return s.Get(ctx, key) == Text(value)
				},
				gen.Identifier(),
				gen.Int64(),
			))

			properties.Property("repeated identical writes are idempotent", prop.ForAll(
				func(key, value string) bool {
					ctx := context.Background()
					if err := s.Reset(ctx); err != nil {
						return false
					}
					_ = s.Set(ctx, key, value)
					_ = s.Set(ctx, key, value)
					snapshot, err := s.Snapshot(ctx)
					return err == nil && len(snapshot) == 1 && snapshot[key] == value
				},
				gen.Identifier(),
				valueGen(backend.holds),
			))

			properties.TestingRun(t)
		})
	}
}

// Property: Set(k, v1); Set(k, v2) leaves Get(k) == v2 and every other key unchanged
func TestOverwriteProperty(t *testing.T) {
	for _, backend := range localBackends() {
		t.Run(backend.name, func(t *testing.T) {
			s := NewStore(backend.open(t), nil)
			parameters := gopter.DefaultTestParameters()
			parameters.MinSuccessfulTests = 100
			properties := gopter.NewProperties(parameters)

			properties.Property("last write wins and other keys are untouched", prop.ForAll(
				func(others map[string]string, key, v1, v2 string) bool {
					ctx := context.Background()
					if err := s.Reset(ctx); err != nil {
						return false
					}
					for k, v := range others {
						if k == key {
							continue
						}
						if err := s.Set(ctx, k, v); err != nil {
							return false
						}
					}
					_ = s.Set(ctx, key, v1)
					_ = s.Set(ctx, key, v2)
					if s.Get(ctx, key) != v2 {
						return false
					}
					for k, v := range others {
						if k != key && s.Get(ctx, k) != v {
							return false
						}
					}
					return true
				},
				gen.MapOf(gen.Identifier(), valueGen(backend.holds)),
				gen.Identifier(),
				valueGen(backend.holds),
				valueGen(backend.holds),
			))

			properties.TestingRun(t)
		})
	}
}

// Property: a value the file backend cannot hold is refused and leaves the stored entries as
// they were
func TestEnvFileRefusesUnstorableValuesProperty(t *testing.T) {
	s := NewStore(NewEnvFileBackend(filepath.Join(t.TempDir(), "environment.env")), nil)
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("set fails and nothing changes", prop.ForAll(
		func(prefix string, suffix string) bool {
			ctx := context.Background()
			if err := s.Set(ctx, "kept", prefix); err != nil {
				return false
			}
			if s.Set(ctx, "refused", prefix+suffix) == nil {
				return false
			}
			snapshot, err := s.Snapshot(ctx)
			return err == nil && snapshot["kept"] == prefix && len(snapshot) == 1
		},
		valueGen(envFileValue),
		gen.OneConstOf(`\`, `"`),
	))

	properties.TestingRun(t)
}
