package state

import (
	"context"
	"fmt"
)

// Backend kinds accepted by Options.Kind.
const (
	KindFile     = "file"
	KindMemory   = "memory"
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Where the file and sqlite backends keep their entries unless told otherwise.
const (
	DefaultFilePath   = "environment.env"
	DefaultSQLitePath = "environment.db"
)

// Options selects and configures a Backend.
type Options struct {
	Kind string `yaml:"backend"`
	// Path is the file for the file and sqlite backends. Empty means the default for the kind.
	Path string `yaml:"path"`
	// DSN is the connection string for the postgres backend.
	DSN string `yaml:"dsn"`

	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	// RedisKey is the hash holding the entries; DefaultRedisKey if empty.
	RedisKey string `yaml:"redisKey"`
}

// OpenBackend creates the backend described by opts. An empty Kind means KindFile.
func OpenBackend(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case "", KindFile:
		path := opts.Path
		if path == "" {
			path = DefaultFilePath
		}
		return NewEnvFileBackend(path), nil
	case KindMemory:
		return NewMemoryBackend(), nil
	case KindSQLite:
		path := opts.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		return OpenSQLiteBackend(ctx, path)
	case KindRedis:
		if opts.RedisAddr == "" {
			return nil, fmt.Errorf("%s state backend requires an address", opts.Kind)
		}
		return NewRedisBackend(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisKey), nil
	case KindPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("%s state backend requires a DSN", opts.Kind)
		}
		return OpenPostgresBackend(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown state backend %q", opts.Kind)
	}
}
