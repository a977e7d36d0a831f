package cache

import "fmt"

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Open constructs the named backend. dir is used by the file backend and
// url by the redis backend. An empty name selects the file backend.
func Open(backend, dir, url string) (Cache, error) {
	switch backend {
	case BackendFile, "":
		return NewFileCache(dir)
	case BackendRedis:
		c, err := NewRedisCache(url, DefaultRedisPrefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q (must be one of: file, redis, none)", ErrInvalidBackend, backend)
	}
}
