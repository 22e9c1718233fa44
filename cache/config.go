package cache

import (
	"fmt"
)

// Default values applied by RedisCacheConfig for zero-valued options.
const (
	DefaultHost    = "127.0.0.1"
	DefaultPort    = 6379
	DefaultTimeout = 300
)

// RedisOptions are the connection parameters for a Redis cache backend.
// Zero values fall back to the package defaults.
type RedisOptions struct {
	Host     string
	Port     int
	DB       int
	Password string
	Timeout  int // default entry TTL, seconds
}

// BackendOptions is the fixed OPTIONS block of a cache backend configuration.
type BackendOptions struct {
	ClientClass          string `json:"CLIENT_CLASS"`
	Serializer           string `json:"SERIALIZER"`
	Compressor           string `json:"COMPRESSOR"`
	SocketConnectTimeout int    `json:"SOCKET_CONNECT_TIMEOUT"`
	SocketTimeout        int    `json:"SOCKET_TIMEOUT"`
}

// BackendConfig describes a cache backend in the shape downstream
// applications expect: backend implementation, location URL, default TTL,
// and client options.
type BackendConfig struct {
	Backend  string         `json:"BACKEND"`
	Location string         `json:"LOCATION"`
	Timeout  int            `json:"TIMEOUT"`
	Options  BackendOptions `json:"OPTIONS"`
}

// RedisCacheConfig builds a Redis-backed cache configuration. The LOCATION is
// a redis:// URL encoding host, port, db, and an optional password. Socket
// timeouts are fixed at 2 seconds to prevent request handlers hanging on a
// dead cache.
func RedisCacheConfig(opts RedisOptions) BackendConfig {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	auth := ""
	if opts.Password != "" {
		auth = opts.Password + "@"
	}
	location := fmt.Sprintf("redis://%s%s:%d/%d", auth, opts.Host, opts.Port, opts.DB)

	return BackendConfig{
		Backend:  "cache.RedisCache",
		Location: location,
		Timeout:  opts.Timeout,
		Options: BackendOptions{
			ClientClass:          "cache.DefaultClient",
			Serializer:           "json",
			Compressor:           "zlib",
			SocketConnectTimeout: 2,
			SocketTimeout:        2,
		},
	}
}
