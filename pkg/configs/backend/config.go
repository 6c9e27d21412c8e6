package backend

import (
	"time"
)

type BackendConfig struct {
	port     int32
	loglevel string
	database string
	session  *SessionConfig
}

func (c *BackendConfig) Port() int32 {
	return c.port
}

// Log level: debug, info, warn, error or off. default = "info"
func (c *BackendConfig) LogLevel() string {
	return c.loglevel
}

// Connection string for database.
func (c *BackendConfig) Database() string {
	return c.database
}

func (c *BackendConfig) Session() *SessionConfig {
	return c.session
}

// Configuration for token issuance.
//
// to get `SessionConfig` instance, use `SessionConfigMarshall.trySeal()`
// through `Unmarshal`.
type SessionConfig struct {
	signKey              []byte
	accessTokenLifetime  time.Duration
	refreshTokenLifetime time.Duration
}

// HMAC key signing access tokens.
func (s *SessionConfig) SignKey() []byte {
	return s.signKey
}

// Lifetime of access tokens. default = 15m
func (s *SessionConfig) AccessTokenLifetime() time.Duration {
	return s.accessTokenLifetime
}

// Lifetime of refresh tokens. default = 168h (7 days)
func (s *SessionConfig) RefreshTokenLifetime() time.Duration {
	return s.refreshTokenLifetime
}
