package backend

import (
	"fmt"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/backend.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type BackendConfigMarshall struct {
	Port     int32                  `yaml:"port"`
	LogLevel string                 `yaml:"loglevel,omitempty"`
	Database string                 `yaml:"database"`
	Session  *SessionConfigMarshall `yaml:"session"`
}

var _ Marshalled[*BackendConfig] = &BackendConfigMarshall{}

func (b *BackendConfigMarshall) trySeal(path string) *BackendConfig {
	loglevel := b.LogLevel
	if loglevel == "" {
		loglevel = "info"
	}
	return &BackendConfig{
		port:     required(b.Port, path+".port"),
		loglevel: loglevel,
		database: required(b.Database, path+".database"),
		session:  nonnil(b.Session, path+".session").trySeal(path + ".session"),
	}
}

type SessionConfigMarshall struct {
	SignKey              string `yaml:"signKey"`
	AccessTokenLifetime  string `yaml:"accessTokenLifetime,omitempty"`
	RefreshTokenLifetime string `yaml:"refreshTokenLifetime,omitempty"`
}

func (s *SessionConfigMarshall) trySeal(path string) *SessionConfig {
	access := 15 * time.Minute
	if s.AccessTokenLifetime != "" {
		d, err := time.ParseDuration(s.AccessTokenLifetime)
		if err != nil {
			panic(fmt.Errorf("%s.accessTokenLifetime can not be parsed: %w", path, err))
		}
		access = d
	}

	refresh := 7 * 24 * time.Hour
	if s.RefreshTokenLifetime != "" {
		d, err := time.ParseDuration(s.RefreshTokenLifetime)
		if err != nil {
			panic(fmt.Errorf("%s.refreshTokenLifetime can not be parsed: %w", path, err))
		}
		refresh = d
	}

	return &SessionConfig{
		signKey:              []byte(required(s.SignKey, path+".signKey")),
		accessTokenLifetime:  access,
		refreshTokenLifetime: refresh,
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
