// Package pool holds the connection-config data model consumed by the
// connection pool registry: per-connection backend coordinates, credentials,
// and an optional rate limit, all mutable through a versioned command.
package pool

import (
	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// RateLimitConfig bounds the request rate admitted against one connection.
type RateLimitConfig struct {
	MaxRequestsPerPeriod uint32 `msgpack:"max_requests_per_period" json:"max_requests_per_period"`
	PeriodMillis         uint64 `msgpack:"period_millis" json:"period_millis"`
}

// ConnectionConfig describes one backend PostgreSQL database pooly can
// broker queries against. Password is plaintext once decrypted out of the
// storage pipeline; callers zero it promptly after use.
type ConnectionConfig struct {
	ConnID         string           `msgpack:"id" json:"id" validate:"required"`
	Hosts          []string         `msgpack:"hosts" json:"hosts" validate:"required,min=1"`
	Ports          []uint16         `msgpack:"ports" json:"ports" validate:"required,min=1"`
	DbName         string           `msgpack:"db_name" json:"db_name" validate:"required"`
	User           string           `msgpack:"user" json:"user" validate:"required"`
	Password       string           `msgpack:"password" json:"password"`
	MaxConnections int32            `msgpack:"max_connections" json:"max_connections"`
	RateLimit      *RateLimitConfig `msgpack:"rate_limit,omitempty" json:"rate_limit,omitempty"`
}

// ID implements versioning.Identifiable.
func (c ConnectionConfig) ID() string {
	return c.ConnID
}

// Zero overwrites the fields carrying credential material. The pool
// registry calls it on its copy of the config once a pool has been built
// from it.
func (c *ConnectionConfig) Zero() {
	zeroString(&c.User)
	zeroString(&c.Password)

	for i := range c.Hosts {
		zeroString(&c.Hosts[i])
	}
}

func zeroString(s *string) {
	b := []byte(*s)
	for i := range b {
		b[i] = 0
	}

	*s = ""
}

// ConnectionConfigUpdateCommand replaces every field but id. A nil pointer
// field leaves the corresponding ConnectionConfig field unchanged.
type ConnectionConfigUpdateCommand struct {
	HeaderV        versioning.VersionHeader `msgpack:"header" json:"header" validate:"required"`
	Hosts          []string                 `msgpack:"hosts,omitempty" json:"hosts,omitempty"`
	Ports          []uint16                 `msgpack:"ports,omitempty" json:"ports,omitempty"`
	DbName         *string                  `msgpack:"db_name,omitempty" json:"db_name,omitempty"`
	User           *string                  `msgpack:"user,omitempty" json:"user,omitempty"`
	Password       *string                  `msgpack:"password,omitempty" json:"password,omitempty"`
	MaxConnections *int32                   `msgpack:"max_connections,omitempty" json:"max_connections,omitempty"`
	RateLimit      *RateLimitConfig         `msgpack:"rate_limit,omitempty" json:"rate_limit,omitempty"`
}

// Header implements versioning.UpdateCommand.
func (c ConnectionConfigUpdateCommand) Header() versioning.VersionHeader {
	return c.HeaderV
}

// Accept implements versioning.Acceptor, applying the non-nil fields of cmd
// over e and leaving the rest untouched.
func (e ConnectionConfig) Accept(cmd ConnectionConfigUpdateCommand) (ConnectionConfig, error) {
	next := e

	if cmd.Hosts != nil {
		next.Hosts = cmd.Hosts
	}

	if cmd.Ports != nil {
		next.Ports = cmd.Ports
	}

	if cmd.DbName != nil {
		next.DbName = *cmd.DbName
	}

	if cmd.User != nil {
		next.User = *cmd.User
	}

	if cmd.Password != nil {
		next.Password = *cmd.Password
	}

	if cmd.MaxConnections != nil {
		next.MaxConnections = *cmd.MaxConnections
	}

	if cmd.RateLimit != nil {
		next.RateLimit = cmd.RateLimit
	}

	return next, nil
}
