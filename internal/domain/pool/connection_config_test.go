package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() ConnectionConfig {
	return ConnectionConfig{
		ConnID:         "conn-1",
		Hosts:          []string{"db.internal"},
		Ports:          []uint16{5432},
		DbName:         "app",
		User:           "app_user",
		Password:       "s3cret",
		MaxConnections: 5,
	}
}

func TestConnectionConfig_Accept_LeavesUnsetFieldsUnchanged(t *testing.T) {
	cfg := baseConfig()

	updated, err := cfg.Accept(ConnectionConfigUpdateCommand{})
	require.NoError(t, err)
	assert.Equal(t, cfg, updated)
}

func TestConnectionConfig_Accept_ReplacesSetFieldsOnly(t *testing.T) {
	cfg := baseConfig()
	newDbName := "other_db"

	updated, err := cfg.Accept(ConnectionConfigUpdateCommand{
		DbName: &newDbName,
		RateLimit: &RateLimitConfig{
			MaxRequestsPerPeriod: 100,
			PeriodMillis:         60_000,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "other_db", updated.DbName)
	assert.Equal(t, cfg.User, updated.User)
	assert.Equal(t, cfg.Hosts, updated.Hosts)
	require.NotNil(t, updated.RateLimit)
	assert.Equal(t, uint32(100), updated.RateLimit.MaxRequestsPerPeriod)
}

func TestConnectionConfig_Zero_ClearsCredentialFields(t *testing.T) {
	cfg := baseConfig()

	cfg.Zero()

	assert.Equal(t, "", cfg.User)
	assert.Equal(t, "", cfg.Password)
	assert.Equal(t, "", cfg.Hosts[0])
}

func TestConnectionConfig_ID(t *testing.T) {
	cfg := baseConfig()

	assert.Equal(t, "conn-1", cfg.ID())
}
