package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
)

func TestJwtVerificationKeyService_CreateThenGet(t *testing.T) {
	keys := newTestKeyService(t)

	key := domainauth.NewJwtVerificationKey("kid-1", domainauth.Rs256, []byte("pem-bytes"))

	created, err := keys.Create(key)
	require.NoError(t, err)
	assert.Equal(t, key.KeyID, created.Value.KeyID)

	fetched, found, err := keys.Get(key.KeyID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("pem-bytes"), fetched.Value.Value)
}

func TestJwtVerificationKeyService_Update_ReplacesValue(t *testing.T) {
	keys := newTestKeyService(t)

	key := domainauth.NewJwtVerificationKey("kid-1", domainauth.Hs256, []byte("old"))

	created, err := keys.Create(key)
	require.NoError(t, err)

	updated, err := keys.Update(key.KeyID, domainauth.JwtVerificationKeyUpdateCommand{
		HeaderV: created.Header,
		Value:   []byte("new"),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), updated.Value.Value)
}
