// Package auth holds the bearer-token verification data model: the keys
// JWTs are verified against and the role claims extracted from them.
package auth

import (
	"fmt"
	"strings"

	"github.com/mrrabbitte/pooly/internal/domain/versioning"
)

// JwtAlg enumerates the signing algorithms a JwtVerificationKey may carry.
type JwtAlg int

const (
	Hs256 JwtAlg = iota
	Hs384
	Hs512
	Rs256
	Rs384
	Rs512
	Es256
	Es384
	Es512
)

func (a JwtAlg) String() string {
	switch a {
	case Hs256:
		return "hs256"
	case Hs384:
		return "hs384"
	case Hs512:
		return "hs512"
	case Rs256:
		return "rs256"
	case Rs384:
		return "rs384"
	case Rs512:
		return "rs512"
	case Es256:
		return "es256"
	case Es384:
		return "es384"
	case Es512:
		return "es512"
	default:
		return "unknown"
	}
}

// JwtVerificationKey is the key material a JWT is checked against, keyed by
// a synthetic id combining the token's "kid" header (or "none") and its
// algorithm, so one id uniquely selects the key used to verify any given
// token.
type JwtVerificationKey struct {
	KeyID string `msgpack:"id" json:"id"`
	Kid   string `msgpack:"kid,omitempty" json:"kid,omitempty"`
	Alg   JwtAlg `msgpack:"alg" json:"alg"`
	Value []byte `msgpack:"value" json:"value"`
}

// ParseJwtAlg maps a JWT header "alg" value (e.g. "HS256") to JwtAlg.
func ParseJwtAlg(alg string) (JwtAlg, bool) {
	switch strings.ToUpper(alg) {
	case "HS256":
		return Hs256, true
	case "HS384":
		return Hs384, true
	case "HS512":
		return Hs512, true
	case "RS256":
		return Rs256, true
	case "RS384":
		return Rs384, true
	case "RS512":
		return Rs512, true
	case "ES256":
		return Es256, true
	case "ES384":
		return Es384, true
	case "ES512":
		return Es512, true
	default:
		return 0, false
	}
}

// BuildJwtVerificationKeyID derives the storage id for a (kid, alg) pair.
func BuildJwtVerificationKeyID(kid string, alg JwtAlg) string {
	k := kid
	if k == "" {
		k = "none"
	}

	return strings.ToLower(fmt.Sprintf("%s-%s", k, alg))
}

// NewJwtVerificationKey builds a key, deriving its id from kid and alg.
func NewJwtVerificationKey(kid string, alg JwtAlg, value []byte) JwtVerificationKey {
	return JwtVerificationKey{
		KeyID: BuildJwtVerificationKeyID(kid, alg),
		Kid:   kid,
		Alg:   alg,
		Value: value,
	}
}

// ID implements versioning.Identifiable.
func (k JwtVerificationKey) ID() string {
	return k.KeyID
}

// JwtVerificationKeyUpdateCommand replaces a key's value, preserving id,
// kid, and alg.
type JwtVerificationKeyUpdateCommand struct {
	HeaderV versioning.VersionHeader `msgpack:"header" json:"header" validate:"required"`
	Value   []byte                   `msgpack:"value" json:"value" validate:"required"`
}

// Header implements versioning.UpdateCommand.
func (c JwtVerificationKeyUpdateCommand) Header() versioning.VersionHeader {
	return c.HeaderV
}

// Accept implements versioning.Acceptor.
func (k JwtVerificationKey) Accept(cmd JwtVerificationKeyUpdateCommand) (JwtVerificationKey, error) {
	return JwtVerificationKey{
		KeyID: k.KeyID,
		Kid:   k.Kid,
		Alg:   k.Alg,
		Value: cmd.Value,
	}, nil
}
