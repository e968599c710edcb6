package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
)

const bearerPrefix = "Bearer "

var errUnsupportedAlg = errors.New("unsupported jwt algorithm")

// StripBearerPrefix removes a leading "Bearer " from an Authorization
// header value, returning the header unchanged if the prefix is absent.
func StripBearerPrefix(header string) string {
	return strings.TrimPrefix(header, bearerPrefix)
}

// claims is the registered claim set plus the private "pooly_role" claim
// every bearer token pooly issues must carry.
type claims struct {
	jwt.RegisteredClaims
	PoolyRole string `json:"pooly_role,omitempty"`
}

// TokenVerifier parses, verifies, and extracts the RoleToken asserted by a
// bearer token, resolving verification key material through
// JwtVerificationKeyService by the token's header kid and algorithm.
type TokenVerifier struct {
	keys *JwtVerificationKeyService
}

// NewTokenVerifier builds a TokenVerifier over keys.
func NewTokenVerifier(keys *JwtVerificationKeyService) *TokenVerifier {
	return &TokenVerifier{keys: keys}
}

// VerifyAndExtract parses tokenString (with any "Bearer " prefix already
// stripped), verifies its signature, validates its registered claims, and
// returns the RoleToken it asserts. It fails with Forbidden if the token's
// role claim does not match expectedRole.
func (v *TokenVerifier) VerifyAndExtract(tokenString string, expectedRole domainauth.Role) (domainauth.RoleToken, error) {
	parsed := &claims{}

	parser := jwt.NewParser(jwt.WithExpirationRequired())

	token, err := parser.ParseWithClaims(tokenString, parsed, v.keyFunc)
	if err != nil {
		var ae *poolyerrors.AuthError
		if errors.As(err, &ae) {
			return domainauth.RoleToken{}, ae
		}

		return domainauth.RoleToken{}, poolyerrors.NewAuthErr(poolyerrors.AuthInvalidToken, err)
	}

	if !token.Valid {
		return domainauth.RoleToken{}, poolyerrors.NewAuthErr(poolyerrors.AuthInvalidToken, nil)
	}

	if parsed.Subject == "" {
		return domainauth.RoleToken{}, poolyerrors.NewAuthErr(poolyerrors.AuthInvalidClaims, nil)
	}

	roleToken, ok := domainauth.RoleTokenFromClaim(parsed.PoolyRole, parsed.Subject)
	if !ok {
		return domainauth.RoleToken{}, poolyerrors.NewAuthErr(poolyerrors.AuthInvalidClaims, nil)
	}

	if roleToken.Role != expectedRole {
		return domainauth.RoleToken{}, poolyerrors.NewAuthErr(poolyerrors.AuthForbidden, nil)
	}

	return roleToken, nil
}

// keyFunc resolves the verification key for token by its header's alg and
// kid, looking it up through keys.
func (v *TokenVerifier) keyFunc(token *jwt.Token) (any, error) {
	alg, ok := domainauth.ParseJwtAlg(token.Method.Alg())
	if !ok {
		return nil, poolyerrors.NewAuthErr(poolyerrors.AuthUnsupportedAlg, errUnsupportedAlg)
	}

	kid, _ := token.Header["kid"].(string)

	keyID := domainauth.BuildJwtVerificationKeyID(kid, alg)

	versioned, found, err := v.keys.Get(keyID)
	if err != nil {
		return nil, poolyerrors.NewAuthErr(poolyerrors.AuthVerificationError, err)
	}

	if !found {
		return nil, poolyerrors.NewAuthErr(poolyerrors.AuthUnknownKey, nil)
	}

	return keyMaterial(alg, versioned.Value.Value)
}

// keyMaterial converts the stored key bytes into the type golang-jwt
// expects for alg: the raw secret for HMAC algorithms, a parsed PEM public
// key for RSA and ECDSA algorithms.
func keyMaterial(alg domainauth.JwtAlg, value []byte) (any, error) {
	switch alg {
	case domainauth.Hs256, domainauth.Hs384, domainauth.Hs512:
		return value, nil
	case domainauth.Rs256, domainauth.Rs384, domainauth.Rs512:
		key, err := jwt.ParseRSAPublicKeyFromPEM(value)
		if err != nil {
			return nil, poolyerrors.NewAuthErr(poolyerrors.AuthPemError, err)
		}

		return key, nil
	case domainauth.Es256, domainauth.Es384, domainauth.Es512:
		key, err := jwt.ParseECPublicKeyFromPEM(value)
		if err != nil {
			return nil, poolyerrors.NewAuthErr(poolyerrors.AuthPemError, err)
		}

		return key, nil
	default:
		return nil, poolyerrors.NewAuthErr(poolyerrors.AuthUnsupportedAlg, errUnsupportedAlg)
	}
}
