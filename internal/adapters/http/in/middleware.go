// Package in holds pooly's HTTP boundary: the two fiber routers (the
// pre-shared-key init scope and the bearer-token admin/client scope), the
// generic versioned-CRUD handlers they share, and the query/bulk handlers
// for the client scope.
package in

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	serviceauth "github.com/mrrabbitte/pooly/internal/services/auth"
)

const authorizationHeader = "Authorization"

// headerCorrelationID mirrors common/net/http's own unexported constant of
// the same name — the header withCorrelationID.go assigns.
const headerCorrelationID = "X-Correlation-Id"

// roleTokenLocal is the fiber.Ctx.Locals key the bearer-auth middleware
// stores the verified RoleToken under.
const roleTokenLocal = "pooly_role_token"

// WithInitKeyAuth rejects any request whose Authorization header does not
// constant-time-equal the configured pre-shared InitializeApiKey.
func WithInitKeyAuth(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplied := serviceauth.StripBearerPrefix(c.Get(authorizationHeader))

		if subtle.ConstantTimeCompare([]byte(supplied), []byte(apiKey)) != 1 {
			return poolyerrors.NewAuthErr(poolyerrors.AuthMissingAuthHeader, nil)
		}

		return c.Next()
	}
}

// WithBearerAuth verifies the request's bearer token against verifier,
// rejecting it unless it asserts expectedRole, and stores the extracted
// RoleToken in the request locals for handlers to consult.
func WithBearerAuth(verifier *serviceauth.TokenVerifier, expectedRole domainauth.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(authorizationHeader)
		if header == "" {
			return poolyerrors.NewAuthErr(poolyerrors.AuthMissingAuthHeader, nil)
		}

		token := serviceauth.StripBearerPrefix(header)

		roleToken, err := verifier.VerifyAndExtract(token, expectedRole)
		if err != nil {
			return err
		}

		c.Locals(roleTokenLocal, roleToken)

		return c.Next()
	}
}

// roleTokenFrom reads the RoleToken a prior WithBearerAuth call stored.
func roleTokenFrom(c *fiber.Ctx) domainauth.RoleToken {
	token, _ := c.Locals(roleTokenLocal).(domainauth.RoleToken)

	return token
}
