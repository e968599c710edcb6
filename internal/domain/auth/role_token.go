package auth

// Role distinguishes the two bearer-token roles pooly recognizes.
type Role int

const (
	RoleAdmin Role = iota
	RoleClientService
)

// PoolyRoleClaim is the private claim name carrying the role a bearer
// token asserts.
const PoolyRoleClaim = "pooly_role"

const (
	roleClaimAdmin         = "admin"
	roleClaimClientService = "client_service"
)

// RoleToken is the identity extracted from a verified bearer token's
// claims: either an administrator or a client service, each carrying the
// subject id asserted in the "sub" claim.
type RoleToken struct {
	Role     Role
	AdminID  string
	ClientID string
}

// NewAdminToken builds an admin RoleToken.
func NewAdminToken(adminID string) RoleToken {
	return RoleToken{Role: RoleAdmin, AdminID: adminID}
}

// NewClientServiceToken builds a client-service RoleToken.
func NewClientServiceToken(clientID string) RoleToken {
	return RoleToken{Role: RoleClientService, ClientID: clientID}
}

// RoleClaimValue returns the "pooly_role" claim value matching role.
func RoleClaimValue(role Role) string {
	if role == RoleAdmin {
		return roleClaimAdmin
	}

	return roleClaimClientService
}

// RoleTokenFromClaim builds a RoleToken from the "pooly_role" claim value
// and the token subject, rejecting any value other than the two known
// roles.
func RoleTokenFromClaim(roleClaim, subject string) (RoleToken, bool) {
	switch roleClaim {
	case roleClaimAdmin:
		return NewAdminToken(subject), true
	case roleClaimClientService:
		return NewClientServiceToken(subject), true
	default:
		return RoleToken{}, false
	}
}
