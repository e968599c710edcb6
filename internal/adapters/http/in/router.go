package in

import (
	"github.com/gofiber/fiber/v2"

	commonhttp "github.com/mrrabbitte/pooly/common/net/http"
	"github.com/mrrabbitte/pooly/internal/bootstrap"
	domainaccess "github.com/mrrabbitte/pooly/internal/domain/access"
	domainauth "github.com/mrrabbitte/pooly/internal/domain/auth"
	domainpool "github.com/mrrabbitte/pooly/internal/domain/pool"
)

// NewInitApp builds the `/i` scope app: pre-shared-key-authenticated
// first-boot operations against the secrets manager.
func NewInitApp(g *bootstrap.Graph) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return commonhttp.WithError(c, err)
		},
	})

	app.Use(commonhttp.WithCorrelationID())
	app.Use(commonhttp.WithHTTPLogging(commonhttp.WithCustomLogger(g.Logger)))
	commonhttp.AllowFullOptionsWithCORS(app)

	app.Get("/health", commonhttp.Ping)
	app.Get("/version", commonhttp.Version("pooly"))

	secrets := app.Group("/secrets", WithInitKeyAuth(g.Config.InitializeAPIKey))
	secrets.Post("/initialize", initializeHandler(g.Initializer))
	secrets.Post("/shares", addShareHandler(g.PendingShares))
	secrets.Post("/clear", clearHandler(g.Initializer))
	secrets.Post("/unseal", unsealHandler(g.Secrets))

	return app
}

// NewAPIApp builds the `/a` (admin) and `/c` (client service) scopes,
// sharing one fiber.App and one listener, distinguished by bearer-token
// role.
func NewAPIApp(g *bootstrap.Graph) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return commonhttp.WithError(c, err)
		},
	})

	app.Use(commonhttp.WithCorrelationID())
	app.Use(commonhttp.WithHTTPLogging(commonhttp.WithCustomLogger(g.Logger)))
	commonhttp.AllowFullOptionsWithCORS(app)

	app.Get("/health", commonhttp.Ping)
	app.Get("/version", commonhttp.Version("pooly"))

	admin := app.Group("", WithBearerAuth(g.TokenVerifier, domainauth.RoleAdmin))
	registerCrudRoutes[domainpool.ConnectionConfig, domainpool.ConnectionConfigUpdateCommand](
		admin, "/connections", "id", g.ConnectionConfigs)
	registerCrudRoutes[domainaccess.LiteralConnectionIdAccessEntry, domainaccess.SetCommand[string]](
		admin, "/access/literals", "client_id", g.LiteralAccess)
	registerCrudRoutes[domainaccess.WildcardPatternConnectionIdAccessEntry, domainaccess.SetCommand[domainaccess.WildcardPattern]](
		admin, "/access/patterns", "client_id", g.PatternAccess)
	registerCrudRoutes[domainauth.JwtVerificationKey, domainauth.JwtVerificationKeyUpdateCommand](
		admin, "/keys", "id", g.JwtKeys)

	client := app.Group("", WithBearerAuth(g.TokenVerifier, domainauth.RoleClientService))
	client.Post("/query", queryHandler(g.Query))
	client.Post("/bulk", bulkHandler(g.Query))

	return app
}
