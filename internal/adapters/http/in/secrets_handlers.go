package in

import (
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	commonhttp "github.com/mrrabbitte/pooly/common/net/http"
	"github.com/mrrabbitte/pooly/internal/bootstrap"
	poolyerrors "github.com/mrrabbitte/pooly/internal/domain/errors"
	"github.com/mrrabbitte/pooly/internal/domain/secrets"
)

// initializeRequest carries the seed admin HS256 key the freshly
// initialized system should accept bearer tokens signed with.
type initializeRequest struct {
	SeedAdminKey string `json:"seed_admin_key" validate:"required"`
}

// initializeResponse lists the shares an operator must distribute and later
// resubmit, base64-encoded.
type initializeResponse struct {
	Shares []string `json:"shares"`
}

// shareRequest carries one base64-encoded master key share.
type shareRequest struct {
	Share string `json:"share" validate:"required"`
}

func initializeHandler(init *bootstrap.Initializer) fiber.Handler {
	return commonhttp.WithBody(new(initializeRequest), func(body any, c *fiber.Ctx) error {
		req := body.(*initializeRequest)

		seedKey, err := base64.StdEncoding.DecodeString(req.SeedAdminKey)
		if err != nil {
			return poolyerrors.NewSecretsErr(poolyerrors.SecretsSerdeError, err)
		}

		shares, err := init.Initialize(seedKey)
		if err != nil {
			return err
		}

		return commonhttp.OK(c, initializeResponse{Shares: encodeShares(shares)})
	})
}

func addShareHandler(pending *secrets.PendingSharesRegistry) fiber.Handler {
	return commonhttp.WithBody(new(shareRequest), func(body any, c *fiber.Ctx) error {
		req := body.(*shareRequest)

		raw, err := base64.StdEncoding.DecodeString(req.Share)
		if err != nil {
			return poolyerrors.NewSecretsErr(poolyerrors.SecretsSerdeError, err)
		}

		if err := pending.Add(secrets.NewMasterKeyShare(raw)); err != nil {
			return err
		}

		return commonhttp.NoContent(c)
	})
}

func clearHandler(init *bootstrap.Initializer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := init.Clear(); err != nil {
			return err
		}

		return commonhttp.NoContent(c)
	}
}

func unsealHandler(mgr *secrets.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := mgr.Unseal(); err != nil {
			return err
		}

		return commonhttp.NoContent(c)
	}
}

func encodeShares(shares []secrets.MasterKeyShare) []string {
	out := make([]string, len(shares))
	for i, s := range shares {
		out[i] = base64.StdEncoding.EncodeToString(s.Value())
	}

	return out
}
