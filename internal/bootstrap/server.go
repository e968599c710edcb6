package bootstrap

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mrrabbitte/pooly/common"
	"github.com/mrrabbitte/pooly/common/mlog"
)

// Server adapts a fiber.App to common.App, so one Launcher can run pooly's
// init-scope and admin/client-scope HTTP servers as supervised goroutines.
type Server struct {
	app    *fiber.App
	addr   string
	logger mlog.Logger
}

// NewServer builds a Server listening on addr once run.
func NewServer(app *fiber.App, addr string, logger mlog.Logger) *Server {
	return &Server{app: app, addr: addr, logger: logger}
}

// Run implements common.App, blocking until the listener stops.
func (s *Server) Run(*common.Launcher) error {
	s.logger.Infof("listening on %s", s.addr)

	return s.app.Listen(s.addr)
}
