package main

import (
	"fmt"
	"os"

	"github.com/mrrabbitte/pooly/common"
	"github.com/mrrabbitte/pooly/common/mzap"
	"github.com/mrrabbitte/pooly/internal/adapters/http/in"
	"github.com/mrrabbitte/pooly/internal/bootstrap"
	"github.com/mrrabbitte/pooly/internal/config"
)

func main() {
	common.InitLocalEnvConfig()

	logger := mzap.InitializeLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("failed to load configuration: %v", err)
		_ = logger.Sync()

		os.Exit(1)
	}

	graph, err := bootstrap.Build(cfg, logger)
	if err != nil {
		logger.Errorf("failed to build dependency graph: %v", err)
		_ = logger.Sync()

		os.Exit(1)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			logger.Errorf("error closing resources: %v", err)
		}
	}()

	initServer := bootstrap.NewServer(in.NewInitApp(graph), cfg.HTTPInitAddr, logger)
	apiServer := bootstrap.NewServer(in.NewAPIApp(graph), cfg.HTTPAPIAddr, logger)

	fmt.Println("pooly starting")

	common.NewLauncher(
		common.WithLogger(logger),
		common.RunApp("init-http", initServer),
		common.RunApp("api-http", apiServer),
	).Run()
}
