package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/config"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/constants"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/db"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [up|down|status|version|redo|reset]\n")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	config.LoadDotEnv()

	log, err := logger.New(os.Getenv("LOG_DIR"), "migrate", os.Getenv("LOG_LEVEL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadMigrateConfig()

	ctx, cancel := context.WithTimeout(context.Background(), constants.MigrateTimeout)
	defer cancel()

	if err := db.Migrate(ctx, cfg.DatabaseURL, command); err != nil {
		log.Fatalf("migrate %s failed: %v", command, err)
	}
	log.WithFields(ctx, logger.Fields{
		"action":  "migrate_done",
		"command": command,
	}).Info("migrations finished")
}
