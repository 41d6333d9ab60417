package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/qa-llm/backend/internal/common/bootstrap"
	srv "github.com/AlibekovAA/qa-llm/backend/internal/common/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start api: %v\n", err)
		os.Exit(1)
	}

	server := srv.NewServer(srv.DefaultServerConfig(app.Config.HTTPPort), app.Handler)

	shutdownHooks := []srv.ShutdownHook{
		func(context.Context) error {
			app.Log.Info("api service: closing database pool")
			cancel()
			app.Pool.Close()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, app.Log, "api", shutdownHooks)
}
