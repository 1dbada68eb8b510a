package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"vregbot/app/client/groq"
	"vregbot/app/config"
	"vregbot/app/server"
	"vregbot/app/service/dialogue"
	"vregbot/app/service/retrieval"
	"vregbot/app/service/session"
	"vregbot/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, groq.NewClient)
	do.Provide(di, func(di *do.Injector) (dialogue.Generator, error) {
		return do.MustInvoke[*groq.Client](di), nil
	})
	do.Provide(di, session.New)
	do.Provide(di, retrieval.New)
	do.Provide(di, dialogue.New)
	do.Provide(di, server.New)
	do.Provide(di, server.NewMCPServer)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*session.Service](di).RunSweepLoop(appCtx)

	if cfg.MCP.Enabled {
		go do.MustInvoke[*server.MCPServer](di).Run(appCtx)
	}

	go do.MustInvoke[*server.Service](di).Run(appCtx)

	<-appCtx.Done()
}
