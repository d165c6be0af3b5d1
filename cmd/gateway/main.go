// FilePath: cmd/gateway/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/gateway"
	"github.com/itsatony/healthhub/internal/rpc"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting Health Hub REST to gRPC Gateway v%s", nuts.GetVersion())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, err := rpc.Dial(cfg.Gateway.GRPCTarget)
	if err != nil {
		log.Fatalf("Failed to create gRPC client for %s: %v", cfg.Gateway.GRPCTarget, err)
	}
	defer client.Close()

	srv := &http.Server{
		Addr:         config.Addr(cfg.Gateway.Host, cfg.Gateway.Port),
		Handler:      gateway.New(client, cfg.Gateway.Timeout, cfg.Server.MaxBodyBytes).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		nuts.L.Infof("[Gateway] Listening on %s, forwarding to %s", srv.Addr, cfg.Gateway.GRPCTarget)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			nuts.L.Errorf("[Gateway] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		nuts.L.Errorf("[Gateway] Error shutting down: %v", err)
	}
}
