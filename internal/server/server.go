// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itsatony/healthhub/api"
	"github.com/itsatony/healthhub/api/resources"
	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/graphql"
	"github.com/itsatony/healthhub/internal/ingest"
	"github.com/itsatony/healthhub/internal/monitoring"
	"github.com/itsatony/healthhub/internal/repository"
	"github.com/itsatony/healthhub/internal/repository/redisstore"
	"github.com/itsatony/healthhub/internal/repository/sqlstore"
	"github.com/itsatony/healthhub/internal/rpc"
	"github.com/prometheus/client_golang/prometheus"
	nuts "github.com/vaudience/go-nuts"
	muxprom "gitlab.com/msvechla/mux-prometheus/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// Server runs the HTTP API (REST and GraphQL) and the gRPC service on top of
// one ingestion pipeline.
type Server struct {
	config     *config.Config
	srv        *http.Server
	grpcServer *grpc.Server
	grpcHealth *health.Server
	database   *database.Provider
	status     *redisstore.StatusRepo
	pipeline   *ingest.Pipeline
	monitoring *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{config: cfg}
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	if err := s.initialize(context.Background()); err != nil {
		return err
	}

	errs := make(chan error, 2)
	go func() {
		nuts.L.Infof("[Server] Starting HTTP server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- fmt.Errorf("http server: %w", err)
		}
	}()

	if s.grpcServer != nil {
		addr := config.Addr(s.config.GRPC.Host, s.config.GRPC.Port)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("error listening on %s: %w", addr, err)
		}
		go func() {
			nuts.L.Infof("[Server] Starting gRPC server on %s", addr)
			if err := s.grpcServer.Serve(lis); err != nil && err != grpc.ErrServerStopped {
				errs <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	return s.waitForShutdown(errs)
}

func (s *Server) initialize(ctx context.Context) error {
	cfg := s.config

	s.database = database.NewProvider(ctx, cfg.Database)
	store := sqlstore.NewStore(s.database)
	s.pipeline = ingest.New(store)
	s.monitoring = monitoring.NewService(monitoring.Config{Namespace: cfg.Monitoring.Namespace})

	var status repository.StatusRepository
	if cfg.Redis.Enabled {
		s.status = redisstore.New(cfg.Redis)
		if err := s.status.Ping(ctx); err != nil {
			nuts.L.Warnf("[Server] Redis not reachable, ingest status will be missing until it is: %v", err)
		}
		status = s.status
	}

	s.setupIngestHandlers()

	routerCfg := api.RouterConfig{
		APIKey:      cfg.Server.APIKey,
		CORSOrigins: cfg.Server.CORSOrigins,
		MetricsPath: cfg.Monitoring.MetricsPath,
		Instrument: muxprom.NewCustomInstrumentation(
			true, cfg.Monitoring.Namespace, "http", prometheus.DefBuckets, nil, prometheus.DefaultRegisterer,
		).Middleware,
	}
	if cfg.GraphQL.Enabled {
		opts := []graphql.Option{graphql.WithMaxBodyBytes(cfg.Server.MaxBodyBytes)}
		if status != nil {
			opts = append(opts, graphql.WithStatus(status))
		}
		routerCfg.GraphQL = graphql.NewServer(s.pipeline, opts...)
		routerCfg.GraphQLPath = cfg.GraphQL.Path
		if cfg.GraphQL.Playground {
			routerCfg.Playground = graphql.PlaygroundHandler(cfg.GraphQL.Path)
		}
	}

	router := api.NewRouter(resources.Deps{
		Ingester:     s.pipeline,
		Store:        store,
		Status:       status,
		Database:     database.Probe{DB: s.database},
		Version:      nuts.GetVersion(),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, routerCfg)

	s.srv = &http.Server{
		Addr:         config.Addr(cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.GRPC.Enabled {
		s.grpcServer, s.grpcHealth = rpc.NewServer(
			rpc.NewService(s.pipeline, nuts.GetVersion()),
			rpc.ServerOptions{Reflection: cfg.GRPC.Reflection, MaxRecvMsgSize: int(cfg.Server.MaxBodyBytes)},
		)
	}
	return nil
}

// setupIngestHandlers feeds completed ingestions into metrics and the
// status tracker.
func (s *Server) setupIngestHandlers() {
	s.pipeline.OnCompleted(func(c ingest.Completed) {
		nuts.L.Infof("[Ingest] %s %s: %s (%s)", c.Result.Kind, c.Result.Status, c.Result.Message, c.Duration)
		s.monitoring.RecordIngest(c.Result, c.Batch, c.Duration)
	})

	if s.status == nil {
		return
	}
	s.pipeline.OnCompleted(func(c ingest.Completed) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.status.Record(ctx, c.Result); err != nil {
			nuts.L.Warnf("[Ingest] Failed to record %s status: %v", c.Result.Kind, err)
			s.monitoring.RecordEvent("status.record_failed", map[string]string{
				"kind": string(c.Result.Kind),
			})
		}
	})
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown(errs <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errs:
		nuts.L.Errorf("[Server] %v", runErr)
	}

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if s.grpcServer != nil {
		s.grpcHealth.Shutdown()
		stopped := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.grpcServer.Stop()
		}
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if s.status != nil {
		if err := s.status.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing redis client: %v", err)
		}
	}
	if err := s.database.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing database: %v", err)
	}

	if runErr != nil {
		return runErr
	}
	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}
