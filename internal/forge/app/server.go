// Package app wires the forge service process: configuration, storage,
// tracing, the gRPC health endpoint, and the local oracle delivery loop.
package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/hollowvale/arenaforge/internal/forge/oracle"
	forgeservice "github.com/hollowvale/arenaforge/internal/forge/service"
	forgesqlite "github.com/hollowvale/arenaforge/internal/forge/storage/sqlite"
	"github.com/hollowvale/arenaforge/internal/platform/config"
	platformotel "github.com/hollowvale/arenaforge/internal/platform/otel"
)

// serverEnv holds env-parsed configuration for the forge server.
type serverEnv struct {
	Port           int           `env:"ARENAFORGE_PORT" envDefault:"8090"`
	DBPath         string        `env:"ARENAFORGE_DB_PATH"`
	PendingTimeout time.Duration `env:"ARENAFORGE_PENDING_TIMEOUT" envDefault:"24h"`
	BaseSlots      int           `env:"ARENAFORGE_BASE_SLOTS" envDefault:"1"`
	SlotBatchSize  int           `env:"ARENAFORGE_SLOT_BATCH_SIZE" envDefault:"1"`
	MaxSlots       int           `env:"ARENAFORGE_MAX_SLOTS" envDefault:"3"`
	OraclePoll     time.Duration `env:"ARENAFORGE_ORACLE_POLL_INTERVAL" envDefault:"5s"`
	FirstNames     int           `env:"ARENAFORGE_FIRST_NAME_COUNT" envDefault:"256"`
	AltFirstNames  int           `env:"ARENAFORGE_ALT_FIRST_NAME_COUNT" envDefault:"256"`
	Surnames       int           `env:"ARENAFORGE_SURNAME_COUNT" envDefault:"512"`
}

func loadServerEnv() (serverEnv, error) {
	var cfg serverEnv
	if err := config.ParseEnv(&cfg); err != nil {
		return serverEnv{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "forge.db")
	}
	return cfg, nil
}

// Run starts the forge server and blocks until the context ends.
func Run(ctx context.Context) error {
	env, err := loadServerEnv()
	if err != nil {
		return err
	}

	shutdownTracing, err := platformotel.Setup(ctx, "arenaforge")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	if dir := filepath.Dir(env.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := forgesqlite.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("open forge sqlite store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close forge sqlite store: %v", err)
		}
	}()

	localOracle := oracle.NewLocal(store)
	svc := forgeservice.New(store, localOracle,
		staticNames{first: env.FirstNames, altFirst: env.AltFirstNames, surnames: env.Surnames},
		unstockedEquipment{},
		trustingPayments{},
		forgeservice.Config{
			PendingTimeout: env.PendingTimeout,
			BaseSlots:      env.BaseSlots,
			SlotBatchSize:  env.SlotBatchSize,
			MaxSlots:       env.MaxSlots,
		})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", env.Port))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", env.Port, err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	go localOracle.Run(ctx, svc, env.OraclePoll)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()
	log.Printf("forge server listening on %s", listener.Addr())

	select {
	case <-ctx.Done():
		grpcServer.GracefulStop()
		return nil
	case err := <-serveErr:
		return err
	}
}
