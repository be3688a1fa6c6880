package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nsforge/authdns/internal/dns/common/log"
	"github.com/nsforge/authdns/internal/dns/config"
	"github.com/nsforge/authdns/internal/dns/domain"
	"github.com/nsforge/authdns/internal/dns/gateways/transport"
	"github.com/nsforge/authdns/internal/dns/gateways/wire"
	"github.com/nsforge/authdns/internal/dns/server"
	"github.com/nsforge/authdns/internal/dns/zone"
)

const (
	version = "0.1.0-dev"
	appName = "rr-dnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server.
type Application struct {
	config     *config.AppConfig
	transports []transport.ServerTransport
	responder  *server.Responder
	snapshot   *zone.SnapshotStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":    version,
		"app":        appName,
		"env":        cfg.Env,
		"log_level":  cfg.LogLevel,
		"bind":       cfg.Bind,
		"enable_tcp": cfg.EnableTCP,
	}, "Starting authoritative DNS server")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "authdns server stopped gracefully")
}

// buildApplication constructs all components and wires them together:
// a zone set, a wire codec, a Responder over the zones, and one transport
// per configured protocol.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	z, snapshot, err := buildZone(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build zone: %w", err)
	}

	codec := wire.NewUDPCodec(logger)
	responder := server.NewResponder(logger, z)

	transportTypes := []transport.TransportType{transport.TransportUDP}
	if cfg.EnableTCP {
		transportTypes = append(transportTypes, transport.TransportTCP)
	}

	transports := make([]transport.ServerTransport, 0, len(transportTypes))
	for _, transportType := range transportTypes {
		t, err := transport.NewTransport(transportType, cfg.Bind, codec, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s transport: %w", transportType, err)
		}
		transports = append(transports, t)
	}

	return &Application{
		config:     cfg,
		transports: transports,
		responder:  responder,
		snapshot:   snapshot,
	}, nil
}

// buildZone constructs the single authoritative zone this reference CLI
// serves. Per spec §1/§6, zones are populated programmatically - there is no
// zone-file loader here - but a snapshot path lets the programmatic build
// be cached across restarts via the bbolt-backed SnapshotStore.
func buildZone(cfg *config.AppConfig, logger log.Logger) (*zone.Zone, *zone.SnapshotStore, error) {
	origin, err := domain.FromText("example.com.")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid zone origin: %w", err)
	}

	backend, err := zone.NewDictBackend(origin, zone.DictBackendOptions{
		PlanCacheSize:         cfg.PlanCacheSize,
		NegativeCacheCapacity: cfg.NegativeCacheCapacity,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build zone backend: %w", err)
	}

	var store *zone.SnapshotStore
	if cfg.SnapshotPath != "" {
		store, err = zone.OpenSnapshotStore(cfg.SnapshotPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open zone snapshot: %w", err)
		}
		restored, err := store.Load(origin)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load zone snapshot: %w", err)
		}
		if len(restored) > 0 {
			for _, rec := range restored {
				if err := backend.Insert(rec); err != nil {
					return nil, nil, fmt.Errorf("failed to restore snapshot record: %w", err)
				}
			}
			logger.Info(map[string]any{"zone": origin.String(), "records": len(restored)}, "restored zone from snapshot")
			return zone.New(origin, backend), store, nil
		}
	}

	records, err := demoRecords(origin)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build demo records: %w", err)
	}
	for _, rec := range records {
		if err := backend.Insert(rec); err != nil {
			return nil, nil, fmt.Errorf("failed to seed zone: %w", err)
		}
	}
	logger.Info(map[string]any{"zone": origin.String(), "records": len(records)}, "seeded zone programmatically")

	if store != nil {
		if err := store.Save(origin, records); err != nil {
			return nil, nil, fmt.Errorf("failed to persist zone snapshot: %w", err)
		}
	}

	return zone.New(origin, backend), store, nil
}

// demoRecords builds a small, self-consistent record set for the reference
// zone: this CLI has no zone-file format to read from (spec §1 excludes
// one), so its starting data is written here, in code, exactly as spec §1
// requires of any implementation ("zones are populated programmatically").
func demoRecords(origin domain.Name) ([]domain.Record, error) {
	www, err := domain.FromText("www.example.com.")
	if err != nil {
		return nil, err
	}
	mail, err := domain.FromText("mail.example.com.")
	if err != nil {
		return nil, err
	}
	ns1, err := domain.FromText("ns1.example.com.")
	if err != nil {
		return nil, err
	}

	return []domain.Record{
		{Name: origin, Type: domain.RRTypeSOA, Class: domain.RRClassIN, TTL: 3600, RData: domain.SOAData{
			MName: ns1, RName: mail, Serial: 1, Refresh: 7200, Retry: 3600, Expire: 1209600, Minimum: 3600,
		}},
		{Name: origin, Type: domain.RRTypeNS, Class: domain.RRClassIN, TTL: 3600, RData: domain.NSData{Target: ns1}},
		{Name: origin, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, RData: domain.AData{Addr: [4]byte{93, 184, 216, 34}}},
		{Name: www, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, RData: domain.AData{Addr: [4]byte{93, 184, 216, 34}}},
		{Name: mail, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 300, RData: domain.AData{Addr: [4]byte{198, 51, 100, 1}}},
		{Name: ns1, Type: domain.RRTypeA, Class: domain.RRClassIN, TTL: 3600, RData: domain.AData{Addr: [4]byte{198, 51, 100, 1}}},
	}, nil
}

// Run starts every configured transport and blocks until context is
// cancelled.
func (app *Application) Run(ctx context.Context) error {
	for _, t := range app.transports {
		if err := t.Start(ctx, app.responder); err != nil {
			return fmt.Errorf("failed to start transport on %s: %w", t.Address(), err)
		}
		log.Info(map[string]any{"address": t.Address()}, "DNS transport started")
	}

	<-ctx.Done()
	log.Info(nil, "Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	for _, t := range app.transports {
		if err := t.Stop(); err != nil {
			log.Warn(map[string]any{"error": err, "address": t.Address()}, "Error during transport shutdown")
		}
	}
	if app.snapshot != nil {
		if err := app.snapshot.Close(); err != nil {
			log.Warn(map[string]any{"error": err}, "Error closing zone snapshot")
		}
	}

	done := make(chan struct{})
	go func() {
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
