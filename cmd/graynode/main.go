// Gray Logic Node - Device Agent
//
// This is the main entry point for the Gray Logic node agent. It runs on
// field devices and brings up resilient connectivity to the site core:
//   - Bounded wireless link association with clean-slate retries
//   - Probed, flat-retry broker handshake with a retained online announce
//   - Tri-LED status signalling and an attached character display
//
// The boot sequence itself is a linear state machine; see
// internal/orchestrator for the phase gates and abort semantics.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/gray-logic-node/internal/broker"
	"github.com/nerrad567/gray-logic-node/internal/bus"
	"github.com/nerrad567/gray-logic-node/internal/credentials"
	"github.com/nerrad567/gray-logic-node/internal/indicator"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/telemetry"
	"github.com/nerrad567/gray-logic-node/internal/orchestrator"
	"github.com/nerrad567/gray-logic-node/internal/panel"
	"github.com/nerrad567/gray-logic-node/internal/stub"
	"github.com/nerrad567/gray-logic-node/internal/wifi"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Node",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the credential store
	db, err := database.Open(database.Config{
		Path:        cfg.Credentials.StorePath,
		BusyTimeout: cfg.Credentials.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	defer func() {
		log.Info("closing credential store")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing credential store", "error", closeErr)
		}
	}()
	log.Info("credential store opened", "path", cfg.Credentials.StorePath)

	store := credentials.NewStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("preparing credential store: %w", err)
	}

	// Resolve the connection credential chain
	creds, source := credentials.Resolve(ctx, store, cfg.Credentials.UseBuiltin, log)
	log.Info("connection credentials resolved", "source", string(source))

	// Message bus
	registry := bus.NewRegistry()
	registry.SetLogger(log)

	// Status indicator over the sysfs LED lines
	signals := indicator.NewSysfsSignals(map[indicator.Line]string{
		indicator.LineBoot:   cfg.Indicator.BootLED,
		indicator.LineStatus: cfg.Indicator.StatusLED,
		indicator.LineFault:  cfg.Indicator.FaultLED,
	}, log)
	ind := indicator.New(signals, indicator.DefaultTiming(), log)

	// Display arbiter over the Modbus gateway (optional)
	var display *panel.Arbiter
	if cfg.Panel.Endpoint != "" {
		display = panel.NewArbiter(panel.NewModbusBus(cfg.Panel.Endpoint), log)
		go display.Run(ctx)
		log.Info("display arbiter started", "endpoint", cfg.Panel.Endpoint)
	} else {
		log.Info("no display configured")
	}

	// Telemetry (optional)
	var metrics *telemetry.Client
	if cfg.Telemetry.Enabled {
		metrics, err = telemetry.Connect(cfg.Telemetry, cfg.Node.ID)
		if err != nil {
			return fmt.Errorf("connecting telemetry: %w", err)
		}
		defer func() {
			log.Info("closing telemetry connection")
			if closeErr := metrics.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		metrics.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		log.Info("telemetry connected", "url", cfg.Telemetry.URL, "bucket", cfg.Telemetry.Bucket)
	} else {
		log.Info("telemetry disabled")
	}

	// Connectivity units
	driver := wifi.NewNMCLIDriver(cfg.Wifi.Interface, log)
	linkUnit := wifi.NewUnit(wifi.DefaultConfig(creds.LinkName, creds.LinkSecret),
		driver, registry, ind, log)

	// #nosec G115 -- QoS validated to 0..2 by config
	brokerUnit := broker.NewUnit(broker.DefaultConfig(cfg.Node.ID, byte(cfg.Broker.QoS)),
		creds, registry, driver, ind, log)

	if metrics != nil {
		linkUnit.SetRecorder(metrics)
		brokerUnit.SetRecorder(metrics)
	}

	units := []orchestrator.Unit{
		{ID: bus.UnitLink, Start: linkUnit.Start},
		{ID: bus.UnitBroker, Start: brokerUnit.Start},
	}
	for _, id := range []bus.UnitID{
		bus.UnitHTTP, bus.UnitTCPIP, bus.UnitOTA,
		bus.UnitExternal, bus.UnitDisplay, bus.UnitInput,
	} {
		s := stub.NewUnit(id, registry, log)
		units = append(units, orchestrator.Unit{ID: id, Start: s.Start})
	}

	// Boot sequence
	var renderer orchestrator.TextRenderer
	if display != nil {
		renderer = display
	}
	orch := orchestrator.New(orchestrator.DefaultConfig(), registry, units,
		ind, renderer, nil, log)
	if metrics != nil {
		orch.SetRecorder(metrics)
	}

	err = orch.Run(ctx)
	if metrics != nil {
		metrics.Flush()
	}
	if err != nil {
		if errors.Is(err, orchestrator.ErrAborted) {
			log.Error("boot aborted, agent terminating", "error", err)
		}
		return err
	}

	log.Info("Gray Logic Node stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYNODE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYNODE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
