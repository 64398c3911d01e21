// hwpulse is a host hardware telemetry tool.
//
// It samples CPU, memory, disk, network, and NVIDIA GPU readings into
// timestamped snapshots and surfaces them through a live terminal
// dashboard, a web dashboard with WebSocket streaming, a one-shot JSON
// hardware inventory export, or an environment setup check.
//
// Usage:
//
//	hwpulse [flags]
//
// Flags:
//
//	-monitor          Run the live terminal dashboard
//	-serve            Run the web server (dashboard, REST API, WebSocket stream)
//	-inventory        Export hardware inventory as JSON and exit
//	-check            Run GPU environment setup checks and exit
//	-output string    Inventory output path (with -inventory)
//	-no-print         Skip the console summary (with -inventory)
//	-host string      Web server listen address (with -serve)
//	-port int         Web server listen port (with -serve)
//	-interval string  Sampling interval override (e.g. "1s", "500ms")
//	-config string    Path to configuration file
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/hwpulse/broadcast"
	appconfig "gitlab.com/tinyland/lab/hwpulse/config"
	"gitlab.com/tinyland/lab/hwpulse/display/tui"
	"gitlab.com/tinyland/lab/hwpulse/inventory"
	"gitlab.com/tinyland/lab/hwpulse/probes"
	"gitlab.com/tinyland/lab/hwpulse/probes/gpu"
	"gitlab.com/tinyland/lab/hwpulse/sampler"
	"gitlab.com/tinyland/lab/hwpulse/server"
	"gitlab.com/tinyland/lab/hwpulse/setupcheck"
)

func main() {
	var (
		configPath   = flag.String("config", "", "Path to configuration file")
		runMonitor   = flag.Bool("monitor", false, "Run the live terminal dashboard")
		runServe     = flag.Bool("serve", false, "Run the web server")
		runInventory = flag.Bool("inventory", false, "Export hardware inventory as JSON and exit")
		runCheck     = flag.Bool("check", false, "Run GPU environment setup checks and exit")
		outputPath   = flag.String("output", "", "Inventory output path (with -inventory)")
		noPrint      = flag.Bool("no-print", false, "Skip the console summary (with -inventory)")
		host         = flag.String("host", "", "Web server listen address (with -serve)")
		port         = flag.Int("port", 0, "Web server listen port (with -serve)")
		interval     = flag.String("interval", "", "Sampling interval override (e.g. \"1s\")")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion  = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("hwpulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := appconfig.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Apply CLI overrides before validation.
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *interval != "" {
		cfg.Monitor.Interval = *interval
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The terminal dashboard owns stdout, so monitor mode logs to the
	// configured file or not at all.
	logToFileOnly := *runMonitor
	logger, closeLogger := newLogger(cfg.LogFile, *verbose, logToFileOnly)
	defer closeLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	switch {
	case *runCheck:
		report := setupcheck.New(logger).Run(ctx)
		printSetupReport(report)
		if !report.AllPassed {
			os.Exit(1)
		}

	case *runInventory:
		probe := newProbe(ctx, cfg, logger)

		inv := probe.Inventory(ctx)

		path := cfg.Inventory.OutputPath
		if *outputPath != "" {
			path = *outputPath
		}
		if err := inventory.WriteFile(path, inv); err != nil {
			fmt.Fprintf(os.Stderr, "inventory export failed: %v\n", err)
			os.Exit(1)
		}

		if !*noPrint {
			fmt.Print(inventory.Summary(inv))
		}
		fmt.Fprintf(os.Stderr, "inventory written to %s\n", path)

	case *runServe:
		probe := newProbe(ctx, cfg, logger)
		hub := broadcast.NewHub(logger)

		s, err := newSampler(probe, hub, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sampler init failed: %v\n", err)
			os.Exit(1)
		}
		if err := s.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "sampler start failed: %v\n", err)
			os.Exit(1)
		}
		defer s.Stop()

		srv := server.New(probe, hub, setupcheck.New(logger), logger)
		addr := cfg.ListenAddr()
		fmt.Fprintf(os.Stderr, "hwpulse web server on http://%s\n", addr)
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}

	case *runMonitor:
		probe := newProbe(ctx, cfg, logger)
		hub := broadcast.NewHub(logger)

		s, err := newSampler(probe, hub, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sampler init failed: %v\n", err)
			os.Exit(1)
		}
		if err := s.Start(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "sampler start failed: %v\n", err)
			os.Exit(1)
		}
		defer s.Stop()

		if err := tui.Run(ctx, hub); err != nil {
			fmt.Fprintf(os.Stderr, "dashboard error: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Printf("hwpulse v%s (%s) built %s\n", version, commit, date)
		fmt.Println()
		fmt.Println("Usage: hwpulse [flags]")
		fmt.Println()
		flag.PrintDefaults()
	}
}

// newProbe builds the hardware probe, detecting a GPU backend unless GPU
// sampling is disabled by configuration.
func newProbe(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) *probes.SystemProbe {
	gpuProbe := gpu.None()
	if cfg.Probes.GPU {
		detectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		gpuProbe = detectGPU(detectCtx, cfg, logger)
	}
	logger.Info("gpu backend selected", "backend", gpuProbe.Name())
	return probes.New(gpuProbe, logger)
}

func detectGPU(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) gpu.Probe {
	if cfg.Probes.SMIBinary != "" {
		smi := gpu.NewSMIProbe(cfg.Probes.SMIBinary, logger)
		return smi
	}
	return gpu.Detect(ctx, logger)
}

func newSampler(probe *probes.SystemProbe, hub *broadcast.Hub, cfg *appconfig.Config, logger *slog.Logger) (*sampler.Sampler, error) {
	interval, err := cfg.MonitorInterval()
	if err != nil {
		return nil, err
	}
	return sampler.New(probe, hub, interval, logger)
}

// newLogger builds the process logger. With a log file configured, output
// goes there; otherwise stderr, or discard when stderr would corrupt the
// terminal dashboard.
func newLogger(logFile string, verbose, fileOnly bool) (*slog.Logger, func()) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }
			}
		}
		fmt.Fprintf(os.Stderr, "warning: cannot open log file %s, logging to stderr\n", logFile)
	}

	if fileOnly {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), func() {}
}
