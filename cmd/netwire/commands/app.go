package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/netwire/internal/bytesize"
	"github.com/marmos91/netwire/internal/cli/output"
	"github.com/marmos91/netwire/internal/logger"
	"github.com/marmos91/netwire/internal/telemetry"
	"github.com/marmos91/netwire/pkg/config"
	"github.com/marmos91/netwire/pkg/inspect"
	"github.com/marmos91/netwire/pkg/metrics"
	promMetrics "github.com/marmos91/netwire/pkg/metrics/prometheus"
	"github.com/marmos91/netwire/pkg/wire"
)

// appState is what a command needs after configuration is loaded.
type appState struct {
	cfg          *config.Config
	printer      *output.Printer
	charset      wire.Charset
	codecMetrics metrics.CodecMetrics
	printMetrics bool
	shutdown     []func() error
}

var app appState

// setup loads configuration, applies flag overrides and starts logging,
// tracing, profiling and metrics.
func (a *appState) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	noColor, _ := flags.GetBool("no-color")
	a.printer = output.NewPrinter(cmd.OutOrStdout(), format, !noColor && os.Getenv("NO_COLOR") == "")

	a.charset, err = wire.ParseCharset(cfg.Decoder.Charset)
	if err != nil {
		return err
	}

	if err := a.startTelemetry(cmd.Context(), cfg); err != nil {
		return err
	}

	a.printMetrics, _ = flags.GetBool("metrics")
	if cfg.Metrics.Enabled || a.printMetrics {
		metrics.InitRegistry()
		a.codecMetrics = promMetrics.NewCodecMetrics()
	}

	a.cfg = cfg
	logger.Debug("Configuration loaded",
		logger.Path(configSource(configPath)),
		"max_packet_size", cfg.Decoder.MaxPacketSize.String(),
		logger.Charset(cfg.Decoder.Charset),
	)
	return nil
}

func (a *appState) startTelemetry(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "netwire",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a.shutdown = append(a.shutdown, func() error {
		return telemetryShutdown(context.Background())
	})

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "netwire",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	a.shutdown = append(a.shutdown, profilingShutdown)

	if telemetry.IsEnabled() {
		logger.Debug("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Debug("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	}
	return nil
}

// close flushes spans, stops profiling and prints metrics when asked to.
// It is safe to call more than once.
func (a *appState) close(stderr io.Writer) {
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](); err != nil {
			logger.Error("shutdown error", logger.Err(err))
		}
	}
	a.shutdown = nil

	if a.printMetrics {
		if err := metrics.WriteText(stderr); err != nil {
			logger.Error("failed to write metrics", logger.Err(err))
		}
		a.printMetrics = false
	}
}

// newInspector builds an Inspector from the loaded configuration.
func (a *appState) newInspector(verify bool) *inspect.Inspector {
	return inspect.New(inspect.Options{
		MaxPacketSize:   a.cfg.Decoder.MaxPacketSize.Int(),
		VerifyRoundTrip: verify,
		Charset:         a.charset,
		Metrics:         a.codecMetrics,
	})
}

// commandContext bounds a command by decoder.timeout.
func (a *appState) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.cfg.Decoder.Timeout)
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format, _ = flags.GetString("output")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("charset") {
		cfg.Decoder.Charset, _ = flags.GetString("charset")
	}
	if flags.Changed("max-size") {
		s, _ := flags.GetString("max-size")
		size, err := bytesize.ParseByteSize(s)
		if err != nil {
			return fmt.Errorf("invalid --max-size: %w", err)
		}
		cfg.Decoder.MaxPacketSize = size
	}
	config.ApplyDefaults(cfg)
	return nil
}

func configSource(path string) string {
	if path != "" {
		return path
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}
