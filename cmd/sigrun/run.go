package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AnatoleLucet/signalctx/jsbind"
	"github.com/AnatoleLucet/signalctx/telemetry"
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"github.com/joeycumines/stumpy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func runCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		equality   string
		metrics    bool
		namespace  string
		trace      bool
	)

	cmd := &cobra.Command{
		Use:   "run <script.js>",
		Short: "Run a script",
		Long: `Run a JavaScript file. The value of its last expression is printed
as JSON. Flags override values from the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("equality") {
				cfg.Equality = equality
			}
			if flags.Changed("metrics") {
				cfg.Metrics = metrics
			}
			if flags.Changed("namespace") {
				cfg.Namespace = namespace
			}
			if flags.Changed("trace") {
				cfg.Trace = trace
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			return runScript(cfg, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "warning", "Log level (error, warning, info, debug, trace, off)")
	cmd.Flags().StringVar(&equality, "equality", "deep", "Default signal equality (deep, strict)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print Prometheus metrics after the run")
	cmd.Flags().StringVar(&namespace, "namespace", "signalctx", "Metrics namespace")
	cmd.Flags().BoolVar(&trace, "trace", false, "Write transaction spans as JSON to stderr")

	return cmd
}

func runScript(cfg Config, path string, stdout, stderr io.Writer) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}
	mode, err := cfg.equality()
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(stderr)),
		stumpy.L.WithLevel(level),
	).Logger()

	opts := []jsbind.Option{
		jsbind.WithLogger(logger),
		jsbind.WithEquality(mode),
	}

	var registry *prometheus.Registry
	if cfg.Metrics {
		registry = prometheus.NewRegistry()
		opts = append(opts, jsbind.WithObserver(telemetry.Prometheus(
			telemetry.WithRegistry(registry),
			telemetry.WithNamespace(cfg.Namespace),
		)))
	}
	if cfg.Trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(stderr))
		if err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
		provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer func() { _ = provider.Shutdown(context.Background()) }()

		opts = append(opts, jsbind.WithObserver(telemetry.OpenTelemetry(
			telemetry.WithTracerProvider(provider),
		)))
	}

	runtime := goja.New()
	m, err := jsbind.New(runtime, opts...)
	if err != nil {
		return err
	}
	defer m.Close()

	modules := require.NewRegistry()
	modules.RegisterNativeModule("signal", m.Loader())
	modules.Enable(runtime)
	console.Enable(runtime)

	result, err := runtime.RunScript(path, string(src))
	if err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}

	if err := printResult(runtime, result, stdout); err != nil {
		return err
	}

	if registry != nil {
		families, err := registry.Gather()
		if err != nil {
			return fmt.Errorf("gather metrics: %w", err)
		}
		for _, family := range families {
			if _, err := expfmt.MetricFamilyToText(stdout, family); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
	}

	return nil
}

// printResult writes the script's completion value as JSON.
func printResult(runtime *goja.Runtime, result goja.Value, w io.Writer) error {
	if result == nil || goja.IsUndefined(result) {
		return nil
	}

	stringify, ok := goja.AssertFunction(runtime.Get("JSON").ToObject(runtime).Get("stringify"))
	if !ok {
		return errors.New("JSON.stringify is not callable")
	}
	out, err := stringify(goja.Undefined(), result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if goja.IsUndefined(out) {
		return nil
	}

	_, err = fmt.Fprintln(w, out.String())
	return err
}
