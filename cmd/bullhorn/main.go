package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"bullhorn/internal/banner"
	"bullhorn/internal/config"
	"bullhorn/internal/dispatch"
	"bullhorn/internal/domain"
	"bullhorn/internal/gateway"
	"bullhorn/internal/market"
	"bullhorn/internal/tooling"
	"bullhorn/internal/webscrape"
)

// version is injectable via ldflags.
var version = "0.1.0"

// defaultConfigPath is used when --config is not given; a missing file at
// this path falls back to built-in defaults instead of failing.
const defaultConfigPath = "bullhorn.json"

// daemonShutdownCh, when non-nil, lets tests stop the serve loop without OS signals.
var daemonShutdownCh <-chan struct{}

// buildMeta holds version and build metadata.
type buildMeta struct {
	Version string
	GoOS    string
	GoArch  string
}

func newBuildMeta(version, goos, goarch string) buildMeta {
	if goos == "" {
		goos = runtime.GOOS
	}
	if goarch == "" {
		goarch = runtime.GOARCH
	}
	return buildMeta{Version: version, GoOS: goos, GoArch: goarch}
}

func (m buildMeta) String() string {
	return fmt.Sprintf("bullhorn %s %s/%s", m.Version, m.GoOS, m.GoArch)
}

func newRootCommand(bm buildMeta) *cobra.Command {
	root := &cobra.Command{
		Use:   "bullhorn",
		Short: "Market tool server",
		Long:  "Bullhorn advertises schema-described market tools and routes calls to scraping backends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion, _ := cmd.Flags().GetBool("version"); showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), bm.String())
				return nil
			}
			return runServe(cmd)
		},
	}
	root.Flags().BoolP("version", "V", false, "print version and build metadata")
	root.PersistentFlags().String("config", "", "path to config file (JSON or YAML)")

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the advertised tool descriptors as JSON",
		RunE:  runTools,
	}
	root.AddCommand(toolsCmd)

	callCmd := &cobra.Command{
		Use:   "call NAME",
		Short: "Invoke a tool once and print its text result",
		Args:  cobra.ExactArgs(1),
		RunE:  runCall,
	}
	callCmd.Flags().String("args", "{}", "tool arguments as a JSON object")
	root.AddCommand(callCmd)

	return root
}

// loadConfigFromFlags resolves the --config flag. An explicit path must
// load; the default path may be absent.
func loadConfigFromFlags(cmd *cobra.Command) (*domain.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg domain.InfraConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// buildService wires the registry, collaborators, and dispatcher once at
// process start. The collaborator handles are reused for the process
// lifetime (connection reuse, not a correctness requirement).
func buildService(cfg *domain.Config, logger *slog.Logger) *dispatch.Dispatcher {
	registry := tooling.DefaultRegistry()
	marketScraper := market.New(cfg.Market, market.WithLogger(logger))
	webScraper := webscrape.New(webscrape.NewHTTPFetcher(cfg.Scrape))
	return dispatch.New(registry, marketScraper, webScraper, dispatch.WithLogger(logger))
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Infra)
	svc := buildService(cfg, logger)

	server, err := gateway.NewServer(&cfg.Gateway, svc)
	if err != nil {
		return err
	}

	banner.Startup(version, nil)

	shutdown := daemonShutdownCh
	if shutdown == nil {
		ch := make(chan struct{})
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			close(ch)
		}()
		shutdown = ch
	}

	logger.Info("gateway starting", "port", cfg.Gateway.Port)
	if err := server.Run(shutdown); err != nil {
		return err
	}
	logger.Info("gateway stopped")
	return nil
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	svc := buildService(cfg, newLogger(cfg.Infra))
	data, err := json.MarshalIndent(svc.Definitions(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runCall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	rawArgs, _ := cmd.Flags().GetString("args")
	var toolArgs map[string]any
	if err := json.Unmarshal([]byte(rawArgs), &toolArgs); err != nil {
		return fmt.Errorf("--args must be a JSON object: %w", err)
	}

	svc := buildService(cfg, newLogger(cfg.Infra))
	text, err := svc.Dispatch(context.Background(), args[0], toolArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runApp(args []string) int {
	root := newRootCommand(newBuildMeta(version, "", ""))
	root.SetArgs(args[1:])
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
