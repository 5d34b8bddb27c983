package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/arena/internal/config"
	"github.com/udisondev/arena/internal/data"
	"github.com/udisondev/arena/internal/game/combat"
)

const usage = `usage: arena [-config path] <command> [flags]

commands:
  duel     resolve one duel between two profiles from the profiles file
  sim      run a batch of seeded duels and print win rates
  stats    print the derived stat record of a profile
  upgrade  attempt an equipment upgrade on a profile
  import   copy the profiles file into the database
  match    play a duel between stored profiles and persist the report
  migrate  run database migrations (up, down, status, ...)
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// env is what every command gets: resolved config and rule tables.
type env struct {
	cfg      config.Arena
	tables   *data.BalanceTables
	resolver *combat.Resolver
	out      io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	root := flag.NewFlagSet("arena", flag.ContinueOnError)
	root.SetOutput(io.Discard)
	cfgPath := root.String("config", "", "config file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath+")")
	if err := root.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if root.NArg() == 0 {
		return errUsage
	}

	// Load config FIRST to determine log level
	path := config.ResolvePath(*cfgPath)
	cfg, err := config.LoadArena(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Debug("config loaded", "path", path, "log_level", cfg.LogLevel)

	tables, err := data.LoadBalance(cfg.BalancePath)
	if err != nil {
		return fmt.Errorf("loading balance tables: %w", err)
	}
	resolver, err := combat.New(cfg.Combat)
	if err != nil {
		return fmt.Errorf("creating resolver: %w", err)
	}

	e := &env{cfg: cfg, tables: tables, resolver: resolver, out: out}

	cmd, rest := root.Arg(0), root.Args()[1:]
	switch cmd {
	case "duel":
		return e.duel(ctx, rest)
	case "sim":
		return e.sim(ctx, rest)
	case "stats":
		return e.stats(ctx, rest)
	case "upgrade":
		return e.upgrade(ctx, rest)
	case "import":
		return e.importProfiles(ctx, rest)
	case "match":
		return e.match(ctx, rest)
	case "migrate":
		return e.migrate(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
