// Command attrctl inspects attribute presets and manages their storage.
//
// Usage:
//
//	attrctl [-config path] list
//	attrctl [-config path] show <preset> [-mod Tag:Type:Value ...] [-set Tag=Value ...] [-fill Tag ...]
//	attrctl [-config path] import <dir>     # copy YAML presets into the configured database
//	attrctl [-config path] migrate          # apply database migrations
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/gameattr/internal/config"
)

const DefaultConfigPath = "config/gameattr.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("attrctl", flag.ContinueOnError)
	cfgPath := fs.String("config", DefaultConfigPath, "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if p := os.Getenv("GAMEATTR_CONFIG"); p != "" && *cfgPath == DefaultConfigPath {
		*cfgPath = p
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(out)
		return nil
	}

	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "list":
		return runList(ctx, cfg, out)
	case "show":
		return runShow(ctx, cfg, cmdArgs, out)
	case "import":
		return runImport(ctx, cfg, cmdArgs, out)
	case "migrate":
		return runMigrate(ctx, cfg)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(out)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: attrctl [-config path] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                 list presets from the configured source")
	fmt.Fprintln(w, "  show <preset> ...    print attribute values, optionally with modifiers")
	fmt.Fprintln(w, "  import <dir>         save YAML presets into the configured database")
	fmt.Fprintln(w, "  migrate              apply database migrations")
}

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
