// myq controls garage doors and lights on a myQ account from the command
// line.
//
// Usage:
//
//	myq [flags] <command> [serial]
//
// Credentials come from flags, the config file or MYQ_EMAIL and
// MYQ_PASSWORD. Without a password the command prompts for one.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"

	myq "github.com/thomasmunduchira/myq-api"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	config       string
	email        string
	passwordFile string
	logLevel     string
	json         bool
	wait         bool
	interval     time.Duration
	help         bool
}

func newFlagSet(f *flags) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("myq", pflag.ContinueOnError)
	flagSet.StringVarP(&f.config, "config", "c", "", "path to YAML config file")
	flagSet.StringVar(&f.email, "email", "", "account email (overrides MYQ_EMAIL)")
	flagSet.StringVar(&f.passwordFile, "password-file", "", "read the password from this file")
	flagSet.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flagSet.BoolVar(&f.json, "json", false, "print results as JSON")
	flagSet.BoolVarP(&f.wait, "wait", "w", false, "after open or close, poll until the door settles")
	flagSet.DurationVar(&f.interval, "interval", 0, "polling interval for --wait")
	flagSet.BoolVarP(&f.help, "help", "h", false, "show help")
	return flagSet
}

func run(args []string) error {
	var f flags
	flagSet := newFlagSet(&f)
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(os.Stderr, flagSet)
			return nil
		}
		return err
	}
	if f.help || flagSet.NArg() == 0 {
		printHelp(os.Stderr, flagSet)
		return nil
	}

	name := flagSet.Arg(0)
	if _, ok := lookupCommand(name); !ok {
		return fmt.Errorf("unknown command %q (see --help)", name)
	}

	cfg, err := Load(f.config)
	if err != nil {
		return err
	}
	applyFlags(cfg, flagSet, &f)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	level, _ := cfg.Level()
	logger := newLogger(os.Stderr, level)

	password, err := resolvePassword(cfg, os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := newClient(cfg, logger, level)
	if _, err := client.Login(ctx, cfg.Email, password); err != nil {
		return err
	}

	r := &runner{
		api:         client,
		out:         os.Stdout,
		json:        f.json,
		wait:        f.wait,
		interval:    cfg.Wait.Interval,
		waitTimeout: cfg.Wait.Timeout,
	}
	return r.execute(ctx, name, flagSet.Args()[1:])
}

// applyFlags overlays explicitly set flags onto cfg.
func applyFlags(cfg *Config, flagSet *pflag.FlagSet, f *flags) {
	if flagSet.Changed("email") {
		cfg.Email = f.email
	}
	if flagSet.Changed("password-file") {
		cfg.PasswordFile = f.passwordFile
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flagSet.Changed("interval") {
		cfg.Wait.Interval = f.interval
	}
}

// newClient builds a client from cfg. At debug level the transport logs
// every round trip.
func newClient(cfg *Config, logger *slog.Logger, level slog.Level) *myq.Client {
	httpClient := &http.Client{}
	if level <= slog.LevelDebug {
		httpClient.Transport = &myq.LoggingTransport{Logger: logger}
	}

	opts := append([]myq.Option{myq.WithHTTPClient(httpClient)}, cfg.ClientOptions()...)
	opts = append(opts, myq.WithLogger(logger))
	return myq.NewClient(opts...)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "Control myQ garage doors and lights.\n\nUsage:\n  myq [flags] <command> [serial]\n\nCommands:\n")
	for _, c := range commands {
		usage := c.name
		if c.needsSerial {
			usage += " <serial>"
		}
		fmt.Fprintf(w, "  %-22s %s\n", usage, c.summary)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", flagSet.FlagUsages())
}
