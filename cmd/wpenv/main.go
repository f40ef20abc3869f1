package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/wpenv/internal/application"
	"github.com/eugenenazirov/wpenv/internal/config"
	"github.com/eugenenazirov/wpenv/internal/export"
	"github.com/eugenenazirov/wpenv/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "wpenv: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	app *kingpin.Application

	configFile  *string
	basePath    *string
	dotenvFiles *[]string
	logLevel    *string
	logFormat   *string

	print     *kingpin.CmdClause
	format    *string
	layout    *kingpin.CmdClause
	exec      *kingpin.CmdClause
	execArgs  *[]string
	serve     *kingpin.CmdClause
	port      *string
	rateRPS   *float64
	rateBurst *int
}

func newCLI(stdout, stderr io.Writer) *cli {
	app := kingpin.New("wpenv", "Resolve WordPress constants from the environment and .env files")
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)

	c := &cli{app: app}
	c.configFile = app.Flag("config", "Path to YAML configuration file").String()
	c.basePath = app.Flag("base-path", "WordPress installation base path").Short('b').String()
	c.dotenvFiles = app.Flag("env-file", "Dotenv file relative to the base path (repeatable, first wins)").Strings()
	c.logLevel = app.Flag("log-level", "Log level (debug, info, warn, error)").String()
	c.logFormat = app.Flag("log-format", "Log encoding (json, console)").String()

	c.print = app.Command("print", "Print the resolved constants").Default()
	c.format = c.print.Flag("format", "Output format").Short('f').Default(string(export.PHP)).
		Enum(string(export.PHP), string(export.Dotenv), string(export.JSON), string(export.YAML))

	c.layout = app.Command("layout", "Print the detected installation layout")

	c.exec = app.Command("exec", "Run a command with dotenv values exported into its environment")
	c.execArgs = c.exec.Arg("command", "Command and arguments").Required().Strings()

	c.serve = app.Command("serve", "Serve the resolved constants over HTTP")
	c.port = c.serve.Flag("port", "HTTP port exposed by the service").String()
	c.rateRPS = c.serve.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	c.rateBurst = c.serve.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	return c
}

func (c *cli) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile:  *c.configFile,
		DotenvFiles: *c.dotenvFiles,
	}
	if *c.basePath != "" {
		overrides.BasePath = c.basePath
	}
	if *c.logLevel != "" {
		overrides.LogLevel = c.logLevel
	}
	if *c.logFormat != "" {
		overrides.LogFormat = c.logFormat
	}
	if *c.port != "" {
		overrides.Port = c.port
	}
	if *c.rateRPS >= 0 {
		overrides.RateLimitRPS = c.rateRPS
	}
	if *c.rateBurst >= 0 {
		overrides.RateLimitBurst = c.rateBurst
	}
	return overrides
}

// run parses args and executes the selected command. Command output goes to
// stdout and diagnostics to stderr; environ is the process environment the
// configuration pass reads from.
func run(args []string, stdout, stderr io.Writer, environ []string) error {
	c := newCLI(stdout, stderr)
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.overrides())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case c.serve.FullCommand():
		return serve(cfg, logger, environ)
	case c.exec.FullCommand():
		return execCommand(cfg, logger, environ, *c.execArgs, stdout, stderr)
	}

	result, err := application.Configure(cfg, logger, environ)
	if err != nil {
		return err
	}

	switch command {
	case c.layout.FullCommand():
		_, err = fmt.Fprintln(stdout, result.Layout)
		return err
	default:
		return export.Render(stdout, export.Format(*c.format), result.Registry.Snapshot())
	}
}

func execCommand(cfg config.Config, logger *zap.Logger, environ []string, argv []string, stdout, stderr io.Writer) error {
	result, err := application.Configure(cfg, logger, environ)
	if err != nil {
		return err
	}

	childEnv := append([]string{}, environ...)
	err = result.Source.Export(func(key, value string) error {
		childEnv = append(childEnv, key+"="+value)
		return nil
	})
	if err != nil {
		return fmt.Errorf("export environment: %w", err)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = childEnv
	cmd.Dir = result.BasePath
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug("running command", zap.Strings("argv", argv))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

func serve(cfg config.Config, logger *zap.Logger, environ []string) error {
	app, err := application.New(cfg, logger, environ)
	if err != nil {
		return err
	}

	if err := app.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
