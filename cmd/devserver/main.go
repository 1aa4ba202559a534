// Command devserver serves the posts API over plain HTTP for local
// development. It reads a .env file from the working directory when present.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/app"
	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/config"
	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/logging"
	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

type CLI struct {
	config.Config `embed:""`

	Addr           string   `name:"addr" env:"DEVSERVER_ADDR" default:":8080" help:"Listen address."`
	EnvFile        string   `name:"env-file" default:".env" help:"Environment file loaded before parsing."`
	AllowedOrigins []string `name:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" sep:"," help:"Origins allowed by CORS. Empty allows all."`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := loadEnvFile(envFileFromArgs(args)); err != nil {
		return err
	}

	var cli CLI

	parser, err := kong.New(&cli, kong.Name("devserver"), kong.Description("Local HTTP server for the posts API."))
	if err != nil {
		return fmt.Errorf("initialize command parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if err := cli.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewStderr(cli.Log.Level, cli.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, &cli.Config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Errorf("Failed to close resources: %s", err)
		}
	}()

	if cli.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Addr:              cli.Addr,
		Handler:           newRouter(a.Handler, cli.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Infof("Listening on %s", cli.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// envFileFromArgs finds --env-file before kong runs, since the file must be
// loaded before environment defaults are resolved.
func envFileFromArgs(args []string) string {
	for i, arg := range args {
		if v, ok := cutFlag(arg, "--env-file"); ok {
			if v != "" {
				return v
			}

			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}

	return ".env"
}

func cutFlag(arg, name string) (string, bool) {
	if arg == name {
		return "", true
	}

	if len(arg) > len(name) && arg[:len(name)+1] == name+"=" {
		return arg[len(name)+1:], true
	}

	return "", false
}

// loadEnvFile loads path without overriding variables that are already set.
// A missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return nil
}
