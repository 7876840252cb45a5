/*
routeupload sends a sheet of stops to a route server and prints the route it answers with.

Usage:

	routeupload serve  [-config path] [-env path]
	routeupload submit [-config path] [-env path] [-server url] -file path
	routeupload prompt [-config path] [-env path] [-server url]

serve runs the development route server and upload page. submit uploads one file.
prompt reads one file path per line from stdin and uploads each; a blank line submits
with no file.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"routeupload/internal/audit"
	"routeupload/internal/config"
	"routeupload/internal/console"
	"routeupload/internal/devserver"
	"routeupload/internal/upload"
)

var (
	errUsage            = errors.New("usage: routeupload serve|submit|prompt [flags]")
	errSubmissionFailed = errors.New("submission failed")
)

type options struct {
	configPath string
	envPath    string
	serverURL  string
	filePath   string
}

func main() {
	err := run(os.Args[1:])

	switch {
	case err == nil:
	case errors.Is(err, errSubmissionFailed):
		os.Exit(1)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		log.Fatal().Err(err).Msg("routeupload failed")
	}
}

func run(args []string) error {
	audit.SetDefaultLogger()

	if len(args) == 0 {
		return errUsage
	}

	cmd, opts, err := parseArgs(args[0], args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath, opts.envPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.serverURL != "" {
		cfg.Client.BaseURL = opts.serverURL
	}

	if err := audit.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		return serve(ctx, cfg)
	case "submit":
		return submit(ctx, cfg, opts.filePath)
	default:
		return prompt(ctx, cfg)
	}
}

func parseArgs(cmd string, args []string) (string, options, error) {
	var opts options

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)

	configDefault := config.DefaultPath
	if v := os.Getenv("ROUTEUPLOAD_CONFIG"); v != "" {
		configDefault = v
	}

	fs.StringVar(&opts.configPath, "config", configDefault, "Path to the YAML configuration file")
	fs.StringVar(&opts.envPath, "env", ".env", "Path to a .env file")

	switch cmd {
	case "serve":
	case "submit":
		fs.StringVar(&opts.serverURL, "server", "", "Route server base URL (overrides client.baseUrl)")
		fs.StringVar(&opts.filePath, "file", "", "File to upload; empty submits without a file")
	case "prompt":
		fs.StringVar(&opts.serverURL, "server", "", "Route server base URL (overrides client.baseUrl)")
	default:
		return "", opts, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if err := fs.Parse(args); err != nil {
		return "", opts, err
	}

	return cmd, opts, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	ln, err := devserver.Listen(ctx, cfg)
	if err != nil {
		return err
	}

	if err := devserver.New(cfg).Run(ctx, ln); err != nil {
		return err
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}

func newClient(cfg *config.Config) (*upload.Client, error) {
	client, err := upload.NewClient(cfg.Client.BaseURL, upload.WithTimeout(cfg.Client.Timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload client: %w", err)
	}

	return client, nil
}

func submit(ctx context.Context, cfg *config.Config, path string) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	h := upload.New(console.NewPathInput(path), console.NewDisplay(os.Stdout), client)

	if outcome := h.Submit(ctx, &console.Event{}); outcome.Kind == upload.OutcomeError {
		return errSubmissionFailed
	}

	return nil
}

func prompt(ctx context.Context, cfg *config.Config) error {
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	input := console.NewPathInput("")
	form := console.NewLineForm(os.Stdin, input)
	h := upload.Attach(form, input, console.NewDisplay(os.Stdout), client, upload.WithContext(ctx))

	err = form.Run(ctx)

	h.Wait()

	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}
