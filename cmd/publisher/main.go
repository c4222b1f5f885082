// Command publisher converts an annotated Jupyter notebook into markdown,
// moves its images to object storage and rewrites the image links.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/feichai0017/notebook-publisher/config"
	"github.com/feichai0017/notebook-publisher/internal/service/notebook"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
	"github.com/feichai0017/notebook-publisher/pkg/storage"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries what every subcommand needs once the config is loaded.
type app struct {
	stdout io.Writer
	cfg    config.Config
	log    logger.Logger

	newService func(ctx context.Context, cfg config.Config, log logger.Logger) (notebook.NotebookProcessor, error)
	newStorage func(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (storage.Storage, error)
}

func defaultApp(stdout io.Writer) *app {
	return &app{
		stdout: stdout,
		newService: func(ctx context.Context, cfg config.Config, log logger.Logger) (notebook.NotebookProcessor, error) {
			svc, err := notebook.GetService(ctx, cfg, log)
			if err != nil {
				return nil, err
			}
			return svc, nil
		},
		newStorage: storage.NewStorage,
	}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		cfgFile  string
		envFile  string
		logLevel string
	)

	root := &cobra.Command{
		Use:           "publisher",
		Short:         "Publish Jupyter notebooks as markdown with images on object storage",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, optional := cfgFile, false
			if path == "" {
				path, optional = config.DefaultPath, true
			}
			cfg, err := config.Load(path, optional, envFile)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			log, err := logger.NewLogger(logger.WithConfig(cfg.Log))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg = cfg
			a.log = log
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./"+config.DefaultPath+" when present)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with storage credentials")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newConvertCmd(a),
		newValidateCmd(a),
		newListCmd(a),
		newPruneCmd(a),
		newMoveCmd(a),
		newGetCmd(a),
	)
	return root
}

func run(ctx context.Context, a *app, args []string, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

// Exit codes by failure category.
const (
	exitOK = iota
	exitFailure
	exitValidation
	exitConversion
	exitMissingAsset
	exitUpload
	exitKeyCollision
)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var (
		verr *notebook.ValidationError
		cerr *notebook.ConversionError
		merr *notebook.MissingAssetError
		uerr *notebook.UploadError
		kerr *notebook.KeyCollisionError
	)
	switch {
	case errors.As(err, &verr):
		return exitValidation
	case errors.As(err, &cerr):
		return exitConversion
	case errors.As(err, &merr):
		return exitMissingAsset
	case errors.As(err, &uerr):
		return exitUpload
	case errors.As(err, &kerr):
		return exitKeyCollision
	default:
		return exitFailure
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, defaultApp(os.Stdout), os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
