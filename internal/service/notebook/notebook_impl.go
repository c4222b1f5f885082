package notebook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feichai0017/notebook-publisher/config"
	"github.com/feichai0017/notebook-publisher/internal/agent"
	"github.com/feichai0017/notebook-publisher/internal/models"
	"github.com/feichai0017/notebook-publisher/internal/utils/validator"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
	"github.com/feichai0017/notebook-publisher/pkg/storage"
)

type NotebookService struct {
	validator  MetadataValidator
	converters ConverterProvider
	store      ImageStore
	logger     logger.Logger
	config     ServiceConfig
	removeAll  func(path string) error
}

type ServiceConfig struct {
	WorkingDirectory string
	OutputNamePrefix string
	BaseDirectory    string
	ValidityCheck    bool
}

// ServiceConfigFrom copies the pipeline settings out of the run configuration.
func ServiceConfigFrom(cfg config.Config) ServiceConfig {
	return ServiceConfig{
		WorkingDirectory: cfg.WorkingDirectory,
		OutputNamePrefix: cfg.OutputNamePrefix,
		BaseDirectory:    cfg.BaseDirectory,
		ValidityCheck:    cfg.ValidityCheck,
	}
}

func NewService(
	v MetadataValidator,
	converters ConverterProvider,
	store ImageStore,
	log logger.Logger,
	cfg ServiceConfig,
) *NotebookService {
	return &NotebookService{
		validator:  v,
		converters: converters,
		store:      store,
		logger:     log,
		config:     cfg,
		removeAll:  os.RemoveAll,
	}
}

// GetService wires the production collaborators from cfg.
func GetService(ctx context.Context, cfg config.Config, log logger.Logger) (*NotebookService, error) {
	store, err := storage.NewStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewService(
		validator.NewNotebookValidator(log.Named("validator")),
		agent.NewConverterFactory(cfg.Converter, log),
		store,
		log.Named("pipeline"),
		ServiceConfigFrom(cfg),
	), nil
}

// DefaultOutputPath is the notebook base name with a .md extension, relative
// to the current directory.
func DefaultOutputPath(notebookPath string) string {
	name := filepath.Base(notebookPath)
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".md"
}

// Validate runs the metadata checks only.
func (s *NotebookService) Validate(path string) (*models.ValidationResult, error) {
	return s.validator.Validate(path)
}

// Convert publishes one notebook: validate, convert, upload images, rewrite
// links and write the markdown. The working directory is removed on every
// exit path.
func (s *NotebookService) Convert(ctx context.Context, req ConvertRequest) (*models.ConversionResult, error) {
	if req.OutputPath == "" {
		req.OutputPath = DefaultOutputPath(req.NotebookPath)
	}
	result := &models.ConversionResult{
		RunID:        uuid.NewString(),
		NotebookPath: req.NotebookPath,
		OutputPath:   req.OutputPath,
		StartedAt:    time.Now(),
	}
	log := s.logger.With(
		logger.String("run_id", result.RunID),
		logger.String("notebook", req.NotebookPath),
	)

	err := s.run(ctx, req, result, log)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Warn("Notebook rejected", logger.String("reason", verr.Reason))
		} else {
			log.Error("Notebook conversion failed", logger.Error(err))
		}
		return nil, err
	}

	result.FinishedAt = time.Now()
	log.Info("Notebook converted",
		logger.String("output", result.OutputPath),
		logger.Int("images", len(result.References)),
		logger.Int("uploaded", len(result.Uploads)),
		logger.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

func (s *NotebookService) run(ctx context.Context, req ConvertRequest, result *models.ConversionResult, log logger.Logger) (err error) {
	if s.config.ValidityCheck {
		v, err := s.validator.Validate(req.NotebookPath)
		if err != nil {
			return fmt.Errorf("failed to validate notebook: %w", err)
		}
		if !v.OK() {
			return &ValidationError{Path: req.NotebookPath, Reason: v.Reason}
		}
		result.Metadata = v.Metadata
		for key, value := range v.Metadata {
			log.Debug("Front matter", logger.String("key", key), logger.String("value", value))
		}
	} else {
		log.Debug("Validity check disabled")
	}

	conv, err := s.converters.GetConverter(req.NotebookPath)
	if err != nil {
		return &ConversionError{Path: req.NotebookPath, Err: err}
	}

	workDir := s.config.WorkingDirectory
	release, err := acquireWorkDir(workDir, s.removeAll)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := release(); cerr != nil {
			log.Error("Failed to remove working directory",
				logger.String("dir", workDir),
				logger.Error(cerr),
			)
			err = errors.Join(err, fmt.Errorf("failed to remove working directory: %w", cerr))
		}
	}()

	markdown, err := conv.Convert(ctx, req.NotebookPath, workDir, s.config.OutputNamePrefix)
	if err != nil {
		return &ConversionError{Path: req.NotebookPath, Err: err}
	}

	result.References = ScanImages(markdown, s.config.OutputNamePrefix)
	log.Info("Image references found", logger.Int("count", len(result.References)))

	result.Uploads, err = UploadImages(ctx, s.store, result.References, UploadOptions{
		WorkingDirectory: workDir,
		BaseDirectory:    s.config.BaseDirectory,
		KeyPrefix:        req.KeyPrefix,
	}, log)
	if err != nil {
		return err
	}

	markdown = Rewrite(markdown, result.References, result.Uploads)

	if dir := filepath.Dir(req.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(req.OutputPath, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// acquireWorkDir creates dir and returns a func that removes it. An existing
// directory is refused since removing it later could destroy files this run
// does not own.
func acquireWorkDir(dir string, removeAll func(string) error) (func() error, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("working directory %s already exists", dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to inspect working directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	return func() error { return removeAll(dir) }, nil
}
