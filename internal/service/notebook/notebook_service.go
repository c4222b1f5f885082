package notebook

import (
	"context"

	"github.com/feichai0017/notebook-publisher/internal/agent/converter"
	"github.com/feichai0017/notebook-publisher/internal/models"
)

// NotebookProcessor is the publishing pipeline as seen by the CLI.
type NotebookProcessor interface {
	Convert(ctx context.Context, req ConvertRequest) (*models.ConversionResult, error)
	Validate(path string) (*models.ValidationResult, error)
}

// ConvertRequest names one notebook to publish.
type ConvertRequest struct {
	NotebookPath string
	// OutputPath defaults to the notebook path with a .md extension.
	OutputPath string
	// KeyPrefix is prepended to each image file name to build its remote key.
	KeyPrefix string
}

// MetadataValidator checks a notebook's front matter.
type MetadataValidator interface {
	Validate(path string) (*models.ValidationResult, error)
}

// ConverterProvider picks the converter for a source path.
type ConverterProvider interface {
	GetConverter(path string) (converter.Converter, error)
}
