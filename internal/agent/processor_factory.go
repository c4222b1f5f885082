package agent

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/feichai0017/notebook-publisher/config"
	"github.com/feichai0017/notebook-publisher/internal/agent/converter"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

// ConverterFactory picks a converter by source file extension.
type ConverterFactory struct {
	converters []converter.Converter
	logger     logger.Logger
}

// NewConverterFactory registers the converters available to this build.
func NewConverterFactory(cfg config.ConverterConfig, log logger.Logger) *ConverterFactory {
	return NewConverterFactoryWith(log, converter.NewNBConvert(cfg.Command, cfg.Timeout, log.Named("nbconvert")))
}

// NewConverterFactoryWith registers the given converters in lookup order.
func NewConverterFactoryWith(log logger.Logger, converters ...converter.Converter) *ConverterFactory {
	return &ConverterFactory{
		converters: converters,
		logger:     log,
	}
}

// GetConverter returns the first converter that accepts the extension of path.
func (f *ConverterFactory) GetConverter(path string) (converter.Converter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range f.converters {
		if c.CanConvert(ext) {
			return c, nil
		}
	}
	f.logger.Error("Unsupported file type",
		logger.String("path", path),
		logger.String("ext", ext),
	)
	return nil, fmt.Errorf("no converter for file type %q", ext)
}
