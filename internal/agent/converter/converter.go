package converter

import (
	"context"
)

// Converter turns a source document into markdown.
type Converter interface {
	// CanConvert reports whether the converter handles files with ext (".ipynb").
	CanConvert(ext string) bool

	// Convert writes <outputName>.md and <outputName>_files/ into outputDir
	// and returns the markdown text.
	Convert(ctx context.Context, sourcePath, outputDir, outputName string) (string, error)
}
