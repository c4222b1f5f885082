package notebook

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feichai0017/notebook-publisher/internal/agent/converter"
)

type uploadCall struct {
	localPath string
	key       string
	public    bool
}

// fakeStore records uploads and serves everything from a fixed base URL.
type fakeStore struct {
	calls []uploadCall
	err   error
}

func (f *fakeStore) Upload(ctx context.Context, localPath, key string, public bool) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, uploadCall{localPath: localPath, key: key, public: public})
	return "https://bucket.example/" + key, nil
}

// fakeConverter writes markdown and generated files like nbconvert would.
type fakeConverter struct {
	markdown  string
	generated []string
	err       error
	seenDir   string
}

func (f *fakeConverter) CanConvert(ext string) bool { return ext == ".ipynb" }

func (f *fakeConverter) Convert(ctx context.Context, sourcePath, outputDir, outputName string) (string, error) {
	f.seenDir = outputDir
	if f.err != nil {
		return "", f.err
	}
	for _, name := range f.generated {
		path := filepath.Join(outputDir, outputName+"_files", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(filepath.Join(outputDir, outputName+".md"), []byte(f.markdown), 0o644); err != nil {
		return "", err
	}
	return f.markdown, nil
}

type fakeProvider struct {
	conv converter.Converter
}

func (p fakeProvider) GetConverter(path string) (converter.Converter, error) {
	if !strings.HasSuffix(path, ".ipynb") {
		return nil, errors.New("no converter")
	}
	return p.conv, nil
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
}

func writeNotebook(t *testing.T, dir string, frontMatter ...string) string {
	t.Helper()
	source := append([]string{"---\n"}, frontMatter...)
	source = append(source, "---")
	data, err := json.Marshal(map[string]any{
		"cells": []map[string]any{
			{"cell_type": "raw", "source": source},
			{"cell_type": "markdown", "source": []string{"![x](diagram.png)"}},
		},
		"nbformat": 4,
	})
	require.NoError(t, err)
	path := filepath.Join(dir, "post.ipynb")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
