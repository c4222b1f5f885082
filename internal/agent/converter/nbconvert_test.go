package converter

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

type fakeExecutor struct {
	name     string
	args     []string
	deadline bool
	stderr   string
	err      error
	// write is called instead of the real converter when set.
	write func(args []string) error
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	f.name = name
	f.args = args
	_, f.deadline = ctx.Deadline()
	if f.stderr != "" {
		_, _ = io.WriteString(stderr, f.stderr)
	}
	if f.err != nil {
		return f.err
	}
	if f.write != nil {
		return f.write(args)
	}
	return nil
}

func newTestConverter(exec executor, timeout time.Duration) *NBConvert {
	c := NewNBConvert("", timeout, logger.NewTestLogger())
	c.exec = exec
	return c
}

func TestNBConvertReadsMarkdown(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeExecutor{write: func(args []string) error {
		return os.WriteFile(filepath.Join(dir, "out.md"), []byte("# converted"), 0o644)
	}}
	c := newTestConverter(fake, 0)

	md, err := c.Convert(context.Background(), "post.ipynb", dir, "out")
	require.NoError(t, err)

	assert.Equal(t, "# converted", md)
	assert.Equal(t, "jupyter", fake.name)
	assert.Equal(t, []string{"nbconvert", "--to", "markdown", "--output-dir", dir, "--output", "out", "post.ipynb"}, fake.args)
	assert.False(t, fake.deadline)
}

func TestNBConvertTimeoutSetsDeadline(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeExecutor{write: func([]string) error {
		return os.WriteFile(filepath.Join(dir, "out.md"), nil, 0o644)
	}}

	_, err := newTestConverter(fake, time.Minute).Convert(context.Background(), "post.ipynb", dir, "out")
	require.NoError(t, err)
	assert.True(t, fake.deadline)
}

func TestNBConvertFailure(t *testing.T) {
	fake := &fakeExecutor{err: errors.New("exit status 1"), stderr: "NotJSONError\n"}

	_, err := newTestConverter(fake, 0).Convert(context.Background(), "post.ipynb", t.TempDir(), "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotJSONError")
}

func TestNBConvertMissingOutput(t *testing.T) {
	_, err := newTestConverter(&fakeExecutor{}, 0).Convert(context.Background(), "post.ipynb", t.TempDir(), "out")
	assert.Error(t, err)
}

func TestCanConvert(t *testing.T) {
	c := NewNBConvert("jupyter", 0, logger.NewTestLogger())
	assert.True(t, c.CanConvert(".ipynb"))
	assert.False(t, c.CanConvert(".md"))
}
