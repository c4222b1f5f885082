package validator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/notebook-publisher/internal/models"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

type cell struct {
	CellType string   `json:"cell_type"`
	Source   []string `json:"source"`
}

func writeNotebook(t *testing.T, name string, cells ...cell) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"cells":          cells,
		"metadata":       map[string]any{},
		"nbformat":       4,
		"nbformat_minor": 5,
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func raw(lines ...string) cell {
	return cell{CellType: "raw", Source: lines}
}

func TestValidate(t *testing.T) {
	markdown := cell{CellType: "markdown", Source: []string{"# Hello"}}

	tests := []struct {
		name       string
		file       string
		cells      []cell
		wantReason string
	}{
		{
			name:  "well formed",
			file:  "post.ipynb",
			cells: []cell{raw("---\n", "title: Hello: World\n", "author: adib\n", "draft: False\n", "---"), markdown},
		},
		{
			name:  "source with surrounding blank lines",
			file:  "post.ipynb",
			cells: []cell{raw("\n", "---\n", "title: t\n", "author: a\n", "draft: false\n", "---\n", "\n")},
		},
		{
			name:       "wrong extension",
			file:       "post.json",
			cells:      []cell{raw("---\n", "---")},
			wantReason: ReasonWrongExtension,
		},
		{
			name:       "no cells",
			file:       "post.ipynb",
			wantReason: ReasonFirstCellNotRaw,
		},
		{
			name:       "first cell is markdown",
			file:       "post.ipynb",
			cells:      []cell{markdown, raw("---\n", "---")},
			wantReason: ReasonFirstCellNotRaw,
		},
		{
			name:       "missing closing delimiter",
			file:       "post.ipynb",
			cells:      []cell{raw("---\n", "title: t\n", "author: a\n", "draft: false")},
			wantReason: ReasonNoDelimiters,
		},
		{
			name:       "missing opening delimiter",
			file:       "post.ipynb",
			cells:      []cell{raw("title: t\n", "author: a\n", "---")},
			wantReason: ReasonNoDelimiters,
		},
		{
			name:       "single delimiter",
			file:       "post.ipynb",
			cells:      []cell{raw("---")},
			wantReason: ReasonNoDelimiters,
		},
		{
			name:       "missing author",
			file:       "post.ipynb",
			cells:      []cell{raw("---\n", "title: t\n", "draft: false\n", "---")},
			wantReason: ReasonMissingFields,
		},
		{
			name:       "missing title even when draft",
			file:       "post.ipynb",
			cells:      []cell{raw("---\n", "author: a\n", "draft: true\n", "---")},
			wantReason: ReasonMissingFields,
		},
		{
			name:       "draft flag absent",
			file:       "post.ipynb",
			cells:      []cell{raw("---\n", "title: t\n", "author: a\n", "---")},
			wantReason: ReasonDraft,
		},
		{
			name:       "draft true",
			file:       "post.ipynb",
			cells:      []cell{raw("---\n", "title: t\n", "author: a\n", "draft: TRUE\n", "---")},
			wantReason: ReasonDraft,
		},
	}

	v := NewNotebookValidator(logger.NewTestLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeNotebook(t, tt.file, tt.cells...)

			result, err := v.Validate(path)
			require.NoError(t, err)

			if tt.wantReason == "" {
				assert.True(t, result.OK(), "unexpected reason %q", result.Reason)
				return
			}
			assert.Equal(t, models.ValidationInvalid, result.Status)
			assert.Equal(t, tt.wantReason, result.Reason)
		})
	}
}

func TestValidateKeepsColonsInValues(t *testing.T) {
	path := writeNotebook(t, "post.ipynb", raw("---\n", "title: Go: the good parts\n", "author: a\n", "draft: false\n", "---"))

	result, err := NewNotebookValidator(logger.NewTestLogger()).Validate(path)
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Equal(t, "Go: the good parts", result.Metadata["title"])
}

func TestValidateStringSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.ipynb")
	nb := `{"cells":[{"cell_type":"raw","source":"---\ntitle: t\nauthor: a\ndraft: false\n---"}]}`
	require.NoError(t, os.WriteFile(path, []byte(nb), 0o644))

	result, err := NewNotebookValidator(logger.NewTestLogger()).Validate(path)
	require.NoError(t, err)
	assert.True(t, result.OK())
}

func TestValidateUnreadableNotebook(t *testing.T) {
	v := NewNotebookValidator(logger.NewTestLogger())

	_, err := v.Validate(filepath.Join(t.TempDir(), "absent.ipynb"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = v.Validate(path)
	assert.Error(t, err)
}

func TestParseFrontMatter(t *testing.T) {
	got := ParseFrontMatter([]string{"  title : A  ", "", "tags: a, b", "orphan"})
	assert.Equal(t, map[string]string{
		"title":  "A",
		"tags":   "a, b",
		"orphan": "",
	}, got)
}
