// internal/utils/validator/notebook.go
package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/feichai0017/notebook-publisher/internal/models"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

const (
	NotebookExtension = ".ipynb"
	frontMatterFence  = "---"
)

// Reasons reported for rejected notebooks.
const (
	ReasonWrongExtension  = "wrong extension"
	ReasonFirstCellNotRaw = "first cell is not raw"
	ReasonNoDelimiters    = "missing delimiters"
	ReasonMissingFields   = "missing required fields"
	ReasonDraft           = "document is a draft"
)

var requiredFields = []string{"author", "title"}

// NotebookValidator 检查笔记本第一个 raw cell 中的 front matter
type NotebookValidator struct {
	logger logger.Logger
}

func NewNotebookValidator(log logger.Logger) *NotebookValidator {
	return &NotebookValidator{logger: log}
}

type notebookFile struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// text joins the cell source, which nbformat stores either as one string or
// as a list of lines that keep their trailing newlines.
func (c notebookCell) text() (string, error) {
	if len(c.Source) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(c.Source, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(c.Source, &lines); err != nil {
		return "", fmt.Errorf("unexpected cell source: %w", err)
	}
	return strings.Join(lines, ""), nil
}

// Validate runs the checks in order and stops at the first failure. A
// returned error means the file could not be read at all; a rejected
// notebook is reported through the result instead.
func (v *NotebookValidator) Validate(path string) (*models.ValidationResult, error) {
	v.logger.Debug("File extension check", logger.String("path", path))
	if !strings.HasSuffix(path, NotebookExtension) {
		return invalid(ReasonWrongExtension), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	var nb notebookFile
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to parse notebook %s: %w", path, err)
	}

	v.logger.Debug("First cell check")
	if len(nb.Cells) == 0 || nb.Cells[0].CellType != "raw" {
		return invalid(ReasonFirstCellNotRaw), nil
	}
	source, err := nb.Cells[0].text()
	if err != nil {
		return nil, fmt.Errorf("failed to read first cell of %s: %w", path, err)
	}

	body, ok := fencedBody(source)
	if !ok {
		return invalid(ReasonNoDelimiters), nil
	}

	v.logger.Debug("Metadata check")
	metadata := ParseFrontMatter(body)
	for _, field := range requiredFields {
		if _, ok := metadata[field]; !ok {
			return invalid(ReasonMissingFields), nil
		}
	}
	for key, value := range metadata {
		v.logger.Debug("Metadata entry", logger.String("key", key), logger.String("value", value))
	}

	if draft, ok := metadata["draft"]; !ok || !strings.EqualFold(draft, "false") {
		return invalid(ReasonDraft), nil
	}

	return &models.ValidationResult{
		Status:   models.ValidationOK,
		Metadata: metadata,
	}, nil
}

// fencedBody returns the lines strictly between the opening and closing
// "---" fences. Blank lines around the fences are ignored.
func fencedBody(source string) ([]string, bool) {
	lines := strings.Split(source, "\n")
	first, last := 0, len(lines)-1
	for first <= last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last >= first && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last <= first {
		return nil, false
	}
	if strings.TrimSpace(lines[first]) != frontMatterFence || strings.TrimSpace(lines[last]) != frontMatterFence {
		return nil, false
	}
	return lines[first+1 : last], true
}

// ParseFrontMatter splits each non-blank line on its first colon. The value
// keeps any later colons, so "title: a: b" yields "a: b".
func ParseFrontMatter(lines []string) map[string]string {
	metadata := make(map[string]string, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, _ := strings.Cut(line, ":")
		metadata[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return metadata
}

func invalid(reason string) *models.ValidationResult {
	return &models.ValidationResult{
		Status: models.ValidationInvalid,
		Reason: reason,
	}
}
