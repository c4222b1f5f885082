package converters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/feichai0017/notebook-publisher/internal/models"
)

// Report is the machine readable summary printed by `convert --report`.
type Report struct {
	RunID     string            `json:"runId"`
	Notebook  string            `json:"notebook"`
	Output    string            `json:"output"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Images    []ImageEntry      `json:"images"`
	Uploaded  int               `json:"uploaded"`
	ElapsedMs int64             `json:"elapsedMs"`
}

// ImageEntry describes one distinct image link and where it ended up.
type ImageEntry struct {
	Link      string           `json:"link"`
	Type      models.ImageType `json:"type"`
	RemoteURL string           `json:"remoteUrl,omitempty"`
	Key       string           `json:"key,omitempty"`
}

// NewReport builds a Report from a finished run.
func NewReport(result *models.ConversionResult) (*Report, error) {
	if result == nil {
		return nil, fmt.Errorf("no conversion result")
	}

	uploads := make(map[string]models.UploadResult, len(result.Uploads))
	for _, u := range result.Uploads {
		uploads[u.SourceLink] = u
	}

	report := &Report{
		RunID:     result.RunID,
		Notebook:  result.NotebookPath,
		Output:    result.OutputPath,
		Metadata:  result.Metadata,
		Images:    make([]ImageEntry, 0, len(result.References)),
		Uploaded:  len(result.Uploads),
		ElapsedMs: result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}
	for _, ref := range result.References {
		entry := ImageEntry{Link: ref.Link, Type: ref.Type}
		if u, ok := uploads[ref.Link]; ok {
			entry.RemoteURL = u.RemoteURL
			entry.Key = u.Key
		}
		report.Images = append(report.Images, entry)
	}
	return report, nil
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
