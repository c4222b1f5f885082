package converters

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/notebook-publisher/internal/models"
)

func TestNewReport(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	result := &models.ConversionResult{
		RunID:        "run-1",
		NotebookPath: "post.ipynb",
		OutputPath:   "post.md",
		References: []models.ImageReference{
			{Link: "diagram.png", Type: models.ImageLocal},
			{Link: "https://ext.com/z.png", Type: models.ImageWeb},
		},
		Uploads: []models.UploadResult{
			{SourceLink: "diagram.png", RemoteURL: "https://b/diagram.png", Key: "diagram.png"},
		},
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
	}

	report, err := NewReport(result)
	require.NoError(t, err)

	assert.Equal(t, int64(1500), report.ElapsedMs)
	assert.Equal(t, 1, report.Uploaded)
	assert.Equal(t, []ImageEntry{
		{Link: "diagram.png", Type: models.ImageLocal, RemoteURL: "https://b/diagram.png", Key: "diagram.png"},
		{Link: "https://ext.com/z.png", Type: models.ImageWeb},
	}, report.Images)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["runId"])
}

func TestNewReportNil(t *testing.T) {
	_, err := NewReport(nil)
	assert.Error(t, err)
}
