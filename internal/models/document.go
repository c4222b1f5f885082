package models

import (
	"time"
)

// ImageType 图片引用的分类
type ImageType string

const (
	// ImageWeb is an absolute URL; it is never uploaded or rewritten.
	ImageWeb ImageType = "web"
	// ImageGenerated was extracted by the converter into <prefix>_files/.
	ImageGenerated ImageType = "generated"
	// ImageLocal sits next to the source notebook, relative to the base directory.
	ImageLocal ImageType = "local"
)

// ImageReference is one distinct image link found in converted markdown.
type ImageReference struct {
	Link string    `json:"link"`
	Type ImageType `json:"type"`
}

// UploadResult maps a source link to the address it was uploaded to.
type UploadResult struct {
	SourceLink string `json:"sourceLink"`
	RemoteURL  string `json:"remoteUrl"`
	Key        string `json:"key"`
	LocalPath  string `json:"localPath"`
}

type ValidationStatus string

const (
	ValidationOK      ValidationStatus = "ok"
	ValidationInvalid ValidationStatus = "invalid"
)

// ValidationResult 元数据验证结果
type ValidationResult struct {
	Status   ValidationStatus  `json:"status"`
	Reason   string            `json:"reason,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (r ValidationResult) OK() bool {
	return r.Status == ValidationOK
}

// ConversionResult summarises one finished run.
type ConversionResult struct {
	RunID        string            `json:"runId"`
	NotebookPath string            `json:"notebookPath"`
	OutputPath   string            `json:"outputPath"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	References   []ImageReference  `json:"references"`
	Uploads      []UploadResult    `json:"uploads"`
	StartedAt    time.Time         `json:"startedAt"`
	FinishedAt   time.Time         `json:"finishedAt"`
}
