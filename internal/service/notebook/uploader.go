package notebook

import (
	"context"
	"os"
	"path/filepath"

	"github.com/feichai0017/notebook-publisher/internal/models"
	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

// ImageStore receives image bytes and returns the URL they are served from.
type ImageStore interface {
	Upload(ctx context.Context, localPath, key string, public bool) (string, error)
}

// UploadOptions locate image files on disk and name them remotely.
type UploadOptions struct {
	WorkingDirectory string
	BaseDirectory    string
	KeyPrefix        string
}

// pendingUpload is one file on disk and every link spelling that points at it.
type pendingUpload struct {
	refs []models.ImageReference
	path string
	key  string
}

// ResolvePath returns where the file behind ref is expected on disk. Web
// references have no local file.
func ResolvePath(ref models.ImageReference, opts UploadOptions) (string, bool) {
	switch ref.Type {
	case models.ImageGenerated:
		return filepath.Join(opts.WorkingDirectory, ref.Link), true
	case models.ImageLocal:
		return filepath.Join(opts.BaseDirectory, ref.Link), true
	default:
		return "", false
	}
}

// UploadImages uploads every non-web file once and returns one link to URL
// mapping per reference. Links that resolve to the same file, such as
// "diagram.png" and "./diagram.png", share a single upload. All files are
// checked before the first upload, so a missing image aborts the run without
// touching storage.
func UploadImages(ctx context.Context, store ImageStore, refs []models.ImageReference, opts UploadOptions, log logger.Logger) ([]models.UploadResult, error) {
	pending := make([]*pendingUpload, 0, len(refs))
	byKey := make(map[string]*pendingUpload, len(refs))

	for _, ref := range refs {
		path, ok := ResolvePath(ref, opts)
		if !ok {
			log.Debug("Skipping web image", logger.String("link", ref.Link))
			continue
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			log.Error("Image file not found",
				logger.String("link", ref.Link),
				logger.String("path", path),
			)
			return nil, &MissingAssetError{Link: ref.Link, Path: path}
		}

		key := opts.KeyPrefix + filepath.Base(path)
		if p, seen := byKey[key]; seen {
			if p.path != path {
				return nil, &KeyCollisionError{Key: key, Links: []string{p.refs[0].Link, ref.Link}}
			}
			p.refs = append(p.refs, ref)
			continue
		}

		p := &pendingUpload{refs: []models.ImageReference{ref}, path: path, key: key}
		byKey[key] = p
		pending = append(pending, p)
	}

	results := make([]models.UploadResult, 0, len(refs))
	for _, p := range pending {
		url, err := store.Upload(ctx, p.path, p.key, true)
		if err != nil {
			return nil, &UploadError{Link: p.refs[0].Link, Key: p.key, Err: err}
		}
		for _, ref := range p.refs {
			log.Info("Image uploaded",
				logger.String("link", ref.Link),
				logger.String("type", string(ref.Type)),
				logger.String("url", url),
			)
			results = append(results, models.UploadResult{
				SourceLink: ref.Link,
				RemoteURL:  url,
				Key:        p.key,
				LocalPath:  p.path,
			})
		}
	}
	return results, nil
}
