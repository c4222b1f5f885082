package notebook

import (
	"fmt"
	"strings"
)

// ValidationError means the notebook front matter was rejected. The author
// can fix it; Reason says how.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("notebook %s is not publishable: %s", e.Path, e.Reason)
}

// ConversionError wraps a failure of the external markdown converter.
type ConversionError struct {
	Path string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("failed to convert %s: %v", e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MissingAssetError names an image file referenced by the markdown that does
// not exist on disk.
type MissingAssetError struct {
	Link string
	Path string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("image %q not found at %s", e.Link, e.Path)
}

// UploadError wraps a storage failure for one image.
type UploadError struct {
	Link string
	Key  string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %q as %s: %v", e.Link, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// KeyCollisionError means two different files would be stored under the same
// remote key.
type KeyCollisionError struct {
	Key   string
	Links []string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("images %s would all be stored as %s", strings.Join(quoteAll(e.Links), " and "), e.Key)
}

func quoteAll(links []string) []string {
	quoted := make([]string, len(links))
	for i, l := range links {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return quoted
}
