package notebook

import (
	"sort"
	"strings"

	"github.com/feichai0017/notebook-publisher/internal/models"
)

// Rewrite replaces every literal occurrence of each uploaded source link with
// its remote URL. Web references in refs are matched too but map to
// themselves, so an uploaded link that also appears inside a web URL leaves
// that URL intact. All replacements happen in one pass with longer links
// tried first, so a link that is a substring of another is never rewritten
// twice.
func Rewrite(markdown string, refs []models.ImageReference, uploads []models.UploadResult) string {
	if len(uploads) == 0 {
		return markdown
	}

	type pair struct{ from, to string }
	pairs := make([]pair, 0, len(refs)+len(uploads))
	for _, ref := range refs {
		if ref.Type == models.ImageWeb && ref.Link != "" {
			pairs = append(pairs, pair{ref.Link, ref.Link})
		}
	}
	for _, u := range uploads {
		if u.SourceLink != "" {
			pairs = append(pairs, pair{u.SourceLink, u.RemoteURL})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].from) > len(pairs[j].from)
	})

	args := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		args = append(args, p.from, p.to)
	}
	return strings.NewReplacer(args...).Replace(markdown)
}
