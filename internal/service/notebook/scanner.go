package notebook

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/feichai0017/notebook-publisher/internal/models"
)

// imagePattern matches ![alt](link). Both parts are non-greedy and allow one
// level of nested brackets/parentheses, so "![x](a (b).png)" captures
// "a (b).png" while two images on one line stay separate.
var imagePattern = regexp.MustCompile(`!\[(?:[^\[\]\n]|\[[^\[\]\n]*\])*?\]\(\s*((?:[^()\n]|\([^()\n]*\))*?)\s*\)`)

// generatedSuffix is appended by nbconvert to the output name for the
// directory holding images extracted from cell outputs.
const generatedSuffix = "_files"

// ScanImages returns one reference per distinct image link in markdown,
// sorted by link.
func ScanImages(markdown, outputNamePrefix string) []models.ImageReference {
	seen := make(map[string]struct{})
	for _, m := range imagePattern.FindAllStringSubmatch(markdown, -1) {
		link := stripTitle(m[1])
		if link == "" {
			continue
		}
		seen[link] = struct{}{}
	}

	refs := make([]models.ImageReference, 0, len(seen))
	for link := range seen {
		refs = append(refs, models.ImageReference{
			Link: link,
			Type: Classify(link, outputNamePrefix),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Link < refs[j].Link })
	return refs
}

// stripTitle drops an optional title after the destination, written as
// "title", 'title' or (title), and angle brackets around the destination.
func stripTitle(dest string) string {
	dest = strings.TrimSpace(dest)
	if n := len(dest); n >= 2 {
		var open byte
		switch dest[n-1] {
		case '"', '\'':
			open = dest[n-1]
		case ')':
			open = '('
		}
		if open != 0 {
			if i := strings.LastIndexByte(dest[:n-1], open); i > 0 && (dest[i-1] == ' ' || dest[i-1] == '\t') {
				dest = strings.TrimSpace(dest[:i])
			}
		}
	}
	if strings.HasPrefix(dest, "<") && strings.HasSuffix(dest, ">") {
		dest = dest[1 : len(dest)-1]
	}
	return dest
}

// Classify decides how a link is handled: web links stay untouched,
// generated images live in the converter output directory and everything
// else is relative to the base directory.
func Classify(link, outputNamePrefix string) models.ImageType {
	if IsWebURL(link) {
		return models.ImageWeb
	}
	if strings.HasPrefix(link, outputNamePrefix+generatedSuffix) {
		return models.ImageGenerated
	}
	return models.ImageLocal
}

// IsWebURL reports whether link parses as a URL with a scheme or a host.
// Single letter schemes are Windows drive letters, not URLs.
func IsWebURL(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1 || u.Host != ""
}
