package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/notebook-publisher/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		link string
		want models.ImageType
	}{
		{"https://example.com/a.png", models.ImageWeb},
		{"http://example.com/a.png", models.ImageWeb},
		{"//cdn.example.com/b.png", models.ImageWeb},
		{"data:image/png;base64,iVBORw0KGgo=", models.ImageWeb},
		{"images/http-diagram.png", models.ImageLocal},
		{"www-assets/logo.png", models.ImageLocal},
		{"C:/Users/me/plot.png", models.ImageLocal},
		{"out_files/out_3_0.png", models.ImageGenerated},
		{"out_files_extra/x.png", models.ImageGenerated},
		{"output_files/x.png", models.ImageLocal},
		{"diagram.png", models.ImageLocal},
		{"a (b).png", models.ImageLocal},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.link, "out"))
		})
	}
}

func TestScanImagesDeduplicates(t *testing.T) {
	md := "![a](diagram.png) text ![b](diagram.png)\n\n![c](diagram.png)\n[not an image](diagram.png)"

	refs := ScanImages(md, "out")

	require.Len(t, refs, 1)
	assert.Equal(t, models.ImageReference{Link: "diagram.png", Type: models.ImageLocal}, refs[0])
}

func TestScanImagesSyntax(t *testing.T) {
	md := `# Post

![png](out_files/out_3_0.png)
![x](diagram.png) and ![y](https://ext.com/z.png) on one line
![with title](photo.jpg "A photo")
![nested [alt]](a (b).png)
![](  spaced.png  )
![angle](<dir/angled.png>)
![empty]()
`

	refs := ScanImages(md, "out")

	got := make(map[string]models.ImageType, len(refs))
	for _, r := range refs {
		got[r.Link] = r.Type
	}
	assert.Equal(t, map[string]models.ImageType{
		"out_files/out_3_0.png": models.ImageGenerated,
		"diagram.png":           models.ImageLocal,
		"https://ext.com/z.png": models.ImageWeb,
		"photo.jpg":             models.ImageLocal,
		"a (b).png":             models.ImageLocal,
		"spaced.png":            models.ImageLocal,
		"dir/angled.png":        models.ImageLocal,
	}, got)
}

func TestStripTitle(t *testing.T) {
	tests := []struct {
		dest string
		want string
	}{
		{`pic.png "Title"`, "pic.png"},
		{`pic.png 'Title'`, "pic.png"},
		{`pic.png (Title)`, "pic.png"},
		{"pic.png\t'Tabbed title'", "pic.png"},
		{`a (b).png`, "a (b).png"},
		{`a (b).png 'It is (b)'`, "a (b).png"},
		{`plot(1)`, "plot(1)"},
		{`it's.png`, "it's.png"},
		{`<dir/x y.png> "T"`, "dir/x y.png"},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			assert.Equal(t, tt.want, stripTitle(tt.dest))
		})
	}
}

func TestScanImagesTitleForms(t *testing.T) {
	md := "![a](one.png 'Single') ![b](two.png (Paren)) ![c](three.png \"Double\")"

	refs := ScanImages(md, "out")

	assert.Equal(t, []models.ImageReference{
		{Link: "one.png", Type: models.ImageLocal},
		{Link: "three.png", Type: models.ImageLocal},
		{Link: "two.png", Type: models.ImageLocal},
	}, refs)
}

func TestScanImagesIsIdempotent(t *testing.T) {
	md := "![a](b.png) ![c](https://d/e.png) ![f](out_files/g.png) ![a](b.png)"

	first := ScanImages(md, "out")
	second := ScanImages(md, "out")

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestScanImagesNone(t *testing.T) {
	assert.Empty(t, ScanImages("plain text, [link](x.png)", "out"))
}
