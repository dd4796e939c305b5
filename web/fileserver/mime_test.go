package fileserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMime(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPEG", "image/jpeg"},
		{"logo.png", "image/png"},
		{"/site/index.html", "text/html"},
		{"style.css", "text/css"},
		{"notes.txt", "text/plain"},
		{"README.md", "text/html"},
		{"archive.tar.gz", MimeUnknown},
		{"Makefile", MimeUnknown},
		{"trailing.", MimeUnknown},
		{"/dir.d/file", MimeUnknown},
		{"", MimeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMime(tt.name))
		})
	}
}

func TestExtensionAndFallback(t *testing.T) {
	assert.Equal(t, "gz", Extension("a.tar.gz"))
	assert.Equal(t, "bashrc", Extension(".bashrc"))
	assert.Equal(t, "", Extension("/dir.d/file"))
	assert.True(t, IsMarkdown("/x/Guide.MD"))
	assert.True(t, IsMarkdown("post.markdown"))
	assert.False(t, IsMarkdown("md"))

	assert.Equal(t, MimeOctetStream, contentType("blob.bin"))
	assert.Equal(t, "text/plain", contentType("a.txt"))
}
