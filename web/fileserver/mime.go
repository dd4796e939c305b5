package fileserver

import (
	"path"
	"path/filepath"
	"strings"
)

const (
	MimeUnknown     = "unknown"
	MimeOctetStream = "application/octet-stream"
	MimeHTML        = "text/html"
)

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"webp": "image/webp",
	"html": MimeHTML,
	"htm":  MimeHTML,
	"css":  "text/css",
	"js":   "text/javascript",
	"json": "application/json",
	"txt":  "text/plain",
	"xml":  "application/xml",
	"pdf":  "application/pdf",
	// markdown is served rendered
	"md":       MimeHTML,
	"markdown": MimeHTML,
}

var markdownExtensions = map[string]bool{
	"md":       true,
	"markdown": true,
}

// Extension returns the lower-cased text after the last "." of the final path segment, without the dot.
func Extension(name string) string {
	base := path.Base(filepath.ToSlash(name))
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ClassifyMime returns MimeUnknown for extensions outside the table.
func ClassifyMime(name string) string {
	if mime, ok := mimeTypes[Extension(name)]; ok {
		return mime
	}
	return MimeUnknown
}

func IsMarkdown(name string) bool {
	return markdownExtensions[Extension(name)]
}

func contentType(name string) string {
	if mime := ClassifyMime(name); mime != MimeUnknown {
		return mime
	}
	return MimeOctetStream
}
