package fileserver

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"
)

var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Index of {{.Path}}</title></head>
<body>
<h1>Index of {{.Path}}</h1>
<ul>
{{- range .Entries}}
<li{{if .IsDir}} class="dir"{{end}}><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
</body>
</html>
`))

type listingEntry struct {
	Name  string
	Href  string
	IsDir bool
}

// renderListing writes one link per entry, sorted by name. Directory names end with "/".
func renderListing(requestPath string, entries []fs.DirEntry) ([]byte, error) {
	sorted := make([]fs.DirEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name() < sorted[j].Name()
	})

	base := strings.TrimSuffix(path.Clean("/"+requestPath), "/")
	items := make([]listingEntry, 0, len(sorted))
	for _, entry := range sorted {
		item := listingEntry{
			Name:  entry.Name(),
			Href:  base + "/" + url.PathEscape(entry.Name()),
			IsDir: entry.IsDir(),
		}
		if item.IsDir {
			item.Name += "/"
			item.Href += "/"
		}
		items = append(items, item)
	}

	var buf bytes.Buffer
	err := listingTemplate.Execute(&buf, map[string]interface{}{
		"Path":    requestPath,
		"Entries": items,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
