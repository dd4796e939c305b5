package fileserver

// RouteDecision is what the dispatcher decided to do with one request.
// The set of implementations is closed, see the types below.
type RouteDecision interface {
	Kind() string
	isRouteDecision()
}

const (
	KindRedirect      = "redirect"
	KindNotFound      = "not_found"
	KindServeFile     = "serve_file"
	KindServeMarkdown = "serve_markdown"
	KindListDirectory = "list_directory"
	KindInternalError = "internal_error"
)

type Redirect struct {
	Location string
}

type NotFound struct{}

type ServeFile struct {
	Path     string
	MimeType string
}

type ServeMarkdown struct {
	Path string
}

type ListDirectory struct {
	Path string
	// RequestPath prefixes the links of the listing
	RequestPath string
}

type InternalError struct {
	Cause error
}

func (Redirect) Kind() string      { return KindRedirect }
func (NotFound) Kind() string      { return KindNotFound }
func (ServeFile) Kind() string     { return KindServeFile }
func (ServeMarkdown) Kind() string { return KindServeMarkdown }
func (ListDirectory) Kind() string { return KindListDirectory }
func (InternalError) Kind() string { return KindInternalError }

func (Redirect) isRouteDecision()      {}
func (NotFound) isRouteDecision()      {}
func (ServeFile) isRouteDecision()     {}
func (ServeMarkdown) isRouteDecision() {}
func (ListDirectory) isRouteDecision() {}
func (InternalError) isRouteDecision() {}
