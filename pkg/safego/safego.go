package safego

import (
	"github.com/caiflower/staticweb/pkg/e"
	golocalv1 "github.com/caiflower/staticweb/pkg/golocal/v1"
)

// Go runs fn in a new goroutine that inherits the caller's goroutine-local values and never crashes the process.
func Go(fn func()) {
	values := golocalv1.Snapshot()
	go func() {
		defer golocalv1.Clean()
		defer e.OnError("safeGo")

		golocalv1.Restore(values)
		fn()
	}()
}
