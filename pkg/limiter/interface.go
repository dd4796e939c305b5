package limiter

import (
	"context"
	"time"
)

type Limiter interface {
	TakeToken()
	TakeTokenNonBlocking() bool
	TakeTokenWithTimeout(timeout time.Duration) bool
	TakeTokenWithContext(ctx context.Context) bool
}
