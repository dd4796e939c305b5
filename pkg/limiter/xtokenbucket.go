/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// XTokenBucket is a Limiter backed by golang.org/x/time/rate.
type XTokenBucket struct {
	qos     int
	limiter *rate.Limiter
}

// NewXTokenBucket burst below 1 falls back to qos.
func NewXTokenBucket(qos, burst int) *XTokenBucket {
	if burst < 1 {
		burst = qos
	}
	return &XTokenBucket{
		qos:     qos,
		limiter: rate.NewLimiter(rate.Limit(qos), burst),
	}
}

func (x *XTokenBucket) TakeToken() {
	_ = x.limiter.Wait(context.Background())
}

func (x *XTokenBucket) TakeTokenNonBlocking() bool {
	return x.limiter.Allow()
}

func (x *XTokenBucket) TakeTokenWithTimeout(timeout time.Duration) bool {
	withTimeout, cancelFunc := context.WithTimeout(context.Background(), timeout)
	defer cancelFunc()
	return x.limiter.Wait(withTimeout) == nil
}

func (x *XTokenBucket) TakeTokenWithContext(ctx context.Context) bool {
	return x.limiter.Wait(ctx) == nil
}
