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

package v1

import (
	"sync"

	"github.com/modern-go/gls"
)

const (
	RequestID  = "X-Request-ID"
	RemoteAddr = "Remote-Addr"
)

// locals is keyed by goroutine id. Every goroutine that stores something must call Clean before it exits.
var locals sync.Map

type local struct {
	lock   sync.RWMutex
	values map[string]interface{}
}

func current(create bool) *local {
	id := gls.GoID()
	if v, ok := locals.Load(id); ok {
		return v.(*local)
	}
	if !create {
		return nil
	}
	l := &local{values: make(map[string]interface{})}
	actual, _ := locals.LoadOrStore(id, l)
	return actual.(*local)
}

func Put(key string, value interface{}) {
	l := current(true)
	l.lock.Lock()
	l.values[key] = value
	l.lock.Unlock()
}

func Get(key string) interface{} {
	l := current(false)
	if l == nil {
		return nil
	}
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.values[key]
}

func PutTraceID(traceID string) {
	Put(RequestID, traceID)
}

func GetTraceID() string {
	if v, ok := Get(RequestID).(string); ok {
		return v
	}
	return ""
}

// Snapshot copies the values of the calling goroutine so they can be handed to another one with Restore.
func Snapshot() map[string]interface{} {
	l := current(false)
	if l == nil {
		return nil
	}
	l.lock.RLock()
	defer l.lock.RUnlock()
	m := make(map[string]interface{}, len(l.values))
	for k, v := range l.values {
		m[k] = v
	}
	return m
}

func Restore(values map[string]interface{}) {
	for k, v := range values {
		Put(k, v)
	}
}

func Clean() {
	locals.Delete(gls.GoID())
}
