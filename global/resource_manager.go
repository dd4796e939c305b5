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

package global

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/caiflower/staticweb/pkg/logger"
)

// ResourceManager starts daemons and closes everything it holds when the process shuts down.
// Entries with a higher order start first and are closed first.

type Resource interface {
	Close()
}

type DaemonResource interface {
	Resource
	Name() string
	Start() error
}

const defaultResourceOrder = 1000000000

type entry struct {
	resource Resource
	daemon   DaemonResource
	order    int
}

func (e *entry) name() string {
	if e.daemon != nil {
		return e.daemon.Name()
	}
	return fmt.Sprintf("%T", e.resource)
}

type ResourceManager struct {
	lock    sync.Mutex
	entries []*entry
	started []*entry
	running bool
}

var DefaultResourceManager = NewResourceManager()

func NewResourceManager() *ResourceManager {
	return &ResourceManager{}
}

func (rm *ResourceManager) Add(resource Resource) {
	rm.AddWithOrder(resource, defaultResourceOrder)
}

func (rm *ResourceManager) AddWithOrder(resource Resource, order int) {
	rm.lock.Lock()
	defer rm.lock.Unlock()
	if rm.contains(resource) {
		return
	}
	rm.entries = append(rm.entries, &entry{resource: resource, order: order})
}

func (rm *ResourceManager) AddDaemon(daemon DaemonResource) {
	rm.AddDaemonWithOrder(daemon, 100000)
}

func (rm *ResourceManager) AddDaemonWithOrder(daemon DaemonResource, order int) {
	rm.lock.Lock()
	defer rm.lock.Unlock()
	if rm.contains(daemon) {
		return
	}
	rm.entries = append(rm.entries, &entry{resource: daemon, daemon: daemon, order: order})
}

func (rm *ResourceManager) contains(resource Resource) bool {
	for _, e := range rm.entries {
		if e.resource == resource {
			return true
		}
	}
	return false
}

// Start starts every daemon. When one fails the ones already started are closed again.
func (rm *ResourceManager) Start() error {
	rm.lock.Lock()
	defer rm.lock.Unlock()
	if rm.running {
		return nil
	}

	sort.SliceStable(rm.entries, func(i, j int) bool {
		return rm.entries[i].order > rm.entries[j].order
	})
	rm.started = rm.started[:0]
	for _, e := range rm.entries {
		if e.daemon != nil {
			if err := e.daemon.Start(); err != nil {
				rm.closeStarted()
				return fmt.Errorf("start %s: %w", e.name(), err)
			}
		}
		rm.started = append(rm.started, e)
	}
	rm.running = true
	return nil
}

func (rm *ResourceManager) closeStarted() {
	for _, e := range rm.started {
		logger.Info("[resource] close %s", e.name())
		e.resource.Close()
	}
	rm.started = rm.started[:0]
}

// Close closes the started resources in start order.
func (rm *ResourceManager) Close() {
	rm.lock.Lock()
	defer rm.lock.Unlock()
	if !rm.running {
		return
	}
	rm.closeStarted()
	rm.running = false
}

// Run starts the resources and blocks until ctx is done or the process receives a termination signal.
func (rm *ResourceManager) Run(ctx context.Context) error {
	if err := rm.Start(); err != nil {
		return err
	}

	sign := make(chan os.Signal, 1)
	signal.Notify(sign, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sign)

	select {
	case s := <-sign:
		logger.Info("Accept signal %s. The application is shutting down...", s)
	case <-ctx.Done():
		logger.Info("The application is shutting down...")
	}
	rm.Close()
	return nil
}
