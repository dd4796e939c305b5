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

package fileserver

import (
	"time"

	"github.com/caiflower/staticweb/pkg/logger"
	"github.com/caiflower/staticweb/web/e"
	"github.com/caiflower/staticweb/web/protocol"
)

const (
	NotFoundBody      = "NOT FOUND!"
	InternalErrorBody = "INTERNAL ERROR!"
)

// ServerConfig is built once at startup and only read afterwards.
type ServerConfig struct {
	DocumentRoot string
	// exact, case sensitive request path -> Location
	RedirectMap map[string]string
}

type Option func(*Dispatcher) *Dispatcher

func WithFileSystem(fsys FileSystem) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.fs = fsys
		return d
	}
}

func WithRenderer(renderer Renderer) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.renderer = renderer
		return d
	}
}

func WithLogger(log logger.ILog) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.logger = log
		return d
	}
}

func WithMetric(metric *HttpMetric) Option {
	return func(d *Dispatcher) *Dispatcher {
		d.metric = metric
		return d
	}
}

// Dispatcher turns a request into a RouteDecision and executes it. It is safe for concurrent use.
type Dispatcher struct {
	redirects map[string]string
	resolver  *Resolver
	fs        FileSystem
	renderer  Renderer
	logger    logger.ILog
	metric    *HttpMetric
}

func NewDispatcher(config *ServerConfig, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		redirects: make(map[string]string, len(config.RedirectMap)),
		fs:        OSFileSystem{},
		logger:    logger.DefaultLogger(),
	}
	for k, v := range config.RedirectMap {
		d.redirects[k] = v
	}
	for _, opt := range opts {
		d = opt(d)
	}
	if d.renderer == nil {
		d.renderer = NewMarkdownRenderer()
	}

	resolver, err := NewResolver(config.DocumentRoot, d.fs)
	if err != nil {
		return nil, err
	}
	d.resolver = resolver
	return d, nil
}

func (d *Dispatcher) DocumentRoot() string {
	return d.resolver.Root()
}

// Decide picks the route for req. The first matching rule wins:
// redirect, path outside the root, missing on disk, regular file, directory.
func (d *Dispatcher) Decide(req *protocol.Request) RouteDecision {
	if location, ok := d.redirects[req.Path]; ok {
		return Redirect{Location: location}
	}

	p, err := d.resolver.Resolve(req.Path)
	if err != nil {
		if e.Is(err, e.PathTraversal) {
			d.logger.Warn("[dispatcher] reject %s: %s", req.Path, err.Error())
			return NotFound{}
		}
		return InternalError{Cause: err}
	}

	info, err := d.fs.Stat(p)
	if err != nil {
		if isNotExist(err) {
			d.logger.Debug("[dispatcher] %s", e.New(e.NotFoundOnDisk, req.Path, err).Error())
			return NotFound{}
		}
		return InternalError{Cause: e.New(e.FilesystemError, "stat", err)}
	}

	switch {
	case info.Mode().IsRegular():
		if IsMarkdown(p) {
			return ServeMarkdown{Path: p}
		}
		return ServeFile{Path: p, MimeType: contentType(p)}
	case info.IsDir():
		return ListDirectory{Path: p, RequestPath: req.Path}
	default:
		// sockets, devices and pipes are never served
		return NotFound{}
	}
}

// Execute fills resp according to decision and sends it. Read and render failures degrade to InternalError,
// the returned decision is the one that was actually sent.
func (d *Dispatcher) Execute(decision RouteDecision, resp *protocol.Response) (RouteDecision, error) {
	switch dc := decision.(type) {
	case Redirect:
		resp.SetStatus(protocol.StatusPermanentRedirect).SetHeader(protocol.HeaderLocation, dc.Location)
		return dc, resp.Send(nil)
	case NotFound:
		resp.SetStatus(protocol.StatusNotFound).SetHeader(protocol.HeaderContentType, MimeHTML)
		return dc, resp.Send([]byte(NotFoundBody))
	case ServeFile:
		data, err := d.fs.ReadFile(dc.Path)
		if err != nil {
			return d.Execute(InternalError{Cause: e.New(e.FilesystemError, "read file", err)}, resp)
		}
		resp.SetStatus(protocol.StatusOK).SetHeader(protocol.HeaderContentType, dc.MimeType)
		return dc, resp.Send(data)
	case ServeMarkdown:
		source, err := d.fs.ReadFile(dc.Path)
		if err != nil {
			return d.Execute(InternalError{Cause: e.New(e.FilesystemError, "read markdown", err)}, resp)
		}
		html, err := d.renderer.Render(source)
		if err != nil {
			return d.Execute(InternalError{Cause: e.New(e.RenderError, "render markdown", err)}, resp)
		}
		resp.SetStatus(protocol.StatusOK).SetHeader(protocol.HeaderContentType, MimeHTML)
		return dc, resp.Send(html)
	case ListDirectory:
		entries, err := d.fs.ReadDir(dc.Path)
		if err != nil {
			return d.Execute(InternalError{Cause: e.New(e.FilesystemError, "read dir", err)}, resp)
		}
		body, err := renderListing(dc.RequestPath, entries)
		if err != nil {
			return d.Execute(InternalError{Cause: e.New(e.RenderError, "render listing", err)}, resp)
		}
		resp.SetStatus(protocol.StatusOK).SetHeader(protocol.HeaderContentType, MimeHTML)
		return dc, resp.Send(body)
	case InternalError:
		d.logger.Error("[dispatcher] internal error: %v", dc.Cause)
		resp.SetStatus(protocol.StatusInternalServerError).SetHeader(protocol.HeaderContentType, MimeHTML)
		return dc, resp.Send([]byte(InternalErrorBody))
	default:
		return d.Execute(InternalError{Cause: e.Newf(e.InvalidStatus, "unknown route decision %T", decision)}, resp)
	}
}

// Dispatch decides, executes and records one request.
func (d *Dispatcher) Dispatch(req *protocol.Request, resp *protocol.Response) error {
	begin := time.Now()
	executed, err := d.Execute(d.Decide(req), resp)
	cost := time.Since(begin)

	if d.metric != nil {
		d.metric.saveMetric(resp.StatusCode(), executed.Kind(), cost)
	}
	d.logger.Info("[dispatcher] %s %s -> %d %s cost=%dms", req.Method, req.Path, resp.StatusCode(), executed.Kind(), cost.Milliseconds())
	return err
}
