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

package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	golocalv1 "github.com/caiflower/staticweb/pkg/golocal/v1"
	"github.com/caiflower/staticweb/pkg/limiter"
	"github.com/caiflower/staticweb/pkg/logger"
	"github.com/caiflower/staticweb/pkg/safego"
	"github.com/caiflower/staticweb/web/protocol"
	"github.com/caiflower/staticweb/web/server/config"
)

var ErrServerClosed = errors.New("server closed")

// Handler answers one parsed request. *fileserver.Dispatcher implements it.
type Handler interface {
	Dispatch(req *protocol.Request, resp *protocol.Response) error
}

type Server struct {
	options *config.Options
	handler Handler
	limiter limiter.Limiter
	logger  logger.ILog

	lock     sync.Mutex
	listener net.Listener
	closed   bool
	ctx      context.Context
	cancel   context.CancelFunc
	conns    sync.WaitGroup
	connCnt  int64
}

func NewServer(options *config.Options, handler Handler) *Server {
	return NewServerWithLogger(options, handler, logger.DefaultLogger())
}

func NewServerWithLogger(options *config.Options, handler Handler, log logger.ILog) *Server {
	if handler == nil {
		panic("[server] handler must not be nil. ")
	}
	if log == nil {
		panic("[server] logger must not be nil. ")
	}
	if options == nil {
		options = config.NewOptions(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		options: options,
		handler: handler,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}
	if options.Qps > 0 {
		s.limiter = limiter.NewXTokenBucket(options.Qps, options.Burst)
	}
	return s
}

func (s *Server) Name() string {
	return s.options.Name
}

// Start is Open, it lets the server be managed as a daemon.
func (s *Server) Start() error {
	return s.Open()
}

// Open listens on the configured address and serves it in the background.
func (s *Server) Open() error {
	s.logger.Info("[server] Open %s on %s and listening...", s.options.Name, s.options.Addr)

	l, err := net.Listen("tcp", s.options.Addr)
	if err != nil {
		s.logger.Error("[server] Open %s err: %s .", s.options.Addr, err.Error())
		return err
	}
	if err = s.setListener(l); err != nil {
		_ = l.Close()
		return err
	}

	s.logger.Info("[server] Open %s success. ", l.Addr().String())
	safego.Go(func() {
		if err := s.serve(l); err != nil {
			s.logger.Error("[server] stop serving %s: %s", l.Addr().String(), err.Error())
		}
	})
	return nil
}

// Serve accepts connections on l until Close is called. It returns nil after Close.
func (s *Server) Serve(l net.Listener) error {
	if err := s.setListener(l); err != nil {
		return err
	}
	return s.serve(l)
}

func (s *Server) setListener(l net.Listener) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return ErrServerClosed
	}
	if s.listener != nil {
		return errors.New("[server] already serving " + s.listener.Addr().String())
	}
	s.listener = l
	return nil
}

func (s *Server) serve(l net.Listener) error {
	golocalv1.PutTraceID("server.accept")
	defer golocalv1.Clean()

	var backoff time.Duration
	for {
		if s.limiter != nil && !s.limiter.TakeTokenWithContext(s.ctx) {
			return nil
		}

		conn, err := l.Accept()
		if err != nil {
			if s.ctx.Err() != nil {
				s.logger.Info("[server] listener is closed and stop accepting.")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				backoff = nextBackoff(backoff)
				s.logger.Warn("[server] accept err: %s, retrying in %v", err.Error(), backoff)
				time.Sleep(backoff)
				continue
			}
			return err
		}
		backoff = 0

		if !s.track(conn) {
			_ = conn.Close()
			return nil
		}
		safego.Go(func() {
			defer s.untrack()
			s.handleConnection(conn)
		})
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return 5 * time.Millisecond
	}
	if d *= 2; d > time.Second {
		d = time.Second
	}
	return d
}

func (s *Server) track(conn net.Conn) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return false
	}
	s.conns.Add(1)
	atomic.AddInt64(&s.connCnt, 1)
	return true
}

func (s *Server) untrack() {
	atomic.AddInt64(&s.connCnt, -1)
	s.conns.Done()
}

// Close stops accepting and waits for in flight connections to finish.
func (s *Server) Close() {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	l := s.listener
	s.lock.Unlock()

	if l != nil {
		s.logger.Info("[server] Close %s. ", l.Addr().String())
		if err := l.Close(); err != nil {
			s.logger.Warn("[server] Close %s err: %s .", l.Addr().String(), err.Error())
		}
	}
	s.conns.Wait()
	s.logger.Info("[server] Close %s success.", s.options.Name)
}

// Addr is nil until the server listens.
func (s *Server) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) GetConnectionCount() int {
	return int(atomic.LoadInt64(&s.connCnt))
}
