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
	"errors"
	"io"
	"net"
	"time"

	"github.com/caiflower/staticweb/pkg/e"
	golocalv1 "github.com/caiflower/staticweb/pkg/golocal/v1"
	"github.com/caiflower/staticweb/pkg/tools"
	"github.com/caiflower/staticweb/web/protocol"
)

const (
	defaultMaxRequestBytes = 8192
	readChunkSize          = 1024
)

// handleConnection serves exactly one request on conn and closes it.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer golocalv1.Clean()
	golocalv1.PutTraceID(tools.UUID())
	if addr := conn.RemoteAddr(); addr != nil {
		golocalv1.Put(golocalv1.RemoteAddr, addr.String())
	}
	defer e.OnErrorLog(s.logger, "handleConnection")

	buf, err := s.readRequest(conn)
	if err != nil {
		s.logger.Warn("[server] read request err: %s", err.Error())
	}
	if len(buf) == 0 {
		s.logger.Debug("[server] connection closed without data, drop it.")
		return
	}

	req, err := protocol.ParseRequest(buf)
	if err != nil {
		s.logger.Warn("[server] %s", err.Error())
		return
	}

	if err = s.handler.Dispatch(req, protocol.NewResponse(conn)); err != nil {
		s.logger.Error("[server] dispatch %s err: %s", req.Path, err.Error())
	}
}

// readRequest buffers until the request line is complete, the peer stops sending, the read deadline
// passes or MaxRequestBytes is reached. The buffered bytes are returned in every case.
func (s *Server) readRequest(conn net.Conn) ([]byte, error) {
	if s.options.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.options.ReadTimeout)); err != nil {
			return nil, err
		}
	}
	limit := s.options.MaxRequestBytes
	if limit <= 0 {
		limit = defaultMaxRequestBytes
	}

	buf := make([]byte, 0, readChunkSize)
	chunk := make([]byte, readChunkSize)
	for len(buf) < limit {
		size := limit - len(buf)
		if size > len(chunk) {
			size = len(chunk)
		}
		n, err := conn.Read(chunk[:size])
		buf = append(buf, chunk[:n]...)
		if protocol.IsRequestLineComplete(buf) {
			return buf, nil
		}
		if err != nil {
			var ne net.Error
			if errors.Is(err, io.EOF) || (errors.As(err, &ne) && ne.Timeout()) {
				return buf, nil
			}
			return buf, err
		}
	}
	return buf, nil
}
