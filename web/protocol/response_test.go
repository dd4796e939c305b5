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

package protocol

import (
	"bytes"
	"testing"

	"github.com/caiflower/staticweb/web/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	bytes.Buffer
	closeWrite int
	closed     int
}

func (m *mockConn) CloseWrite() error {
	m.closeWrite++
	return nil
}

func (m *mockConn) Close() error {
	m.closed++
	return nil
}

func TestResponseRoundTrip(t *testing.T) {
	conn := &mockConn{}
	resp := NewResponse(conn).SetStatus(StatusOK).SetHeader("Content-Type", "text/plain")
	require.NoError(t, resp.Send([]byte("hi")))

	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/plain \r\n\r\nhi", conn.String())
	assert.Equal(t, 1, conn.closeWrite)
	assert.Equal(t, 1, conn.closed)
	assert.True(t, resp.Sent())
	assert.Equal(t, []byte("hi"), resp.Body())
}

func TestResponseFraming(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		headers [][2]string
		body    string
		want    string
	}{
		{
			name:   "default content type",
			status: StatusNotFound,
			body:   "NOT FOUND!",
			want:   "HTTP/1.1 404 Page Not Found\r\nContent-Type: text/html \r\n\r\nNOT FOUND!",
		},
		{
			name:    "redirect with empty body keeps insertion order",
			status:  StatusPermanentRedirect,
			headers: [][2]string{{"Location", "/new"}, {"X-Trace", "1"}, {"Location", "/newer"}},
			want:    "HTTP/1.1 308 Permanent Redirect\r\nLocation: /newer \r\nX-Trace: 1 \r\nContent-Type: text/html \r\n\r\n",
		},
		{
			name:   "internal error",
			status: StatusInternalServerError,
			body:   "INTERNAL ERROR!",
			want:   "HTTP/1.1 500 Internal Server Error\r\nContent-Type: text/html \r\n\r\nINTERNAL ERROR!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &mockConn{}
			resp := NewResponse(conn).SetStatus(tt.status)
			for _, h := range tt.headers {
				resp.SetHeader(h[0], h[1])
			}
			require.NoError(t, resp.Send([]byte(tt.body)))
			assert.Equal(t, tt.want, conn.String())
		})
	}
}

func TestResponseSendTwice(t *testing.T) {
	conn := &mockConn{}
	resp := NewResponse(conn)
	require.NoError(t, resp.Send(nil))
	first := conn.String()

	err := resp.Send([]byte("again"))
	assert.True(t, e.Is(err, e.AlreadySent))
	assert.Equal(t, first, conn.String())
	assert.Equal(t, 1, conn.closed)
}

func TestResponseInvalidStatus(t *testing.T) {
	conn := &mockConn{}
	resp := NewResponse(conn).SetStatus(418)
	err := resp.Send([]byte("teapot"))
	assert.True(t, e.Is(err, e.InvalidStatus))
	assert.False(t, resp.Sent())
	assert.Equal(t, 0, conn.Len())
	assert.Equal(t, 0, conn.closed)

	_, err = resp.Bytes(nil)
	assert.True(t, e.Is(err, e.InvalidStatus))
}

func TestResponseAccessors(t *testing.T) {
	resp := NewResponse(&bytes.Buffer{})
	assert.Equal(t, StatusOK, resp.StatusCode())
	_, ok := resp.Header(HeaderContentType)
	assert.False(t, ok)

	resp.SetHeader(HeaderContentType, "image/png")
	v, ok := resp.Header(HeaderContentType)
	assert.True(t, ok)
	assert.Equal(t, "image/png", v)

	assert.Equal(t, "OK", StatusText(200))
	assert.Equal(t, "", StatusText(201))
}

func TestResponseHeaderNamesIgnoreCase(t *testing.T) {
	conn := &mockConn{}
	resp := NewResponse(conn).SetHeader("content-type", "text/plain").SetHeader("X-Trace", "1")
	resp.SetHeader("x-trace", "2")

	v, ok := resp.Header("Content-Type")
	assert.True(t, ok)
	assert.Equal(t, "text/plain", v)

	require.NoError(t, resp.Send([]byte("hi")))
	assert.Equal(t, "HTTP/1.1 200 OK\r\ncontent-type: text/plain \r\nx-trace: 2 \r\n\r\nhi", conn.String())
}

func TestResponseBytesLeavesHeadersAlone(t *testing.T) {
	resp := NewResponse(&bytes.Buffer{})

	data, err := resp.Bytes(nil)
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\nContent-Type: text/html \r\n\r\n", string(data))

	_, ok := resp.Header(HeaderContentType)
	assert.False(t, ok)
	assert.False(t, resp.Sent())
}
