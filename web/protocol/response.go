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
	"io"
	"strconv"
	"strings"

	"github.com/caiflower/staticweb/pkg/basic"
	"github.com/caiflower/staticweb/web/e"
)

const (
	Version = "HTTP/1.1"

	StatusOK                  = 200
	StatusPermanentRedirect   = 308
	StatusNotFound            = 404
	StatusInternalServerError = 500

	HeaderContentType  = "Content-Type"
	HeaderLocation     = "Location"
	DefaultContentType = "text/html"
)

var statusText = map[int]string{
	StatusOK:                  "OK",
	StatusPermanentRedirect:   "Permanent Redirect",
	StatusNotFound:            "Page Not Found",
	StatusInternalServerError: "Internal Server Error",
}

// StatusText returns "" for codes this server never sends.
func StatusText(code int) string {
	return statusText[code]
}

type headerField struct {
	name  string
	value string
}

type closeWriter interface {
	CloseWrite() error
}

// Response is built with SetStatus and SetHeader and sent exactly once.
type Response struct {
	dst        io.Writer
	statusCode int
	version    string
	// keyed by lower case name, the field keeps the name as last set
	headers    *basic.LinkedHashMap[headerField]
	body       []byte
	sent       bool
}

// NewResponse creates a 200 response that Send writes to dst. dst is closed after sending when it is an io.Closer.
func NewResponse(dst io.Writer) *Response {
	return &Response{
		dst:        dst,
		statusCode: StatusOK,
		version:    Version,
		headers:    basic.NewLinkedHashMap[headerField](),
	}
}

func (resp *Response) SetStatus(statusCode int) *Response {
	resp.statusCode = statusCode
	return resp
}

// SetHeader replaces any header with the same case-insensitive name, keeping its position.
func (resp *Response) SetHeader(name, value string) *Response {
	resp.headers.Put(strings.ToLower(name), headerField{name: name, value: value})
	return resp
}

func (resp *Response) Header(name string) (string, bool) {
	field, ok := resp.headers.Get(strings.ToLower(name))
	return field.value, ok
}

func (resp *Response) StatusCode() int {
	return resp.statusCode
}

func (resp *Response) Body() []byte {
	return resp.body
}

func (resp *Response) Sent() bool {
	return resp.sent
}

// Bytes serializes the response with body as payload. It does not mark the response as sent.
func (resp *Response) Bytes(body []byte) ([]byte, error) {
	text := StatusText(resp.statusCode)
	if text == "" {
		return nil, e.Newf(e.InvalidStatus, "status code %d is not supported", resp.statusCode)
	}

	var buf bytes.Buffer
	buf.Grow(128 + len(body))
	buf.WriteString(resp.version)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(resp.statusCode))
	buf.WriteByte(' ')
	buf.WriteString(text)
	buf.WriteString("\r\n")
	resp.headers.Range(func(_ string, field headerField) bool {
		writeHeader(&buf, field.name, field.value)
		return true
	})
	if !resp.headers.Contains(strings.ToLower(HeaderContentType)) {
		writeHeader(&buf, HeaderContentType, DefaultContentType)
	}
	buf.WriteString("\r\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// Send writes the response, half-closes the destination for writing and closes it.
// A second call fails with AlreadySent, an unknown status with InvalidStatus and nothing is written.
func (resp *Response) Send(body []byte) error {
	if resp.sent {
		return e.Newf(e.AlreadySent, "response %d already sent", resp.statusCode)
	}
	data, err := resp.Bytes(body)
	if err != nil {
		return err
	}
	resp.sent = true
	resp.body = body

	_, err = resp.dst.Write(data)
	if cw, ok := resp.dst.(closeWriter); ok {
		_ = cw.CloseWrite()
	}
	if c, ok := resp.dst.(io.Closer); ok {
		_ = c.Close()
	}
	return err
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	buf.WriteString(name)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString(" \r\n")
}
