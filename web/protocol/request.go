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
	"strings"

	"github.com/caiflower/staticweb/web/e"
)

// Request is the parsed head of one HTTP request. It is not modified after ParseRequest returns.
type Request struct {
	Method  string
	Path    string
	Version string
	// keys are lower case, the last duplicate wins
	Headers map[string]string
}

func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// ParseRequest parses the request line and any complete header lines already in buf.
// Only method and path are required, the version token is kept but never validated.
func ParseRequest(buf []byte) (*Request, error) {
	line, rest, _ := cutLine(buf)

	fields := strings.Split(string(line), " ")
	if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
		return nil, e.Newf(e.MalformedRequest, "invalid request line %q", truncate(line))
	}
	if !strings.HasPrefix(fields[1], "/") {
		return nil, e.Newf(e.MalformedRequest, "request target %q is not an absolute path", truncate([]byte(fields[1])))
	}

	req := &Request{
		Method:  fields[0],
		Path:    fields[1],
		Headers: make(map[string]string),
	}
	if len(fields) > 2 {
		req.Version = fields[2]
	}

	for {
		var ok bool
		line, rest, ok = cutLine(rest)
		if !ok || len(line) == 0 {
			// an unterminated trailing line may be cut short, skip it
			break
		}
		kv := strings.SplitN(string(line), ":", 2)
		if len(kv) != 2 {
			continue
		}
		req.Headers[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}

	return req, nil
}

// IsRequestLineComplete reports whether buf already holds a full request line.
func IsRequestLineComplete(buf []byte) bool {
	return bytes.IndexByte(buf, '\n') >= 0
}

// cutLine returns the first line without its line ending. ok is false when buf has no newline, line is then all of buf.
func cutLine(buf []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return bytes.TrimSuffix(buf, []byte("\r")), nil, false
	}
	return bytes.TrimSuffix(buf[:i], []byte("\r")), buf[i+1:], true
}

func truncate(b []byte) string {
	if len(b) > 64 {
		return string(b[:64]) + "..."
	}
	return string(b)
}
