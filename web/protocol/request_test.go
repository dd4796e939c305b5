package protocol

import (
	"testing"

	"github.com/caiflower/staticweb/web/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		method  string
		path    string
		version string
		headers map[string]string
	}{
		{
			name:    "full head",
			input:   "GET /index.html HTTP/1.1\r\nHost: localhost:3000\r\nUser-Agent: curl/8.0\r\n\r\n",
			method:  "GET",
			path:    "/index.html",
			version: "HTTP/1.1",
			headers: map[string]string{"host": "localhost:3000", "user-agent": "curl/8.0"},
		},
		{
			name:    "no version no newline",
			input:   "GET /old",
			method:  "GET",
			path:    "/old",
			headers: map[string]string{},
		},
		{
			name:    "bare LF and duplicate headers",
			input:   "HEAD /docs HTTP/1.0\nX-A: 1\nx-a:  2 \nbroken line\n\nbody",
			method:  "HEAD",
			path:    "/docs",
			version: "HTTP/1.0",
			headers: map[string]string{"x-a": "2"},
		},
		{
			name:    "unterminated header is ignored",
			input:   "GET / HTTP/1.1\r\nHost: a\r\nAcce",
			method:  "GET",
			path:    "/",
			version: "HTTP/1.1",
			headers: map[string]string{"host": "a"},
		},
		{
			name:    "raw path is kept",
			input:   "GET /a%20b/../c?x=1 HTTP/1.1\r\n",
			method:  "GET",
			path:    "/a%20b/../c?x=1",
			version: "HTTP/1.1",
			headers: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.version, req.Version)
			assert.Equal(t, tt.headers, req.Headers)
		})
	}
}

func TestParseRequestHeaderLookup(t *testing.T) {
	req, err := ParseRequest([]byte("GET / HTTP/1.1\r\nContent-Type: text/plain\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", req.Header("content-type"))
	assert.Equal(t, "text/plain", req.Header("CONTENT-TYPE"))
	assert.Equal(t, "", req.Header("Host"))
}

func TestParseRequestMalformed(t *testing.T) {
	for _, input := range []string{
		"",
		"GET",
		"GET\r\n/index.html",
		" /index.html HTTP/1.1",
		"GET  /index.html",
		"GET index.html HTTP/1.1",
		"GET http://example.com/ HTTP/1.1",
	} {
		req, err := ParseRequest([]byte(input))
		assert.Nil(t, req, input)
		assert.True(t, e.Is(err, e.MalformedRequest), input)
	}
}

func TestIsRequestLineComplete(t *testing.T) {
	assert.False(t, IsRequestLineComplete([]byte("GET /")))
	assert.True(t, IsRequestLineComplete([]byte("GET / HTTP/1.1\n")))
	assert.True(t, IsRequestLineComplete([]byte("GET / HTTP/1.1\r\nHost")))
}
