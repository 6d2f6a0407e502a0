package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request describes one outbound call. It is never mutated by the client,
// so the same value can be replayed after a renewal.
type Request struct {
	Method string
	Path   string // relative to the base URL, e.g. "/group/42"
	Query  url.Values
	Body   any
	Header http.Header
}

// Get builds a GET request.
func Get(path string) Request { return Request{Method: http.MethodGet, Path: path} }

// Post builds a POST request with a JSON body.
func Post(path string, body any) Request {
	return Request{Method: http.MethodPost, Path: path, Body: body}
}

// Put builds a PUT request with a JSON body.
func Put(path string, body any) Request {
	return Request{Method: http.MethodPut, Path: path, Body: body}
}

// Patch builds a PATCH request with a JSON body.
func Patch(path string, body any) Request {
	return Request{Method: http.MethodPatch, Path: path, Body: body}
}

// Delete builds a DELETE request.
func Delete(path string) Request { return Request{Method: http.MethodDelete, Path: path} }

// WithQuery returns a copy of r with the query parameter key set.
func (r Request) WithQuery(key, value string) Request {
	q := url.Values{}
	for k, v := range r.Query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(key, value)
	r.Query = q
	return r
}

// resource is the first path segment, used as the metrics label and rate-limit key.
func (r Request) resource() string {
	p := strings.TrimPrefix(r.Path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

// encodeBody marshals the request body once so every attempt sends identical bytes.
func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}

// Unwrap returns the data member of a {success, data} envelope, or the
// whole body when there is no data member. An empty body yields null.
func Unwrap(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if trimmed[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if data, ok := env["data"]; ok {
				return data
			}
		}
	}
	return json.RawMessage(trimmed)
}

// failedEnvelope reports whether a 2xx body still declares success:false.
func failedEnvelope(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	var env struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return false
	}
	return env.Success != nil && !*env.Success
}
