/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package keonk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
)

const defaultMaxBodySize = 10 << 20

// Context wraps http primitives and offers helpers for params, JSON, etc.
type Context struct {
	W           http.ResponseWriter
	R           *http.Request
	params      map[string]string
	route       *Route
	status      int
	wrote       bool
	err         error
	maxBodySize int64
	onError     func(*Context, int, error)
}

func newContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{W: w, R: r, params: map[string]string{}}
}

func (c *Context) Param(name string) string { return c.params[name] }

func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }

func (c *Context) Header(key string) string { return c.R.Header.Get(key) }

// RoutePattern returns the pattern of the matched route, or "" when no route matched.
func (c *Context) RoutePattern() string {
	if c.route == nil {
		return ""
	}
	return c.route.Pattern
}

// Err returns the handler fault recorded for this request, if any.
func (c *Context) Err() error { return c.err }

// IsJSON reports whether the request declares a JSON body
// (application/json or any +json media type).
func (c *Context) IsJSON() bool {
	mt, _, err := mime.ParseMediaType(c.R.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// BindJSON decodes a single JSON value from the request body into dst. An
// empty body yields io.EOF; anything after the value is an error.
func (c *Context) BindJSON(dst any) error {
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			slog.Debug("error closing body", slog.String("error", err.Error()))
		}
	}(c.R.Body)
	limit := c.maxBodySize
	if limit <= 0 {
		limit = defaultMaxBodySize
	}
	dec := json.NewDecoder(io.LimitReader(c.R.Body, limit))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("keonk: unexpected data after JSON value")
	}
	return nil
}

func (c *Context) JSON(code int, v any) {
	if !c.wrote {
		c.W.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	c.status = code
	c.W.WriteHeader(code)
	_ = json.NewEncoder(c.W).Encode(v)
	c.wrote = true
}

// Text writes a plain text response
func (c *Context) Text(code int, s string) {
	if !c.wrote {
		c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	c.status = code
	c.W.WriteHeader(code)
	_, _ = c.W.Write([]byte(s))
	c.wrote = true
}

// Reply writes an endpoint result: nil as an empty body, strings as text and
// everything else as JSON.
func (c *Context) Reply(code int, v any) {
	switch x := v.(type) {
	case nil:
		c.Status(code)
	case string:
		c.Text(code, x)
	default:
		c.JSON(code, x)
	}
}

// Redirect sends a redirect to location with code (default 302 if code==0)
func (c *Context) Redirect(code int, location string) {
	if code == 0 {
		code = http.StatusFound
	}
	c.W.Header().Set("Location", location)
	c.Status(code)
}

// SetHeader sets a response header value
func (c *Context) SetHeader(k, v string) { c.W.Header().Set(k, v) }

// Status writes only the status code
func (c *Context) Status(code int) {
	if c.wrote {
		return
	}
	c.status = code
	c.W.WriteHeader(code)
	c.wrote = true
}

func (c *Context) Context() context.Context { return c.R.Context() }

// fault converts an endpoint error into the generic 500 response.
func (c *Context) fault(err error) {
	c.err = fmt.Errorf("%w: %w", ErrHandlerFault, err)
	if c.wrote {
		return
	}
	if c.onError != nil {
		c.onError(c, http.StatusInternalServerError, c.err)
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
