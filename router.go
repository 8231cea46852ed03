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
	"fmt"
	"net/http"
	"path"
	"strings"
	"sync"
)

// Handler is the framework handler signature used by middleware.
type Handler func(*Context)

// Middleware composes a handler with cross-cutting concerns.
type Middleware func(Handler) Handler

// Endpoint is the body of a route. The returned value is written with the
// route's declared status: nil writes no body, a string is sent as text and
// anything else is encoded as JSON. A non-nil error is a handler fault.
type Endpoint func(*Context) (any, error)

// Header is a fixed response header declared on a route.
type Header struct {
	Key   string
	Value string
}

// Redirect is a declared redirect target.
type Redirect struct {
	URL    string
	Status int
}

// Effects are the response side effects declared on a route.
type Effects struct {
	Status   int
	Headers  []Header
	Redirect *Redirect
}

func (e Effects) status() int {
	if e.Status == 0 {
		return http.StatusOK
	}
	return e.Status
}

// Route is one entry of the ordered route table.
type Route struct {
	Method  string
	Pattern string
	Effects Effects

	pattern  pattern
	endpoint Endpoint
	mw       []Middleware
	handler  Handler
}

// RouteOption declares effects or middleware on a route at registration.
type RouteOption func(*Route)

// HTTPCode overrides the default 200 status of a route.
func HTTPCode(code int) RouteOption {
	return func(rt *Route) { rt.Effects.Status = code }
}

// WithHeader adds a fixed response header, set before the endpoint runs.
func WithHeader(key, value string) RouteOption {
	return func(rt *Route) { rt.Effects.Headers = append(rt.Effects.Headers, Header{Key: key, Value: value}) }
}

// RedirectTo declares a redirect that is issued whenever the endpoint returns
// no result. A status of 0 means 302.
func RedirectTo(url string, code int) RouteOption {
	if code == 0 {
		code = http.StatusFound
	}
	return func(rt *Route) { rt.Effects.Redirect = &Redirect{URL: url, Status: code} }
}

// WithMiddleware wraps only this route's endpoint.
func WithMiddleware(mw ...Middleware) RouteOption {
	return func(rt *Route) { rt.mw = append(rt.mw, mw...) }
}

// Router dispatches requests against an ordered route table. Within a method
// the first matching entry wins, so more specific patterns must be registered
// before the parameter or wildcard patterns that would also match them.
type Router struct {
	mu          sync.RWMutex
	routes      []*Route
	mw          []Middleware
	notFound    Handler
	MaxBodySize int64 // max request body bytes for BindJSON; 0 means 10MB default

	// ErrorHandler, when set, replaces the default not-found and fault
	// responses. It receives the status (404 or 500) and an error wrapping
	// ErrRouteNotFound or ErrHandlerFault.
	ErrorHandler func(*Context, int, error)
}

// New creates a new Router.
func New() *Router {
	r := &Router{}
	r.notFound = func(c *Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not found",
			Message: fmt.Sprintf("Cannot %s %s", c.R.Method, c.R.URL.Path),
		})
	}
	return r
}

// Use adds router-level middleware.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mw = append(r.mw, mw...)
}

// NotFound sets a custom handler for 404 responses. Router-level middleware is applied at request time.
func (r *Router) NotFound(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = h
}

// Handle appends a route to the table. It panics if an earlier route of the
// same method already matches every path the new pattern could match.
func (r *Router) Handle(method, p string, e Endpoint, opts ...RouteOption) {
	r.handleWithPrefix("", method, p, e, opts...)
}

func (r *Router) handleWithPrefix(prefix, method, p string, e Endpoint, opts ...RouteOption) {
	if e == nil {
		panic("keonk: nil endpoint")
	}
	if p == "" || p[0] != '/' {
		panic("path must start with /")
	}
	if prefix != "" {
		p = path.Join("/", prefix, p)
	}
	rt := &Route{
		Method:   strings.ToUpper(method),
		pattern:  parsePattern(p),
		endpoint: e,
	}
	rt.Pattern = rt.pattern.String()
	for _, opt := range opts {
		opt(rt)
	}
	rt.handler = chain(rt.mw, r.dispatch(rt))

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, prev := range r.routes {
		if prev.Method == rt.Method && prev.pattern.covers(rt.pattern) {
			panic(fmt.Sprintf("keonk: %s %s is shadowed by earlier route %s", rt.Method, rt.Pattern, prev.Pattern))
		}
	}
	r.routes = append(r.routes, rt)
}

// GET registers an endpoint for GET requests to the given path.
func (r *Router) GET(p string, e Endpoint, opts ...RouteOption) {
	r.Handle(http.MethodGet, p, e, opts...)
}

// POST registers an endpoint for POST requests to the given path.
func (r *Router) POST(p string, e Endpoint, opts ...RouteOption) {
	r.Handle(http.MethodPost, p, e, opts...)
}

// PUT registers an endpoint for PUT requests to the given path.
func (r *Router) PUT(p string, e Endpoint, opts ...RouteOption) {
	r.Handle(http.MethodPut, p, e, opts...)
}

// DELETE registers an endpoint for DELETE requests to the given path.
func (r *Router) DELETE(p string, e Endpoint, opts ...RouteOption) {
	r.Handle(http.MethodDelete, p, e, opts...)
}

// Group represents a route group with a common prefix and middleware.
type Group struct {
	r      *Router
	prefix string
	mw     []Middleware
}

// Group creates a new route group.
func (r *Router) Group(prefix string, mw ...Middleware) *Group {
	return &Group{r: r, prefix: strings.Trim(prefix, "/"), mw: mw}
}

// Use adds middleware to group.
func (g *Group) Use(mw ...Middleware) { g.mw = append(g.mw, mw...) }

// Handle registers an endpoint within the group.
func (g *Group) Handle(method, p string, e Endpoint, opts ...RouteOption) {
	all := make([]RouteOption, 0, len(opts)+1)
	if len(g.mw) > 0 {
		all = append(all, WithMiddleware(g.mw...))
	}
	all = append(all, opts...)
	g.r.handleWithPrefix(g.prefix, method, p, e, all...)
}

// GET registers an endpoint for GET requests within the group.
func (g *Group) GET(p string, e Endpoint, opts ...RouteOption) {
	g.Handle(http.MethodGet, p, e, opts...)
}

// POST registers an endpoint for POST requests within the group.
func (g *Group) POST(p string, e Endpoint, opts ...RouteOption) {
	g.Handle(http.MethodPost, p, e, opts...)
}

// PUT registers an endpoint for PUT requests within the group.
func (g *Group) PUT(p string, e Endpoint, opts ...RouteOption) {
	g.Handle(http.MethodPut, p, e, opts...)
}

// DELETE registers an endpoint for DELETE requests within the group.
func (g *Group) DELETE(p string, e Endpoint, opts ...RouteOption) {
	g.Handle(http.MethodDelete, p, e, opts...)
}

// Routes returns a snapshot of the route table in registration order.
func (r *Router) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, Route{Method: rt.Method, Pattern: rt.Pattern, Effects: rt.Effects})
	}
	return out
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	c := newContext(w, req)

	r.mu.RLock()
	escaped := req.URL.EscapedPath()
	rt, params := r.find(req.Method, escaped)
	if rt == nil && req.Method == http.MethodHead {
		// Auto HEAD: fall back to the GET entry if no explicit HEAD entry matches.
		rt, params = r.find(http.MethodGet, escaped)
	}
	var h Handler
	if rt == nil {
		h = r.errorHandler(http.StatusNotFound, ErrRouteNotFound)
	} else {
		c.params = params
		c.route = rt
		h = rt.handler
	}
	c.maxBodySize = r.MaxBodySize
	c.onError = r.ErrorHandler
	mw := r.mw
	r.mu.RUnlock()

	h = chain(mw, h)
	h(c)
}

// dispatch turns an endpoint and its declared effects into a Handler.
func (r *Router) dispatch(rt *Route) Handler {
	return func(c *Context) {
		for _, hd := range rt.Effects.Headers {
			c.SetHeader(hd.Key, hd.Value)
		}
		res, err := rt.endpoint(c)
		if err != nil {
			c.fault(err)
			return
		}
		if c.wrote {
			return
		}
		if rd := rt.Effects.Redirect; rd != nil && res == nil {
			c.Redirect(rd.Status, rd.URL)
			return
		}
		c.Reply(rt.Effects.status(), res)
	}
}

// errorHandler returns the handler for a routing failure. When a custom
// ErrorHandler is set it is used; otherwise the default notFound handler.
func (r *Router) errorHandler(status int, err error) Handler {
	if r.ErrorHandler != nil {
		eh := r.ErrorHandler
		return func(c *Context) { eh(c, status, err) }
	}
	return r.notFound
}

func (r *Router) find(method, urlPath string) (*Route, map[string]string) {
	method = strings.ToUpper(method)
	for _, rt := range r.routes {
		if rt.Method != method {
			continue
		}
		if params, ok := rt.pattern.match(urlPath); ok {
			return rt, params
		}
	}
	return nil, nil
}

// chain composes middlewares around a final handler
func chain(mw []Middleware, h Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// Context key types to avoid collisions

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// WithRequestID injects a request id into context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestID extracts the request correlation ID from ctx.
func RequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyRequestID).(string)
	return v, ok
}
