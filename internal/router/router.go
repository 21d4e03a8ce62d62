package router

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vyrodovalexey/avarouter/internal/metrics"
	"github.com/vyrodovalexey/avarouter/internal/observability"
	"github.com/vyrodovalexey/avarouter/internal/response"
	"github.com/vyrodovalexey/avarouter/internal/static"
	"github.com/vyrodovalexey/avarouter/internal/util"
)

// Handler processes one matched request. It receives a fresh Builder
// seeded with the router's header defaults, the extracted path
// parameters (nil when the pattern binds none), and the query mapping.
// A returned error or a panic is converted to a 500 response by the
// dispatcher; neither escapes Dispatch.
type Handler func(req *http.Request, b *response.Builder, params Params, query Query) (*response.Response, error)

// StaticDelegate is the directory-serving collaborator invoked for
// wildcard static routes. rest is the remainder captured by the mount
// wildcard.
type StaticDelegate interface {
	Serve(req *http.Request, rest string) (*response.Response, error)
}

// route is a single immutable route entry.
type route struct {
	method   string
	pattern  *Pattern
	handler  Handler
	delegate StaticDelegate
}

// Router holds an ordered route table and dispatches requests against
// it. Registration must complete before serving begins; the table is
// read-only during dispatch, so matching needs no locking.
type Router struct {
	routes   []*route
	defaults http.Header
	logger   observability.Logger
	metrics  *metrics.DispatchMetrics
}

// Option is a functional option for configuring the router.
type Option func(*Router)

// WithLogger sets the logger used for dispatch failures.
func WithLogger(logger observability.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithHeaderDefaults overrides the default header set seeded into each
// per-request builder. The headers are copied per request, never
// shared mutable state.
func WithHeaderDefaults(defaults http.Header) Option {
	return func(r *Router) {
		r.defaults = defaults
	}
}

// New creates a new router.
func New(opts ...Option) *Router {
	r := &Router{
		defaults: response.DefaultHeaders(),
		logger:   observability.NopLogger(),
		metrics:  metrics.GetDispatchMetrics(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Handle appends a route entry for method and template. Templates with
// wildcard segments are rejected; wildcards are reserved for static
// mounts. Duplicate (method, pattern) registrations are both kept, and
// the earlier one always wins by first-match order.
func (r *Router) Handle(method, template string, handler Handler) error {
	if handler == nil {
		return util.WrapError(util.ErrInvalidInput, fmt.Sprintf("nil handler for %s %s", method, template))
	}

	pattern, err := CompilePattern(template)
	if err != nil {
		return err
	}
	if pattern.wildcard {
		return util.NewPatternError(template, "wildcard segments are reserved for static mounts")
	}

	r.routes = append(r.routes, &route{
		method:  canonicalMethod(method),
		pattern: pattern,
		handler: handler,
	})

	return nil
}

// GET registers a GET route.
func (r *Router) GET(template string, handler Handler) error {
	return r.Handle(http.MethodGet, template, handler)
}

// POST registers a POST route.
func (r *Router) POST(template string, handler Handler) error {
	return r.Handle(http.MethodPost, template, handler)
}

// PUT registers a PUT route.
func (r *Router) PUT(template string, handler Handler) error {
	return r.Handle(http.MethodPut, template, handler)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(template string, handler Handler) error {
	return r.Handle(http.MethodDelete, template, handler)
}

// OPTIONS registers an OPTIONS route.
func (r *Router) OPTIONS(template string, handler Handler) error {
	return r.Handle(http.MethodOptions, template, handler)
}

// Mount appends a GET route at basePath plus a wildcard suffix whose
// requests are delegated to the given collaborator.
func (r *Router) Mount(basePath string, delegate StaticDelegate) error {
	if delegate == nil {
		return util.WrapError(util.ErrInvalidInput, "nil static delegate for "+basePath)
	}

	template := strings.TrimSuffix(basePath, "/") + "/*"
	pattern, err := CompilePattern(template)
	if err != nil {
		return err
	}

	r.routes = append(r.routes, &route{
		method:   http.MethodGet,
		pattern:  pattern,
		delegate: delegate,
	})

	return nil
}

// MountStatic mounts a directory at basePath, serving it through the
// static delegate with the given options merged over the defaults.
func (r *Router) MountStatic(basePath, dir string, opts *static.Options) error {
	return r.Mount(basePath, static.New(dir, opts, r.logger))
}

// EnableCORS prepends a wildcard OPTIONS route that unconditionally
// answers 204 with the default CORS header set and an empty body.
// Because it is prepended it wins over any other OPTIONS route,
// whenever registered.
func (r *Router) EnableCORS() {
	pattern, err := CompilePattern("/*")
	if err != nil {
		// "/*" is a constant, valid template.
		panic(err)
	}

	preflight := &route{
		method:  http.MethodOptions,
		pattern: pattern,
		handler: func(_ *http.Request, b *response.Builder, _ Params, _ Query) (*response.Response, error) {
			return b.Status(http.StatusNoContent).Send(nil), nil
		},
	}

	r.routes = append([]*route{preflight}, r.routes...)
}

// Dispatch performs the request/response cycle: scan the route table
// in registration order, invoke the first matching entry, and return
// its response. It never returns an error or panics to its caller;
// failures differ only in status code and body.
func (r *Router) Dispatch(req *http.Request) *response.Response {
	start := time.Now()
	// Match against the escaped path: net/http has already decoded
	// URL.Path once, and Match decodes parameter segments itself.
	path := req.URL.EscapedPath()
	query := ParseQuery(req.URL.RawQuery)

	for _, rt := range r.routes {
		if rt.method != req.Method {
			continue
		}
		matched, params := rt.pattern.Match(path)
		if !matched {
			continue
		}

		var resp *response.Response
		if rt.delegate != nil {
			// Static routes bypass the failure-isolation wrapper:
			// the delegate's response or failure comes back as-is,
			// with only a minimal 500 conversion since Dispatch
			// cannot surface an error.
			resp = r.serveStatic(req, rt, params)
		} else {
			resp = r.invoke(req, rt, params, query)
		}

		r.metrics.RecordRequest(rt.pattern.Template(), rt.method, resp.StatusCode, time.Since(start))
		return resp
	}

	r.metrics.RecordNotFound(req.Method)
	return r.notFound()
}

// invoke runs a matched handler with failure isolation. An error or a
// panic is logged with the failing route's context and converted to a
// fixed 500 response; partial builder state never leaks.
func (r *Router) invoke(req *http.Request, rt *route, params Params, query Query) (resp *response.Response) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panic recovered",
				observability.String("method", rt.method),
				observability.String("route", rt.pattern.Template()),
				observability.Any("panic", rec),
			)
			r.metrics.RecordHandlerFailure(rt.pattern.Template(), rt.method)
			resp = r.serverError()
		}
	}()

	b := response.NewBuilder(r.defaults)
	resp, err := rt.handler(req, b, params, query)
	if err != nil {
		r.logger.Error("handler failed",
			observability.String("method", rt.method),
			observability.String("route", rt.pattern.Template()),
			observability.Error(util.NewHandlerError(rt.method, rt.pattern.Template(), err)),
		)
		r.metrics.RecordHandlerFailure(rt.pattern.Template(), rt.method)
		return r.serverError()
	}
	if resp == nil {
		r.logger.Error("handler returned no response",
			observability.String("method", rt.method),
			observability.String("route", rt.pattern.Template()),
		)
		r.metrics.RecordHandlerFailure(rt.pattern.Template(), rt.method)
		return r.serverError()
	}

	return resp
}

// serveStatic delegates to the mount's collaborator.
func (r *Router) serveStatic(req *http.Request, rt *route, params Params) *response.Response {
	resp, err := rt.delegate.Serve(req, params[WildcardKey])
	if err != nil {
		r.logger.Error("static delegate failed",
			observability.String("route", rt.pattern.Template()),
			observability.Error(err),
		)
		return r.serverError()
	}
	return resp
}

// notFound produces the fixed fallback response for unmatched requests.
func (r *Router) notFound() *response.Response {
	return response.NewBuilder(r.defaults).
		Status(http.StatusNotFound).
		Send(response.Text("404"))
}

// serverError produces the fixed response for isolated handler
// failures. No detail from the failed handler is leaked.
func (r *Router) serverError() *response.Response {
	return response.NewBuilder(r.defaults).
		Status(http.StatusInternalServerError).
		Send(response.Text("internal server error"))
}

// canonicalMethod normalizes a verb to its canonical uppercase form.
// Matching itself stays exact and case-sensitive.
func canonicalMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
