package routing

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"
)

// Observer is told about every request once it has been served. route is the
// registered path or pattern, empty for unmatched requests.
type Observer func(r *http.Request, route string, status int, elapsed time.Duration)

type Router struct {
	classifier *Classifier
	routes     map[string]map[string]routeEntry
	patterns   []patternRoutes
	observer   Observer
	onPanic    func(r *http.Request, rec any, stack []byte)
}

type routeEntry struct {
	rc      RouteClass
	handler http.Handler
}

type patternRoutes struct {
	pattern PathPattern
	methods map[string]routeEntry
}

type paramsKey struct{}

func NewRouter(classifier *Classifier) *Router {
	return &Router{
		classifier: classifier,
		routes:     make(map[string]map[string]routeEntry),
	}
}

// Observe installs fn as the request observer.
func (r *Router) Observe(fn Observer) { r.observer = fn }

// OnPanic installs fn to be told about recovered handler panics.
func (r *Router) OnPanic(fn func(r *http.Request, rec any, stack []byte)) { r.onPanic = fn }

func (r *Router) Handle(rc RouteClass, method string, path string, h http.Handler) {
	entry := routeEntry{
		rc: rc,
		handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					if r.onPanic != nil {
						r.onPanic(req, rec, stack)
					}
					WriteError(w, req, rc, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			h.ServeHTTP(w, req)
		}),
	}

	if p, ok := parsePathPattern(path); ok {
		for i := range r.patterns {
			if r.patterns[i].pattern.raw == path {
				r.patterns[i].methods[method] = entry
				return
			}
		}
		r.patterns = append(r.patterns, patternRoutes{pattern: p, methods: map[string]routeEntry{method: entry}})
		return
	}

	if r.routes[path] == nil {
		r.routes[path] = make(map[string]routeEntry)
	}
	r.routes[path][method] = entry
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w}
	route := r.serve(sw, req)
	if r.observer != nil {
		r.observer(req, route, sw.Status(), time.Since(start))
	}
}

func (r *Router) serve(w http.ResponseWriter, req *http.Request) string {
	route := req.URL.Path
	methods, ok := r.routes[req.URL.Path]
	if !ok {
		methods, route, req, ok = r.matchPattern(req)
		if !ok {
			WriteError(w, req, r.classifier.Classify(req.URL.Path), http.StatusNotFound, "not_found", "not found")
			return ""
		}
	}
	entry, ok := methods[req.Method]
	if !ok {
		WriteError(w, req, entrypointClass(methods, r.classifier.Classify(req.URL.Path)), http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return route
	}
	entry.handler.ServeHTTP(w, req)
	return route
}

func (r *Router) matchPattern(req *http.Request) (map[string]routeEntry, string, *http.Request, bool) {
	for _, pr := range r.patterns {
		params, ok := pr.pattern.Params(req.URL.Path)
		if !ok {
			continue
		}
		return pr.methods, pr.pattern.raw, req.WithContext(context.WithValue(req.Context(), paramsKey{}, params)), true
	}
	return nil, "", req, false
}

// PathParam returns a parameter captured by a pattern route.
func PathParam(r *http.Request, name string) string {
	params, _ := r.Context().Value(paramsKey{}).(map[string]string)
	return params[name]
}

func entrypointClass(methods map[string]routeEntry, fallback RouteClass) RouteClass {
	for _, e := range methods {
		return e.rc
	}
	return fallback
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
