package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Devgupta0/Employee-Org-App/internal/routing"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type HandlerOptions struct {
	Facade services.OrgChartFacade
	Logger *zap.Logger
	// Registry receives the org chart collectors and backs /metrics. A fresh
	// registry is used when nil.
	Registry *prometheus.Registry
	// AllowlistPath overrides ALLOWLIST_PATH and the default lookup.
	AllowlistPath string
}

func NewHandler(facade services.OrgChartFacade) (http.Handler, error) {
	return NewHandlerWithOptions(HandlerOptions{Facade: facade})
}

func NewHandlerWithOptions(opts HandlerOptions) (http.Handler, error) {
	if opts.Facade.OrgTree() == nil {
		return nil, errors.New("server: missing org chart")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	allowlistPath := opts.AllowlistPath
	if allowlistPath == "" {
		allowlistPath = os.Getenv("ALLOWLIST_PATH")
	}
	if allowlistPath == "" {
		p, err := defaultAllowlistPath()
		if err != nil {
			return nil, err
		}
		allowlistPath = p
	}

	a, err := routing.LoadAllowlist(allowlistPath)
	if err != nil {
		return nil, err
	}
	classifier, err := routing.NewClassifier(a, "server")
	if err != nil {
		return nil, err
	}
	ep := a.Entrypoints["server"]

	m, err := newMetrics(reg, opts.Facade.OrgTree())
	if err != nil {
		return nil, err
	}

	router := routing.NewRouter(classifier)
	router.Observe(func(r *http.Request, route string, status int, elapsed time.Duration) {
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
		)
	})
	router.OnPanic(func(r *http.Request, rec any, stack []byte) {
		logger.Error("http handler panic",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Any("panic", rec),
			zap.ByteString("stack", stack),
		)
	})

	var missing []string
	handle := func(rc routing.RouteClass, method string, path string, h http.HandlerFunc) {
		if !ep.Allows(method, path) {
			missing = append(missing, method+" "+path)
			return
		}
		router.Handle(rc, method, path, h)
	}

	api := orgChartAPI{facade: opts.Facade, metrics: m}
	ui := orgChartUI{facade: opts.Facade, metrics: m}

	handle(routing.RouteClassOps, http.MethodGet, "/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	handle(routing.RouteClassOps, http.MethodGet, "/metrics", metricsHandler.ServeHTTP)

	handle(routing.RouteClassUI, http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, chartPath, http.StatusFound)
	})
	handle(routing.RouteClassUI, http.MethodGet, chartPath, ui.handleChart)
	handle(routing.RouteClassUI, http.MethodPost, chartPath+"/move", ui.handleMove)
	handle(routing.RouteClassUI, http.MethodPost, chartPath+"/undo", ui.handleUndo)
	handle(routing.RouteClassUI, http.MethodPost, chartPath+"/redo", ui.handleRedo)

	handle(routing.RouteClassInternalAPI, http.MethodGet, "/org/api/employees", api.handleTree)
	handle(routing.RouteClassInternalAPI, http.MethodGet, "/org/api/employees/{id}", api.handleEmployee)
	handle(routing.RouteClassInternalAPI, http.MethodPost, "/org/api/employees:move", api.handleMove)
	handle(routing.RouteClassInternalAPI, http.MethodPost, "/org/api/employees:undo", api.handleUndo)
	handle(routing.RouteClassInternalAPI, http.MethodPost, "/org/api/employees:redo", api.handleRedo)
	handle(routing.RouteClassInternalAPI, http.MethodGet, "/org/api/history", api.handleHistory)

	if len(missing) > 0 {
		return nil, fmt.Errorf("server: routes missing from allowlist %s: %v", allowlistPath, missing)
	}
	return router, nil
}

func MustNewHandler(facade services.OrgChartFacade) http.Handler {
	h, err := NewHandler(facade)
	if err != nil {
		panic(errors.New("server: failed to build handler: " + err.Error()))
	}
	return h
}

func defaultAllowlistPath() (string, error) {
	path := "config/routing/allowlist.yaml"
	for range 8 {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = filepath.Join("..", path)
	}
	return "", errors.New("server: allowlist not found")
}
