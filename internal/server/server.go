package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/drakos74/devcluster/internal/api"
	"github.com/drakos74/devcluster/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Action string

type Method string

const (
	Data      Action = "data"
	Api       Action = "api"
	Dashboard Action = "dashboard"
	Plot      Action = "plot"

	GET  Method = "GET"
	POST Method = "POST"

	shutdownTimeout = 5 * time.Second
)

// Handler executes a request and returns the payload and the status code.
// Response headers can be set on the given header.
type Handler func(r *http.Request, header http.Header) ([]byte, int, error)

type Route struct {
	Action      Action
	Path        string
	Method      Method
	ContentType string
	Exec        Handler
}

func (r Route) pattern() string {
	if r.Path != "" {
		return fmt.Sprintf("/%s/%s", r.Action, r.Path)
	}
	return fmt.Sprintf("/%s", r.Action)
}

type Server struct {
	name    string
	port    int
	debug   bool
	block   api.Block
	routes  []Route
	metrics *metrics.Metrics
	once    sync.Once
	mux     *http.ServeMux
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:   name,
		port:   port,
		block:  api.NewBlock(),
		routes: make([]Route, 0),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// WithMetrics exposes the given metrics on /metrics and records every request.
func (s *Server) WithMetrics(m *metrics.Metrics) *Server {
	s.metrics = m
	return s
}

// AddRoute adds the given route to the server
func (s *Server) AddRoute(method Method, action Action, path string, exec Handler) *Server {
	s.routes = append(s.routes, Route{
		Action: action,
		Path:   path,
		Method: method,
		Exec:   exec,
	})
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

func (s *Server) handle(route Route) func(w http.ResponseWriter, r *http.Request) {
	// we should only handle one request per time,
	// in order to ease memory footprint.
	name := route.pattern()
	return func(w http.ResponseWriter, r *http.Request) {
		requestMethod := Method(r.Method)
		if requestMethod != route.Method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		start := time.Now()
		request := fmt.Sprintf("%s request : %s", route.Method, name)
		s.block.Action <- api.NewSignal(request).WithContent(r.URL.RawQuery).Create()
		code := http.StatusOK
		defer func() {
			s.block.ReAction <- api.NewSignal(request).WithContent(code).Create()
			if s.metrics != nil {
				s.metrics.Observe(name, code, time.Since(start))
			}
		}()

		if s.debug {
			log.Info().
				Str("url", fmt.Sprintf("%+v", r.URL)).
				Str("remote-address", r.RemoteAddr).
				Str("method", r.Method).
				Msg("received request")
		}

		if route.ContentType != "" {
			w.Header().Set("Content-Type", route.ContentType)
		}
		b, c, err := route.Exec(r, w.Header())
		if c != 0 {
			code = c
		}
		if err != nil {
			if code < http.StatusBadRequest {
				code = http.StatusInternalServerError
			}
			s.error(w, err, code)
			return
		}
		s.code(w, b, code)
	}
}

// Handler returns the http handler for all routes.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		go s.observe()

		s.mux = http.NewServeMux()
		for _, route := range s.routes {
			s.mux.HandleFunc(route.pattern(), s.handle(route))
		}
		if s.metrics != nil {
			s.mux.Handle("/metrics", s.metrics.Handler())
		}
	})
	return s.mux
}

func (s *Server) observe() {
	for action := range s.block.Action {
		log.Debug().
			Time("time", action.Time).
			Str("id", action.ID).
			Str("action", action.Name).
			Msg("started execution")
		reaction := <-s.block.ReAction
		log.Info().
			Time("time", action.Time).
			Str("id", action.ID).
			Float64("duration", time.Since(action.Time).Seconds()).
			Str("reaction", reaction.Name).
			Interface("status", reaction.Content).
			Msg("completed execution")
	}
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	errs := make(chan error, 1)
	go func() {
		log.Warn().Str("server", s.name).Int("port", s.port).Msg("starting server")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Warn().Str("server", s.name).Msg("stopping server")
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("could not stop server: %w", err)
		}
		return nil
	}
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error, code int) {
	log.Error().Err(err).Int("code", code).Msg("error for http request")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.code(w, []byte(err.Error()), code)
}

func Live() Route {
	return Route{
		Action: Data,
		Method: GET,
		Exec: func(r *http.Request, header http.Header) (payload []byte, code int, err error) {
			return []byte{}, http.StatusOK, nil
		},
	}
}
