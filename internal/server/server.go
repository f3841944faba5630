// Package server exposes the board pipeline over HTTP.
//
// # Routes
//
//	GET  /healthz     liveness and build version
//	POST /v1/render   render a document; the response body is the figure
//	POST /v1/layout   freeze a document and return its region snapshot
//
// Documents are posted as TOML or JSON. The Content-Type header selects the
// decoder (application/json or application/toml); anything else is sniffed.
// Render options come from the query string: format, scale, dpi, debug and
// refresh.
//
// Failures are answered with a JSON body {"code": ..., "message": ...}.
// Document and geometry errors map to 400, UNSUPPORTED to 501 and everything
// else to 500.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/crossboard/pkg/buildinfo"
	"github.com/matzehuels/crossboard/pkg/errors"
	"github.com/matzehuels/crossboard/pkg/pipeline"
)

const (
	// DefaultMaxBody caps the size of a posted document.
	DefaultMaxBody = 8 << 20
	// DefaultTimeout bounds the handling of one request.
	DefaultTimeout = 60 * time.Second

	shutdownGrace = 10 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// Server serves the pipeline of one [pipeline.Runner].
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	timeout time.Duration
}

// Option configures a [Server].
type Option func(*Server)

// WithMaxBody sets the largest accepted request body in bytes.
func WithMaxBody(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server around runner. A nil logger logs through the runner's.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		maxBody: DefaultMaxBody,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.execute(w, r, opts)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = pipeline.FormatJSON
	s.execute(w, r, opts)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	ctx := r.Context()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.runner.Parse(ctx, "request:"+middleware.GetReqID(ctx), body, documentFormat(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(ctx, doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "MISS"
	if res.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", contentTypes[res.Format])
	w.Header().Set("X-Cache", cacheStatus)
	if res.Width > 0 {
		w.Header().Set("X-Figure-Size", fmt.Sprintf("%gx%g", res.Width, res.Height))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Output)
}

// renderOptions reads the render options from the query string.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Format: q.Get("format")}

	var err error
	if opts.Scale, err = floatParam(q.Get("scale")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale")
	}
	if opts.DPI, err = floatParam(q.Get("dpi")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "dpi")
	}
	if opts.Debug, err = boolParam(q.Get("debug")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "debug")
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "refresh")
	}
	return opts, nil
}

func floatParam(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// documentFormat maps the request content type to a document format. An
// empty result lets the parser sniff.
func documentFormat(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch mt {
	case "application/json":
		return pipeline.SpecJSON
	case "application/toml", "text/toml":
		return pipeline.SpecTOML
	}
	return ""
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, errors.Code) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, errors.ErrCodeInternal
	}

	code := errors.GetCode(err)
	switch code {
	case "", errors.ErrCodeInternal:
		return http.StatusInternalServerError, errors.ErrCodeInternal
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, code
	}
	return http.StatusBadRequest, code
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
