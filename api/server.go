package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matt-g-everett/bubbletx/indicator"
)

// ErrBadParam is returned for query parameters that cannot be parsed.
var ErrBadParam = errors.New("bad parameter")

// Api serves animated indicator images over HTTP.
type Api struct {
	provider  *indicator.Provider
	defaults  indicator.Config
	frameRate float64
	mux       *http.ServeMux
}

// NewApi creates an Api. Requests start from defaults and frameRate and
// override them with their query parameters.
func NewApi(provider *indicator.Provider, defaults indicator.Config, frameRate float64) *Api {
	a := new(Api)
	a.provider = provider
	a.defaults = defaults
	a.frameRate = frameRate

	a.mux = http.NewServeMux()
	a.mux.HandleFunc("GET /indicator.gif", a.handleIndicator)
	a.mux.HandleFunc("GET /health", handleHealth)
	return a
}

// Handler returns the Api's routes with request logging.
func (a *Api) Handler() http.Handler {
	return logRequests(a.mux)
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (a *Api) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s...", addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) handleIndicator(w http.ResponseWriter, r *http.Request) {
	cfg, frameRate, err := parseQuery(r.URL.Query(), a.defaults, a.frameRate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ind := indicator.New(cfg)
	data, key, err := a.provider.AnimatedGIF(r.Context(), ind, frameRate)
	if errors.Is(err, indicator.ErrTooLarge) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("Failed to render %s: %v", ind.CacheKey(), err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	etag := `"` + key + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Cache-Key", ind.CacheKey())
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write %s: %v", key, err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// parseQuery reads color, radius, style, scale and fps.
func parseQuery(q url.Values, defaults indicator.Config, frameRate float64) (indicator.Config, float64, error) {
	cfg := defaults

	if s := q.Get("color"); s != "" {
		c, err := indicator.ParseColor(s)
		if err != nil {
			return cfg, 0, fmt.Errorf("%w: %v", ErrBadParam, err)
		}
		cfg.Color = c
	}

	if s := q.Get("style"); s != "" {
		style, err := indicator.ParseStyle(s)
		if err != nil {
			return cfg, 0, fmt.Errorf("%w: %v", ErrBadParam, err)
		}
		cfg.Style = style
	}

	var err error
	if cfg.BubbleRadius, err = parseFloat(q, "radius", cfg.BubbleRadius); err != nil {
		return cfg, 0, err
	}
	if cfg.Scale, err = parseFloat(q, "scale", cfg.Scale); err != nil {
		return cfg, 0, err
	}
	if frameRate, err = parseFloat(q, "fps", frameRate); err != nil {
		return cfg, 0, err
	}

	return cfg, frameRate, nil
}

func parseFloat(q url.Values, name string, fallback float64) (float64, error) {
	s := q.Get(name)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s: %v", ErrBadParam, name, err)
	}
	return v, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.RequestURI(), rec.status, time.Since(start))
	})
}
