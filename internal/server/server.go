// Package server publishes the anniversary feed and a date conversion API
// on a local HTTP listener.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-historic/internal/calsys"
	"github.com/tartampluch/go-historic/internal/config"
)

// feedSnapshot is one rendered feed with its validators.
type feedSnapshot struct {
	data         []byte
	etag         string
	lastModified string // http.TimeFormat
}

// CalendarServer serves the latest feed snapshot. Readers load the snapshot
// without locking; Update swaps it whole.
type CalendarServer struct {
	cache    atomic.Pointer[feedSnapshot]
	router   *calsys.Router
	metrics  *Metrics
	validate *validator.Validate
	Port     string
}

// NewCalendarServer returns a server for port. A nil router uses the
// default Hijri registry.
func NewCalendarServer(port string, router *calsys.Router) *CalendarServer {
	if router == nil {
		router = calsys.NewRouter(nil)
	}
	return &CalendarServer{
		router:   router,
		metrics:  NewMetrics(),
		validate: newValidator(),
		Port:     port,
	}
}

// Metrics returns the collectors of the server.
func (s *CalendarServer) Metrics() *Metrics { return s.metrics }

// Handler routes the feed, /convert and /metrics.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.handleCalendarRequest)
	mux.HandleFunc(config.RouteConvert, s.handleConvert)
	mux.Handle(config.RouteMetrics, s.metrics.Handler())
	return mux
}

// Start listens on the loopback interface until ctx is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil
	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update publishes a new feed.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	snap := &feedSnapshot{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.cache.Store(snap)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, snap.etag,
	)
}

func (s *CalendarServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	status := s.serveFeed(w, r)
	s.metrics.FeedRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (s *CalendarServer) serveFeed(w http.ResponseWriter, r *http.Request) int {
	if r.URL.Path != config.RouteRoot {
		http.NotFound(w, r)
		return http.StatusNotFound
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return http.StatusMethodNotAllowed
	}

	snap := s.cache.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return http.StatusServiceUnavailable
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.lastModified)

	if notModified(r, snap) {
		w.WriteHeader(http.StatusNotModified)
		return http.StatusNotModified
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(snap.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
	return http.StatusOK
}

// notModified applies If-None-Match, then If-Modified-Since.
func notModified(r *http.Request, snap *feedSnapshot) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == snap.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, snap.lastModified)
	return err == nil && !serverTime.After(clientTime)
}
