// Package serve is the development server: it builds the site, serves
// public_dir, and rebuilds when source or theme files change.
package serve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"

	"trainsite/internal/build"
	"trainsite/internal/domain/config"
	"trainsite/internal/logfields"
	"trainsite/internal/metrics"
)

const debounceDelay = 200 * time.Millisecond

type Server struct {
	cfg     config.Config
	builder *build.Builder
	log     *slog.Logger
	reg     *prometheus.Registry

	sseMu    sync.Mutex
	sseConns map[chan string]struct{}

	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return &Server{
		cfg:      cfg,
		builder:  build.New(cfg, logger, rec),
		log:      logger.With(slog.String("component", "serve")),
		reg:      reg,
		sseConns: make(map[chan string]struct{}),
	}
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Handler routes the public site, the reload stream and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/dev/events", s.handleSSE)
	mux.Handle("/metrics", metrics.HTTPHandler(s.reg))
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Build.PublicDir)))
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.rebuild(ctx); err != nil {
		return err
	}

	// 启动文件监控
	if err := s.startWatch(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info("listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) rebuild(ctx context.Context) error {
	res, err := s.builder.Run(ctx)
	if err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	s.log.Info("rebuild complete",
		logfields.BuildID(res.BuildID),
		logfields.Count(res.Pages),
	)
	s.broadcastSSE("reload")
	return nil
}

// watchDirs are the trees a change in which triggers a rebuild.
func (s *Server) watchDirs() []string {
	return []string{
		s.cfg.Build.SourceDir,
		filepath.Join(s.cfg.Build.ThemeDir, s.cfg.Site.Theme),
	}
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		for _, dir := range s.watchDirs() {
			if err = addTree(w, dir); err != nil {
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Info("watching for file changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			// 新建目录也需要监听
			if ev.Has(fsnotify.Create) {
				_ = addTree(s.watcher, ev.Name)
			}
			debounce.Reset(debounceDelay)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", logfields.Error(err))
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, 30*time.Second)
			if err := s.rebuild(ctx2); err != nil {
				s.log.Error("rebuild failed", logfields.Error(err))
			}
			cancel()
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) subscribe() chan string {
	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan string) {
	s.sseMu.Lock()
	delete(s.sseConns, ch)
	close(ch)
	s.sseMu.Unlock()
}

// broadcastSSE never blocks: a client with a full buffer misses the message.
func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}
