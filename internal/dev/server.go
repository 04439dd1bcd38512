package dev

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lumenkit/lumen/internal/build"
	"github.com/lumenkit/lumen/internal/config"
	"github.com/lumenkit/lumen/internal/errors"
)

// Options configures the dev server.
type Options struct {
	Config config.Config

	// Port is the public proxy port. Zero uses the project file's.
	Port int

	// AppPort is where the app process listens. Zero uses the project
	// file's.
	AppPort int

	// Log receives human-readable progress lines. Default os.Stderr.
	Log io.Writer
}

// Server is the dev loop: watch, rebuild, restart, notify browsers.
type Server struct {
	cfg     config.Config
	port    int
	appPort int
	log     io.Writer

	hub     *ReloadHub
	watcher *Watcher
	proxy   *httputil.ReverseProxy

	workDir string
	proc    *processHandle
}

// NewServer creates a dev server from the project file.
func NewServer(opts Options) *Server {
	if opts.Port == 0 {
		opts.Port = opts.Config.Dev.Port
	}
	if opts.AppPort == 0 {
		opts.AppPort = opts.Config.Dev.AppPort
	}
	if opts.Log == nil {
		opts.Log = os.Stderr
	}

	watchPaths := make([]string, 0, len(opts.Config.Dev.Watch))
	for _, p := range opts.Config.Dev.Watch {
		watchPaths = append(watchPaths, filepath.Join(opts.Config.Root, p))
	}

	target := &url.URL{Scheme: "http", Host: "127.0.0.1:" + strconv.Itoa(opts.AppPort)}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ModifyResponse = injectClientScript
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, "app not responding; check the dev server output", http.StatusBadGateway)
	}

	return &Server{
		cfg:     opts.Config,
		port:    opts.Port,
		appPort: opts.AppPort,
		log:     opts.Log,
		hub:     NewReloadHub(),
		watcher: NewWatcher(WatcherConfig{
			Paths:  watchPaths,
			Ignore: append([]string{opts.Config.Build.Output}, opts.Config.Dev.Ignore...),
		}),
		proxy: proxy,
	}
}

// Run builds the app, starts it, and serves the proxy until ctx is
// done.
func (s *Server) Run(ctx context.Context) error {
	workDir, err := os.MkdirTemp("", "lumen-dev-*")
	if err != nil {
		return err
	}
	s.workDir = workDir
	defer os.RemoveAll(workDir)
	defer s.stopApp()
	defer s.hub.Close()

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return errors.New("L201").
			WithDetail("port %d could not be bound", s.port).
			Wrap(err)
	}

	if err := s.rebuild(ctx); err != nil {
		ln.Close()
		return err
	}
	if err := s.startApp(ctx); err != nil {
		ln.Close()
		return err
	}

	mux := http.NewServeMux()
	mux.Handle(SocketPath, s.hub)
	mux.Handle("/", s.proxy)
	srv := &http.Server{Handler: mux}

	events := make(chan []Change, 1)
	go s.watcher.Run(ctx, events)
	go s.loop(ctx, events)

	fmt.Fprintf(s.log, "dev server on http://localhost:%d (app on :%d)\n", s.port, s.appPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// loop reacts to watcher batches.
func (s *Server) loop(ctx context.Context, events <-chan []Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case changes := <-events:
			s.handle(ctx, changes)
		}
	}
}

func (s *Server) handle(ctx context.Context, changes []Change) {
	switch Coalesce(changes) {
	case ChangeGo:
		fmt.Fprintln(s.log, "source changed, rebuilding")
		if err := s.rebuild(ctx); err != nil {
			errors.Report(err)
			s.hub.ShowError(plainError(err))
			return
		}
		s.stopApp()
		if err := s.startApp(ctx); err != nil {
			errors.Report(err)
			s.hub.ShowError(plainError(err))
			return
		}
		s.hub.ClearError()
		s.hub.Reload()
	case ChangeCSS:
		s.hub.SwapCSS(changes[0].Path)
	case ChangeAsset:
		s.hub.Reload()
	}
}

// rebuild compiles into the scratch directory, leaving the project's
// dist untouched.
func (s *Server) rebuild(ctx context.Context) error {
	builder := build.New(s.cfg, build.Options{Output: s.workDir})
	_, err := builder.Build(ctx)
	return err
}

func (s *Server) startApp(ctx context.Context) error {
	env := append(os.Environ(),
		"LUMEN_ADDR=127.0.0.1:"+strconv.Itoa(s.appPort),
		"LUMEN_DEV=true",
	)

	proc, err := startProcess(ctx, filepath.Join(s.workDir, "server"), s.cfg.Root, env)
	if err != nil {
		return errors.New("L202").Wrap(err)
	}
	s.proc = proc

	// Give the process a moment to bind; an immediate exit means a
	// startup failure worth surfacing now.
	select {
	case <-time.After(300 * time.Millisecond):
	case err := <-proc.exited:
		s.proc = nil
		return errors.New("L202").Wrap(err)
	}
	return nil
}

func (s *Server) stopApp() {
	if s.proc != nil {
		stopProcess(s.proc)
		s.proc = nil
	}
}

// plainError formats err for the browser overlay, preferring the
// detailed compiler output over the one-line summary.
func plainError(err error) string {
	if de, ok := err.(*errors.Error); ok && de.Detail != "" {
		return de.Error() + "\n\n" + de.Detail
	}
	return err.Error()
}

// injectClientScript appends the reload script to proxied HTML pages.
// Non-HTML and compressed responses pass through untouched.
func injectClientScript(resp *http.Response) error {
	ct := resp.Header.Get("Content-Type")
	if len(ct) < 9 || ct[:9] != "text/html" {
		return nil
	}
	if resp.Header.Get("Content-Encoding") != "" {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return err
	}

	script := []byte(ClientScript)
	if idx := bytes.LastIndex(body, []byte("</body>")); idx >= 0 {
		patched := make([]byte, 0, len(body)+len(script))
		patched = append(patched, body[:idx]...)
		patched = append(patched, script...)
		patched = append(patched, body[idx:]...)
		body = patched
	} else {
		body = append(body, script...)
	}

	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	return nil
}
