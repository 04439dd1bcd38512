package lumen

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumenkit/lumen/pkg/assets"
	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/bind"
	"github.com/lumenkit/lumen/pkg/datastar"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/render"
	"github.com/lumenkit/lumen/pkg/respond"
	"github.com/lumenkit/lumen/pkg/routepath"
	"github.com/lumenkit/lumen/pkg/session"
)

// =============================================================================
// App Type
// =============================================================================

// App is the main Lumen application entry point. It resolves handler
// parameters from the request, classifies handler return values, and
// writes them out as full pages, fragment streams, redirects, or opaque
// payloads.
//
// Create an App with lumen.New():
//
//	app, err := lumen.New(lumen.Config{
//	    Page:   render.Page{Title: "My App"},
//	    Static: lumen.StaticConfig{Dir: "public"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app.Get("/", HomePage)
//	app.Post("/todos", CreateTodo)
//	app.Run(":8080")
//
// Handlers are plain functions. Parameters bind from the request by
// name and type; return values drive the response:
//
//	type ShowParams struct {
//	    ID int
//	    Q  string
//	}
//
//	func ShowPage(ctx *lumen.Ctx, p ShowParams) *html.Node {
//	    return html.Div(html.ID("detail"), html.Text(p.Q))
//	}
type App struct {
	cfg      Config
	log      *slog.Logger
	mux      *chi.Mux
	binder   *bind.Binder
	renderer *render.Renderer
	sessions *session.Sessions
	authn    auth.Authenticator
	resolver assets.Resolver

	before []beforeware

	staticFS   http.FileSystem
	staticExts map[string]bool

	errorPages map[int]ErrorPageFunc

	mu  sync.Mutex
	srv *http.Server
}

// ErrorPageFunc renders a custom page for one error status. Returning
// nil falls back to the plain text response.
type ErrorPageFunc func(*Ctx, error) *html.Node

// beforeware is a pre-handler hook with path patterns it skips.
type beforeware struct {
	spec *bind.Spec
	skip []*regexp.Regexp
}

func (b *beforeware) skips(path string) bool {
	for _, re := range b.skip {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// New creates a Lumen application. It resolves the session signing key,
// so it can fail when the key file cannot be created.
func New(cfg Config) (*App, error) {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Static.Prefix == "" {
		cfg.Static.Prefix = "/"
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Session.Logger == nil {
		cfg.Session.Logger = logger
	}

	sessions, err := session.New(cfg.Session)
	if err != nil {
		return nil, err
	}

	authn := cfg.Authenticator
	if authn == nil {
		authn = auth.SessionAuthenticator{}
	}

	resolver, err := buildResolver(cfg.Static)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:      cfg,
		log:      logger,
		mux:      chi.NewRouter(),
		renderer: render.New(render.Config{Pretty: cfg.DevMode}),
		sessions: sessions,
		authn:    authn,
		resolver: resolver,

		errorPages: make(map[int]ErrorPageFunc),
	}

	app.binder = bind.NewBinder(
		bind.ReservedType((*Ctx)(nil), "ctx"),
		bind.ReservedType((*App)(nil), "app"),
		bind.ReservedType((*session.Session)(nil), "session"),
		bind.ReservedType((*auth.Identity)(nil), "auth"),
		bind.ReservedType((*respond.HeaderAccumulator)(nil), "headers"),
		bind.ReservedType((*datastar.IncomingSignals)(nil), "signals"),
	)

	if cfg.Static.Dir != "" {
		app.staticFS = http.Dir(cfg.Static.Dir)
		app.staticExts = buildExtensionSet(cfg.Static.Extensions)
	}

	return app, nil
}

// MustNew is New for programs where a failed start is fatal.
func MustNew(cfg Config) *App {
	app, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return app
}

func buildResolver(cfg StaticConfig) (assets.Resolver, error) {
	if cfg.Manifest == "" {
		return assets.NewPassthroughResolver(cfg.Prefix), nil
	}
	manifest, err := assets.Load(cfg.Manifest)
	if err != nil {
		return nil, err
	}
	return assets.NewResolver(manifest, cfg.Prefix), nil
}

// =============================================================================
// http.Handler Implementation
// =============================================================================

// ServeHTTP implements http.Handler. Paths are canonicalized first
// (trailing slashes stripped, duplicate slashes collapsed, traversal
// rejected), then requests route to static files, the embedded runtime,
// or registered handlers.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := routepath.CanonicalizePath(r.URL.EscapedPath())
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if res.Changed {
		target := res.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		w.Header().Set("Location", target)
		w.WriteHeader(http.StatusPermanentRedirect)
		return
	}

	if a.staticFS != nil && a.shouldServeStatic(r.URL.Path) {
		a.serveStatic(w, r)
		return
	}

	// The reactive runtime has a stable URL. A file of the same name in
	// the static directory wins, so apps can vendor their own copy.
	if r.URL.Path == render.DefaultRuntimeSrc {
		assets.ServeRuntime(w, r)
		return
	}

	a.mux.ServeHTTP(w, r)
}

// Handler returns the App as an http.Handler.
// This is useful for explicit type conversion or middleware wrapping.
func (a *App) Handler() http.Handler {
	return a
}

// =============================================================================
// Route Registration
// =============================================================================

// Handle registers a handler for one method and path pattern. Patterns
// use chi syntax; captures bind to parameters of the same name:
//
//	app.Handle(http.MethodGet, "/users/{id}", ShowUser)
//
// The handler's parameter plan is built here, once. A handler the
// binder cannot plan is a programming error and panics at startup.
func (a *App) Handle(method, pattern string, handler any) {
	spec := a.binder.MustSpec(handler)
	a.mux.MethodFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		a.dispatch(w, r, spec, 0)
	})
}

// Get registers a GET handler.
func (a *App) Get(pattern string, handler any) { a.Handle(http.MethodGet, pattern, handler) }

// Post registers a POST handler.
func (a *App) Post(pattern string, handler any) { a.Handle(http.MethodPost, pattern, handler) }

// Put registers a PUT handler.
func (a *App) Put(pattern string, handler any) { a.Handle(http.MethodPut, pattern, handler) }

// Patch registers a PATCH handler.
func (a *App) Patch(pattern string, handler any) { a.Handle(http.MethodPatch, pattern, handler) }

// Delete registers a DELETE handler.
func (a *App) Delete(pattern string, handler any) { a.Handle(http.MethodDelete, pattern, handler) }

// Head registers a HEAD handler.
func (a *App) Head(pattern string, handler any) { a.Handle(http.MethodHead, pattern, handler) }

// Options registers an OPTIONS handler.
func (a *App) Options(pattern string, handler any) { a.Handle(http.MethodOptions, pattern, handler) }

// Route registers a handler for both GET and POST, the common shape for
// pages with a form that submits back to themselves.
func (a *App) Route(pattern string, handler any) {
	spec := a.binder.MustSpec(handler)
	h := func(w http.ResponseWriter, r *http.Request) {
		a.dispatch(w, r, spec, 0)
	}
	a.mux.MethodFunc(http.MethodGet, pattern, h)
	a.mux.MethodFunc(http.MethodPost, pattern, h)
}

// Use adds HTTP middleware to the router. Must be called before route
// registration.
//
//	app.Use(middleware.RequestLogger(logger), middleware.Metrics(nil))
func (a *App) Use(mw ...func(http.Handler) http.Handler) {
	a.mux.Use(mw...)
}

// Beforeware registers f to run before every handler. Like handlers,
// before-functions declare the parameters they need; a non-nil return
// value short-circuits the request and is written as the response.
// skip entries are regular expressions; a request whose full path
// matches one bypasses f.
//
//	app.Beforeware(auth.RequireLogin("/login"), "/login", "/static/.*")
func (a *App) Beforeware(f any, skip ...string) {
	bw := beforeware{spec: a.binder.MustSpec(f)}
	for _, pattern := range skip {
		bw.skip = append(bw.skip, regexp.MustCompile("^(?:"+pattern+")$"))
	}
	a.before = append(a.before, bw)
}

// NotFound sets the handler for unmatched paths. The handler runs
// through the normal dispatch pipeline with a 404 status preset.
func (a *App) NotFound(handler any) {
	spec := a.binder.MustSpec(handler)
	a.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.dispatch(w, r, spec, http.StatusNotFound)
	})
}

// ErrorPage sets a custom page for one error status.
//
//	app.ErrorPage(http.StatusInternalServerError, func(ctx *lumen.Ctx, err error) *html.Node {
//	    return html.Div(html.H1(html.Text("Something broke")))
//	})
func (a *App) ErrorPage(status int, f ErrorPageFunc) {
	a.errorPages[status] = f
}

// =============================================================================
// Accessors
// =============================================================================

// Config returns the app configuration.
func (a *App) Config() Config {
	return a.cfg
}

// Sessions returns the session layer, for code that manages sessions
// outside the request cycle.
func (a *App) Sessions() *session.Sessions {
	return a.sessions
}

// Renderer returns the app's HTML renderer.
func (a *App) Renderer() *render.Renderer {
	return a.renderer
}

// Asset resolves a source asset name to its URL, using the fingerprint
// manifest when one is configured.
func (a *App) Asset(source string) string {
	return a.resolver.Asset(source)
}

// =============================================================================
// Lifecycle
// =============================================================================

// Run starts the server and blocks until shutdown. An interrupt or
// SIGTERM drains in-flight requests before returning. An empty addr
// uses Config.Addr.
//
//	app, _ := lumen.New(cfg)
//	routes.Register(app)
//	app.Run(":8080")
func (a *App) Run(addr string) error {
	if addr == "" {
		addr = a.cfg.Addr
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: a,
		// No WriteTimeout: fragment streams are long-lived.
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.srv = srv
	a.mu.Unlock()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	a.log.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if cerr := a.Close(); err == nil {
			err = cerr
		}
		return err
	}
}

// Close releases the app's resources: the running server, if any, and
// the session store.
func (a *App) Close() error {
	a.mu.Lock()
	srv := a.srv
	a.srv = nil
	a.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Close()
	}
	if cerr := a.sessions.Close(); err == nil {
		err = cerr
	}
	return err
}
