package lumen

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/lumenkit/lumen/pkg/auth"
	"github.com/lumenkit/lumen/pkg/render"
	"github.com/lumenkit/lumen/pkg/session"
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config is the main application configuration.
// This is the user-friendly entry point for configuring a Lumen app.
type Config struct {
	// Addr is the listen address used by Run.
	// Default: ":8080".
	Addr string

	// DevMode enables development conveniences: pretty-printed HTML and
	// no-store caching for static files. Never meaningful in production.
	DevMode bool

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Page is the document shell wrapped around handler markup that is
	// not already a full document. Its zero value works: handlers can
	// still contribute <title> and other head tags inline.
	Page render.Page

	// Static configures the extension-whitelisted static file route.
	Static StaticConfig

	// Session configures the signed-cookie session layer. The zero value
	// works: a signing key is created at session.DefaultKeyFile on first
	// start.
	Session session.Config

	// Authenticator resolves the identity bound to auth parameters.
	// If nil, auth.SessionAuthenticator is used.
	Authenticator auth.Authenticator

	// MaxBodyBytes is the maximum number of bytes read from a request
	// body during parameter resolution.
	//
	// Default: 10 MiB.
	MaxBodyBytes int64
}

// StaticConfig configures static file serving.
type StaticConfig struct {
	// Dir is the directory containing static files (e.g., "public").
	// Empty disables the static route.
	Dir string

	// Prefix is the URL path prefix for static files (e.g., "/").
	// A file at public/styles.css with Prefix="/" is served at /styles.css.
	// Default: "/".
	Prefix string

	// Extensions whitelists the file extensions served from Dir, without
	// the leading dot. Requests for anything else fall through to the
	// router even when a matching file exists.
	// Default: DefaultStaticExtensions.
	Extensions []string

	// Manifest is the path of an asset manifest mapping source names to
	// fingerprinted file names, produced by the build. When set,
	// Ctx.Asset resolves through it.
	Manifest string

	// CacheControl determines caching behavior for static files.
	// Default: CacheControlNone (no caching headers).
	CacheControl CacheControlStrategy

	// Headers are custom headers to add to all static file responses.
	Headers map[string]string
}

// CacheControlStrategy determines caching behavior for static files.
type CacheControlStrategy int

const (
	// CacheControlNone adds no-store headers.
	// Use in development for instant updates.
	CacheControlNone CacheControlStrategy = iota

	// CacheControlProduction uses appropriate caching:
	// - Fingerprinted files (*.abc123.css): immutable, 1 year max-age
	// - Other files: short cache with revalidation
	CacheControlProduction
)

// DefaultStaticExtensions is the whitelist applied when StaticConfig
// leaves Extensions empty. Only files with these extensions are served
// from the static directory.
var DefaultStaticExtensions = []string{
	"ico", "gif", "jpg", "jpeg", "webm", "css", "js", "woff", "png", "svg",
	"mp4", "webp", "ttf", "otf", "eot", "woff2", "txt", "html", "map",
	"pdf", "zip", "tgz", "gz", "csv", "mp3", "wav", "ogg", "flac", "aac",
	"doc", "docx", "xls", "xlsx", "ppt", "pptx", "epub", "mobi", "bmp",
	"tiff", "avi", "mov", "wmv", "mkv", "xml", "yaml", "yml", "rar", "7z",
	"tar", "bz2", "htm", "xhtml", "apk", "dmg", "exe", "msi", "swf", "iso",
}

// =============================================================================
// Default Configurations
// =============================================================================

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		Static:       DefaultStaticConfig(),
		MaxBodyBytes: 10 << 20,
	}
}

// DefaultStaticConfig returns a StaticConfig with sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		Prefix:       "/",
		CacheControl: CacheControlNone,
	}
}

// =============================================================================
// Environment Configuration
// =============================================================================

// envConfig is the flat environment mapping behind ConfigFromEnv.
type envConfig struct {
	Addr         string        `env:"LUMEN_ADDR,default=:8080"`
	DevMode      bool          `env:"LUMEN_DEV,default=false"`
	Title        string        `env:"LUMEN_TITLE"`
	RuntimeSrc   string        `env:"LUMEN_RUNTIME_SRC"`
	StaticDir    string        `env:"LUMEN_STATIC_DIR"`
	StaticPrefix string        `env:"LUMEN_STATIC_PREFIX,default=/"`
	StaticCache  string        `env:"LUMEN_STATIC_CACHE,default=none"`
	Manifest     string        `env:"LUMEN_ASSET_MANIFEST"`
	CookieName   string        `env:"LUMEN_SESSION_COOKIE"`
	Secret       string        `env:"LUMEN_SESSION_SECRET"`
	KeyFile      string        `env:"LUMEN_SESSION_KEY_FILE"`
	MaxAge       time.Duration `env:"LUMEN_SESSION_MAX_AGE,default=0s"`
	CookieSecure bool          `env:"LUMEN_COOKIE_SECURE,default=false"`
	MaxBodyBytes int64         `env:"LUMEN_MAX_BODY_BYTES,default=0"`
}

// ConfigFromEnv builds a Config from LUMEN_* environment variables,
// loading a .env file first when one is present. Values already in the
// environment win over .env entries.
//
//	LUMEN_ADDR              listen address (":8080")
//	LUMEN_DEV               development mode ("true"/"false")
//	LUMEN_TITLE             page shell title
//	LUMEN_RUNTIME_SRC       reactive runtime script URL ("-" disables)
//	LUMEN_STATIC_DIR        static file directory
//	LUMEN_STATIC_PREFIX     static URL prefix ("/")
//	LUMEN_STATIC_CACHE      "none" or "production"
//	LUMEN_ASSET_MANIFEST    asset manifest path
//	LUMEN_SESSION_COOKIE    session cookie name
//	LUMEN_SESSION_SECRET    session signing secret
//	LUMEN_SESSION_KEY_FILE  signing key file (".sesskey")
//	LUMEN_SESSION_MAX_AGE   session lifetime (Go duration)
//	LUMEN_COOKIE_SECURE     Secure flag on session cookies
//	LUMEN_MAX_BODY_BYTES    request body cap
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	var ec envConfig
	if err := envdecode.Decode(&ec); err != nil {
		return Config{}, fmt.Errorf("lumen: decode environment: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Addr = ec.Addr
	cfg.DevMode = ec.DevMode
	cfg.Page.Title = ec.Title
	cfg.Page.RuntimeSrc = ec.RuntimeSrc
	cfg.Static.Dir = ec.StaticDir
	cfg.Static.Prefix = ec.StaticPrefix
	cfg.Static.Manifest = ec.Manifest
	cfg.Session.CookieName = ec.CookieName
	cfg.Session.KeyFile = ec.KeyFile
	cfg.Session.MaxAge = ec.MaxAge
	cfg.Session.Secure = ec.CookieSecure
	if ec.Secret != "" {
		cfg.Session.Secret = []byte(ec.Secret)
	}
	if ec.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = ec.MaxBodyBytes
	}

	switch ec.StaticCache {
	case "", "none":
		cfg.Static.CacheControl = CacheControlNone
	case "production":
		cfg.Static.CacheControl = CacheControlProduction
	default:
		return Config{}, fmt.Errorf("lumen: unknown LUMEN_STATIC_CACHE %q (want \"none\" or \"production\")", ec.StaticCache)
	}

	return cfg, nil
}
