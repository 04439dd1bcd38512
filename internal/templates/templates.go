// Package templates holds the project starters `lumen create` writes.
// Each template is a map of relative paths to text/template sources,
// executed against the scaffolding data.
package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/lumenkit/lumen/internal/errors"
)

// Data is what the template files interpolate.
type Data struct {
	// ProjectName becomes the directory name and page title.
	ProjectName string

	// ModulePath is the generated go.mod module path.
	ModulePath string

	// LumenVersion pins the framework requirement in go.mod.
	LumenVersion string
}

// Template is one project starter.
type Template struct {
	Name        string
	Description string

	// Files maps relative paths to template sources.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.Newf(errors.CategoryCLI, "no template named %q", name).
			WithSuggestion("Available templates: minimal, full.")
	}
	return tmpl, nil
}

// List returns the available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create executes every file against data and writes the result under
// dir, creating directories as needed.
func (t *Template) Create(dir string, data Data) error {
	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "template %s is invalid: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return errors.Newf(errors.CategoryCLI, "template %s failed: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A single-file app with one page",
		Files: map[string]string{
			"main.go": `package main

import (
	"log"

	"github.com/lumenkit/lumen"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/render"
)

func main() {
	app, err := lumen.New(lumen.Config{
		Page: render.Page{Title: "{{.ProjectName}}"},
	})
	if err != nil {
		log.Fatal(err)
	}

	app.Get("/", HomePage)

	log.Fatal(app.Run(":3001"))
}

func HomePage() *html.Node {
	return html.Main(
		html.H1(html.Text("{{.ProjectName}}")),
		html.P(html.Text("Edit main.go and save; the dev server reloads for you.")),
	)
}
`,
			"go.mod": `module {{.ModulePath}}

go 1.24

require github.com/lumenkit/lumen {{.LumenVersion}}
`,
			"lumen.toml": `[app]
name = "{{.ProjectName}}"
module = "{{.ModulePath}}"
`,
			".gitignore": `dist/
.env
.sesskey
`,
		},
	}
}

func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "A starter with a counter, a form, and a live stream",
		Files: map[string]string{
			"main.go": `package main

import (
	"log"

	"github.com/lumenkit/lumen"
	"github.com/lumenkit/lumen/pkg/render"
)

func main() {
	cfg, err := lumen.ConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Page = render.Page{Title: "{{.ProjectName}}"}
	cfg.Static.Dir = "static"

	app, err := lumen.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	app.Get("/", HomePage)
	app.Post("/increment", Increment)
	app.Route("/guestbook", Guestbook)
	app.Get("/clock", Clock)

	log.Fatal(app.Run(""))
}
`,
			"pages.go": `package main

import (
	"time"

	"github.com/lumenkit/lumen"
	"github.com/lumenkit/lumen/pkg/ds"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/session"
)

func layout(body ...*html.Node) *html.Node {
	nav := html.Nav(
		html.A(html.Href("/"), html.Text("Home")),
		html.A(html.Href("/guestbook"), html.Text("Guestbook")),
	)
	args := make([]any, 0, len(body)+1)
	args = append(args, nav)
	for _, n := range body {
		args = append(args, n)
	}
	return html.Main(args...)
}

// HomePage shows the counter and the live clock.
func HomePage(sess *session.Session) *html.Node {
	return layout(
		html.H1(html.Text("{{.ProjectName}}")),
		counter(sess.GetInt("count")),
		html.Div(html.ID("clock"), ds.On("load", "@get('/clock')")),
	)
}

func counter(n int) *html.Node {
	return html.Div(html.ID("counter"),
		html.Span(html.Textf("%d", n)),
		html.Button(ds.On("click", "@post('/increment')"), html.Text("+1")),
	)
}

// Increment bumps the session counter and morphs the counter fragment.
func Increment(sess *session.Session) *html.Node {
	n := sess.GetInt("count") + 1
	sess.Set("count", n)
	return counter(n)
}

// Clock streams the current time once a second.
func Clock() lumen.StreamFunc {
	return func(s *lumen.Stream) error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			tick := html.Div(html.ID("clock"), html.Text(time.Now().Format("15:04:05")))
			if err := s.MergeFragments(tick); err != nil {
				return err
			}
			select {
			case <-ticker.C:
			case <-s.Context().Done():
				return nil
			}
		}
	}
}
`,
			"guestbook.go": `package main

import (
	"github.com/lumenkit/lumen"
	"github.com/lumenkit/lumen/pkg/form"
	"github.com/lumenkit/lumen/pkg/html"
	"github.com/lumenkit/lumen/pkg/session"
)

var guestRules = form.Rules{
	"name": {form.Required(), form.MaxLength(80)},
}

type GuestParams struct {
	Name string
}

// Guestbook renders the form on GET and appends an entry on POST.
func Guestbook(ctx *lumen.Ctx, sess *session.Session, p GuestParams) any {
	var names []string
	_ = sess.Unmarshal("guests", &names)

	if ctx.Request().Method == "POST" {
		errs := form.Validate(map[string]any{"name": p.Name}, guestRules)
		if !errs.Valid() {
			return guestbookPage(names, errs)
		}
		names = append(names, p.Name)
		sess.Set("guests", names)
		return lumen.Redirect("/guestbook")
	}

	return guestbookPage(names, nil)
}

func guestbookPage(names []string, errs form.Errors) *html.Node {
	items := make([]any, 0, len(names))
	for _, name := range names {
		items = append(items, html.Li(html.Text(name)))
	}
	return layout(
		html.H1(html.Text("Guestbook")),
		html.Form(html.Method("post"), html.Action("/guestbook"),
			html.Input(html.Type("text"), html.Name("name"), html.Placeholder("Your name")),
			errs.Node("name"),
			html.Button(html.Type("submit"), html.Text("Sign")),
		),
		html.Ul(items...),
	)
}
`,
			"go.mod": `module {{.ModulePath}}

go 1.24

require github.com/lumenkit/lumen {{.LumenVersion}}
`,
			"lumen.toml": `[app]
name = "{{.ProjectName}}"
module = "{{.ModulePath}}"

[static]
dir = "static"
`,
			".env.example": `LUMEN_ADDR=:3001
LUMEN_DEV=true
LUMEN_STATIC_DIR=static
`,
			".gitignore": `dist/
.env
.sesskey
`,
			"static/styles.css": `body {
  font-family: system-ui, sans-serif;
  max-width: 42rem;
  margin: 0 auto;
  padding: 2rem;
}

nav a {
  margin-right: 1rem;
}

.field-errors {
  color: #b91c1c;
}
`,
			"README.md": "# {{.ProjectName}}\n\n```bash\nlumen dev     # run with live reload\nlumen build   # build ./dist for production\n```\n",
		},
	}
}
