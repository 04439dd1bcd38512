package errors

// template is a registered diagnostic's fixed parts.
type template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// registry maps diagnostic codes to their templates. Config is L0xx,
// build L1xx, dev L2xx, CLI L3xx.
var registry = map[string]template{
	"L001": {
		Category:   CategoryConfig,
		Message:    "no lumen.toml found",
		Detail:     "The command needs a project file, searched for in the working directory and its parents.",
		Suggestion: "Run from inside a Lumen project, or scaffold one with `lumen create <name>`.",
		DocURL:     "https://lumenkit.dev/docs/errors/L001",
	},
	"L002": {
		Category:   CategoryConfig,
		Message:    "lumen.toml is not valid TOML",
		Suggestion: "Check the line reported below for unclosed quotes or a missing `=`.",
		DocURL:     "https://lumenkit.dev/docs/errors/L002",
	},
	"L003": {
		Category: CategoryConfig,
		Message:  "invalid configuration value",
		DocURL:   "https://lumenkit.dev/docs/errors/L003",
	},
	"L101": {
		Category: CategoryBuild,
		Message:  "go build failed",
		Detail:   "The Go compiler rejected the project source.",
		DocURL:   "https://lumenkit.dev/docs/errors/L101",
	},
	"L102": {
		Category:   CategoryBuild,
		Message:    "asset pipeline failed",
		Detail:     "Static assets could not be fingerprinted into the output directory.",
		Suggestion: "Check that the static directory exists and is readable.",
		DocURL:     "https://lumenkit.dev/docs/errors/L102",
	},
	"L201": {
		Category:   CategoryDev,
		Message:    "dev server port is already in use",
		Suggestion: "Stop the other process or pass a different port with --port.",
		DocURL:     "https://lumenkit.dev/docs/errors/L201",
	},
	"L202": {
		Category: CategoryDev,
		Message:  "application process exited",
		Detail:   "The app binary crashed or refused to start; its output is above.",
		DocURL:   "https://lumenkit.dev/docs/errors/L202",
	},
	"L301": {
		Category:   CategoryCLI,
		Message:    "target directory already exists",
		Suggestion: "Pick another project name or remove the existing directory.",
		DocURL:     "https://lumenkit.dev/docs/errors/L301",
	},
	"L302": {
		Category:   CategoryCLI,
		Message:    "invalid project name",
		Detail:     "Project names become directory names and Go module path segments: lowercase letters, digits, and hyphens.",
		Suggestion: "Try something like `my-app`.",
		DocURL:     "https://lumenkit.dev/docs/errors/L302",
	},
}

// Registered reports whether a code exists, for tests and tooling that
// reference codes by string.
func Registered(code string) bool {
	_, ok := registry[code]
	return ok
}
