// Package generator renders build timestamps into a generated Go source file.
//
// Go has no macro facility, so the timestamps are expanded ahead of compilation:
// a go:generate step resolves the build instant once, formats every requested
// constant from it, and writes a file that the following go build compiles in.
package generator

import (
	"bytes"
	"fmt"
	"go/build/constraint"
	"go/token"
	"strings"
	"text/template"

	"go.uber.org/zap"
	"golang.org/x/tools/imports"

	"github.com/verustcode/buildtime/internal/config"
	"github.com/verustcode/buildtime/pkg/buildtime"
	"github.com/verustcode/buildtime/pkg/errors"
	"github.com/verustcode/buildtime/pkg/logger"
)

// Header marks generated files; go vet and linters skip files carrying it.
const Header = "// Code generated by buildtime. DO NOT EDIT."

// Renderer formats the resolved build instant. *buildtime.Provider implements it.
type Renderer interface {
	Render(zone buildtime.Zone, pattern string) (string, error)
}

// Constant describes one generated string constant.
type Constant struct {
	Name   string
	Zone   buildtime.Zone
	Format string
	Doc    string
}

// Value is a Constant together with its rendered literal.
type Value struct {
	Constant
	Literal string
}

// Plan describes one generated file.
type Plan struct {
	Package   string
	Output    string
	BuildTag  string
	Constants []Constant
}

// PlanFromConfig converts a loaded configuration into a generation plan.
// Config constants are converted even when invalid; Validate reports them.
func PlanFromConfig(cfg *config.Config) Plan {
	plan := Plan{
		Package:  cfg.Package,
		Output:   cfg.Output,
		BuildTag: cfg.BuildTag,
	}
	for _, cc := range cfg.Constants {
		zone, ok := buildtime.ParseZone(cc.Zone)
		if !ok {
			// Kept verbatim so validation can name it.
			zone = buildtime.Zone(cc.Zone)
		}
		plan.Constants = append(plan.Constants, Constant{
			Name:   cc.Name,
			Zone:   zone,
			Format: cc.Format,
			Doc:    cc.Doc,
		})
	}
	return plan
}

// Validate checks the parts of the plan that would otherwise produce uncompilable code.
func (p Plan) Validate() error {
	if !token.IsIdentifier(p.Package) {
		return errors.ErrValidation(fmt.Sprintf("package %q is not a valid Go package name", p.Package))
	}
	if p.BuildTag != "" {
		if _, err := constraint.Parse("//go:build " + p.BuildTag); err != nil {
			return errors.Wrap(errors.ErrCodeValidation, fmt.Sprintf("invalid build constraint %q", p.BuildTag), err)
		}
	}
	return validateConstants(p.Constants)
}

func validateConstants(constants []Constant) error {
	if len(constants) == 0 {
		return errors.ErrValidation("no constants to generate")
	}

	seen := make(map[string]bool, len(constants))
	for _, c := range constants {
		if !token.IsIdentifier(c.Name) || c.Name == "_" {
			return errors.ErrValidation(fmt.Sprintf("constant name %q is not a valid Go identifier", c.Name))
		}
		if seen[c.Name] {
			return errors.ErrValidation(fmt.Sprintf("duplicate constant %q", c.Name))
		}
		if !c.Zone.Valid() {
			return errors.ErrValidation(fmt.Sprintf("constant %s: unknown zone %q (want utc or local)", c.Name, c.Zone))
		}
		seen[c.Name] = true
	}
	return nil
}

// Generator renders plans against a single Renderer, so every file and every
// ldflags value produced by one Generator shares the same build instant.
type Generator struct {
	renderer Renderer
	log      *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger replaces the logger, logger.Named("generator") by default.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// New creates a Generator.
func New(r Renderer, opts ...Option) *Generator {
	g := &Generator{
		renderer: r,
		log:      logger.Named("generator"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Values renders every constant of plan. Any failure aborts the whole plan; error
// codes from resolution (bad epoch) and pattern validation are preserved.
func (g *Generator) Values(plan Plan) ([]Value, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return g.render(plan.Constants)
}

// Render renders constants that are not bound to a generated file, as the ldflags
// mode needs. Only the constants themselves are validated.
func (g *Generator) Render(constants []Constant) ([]Value, error) {
	if err := validateConstants(constants); err != nil {
		return nil, err
	}
	return g.render(constants)
}

func (g *Generator) render(constants []Constant) ([]Value, error) {
	values := make([]Value, 0, len(constants))
	for _, c := range constants {
		lit, err := g.renderer.Render(c.Zone, c.Format)
		if err != nil {
			return nil, fmt.Errorf("constant %s: %w", c.Name, err)
		}
		g.log.Debug("Rendered constant",
			zap.String("name", c.Name),
			zap.String("zone", string(c.Zone)),
			zap.String("format", c.Format),
			zap.String("value", lit))
		values = append(values, Value{Constant: c, Literal: lit})
	}
	return values, nil
}

// Source renders the complete, gofmt-formatted Go file for plan.
func (g *Generator) Source(plan Plan) ([]byte, error) {
	values, err := g.Values(plan)
	if err != nil {
		return nil, err
	}
	return source(plan, values)
}

var fileTemplate = template.Must(template.New("file").Parse(Header + `
{{- if .BuildTag}}

//go:build {{.BuildTag}}
{{- end}}

package {{.Package}}

const (
{{- range .Values}}
{{- range .DocLines}}
	// {{.}}
{{- end}}
	{{.Name}} = {{.Quoted}}
{{- end}}
)
`))

type templateValue struct {
	Name     string
	Quoted   string
	DocLines []string
}

func source(plan Plan, values []Value) ([]byte, error) {
	data := struct {
		Package  string
		BuildTag string
		Values   []templateValue
	}{
		Package:  plan.Package,
		BuildTag: plan.BuildTag,
	}
	for _, v := range values {
		data.Values = append(data.Values, templateValue{
			Name:     v.Name,
			Quoted:   fmt.Sprintf("%q", v.Literal),
			DocLines: docLines(v),
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerate, "failed to render template", err)
	}

	formatted, err := imports.Process(plan.Output, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGenerate, "failed to format generated source", err)
	}
	return formatted, nil
}

func docLines(v Value) []string {
	doc := strings.TrimSpace(v.Doc)
	if doc == "" {
		format := "RFC 3339"
		if v.Format != "" {
			format = fmt.Sprintf("%q", v.Format)
		}
		zone := "UTC"
		if v.Zone == buildtime.ZoneLocal {
			zone = "the build host's local time zone"
		}
		doc = fmt.Sprintf("%s is the build time in %s, formatted as %s.", v.Name, zone, format)
	}
	return strings.Split(doc, "\n")
}
