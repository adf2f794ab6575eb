// Package report prints a human-readable summary of a resolved build instant and
// of the constants rendered from it.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/verustcode/buildtime/internal/generator"
	"github.com/verustcode/buildtime/pkg/buildtime"
)

// Report collects what the show and generate commands display
type Report struct {
	Resolution buildtime.Resolution
	UTC        string
	Local      string
	Values     []generator.Value
	Output     string
	Changed    bool
}

// Print writes the report to w
func (r *Report) Print(w io.Writer) {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(0, 2).
		Width(50).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))

	fmt.Fprintln(w, boxStyle.Render(titleStyle.Render("Build Timestamp")))
	fmt.Fprintln(w)

	r.printInstant(w)

	if len(r.Values) > 0 {
		fmt.Fprintln(w)
		r.printValues(w)
	}

	r.printSeparator(w)
	r.printSummary(w)
}

func (r *Report) printInstant(w io.Writer) {
	label := color.New(color.FgCyan)

	label.Fprint(w, "  Source: ")
	if r.Resolution.Source == buildtime.SourceEpoch {
		color.New(color.FgGreen).Fprintf(w, "%s (pinned, reproducible)\n", r.Resolution.EpochEnv)
	} else {
		color.New(color.FgYellow).Fprintf(w, "system clock (%s not set)\n", r.Resolution.EpochEnv)
	}

	label.Fprint(w, "  UTC:    ")
	fmt.Fprintln(w, r.UTC)
	label.Fprint(w, "  Local:  ")
	fmt.Fprintln(w, r.Local)
}

func (r *Report) printValues(w io.Writer) {
	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14"))

	fmt.Fprintln(w, sectionStyle.Render("Constants"))

	width := 0
	for _, v := range r.Values {
		width = max(width, len(v.Name))
	}

	green := color.New(color.FgGreen)
	for _, v := range r.Values {
		format := v.Format
		if format == "" {
			format = "RFC 3339"
		}
		green.Fprintf(w, "  ✓ %-*s", width, v.Name)
		fmt.Fprintf(w, "  %-5s  %q  (%s)\n", v.Zone, v.Literal, format)
	}
}

// printSeparator prints a separator line
func (r *Report) printSeparator(w io.Writer) {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))
	fmt.Fprintln(w, style.Render(strings.Repeat("─", 50)))
}

// printSummary prints the final status line
func (r *Report) printSummary(w io.Writer) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)

	switch {
	case r.Output == "":
		green.Fprintln(w, "✓ Build instant resolved")
	case r.Changed:
		green.Fprintf(w, "✓ Wrote %s", r.Output)
		fmt.Fprintf(w, " (%d constant(s))\n", len(r.Values))
	default:
		yellow.Fprintf(w, "⚠ %s already up to date", r.Output)
		fmt.Fprintln(w)
	}
}
