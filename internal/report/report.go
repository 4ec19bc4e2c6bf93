// Package report renders a finished session as human-readable text. It is
// a pure reader of aggregator state: rendering happens once, on normal
// completion only.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/khanhnv2901/apidiag/internal/classify"
	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/session"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func severityLabel(s classify.Severity) string {
	switch s {
	case classify.SeverityError:
		return colorError("ERROR")
	case classify.SeverityWarning:
		return colorWarn("WARN")
	default:
		return colorInfo("INFO")
	}
}

func statusLabel(o probe.Outcome) string {
	if o.Skipped {
		return colorInfo("SKIPPED")
	}
	switch o.Status {
	case probe.StatusSuccess:
		return colorSuccess("OK")
	case probe.StatusFailure:
		return colorError("FAIL")
	default:
		return colorInfo("N/A")
	}
}

// Renderer writes the report to Out. When --output is set, Out is a
// MultiWriter teeing the console verbatim to the file.
type Renderer struct {
	Out     io.Writer
	Verbose bool
}

// Render prints probe results grouped by category, then findings, then
// the deduplicated remediation plan, then the verdict.
func (r *Renderer) Render(s *session.Session, sum session.Summary) {
	fmt.Fprintln(r.Out, "apidiag — API connectivity diagnostic")
	fmt.Fprintln(r.Out, strings.Repeat("=", 40))

	lastCategory := ""
	for _, rec := range s.Records() {
		if rec.Category != lastCategory {
			fmt.Fprintf(r.Out, "\n%s\n", colorInfo(rec.Category))
			lastCategory = rec.Category
		}
		fmt.Fprintf(r.Out, "  [%s] %s\n", statusLabel(rec.Outcome), rec.Probe)
		if r.Verbose && rec.Outcome.Detail != "" {
			fmt.Fprintf(r.Out, "        %s\n", rec.Outcome.Detail)
		}
	}

	if findings := s.Findings(); len(findings) > 0 {
		fmt.Fprintf(r.Out, "\n%s\n", colorInfo("Findings"))
		for _, f := range findings {
			fmt.Fprintf(r.Out, "  [%s] %s: %s\n", severityLabel(f.Severity), f.Issue, f.Message)
		}
	}

	if recs := s.Recommendations(); len(recs) > 0 {
		fmt.Fprintf(r.Out, "\n%s\n", colorInfo("Recommended actions"))
		for i, rec := range recs {
			fmt.Fprintf(r.Out, "  %d. %s\n", i+1, rec)
		}
	}

	fmt.Fprintln(r.Out)
	if sum.OK {
		fmt.Fprintln(r.Out, colorSuccess(fmt.Sprintf(
			"No blocking issues found (%d warning(s), %d info).", sum.Warnings, sum.Infos)))
	} else {
		fmt.Fprintln(r.Out, colorError(fmt.Sprintf(
			"%d blocking issue(s) found (%d warning(s), %d info).", sum.Errors, sum.Warnings, sum.Infos)))
	}
}
