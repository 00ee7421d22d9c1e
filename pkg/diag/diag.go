// Package diag implements the structured diagnostic subsystem: typed,
// located, severity-graded reports with a retained-entry cap and an
// optional timestamped log file.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Kind partitions the failure space the front-end can produce.
type Kind int

const (
	Lexical Kind = iota
	Syntax
	Semantic
	CodeGen
	IO
	Internal
)

var kindNames = [...]string{
	Lexical:  "Lexical",
	Syntax:   "Syntax",
	Semantic: "Semantic",
	CodeGen:  "CodeGen",
	IO:       "IO",
	Internal: "Internal",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Severity governs propagation per spec §7.
type Severity int

const (
	Warning Severity = iota
	Error
	Fatal
)

var severityNames = [...]string{
	Warning: "Warning",
	Error:   "Error",
	Fatal:   "Fatal",
}

func (s Severity) String() string {
	if int(s) < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MaxEntries is the retained-entry cap; further reports are dropped after
// one notice is emitted.
const MaxEntries = 500

// Diagnostic is one recorded report.
type Diagnostic struct {
	Kind         Kind
	Severity     Severity
	Filename     string
	Line         int
	Column       int
	Message      string
	Suggestion   string
	ReporterFile string
	ReporterLine int
}

// Registry accumulates diagnostics for a single compilation run. The
// zero Registry is not usable; construct one with Init.
type Registry struct {
	entries     []Diagnostic
	dropped     bool
	colorOn     bool
	out         io.Writer
	logFile     *os.File
	exitOnFatal bool
}

// Init clears state, decides whether terminal color is enabled, and
// optionally opens a timestamped log file. It never fails fatally: a
// failed log open is recorded as a Warning and the registry continues
// without a log file.
func Init(createLogFile bool) *Registry {
	r := &Registry{
		out:         os.Stderr,
		colorOn:     colorEnabled(os.Stderr),
		exitOnFatal: true,
	}
	if createLogFile {
		name := fmt.Sprintf("glavnac-%s.log", time.Now().Format("20060102-150405"))
		f, err := os.Create(name)
		if err != nil {
			r.reportLocked(Diagnostic{
				Kind:     IO,
				Severity: Warning,
				Message:  errors.Wrapf(err, "could not open diagnostic log file %q", name).Error(),
			})
		} else {
			r.logFile = f
		}
	}
	return r
}

func colorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Report appends an entry and immediately prints it. Severity Fatal
// triggers process termination after Cleanup, unless the registry was
// constructed for testing with exitOnFatal disabled.
func (r *Registry) Report(kind Kind, severity Severity, filename string, line, column int, message string, suggestion, reporterFile string, reporterLine int) {
	r.reportLocked(Diagnostic{
		Kind:         kind,
		Severity:     severity,
		Filename:     filename,
		Line:         line,
		Column:       column,
		Message:      message,
		Suggestion:   suggestion,
		ReporterFile: reporterFile,
		ReporterLine: reporterLine,
	})
	if severity == Fatal && r.exitOnFatal {
		r.Cleanup()
		os.Exit(1)
	}
}

func (r *Registry) reportLocked(d Diagnostic) {
	if len(r.entries) >= MaxEntries {
		if !r.dropped {
			r.dropped = true
			fmt.Fprintln(r.out, "note: further diagnostics suppressed; retained-entry cap reached")
		}
		return
	}
	r.entries = append(r.entries, d)
	r.render(d)
}

func (r *Registry) render(d Diagnostic) {
	base := filepath.Base(d.Filename)
	line := fmt.Sprintf("%s [%s] in %s:%d:%d: %s", d.Severity, d.Kind, base, d.Line, d.Column, d.Message)
	if r.colorOn {
		line = colorize(d.Severity, line)
	}
	fmt.Fprintln(r.out, line)
	if d.Suggestion != "" {
		fmt.Fprintf(r.out, "  suggestion: %s\n", d.Suggestion)
	}
	if debugBuild {
		fmt.Fprintf(r.out, "  (reported from %s:%d)\n", d.ReporterFile, d.ReporterLine)
	}
	if r.logFile != nil {
		fmt.Fprintf(r.logFile, "[%s] %s\n", time.Now().Format(time.RFC3339), line)
	}
}

func colorize(sev Severity, s string) string {
	var code string
	switch sev {
	case Warning:
		code = "33" // yellow
	case Error:
		code = "31" // red
	case Fatal:
		code = "91" // bright red
	default:
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Count returns the number of entries matching severity, or all entries
// if severity is nil.
func (r *Registry) Count(severity *Severity) int {
	if severity == nil {
		return len(r.entries)
	}
	n := 0
	for _, d := range r.entries {
		if d.Severity == *severity {
			n++
		}
	}
	return n
}

// PrintSummary prints tallies by severity; if verbose, it replays every
// entry first.
func (r *Registry) PrintSummary(verbose bool) {
	if verbose {
		for _, d := range r.entries {
			r.render(d)
		}
	}
	var w, e, f int
	for _, d := range r.entries {
		switch d.Severity {
		case Warning:
			w++
		case Error:
			e++
		case Fatal:
			f++
		}
	}
	parts := []string{}
	if w > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", w))
	}
	if e > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", e))
	}
	if f > 0 {
		parts = append(parts, fmt.Sprintf("%d fatal(s)", f))
	}
	if len(parts) == 0 {
		fmt.Fprintln(r.out, "no diagnostics")
		return
	}
	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

// Cleanup releases owned resources and closes the log file, if any.
func (r *Registry) Cleanup() {
	if r.logFile != nil {
		_ = r.logFile.Close()
		r.logFile = nil
	}
}

// ExitStatus mirrors the driver's exit-code rule: 1 if any Error or
// Fatal was recorded, 0 otherwise.
func (r *Registry) ExitStatus() int {
	errSev := Error
	if r.Count(&errSev) > 0 {
		return 1
	}
	fatalSev := Fatal
	if r.Count(&fatalSev) > 0 {
		return 1
	}
	return 0
}

// Entries returns the recorded diagnostics in report order. Callers must
// not mutate the returned slice.
func (r *Registry) Entries() []Diagnostic {
	return r.entries
}
