package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportAppendsAndRenders(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)

	r.Report(Lexical, Warning, "main.ћпп", 3, 7, "Floating-point numbers are not fully supported yet; truncating to integer value", "", "lexer.go", 42)

	require.Equal(t, 1, r.Count(nil))
	out := buf.String()
	assert.Contains(t, out, "Warning [Lexical] in main.ћпп:3:7:")
	assert.Contains(t, out, "Floating-point")
}

func TestReportSuggestionLine(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)

	r.Report(Syntax, Error, "f.ћпп", 1, 1, "unexpected token", "did you forget a ';'?", "parser.go", 10)

	assert.Contains(t, buf.String(), "suggestion: did you forget a ';'?")
}

func TestCountBySeverity(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)

	r.Report(Syntax, Error, "f.ћпп", 1, 1, "a", "", "", 0)
	r.Report(Lexical, Warning, "f.ћпп", 2, 1, "b", "", "", 0)
	r.Report(Syntax, Error, "f.ћпп", 3, 1, "c", "", "", 0)

	errSev := Error
	warnSev := Warning
	assert.Equal(t, 2, r.Count(&errSev))
	assert.Equal(t, 1, r.Count(&warnSev))
	assert.Equal(t, 3, r.Count(nil))
}

func TestCapDropsFurtherReportsAfterLimit(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)

	for i := 0; i < MaxEntries+10; i++ {
		r.Report(Syntax, Error, "f.ћпп", i+1, 1, "error", "", "", 0)
	}

	assert.Equal(t, MaxEntries, r.Count(nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "retained-entry cap reached"))
}

func TestExitStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)
	assert.Equal(t, 0, r.ExitStatus())

	r.Report(Lexical, Warning, "f.ћпп", 1, 1, "just a warning", "", "", 0)
	assert.Equal(t, 0, r.ExitStatus())

	r.Report(Syntax, Error, "f.ћпп", 1, 1, "an error", "", "", 0)
	assert.Equal(t, 1, r.ExitStatus())
}

func TestPrintSummaryVerboseReplaysEntries(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)
	r.Report(Syntax, Error, "f.ћпп", 1, 1, "boom", "", "", 0)
	buf.Reset()

	r.PrintSummary(true)

	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "1 error(s)")
}

func TestFatalOnTestRegistryDoesNotExit(t *testing.T) {
	var buf bytes.Buffer
	r := NewForTest(&buf)
	r.Report(Internal, Fatal, "f.ћпп", 1, 1, "unreachable branch", "", "", 0)
	assert.Equal(t, 1, r.ExitStatus())
}
