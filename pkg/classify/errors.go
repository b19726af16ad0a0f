package classify

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/routefold/pkg/token"
)

// ErrMalformedExport matches every *MalformedExportError via errors.Is.
var ErrMalformedExport = errors.New("malformed export")

// MalformedExportError reports an export that breaks the route module
// convention. It aborts classification of the whole module.
type MalformedExportError struct {
	Pos    token.Position
	Reason string
}

func (e *MalformedExportError) Error() string {
	if !e.Pos.IsValid() {
		return "malformed export: " + e.Reason
	}
	return fmt.Sprintf("malformed export at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Reason)
}

// Is reports whether target is ErrMalformedExport.
func (e *MalformedExportError) Is(target error) bool {
	return target == ErrMalformedExport
}

// WarningKind identifies a non-fatal classification problem.
type WarningKind string

// UnsupportedBindingPattern is recorded for destructured declarators, which
// pass through unclassified.
const UnsupportedBindingPattern WarningKind = "unsupported-binding-pattern"

// Warning is a non-fatal problem found during classification.
type Warning struct {
	Kind WarningKind
	Pos  token.Position
	Text string // source text of the offending node
}

func (w Warning) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", w.Pos.Line, w.Pos.Column, w.Kind, w.Text)
}
