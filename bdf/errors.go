package bdf

import (
	"fmt"
	"strings"
)

// FieldError reports a token that cannot be decoded as its declared
// kind. It carries enough context to locate the offending field; the
// codec never coerces a malformed token to zero.
type FieldError struct {
	Card   string // card type keyword
	Field  string // schema field name
	Raw    string // offending token text
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("bdf: %s field %q: %s (raw %q)", e.Card, e.Field, e.Reason, e.Raw)
}

// UnknownCardError reports an unrecognized card-type keyword.
type UnknownCardError struct {
	Name string
}

func (e *UnknownCardError) Error() string {
	return fmt.Sprintf("bdf: unknown card type %q", e.Name)
}

// LineError locates a read failure in the input text.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("bdf: line %d: %s", e.Line, strings.TrimPrefix(e.Err.Error(), "bdf: "))
}

func (e *LineError) Unwrap() error { return e.Err }

// StructuralError reports a wrong field count or arity at construction
// time: an element with the wrong node count, a section with the wrong
// dimension count. Structural errors are never deferred to validation.
type StructuralError struct {
	Card   string
	ID     int
	Reason string
}

func (e *StructuralError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("bdf: %s %d: %s", e.Card, e.ID, e.Reason)
	}
	return fmt.Sprintf("bdf: %s: %s", e.Card, e.Reason)
}

// DuplicateError reports a key collision under Add: an id in most
// namespaces, a name for parameters.
type DuplicateError struct {
	Space Space
	ID    int
	Name  string
	Card  string
}

func (e *DuplicateError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("bdf: duplicate %s %s (%s)", e.Space, e.Name, e.Card)
	}
	return fmt.Sprintf("bdf: duplicate %s id %d (%s)", e.Space, e.ID, e.Card)
}

// UnresolvedRef reports a reference to an entity that is not in the
// deck. The resolver collects these without aborting so one pass
// reports every dangling reference.
type UnresolvedRef struct {
	Card    string // referencing card type
	CardID  int
	Field   string // referencing field name
	Space   Space  // target namespace
	ID      int    // missing target id
}

func (e *UnresolvedRef) Error() string {
	return fmt.Sprintf("bdf: %s %d field %q: no %s %d in deck",
		e.Card, e.CardID, e.Field, e.Space, e.ID)
}

// WidthError reports a value that cannot be encoded in any supported
// column format. Write-time fatal for the record, named by entity and
// field.
type WidthError struct {
	Card  string
	ID    int
	Field string
	Value string
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("bdf: %s %d field %q: value %q does not fit any field format",
		e.Card, e.ID, e.Field, e.Value)
}

// Severity grades a validation finding.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Issue is one semantic validation finding. Issues are accumulated,
// never thrown: a validation run reports every problem at once and the
// caller decides whether the batch is fatal.
type Issue struct {
	Severity Severity
	Card     string
	ID       int
	Field    string
	Message  string
}

func (i Issue) String() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(i.Card)
	if i.ID != 0 {
		fmt.Fprintf(&sb, " %d", i.ID)
	}
	if i.Field != "" {
		fmt.Fprintf(&sb, " field %q", i.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	return sb.String()
}

// issuef builds an error-severity Issue.
func issuef(card string, id int, field, format string, args ...any) Issue {
	return Issue{
		Severity: SeverityError,
		Card:     card,
		ID:       id,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	}
}

// warnf builds a warning-severity Issue.
func warnf(card string, id int, field, format string, args ...any) Issue {
	i := issuef(card, id, field, format, args...)
	i.Severity = SeverityWarning
	return i
}
