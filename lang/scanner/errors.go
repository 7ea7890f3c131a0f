package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hemlang/hemlock/lang/token"
)

// Error represents a single scanning or parsing diagnostic at a given
// position.
type Error struct {
	Pos token.Pos
	Msg string
}

func (e Error) Error() string {
	if e.Pos.Unknown() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorList accumulates diagnostics so that scanning/parsing/resolving can
// continue past the first error and report as many problems as possible in
// one pass, matching the panic-mode recovery strategy described in spec
// section 4.4 ("Error reporting").
type ErrorList []Error

// Add appends a new diagnostic to the list.
func (el *ErrorList) Add(pos token.Pos, format string, args ...interface{}) {
	*el = append(*el, Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Sort orders the diagnostics by position.
func (el ErrorList) Sort() {
	sort.SliceStable(el, func(i, j int) bool { return el[i].Pos < el[j].Pos })
}

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Err returns the ErrorList as an error, or nil if it is empty.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}
