// Package script parses the line-oriented flow syntax and lowers it into
// the canonical graph representation.
//
// One statement per line:
//
//	sum = math:add(2, 3)
//	math:multiply($0, 4)   // $k references statement k, "sum" works too
//
// Arguments are numeric literals, double-quoted string literals, the
// booleans true/false, or bare identifiers referencing an earlier
// statement's result. "//" begins a comment; blank lines are ignored.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Statement is one parsed line: an optional result label, the qualified
// block id, and its positional arguments.
type Statement struct {
	Line  int
	Label string
	Block string
	Args  []Arg
}

// Arg is a single positional argument. Exactly one of Literal and Ref is
// set; Ref holds either "$k" or a statement label.
type Arg struct {
	Literal cty.Value
	Ref     string
}

// IsRef reports whether the argument references another statement's result.
func (a Arg) IsRef() bool { return a.Ref != "" }

// Parse splits the source into statements. It stops at the first syntax
// error.
func Parse(src string) ([]Statement, error) {
	var stmts []Statement
	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		st, err := parseStatement(lineNo, line)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return stmts, nil
}

// stripComment removes a trailing "//" comment, ignoring slashes inside
// string literals.
func stripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		switch {
		case inString && line[i] == '\\':
			i++
		case line[i] == '"':
			inString = !inString
		case !inString && line[i] == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

func parseStatement(lineNo int, line string) (Statement, error) {
	st := Statement{Line: lineNo}

	// Optional "label =" prefix. The '=' must come before the call's
	// opening parenthesis to count as an assignment.
	if eq := strings.Index(line, "="); eq >= 0 {
		if paren := strings.Index(line, "("); paren < 0 || eq < paren {
			label := strings.TrimSpace(line[:eq])
			if !isIdentifier(label) {
				return st, &ParseError{Line: lineNo, Message: fmt.Sprintf("invalid label %q", label)}
			}
			st.Label = label
			line = strings.TrimSpace(line[eq+1:])
		}
	}

	open := strings.Index(line, "(")
	if open < 0 || !strings.HasSuffix(line, ")") {
		return st, &ParseError{Line: lineNo, Message: "expected app:function(arg, ...)"}
	}
	blockID := strings.TrimSpace(line[:open])
	app, fn, ok := strings.Cut(blockID, ":")
	if !ok || app == "" || fn == "" {
		return st, &ParseError{Line: lineNo, Message: fmt.Sprintf("malformed block id %q, want \"app:function\"", blockID)}
	}
	st.Block = blockID

	argSrc := strings.TrimSpace(line[open+1 : len(line)-1])
	if argSrc == "" {
		return st, nil
	}
	parts, err := splitArgs(lineNo, argSrc)
	if err != nil {
		return st, err
	}
	for _, part := range parts {
		arg, err := parseArg(lineNo, part)
		if err != nil {
			return st, err
		}
		st.Args = append(st.Args, arg)
	}
	return st, nil
}

// splitArgs splits on commas that sit outside string literals.
func splitArgs(lineNo int, src string) ([]string, error) {
	var parts []string
	start := 0
	inString := false
	for i := 0; i < len(src); i++ {
		switch {
		case inString && src[i] == '\\':
			i++
		case src[i] == '"':
			inString = !inString
		case !inString && src[i] == ',':
			parts = append(parts, strings.TrimSpace(src[start:i]))
			start = i + 1
		}
	}
	if inString {
		return nil, &ParseError{Line: lineNo, Message: "unterminated string literal"}
	}
	parts = append(parts, strings.TrimSpace(src[start:]))
	for _, p := range parts {
		if p == "" {
			return nil, &ParseError{Line: lineNo, Message: "empty argument"}
		}
	}
	return parts, nil
}

func parseArg(lineNo int, src string) (Arg, error) {
	switch {
	case strings.HasPrefix(src, `"`):
		unquoted, err := strconv.Unquote(src)
		if err != nil {
			return Arg{}, &ParseError{Line: lineNo, Message: fmt.Sprintf("bad string literal %s", src)}
		}
		return Arg{Literal: cty.StringVal(unquoted)}, nil
	case src == "true":
		return Arg{Literal: cty.True}, nil
	case src == "false":
		return Arg{Literal: cty.False}, nil
	}
	if f, err := strconv.ParseFloat(src, 64); err == nil {
		return Arg{Literal: cty.NumberFloatVal(f)}, nil
	}
	if isReference(src) {
		return Arg{Ref: src}, nil
	}
	return Arg{}, &ParseError{Line: lineNo, Message: fmt.Sprintf("invalid argument %q", src)}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// isReference accepts "$k" statement indices and plain labels.
func isReference(s string) bool {
	if strings.HasPrefix(s, "$") {
		_, err := strconv.Atoi(s[1:])
		return err == nil
	}
	return isIdentifier(s)
}
