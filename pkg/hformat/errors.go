package hformat

import (
	"fmt"
	"strings"
)

// ParseError represents malformed directive syntax: unbalanced braces or
// parentheses, an unknown function name, or an empty function segment.
// It is a hard failure of the enclosing Format call.
type ParseError struct {
	Message  string
	Token    string
	Position int
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse error at position %d near '%s': %s", e.Position, e.Token, e.Message)
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Position, e.Message)
}

// NewParseError creates a new parse error
func NewParseError(message, token string, position int) error {
	return &ParseError{
		Message:  message,
		Token:    token,
		Position: position,
	}
}

// EvalError represents a field expression that could not be resolved
// (undefined name, evaluator runtime failure). It never reaches the
// caller of Format: the directive renders as its literal source instead.
type EvalError struct {
	Expression string
	Cause      error
}

func (e *EvalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation error for expression '%s': %v", e.Expression, e.Cause)
	}
	return fmt.Sprintf("evaluation error for expression '%s'", e.Expression)
}

func (e *EvalError) Unwrap() error {
	return e.Cause
}

// NewEvalError creates a new evaluation error
func NewEvalError(expression string, cause error) error {
	return &EvalError{
		Expression: expression,
		Cause:      cause,
	}
}

// ArgumentError represents a bad argument list for a pipeline function:
// wrong count, or a value that cannot be interpreted (e.g. width("abc")).
// Like ParseError, it is a hard failure of the enclosing Format call.
type ArgumentError struct {
	Function string
	Args     []string
	Message  string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument error in '%s(%s)': %s", e.Function, strings.Join(e.Args, ", "), e.Message)
}

// NewArgumentError creates a new argument error
func NewArgumentError(function string, args []string, message string) error {
	return &ArgumentError{
		Function: function,
		Args:     args,
		Message:  message,
	}
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// IsEvalError checks if an error is an evaluation error
func IsEvalError(err error) bool {
	_, ok := err.(*EvalError)
	return ok
}

// IsArgumentError checks if an error is an argument error
func IsArgumentError(err error) bool {
	_, ok := err.(*ArgumentError)
	return ok
}
