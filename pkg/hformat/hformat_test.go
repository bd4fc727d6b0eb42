package hformat

import (
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		args  []interface{}
		named map[string]interface{}
		want  string
	}{
		{
			name: "plain text passes through",
			tmpl: "Hello World",
			want: "Hello World",
		},
		{
			name:  "named argument",
			tmpl:  "Hello {name}!",
			named: map[string]interface{}{"name": "Ada"},
			want:  "Hello Ada!",
		},
		{
			name: "bare zero is the integer literal",
			tmpl: "{0}",
			args: []interface{}{19},
			want: "0",
		},
		{
			name: "underscore reference takes the positional",
			tmpl: "{_0_}",
			args: []interface{}{19},
			want: "19",
		},
		{
			name: "empty expression takes the next unused positional",
			tmpl: "{}",
			args: []interface{}{19},
			want: "19",
		},
		{
			name: "cursor advances per directive",
			tmpl: "{} {} and {}",
			args: []interface{}{"one", "two", "three"},
			want: "one two and three",
		},
		{
			name: "positional reference in a compound expression",
			tmpl: "{_0_ + 1}",
			args: []interface{}{41},
			want: "42",
		},
		{
			name:  "mixed named and positional",
			tmpl:  "{name} is {}",
			args:  []interface{}{36},
			named: map[string]interface{}{"name": "Ada"},
			want:  "Ada is 36",
		},
		{
			name: "width fill center",
			tmpl: "{'Hello world': width(+6), fill(_), center}",
			want: "___Hello world___",
		},
		{
			name: "field composite with wrap",
			tmpl: "{'Hello world': field(+6,_,center), wrap('()')}",
			want: "(___Hello world___)",
		},
		{
			name: "numeric pipeline",
			tmpl: "{3/11: width(10), fill(-), float(3), center}",
			want: "--0.273---",
		},
		{
			name:  "double quote becomes active on majority",
			tmpl:  `{"It's fine": width(12)}`,
			named: nil,
			want:  "It's fine   ",
		},
		{
			name: "escaped separator reaches the fill",
			tmpl: "{'x': width(+2), fill(!,), center}",
			want: ",x,",
		},
		{
			name:  "boolean value renders as text",
			tmpl:  "{ok}",
			named: map[string]interface{}{"ok": true},
			want:  "true",
		},
		{
			name:  "nil value renders empty",
			tmpl:  "{gone}",
			named: map[string]interface{}{"gone": nil},
			want:  "",
		},
		{
			name: "several directives with pipelines",
			tmpl: "[{1: zwidth(3)}] [{255: hex}]",
			want: "[001] [0xff]",
		},
		{
			name: "milesep on a large float argument",
			tmpl: "{_0_: milesep}",
			args: []interface{}{1234567.5},
			want: "1,234,567.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.tmpl, tt.args, tt.named)
			if err != nil {
				t.Fatalf("Format(%q) unexpected error: %v", tt.tmpl, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormatLiteralFallback(t *testing.T) {
	tests := []struct {
		name  string
		tmpl  string
		args  []interface{}
		named map[string]interface{}
		want  string
	}{
		{
			name: "undefined name renders the directive source",
			tmpl: "{undefined_var : float}",
			want: "{undefined_var : float}",
		},
		{
			name: "positional out of range",
			tmpl: "{_5_}",
			args: []interface{}{1},
			want: "{_5_}",
		},
		{
			name: "exhausted cursor",
			tmpl: "{} {} {}",
			args: []interface{}{1, 2},
			want: "1 2 {}",
		},
		{
			name:  "member access failure",
			tmpl:  "{user.missing}",
			named: map[string]interface{}{"user": map[string]interface{}{"name": "Ada"}},
			want:  "{user.missing}",
		},
		{
			name: "surrounding text survives the fallback",
			tmpl: "a {nope} b",
			want: "a {nope} b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.tmpl, tt.args, tt.named)
			if err != nil {
				t.Fatalf("Format(%q) unexpected error: %v", tt.tmpl, err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormatHardErrors(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		isParse bool
		isArg   bool
	}{
		{name: "unclosed brace", tmpl: "Hello {name", isParse: true},
		{name: "stray closing brace", tmpl: "Hello }", isParse: true},
		{name: "unknown function", tmpl: "{x: bogus}", isParse: true},
		{name: "unknown function even without binding", tmpl: "{missing: bogus}", isParse: true},
		{name: "unbalanced parens in spec", tmpl: "{x: width(4}", isParse: true},
		{name: "bad width argument", tmpl: "{5: width(abc)}", isArg: true},
		{name: "missing required argument", tmpl: "{5: width}", isArg: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.tmpl, nil, nil)
			if err == nil {
				t.Fatalf("Format(%q) expected error, got none", tt.tmpl)
			}
			if tt.isParse && !IsParseError(err) {
				t.Errorf("Format(%q) error = %T (%v), want *ParseError", tt.tmpl, err, err)
			}
			if tt.isArg && !IsArgumentError(err) {
				t.Errorf("Format(%q) error = %T (%v), want *ArgumentError", tt.tmpl, err, err)
			}
		})
	}
}

func TestPreparedTemplateReuse(t *testing.T) {
	engine := New()
	pt, err := engine.Prepare("{} + {} = {_0_ + _1_}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	first, err := pt.Format([]interface{}{1, 2}, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if first != "1 + 2 = 3" {
		t.Errorf("first Format = %q, want %q", first, "1 + 2 = 3")
	}

	// The positional cursor must reset between calls.
	second, err := pt.Format([]interface{}{10, 20}, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if second != "10 + 20 = 30" {
		t.Errorf("second Format = %q, want %q", second, "10 + 20 = 30")
	}
}

func TestConcurrentFormat(t *testing.T) {
	engine := New()
	pt, err := engine.Prepare("{}-{}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			got, err := pt.Format([]interface{}{"a", "b"}, nil)
			if err == nil && got != "a-b" {
				err = fmt.Errorf("got %q, want %q", got, "a-b")
			}
			done <- err
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent Format: %v", err)
		}
	}
}

type fixedEvaluator struct {
	value interface{}
}

func (f fixedEvaluator) Evaluate(expr string, bindings Bindings) (interface{}, error) {
	return f.value, nil
}

func TestEngineOptions(t *testing.T) {
	engine := NewWithOptions(
		WithEvaluator(fixedEvaluator{value: "fixed"}),
		WithCache(0),
	)

	got, err := engine.Format("{anything}", nil, nil)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "fixed" {
		t.Errorf("Format = %q, want %q", got, "fixed")
	}

	first, err := engine.Prepare("{x}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	second, err := engine.Prepare("{x}")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if first == second {
		t.Error("disabled cache should not reuse prepared templates")
	}
}
