package hformat

import (
	"testing"
)

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want renderValue
	}{
		{name: "nil", in: nil, want: renderValue{kind: valueText, text: ""}},
		{name: "string", in: "abc", want: renderValue{kind: valueText, text: "abc"}},
		{name: "int", in: 42, want: renderValue{kind: valueNumber, num: 42, i: 42, isInt: true}},
		{name: "negative int", in: -7, want: renderValue{kind: valueNumber, num: -7, i: -7, isInt: true}},
		{name: "int64", in: int64(9), want: renderValue{kind: valueNumber, num: 9, i: 9, isInt: true}},
		{name: "float", in: 1.5, want: renderValue{kind: valueNumber, num: 1.5}},
		{name: "bool true", in: true, want: renderValue{kind: valueText, text: "true"}},
		{name: "bool false", in: false, want: renderValue{kind: valueText, text: "false"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceValue(tt.in); got != tt.want {
				t.Errorf("coerceValue(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		v    float64
		n    int
		want float64
	}{
		{v: 0.5, n: 0, want: 1},
		{v: 1.5, n: 0, want: 2},
		{v: 2.5, n: 0, want: 3},
		{v: -0.5, n: 0, want: -1},
		{v: 0.25, n: 1, want: 0.3},
		{v: 0.2727, n: 3, want: 0.273},
		{v: 1.004, n: 2, want: 1.0},
	}

	for _, tt := range tests {
		if got := roundHalfUp(tt.v, tt.n); got != tt.want {
			t.Errorf("roundHalfUp(%v, %d) = %v, want %v", tt.v, tt.n, got, tt.want)
		}
	}
}

func TestInsertSeparators(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mileSep  string
		floatSep string
		want     string
	}{
		{name: "thousands", body: "1234567", mileSep: ",", want: "1,234,567"},
		{name: "exactly three digits", body: "123", mileSep: ",", want: "123"},
		{name: "four digits", body: "1234", mileSep: ",", want: "1,234"},
		{name: "grouping stops at the decimal point", body: "1234.5678", mileSep: ",", want: "1,234.5678"},
		{name: "custom mile separator", body: "1234567", mileSep: ".", want: "1.234.567"},
		{name: "float separator replaced", body: "3.14", floatSep: ",", want: "3,14"},
		{name: "both separators", body: "1234.5", mileSep: " ", floatSep: ",", want: "1 234,5"},
		{name: "no separators configured", body: "1234.5", want: "1234.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insertSeparators(tt.body, tt.mileSep, tt.floatSep); got != tt.want {
				t.Errorf("insertSeparators(%q, %q, %q) = %q, want %q",
					tt.body, tt.mileSep, tt.floatSep, got, tt.want)
			}
		})
	}
}

func TestRenderCasts(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		calls []FunctionCall
		want  string
	}{
		{name: "int default", value: 42, want: "42"},
		{name: "negative int default", value: -42, want: "-42"},
		{name: "float default shortest", value: 1.5, want: "1.5"},
		{name: "float cast default six decimals", value: 1.5, calls: []FunctionCall{call("float")}, want: "1.500000"},
		{name: "float cast with precision", value: 0.2727272, calls: []FunctionCall{call("float", "3")}, want: "0.273"},
		{name: "precision alone", value: 1.0055, calls: []FunctionCall{call("prec", "2")}, want: "1.01"},
		{name: "hex formatted", value: 255, calls: []FunctionCall{call("hex")}, want: "0xff"},
		{name: "hex raw", value: 255, calls: []FunctionCall{call("rawhex")}, want: "ff"},
		{name: "bin formatted", value: 5, calls: []FunctionCall{call("bin")}, want: "0b101"},
		{name: "bin raw", value: 5, calls: []FunctionCall{call("rawbin")}, want: "101"},
		{name: "octal formatted", value: 8, calls: []FunctionCall{call("octal")}, want: "0o10"},
		{name: "octal raw", value: 8, calls: []FunctionCall{call("rawoctal")}, want: "10"},
		{name: "decimal", value: 42, calls: []FunctionCall{call("decimal")}, want: "42"},
		{name: "negative hex keeps sign before prefix", value: -255, calls: []FunctionCall{call("hex")}, want: "-0xff"},
		{name: "char renders the code point", value: 65, calls: []FunctionCall{call("char")}, want: "A"},
		{name: "integer cast truncates floats", value: 9.7, calls: []FunctionCall{call("decimal")}, want: "9"},
		{name: "percentage", value: 0.5, calls: []FunctionCall{call("percentage")}, want: "50.000000%"},
		{name: "percentage with precision", value: 0.5, calls: []FunctionCall{call("%"), call("prec", "1")}, want: "50.0%"},
		{name: "exponent notation", value: 1234.5, calls: []FunctionCall{call("exp"), call("prec", "2")}, want: "1.23e+03"},
		{name: "general shortest form", value: 1.50, calls: []FunctionCall{call("general")}, want: "1.5"},
		{name: "numeric cast on numeric text", value: "19", calls: []FunctionCall{call("float", "1")}, want: "19.0"},
		{name: "numeric cast degrades on plain text", value: "abc", calls: []FunctionCall{call("float")}, want: "abc"},
		{name: "repeated cast is idempotent", value: 255, calls: []FunctionCall{call("hex"), call("hex")}, want: "0xff"},
		{name: "later cast wins", value: 255, calls: []FunctionCall{call("hex"), call("rawbin")}, want: "11111111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderWith(t, tt.value, tt.calls...); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSign(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		calls []FunctionCall
		want  string
	}{
		{name: "default hides positive sign", value: 42, want: "42"},
		{name: "sign defaults to plus mode", value: 42, calls: []FunctionCall{call("sign")}, want: "+42"},
		{name: "plus mode keeps minus", value: -42, calls: []FunctionCall{call("sign", "+")}, want: "-42"},
		{name: "space mode pads positives", value: 42, calls: []FunctionCall{call("sign", " ")}, want: " 42"},
		{name: "minus mode is the default behavior", value: 42, calls: []FunctionCall{call("sign", "-")}, want: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderWith(t, tt.value, tt.calls...); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderSeparators(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		calls []FunctionCall
		want  string
	}{
		{name: "milesep default comma", value: 1234567, calls: []FunctionCall{call("milesep")}, want: "1,234,567"},
		{name: "milesep custom", value: 1234567, calls: []FunctionCall{call("milesep", ".")}, want: "1.234.567"},
		{name: "floatsep", value: 3.14, calls: []FunctionCall{call("floatsep", ",")}, want: "3,14"},
		{name: "milesep with float cast", value: 1234.5, calls: []FunctionCall{call("float", "2"), call("milesep")}, want: "1,234.50"},
		{name: "large float keeps plain decimal notation", value: 1234567.5, calls: []FunctionCall{call("milesep")}, want: "1,234,567.5"},
		{name: "large integral float groups too", value: 12345678.0, calls: []FunctionCall{call("milesep")}, want: "12,345,678"},
		{name: "number cast of a large float groups", value: 1234567.5, calls: []FunctionCall{call("number"), call("milesep")}, want: "1,234,567.5"},
		{name: "separators ignore plain text", value: "abcdef", calls: []FunctionCall{call("milesep")}, want: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderWith(t, tt.value, tt.calls...); got != tt.want {
				t.Errorf("render = %q, want %q", got, tt.want)
			}
		})
	}
}
