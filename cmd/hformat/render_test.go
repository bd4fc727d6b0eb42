package main

import (
	"reflect"
	"testing"
)

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want interface{}
	}{
		{in: "42", want: 42},
		{in: "-7", want: -7},
		{in: "3.14", want: 3.14},
		{in: "true", want: true},
		{in: "false", want: false},
		{in: "hello", want: "hello"},
		{in: "", want: ""},
		{in: "1x", want: "1x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseScalar(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseScalar(%q) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}
