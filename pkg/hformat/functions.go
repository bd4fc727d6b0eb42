package hformat

import (
	"strconv"
	"strings"
)

// functionCatalog is the full set of pipeline functions. Each descriptor
// mutates the render state; the fixed render stages in render.go decide
// when the recorded effects actually take place.
func functionCatalog() []*FunctionDescriptor {
	catalog := []*FunctionDescriptor{
		{
			Name: "fill", MinArgs: 0, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				st.canvasFill = false
				if len(args) == 0 || args[0] == "" {
					st.fillChars = []rune{' '}
					return nil
				}
				st.fillChars = []rune(args[0])
				return nil
			},
		},
		{
			Name: "width", MinArgs: 1, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				w, err := parseWidth("width", args[0])
				if err != nil {
					return err
				}
				st.width = w
				st.zeroPad = false
				return nil
			},
		},
		{
			Name: "zwidth", MinArgs: 1, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				w, err := parseWidth("zwidth", args[0])
				if err != nil {
					return err
				}
				st.width = w
				st.zeroPad = true
				return nil
			},
		},
		{
			Name: "align", MinArgs: 1, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				mode, err := parseAlign("align", args[0])
				if err != nil {
					return err
				}
				st.align = mode
				st.alignSet = true
				return nil
			},
		},
		{
			Name: "left", MinArgs: 0, MaxArgs: 0,
			Apply: func(st *renderState, args []string) error {
				st.align = alignLeft
				st.alignSet = true
				return nil
			},
		},
		{
			Name: "right", MinArgs: 0, MaxArgs: 0,
			Apply: func(st *renderState, args []string) error {
				st.align = alignRight
				st.alignSet = true
				return nil
			},
		},
		{
			Name: "center", MinArgs: 0, MaxArgs: 0,
			Apply: func(st *renderState, args []string) error {
				st.align = alignCenter
				st.alignSet = true
				return nil
			},
		},
		{
			Name: "field", MinArgs: 1, MaxArgs: 3,
			Apply: func(st *renderState, args []string) error {
				w, err := parseWidth("field", args[0])
				if err != nil {
					return err
				}
				st.width = w
				st.zeroPad = false
				if len(args) > 1 && args[1] != "" {
					st.fillChars = []rune(args[1])
					st.canvasFill = false
				}
				if len(args) > 2 {
					mode, err := parseAlign("field", args[2])
					if err != nil {
						return err
					}
					st.align = mode
					st.alignSet = true
				}
				return nil
			},
		},
		{
			Name: "wrap", MinArgs: 1, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				st.wrapOpen, st.wrapClose = splitHalves(args[0])
				return nil
			},
		},
		{
			Name: "canvas", MinArgs: 2, MaxArgs: 3,
			Apply: func(st *renderState, args []string) error {
				w, err := parseWidth("canvas", args[0])
				if err != nil {
					return err
				}
				st.width = w
				st.zeroPad = false
				applyCanvasFill(st, args[1])
				if len(args) > 2 {
					mode, err := parseAlign("canvas", args[2])
					if err != nil {
						return err
					}
					st.align = mode
					st.alignSet = true
				}
				return nil
			},
		},
		{
			Name: "trim", MinArgs: 1, MaxArgs: 2,
			Apply: func(st *renderState, args []string) error {
				limit, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || limit < 0 {
					return NewArgumentError("trim", args, "limit must be a non-negative integer")
				}
				spec := &trimSpec{limit: limit}
				if len(args) > 1 {
					spec.stop = args[1]
				}
				st.trim = spec
				return nil
			},
		},
		{
			Name: "sign", MinArgs: 0, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				mode := "+"
				if len(args) > 0 && args[0] != "" {
					mode = args[0]
				}
				switch mode {
				case "+":
					st.sign = signPlus
				case "-":
					st.sign = signMinus
				case " ":
					st.sign = signSpace
				default:
					return NewArgumentError("sign", args, "mode must be '+', '-' or ' '")
				}
				return nil
			},
		},
		{
			Name: "precision", Aliases: []string{"prec"}, MinArgs: 1, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				n, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil || n < 0 {
					return NewArgumentError("precision", args, "expects a non-negative integer")
				}
				st.precision = &n
				return nil
			},
		},
		{
			Name: "float", Aliases: []string{"f"}, MinArgs: 0, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				st.cast = castFloat
				if len(args) > 0 && args[0] != "" {
					n, err := strconv.Atoi(strings.TrimSpace(args[0]))
					if err != nil || n < 0 {
						return NewArgumentError("float", args, "precision must be a non-negative integer")
					}
					st.precision = &n
				}
				return nil
			},
		},
		{
			Name: "floatsep", MinArgs: 1, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				if args[0] == "" {
					return NewArgumentError("floatsep", args, "separator cannot be empty")
				}
				st.floatSep = args[0]
				return nil
			},
		},
		{
			Name: "milesep", MinArgs: 0, MaxArgs: 1,
			Apply: func(st *renderState, args []string) error {
				st.mileSep = ","
				if len(args) > 0 && args[0] != "" {
					st.mileSep = args[0]
				}
				return nil
			},
		},
	}
	return append(catalog, castCatalog()...)
}

// castCatalog lists the representation casts. None of them accepts
// arguments; "formatted" base variants carry a 0b/0o/0x prefix and the
// "raw" variants omit it.
func castCatalog() []*FunctionDescriptor {
	casts := []struct {
		name    string
		aliases []string
		kind    castKind
	}{
		{"string", []string{"str", "s"}, castString},
		{"bin", []string{"xb"}, castBin},
		{"rawbin", []string{"rbin", "b"}, castRawBin},
		{"char", []string{"c"}, castChar},
		{"decimal", []string{"dec", "d"}, castDecimal},
		{"octal", []string{"oct", "xo"}, castOctal},
		{"rawoctal", []string{"rawoct", "o"}, castRawOctal},
		{"hex", []string{"xx"}, castHex},
		{"rawhex", []string{"rhex", "x"}, castRawHex},
		{"number", []string{"n"}, castNumber},
		{"exp", nil, castExp},
		{"general", []string{"gen", "g"}, castGeneral},
		{"percentage", []string{"%"}, castPercent},
	}

	descriptors := make([]*FunctionDescriptor, 0, len(casts))
	for _, c := range casts {
		kind := c.kind
		descriptors = append(descriptors, &FunctionDescriptor{
			Name:    c.name,
			Aliases: c.aliases,
			MinArgs: 0,
			MaxArgs: 0,
			Apply: func(st *renderState, args []string) error {
				st.cast = kind
				return nil
			},
		})
	}
	return descriptors
}

// parseWidth parses n or +n into an absolute or relative field width.
func parseWidth(fn, arg string) (*fieldWidth, error) {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "+") {
		n, err := strconv.Atoi(arg[1:])
		if err != nil || n < 0 {
			return nil, NewArgumentError(fn, []string{arg}, "relative width must be +n with n >= 0")
		}
		return &fieldWidth{relative: true, n: n}, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return nil, NewArgumentError(fn, []string{arg}, "width must be a non-negative integer")
	}
	return &fieldWidth{n: n}, nil
}

// parseAlign accepts the symbolic aliases < > ^ = beside the word forms.
func parseAlign(fn, arg string) (alignMode, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "left", "<":
		return alignLeft, nil
	case "right", ">":
		return alignRight, nil
	case "center", "^":
		return alignCenter, nil
	case "sign", "=":
		return alignSign, nil
	default:
		return alignLeft, NewArgumentError(fn, []string{arg}, "unknown alignment mode")
	}
}

// splitHalves splits a wrap string into opening and closing halves. An odd
// length gives the closing half the extra center character.
func splitHalves(chars string) (opening, closing string) {
	runes := []rune(chars)
	half := len(runes) / 2
	return string(runes[:half]), string(runes[half:])
}

// applyCanvasFill interprets the canvas fillchars argument. Odd length:
// the center character fills and the remainder splits into wrap halves.
// Even length: each half serves as both fill and wrap on its own side.
func applyCanvasFill(st *renderState, chars string) {
	runes := []rune(chars)
	if len(runes) == 0 {
		return
	}
	if len(runes)%2 == 1 {
		mid := len(runes) / 2
		st.fillChars = []rune{runes[mid]}
		st.canvasFill = false
		rest := append(append([]rune{}, runes[:mid]...), runes[mid+1:]...)
		st.wrapOpen, st.wrapClose = splitHalves(string(rest))
		return
	}
	half := len(runes) / 2
	st.canvasFill = true
	st.openFill = append([]rune{}, runes[:half]...)
	st.closeFill = append([]rune{}, runes[half:]...)
	st.wrapOpen = string(runes[:half])
	st.wrapClose = string(runes[half:])
}
