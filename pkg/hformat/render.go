package hformat

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// alignMode selects which side of the field receives padding.
type alignMode int

const (
	alignLeft alignMode = iota
	alignRight
	alignCenter
	// alignSign pads between a numeric sign (and base prefix) and the digits.
	alignSign
)

// signMode controls how the sign of a numeric value is rendered.
type signMode int

const (
	signMinus signMode = iota // sign only when negative
	signPlus                  // sign both ways
	signSpace                 // minus, or a space when non-negative
)

// fieldWidth is an absolute field width, or a delta relative to the
// natural length of the rendered text.
type fieldWidth struct {
	relative bool
	n        int
}

type trimSpec struct {
	limit int
	stop  string
}

// renderState is the mutable per-directive state the pipeline functions
// write into. It is created for one directive occurrence, owned by the
// executor, and discarded after rendering.
type renderState struct {
	value     renderValue
	width     *fieldWidth
	zeroPad   bool
	fillChars []rune
	align     alignMode
	alignSet  bool
	wrapOpen  string
	wrapClose string
	// canvas splits fill duty per side; openFill pads the left half,
	// closeFill the right half.
	canvasFill bool
	openFill   []rune
	closeFill  []rune
	sign       signMode
	precision  *int
	cast       castKind
	floatSep   string
	mileSep    string
	trim       *trimSpec
}

func newRenderState(value interface{}) *renderState {
	return &renderState{
		value: coerceValue(value),
	}
}

// applyPipeline resolves each call against the registry and applies it in
// written order. trim and wrap only record state here; their render-time
// position is fixed by the stage order below.
func applyPipeline(st *renderState, calls []FunctionCall) error {
	registry := getRegistry()
	for _, call := range calls {
		desc, ok := registry.Lookup(call.Name)
		if !ok {
			return NewParseError("unknown function", call.Name, 0)
		}
		if err := desc.checkArgs(call.RawArgs); err != nil {
			return err
		}
		if err := desc.Apply(st, call.RawArgs); err != nil {
			return err
		}
	}
	return nil
}

// render runs the fixed render stages over the collected state and
// returns the final text for the directive.
func (st *renderState) render() string {
	// Stage 1: type coercion into a textual core.
	prefix, body, numeric := st.coerce()

	// Stage 2: separator insertion on the numeric core.
	if numeric && (st.mileSep != "" || st.floatSep != "") {
		body = insertSeparators(body, st.mileSep, st.floatSep)
	}
	text := prefix + body

	// Stage 3: trim.
	if st.trim != nil {
		text = applyTrim(text, st.trim)
	}

	// Stage 4: width resolution. Relative width is measured against the
	// text as it stands after trimming.
	width := 0
	if st.width != nil {
		if st.width.relative {
			width = runewidth.StringWidth(text) + st.width.n
		} else {
			width = st.width.n
		}
	}

	// Stage 5: fill and align up to the field width.
	if width > 0 {
		text = st.fillAlign(text, width, len([]rune(prefix)))
	}

	// Stage 6: wrap. Wrapper characters do not count toward the width.
	return st.wrapOpen + text + st.wrapClose
}

// applyTrim truncates text to the configured limit, measured in display
// cells like the width and fill stages. With a stop string the effective
// limit is reduced by the stop's width, and the stop is appended. Text
// already within bounds is left alone.
func applyTrim(text string, spec *trimSpec) string {
	if spec.stop != "" {
		effective := spec.limit - runewidth.StringWidth(spec.stop)
		if effective < 0 {
			effective = 0
		}
		if runewidth.StringWidth(text) <= effective {
			return text
		}
		return runewidth.Truncate(text, effective, "") + spec.stop
	}
	return runewidth.Truncate(text, spec.limit, "")
}

// fillAlign pads text out to width display cells. Fill characters cycle;
// for centered text one cycle index runs through the left pads and then
// the right pads, and an odd remainder goes to the closing side (the same
// rule wrap uses for its halves). prefixRunes marks where sign-aligned
// padding is inserted.
func (st *renderState) fillAlign(text string, width, prefixRunes int) string {
	current := runewidth.StringWidth(text)
	missing := width - current
	if missing <= 0 {
		return text
	}

	align := st.align
	fill := st.fillChars
	if st.zeroPad {
		if !st.alignSet {
			align = alignSign
		}
		if len(fill) == 0 {
			fill = []rune{'0'}
		}
	}
	if len(fill) == 0 {
		fill = []rune{' '}
	}

	switch align {
	case alignRight:
		if st.canvasFill {
			return padCells(st.openFill, missing, 0) + text
		}
		return padCells(fill, missing, 0) + text
	case alignCenter:
		left := missing / 2
		right := missing - left
		if st.canvasFill {
			return padCells(st.openFill, left, 0) + text + padCells(st.closeFill, right, 0)
		}
		// One continuous fill cycle across both sides.
		return padCells(fill, left, 0) + text + padCells(fill, right, left)
	case alignSign:
		runes := []rune(text)
		if prefixRunes > len(runes) {
			prefixRunes = len(runes)
		}
		return string(runes[:prefixRunes]) + padCells(fill, missing, 0) + string(runes[prefixRunes:])
	default: // alignLeft
		if st.canvasFill {
			return text + padCells(st.closeFill, missing, 0)
		}
		return text + padCells(fill, missing, 0)
	}
}

// padCells builds a pad of at least cells display cells from fill,
// cycling from the given start index.
func padCells(fill []rune, cells, start int) string {
	if len(fill) == 0 {
		fill = []rune{' '}
	}
	var pad strings.Builder
	filled := 0
	for i := start; filled < cells; i++ {
		r := fill[i%len(fill)]
		pad.WriteRune(r)
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		filled += w
	}
	return pad.String()
}
