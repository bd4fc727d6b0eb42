package hformat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// valueKind tags the two shapes a directive value can take.
type valueKind int

const (
	valueText valueKind = iota
	valueNumber
)

// renderValue is the tagged Text/Number union the pipeline operates on.
// Integers keep their exact int64 form so base casts stay lossless.
type renderValue struct {
	kind  valueKind
	text  string
	num   float64
	i     int64
	isInt bool
}

// castKind selects the representation a cast function coerces to.
type castKind int

const (
	castNone castKind = iota
	castString
	castBin
	castRawBin
	castChar
	castDecimal
	castOctal
	castRawOctal
	castHex
	castRawHex
	castNumber
	castExp
	castFloat
	castGeneral
	castPercent
)

// coerceValue converts an evaluator result into a renderValue.
func coerceValue(v interface{}) renderValue {
	switch n := v.(type) {
	case nil:
		return renderValue{kind: valueText, text: ""}
	case int:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case int8:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case int16:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case int32:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case int64:
		return renderValue{kind: valueNumber, num: float64(n), i: n, isInt: true}
	case uint:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case uint8:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case uint16:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case uint32:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case uint64:
		return renderValue{kind: valueNumber, num: float64(n), i: int64(n), isInt: true}
	case float32:
		return renderValue{kind: valueNumber, num: float64(n)}
	case float64:
		return renderValue{kind: valueNumber, num: n}
	case bool:
		if n {
			return renderValue{kind: valueText, text: "true"}
		}
		return renderValue{kind: valueText, text: "false"}
	case string:
		return renderValue{kind: valueText, text: n}
	default:
		return renderValue{kind: valueText, text: fmt.Sprintf("%v", v)}
	}
}

// asNumber reports the numeric form of the value. Text parses as a number
// when it looks like one; otherwise ok is false and the text stays text.
func (v renderValue) asNumber() (renderValue, bool) {
	if v.kind == valueNumber {
		return v, true
	}
	s := strings.TrimSpace(v.text)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return renderValue{kind: valueNumber, num: float64(i), i: i, isInt: true}, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return renderValue{kind: valueNumber, num: f}, true
	}
	return v, false
}

// coerce runs render stage 1: it turns the value into a textual core per
// the configured cast, precision and sign mode. The returned prefix holds
// the sign and any base prefix, so later stages know where sign-aligned
// padding belongs; numeric reports whether separator insertion applies.
func (st *renderState) coerce() (prefix, body string, numeric bool) {
	v := st.value

	if st.cast == castNone && st.precision == nil && st.sign == signMinus &&
		v.kind == valueText {
		return "", v.text, false
	}

	num, ok := v.asNumber()
	if !ok {
		// Numeric casts degrade to the text itself on non-numeric input.
		return "", v.text, false
	}

	neg := num.num < 0 || (num.isInt && num.i < 0)
	signPrefix := ""
	switch {
	case neg:
		signPrefix = "-"
	case st.sign == signPlus:
		signPrefix = "+"
	case st.sign == signSpace:
		signPrefix = " "
	}

	switch st.cast {
	case castBin, castRawBin, castChar, castDecimal, castOctal, castRawOctal, castHex, castRawHex:
		i := num.i
		if !num.isInt {
			i = int64(num.num)
		}
		if i < 0 {
			i = -i
		}
		switch st.cast {
		case castBin:
			return signPrefix + "0b", strconv.FormatInt(i, 2), true
		case castRawBin:
			return signPrefix, strconv.FormatInt(i, 2), true
		case castOctal:
			return signPrefix + "0o", strconv.FormatInt(i, 8), true
		case castRawOctal:
			return signPrefix, strconv.FormatInt(i, 8), true
		case castHex:
			return signPrefix + "0x", strconv.FormatInt(i, 16), true
		case castRawHex:
			return signPrefix, strconv.FormatInt(i, 16), true
		case castChar:
			return "", string(rune(i)), false
		default: // castDecimal
			return signPrefix, strconv.FormatInt(i, 10), true
		}
	case castExp:
		prec := 6
		if st.precision != nil {
			prec = *st.precision
		}
		return signPrefix, strconv.FormatFloat(math.Abs(num.num), 'e', prec, 64), true
	case castGeneral:
		f := math.Abs(num.num)
		if st.precision != nil {
			f = roundHalfUp(f, *st.precision)
		}
		return signPrefix, strconv.FormatFloat(f, 'g', -1, 64), true
	case castNumber:
		// Plain decimal notation: large magnitudes must keep their digit
		// runs so separator grouping has something to group.
		f := math.Abs(num.num)
		if st.precision != nil {
			f = roundHalfUp(f, *st.precision)
		}
		return signPrefix, strconv.FormatFloat(f, 'f', -1, 64), true
	case castPercent:
		prec := 6
		if st.precision != nil {
			prec = *st.precision
		}
		f := roundHalfUp(math.Abs(num.num)*100, prec)
		return signPrefix, strconv.FormatFloat(f, 'f', prec, 64) + "%", true
	case castFloat:
		prec := 6
		if st.precision != nil {
			prec = *st.precision
		}
		f := roundHalfUp(math.Abs(num.num), prec)
		return signPrefix, strconv.FormatFloat(f, 'f', prec, 64), true
	default:
		// castNone and castString: default numeric rendering.
		if st.precision != nil {
			f := roundHalfUp(math.Abs(num.num), *st.precision)
			return signPrefix, strconv.FormatFloat(f, 'f', *st.precision, 64), true
		}
		if num.isInt {
			i := num.i
			if i < 0 {
				i = -i
			}
			return signPrefix, strconv.FormatInt(i, 10), true
		}
		return signPrefix, strconv.FormatFloat(math.Abs(num.num), 'f', -1, 64), true
	}
}

// roundHalfUp rounds v to n decimals, halves away from zero.
func roundHalfUp(v float64, n int) float64 {
	shift := math.Pow(10, float64(n))
	if v < 0 {
		return -math.Floor(-v*shift+0.5) / shift
	}
	return math.Floor(v*shift+0.5) / shift
}

// insertSeparators runs render stage 2 on the numeric core: mileSep groups
// digits in runs of three strictly left of the decimal separator, and
// floatSep replaces the decimal point character.
func insertSeparators(body, mileSep, floatSep string) string {
	intPart := body
	fracPart := ""
	if dot := strings.IndexByte(body, '.'); dot >= 0 {
		intPart = body[:dot]
		fracPart = body[dot+1:]
	}

	if mileSep != "" {
		intPart = groupThousands(intPart, mileSep)
	}

	if fracPart == "" && !strings.Contains(body, ".") {
		return intPart
	}
	sep := "."
	if floatSep != "" {
		sep = floatSep
	}
	return intPart + sep + fracPart
}

func groupThousands(digits, sep string) string {
	// Group only the trailing run of digits; anything before it (an
	// exponent never appears left of the decimal point) passes through.
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
