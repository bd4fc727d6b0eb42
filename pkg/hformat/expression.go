package hformat

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Bindings maps names to the values a field expression may reference.
type Bindings map[string]interface{}

// Evaluator resolves a field expression against bindings. Implementations
// must be safe for concurrent use; the engine shares one across calls.
type Evaluator interface {
	Evaluate(expr string, bindings Bindings) (interface{}, error)
}

// boundedEvaluator is the default Evaluator: a deliberately small
// expression grammar with literals, identifiers, member access, index
// access, arithmetic, comparison and logic. It is not a general-purpose
// language and is not meant to become one.
type boundedEvaluator struct{}

// NewEvaluator returns the default bounded expression evaluator.
func NewEvaluator() Evaluator {
	return boundedEvaluator{}
}

func (boundedEvaluator) Evaluate(expr string, bindings Bindings) (interface{}, error) {
	node, err := parseExpression(expr)
	if err != nil {
		return nil, NewEvalError(expr, err)
	}
	val, err := node.eval(bindings)
	if err != nil {
		return nil, NewEvalError(expr, err)
	}
	return val, nil
}

// exprNode is a node in the expression AST
type exprNode interface {
	eval(bindings Bindings) (interface{}, error)
}

type literalNode struct {
	value interface{}
}

func (n *literalNode) eval(Bindings) (interface{}, error) {
	return n.value, nil
}

type identifierNode struct {
	name string
}

func (n *identifierNode) eval(bindings Bindings) (interface{}, error) {
	val, ok := bindings[n.name]
	if !ok {
		return nil, fmt.Errorf("undefined name: %s", n.name)
	}
	return val, nil
}

type memberNode struct {
	object exprNode
	field  string
}

func (n *memberNode) eval(bindings Bindings) (interface{}, error) {
	obj, err := n.object.eval(bindings)
	if err != nil {
		return nil, err
	}
	return accessMember(obj, n.field)
}

type indexNode struct {
	object exprNode
	index  exprNode
}

func (n *indexNode) eval(bindings Bindings) (interface{}, error) {
	obj, err := n.object.eval(bindings)
	if err != nil {
		return nil, err
	}
	idx, err := n.index.eval(bindings)
	if err != nil {
		return nil, err
	}
	switch i := idx.(type) {
	case int:
		return accessIndex(obj, i)
	case float64:
		return accessIndex(obj, int(i))
	case string:
		return accessMember(obj, i)
	default:
		return nil, fmt.Errorf("invalid index type: %T", idx)
	}
}

type binaryNode struct {
	left     exprNode
	operator string
	right    exprNode
}

func (n *binaryNode) eval(bindings Bindings) (interface{}, error) {
	left, err := n.left.eval(bindings)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(bindings)
	if err != nil {
		return nil, err
	}
	return evalBinary(left, n.operator, right)
}

type unaryNode struct {
	operator string
	operand  exprNode
}

func (n *unaryNode) eval(bindings Bindings) (interface{}, error) {
	val, err := n.operand.eval(bindings)
	if err != nil {
		return nil, err
	}
	switch n.operator {
	case "-":
		if num, ok := toFloat64(val); ok {
			if isInteger(val) {
				return -int(num), nil
			}
			return -num, nil
		}
		return nil, fmt.Errorf("cannot negate %T", val)
	case "+":
		if num, ok := toFloat64(val); ok {
			if isInteger(val) {
				return int(num), nil
			}
			return num, nil
		}
		return nil, fmt.Errorf("cannot apply unary plus to %T", val)
	default:
		return nil, fmt.Errorf("unknown unary operator: %s", n.operator)
	}
}

// exprToken is a token in an expression
type exprToken struct {
	typ   exprTokenType
	value string
	pos   int
}

type exprTokenType int

const (
	exprTokenIdentifier exprTokenType = iota
	exprTokenNumber
	exprTokenString
	exprTokenOperator
	exprTokenLeftParen
	exprTokenRightParen
	exprTokenEOF
)

var (
	exprIdentifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`)
	exprNumberRegex     = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?`)
	exprDoubleStrRegex  = regexp.MustCompile(`^"([^"\\]|\\.)*"`)
	exprSingleStrRegex  = regexp.MustCompile(`^'([^'\\]|\\.)*'`)
	exprOperatorRegex   = regexp.MustCompile(`^(==|!=|<=|>=|\+|\-|\*|\/|\%|\&|\||<|>)`)
)

// tokenizeExpression splits a field expression into tokens
func tokenizeExpression(expr string) ([]exprToken, error) {
	var tokens []exprToken
	pos := 0

	for pos < len(expr) {
		if expr[pos] == ' ' || expr[pos] == '\t' || expr[pos] == '\n' {
			pos++
			continue
		}

		remaining := expr[pos:]

		if match := exprIdentifierRegex.FindString(remaining); match != "" {
			tokens = append(tokens, exprToken{typ: exprTokenIdentifier, value: match, pos: pos})
			pos += len(match)
			continue
		}

		if match := exprNumberRegex.FindString(remaining); match != "" {
			tokens = append(tokens, exprToken{typ: exprTokenNumber, value: match, pos: pos})
			pos += len(match)
			continue
		}

		if match := exprDoubleStrRegex.FindString(remaining); match != "" {
			value := match[1 : len(match)-1]
			value = strings.ReplaceAll(value, `\"`, `"`)
			value = strings.ReplaceAll(value, `\\`, `\`)
			tokens = append(tokens, exprToken{typ: exprTokenString, value: value, pos: pos})
			pos += len(match)
			continue
		}

		if match := exprSingleStrRegex.FindString(remaining); match != "" {
			value := match[1 : len(match)-1]
			value = strings.ReplaceAll(value, `\'`, `'`)
			value = strings.ReplaceAll(value, `\\`, `\`)
			tokens = append(tokens, exprToken{typ: exprTokenString, value: value, pos: pos})
			pos += len(match)
			continue
		}

		if match := exprOperatorRegex.FindString(remaining); match != "" {
			tokens = append(tokens, exprToken{typ: exprTokenOperator, value: match, pos: pos})
			pos += len(match)
			continue
		}

		switch expr[pos] {
		case '(':
			tokens = append(tokens, exprToken{typ: exprTokenLeftParen, value: "(", pos: pos})
			pos++
			continue
		case ')':
			tokens = append(tokens, exprToken{typ: exprTokenRightParen, value: ")", pos: pos})
			pos++
			continue
		case '.', '[', ']':
			tokens = append(tokens, exprToken{typ: exprTokenOperator, value: string(expr[pos]), pos: pos})
			pos++
			continue
		}

		return nil, fmt.Errorf("unexpected character '%c' at position %d", expr[pos], pos)
	}

	tokens = append(tokens, exprToken{typ: exprTokenEOF, pos: pos})
	return tokens, nil
}

// parseExpression parses a field expression into an AST, requiring full
// token consumption.
func parseExpression(expr string) (exprNode, error) {
	tokens, err := tokenizeExpression(expr)
	if err != nil {
		return nil, err
	}

	p := &exprParser{tokens: tokens}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.current().typ != exprTokenEOF {
		token := p.current()
		return nil, fmt.Errorf("unexpected trailing token %q at position %d", token.value, token.pos)
	}
	return node, nil
}

type exprParser struct {
	tokens []exprToken
	pos    int
}

func (p *exprParser) current() exprToken {
	if p.pos >= len(p.tokens) {
		return exprToken{typ: exprTokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *exprParser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

func (p *exprParser) parseExpression() (exprNode, error) {
	return p.parseLogicalOr()
}

func (p *exprParser) parseLogicalOr() (exprNode, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.current().typ == exprTokenOperator && p.current().value == "|" {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{left: left, operator: "|", right: right}
	}
	return left, nil
}

func (p *exprParser) parseLogicalAnd() (exprNode, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.current().typ == exprTokenOperator && p.current().value == "&" {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{left: left, operator: "&", right: right}
	}
	return left, nil
}

func (p *exprParser) parseEquality() (exprNode, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.current().typ == exprTokenOperator && (p.current().value == "==" || p.current().value == "!=") {
		op := p.current().value
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{left: left, operator: op, right: right}
	}
	return left, nil
}

func (p *exprParser) parseComparison() (exprNode, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.current().typ == exprTokenOperator &&
		(p.current().value == "<" || p.current().value == ">" ||
			p.current().value == "<=" || p.current().value == ">=") {
		op := p.current().value
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{left: left, operator: op, right: right}
	}
	return left, nil
}

func (p *exprParser) parseTerm() (exprNode, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.current().typ == exprTokenOperator && (p.current().value == "+" || p.current().value == "-") {
		op := p.current().value
		p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{left: left, operator: op, right: right}
	}
	return left, nil
}

func (p *exprParser) parseFactor() (exprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().typ == exprTokenOperator &&
		(p.current().value == "*" || p.current().value == "/" || p.current().value == "%") {
		op := p.current().value
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{left: left, operator: op, right: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (exprNode, error) {
	if p.current().typ == exprTokenOperator && (p.current().value == "-" || p.current().value == "+") {
		op := p.current().value
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{operator: op, operand: operand}, nil
	}
	return p.parseAccess()
}

// parseAccess parses member access (obj.field) and index access (obj[i])
func (p *exprParser) parseAccess() (exprNode, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		if p.current().typ == exprTokenOperator && p.current().value == "." {
			p.advance()
			if p.current().typ != exprTokenIdentifier {
				return nil, fmt.Errorf("expected identifier after '.'")
			}
			field := p.current().value
			p.advance()
			left = &memberNode{object: left, field: field}
		} else if p.current().typ == exprTokenOperator && p.current().value == "[" {
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if p.current().typ != exprTokenOperator || p.current().value != "]" {
				return nil, fmt.Errorf("expected ']' after index")
			}
			p.advance()
			left = &indexNode{object: left, index: index}
		} else {
			break
		}
	}

	return left, nil
}

func (p *exprParser) parsePrimary() (exprNode, error) {
	token := p.current()

	switch token.typ {
	case exprTokenNumber:
		p.advance()
		if intVal, err := strconv.Atoi(token.value); err == nil {
			return &literalNode{value: intVal}, nil
		}
		if floatVal, err := strconv.ParseFloat(token.value, 64); err == nil {
			return &literalNode{value: floatVal}, nil
		}
		return nil, fmt.Errorf("invalid number: %s", token.value)

	case exprTokenString:
		p.advance()
		return &literalNode{value: token.value}, nil

	case exprTokenIdentifier:
		p.advance()
		switch token.value {
		case "true":
			return &literalNode{value: true}, nil
		case "false":
			return &literalNode{value: false}, nil
		case "null", "nil":
			return &literalNode{value: nil}, nil
		}
		return &identifierNode{name: token.value}, nil

	case exprTokenLeftParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().typ != exprTokenRightParen {
			return nil, fmt.Errorf("expected ')' after expression")
		}
		p.advance()
		return expr, nil

	default:
		return nil, fmt.Errorf("unexpected token %q", token.value)
	}
}

// evalBinary evaluates a binary operation between two values
func evalBinary(left interface{}, operator string, right interface{}) (interface{}, error) {
	switch operator {
	case "+":
		return evalAdd(left, right)
	case "-", "*", "/":
		return evalArith(left, operator, right)
	case "%":
		return evalModulo(left, right)
	case "==":
		return valuesEqual(left, right), nil
	case "!=":
		return !valuesEqual(left, right), nil
	case "<", ">", "<=", ">=":
		return evalCompare(left, operator, right)
	case "&":
		return isTruthy(left) && isTruthy(right), nil
	case "|":
		return isTruthy(left) || isTruthy(right), nil
	default:
		return nil, fmt.Errorf("unknown binary operator: %s", operator)
	}
}

func evalAdd(left, right interface{}) (interface{}, error) {
	// String operands concatenate.
	if leftStr, ok := left.(string); ok {
		return leftStr + stringify(right), nil
	}
	if rightStr, ok := right.(string); ok {
		return stringify(left) + rightStr, nil
	}
	return evalArith(left, "+", right)
}

func evalArith(left interface{}, operator string, right interface{}) (interface{}, error) {
	leftNum, leftOk := toFloat64(left)
	rightNum, rightOk := toFloat64(right)
	if !leftOk || !rightOk {
		return nil, fmt.Errorf("cannot apply %q to %T and %T", operator, left, right)
	}

	var result float64
	switch operator {
	case "+":
		result = leftNum + rightNum
	case "-":
		result = leftNum - rightNum
	case "*":
		result = leftNum * rightNum
	case "/":
		if rightNum == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		result = leftNum / rightNum
	}

	// Integer operands keep an integer result when it is exact.
	if isInteger(left) && isInteger(right) && result == float64(int(result)) {
		return int(result), nil
	}
	return result, nil
}

func evalModulo(left, right interface{}) (interface{}, error) {
	leftInt, leftOk := toInt(left)
	rightInt, rightOk := toInt(right)
	if !leftOk || !rightOk {
		return nil, fmt.Errorf("modulo requires integers, got %T and %T", left, right)
	}
	if rightInt == 0 {
		return nil, fmt.Errorf("modulo by zero")
	}
	return leftInt % rightInt, nil
}

func evalCompare(left interface{}, operator string, right interface{}) (interface{}, error) {
	leftNum, leftOk := toFloat64(left)
	rightNum, rightOk := toFloat64(right)
	if !leftOk || !rightOk {
		return nil, fmt.Errorf("cannot compare %T and %T", left, right)
	}
	switch operator {
	case "<":
		return leftNum < rightNum, nil
	case ">":
		return leftNum > rightNum, nil
	case "<=":
		return leftNum <= rightNum, nil
	default:
		return leftNum >= rightNum, nil
	}
}

func valuesEqual(left, right interface{}) bool {
	if left == nil && right == nil {
		return true
	}
	if left == nil || right == nil {
		return false
	}
	if leftNum, leftOk := toFloat64(left); leftOk {
		if rightNum, rightOk := toFloat64(right); rightOk {
			return leftNum == rightNum
		}
	}
	return reflect.DeepEqual(left, right)
}

// accessMember resolves obj.field for maps and structs.
func accessMember(obj interface{}, field string) (interface{}, error) {
	if obj == nil {
		return nil, fmt.Errorf("cannot access field %q of nil", field)
	}

	if m, ok := obj.(map[string]interface{}); ok {
		if val, exists := m[field]; exists {
			return val, nil
		}
		return nil, fmt.Errorf("no field %q", field)
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		val := rv.MapIndex(reflect.ValueOf(field))
		if !val.IsValid() {
			return nil, fmt.Errorf("no field %q", field)
		}
		return val.Interface(), nil
	case reflect.Struct:
		val := rv.FieldByName(field)
		if !val.IsValid() {
			return nil, fmt.Errorf("no field %q", field)
		}
		return val.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot access field %q of %T", field, obj)
	}
}

// accessIndex resolves obj[i] for slices, arrays and strings.
func accessIndex(obj interface{}, index int) (interface{}, error) {
	if obj == nil {
		return nil, fmt.Errorf("cannot index nil")
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if index < 0 || index >= rv.Len() {
			return nil, fmt.Errorf("index %d out of range (len %d)", index, rv.Len())
		}
		return rv.Index(index).Interface(), nil
	case reflect.String:
		runes := []rune(rv.String())
		if index < 0 || index >= len(runes) {
			return nil, fmt.Errorf("index %d out of range (len %d)", index, len(runes))
		}
		return string(runes[index]), nil
	default:
		return nil, fmt.Errorf("cannot index %T", obj)
	}
}

// Utility conversions shared by the evaluator.

func toFloat64(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func toInt(val interface{}) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		if v == float32(int(v)) {
			return int(v), true
		}
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func isInteger(val interface{}) bool {
	switch val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func isTruthy(val interface{}) bool {
	if val == nil {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return v != ""
	default:
		if num, ok := toFloat64(val); ok {
			return num != 0
		}
		return true
	}
}

// stringify is the textual form a value takes when concatenated onto a
// string.
func stringify(val interface{}) string {
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	if f, ok := val.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", val)
}
