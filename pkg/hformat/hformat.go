// Package hformat is a string formatter with a readable, ordered
// function-pipeline syntax in place of a printf-style spec grammar.
//
// A template contains {...} directives: a field expression, then an
// optional colon and a comma- or semicolon-separated pipeline of named
// transformation functions:
//
//	hformat.Format("{3.0/11: width(10), fill(-), float(3), center}", nil, nil)
//	// "--0.273---"
//
// Composite functions shorten common combinations:
//
//	hformat.Format("{'Hello world': field(+6,_,center), wrap('()')}", nil, nil)
//	// "(___Hello world___)"
//
// Field expressions resolve against positional and named arguments. _N_
// always means the raw positional argument N, an empty expression takes
// the next unused positional argument, and anything else is evaluated by
// a small expression grammar (literals, member and index access,
// arithmetic). A directive whose expression cannot be resolved renders as
// its own source text; malformed syntax is an error.
package hformat

import (
	"fmt"
	"regexp"
	"strconv"
)

// positionalRefRegex matches a field expression that is exactly a raw
// positional reference _N_.
var positionalRefRegex = regexp.MustCompile(`^_([0-9]+)_$`)

// PreparedTemplate is a scanned and parsed template, reusable across
// Format calls. It holds no mutable render state.
type PreparedTemplate struct {
	source    string
	segments  []segment
	parsed    []*FormatDirective
	evaluator Evaluator
}

// Engine is the main entry point. The zero-configuration New() engine is
// ready to use; options override the evaluator, configuration and cache.
type Engine struct {
	config    *Config
	cache     *TemplateCache
	evaluator Evaluator
}

// New creates a new engine with the global configuration.
func New() *Engine {
	return &Engine{
		config:    GetGlobalConfig(),
		cache:     NewTemplateCache(),
		evaluator: NewEvaluator(),
	}
}

// NewWithConfig creates a new engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	return &Engine{
		config: config,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
		evaluator: NewEvaluator(),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = config
		e.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		})
	}
}

// WithEvaluator returns an option that replaces the field-expression
// evaluator.
func WithEvaluator(evaluator Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = evaluator
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.cache = NewTemplateCacheWithConfig(CacheConfig{MaxSize: maxSize})
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Prepare scans and parses a template. Syntax problems (unbalanced
// braces, unbalanced parentheses, unknown function names) surface here as
// *ParseError.
func (e *Engine) Prepare(template string) (*PreparedTemplate, error) {
	if e.config.CacheMaxSize > 0 && e.cache != nil {
		if tmpl, ok := e.cache.Get(template); ok {
			return tmpl, nil
		}
	}

	segments, err := scanTemplate(template)
	if err != nil {
		return nil, err
	}

	pt := &PreparedTemplate{
		source:    template,
		segments:  segments,
		parsed:    make([]*FormatDirective, len(segments)),
		evaluator: e.evaluator,
	}

	offset := 0
	registry := getRegistry()
	for i, seg := range segments {
		if seg.typ == segmentDirective {
			directive, err := parseDirective(seg.body, offset)
			if err != nil {
				return nil, err
			}
			// Unknown names fail at prepare time, not mid-render.
			for _, call := range directive.Calls {
				if _, ok := registry.Lookup(call.Name); !ok {
					return nil, NewParseError("unknown function", call.Name, offset)
				}
			}
			pt.parsed[i] = directive
		}
		offset += len(seg.source)
	}

	if e.config.CacheMaxSize > 0 && e.cache != nil {
		e.cache.Set(template, pt)
	}

	return pt, nil
}

// Format renders a template against positional and named arguments.
func (e *Engine) Format(template string, args []interface{}, named map[string]interface{}) (string, error) {
	pt, err := e.Prepare(template)
	if err != nil {
		return "", err
	}
	return pt.Format(args, named)
}

// Print formats and writes the result to standard output.
func (e *Engine) Print(template string, args []interface{}, named map[string]interface{}) error {
	result, err := e.Format(template, args, named)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

// Format renders the prepared template. The positional-argument cursor
// for empty field expressions lives for exactly one call; concurrent
// calls on the same template each get their own.
func (pt *PreparedTemplate) Format(args []interface{}, named map[string]interface{}) (string, error) {
	bindings := make(Bindings, len(named)+len(args))
	for k, v := range named {
		bindings[k] = v
	}
	// Positional arguments double as _N_ bindings so compound
	// expressions such as _0_+1 resolve too.
	for i, v := range args {
		bindings["_"+strconv.Itoa(i)+"_"] = v
	}

	var out []byte
	cursor := 0
	for i, seg := range pt.segments {
		if seg.typ == segmentText {
			out = append(out, seg.source...)
			continue
		}
		rendered, err := pt.renderDirective(pt.parsed[i], seg.source, args, bindings, &cursor)
		if err != nil {
			return "", err
		}
		out = append(out, rendered...)
	}
	return string(out), nil
}

// renderDirective resolves the field expression and runs the pipeline.
// Evaluation failures degrade to the directive's own source text;
// pipeline failures (bad arguments) are hard errors.
func (pt *PreparedTemplate) renderDirective(d *FormatDirective, src string, args []interface{}, bindings Bindings, cursor *int) (string, error) {
	value, ok := pt.resolveValue(d.FieldExpr, args, bindings, cursor)
	if !ok {
		logger := GetLogger()
		if logger.IsDebugMode() {
			logger.WithField("directive", src).Debug("Evaluation failed, rendering literal source")
		}
		return src, nil
	}

	st := newRenderState(value)
	if err := applyPipeline(st, d.Calls); err != nil {
		return "", err
	}
	return st.render(), nil
}

// resolveValue applies the positional rules, then falls through to the
// evaluator. ok is false when the directive must render as literal text.
func (pt *PreparedTemplate) resolveValue(expr string, args []interface{}, bindings Bindings, cursor *int) (interface{}, bool) {
	if expr == "" {
		// Next unused positional argument.
		idx := *cursor
		*cursor++
		if idx >= len(args) {
			return nil, false
		}
		return args[idx], true
	}

	// _N_ bypasses evaluation entirely.
	if m := positionalRefRegex.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= len(args) {
			return nil, false
		}
		return args[n], true
	}

	value, err := pt.evaluator.Evaluate(expr, bindings)
	if err != nil {
		return nil, false
	}
	return value, true
}

// DefaultEngine is the global default engine instance.
var DefaultEngine = New()

// Format renders a template with the default engine.
func Format(template string, args []interface{}, named map[string]interface{}) (string, error) {
	return DefaultEngine.Format(template, args, named)
}

// Print renders a template with the default engine and writes the result
// to standard output.
func Print(template string, args []interface{}, named map[string]interface{}) error {
	return DefaultEngine.Print(template, args, named)
}

// Prepare scans and parses a template with the default engine.
func Prepare(template string) (*PreparedTemplate, error) {
	return DefaultEngine.Prepare(template)
}
