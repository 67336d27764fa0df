package markov

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrSyntax = errors.New("malformed array literal")
	ErrShape  = errors.New("unexpected array shape")
	ErrRange  = errors.New("probability out of range")
)

// rangeSlack absorbs rounding noise in values written by the upstream job.
const rangeSlack = 1e-9

// ParseError reports why a stored array literal was rejected.
type ParseError struct {
	Input  string
	Pos    int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d", e.Err, e.Reason, e.Pos)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseMatrix parses a 2×2 probability matrix such as "[[0.8, 0.2], [0.3, 0.7]]".
func ParseMatrix(s string) (Matrix, error) {
	root, err := parseLiteral(s)
	if err != nil {
		return Matrix{}, err
	}
	if root.isNum || len(root.list) != 2 {
		return Matrix{}, shapeError(s, root.pos, "want 2 rows, got %s", root.describe())
	}

	var m Matrix
	for i, row := range root.list {
		vals, err := pair(s, row)
		if err != nil {
			return Matrix{}, err
		}
		m[i] = vals
	}
	return m, nil
}

// ParseDistribution parses a 2-element probability vector such as "[0.6, 0.4]".
func ParseDistribution(s string) (Distribution, error) {
	root, err := parseLiteral(s)
	if err != nil {
		return Distribution{}, err
	}
	vals, err := pair(s, root)
	if err != nil {
		return Distribution{}, err
	}
	return Distribution(vals), nil
}

func pair(src string, n node) ([2]float64, error) {
	if n.isNum || len(n.list) != 2 {
		return [2]float64{}, shapeError(src, n.pos, "want 2 numbers, got %s", n.describe())
	}
	var out [2]float64
	for i, el := range n.list {
		if !el.isNum {
			return [2]float64{}, shapeError(src, el.pos, "want a number, got %s", el.describe())
		}
		if el.num < -rangeSlack || el.num > 1+rangeSlack {
			return [2]float64{}, &ParseError{Input: src, Pos: el.pos, Reason: fmt.Sprintf("%v is not a probability", el.num), Err: ErrRange}
		}
		out[i] = math.Min(math.Max(el.num, 0), 1)
	}
	return out, nil
}

func shapeError(src string, pos int, format string, args ...any) error {
	return &ParseError{Input: src, Pos: pos, Reason: fmt.Sprintf(format, args...), Err: ErrShape}
}

// node is either a number or a list of nodes.
type node struct {
	num   float64
	isNum bool
	list  []node
	pos   int
}

func (n node) describe() string {
	if n.isNum {
		return "a number"
	}
	return fmt.Sprintf("a list of %d", len(n.list))
}

// Call wrappers the upstream job is known to emit (numpy reprs). The wrapped
// value is taken as-is; nothing is evaluated.
var (
	scalarCalls = map[string]bool{
		"float":         true,
		"np.float64":    true,
		"np.float32":    true,
		"numpy.float64": true,
		"numpy.float32": true,
	}
	arrayCalls = map[string]bool{
		"array":       true,
		"np.array":    true,
		"numpy.array": true,
	}
)

type parser struct {
	src string
	pos int
}

func parseLiteral(src string) (node, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.pos >= len(p.src) {
		return node{}, p.fail("empty input")
	}
	n, err := p.value()
	if err != nil {
		return node{}, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return node{}, p.fail(fmt.Sprintf("unexpected %q after value", p.peekRune()))
	}
	return n, nil
}

func (p *parser) fail(reason string) error {
	return &ParseError{Input: p.src, Pos: p.pos, Reason: reason, Err: ErrSyntax}
}

// peekRune decodes the character at the cursor so messages quote whole
// characters rather than the first byte of a multi-byte sequence.
func (p *parser) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) value() (node, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return node{}, p.fail("unexpected end of input")
	}
	c := p.src[p.pos]
	switch {
	case c == '[' || c == '(':
		return p.list()
	case isDigit(c) || c == '.' || c == '+' || c == '-':
		return p.number()
	case isIdentStart(c):
		return p.call()
	default:
		return node{}, p.fail(fmt.Sprintf("unexpected %q", p.peekRune()))
	}
}

func (p *parser) list() (node, error) {
	closing := byte(']')
	if p.src[p.pos] == '(' {
		closing = ')'
	}
	n := node{pos: p.pos}
	p.pos++

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return node{}, p.fail("unterminated list")
		}
		if p.src[p.pos] == closing {
			p.pos++
			return n, nil
		}

		el, err := p.value()
		if err != nil {
			return node{}, err
		}
		n.list = append(n.list, el)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return node{}, p.fail("unterminated list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case closing:
		default:
			return node{}, p.fail(fmt.Sprintf("expected ',' or %q, found %q", closing, p.peekRune()))
		}
	}
}

func (p *parser) number() (node, error) {
	start := p.pos
	if c := p.src[p.pos]; c == '+' || c == '-' {
		p.pos++
	}
scan:
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case isDigit(c) || c == '.':
			p.pos++
		case c == 'e' || c == 'E':
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
		default:
			break scan
		}
	}
	text := p.src[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return node{}, &ParseError{Input: p.src, Pos: start, Reason: fmt.Sprintf("invalid number %q", text), Err: ErrSyntax}
	}
	return node{num: v, isNum: true, pos: start}, nil
}

func (p *parser) call() (node, error) {
	start := p.pos
	for p.pos < len(p.src) && (isIdentStart(p.src[p.pos]) || isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	name := p.src[start:p.pos]

	scalar, array := scalarCalls[name], arrayCalls[name]
	if !scalar && !array {
		p.pos = start
		return node{}, p.fail(fmt.Sprintf("unsupported identifier %q", name))
	}

	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return node{}, p.fail(fmt.Sprintf("expected '(' after %s", name))
	}
	p.pos++

	inner, err := p.value()
	if err != nil {
		return node{}, err
	}
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != ')' {
		return node{}, p.fail(fmt.Sprintf("expected ')' to close %s(", name))
	}
	p.pos++

	if scalar && !inner.isNum {
		return node{}, &ParseError{Input: p.src, Pos: inner.pos, Reason: fmt.Sprintf("%s() wraps %s", name, inner.describe()), Err: ErrSyntax}
	}
	if array && inner.isNum {
		return node{}, &ParseError{Input: p.src, Pos: inner.pos, Reason: fmt.Sprintf("%s() wraps a number", name), Err: ErrSyntax}
	}
	inner.pos = start
	return inner, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Format renders a matrix back to the literal form the parser accepts.
func (m Matrix) Format() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, row := range m {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatPair(row))
	}
	b.WriteByte(']')
	return b.String()
}

// Format renders a distribution back to the literal form the parser accepts.
func (d Distribution) Format() string { return formatPair(d) }

func formatPair(v [2]float64) string {
	return "[" + strconv.FormatFloat(v[0], 'g', -1, 64) + ", " + strconv.FormatFloat(v[1], 'g', -1, 64) + "]"
}
