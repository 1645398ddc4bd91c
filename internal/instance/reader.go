// Package instance reads binary program instances from their text format.
//
// The format is whitespace separated:
//
//	n m
//	c_0 ... c_{n-1}
//	a_00 ... a_0{n-1} b_0
//	...
//	a_{m-1}0 ... a_{m-1}{n-1} b_{m-1}
//
// Line breaks carry no meaning beyond separating tokens, but they are tracked
// so that errors can point at the offending line.
package instance

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	ilp "github.com/LucasGabrielFontes/BranchAndBound"
)

// FormatError reports a malformed instance.
type FormatError struct {
	// Line is the 1-based line of the offending token, or the last line read
	// when the input ended early.
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type token struct {
	text string
	line int
}

type tokenizer struct {
	sc     *bufio.Scanner
	line   int
	buffer []token
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &tokenizer{sc: sc}
}

// next returns the next token, or false at the end of the input.
func (t *tokenizer) next() (token, bool, error) {
	for len(t.buffer) == 0 {
		if !t.sc.Scan() {
			return token{}, false, t.sc.Err()
		}
		t.line++
		for _, f := range strings.Fields(t.sc.Text()) {
			t.buffer = append(t.buffer, token{text: f, line: t.line})
		}
	}
	tok := t.buffer[0]
	t.buffer = t.buffer[1:]
	return tok, true, nil
}

func (t *tokenizer) expect(what string) (token, error) {
	tok, ok, err := t.next()
	if err != nil {
		return token{}, err
	}
	if !ok {
		return token{}, &FormatError{Line: t.line, Msg: "unexpected end of input, expected " + what}
	}
	return tok, nil
}

func (t *tokenizer) count(what string) (int, error) {
	tok, err := t.expect(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok.text)
	if err != nil || v < 0 {
		return 0, &FormatError{Line: tok.line, Msg: fmt.Sprintf("%s must be a non-negative integer, got %q", what, tok.text)}
	}
	return v, nil
}

func (t *tokenizer) real(what string) (float64, error) {
	tok, err := t.expect(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok.text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FormatError{Line: tok.line, Msg: fmt.Sprintf("%s must be a finite real number, got %q", what, tok.text)}
	}
	return v, nil
}

// Read parses an instance from r.
func Read(r io.Reader) (*ilp.Instance, error) {
	t := newTokenizer(r)

	n, err := t.count("number of variables")
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, &FormatError{Line: t.line, Msg: "number of variables must be positive"}
	}
	m, err := t.count("number of constraints")
	if err != nil {
		return nil, err
	}

	c := make([]float64, n)
	for j := range c {
		if c[j], err = t.real(fmt.Sprintf("objective coefficient %d", j)); err != nil {
			return nil, err
		}
	}

	rows := make([][]float64, m)
	b := make([]float64, m)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			if rows[i][j], err = t.real(fmt.Sprintf("coefficient %d of constraint %d", j, i)); err != nil {
				return nil, err
			}
		}
		if b[i], err = t.real(fmt.Sprintf("right-hand side of constraint %d", i)); err != nil {
			return nil, err
		}
	}

	extra, ok, err := t.next()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, &FormatError{Line: extra.line, Msg: fmt.Sprintf("unexpected trailing token %q", extra.text)}
	}

	in, err := ilp.NewInstance(c, rows, b)
	if err != nil {
		return nil, &FormatError{Line: t.line, Msg: err.Error()}
	}
	return in, nil
}

// ReadFile parses the instance stored at path.
func ReadFile(path string) (*ilp.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening instance %s", path)
	}
	defer f.Close()

	in, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading instance %s", path)
	}
	return in, nil
}
