package cut

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Longer operators first so ">=" is not read as ">".
var compareOps = []string{"==", "!=", ">=", "<=", ">", "<"}

func parse(s string) (node, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty operand")
	}

	if left, right, ok := strings.Cut(s, " or "); ok {
		return parseLogic(false, left, right)
	}
	if left, right, ok := strings.Cut(s, " and "); ok {
		return parseLogic(true, left, right)
	}

	if rest, ok := strings.CutPrefix(s, "not "); ok {
		inner, err := parse(rest)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	if rest, ok := strings.CutPrefix(s, "!"); ok && !strings.HasPrefix(rest, "=") {
		inner, err := parse(rest)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}

	for _, op := range compareOps {
		left, right, ok := strings.Cut(s, op)
		if !ok {
			continue
		}
		l, err := parseOperand(left)
		if err != nil {
			return nil, err
		}
		r, err := parseOperand(right)
		if err != nil {
			return nil, err
		}
		return compareNode{op: op, left: l, right: r}, nil
	}

	o, err := parseOperand(s)
	if err != nil {
		return nil, err
	}
	return truthNode{operand: o}, nil
}

func parseLogic(and bool, left, right string) (node, error) {
	l, err := parse(left)
	if err != nil {
		return nil, err
	}
	r, err := parse(right)
	if err != nil {
		return nil, err
	}
	return logicNode{and: and, left: l, right: r}, nil
}

func parseOperand(s string) (operand, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return operand{}, errors.New("missing operand")
	}

	switch strings.ToLower(s) {
	case "true":
		return operand{literal: 1}, nil
	case "false":
		return operand{literal: 0}, nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return operand{literal: f}, nil
	}

	if !isIdentifier(s) {
		return operand{}, fmt.Errorf("invalid operand %q", s)
	}
	return operand{name: s}, nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '.'):
		default:
			return false
		}
	}
	return true
}
