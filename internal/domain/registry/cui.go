// Package registry contains the company registry bounded context:
// Romanian fiscal codes (CUI) and the company data published for them.
package registry

import (
	"errors"
	"strings"
)

// ErrInvalidCUI indicates a malformed fiscal code or a failed control digit
var ErrInvalidCUI = errors.New("registry: invalid CUI")

// cuiControlKey weights the first nine digits of a left-padded CUI
const cuiControlKey = "753217532"

// CUI is a validated Romanian fiscal identification code, digits only
type CUI string

// ParseCUI normalises and validates a fiscal code.
// An optional "RO" prefix, spaces, dots and dashes are accepted and stripped.
func ParseCUI(raw string) (CUI, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "RO")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '.', '-':
			return -1
		}
		return r
	}, s)

	if len(s) < 2 || len(s) > 10 {
		return "", ErrInvalidCUI
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", ErrInvalidCUI
		}
	}
	if s[0] == '0' {
		return "", ErrInvalidCUI
	}
	if controlDigit(s[:len(s)-1]) != s[len(s)-1] {
		return "", ErrInvalidCUI
	}
	return CUI(s), nil
}

// controlDigit computes the check digit for the CUI body (all digits but the last)
func controlDigit(body string) byte {
	padded := strings.Repeat("0", len(cuiControlKey)-len(body)) + body

	sum := 0
	for i := range len(cuiControlKey) {
		sum += int(padded[i]-'0') * int(cuiControlKey[i]-'0')
	}
	d := sum * 10 % 11
	if d == 10 {
		d = 0
	}
	return byte('0' + d)
}

// String returns the bare digits
func (c CUI) String() string {
	return string(c)
}

// VATCode returns the code with the RO prefix used for VAT registered companies
func (c CUI) VATCode() string {
	return "RO" + string(c)
}
