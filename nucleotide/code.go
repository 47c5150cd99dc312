// Package nucleotide stores nucleotide <-> complement
// correspondence and reverse complement helpers.
//
// Recognized symbols are A, C, G, T and N, in upper or lower case.
// Case is preserved by the complement: 'a' -> 't'.
package nucleotide

import (
	"errors"
	"fmt"
)

// ErrInvalidSymbol is matched by every InvalidSymbolError
var ErrInvalidSymbol = errors.New("invalid nucleotide symbol")

// InvalidSymbolError reports a byte outside of the recognized
// alphabet and its position in the sequence
type InvalidSymbolError struct {
	Symbol byte
	Pos    int
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid nucleotide symbol %q at position %d", e.Symbol, e.Pos)
}

// Is makes errors.Is(err, ErrInvalidSymbol) work on wrapped errors
func (e *InvalidSymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}

var (
	pairs = map[byte]byte{
		'A': 'T',
		'T': 'A',
		'C': 'G',
		'G': 'C',
		'N': 'N',
		'a': 't',
		't': 'a',
		'c': 'g',
		'g': 'c',
		'n': 'n',
	}

	// complements[b] is 0 when b is not a valid symbol
	complements = createComplementArray(pairs)
)

func createComplementArray(pairs map[byte]byte) [256]byte {

	var codes [256]byte
	for n, c := range pairs {
		codes[n] = c
	}
	return codes
}

// IsValid returns true if b is a recognized nucleotide symbol
func IsValid(b byte) bool {
	return complements[b] != 0
}

// Complement returns a new slice holding the complement of each symbol of seq
func Complement(seq []byte) ([]byte, error) {

	out := make([]byte, len(seq))
	for i, n := range seq {
		if !IsValid(n) {
			return nil, &InvalidSymbolError{Symbol: n, Pos: i}
		}
		out[i] = complements[n]
	}
	return out, nil
}

// ReverseComplement returns a new slice holding the reverse complement of seq.
// Applying it twice gives back the original sequence
func ReverseComplement(seq []byte) ([]byte, error) {

	n := len(seq)
	out := make([]byte, n)
	for i, b := range seq {
		if !IsValid(b) {
			return nil, &InvalidSymbolError{Symbol: b, Pos: i}
		}
		out[n-1-i] = complements[b]
	}
	return out, nil
}

// ReverseComplementString is the string version of ReverseComplement
func ReverseComplementString(seq string) (string, error) {
	rc, err := ReverseComplement([]byte(seq))
	if err != nil {
		return "", err
	}
	return string(rc), nil
}
