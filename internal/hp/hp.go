// Package hp models HP (hydrophobic/polar) protein sequences, including the
// translation of 20-letter amino-acid sequences into the binary alphabet.
package hp

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Hydrophobic = 'H'
	Polar       = 'P'
)

const (
	polarResidues       = "RNDQEHKST"
	hydrophobicResidues = "ACGILMFPWYV"
)

// MinLength is the shortest sequence the folding engine can operate on: a
// pivot move needs at least one interior monomer.
const MinLength = 3

var (
	ErrSequenceTooShort = errors.New("sequence must have at least 3 monomers")
	ErrUnknownResidue   = errors.New("unknown residue")
)

// Sequence is an ordered, immutable H/P sequence.
type Sequence string

func (s Sequence) Len() int {
	return len(s)
}

// IsHydrophobic reports whether the monomer at position i is H-type.
func (s Sequence) IsHydrophobic(i int) bool {
	return s[i] == Hydrophobic
}

func (s Sequence) String() string {
	return string(s)
}

// Parse accepts either a pure H/P sequence or a 20-letter amino-acid
// sequence, which is translated residue by residue. Any other input is a
// configuration error.
func Parse(raw string) (Sequence, error) {
	if len(raw) < MinLength {
		return "", fmt.Errorf("%w: got %d", ErrSequenceTooShort, len(raw))
	}
	if isHPAlphabet(raw) {
		return Sequence(raw), nil
	}
	return TranslateAmino(raw)
}

// TranslateAmino converts a standard amino-acid sequence into the HP model:
// polar residues (RNDQEHKST) map to P, hydrophobic ones (ACGILMFPWYV) to H.
func TranslateAmino(raw string) (Sequence, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		switch {
		case strings.IndexByte(polarResidues, raw[i]) >= 0:
			b.WriteByte(Polar)
		case strings.IndexByte(hydrophobicResidues, raw[i]) >= 0:
			b.WriteByte(Hydrophobic)
		default:
			return "", fmt.Errorf("%w: %q at position %d", ErrUnknownResidue, raw[i], i)
		}
	}
	return Sequence(b.String()), nil
}

func isHPAlphabet(raw string) bool {
	for i := 0; i < len(raw); i++ {
		if raw[i] != Hydrophobic && raw[i] != Polar {
			return false
		}
	}
	return true
}
