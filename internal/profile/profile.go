// Package profile estimates the character-class makeup of a password.
package profile

import (
	"math/big"

	"github.com/verte-zerg/pwtrain/internal/model"
)

// Alphabet sizes per character class.
const (
	LowerDepth = 26
	UpperDepth = 26
	DigitDepth = 10
	OtherDepth = 33
)

// Analyze counts character classes and estimates the brute-force search space.
func Analyze(password string) model.Profile {
	p := model.Profile{}
	for _, r := range password {
		p.Length++
		switch {
		case r >= 'a' && r <= 'z':
			p.Lower++
		case r >= 'A' && r <= 'Z':
			p.Upper++
		case r >= '0' && r <= '9':
			p.Digits++
		default:
			p.Other++
		}
	}
	for _, class := range []struct {
		count int
		depth int
	}{
		{p.Lower, LowerDepth},
		{p.Upper, UpperDepth},
		{p.Digits, DigitDepth},
		{p.Other, OtherDepth},
	} {
		if class.count > 0 {
			p.ClassCount++
			p.ClassDepth += class.depth
		}
	}
	p.SearchSpace = new(big.Int).Exp(big.NewInt(int64(p.ClassDepth)), big.NewInt(int64(p.Length)), nil)
	return p
}
