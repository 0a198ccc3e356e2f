package search

import (
	"fmt"
	"math"
)

// Normalization names a length-normalization strategy for lexical scores.
// The strategies mirror the variants evaluated against the labeled test
// set; sqrt won and is the default, but the choice stays configurable.
type Normalization string

const (
	NormNone   Normalization = "none"
	NormLinear Normalization = "linear"
	NormSqrt   Normalization = "sqrt"
	NormLog    Normalization = "log"
	NormCosine Normalization = "cosine"
)

// ParseNormalization validates a configured strategy name.
func ParseNormalization(name string) (Normalization, error) {
	switch Normalization(name) {
	case NormNone, NormLinear, NormSqrt, NormLog, NormCosine:
		return Normalization(name), nil
	case "":
		return NormSqrt, nil
	default:
		return "", fmt.Errorf("unknown normalization strategy %q", name)
	}
}

// denominator returns the divisor applied to a document's raw accumulated
// score. l2 is the document's Euclidean norm over tf*idf weights, used only
// by the cosine strategy. The result is floored at 1 so short documents
// never have their scores inflated.
func (n Normalization) denominator(length int, l2 float64) float64 {
	var d float64
	switch n {
	case NormNone:
		d = 1
	case NormLinear:
		d = float64(length)
	case NormSqrt:
		d = math.Sqrt(float64(length))
	case NormLog:
		d = math.Log(float64(length) + 1)
	case NormCosine:
		d = l2
	default:
		d = math.Sqrt(float64(length))
	}
	if d < 1 {
		return 1
	}
	return d
}
