package textvec

import (
	"iter"
	"math"
	"sort"
)

// Vector is a sparse, non-negative term-weight vector.
// Term indices are strictly increasing; absent terms weigh 0.
type Vector struct {
	terms   []int
	weights []float64
	norm    float64
}

func newVector(terms []int, weights []float64) Vector {
	sumSq := 0.0
	for _, w := range weights {
		sumSq += w * w
	}
	return Vector{terms: terms, weights: weights, norm: math.Sqrt(sumSq)}
}

// FromWeights builds a vector from a term->weight map. Zero and negative
// weights are dropped.
func FromWeights(m map[int]float64) Vector {
	terms := make([]int, 0, len(m))
	for t, w := range m {
		if w > 0 {
			terms = append(terms, t)
		}
	}
	sort.Ints(terms)
	weights := make([]float64, len(terms))
	for i, t := range terms {
		weights[i] = m[t]
	}
	return newVector(terms, weights)
}

// NNZ returns the number of non-zero terms.
func (v Vector) NNZ() int { return len(v.terms) }

// Norm returns the L2 magnitude.
func (v Vector) Norm() float64 { return v.norm }

// IsZero reports whether every weight is zero.
func (v Vector) IsZero() bool { return v.norm == 0 }

// Weight returns the weight of term, or 0.
func (v Vector) Weight(term int) float64 {
	i := sort.SearchInts(v.terms, term)
	if i < len(v.terms) && v.terms[i] == term {
		return v.weights[i]
	}
	return 0
}

// All iterates non-zero (term, weight) pairs in term order.
func (v Vector) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for i, t := range v.terms {
			if !yield(t, v.weights[i]) {
				return
			}
		}
	}
}

// Dot returns the inner product. The merge walks both vectors in term order,
// so Dot(a, b) and Dot(b, a) accumulate identical products in identical order.
func Dot(a, b Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			sum += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
