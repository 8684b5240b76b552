package triage

import "math"

// DefaultDuplicateThreshold is the similarity at or above which two
// complaints from the same ward are treated as the same issue.
const DefaultDuplicateThreshold = 0.75

// Similarity is the cosine similarity of the log-weighted term vectors of a
// and b, in [0,1]. Either side being empty yields 0.
func Similarity(a, b string) float64 {
	return CosineSimilarity(Vectorize(a), Vectorize(b))
}

// CosineSimilarity weights each count c as 1+ln(c) and sums the products
// over shared terms, normalized by both vector lengths.
func CosineSimilarity(va, vb TermVector) float64 {
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}

	var numerator float64
	for term, ca := range va {
		if cb, ok := vb[term]; ok {
			numerator += termWeight(ca) * termWeight(cb)
		}
	}

	denominator := math.Sqrt(sumSquares(va)) * math.Sqrt(sumSquares(vb))
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func termWeight(count int) float64 {
	if count <= 0 {
		return 0
	}
	return 1 + math.Log(float64(count))
}

func sumSquares(v TermVector) float64 {
	var sum float64
	for _, c := range v {
		w := termWeight(c)
		sum += w * w
	}
	return sum
}
