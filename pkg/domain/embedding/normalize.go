package embedding

import (
	"fmt"
	"math"

	"github.com/valyala/fastjson"
)

// Normalize extracts a single vector from a provider response body.
//
// Accepted shapes:
//
//	[0.1, 0.2]                         flat vector
//	[[0.1, 0.2]]                       batch of one, first row wins
//	[[[0.1, 0.2], [0.3, 0.4]]]         token vectors, mean-pooled
//	{"data": [{"embedding": [0.1]}]}   OpenAI-compatible envelope
func Normalize(raw []byte) ([]float64, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedEmbeddingShape, err)
	}

	switch v.Type() {
	case fastjson.TypeObject:
		data := v.GetArray("data")
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: empty data envelope", ErrUnexpectedEmbeddingShape)
		}
		return numbers(data[0].GetArray("embedding"))
	case fastjson.TypeArray:
		return fromArray(v)
	default:
		return nil, fmt.Errorf("%w: got %s", ErrUnexpectedEmbeddingShape, v.Type())
	}
}

func fromArray(v *fastjson.Value) ([]float64, error) {
	items, _ := v.Array()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrUnexpectedEmbeddingShape)
	}

	switch items[0].Type() {
	case fastjson.TypeNumber:
		return numbers(items)
	case fastjson.TypeArray:
		inner, _ := items[0].Array()
		if len(inner) == 0 {
			return nil, fmt.Errorf("%w: empty batch element", ErrUnexpectedEmbeddingShape)
		}
		switch inner[0].Type() {
		case fastjson.TypeNumber:
			return numbers(inner)
		case fastjson.TypeArray:
			return meanPool(inner)
		}
	}
	return nil, fmt.Errorf("%w: unsupported element type %s", ErrUnexpectedEmbeddingShape, items[0].Type())
}

func numbers(items []*fastjson.Value) ([]float64, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrUnexpectedEmbeddingShape)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		f, err := item.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: element %d is not a number", ErrUnexpectedEmbeddingShape, i)
		}
		out[i] = f
	}
	return out, nil
}

func meanPool(rows []*fastjson.Value) ([]float64, error) {
	var sum []float64
	for i, row := range rows {
		items, err := row.Array()
		if err != nil {
			return nil, fmt.Errorf("%w: token %d is not an array", ErrUnexpectedEmbeddingShape, i)
		}
		vec, err := numbers(items)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = make([]float64, len(vec))
		}
		if len(vec) != len(sum) {
			return nil, fmt.Errorf("%w: ragged token vectors", ErrUnexpectedEmbeddingShape)
		}
		for j, x := range vec {
			sum[j] += x
		}
	}
	n := float64(len(rows))
	for j := range sum {
		sum[j] /= n
	}
	return sum, nil
}

// L2Normalize scales v in place to unit length. Zero vectors are left as is.
func L2Normalize(v []float64) []float64 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += x * x
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return v
	}
	for i := range v {
		v[i] /= norm
	}
	return v
}
