package embedding

import (
	"context"
	"math"
)

// Inputs are the three standard encoder inputs for a batch of one.
type Inputs struct {
	InputIDs      []int64
	AttentionMask []int64
	TokenTypeIDs  []int64
}

// Output is the first output tensor of a run, flattened row-major.
type Output struct {
	Data  []float32
	Shape []int64
}

// Session runs the encoder model.
type Session interface {
	Run(ctx context.Context, in Inputs) (Output, error)
	Close() error
}

// Pool turns a model output into one L2-normalized vector. Rank-2 outputs
// are already pooled; rank-3 outputs are mean-pooled over positions whose
// mask is set. A nil vector means the batch was empty.
func Pool(out Output, mask []int64) ([]float32, error) {
	var size int64 = 1
	for _, d := range out.Shape {
		if d < 0 {
			return nil, ErrShapeMismatch
		}
		size *= d
	}
	if int64(len(out.Data)) < size {
		return nil, ErrShapeMismatch
	}
	switch len(out.Shape) {
	case 2:
		if out.Shape[0] == 0 {
			return nil, nil
		}
		dim := out.Shape[1]
		return l2Normalize(out.Data[:dim]), nil
	case 3:
		if out.Shape[0] == 0 {
			return nil, nil
		}
		seq, dim := out.Shape[1], out.Shape[2]
		return l2Normalize(meanPool(out.Data[:seq*dim], int(seq), int(dim), mask)), nil
	}
	return nil, ErrShapeMismatch
}

func meanPool(data []float32, seq, dim int, mask []int64) []float32 {
	sum := make([]float32, dim)
	count := 0
	for i := 0; i < min(seq, len(mask)); i++ {
		if mask[i] == 0 {
			continue
		}
		row := data[i*dim : (i+1)*dim]
		for d, v := range row {
			sum[d] += v
		}
		count++
	}
	if count == 0 {
		return sum
	}
	for d := range sum {
		sum[d] /= float32(count)
	}
	return sum
}

// l2Normalize returns a unit-length copy of v. Zero vectors come back
// unchanged.
func l2Normalize(v []float32) []float32 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	copy(out, v)
	if s <= 0 {
		return out
	}
	inv := float32(1 / math.Sqrt(s))
	for i := range out {
		out[i] *= inv
	}
	return out
}
