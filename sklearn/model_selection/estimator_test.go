package model_selection

import (
	"testing"

	"go.uber.org/goleak"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

func TestMain(m *testing.M) {
	errors.SetWarningHandler(func(error) {})
	goleak.VerifyTestMain(m)
}

// stubEstimator predicts the training mean of y. Its Score peaks at
// a=1, b=2 so the best grid candidate is known in advance.
type stubEstimator struct {
	a, b    float64
	failOn  float64
	panicOn float64
	mutate  bool

	mean   float64
	fitted bool
}

func newStub() *stubEstimator {
	return &stubEstimator{failOn: -1, panicOn: -1}
}

func (s *stubEstimator) Fit(X, y mat.Matrix) error {
	if s.a == s.failOn {
		return errors.NewModelError("stub.Fit", "configured failure", nil)
	}
	if s.a == s.panicOn {
		panic("stub panic")
	}
	if s.mutate {
		// fold rows are copies; writing here must not reach the caller
		if arr, ok := X.(*array.Array); ok {
			_ = arr.Set(-999, 0, 0)
		}
	}
	n, _ := y.Dims()
	var sum float64
	for i := 0; i < n; i++ {
		sum += y.At(i, 0)
	}
	s.mean = sum / float64(n)
	s.fitted = true
	return nil
}

func (s *stubEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !s.fitted {
		return nil, errors.NewNotFittedError("stub", "Predict")
	}
	n, _ := X.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		out.Set(i, 0, s.mean)
	}
	return out, nil
}

func (s *stubEstimator) Score(X, y mat.Matrix) (float64, error) {
	if !s.fitted {
		return 0, errors.NewNotFittedError("stub", "Score")
	}
	return -((s.a-1)*(s.a-1) + (s.b-2)*(s.b-2)), nil
}

func (s *stubEstimator) GetParams() model.Params {
	return model.Params{"a": s.a, "b": s.b}
}

func (s *stubEstimator) SetParams(p model.Params) error {
	if err := p.CheckKnown("a", "b"); err != nil {
		return err
	}
	next := *s
	if v, ok, err := p.Float("a"); err != nil {
		return err
	} else if ok {
		next.a = v
	}
	if v, ok, err := p.Float("b"); err != nil {
		return err
	} else if ok {
		next.b = v
	}
	*s = next
	return nil
}

func (s *stubEstimator) Clone() model.Estimator {
	return &stubEstimator{a: s.a, b: s.b, failOn: s.failOn, panicOn: s.panicOn, mutate: s.mutate}
}

// linearData is y = 2·x0 - x1 + 3 over a small deterministic grid.
func linearData(t *testing.T, n int) (*array.Array, *array.Array) {
	t.Helper()
	x := make([]float64, 0, 2*n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x0, x1 := float64(i%7), float64((i*3)%5)
		x = append(x, x0, x1)
		y = append(y, 2*x0-x1+3)
	}
	X, err := array.FromSlice(x, n, 2)
	if err != nil {
		t.Fatal(err)
	}
	return X, array.Vector(y...)
}

// blobs returns two well separated classes around x0 = -3 and x0 = +3.
func blobs(t *testing.T, n int) (*array.Array, *array.Array) {
	t.Helper()
	x := make([]float64, 0, 2*n)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		label := float64(i % 2)
		jitter := float64(i%5)*0.2 - 0.4
		x = append(x, 6*label-3+jitter, float64(i%3)-1)
		y = append(y, label)
	}
	X, err := array.FromSlice(x, n, 2)
	if err != nil {
		t.Fatal(err)
	}
	return X, array.Vector(y...)
}
