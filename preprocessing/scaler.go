// Package preprocessing provides feature scalers that learn per-column
// statistics from a matrix and return scaled copies as arrays.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/arraylab/core/array"
	"github.com/YuminosukeSato/arraylab/core/model"
	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

var (
	_ model.Transformer = (*StandardScaler)(nil)
	_ model.Transformer = (*MinMaxScaler)(nil)
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	state    *model.StateManager
	withMean bool
	withStd  bool

	mean  []float64
	scale []float64
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		withMean: withMean,
		withStd:  withStd,
	}
}

// Fit は訓練データから列ごとの平均と標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c, err := checkMatrix("StandardScaler.Fit", X)
	if err != nil {
		return err
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m, std := stat.PopMeanStdDev(col, nil)
		if s.withMean {
			mean[j] = m
		}
		scale[j] = 1
		// 定数列はスケールしない
		if s.withStd && std > 1e-8 {
			scale[j] = std
		}
	}

	s.mean, s.scale = mean, scale
	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform は (x - mean) / scale を適用した新しい配列を返す
func (s *StandardScaler) Transform(X mat.Matrix) (*array.Array, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}
	return apply("StandardScaler.Transform", s.state, X, func(j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	})
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*array.Array, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*array.Array, error) {
	if err := s.state.RequireFitted("StandardScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	return apply("StandardScaler.InverseTransform", s.state, X, func(j int, v float64) float64 {
		return v*s.scale[j] + s.mean[j]
	})
}

// Mean returns a copy of the learned column means.
func (s *StandardScaler) Mean() []float64 { return append([]float64(nil), s.mean...) }

// Scale returns a copy of the learned column scales.
func (s *StandardScaler) Scale() []float64 { return append([]float64(nil), s.scale...) }

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() model.Params {
	return model.Params{"with_mean": s.withMean, "with_std": s.withStd}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.withMean, s.withStd)
}

// MinMaxScaler はscikit-learn互換のMin-Maxスケーラー
// データを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	state        *model.StateManager
	featureRange [2]float64

	dataMin []float64
	scale   []float64
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	XScaled, err := scaler.FitTransform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		state:        model.NewStateManager(),
		featureRange: featureRange,
	}
}

// Fit は訓練データから列ごとの最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	const op = "MinMaxScaler.Fit"
	if !(m.featureRange[0] < m.featureRange[1]) {
		return errors.NewValidationError("feature_range", "min must be less than max", m.featureRange)
	}
	r, c, err := checkMatrix(op, X)
	if err != nil {
		return err
	}

	dataMin := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	width := m.featureRange[1] - m.featureRange[0]
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		lo, hi := floats.Min(col), floats.Max(col)
		dataMin[j] = lo
		// 定数列は下限に写す
		scale[j] = 0
		if span := hi - lo; span > 1e-12 {
			scale[j] = width / span
		}
	}

	m.dataMin, m.scale = dataMin, scale
	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// Transform はデータを featureRange に線形写像した新しい配列を返す
func (m *MinMaxScaler) Transform(X mat.Matrix) (*array.Array, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "Transform"); err != nil {
		return nil, err
	}
	lo := m.featureRange[0]
	return apply("MinMaxScaler.Transform", m.state, X, func(j int, v float64) float64 {
		return (v-m.dataMin[j])*m.scale[j] + lo
	})
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (*array.Array, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform はスケーリングされたデータを元の範囲に戻す
// 定数列は学習時の値に戻る
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (*array.Array, error) {
	if err := m.state.RequireFitted("MinMaxScaler", "InverseTransform"); err != nil {
		return nil, err
	}
	lo := m.featureRange[0]
	return apply("MinMaxScaler.InverseTransform", m.state, X, func(j int, v float64) float64 {
		if m.scale[j] == 0 {
			return m.dataMin[j]
		}
		return (v-lo)/m.scale[j] + m.dataMin[j]
	})
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() model.Params {
	return model.Params{"feature_range": m.featureRange}
}

// String はスケーラーの文字列表現を返す
func (m *MinMaxScaler) String() string {
	return fmt.Sprintf("MinMaxScaler(feature_range=(%g, %g))", m.featureRange[0], m.featureRange[1])
}

func checkMatrix(op string, X mat.Matrix) (r, c int, err error) {
	if X == nil {
		return 0, 0, errors.NewValueError(op, "nil matrix")
	}
	r, c = X.Dims()
	if r == 0 || c == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := X.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, 0, errors.NewValueError(op, fmt.Sprintf("non-finite value at (%d, %d)", i, j))
			}
		}
	}
	return r, c, nil
}

// apply copies X into a new array, mapping each element with fn(column, value).
func apply(op string, state *model.StateManager, X mat.Matrix, fn func(j int, v float64) float64) (*array.Array, error) {
	if X == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := X.Dims()
	if err := state.CheckFeatures(op, c); err != nil {
		return nil, err
	}
	data := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = fn(j, X.At(i, j))
		}
	}
	return array.FromSlice(data, r, c)
}
