package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arraylab/core/array"
)

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform は変換済みデータを新しい配列として返す
	Transform(X mat.Matrix) (*array.Array, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (*array.Array, error)
}
