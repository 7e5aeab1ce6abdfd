package model

import (
	"encoding/json"
	"os"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// WeightsVersion is written into every exported ModelWeights.
const WeightsVersion = "1"

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（Ridge 等）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients は重み係数
	Coefficients []float64 `json:"coefficients"`

	// Intercept は切片
	Intercept float64 `json:"intercept"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters Params `json:"hyperparameters"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted"`
}

// WeightsExporter is implemented by estimators whose fitted state fits in
// a ModelWeights.
type WeightsExporter interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(w *ModelWeights) error
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal model weights")
	}
	return data, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズし、検証する
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "unmarshal model weights")
	}
	return mw.Validate()
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version != WeightsVersion {
		return errors.NewValidationError("version", "unsupported weights version", mw.Version)
	}
	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}
	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	return &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Coefficients:    append([]float64(nil), mw.Coefficients...),
		Intercept:       mw.Intercept,
		Hyperparameters: mw.Hyperparameters.Copy(),
		IsFitted:        mw.IsFitted,
	}
}

// SaveWeights はモデルの重みをJSONファイルに保存する
func SaveWeights(est WeightsExporter, filename string) error {
	w, err := est.ExportWeights()
	if err != nil {
		return err
	}
	data, err := w.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrapf(err, "write model weights %s", filename)
	}
	return nil
}

// LoadWeights はJSONファイルから重みを読み込み、est に復元する
func LoadWeights(est WeightsExporter, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "read model weights %s", filename)
	}
	var w ModelWeights
	if err := w.FromJSON(data); err != nil {
		return err
	}
	return est.ImportWeights(&w)
}
