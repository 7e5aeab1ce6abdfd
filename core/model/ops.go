package model

import "github.com/YuminosukeSato/arraylab/core/array"

// OpKind tags the operations a search driver performs. The set is closed.
type OpKind int

const (
	OpSliceIndex OpKind = iota
	OpMaskIndex
	OpFit
	OpPredict
	OpScore
)

func (k OpKind) String() string {
	switch k {
	case OpSliceIndex:
		return "slice-index"
	case OpMaskIndex:
		return "mask-index"
	case OpFit:
		return "fit"
	case OpPredict:
		return "predict"
	case OpScore:
		return "score"
	default:
		return "unknown"
	}
}

// IndexOp maps an index expression kind onto its operation: view-producing
// kinds are slice-index, copying kinds are mask-index.
func IndexOp(kind array.IndexKind) OpKind {
	if kind.IsView() {
		return OpSliceIndex
	}
	return OpMaskIndex
}
