// Package array is a strided n-dimensional float64 array whose indexing
// follows NumPy's view/copy rules.
//
// Every Array is a header (shape, strides, offset) over a shared backing
// store. Indexing with a Slice or an Int produces a view: a new header over
// the same store, so writes through either header are visible through the
// other. Indexing with a Mask or with Indices gathers the selected elements
// into freshly allocated storage, so the result never aliases its source.
//
//	a := array.Arange(5)                 // [0 1 2 3 4]
//	b, _ := a.Index(a.Less(3))           // copy: [0 1 2]
//	_ = b.Assign(array.All().By(2), 0)   // b is [0 1 0], a is unchanged
//
// Index faults are reported as *errors.DimensionError (mask length does not
// match the indexed axis, errors.ErrShapeMismatch) and *errors.IndexError
// (integer index outside [-n, n), errors.ErrIndexOutOfBounds).
//
// A 1-D or 2-D Array satisfies gonum's mat.Matrix, so views can be handed to
// estimators without copying.
package array
