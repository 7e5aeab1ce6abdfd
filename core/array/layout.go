package array

// IsContiguous reports whether the elements occupy one dense row-major run
// of the store.
func (a *Array) IsContiguous() bool {
	expected := 1
	for ax := len(a.shape) - 1; ax >= 0; ax-- {
		n := a.shape[ax]
		if n == 0 {
			return true
		}
		if n != 1 && a.strides[ax] != expected {
			return false
		}
		expected *= n
	}
	return true
}

// Reshape returns an Array with the same elements in a new shape. One extent
// may be -1 and is inferred. The result is a view when a is contiguous and a
// copy otherwise.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	s, err := resolveReshape(a.Size(), shape)
	if err != nil {
		return nil, err
	}
	if a.IsContiguous() {
		return a.view(s, s.ComputeStrides(), a.offset), nil
	}
	c := a.Copy()
	c.shape = s
	c.strides = s.ComputeStrides()
	return c, nil
}

// Ravel returns a 1-D Array of the elements, a view when a is contiguous.
func (a *Array) Ravel() *Array {
	if a.IsContiguous() {
		return a.view(Shape{a.Size()}, []int{1}, a.offset)
	}
	return a.Flatten()
}

// Flatten returns a 1-D copy of the elements.
func (a *Array) Flatten() *Array {
	return newOwner(a.ToSlice(), Shape{a.Size()})
}

// Transpose returns a view with the axes reversed.
func (a *Array) Transpose() *Array {
	nd := len(a.shape)
	shape := make(Shape, nd)
	strides := make([]int, nd)
	for i := range a.shape {
		shape[i] = a.shape[nd-1-i]
		strides[i] = a.strides[nd-1-i]
	}
	return a.view(shape, strides, a.offset)
}
