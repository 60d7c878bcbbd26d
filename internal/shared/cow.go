// Copyright 2022 Sogang University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shared

// CloneFunc returns a deep copy of the given payload.
type CloneFunc[T any] func(*T) *T

// shallowClone copies the payload by value.
func shallowClone[T any](p *T) *T {
	v := *p
	return &v
}

// CopyOnWritePointer is an implicitly shared handle.  Copies share the cell
// until one of them requests mutable access through Data, at which point
// that holder detaches onto a private clone.  Mutations made through one
// handle are therefore never observed through another.
type CopyOnWritePointer[T any] struct {
	ptr   SharedPointer[T]
	clone CloneFunc[T]
}

// NewCopyOnWritePointer takes ownership of p.  clone deep-copies the payload
// on detach; a nil clone copies the payload by value.
func NewCopyOnWritePointer[T any](p *T, clone CloneFunc[T]) *CopyOnWritePointer[T] {
	if clone == nil {
		clone = shallowClone[T]
	}
	return &CopyOnWritePointer[T]{
		ptr:   SharedPointer[T]{cell: newCell(p)},
		clone: clone,
	}
}

// Copy returns a new handle sharing the cell of c.
func (c *CopyOnWritePointer[T]) Copy() *CopyOnWritePointer[T] {
	return &CopyOnWritePointer[T]{
		ptr:   *c.ptr.Copy(),
		clone: c.clone,
	}
}

// Assign makes c share the cell of other, releasing the cell c held before.
func (c *CopyOnWritePointer[T]) Assign(other *CopyOnWritePointer[T]) {
	c.ptr.Assign(&other.ptr)
}

// Detach moves c onto a private clone of its payload if the cell is shared.
func (c *CopyOnWritePointer[T]) Detach() {
	if c.ptr.cell == nil || c.ptr.cell.refs <= 1 {
		return
	}
	p := c.clone(c.ptr.cell.data)
	c.ptr.release()
	c.ptr.cell = newCell(p)
}

// Data returns the payload for mutation, detaching first.
func (c *CopyOnWritePointer[T]) Data() (*T, error) {
	if c.ptr.cell == nil {
		return nil, ErrNilPointer
	}
	c.Detach()
	return c.ptr.cell.data, nil
}

// ConstData returns the payload without detaching.  Callers must not mutate
// the result.
func (c *CopyOnWritePointer[T]) ConstData() (*T, error) {
	return c.ptr.Data()
}

// Reset releases the current cell and adopts p in a fresh one.
func (c *CopyOnWritePointer[T]) Reset(p *T) {
	c.ptr.Reset(p)
}

// Release drops the reference held by c, leaving it null.
func (c *CopyOnWritePointer[T]) Release() {
	c.ptr.Release()
}

// IsNull reports whether c refers to no payload.
func (c *CopyOnWritePointer[T]) IsNull() bool {
	return c.ptr.IsNull()
}

// RefCount returns the number of handles sharing the cell.
func (c *CopyOnWritePointer[T]) RefCount() int {
	return c.ptr.RefCount()
}

// SharesWith reports whether c and other refer to the same cell.
func (c *CopyOnWritePointer[T]) SharesWith(other *CopyOnWritePointer[T]) bool {
	return c.ptr.SharesWith(&other.ptr)
}
