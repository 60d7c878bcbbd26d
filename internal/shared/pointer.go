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

// Package shared provides reference-counted handles over heap-allocated
// payloads.  SharedPointer shares a single cell explicitly among its
// holders, while CopyOnWritePointer clones the payload into a private cell
// the first time a holder asks for mutable access while others still
// reference it.
//
// Reference counts are plain integers.  None of the types in this package
// are safe for concurrent use; callers sharing a handle across goroutines
// must synchronize externally.
package shared

import "errors"

// ErrNilPointer is returned when a null handle is dereferenced.
var ErrNilPointer = errors.New("shared: nil pointer dereference")

// cell is the reference-counted payload holder.
type cell[T any] struct {
	data *T
	refs int
}

func newCell[T any](p *T) *cell[T] {
	if p == nil {
		return nil
	}
	return &cell[T]{data: p, refs: 1}
}

// SharedPointer is an explicitly shared handle to a payload.  Every copy
// obtained through Copy refers to the same cell, so a mutation made through
// one handle is visible through all of them.
type SharedPointer[T any] struct {
	cell *cell[T]
}

// NewSharedPointer takes ownership of p.  A nil p yields a null handle.
func NewSharedPointer[T any](p *T) *SharedPointer[T] {
	return &SharedPointer[T]{cell: newCell(p)}
}

// Copy returns a new handle sharing the cell of s.
func (s *SharedPointer[T]) Copy() *SharedPointer[T] {
	if s.cell != nil {
		s.cell.refs++
	}
	return &SharedPointer[T]{cell: s.cell}
}

// Assign makes s share the cell of other, releasing the cell s held before.
func (s *SharedPointer[T]) Assign(other *SharedPointer[T]) {
	if s.cell == other.cell {
		return
	}
	if other.cell != nil {
		other.cell.refs++
	}
	s.release()
	s.cell = other.cell
}

// Reset releases the current cell and adopts p in a fresh one.
func (s *SharedPointer[T]) Reset(p *T) {
	s.release()
	s.cell = newCell(p)
}

// Release drops the reference held by s, leaving it null.  The payload is
// dropped once the last reference is gone.
func (s *SharedPointer[T]) Release() {
	s.release()
}

func (s *SharedPointer[T]) release() {
	if s.cell == nil {
		return
	}
	s.cell.refs--
	if s.cell.refs == 0 {
		s.cell.data = nil
	}
	s.cell = nil
}

// Data returns the payload.
func (s *SharedPointer[T]) Data() (*T, error) {
	if s.cell == nil {
		return nil, ErrNilPointer
	}
	return s.cell.data, nil
}

// IsNull reports whether s refers to no payload.
func (s *SharedPointer[T]) IsNull() bool {
	return s.cell == nil
}

// RefCount returns the number of handles sharing the cell, or 0 for a null
// handle.
func (s *SharedPointer[T]) RefCount() int {
	if s.cell == nil {
		return 0
	}
	return s.cell.refs
}

// SharesWith reports whether s and other refer to the same cell.
func (s *SharedPointer[T]) SharesWith(other *SharedPointer[T]) bool {
	return s.cell != nil && s.cell == other.cell
}
