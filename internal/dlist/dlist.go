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

// Package dlist implements a doubly linked list whose iterators stay usable
// across insertion and removal at their own position, along with an
// in-place merge sort that relinks nodes instead of copying values.
//
// An iterator denotes an element rather than an offset: it keeps denoting
// its element while other elements are inserted, removed or sorted around
// it.  Removing the element itself through another iterator leaves it
// stale; it can still step to the neighbours it last saw but can no longer
// be used to mutate the list.
//
// A list is not safe for concurrent use.
package dlist

import "errors"

var (
	// ErrOutOfRange is returned when accessing an element of an empty list
	// or an index outside the list, or when removing through an iterator that
	// denotes no element.
	ErrOutOfRange = errors.New("dlist: out of range")

	// ErrForeignIterator is returned when an iterator of another list is
	// passed to a list.
	ErrForeignIterator = errors.New("dlist: iterator belongs to another list")

	// ErrStaleIterator is returned when an iterator denotes an element that
	// has already been removed.
	ErrStaleIterator = errors.New("dlist: stale iterator")

	// ErrInvalidRange is returned when a range does not run forward from its
	// start to its end.
	ErrInvalidRange = errors.New("dlist: invalid range")
)

// node is a single element in a list.  list is nil once the node has been
// removed.
type node[T any] struct {
	value T
	next  *node[T]
	prev  *node[T]
	list  *List[T]
}

// List is a doubly linked list.  The zero value is an empty list ready to
// use.
//
// It must at all times maintain the invariant that either
//   - first == last == nil and size == 0, or
//   - first.prev == nil, last.next == nil and size nodes are reachable from
//     first.
type List[T any] struct {
	first *node[T]
	last  *node[T]
	size  int
}

// New creates a new empty list.
func New[T any]() *List[T] {
	return new(List[T])
}

// From creates a new list holding values in order.
func From[T any](values ...T) *List[T] {
	l := New[T]()
	for _, v := range values {
		l.PushBack(v)
	}
	return l
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.size
}

// linkBefore inserts a new node holding v in front of at, or at the back
// when at is nil.
func (l *List[T]) linkBefore(v T, at *node[T]) *node[T] {
	n := &node[T]{value: v, list: l}
	if at == nil {
		n.prev = l.last
		if l.last == nil {
			l.first = n
		} else {
			l.last.next = n
		}
		l.last = n
	} else {
		n.next, n.prev = at, at.prev
		if at.prev == nil {
			l.first = n
		} else {
			at.prev.next = n
		}
		at.prev = n
	}
	l.size++
	return n
}

// unlink removes n from the list.  n keeps its own links so that iterators
// still holding it can find their neighbours.
func (l *List[T]) unlink(n *node[T]) {
	if n.prev == nil {
		l.first = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		l.last = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.list = nil
	l.size--
}

// PushFront inserts v at the front of the list.
func (l *List[T]) PushFront(v T) {
	l.linkBefore(v, l.first)
}

// PushBack inserts v at the back of the list.
func (l *List[T]) PushBack(v T) {
	l.linkBefore(v, nil)
}

// Front returns the first element of the list.
func (l *List[T]) Front() (_ T, err error) {
	if l.first == nil {
		err = ErrOutOfRange
		return
	}
	return l.first.value, nil
}

// Back returns the last element of the list.
func (l *List[T]) Back() (_ T, err error) {
	if l.last == nil {
		err = ErrOutOfRange
		return
	}
	return l.last.value, nil
}

// PopFront removes and returns the first element of the list.
func (l *List[T]) PopFront() (_ T, err error) {
	n := l.first
	if n == nil {
		err = ErrOutOfRange
		return
	}
	l.unlink(n)
	return n.value, nil
}

// PopBack removes and returns the last element of the list.
func (l *List[T]) PopBack() (_ T, err error) {
	n := l.last
	if n == nil {
		err = ErrOutOfRange
		return
	}
	l.unlink(n)
	return n.value, nil
}

// at returns the node at index, walking from the nearer end.
func (l *List[T]) at(index int) *node[T] {
	if index < 0 || l.size <= index {
		return nil
	}
	if index < l.size/2 {
		n := l.first
		for ; 0 < index; index-- {
			n = n.next
		}
		return n
	}
	n := l.last
	for index = l.size - 1 - index; 0 < index; index-- {
		n = n.prev
	}
	return n
}

// At returns the element at index.
func (l *List[T]) At(index int) (_ T, err error) {
	n := l.at(index)
	if n == nil {
		err = ErrOutOfRange
		return
	}
	return n.value, nil
}

// Values returns the elements of the list in order.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.size)
	for n := l.first; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

// Clear removes all elements from the list.
func (l *List[T]) Clear() {
	for n := l.first; n != nil; n = n.next {
		n.list = nil
	}
	l.first, l.last, l.size = nil, nil, 0
}

// Insert inserts v immediately before the element it denotes, at the back
// when it is past the end, or at the front when it is before the beginning.
// Afterwards it denotes the new element.  Insert returns a pointer to the
// stored value.
func (l *List[T]) Insert(v T, it *Iterator[T]) (*T, error) {
	if err := l.check(it); err != nil {
		return nil, err
	}
	var n *node[T]
	switch it.pos {
	case valid:
		n = l.linkBefore(v, it.node)
	case end:
		n = l.linkBefore(v, nil)
	case rend:
		n = l.linkBefore(v, l.first)
	}
	it.seek(n)
	return &n.value, nil
}

// Remove removes the element it denotes and returns it.  Afterwards it
// denotes the element that followed the removed one in its direction of
// travel, so removing repeatedly while iterating visits every remaining
// element exactly once.
func (l *List[T]) Remove(it *Iterator[T]) (_ T, err error) {
	if err = l.check(it); err != nil {
		return
	}
	if it.pos != valid {
		err = ErrOutOfRange
		return
	}
	n := it.node
	it.seek(n)
	l.unlink(n)
	it.Next()
	return n.value, nil
}

// check verifies that it may be used to mutate l.
func (l *List[T]) check(it *Iterator[T]) error {
	if it == nil || it.list != l {
		return ErrForeignIterator
	}
	if it.pos == valid && it.node.list != l {
		return ErrStaleIterator
	}
	return nil
}
