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

package dlist

// position tags the state of an iterator.
type position uint8

const (
	// valid denotes an element.
	valid position = iota
	// end is one past the last element.
	end
	// rend is one before the first element.
	rend
)

// direction is the direction of travel of an iterator.
type direction int8

const (
	forward direction = iota
	reverse
)

// Iterator denotes a position in a list.  Besides the element it denotes,
// it caches that element's neighbours so it can still step away after the
// element is removed.
//
// An iterator that has run past the end, or before the beginning, stays
// there: stepping back does not bring it onto the list again.  Ask the list
// for a fresh iterator instead.
type Iterator[T any] struct {
	list *List[T]
	node *node[T]
	next *node[T]
	prev *node[T]
	pos  position
	dir  direction
}

// Begin returns a forward iterator at the first element, or past the end if
// the list is empty.
func (l *List[T]) Begin() *Iterator[T] {
	it := &Iterator[T]{list: l, dir: forward}
	if l.first == nil {
		it.pos = end
	} else {
		it.seek(l.first)
	}
	return it
}

// End returns a forward iterator past the last element.
func (l *List[T]) End() *Iterator[T] {
	return &Iterator[T]{list: l, pos: end, dir: forward}
}

// RBegin returns a reverse iterator at the last element, or before the
// beginning if the list is empty.
func (l *List[T]) RBegin() *Iterator[T] {
	it := &Iterator[T]{list: l, dir: reverse}
	if l.last == nil {
		it.pos = rend
	} else {
		it.seek(l.last)
	}
	return it
}

// REnd returns a reverse iterator before the first element.
func (l *List[T]) REnd() *Iterator[T] {
	return &Iterator[T]{list: l, pos: rend, dir: reverse}
}

// seek points it at n and caches its neighbours.
func (it *Iterator[T]) seek(n *node[T]) {
	it.node, it.next, it.prev, it.pos = n, n.next, n.prev, valid
}

// neighbours returns the nodes around the current element, from the live
// links while the element is in the list and from the cache after it has
// been removed.
func (it *Iterator[T]) neighbours() (next, prev *node[T]) {
	if it.node.list == it.list {
		return it.node.next, it.node.prev
	}
	return it.next, it.prev
}

// stepForward moves towards the back of the list.
func (it *Iterator[T]) stepForward() {
	next, _ := it.neighbours()
	if next == nil {
		it.node, it.next, it.prev, it.pos = nil, nil, nil, end
		return
	}
	it.seek(next)
}

// stepBackward moves towards the front of the list.
func (it *Iterator[T]) stepBackward() {
	_, prev := it.neighbours()
	if prev == nil {
		it.node, it.next, it.prev, it.pos = nil, nil, nil, rend
		return
	}
	it.seek(prev)
}

// Next advances it in its direction of travel and reports whether it still
// denotes an element.
func (it *Iterator[T]) Next() bool {
	if it.pos != valid {
		return false
	}
	if it.dir == forward {
		it.stepForward()
	} else {
		it.stepBackward()
	}
	return it.pos == valid
}

// Prev moves it against its direction of travel and reports whether it still
// denotes an element.
func (it *Iterator[T]) Prev() bool {
	if it.pos != valid {
		return false
	}
	if it.dir == forward {
		it.stepBackward()
	} else {
		it.stepForward()
	}
	return it.pos == valid
}

// Valid reports whether it denotes an element.
func (it *Iterator[T]) Valid() bool {
	return it.pos == valid
}

// IsEnd reports whether it is past the last element.
func (it *Iterator[T]) IsEnd() bool {
	return it.pos == end
}

// IsREnd reports whether it is before the first element.
func (it *Iterator[T]) IsREnd() bool {
	return it.pos == rend
}

// Value returns the element it denotes.  It panics if it denotes no element.
func (it *Iterator[T]) Value() T {
	if it.pos != valid {
		panic("dlist: dereferencing an iterator that denotes no element")
	}
	return it.node.value
}

// Ptr returns a pointer to the element it denotes, or nil if it denotes no
// element.
func (it *Iterator[T]) Ptr() *T {
	if it.pos != valid {
		return nil
	}
	return &it.node.value
}

// Equal reports whether it and other denote the same position of the same
// list.
func (it *Iterator[T]) Equal(other *Iterator[T]) bool {
	if it.list != other.list || it.pos != other.pos {
		return false
	}
	return it.pos != valid || it.node == other.node
}
