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

import "golang.org/x/exp/constraints"

// CompareFunc returns a negative number when a sorts before b, a positive
// number when a sorts after b, and zero when they are equivalent.
type CompareFunc[T any] func(a, b T) int

// Compare is a CompareFunc for the natural order of any ordered type.
func Compare[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case b < a:
		return 1
	default:
		return 0
	}
}

// Sort sorts the whole list.  See SortRange.
func (l *List[T]) Sort(ascending bool, cmp CompareFunc[T]) {
	if err := l.SortRange(l.Begin(), l.End(), ascending, cmp); err != nil {
		// Begin and End always form a valid range.
		panic(err)
	}
}

// SortRange sorts the elements in [from, to) in ascending or descending order
// of cmp using a recursive merge sort.  Nodes are relinked in place; no
// element is copied and no node is allocated.  The sort is stable: elements
// that compare equal keep their relative order.
//
// Afterwards from denotes the first element of the sorted range, and to is
// left untouched.
func (l *List[T]) SortRange(from, to *Iterator[T], ascending bool, cmp CompareFunc[T]) error {
	for _, it := range []*Iterator[T]{from, to} {
		if err := l.check(it); err != nil {
			return err
		}
		if it.pos == rend {
			return ErrInvalidRange
		}
	}
	if from.pos == end {
		if to.pos != end {
			return ErrInvalidRange
		}
		return nil
	}

	var after *node[T]
	if to.pos == valid {
		after = to.node
	}
	if from.node == after {
		return nil
	}
	last := from.node
	for last.next != after {
		if last.next == nil {
			return ErrInvalidRange
		}
		last = last.next
	}

	// Cut [from, to) out of the list so the recursion sees a nil-terminated
	// chain.
	lead := from.node.prev
	last.next = nil
	from.node.prev = nil

	precedes := func(a, b T) bool { return cmp(a, b) < 0 }
	if !ascending {
		precedes = func(a, b T) bool { return 0 < cmp(a, b) }
	}
	head, tail := mergeSort(from.node, precedes)

	head.prev = lead
	if lead == nil {
		l.first = head
	} else {
		lead.next = head
	}
	tail.next = after
	if after == nil {
		l.last = tail
	} else {
		after.prev = tail
	}

	from.seek(head)
	return nil
}

// mergeSort sorts the nil-terminated chain starting at head and returns its
// new first and last nodes.  precedes reports whether a must come
// before b.
func mergeSort[T any](head *node[T], precedes func(a, b T) bool) (first, last *node[T]) {
	if head.next == nil {
		return head, head
	}
	if head.next.next == nil {
		second := head.next
		if !precedes(second.value, head.value) {
			return head, second
		}
		second.prev, second.next = nil, head
		head.prev, head.next = second, nil
		return second, head
	}

	// The slow cursor advances every other step of the fast one, stopping at
	// the end of the first half.
	slow, fast := head, head.next
	for fast != nil && fast.next != nil {
		slow, fast = slow.next, fast.next.next
	}
	mid := slow.next
	slow.next, mid.prev = nil, nil

	a, aLast := mergeSort(head, precedes)
	b, bLast := mergeSort(mid, precedes)
	return merge(a, aLast, b, bLast, precedes)
}

// merge relinks two sorted, non-empty chains into one.  Ties go to a, which
// keeps the sort stable.
func merge[T any](a, aLast, b, bLast *node[T], precedes func(a, b T) bool) (first, last *node[T]) {
	push := func(n *node[T]) {
		n.prev = last
		if last == nil {
			first = n
		} else {
			last.next = n
		}
		last = n
	}
	for a != nil && b != nil {
		if precedes(b.value, a.value) {
			n := b
			b = b.next
			push(n)
		} else {
			n := a
			a = a.next
			push(n)
		}
	}
	rest, restLast := a, aLast
	if rest == nil {
		rest, restLast = b, bLast
	}
	rest.prev = last
	last.next = rest
	return first, restLast
}
