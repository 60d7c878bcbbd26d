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

// Package bst implements an in-memory AVL tree that maps each distinct key
// to a bucket of values.
//
// Values are ordered by a user-supplied LessFunc.  Values that compare equal
// are coalesced into the bucket of a single node rather than spread across
// several nodes, so a search visits at most one node per level and returns
// the whole bucket at once.  Insert reports but does not reject duplicate
// keys; InsertUnique rejects them.
//
// Every populated node owns two child nodes.  A child may be an empty
// placeholder (height 0), so below the root there are no nil child links.
// After every insertion and removal the tree restores the AVL invariant: for
// every node the heights of its two subtrees differ by at most one.
//
// Write operations are not safe for concurrent mutation by multiple
// goroutines, but Read operations are.
package bst

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

const DefaultFreeListSize = 32

var (
	// ErrNotFound is returned when no bucket value exists for the requested
	// key and index.
	ErrNotFound = errors.New("bst: not found")

	// ErrDuplicate is returned by InsertUnique when the key already exists.
	ErrDuplicate = errors.New("bst: duplicate key")
)

// FreeList represents a free list of tree nodes. By default each Tree has
// its own FreeList, but multiple Trees can share the same FreeList.
// Two Trees using the same freelist are safe for concurrent write access.
type FreeList[T any] struct {
	mu       sync.Mutex
	freelist []*node[T]
}

// NewFreeList creates a new free list.
// size is the maximum size of the returned free list.
func NewFreeList[T any](size int) *FreeList[T] {
	return &FreeList[T]{freelist: make([]*node[T], 0, size)}
}

func (f *FreeList[T]) newNode() (n *node[T]) {
	f.mu.Lock()
	index := len(f.freelist) - 1
	if index < 0 {
		f.mu.Unlock()
		return new(node[T])
	}
	n = f.freelist[index]
	f.freelist[index] = nil
	f.freelist = f.freelist[:index]
	f.mu.Unlock()
	return
}

// freeNode adds the given node to the list, returning true if it was added
// and false if it was discarded.
func (f *FreeList[T]) freeNode(n *node[T]) (out bool) {
	f.mu.Lock()
	if len(f.freelist) < cap(f.freelist) {
		f.freelist = append(f.freelist, n)
		out = true
	}
	f.mu.Unlock()
	return
}

// ValueIterator allows callers of Ascend and Descend to iterate in-order
// over the tree.  When this function returns false, iteration will stop and
// the associated Ascend or Descend function will immediately return.
type ValueIterator[T any] func(T) bool

// contents stores the bucket of a node.
type contents[T any] []T

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (s *contents[T]) removeAt(index int) T {
	value := (*s)[index]
	copy((*s)[index:], (*s)[index+1:])
	var zero T
	(*s)[len(*s)-1] = zero
	*s = (*s)[:len(*s)-1]
	return value
}

// truncate truncates this instance at index so that it contains only the
// first index values. index must be less than or equal to length.
func (s *contents[T]) truncate(index int) {
	var toClear contents[T]
	*s, toClear = (*s)[:index], (*s)[index:]
	var zero T
	for i := 0; i < len(toClear); i++ {
		toClear[i] = zero
	}
}

// node is a single key slot in a tree.
//
// It must at all times maintain the invariant that either
//   - height == 0, len(contents) == 0 and both children are nil, or
//   - height > 0, len(contents) > 0 and both children are non-nil.
type node[T any] struct {
	contents contents[T]
	height   int
	left     *node[T]
	right    *node[T]
	parent   *node[T]
}

// empty reports whether n is a placeholder.
func (n *node[T]) empty() bool {
	return n.height == 0
}

// key returns the representative value of the bucket.
func (n *node[T]) key() T {
	return n.contents[0]
}

// balance returns height(right) - height(left).
func (n *node[T]) balance() int {
	if n.empty() {
		return 0
	}
	return n.right.height - n.left.height
}

// fix recomputes the height of n from its children.
func (n *node[T]) fix() {
	n.height = 1 + max(n.left.height, n.right.height)
}

// min returns the leftmost populated node of the subtree rooted at n.
func (n *node[T]) min() *node[T] {
	for !n.left.empty() {
		n = n.left
	}
	return n
}

// max returns the rightmost populated node of the subtree rooted at n.
func (n *node[T]) max() *node[T] {
	for !n.right.empty() {
		n = n.right
	}
	return n
}

// bucket returns a copy of the contents of n.
func (n *node[T]) bucket() []T {
	out := make([]T, len(n.contents))
	copy(out, n.contents)
	return out
}

func (n *node[T]) inOrder(out []T) []T {
	if n.empty() {
		return out
	}
	out = n.left.inOrder(out)
	out = append(out, n.contents...)
	return n.right.inOrder(out)
}

func (n *node[T]) preOrder(out []T) []T {
	if n.empty() {
		return out
	}
	out = append(out, n.contents...)
	out = n.left.preOrder(out)
	return n.right.preOrder(out)
}

// ascend calls iter for every value in the subtree in ascending order.
// It returns false if iteration was stopped.
func (n *node[T]) ascend(iter ValueIterator[T]) bool {
	if n.empty() {
		return true
	}
	if !n.left.ascend(iter) {
		return false
	}
	for _, v := range n.contents {
		if !iter(v) {
			return false
		}
	}
	return n.right.ascend(iter)
}

// descend calls iter for every value in the subtree in descending order of
// keys.  Values within a bucket keep their insertion order.
func (n *node[T]) descend(iter ValueIterator[T]) bool {
	if n.empty() {
		return true
	}
	if !n.right.descend(iter) {
		return false
	}
	for _, v := range n.contents {
		if !iter(v) {
			return false
		}
	}
	return n.left.descend(iter)
}

// print writes the subtree in pre-order, one node per line, indented by
// depth.
func (n *node[T]) print(w io.Writer, level int) {
	if n.empty() {
		return
	}
	fmt.Fprintf(w, "%sNODE:%v h=%d\n", strings.Repeat("  ", level), []T(n.contents), n.height)
	n.left.print(w, level+1)
	n.right.print(w, level+1)
}

// Tree is a generic implementation of an AVL tree with bucketed nodes.
//
// Tree stores values in an ordered structure, allowing easy insertion,
// removal, and iteration.
type Tree[T any] struct {
	root     *node[T]
	less     LessFunc[T]
	length   int
	keys     int
	freelist *FreeList[T]
}

// New creates a new tree ordered by less.
func New[T any](less LessFunc[T]) *Tree[T] {
	return NewWithFreeList(less, NewFreeList[T](DefaultFreeListSize))
}

// NewWithFreeList creates a new tree that uses the given node free list.
func NewWithFreeList[T any](less LessFunc[T], f *FreeList[T]) *Tree[T] {
	if less == nil {
		panic("nil less function")
	}
	t := &Tree[T]{
		less:     less,
		freelist: f,
	}
	t.root = t.newNode(nil)
	return t
}

func (t *Tree[T]) newNode(parent *node[T]) *node[T] {
	n := t.freelist.newNode()
	n.parent = parent
	return n
}

func (t *Tree[T]) freeNode(n *node[T]) bool {
	n.contents.truncate(0)
	n.height = 0
	n.left, n.right, n.parent = nil, nil, nil
	return t.freelist.freeNode(n)
}

// find returns the node whose key equals v, or the placeholder where v
// belongs.
func (t *Tree[T]) find(v T) *node[T] {
	n := t.root
	for !n.empty() {
		switch {
		case t.less(v, n.key()):
			n = n.left
		case t.less(n.key(), v):
			n = n.right
		default:
			return n
		}
	}
	return n
}

// populate turns the placeholder n into a leaf holding v.
func (t *Tree[T]) populate(n *node[T], v T) {
	n.contents = append(n.contents, v)
	n.height = 1
	n.left = t.newNode(n)
	n.right = t.newNode(n)
}

// replace links n into the position of old.
func (t *Tree[T]) replace(old, n *node[T]) {
	n.parent = old.parent
	switch {
	case old.parent == nil:
		t.root = n
	case old.parent.left == old:
		old.parent.left = n
	default:
		old.parent.right = n
	}
}

// rotateLeft lifts the right child of n into its position and returns it.
func (t *Tree[T]) rotateLeft(n *node[T]) *node[T] {
	r := n.right
	n.right = r.left
	n.right.parent = n
	t.replace(n, r)
	r.left = n
	n.parent = r
	n.fix()
	r.fix()
	return r
}

// rotateRight lifts the left child of n into its position and returns it.
func (t *Tree[T]) rotateRight(n *node[T]) *node[T] {
	l := n.left
	n.left = l.right
	n.left.parent = n
	t.replace(n, l)
	l.right = n
	n.parent = l
	n.fix()
	l.fix()
	return l
}

// rebalance walks from n up to the root, recomputing heights and rotating
// wherever the subtree heights of a node differ by more than one.
func (t *Tree[T]) rebalance(n *node[T]) {
	for ; n != nil; n = n.parent {
		if n.empty() {
			panic("rebalance through an empty node")
		}
		n.fix()
		switch balance := n.balance(); {
		case balance < -1:
			if 0 < n.left.balance() {
				t.rotateLeft(n.left)
			}
			n = t.rotateRight(n)
		case 1 < balance:
			if n.right.balance() < 0 {
				t.rotateRight(n.right)
			}
			n = t.rotateLeft(n)
		}
	}
}

// Insert adds v to the tree.  If a value with an equal key is already in the
// tree, v is appended to that key's bucket and duplicate is true; the value
// is stored either way.
func (t *Tree[T]) Insert(v T) (duplicate bool) {
	n := t.find(v)
	t.length++
	if !n.empty() {
		n.contents = append(n.contents, v)
		return true
	}
	t.populate(n, v)
	t.keys++
	t.rebalance(n)
	return false
}

// InsertUnique adds v to the tree only if no value with an equal key exists,
// returning ErrDuplicate otherwise.
func (t *Tree[T]) InsertUnique(v T) error {
	n := t.find(v)
	if !n.empty() {
		return ErrDuplicate
	}
	t.length++
	t.keys++
	t.populate(n, v)
	t.rebalance(n)
	return nil
}

// Search returns a copy of the bucket whose key equals v.
func (t *Tree[T]) Search(v T) ([]T, bool) {
	n := t.find(v)
	if n.empty() {
		return nil, false
	}
	return n.bucket(), true
}

// Has returns true if the given key is in the tree.
func (t *Tree[T]) Has(v T) bool {
	return !t.find(v).empty()
}

// Remove removes the bucket value at index from the node whose key equals v
// and returns it.  The node is spliced out of the tree once its bucket is
// empty.
func (t *Tree[T]) Remove(v T, index int) (_ T, err error) {
	n := t.find(v)
	if n.empty() || index < 0 || len(n.contents) <= index {
		err = ErrNotFound
		return
	}
	out := n.contents.removeAt(index)
	t.length--
	if len(n.contents) == 0 {
		t.unlink(n)
	}
	return out, nil
}

// RemoveKey removes the whole bucket whose key equals v and returns it.
func (t *Tree[T]) RemoveKey(v T) ([]T, error) {
	n := t.find(v)
	if n.empty() {
		return nil, ErrNotFound
	}
	out := n.bucket()
	n.contents.truncate(0)
	t.length -= len(out)
	t.unlink(n)
	return out, nil
}

// unlink removes the node n, whose bucket has just become empty.
//
// A leaf turns back into a placeholder.  Otherwise n takes over the bucket of
// a replacement node, the minimum of its right subtree if n is balanced or
// right-heavy and the maximum of its left subtree if n is left-heavy, and the
// replacement is spliced out of its original position instead.  Node identity
// is therefore not preserved: the surviving bucket may live in a different
// node than before.
func (t *Tree[T]) unlink(n *node[T]) {
	t.keys--
	if n.left.empty() && n.right.empty() {
		t.splice(n)
		return
	}

	var r *node[T]
	if 0 <= n.balance() {
		r = n.right.min()
	} else {
		r = n.left.max()
	}
	n.contents, r.contents = r.contents, n.contents
	t.splice(r)
}

// splice removes n, which has at most one populated child, from the tree and
// rebalances from its parent.
func (t *Tree[T]) splice(n *node[T]) {
	child, other := n.right, n.left
	if child.empty() {
		child, other = other, child
	}
	parent := n.parent

	if child.empty() {
		t.freeNode(child)
		t.freeNode(other)
		n.contents.truncate(0)
		n.left, n.right, n.height = nil, nil, 0
	} else {
		t.replace(n, child)
		t.freeNode(other)
		t.freeNode(n)
	}
	t.rebalance(parent)
}

// Min returns the bucket with the smallest key in the tree.
func (t *Tree[T]) Min() ([]T, bool) {
	if t.root.empty() {
		return nil, false
	}
	return t.root.min().bucket(), true
}

// Max returns the bucket with the largest key in the tree.
func (t *Tree[T]) Max() ([]T, bool) {
	if t.root.empty() {
		return nil, false
	}
	return t.root.max().bucket(), true
}

// ExportInOrder returns every value in the tree in ascending key order.
// Values sharing a key appear in insertion order.
func (t *Tree[T]) ExportInOrder() []T {
	return t.root.inOrder(make([]T, 0, t.length))
}

// ExportPreOrder returns every value in the tree in pre-order of the nodes.
// It is meant for diagnostics; the order reflects the shape of the tree.
func (t *Tree[T]) ExportPreOrder() []T {
	return t.root.preOrder(make([]T, 0, t.length))
}

// Ascend calls the iterator for every value in the tree in ascending order,
// until iterator returns false.
func (t *Tree[T]) Ascend(iterator ValueIterator[T]) {
	t.root.ascend(iterator)
}

// Descend calls the iterator for every value in the tree in descending key
// order, until iterator returns false.
func (t *Tree[T]) Descend(iterator ValueIterator[T]) {
	t.root.descend(iterator)
}

// Len returns the number of values currently in the tree.
func (t *Tree[T]) Len() int {
	return t.length
}

// Keys returns the number of distinct keys currently in the tree.
func (t *Tree[T]) Keys() int {
	return t.keys
}

// Height returns the height of the tree; 0 for an empty tree.
func (t *Tree[T]) Height() int {
	return t.root.height
}

// Print writes a diagnostic rendering of the tree to w.
func (t *Tree[T]) Print(w io.Writer) {
	t.root.print(w, 0)
}

func (t *Tree[T]) String() string {
	var b strings.Builder
	t.Print(&b)
	return b.String()
}

// Clear removes all values from the tree.  If addNodesToFreelist is true,
// the tree's nodes are added to its freelist as part of this call, until the
// freelist is full.  Otherwise, the root node is simply dereferenced and the
// subtree left to Go's normal GC processes.
func (t *Tree[T]) Clear(addNodesToFreelist bool) {
	if addNodesToFreelist {
		t.reset(t.root)
	}
	t.root, t.length, t.keys = t.newNode(nil), 0, 0
}

// reset returns a subtree to the freelist.  It breaks out immediately if the
// freelist is full, since the only benefit of iterating is to fill that
// freelist up.  Returns true if parent reset call should continue.
func (t *Tree[T]) reset(n *node[T]) bool {
	if !n.empty() {
		if !t.reset(n.left) || !t.reset(n.right) {
			return false
		}
	}
	return t.freeNode(n)
}
