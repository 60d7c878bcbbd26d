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

package bst

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
)

var treeSize = flag.Int("size", 1000, "number of values to insert in property tests")

// pair is a value whose key is k; v tells apart values sharing a key.
type pair struct {
	k, v int
}

func lessPair(a, b pair) bool {
	return a.k < b.k
}

// perm returns a random permutation of n ints in the range [0, n).
func perm(n int) []int {
	return rand.Perm(n)
}

// rang returns an ordered list of ints in the range [0, n).
func rang(n int) (out []int) {
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return
}

// all extracts all values from a tree in order as a slice.
func all[T any](t *Tree[T]) (out []T) {
	t.Ascend(func(a T) bool {
		out = append(out, a)
		return true
	})
	return
}

// allrev extracts all values from a tree in reverse order as a slice.
func allrev[T any](t *Tree[T]) (out []T) {
	t.Descend(func(a T) bool {
		out = append(out, a)
		return true
	})
	return
}

// verify checks the structural invariants of the tree: parent links,
// placeholder children, cached heights, balance, ordering and counts.
func verify[T any](tb testing.TB, t *Tree[T]) {
	tb.Helper()
	if t.root == nil || t.root.parent != nil {
		tb.Fatalf("bad root: %+v", t.root)
	}
	var keys, values int
	var check func(n *node[T]) int
	check = func(n *node[T]) int {
		if n.empty() {
			if n.left != nil || n.right != nil || len(n.contents) != 0 {
				tb.Fatalf("placeholder holds data: %+v", n)
			}
			return 0
		}
		if n.left == nil || n.right == nil {
			tb.Fatalf("populated node missing a child: %v", []T(n.contents))
		}
		if n.left.parent != n || n.right.parent != n {
			tb.Fatalf("broken parent link below %v", []T(n.contents))
		}
		if len(n.contents) == 0 {
			tb.Fatal("populated node with an empty bucket")
		}
		for _, v := range n.contents[1:] {
			if t.less(v, n.key()) || t.less(n.key(), v) {
				tb.Fatalf("bucket mixes keys: %v", []T(n.contents))
			}
		}
		if !n.left.empty() && !t.less(n.left.key(), n.key()) {
			tb.Fatalf("left child %v not less than %v", n.left.key(), n.key())
		}
		if !n.right.empty() && !t.less(n.key(), n.right.key()) {
			tb.Fatalf("right child %v not greater than %v", n.right.key(), n.key())
		}
		l, r := check(n.left), check(n.right)
		if h := 1 + max(l, r); h != n.height {
			tb.Fatalf("stale height at %v: cached %d computed %d", n.key(), n.height, h)
		}
		if d := r - l; d < -1 || 1 < d {
			tb.Fatalf("unbalanced at %v: balance factor %d", n.key(), d)
		}
		keys++
		values += len(n.contents)
		return n.height
	}
	check(t.root)
	if keys != t.Keys() || values != t.Len() {
		tb.Fatalf("counts: keys %d/%d values %d/%d", keys, t.Keys(), values, t.Len())
	}
	got := t.ExportInOrder()
	if !sort.SliceIsSorted(got, func(i, j int) bool { return t.less(got[i], got[j]) }) {
		tb.Fatalf("in-order export not sorted: %v", got)
	}
}

func TestTree(t *testing.T) {
	tr := New(Ordered[int]())
	for i := 0; i < 10; i++ {
		if min, ok := tr.Min(); ok || min != nil {
			t.Fatalf("empty min, got %+v", min)
		}
		if max, ok := tr.Max(); ok || max != nil {
			t.Fatalf("empty max, got %+v", max)
		}
		for _, v := range perm(*treeSize) {
			if tr.Insert(v) {
				t.Fatal("insert found value", v)
			}
		}
		verify(t, tr)
		for _, v := range perm(*treeSize) {
			if !tr.Has(v) {
				t.Fatal("has did not find value", v)
			}
		}
		if min, ok := tr.Min(); !ok || min[0] != 0 {
			t.Fatalf("min: ok %v got %+v", ok, min)
		}
		if max, ok := tr.Max(); !ok || max[0] != *treeSize-1 {
			t.Fatalf("max: ok %v got %+v", ok, max)
		}
		if diff := cmp.Diff(rang(*treeSize), all(tr)); diff != "" {
			t.Fatalf("ascend mismatch (-want +got):\n%s", diff)
		}
		want := rang(*treeSize)
		sort.Sort(sort.Reverse(sort.IntSlice(want)))
		if diff := cmp.Diff(want, allrev(tr)); diff != "" {
			t.Fatalf("descend mismatch (-want +got):\n%s", diff)
		}
		for _, v := range perm(*treeSize) {
			if x, err := tr.Remove(v, 0); err != nil || x != v {
				t.Fatalf("didn't find %v: %v", v, err)
			}
		}
		verify(t, tr)
		if got := all(tr); 0 < len(got) {
			t.Fatalf("some left!: %v", got)
		}
		if tr.Height() != 0 {
			t.Fatalf("empty tree has height %d", tr.Height())
		}
	}
}

func TestExampleScenario(t *testing.T) {
	tr := New(Ordered[int]())
	var dups int
	for _, v := range []int{5, 3, 8, 3, 1, 4, 7, 6, 2} {
		if tr.Insert(v) {
			dups++
		}
		verify(t, tr)
	}
	if dups != 1 {
		t.Fatalf("duplicates: got %d want 1", dups)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 3, 4, 5, 6, 7, 8}, tr.ExportInOrder()); diff != "" {
		t.Fatalf("in-order mismatch (-want +got):\n%s", diff)
	}
	if h := tr.Height(); 4 < h {
		t.Fatalf("height %d exceeds 4", h)
	}
	if got, ok := tr.Search(3); !ok || len(got) != 2 {
		t.Fatalf("search 3: ok %v got %v", ok, got)
	}
	if tr.Keys() != 8 || tr.Len() != 9 {
		t.Fatalf("keys %d len %d", tr.Keys(), tr.Len())
	}
}

func TestDuplicateBucket(t *testing.T) {
	tr := New[pair](lessPair)
	if tr.Insert(pair{1, 10}) {
		t.Fatal("first insert reported a duplicate")
	}
	if !tr.Insert(pair{1, 11}) {
		t.Fatal("second insert did not report a duplicate")
	}
	tr.Insert(pair{0, 0})
	tr.Insert(pair{2, 0})
	if tr.Keys() != 3 {
		t.Fatalf("equal keys did not coalesce: %d nodes", tr.Keys())
	}

	got, ok := tr.Search(pair{k: 1})
	if !ok {
		t.Fatal("search missed key 1")
	}
	if diff := cmp.Diff([]pair{{1, 10}, {1, 11}}, got, cmp.AllowUnexported(pair{})); diff != "" {
		t.Fatalf("bucket mismatch (-want +got):\n%s", diff)
	}

	// the returned bucket is a copy
	got[0].v = -1
	if again, _ := tr.Search(pair{k: 1}); again[0].v != 10 {
		t.Fatal("search exposed the bucket")
	}

	if x, err := tr.Remove(pair{k: 1}, 0); err != nil || x.v != 10 {
		t.Fatalf("remove index 0: %v %v", x, err)
	}
	if got, ok := tr.Search(pair{k: 1}); !ok || len(got) != 1 || got[0].v != 11 {
		t.Fatalf("remaining bucket: ok %v got %v", ok, got)
	}
	if _, err := tr.Remove(pair{k: 1}, 1); err != ErrNotFound {
		t.Fatalf("remove out-of-range index: got %v", err)
	}
	if _, err := tr.Remove(pair{k: 9}, 0); err != ErrNotFound {
		t.Fatalf("remove missing key: got %v", err)
	}
	verify(t, tr)
}

func TestInsertUnique(t *testing.T) {
	tr := New(Ordered[string]())
	for _, s := range []string{"m", "c", "x", "a"} {
		if err := tr.InsertUnique(s); err != nil {
			t.Fatalf("insert %q: %v", s, err)
		}
	}
	if err := tr.InsertUnique("c"); err != ErrDuplicate {
		t.Fatalf("got %v want ErrDuplicate", err)
	}
	if tr.Len() != 4 {
		t.Fatalf("rejected insert changed the tree: len %d", tr.Len())
	}
	verify(t, tr)
}

func TestRemoveKey(t *testing.T) {
	tr := New[pair](lessPair)
	for i := 0; i < 64; i++ {
		tr.Insert(pair{i % 8, i})
	}
	verify(t, tr)
	out, err := tr.RemoveKey(pair{k: 3})
	if err != nil || len(out) != 8 {
		t.Fatalf("remove key: %v %v", out, err)
	}
	for _, p := range out {
		if p.k != 3 {
			t.Fatalf("removed foreign value %v", p)
		}
	}
	if tr.Has(pair{k: 3}) || tr.Len() != 56 || tr.Keys() != 7 {
		t.Fatalf("after remove: len %d keys %d", tr.Len(), tr.Keys())
	}
	if _, err := tr.RemoveKey(pair{k: 3}); err != ErrNotFound {
		t.Fatalf("second remove: got %v", err)
	}
	verify(t, tr)
}

// TestRandomRemoval removes every value in random order, checking the tree
// after every step.
func TestRandomRemoval(t *testing.T) {
	const n = 300
	tr := New[pair](lessPair)
	values := make([]pair, 0, n)
	for i, k := range perm(n) {
		p := pair{k % (n / 3), i}
		values = append(values, p)
		tr.Insert(p)
	}
	verify(t, tr)

	rand.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	for _, p := range values {
		bucket, ok := tr.Search(p)
		if !ok {
			t.Fatalf("lost key %d", p.k)
		}
		index := -1
		for i, q := range bucket {
			if q == p {
				index = i
			}
		}
		if _, err := tr.Remove(p, index); err != nil {
			t.Fatalf("remove %v: %v", p, err)
		}
		verify(t, tr)
	}
	if tr.Len() != 0 || tr.Keys() != 0 || !tr.root.empty() {
		t.Fatalf("tree not empty: len %d keys %d", tr.Len(), tr.Keys())
	}
}

// TestRoundTrip inserts random values and compares the in-order export with
// a reference sort.
func TestRoundTrip(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, *treeSize)
	for i := 0; i < 20; i++ {
		var values []int16
		f.Fuzz(&values)

		tr := New(Ordered[int16]())
		for _, v := range values {
			tr.Insert(v)
		}
		verify(t, tr)

		want := append([]int16(nil), values...)
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		if diff := cmp.Diff(want, tr.ExportInOrder()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

// TestMixedOperations interleaves insertions and removals.
func TestMixedOperations(t *testing.T) {
	tr := New(Ordered[int]())
	ref := map[int]int{}
	for i := 0; i < 5000; i++ {
		v := rand.Intn(200)
		if rand.Intn(3) == 0 {
			_, err := tr.Remove(v, 0)
			if (err == nil) != (0 < ref[v]) {
				t.Fatalf("remove %d: err %v with %d copies", v, err, ref[v])
			}
			if err == nil {
				ref[v]--
			}
		} else {
			if dup := tr.Insert(v); dup != (0 < ref[v]) {
				t.Fatalf("insert %d: duplicate %v with %d copies", v, dup, ref[v])
			}
			ref[v]++
		}
		if i%97 == 0 {
			verify(t, tr)
		}
	}
	verify(t, tr)
	for v, c := range ref {
		got, _ := tr.Search(v)
		if len(got) != c {
			t.Fatalf("key %d: got %d copies want %d", v, len(got), c)
		}
	}
}

func TestRotations(t *testing.T) {
	for name, order := range map[string][]int{
		"right-right": {1, 2, 3},
		"left-left":   {3, 2, 1},
		"left-right":  {3, 1, 2},
		"right-left":  {1, 3, 2},
	} {
		t.Run(name, func(t *testing.T) {
			tr := New(Ordered[int]())
			for _, v := range order {
				tr.Insert(v)
			}
			verify(t, tr)
			if tr.Height() != 2 || tr.root.key() != 2 {
				t.Fatalf("expected root 2 at height 2, got\n%s", tr)
			}
		})
	}
}

func TestExportPreOrder(t *testing.T) {
	tr := New(Ordered[int]())
	for _, v := range []int{2, 1, 3, 3} {
		tr.Insert(v)
	}
	if diff := cmp.Diff([]int{2, 1, 3, 3}, tr.ExportPreOrder()); diff != "" {
		t.Fatalf("pre-order mismatch (-want +got):\n%s", diff)
	}
	want := "NODE:[2] h=2\n  NODE:[1] h=1\n  NODE:[3 3] h=1\n"
	if got := tr.String(); got != want {
		t.Fatalf("print:\n got: %q\nwant: %q", got, want)
	}
}

func TestClear(t *testing.T) {
	f := NewFreeList[int](DefaultFreeListSize)
	tr := NewWithFreeList(Ordered[int](), f)
	for _, v := range perm(100) {
		tr.Insert(v)
	}
	tr.Clear(true)
	if tr.Len() != 0 || tr.Keys() != 0 || 0 < len(all(tr)) {
		t.Fatal("clear left values behind")
	}
	if len(f.freelist) != DefaultFreeListSize-1 {
		t.Fatalf("freelist: got %d nodes", len(f.freelist))
	}
	for _, v := range perm(10) {
		tr.Insert(v)
	}
	verify(t, tr)
}

func TestStop(t *testing.T) {
	tr := New(Ordered[int]())
	for _, v := range perm(20) {
		tr.Insert(v)
	}
	var got []int
	tr.Ascend(func(v int) bool {
		got = append(got, v)
		return v < 4
	})
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		t.Fatalf("ascend did not stop (-want +got):\n%s", diff)
	}
	got = got[:0]
	tr.Descend(func(v int) bool {
		got = append(got, v)
		return 17 < v
	})
	if diff := cmp.Diff([]int{19, 18, 17}, got); diff != "" {
		t.Fatalf("descend did not stop (-want +got):\n%s", diff)
	}
}

func TestReverse(t *testing.T) {
	tr := New(Reverse(Ordered[string]()))
	for _, s := range strings.Fields("delta alpha charlie bravo") {
		tr.Insert(s)
	}
	if diff := cmp.Diff(strings.Fields("delta charlie bravo alpha"), tr.ExportInOrder()); diff != "" {
		t.Fatalf("reverse order mismatch (-want +got):\n%s", diff)
	}
}

func ExampleTree() {
	tr := New(Ordered[int]())
	for _, v := range []int{5, 3, 8, 3, 1} {
		tr.Insert(v)
	}
	fmt.Println("len:   ", tr.Len())
	fmt.Println("keys:  ", tr.Keys())
	bucket, _ := tr.Search(3)
	fmt.Println("search:", bucket)
	fmt.Println("all:   ", tr.ExportInOrder())
	tr.Print(os.Stdout)
	// Output:
	// len:    5
	// keys:   4
	// search: [3 3]
	// all:    [1 3 3 5 8]
	// NODE:[5] h=3
	//   NODE:[3 3] h=2
	//     NODE:[1] h=1
	//   NODE:[8] h=1
}

func BenchmarkInsert(b *testing.B) {
	b.StopTimer()
	insertP := perm(*treeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		tr := New(Ordered[int]())
		for _, v := range insertP {
			tr.Insert(v)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkRemove(b *testing.B) {
	b.StopTimer()
	insertP := perm(*treeSize)
	removeP := perm(*treeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		tr := New(Ordered[int]())
		for _, v := range insertP {
			tr.Insert(v)
		}
		b.StartTimer()
		for _, v := range removeP {
			tr.Remove(v, 0)
			i++
			if i >= b.N {
				return
			}
		}
		if tr.Len() > 0 {
			panic(tr.Len())
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	b.StopTimer()
	insertP := perm(*treeSize)
	searchP := perm(*treeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		tr := New(Ordered[int]())
		for _, v := range insertP {
			tr.Insert(v)
		}
		b.StartTimer()
		for _, v := range searchP {
			tr.Search(v)
			i++
			if i >= b.N {
				return
			}
		}
	}
}
