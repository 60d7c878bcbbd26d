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

// Package table provides an in-memory table of rows keyed by a single
// column.  Rows are kept in insertion order in a linked list, indexed by key
// in a balanced search tree, and owned through copy-on-write handles so that
// snapshots handed out to callers never observe later updates.
package table

import (
	"errors"
	"fmt"

	"github.com/9rum/shelf/internal/bst"
	"github.com/9rum/shelf/internal/dlist"
	"github.com/9rum/shelf/internal/shared"
	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	// ErrNotFound is returned when no row has the given key.
	ErrNotFound = errors.New("row not found")

	// ErrDuplicateKey is returned when a row with the same key exists.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrMissingKey is returned when a row lacks the key column.
	ErrMissingKey = errors.New("missing key column")

	// ErrKeyChange is returned when an update would change the key of a row.
	ErrKeyChange = errors.New("key column cannot be updated")
)

// Row is a copy-on-write handle to the fields of a row.
type Row = shared.CopyOnWritePointer[structpb.Struct]

// cloneStruct deep-copies a row.
func cloneStruct(s *structpb.Struct) *structpb.Struct {
	return proto.Clone(s).(*structpb.Struct)
}

// entry is a single row in the key index.  pos denotes the node of the row
// in the insertion-ordered list.
type entry struct {
	key *structpb.Value
	row *Row
	pos *dlist.Iterator[*Row]
}

func lessEntry(a, b *entry) bool {
	return Compare(a.key, b.key) < 0
}

// Table is a set of rows with unique keys.
//
// Table is not safe for concurrent use.
type Table struct {
	name  string
	key   string
	rows  *dlist.List[*Row]
	index *bst.Tree[*entry]
}

// New creates a new empty table whose rows are keyed by the given column.
func New(name, key string) *Table {
	return &Table{
		name:  name,
		key:   key,
		rows:  dlist.New[*Row](),
		index: bst.New(lessEntry),
	}
}

// Name returns the name of the table.
func (t *Table) Name() string {
	return t.name
}

// Key returns the name of the key column.
func (t *Table) Key() string {
	return t.key
}

// Len returns the number of rows currently in the table.
func (t *Table) Len() int {
	return t.rows.Len()
}

// lookup finds the index entry for key.
func (t *Table) lookup(key *structpb.Value) (*entry, error) {
	bucket, ok := t.index.Search(&entry{key: key})
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, key.AsInterface())
	}
	return bucket[0], nil
}

// Insert adds a copy of fields as a new row.
func (t *Table) Insert(fields *structpb.Struct) error {
	key, ok := fields.GetFields()[t.key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingKey, t.key)
	}

	row := shared.NewCopyOnWritePointer(cloneStruct(fields), cloneStruct)
	e := &entry{key: proto.Clone(key).(*structpb.Value), row: row}
	if err := t.index.InsertUnique(e); err != nil {
		if errors.Is(err, bst.ErrDuplicate) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, key.AsInterface())
		}
		return err
	}

	e.pos = t.rows.End()
	if _, err := t.rows.Insert(row, e.pos); err != nil {
		panic(err)
	}

	glog.V(2).Infof("table %s: inserted row %v", t.name, key.AsInterface())
	return nil
}

// InsertAll inserts each of rows, continuing past rows that fail.  The
// returned error aggregates every failure.
func (t *Table) InsertAll(rows []*structpb.Struct) error {
	var result *multierror.Error
	for i, fields := range rows {
		if err := t.Insert(fields); err != nil {
			result = multierror.Append(result, fmt.Errorf("row %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}

// Lookup returns a copy of the row with the given key.
func (t *Table) Lookup(key *structpb.Value) (*structpb.Struct, error) {
	e, err := t.lookup(key)
	if err != nil {
		return nil, err
	}
	p, err := e.row.ConstData()
	if err != nil {
		return nil, err
	}
	return cloneStruct(p), nil
}

// Snapshot returns a handle sharing the current contents of the row with the
// given key.  Later updates to the table are not visible through it.
func (t *Table) Snapshot(key *structpb.Value) (*Row, error) {
	e, err := t.lookup(key)
	if err != nil {
		return nil, err
	}
	return e.row.Copy(), nil
}

// Update sets the given fields of the row with the given key.  The key column
// may be present in fields only with its current value.
func (t *Table) Update(key *structpb.Value, fields *structpb.Struct) error {
	e, err := t.lookup(key)
	if err != nil {
		return err
	}
	if v, ok := fields.GetFields()[t.key]; ok && Compare(v, e.key) != 0 {
		return fmt.Errorf("%w: %q", ErrKeyChange, t.key)
	}

	p, err := e.row.Data()
	if err != nil {
		return err
	}
	if p.Fields == nil {
		p.Fields = make(map[string]*structpb.Value, len(fields.GetFields()))
	}
	for name, v := range fields.GetFields() {
		p.Fields[name] = proto.Clone(v).(*structpb.Value)
	}

	glog.V(2).Infof("table %s: updated row %v", t.name, key.AsInterface())
	return nil
}

// Delete removes the row with the given key.
func (t *Table) Delete(key *structpb.Value) error {
	bucket, err := t.index.RemoveKey(&entry{key: key})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, key.AsInterface())
	}
	for _, e := range bucket {
		if _, err := t.rows.Remove(e.pos); err != nil {
			panic(err)
		}
		e.row.Release()
	}

	glog.V(2).Infof("table %s: deleted row %v", t.name, key.AsInterface())
	return nil
}

// copies returns a copy of each of the given rows.
func copies(rows []*Row) []*structpb.Struct {
	out := make([]*structpb.Struct, 0, len(rows))
	for _, row := range rows {
		p, err := row.ConstData()
		if err != nil {
			panic(err)
		}
		out = append(out, cloneStruct(p))
	}
	return out
}

// Scan returns a copy of every row in the current row order: insertion order
// unless the table has been sorted.
func (t *Table) Scan() []*structpb.Struct {
	return copies(t.rows.Values())
}

// Ordered returns a copy of every row in ascending key order.
func (t *Table) Ordered() []*structpb.Struct {
	entries := t.index.ExportInOrder()
	rows := make([]*Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.row)
	}
	return copies(rows)
}

// SortBy reorders the rows by the given column.  Rows lacking the column
// sort as null.  The sort is stable.
func (t *Table) SortBy(column string, ascending bool) {
	t.rows.Sort(ascending, func(a, b *Row) int {
		x, _ := a.ConstData()
		y, _ := b.ConstData()
		return Compare(field(x, column), field(y, column))
	})
	glog.V(2).Infof("table %s: sorted by %s ascending=%v", t.name, column, ascending)
}
