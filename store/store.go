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

// Package store implements the Store service, which keeps named in-memory
// tables and serves row insertion, lookup, update, deletion, scans and
// sorting over gRPC.
package store

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/9rum/shelf/internal/table"
	"github.com/armon/go-metrics"
	"github.com/golang/glog"
	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// storeServer implements the server API for Store service.
type storeServer struct {
	UnimplementedStoreServer
	mu     sync.RWMutex
	tables map[string]*table.Table
	done   chan<- os.Signal
	once   sync.Once
}

// NewStoreServer creates a new store server.  done is closed once Finalize
// is called.
func NewStoreServer(done chan<- os.Signal) StoreServer {
	return &storeServer{
		tables: make(map[string]*table.Table),
		done:   done,
	}
}

// measure counts a call to method and records its latency.
func measure(method string, start time.Time) {
	metrics.IncrCounter([]string{"store", method}, 1)
	metrics.MeasureSince([]string{"store", method, "latency"}, start)
}

// toStatus converts table errors into gRPC status errors.
func toStatus(err error) error {
	switch {
	case errors.Is(err, table.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, table.ErrDuplicateKey):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, table.ErrMissingKey), errors.Is(err, table.ErrKeyChange):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// stringArg returns the string argument name of the request.
func stringArg(in *structpb.Struct, name string) (string, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "missing argument %q", name)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", status.Errorf(codes.InvalidArgument, "argument %q must be a non-empty string", name)
	}
	return s.StringValue, nil
}

// valueArg returns the argument name of the request.
func valueArg(in *structpb.Struct, name string) (*structpb.Value, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "missing argument %q", name)
	}
	return v, nil
}

// table returns the table named in the request.  The caller must hold mu.
func (s *storeServer) table(in *structpb.Struct) (*table.Table, error) {
	name, err := stringArg(in, "table")
	if err != nil {
		return nil, err
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "table %q not found", name)
	}
	return t, nil
}

// toList converts rows into a list value.
func toList(rows []*structpb.Struct) *structpb.ListValue {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(rows))}
	for _, row := range rows {
		out.Values = append(out.Values, structpb.NewStructValue(row))
	}
	return out
}

// Create creates a new table.
func (s *storeServer) Create(ctx context.Context, in *structpb.Struct) (*empty.Empty, error) {
	defer measure("create", time.Now())

	name, err := stringArg(in, "table")
	if err != nil {
		return nil, err
	}
	key, err := stringArg(in, "key")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[name]; ok {
		return nil, status.Errorf(codes.AlreadyExists, "table %q already exists", name)
	}
	s.tables[name] = table.New(name, key)

	glog.Infof("Create called with table: %s key: %s", name, key)
	return new(empty.Empty), nil
}

// Drop removes a table and all of its rows.
func (s *storeServer) Drop(ctx context.Context, in *structpb.Struct) (*empty.Empty, error) {
	defer measure("drop", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}
	delete(s.tables, t.Name())

	glog.Infof("Drop called with table: %s", t.Name())
	return new(empty.Empty), nil
}

// Insert inserts the given rows.  Rows that fail are reported together and
// do not prevent the others from being inserted.
func (s *storeServer) Insert(ctx context.Context, in *structpb.Struct) (*empty.Empty, error) {
	defer measure("insert", time.Now())

	list, ok := in.GetFields()["rows"].GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "argument \"rows\" must be a list")
	}
	batch := make([]*structpb.Struct, 0, len(list.ListValue.GetValues()))
	for _, v := range list.ListValue.GetValues() {
		row, ok := v.GetKind().(*structpb.Value_StructValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "rows must be structs")
		}
		batch = append(batch, row.StructValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("Insert called with table: %s rows: %d", t.Name(), len(batch))

	if err := t.InsertAll(batch); err != nil {
		return nil, toStatus(err)
	}
	return new(empty.Empty), nil
}

// Lookup returns the row with the given key.
func (s *storeServer) Lookup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	defer measure("lookup", time.Now())

	key, err := valueArg(in, "key")
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}
	row, err := t.Lookup(key)
	if err != nil {
		return nil, toStatus(err)
	}
	return row, nil
}

// Update sets the given fields of the row with the given key.
func (s *storeServer) Update(ctx context.Context, in *structpb.Struct) (*empty.Empty, error) {
	defer measure("update", time.Now())

	key, err := valueArg(in, "key")
	if err != nil {
		return nil, err
	}
	fields, ok := in.GetFields()["fields"].GetKind().(*structpb.Value_StructValue)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "argument \"fields\" must be a struct")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("Update called with table: %s key: %v", t.Name(), key.AsInterface())

	if err := t.Update(key, fields.StructValue); err != nil {
		return nil, toStatus(err)
	}
	return new(empty.Empty), nil
}

// Delete removes the row with the given key.
func (s *storeServer) Delete(ctx context.Context, in *structpb.Struct) (*empty.Empty, error) {
	defer measure("delete", time.Now())

	key, err := valueArg(in, "key")
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("Delete called with table: %s key: %v", t.Name(), key.AsInterface())

	if err := t.Delete(key); err != nil {
		return nil, toStatus(err)
	}
	return new(empty.Empty), nil
}

// Scan returns every row of the table, either in the current row order or
// in ascending key order.
func (s *storeServer) Scan(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	defer measure("scan", time.Now())

	order := "insertion"
	if _, ok := in.GetFields()["order"]; ok {
		var err error
		if order, err = stringArg(in, "order"); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}

	switch order {
	case "insertion":
		return toList(t.Scan()), nil
	case "key":
		return toList(t.Ordered()), nil
	default:
		return nil, status.Errorf(codes.InvalidArgument, "unknown order %q", order)
	}
}

// Sort reorders the rows of the table by the given column and returns them.
func (s *storeServer) Sort(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	defer measure("sort", time.Now())

	column, err := stringArg(in, "column")
	if err != nil {
		return nil, err
	}
	ascending := true
	if v, ok := in.GetFields()["ascending"]; ok {
		b, ok := v.GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "argument \"ascending\" must be a bool")
		}
		ascending = b.BoolValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(in)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("Sort called with table: %s column: %s ascending: %v", t.Name(), column, ascending)

	t.SortBy(column, ascending)
	return toList(t.Scan()), nil
}

// Finalize drops every table and terminates the server.
func (s *storeServer) Finalize(ctx context.Context, in *empty.Empty) (*empty.Empty, error) {
	defer measure("finalize", time.Now())

	glog.Info("Finalize called")
	defer glog.Flush()

	s.mu.Lock()
	s.tables = make(map[string]*table.Table)
	s.mu.Unlock()

	s.once.Do(func() {
		signal.Stop(s.done)
		close(s.done)
	})
	return new(empty.Empty), nil
}
