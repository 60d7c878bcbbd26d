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

package store

import (
	"context"

	"github.com/golang/protobuf/ptypes/empty"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// The Store service exchanges well-known protobuf types only, so it needs no
// generated message code.  Every request is a Struct whose fields name the
// arguments of the call.
const (
	Store_Create_FullMethodName   = "/shelf.Store/Create"
	Store_Drop_FullMethodName     = "/shelf.Store/Drop"
	Store_Insert_FullMethodName   = "/shelf.Store/Insert"
	Store_Lookup_FullMethodName   = "/shelf.Store/Lookup"
	Store_Update_FullMethodName   = "/shelf.Store/Update"
	Store_Delete_FullMethodName   = "/shelf.Store/Delete"
	Store_Scan_FullMethodName     = "/shelf.Store/Scan"
	Store_Sort_FullMethodName     = "/shelf.Store/Sort"
	Store_Finalize_FullMethodName = "/shelf.Store/Finalize"
)

// StoreClient is the client API for Store service.
type StoreClient interface {
	// Create creates a table: {table: string, key: string}.
	Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error)
	// Drop removes a table: {table: string}.
	Drop(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error)
	// Insert adds rows: {table: string, rows: [struct]}.
	Insert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error)
	// Lookup returns the row with the given key: {table: string, key: value}.
	Lookup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	// Update sets fields of a row: {table: string, key: value, fields: struct}.
	Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error)
	// Delete removes a row: {table: string, key: value}.
	Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error)
	// Scan returns every row: {table: string, order: "insertion" | "key"}.
	Scan(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// Sort reorders the rows and returns them: {table: string, column: string, ascending: bool}.
	Sort(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error)
	// Finalize drops every table and shuts the server down.
	Finalize(ctx context.Context, in *empty.Empty, opts ...grpc.CallOption) (*empty.Empty, error)
}

type storeClient struct {
	cc grpc.ClientConnInterface
}

// NewStoreClient creates a new client for Store service.
func NewStoreClient(cc grpc.ClientConnInterface) StoreClient {
	return &storeClient{cc}
}

// invoke calls method and decodes the response into a new Resp.
func invoke[Resp any, PResp interface {
	*Resp
	proto.Message
}](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, opts ...grpc.CallOption) (*Resp, error) {
	out := PResp(new(Resp))
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storeClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error) {
	return invoke[empty.Empty](ctx, c.cc, Store_Create_FullMethodName, in, opts...)
}

func (c *storeClient) Drop(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error) {
	return invoke[empty.Empty](ctx, c.cc, Store_Drop_FullMethodName, in, opts...)
}

func (c *storeClient) Insert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error) {
	return invoke[empty.Empty](ctx, c.cc, Store_Insert_FullMethodName, in, opts...)
}

func (c *storeClient) Lookup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, Store_Lookup_FullMethodName, in, opts...)
}

func (c *storeClient) Update(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error) {
	return invoke[empty.Empty](ctx, c.cc, Store_Update_FullMethodName, in, opts...)
}

func (c *storeClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*empty.Empty, error) {
	return invoke[empty.Empty](ctx, c.cc, Store_Delete_FullMethodName, in, opts...)
}

func (c *storeClient) Scan(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, Store_Scan_FullMethodName, in, opts...)
}

func (c *storeClient) Sort(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, Store_Sort_FullMethodName, in, opts...)
}

func (c *storeClient) Finalize(ctx context.Context, in *empty.Empty, opts ...grpc.CallOption) (*empty.Empty, error) {
	return invoke[empty.Empty](ctx, c.cc, Store_Finalize_FullMethodName, in, opts...)
}

// StoreServer is the server API for Store service.
// All implementations must embed UnimplementedStoreServer
// for forward compatibility.
type StoreServer interface {
	Create(context.Context, *structpb.Struct) (*empty.Empty, error)
	Drop(context.Context, *structpb.Struct) (*empty.Empty, error)
	Insert(context.Context, *structpb.Struct) (*empty.Empty, error)
	Lookup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Update(context.Context, *structpb.Struct) (*empty.Empty, error)
	Delete(context.Context, *structpb.Struct) (*empty.Empty, error)
	Scan(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	Sort(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	Finalize(context.Context, *empty.Empty) (*empty.Empty, error)
	mustEmbedUnimplementedStoreServer()
}

// UnimplementedStoreServer must be embedded to have forward compatible implementations.
type UnimplementedStoreServer struct {
}

func (UnimplementedStoreServer) Create(context.Context, *structpb.Struct) (*empty.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Create not implemented")
}
func (UnimplementedStoreServer) Drop(context.Context, *structpb.Struct) (*empty.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Drop not implemented")
}
func (UnimplementedStoreServer) Insert(context.Context, *structpb.Struct) (*empty.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Insert not implemented")
}
func (UnimplementedStoreServer) Lookup(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Lookup not implemented")
}
func (UnimplementedStoreServer) Update(context.Context, *structpb.Struct) (*empty.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Update not implemented")
}
func (UnimplementedStoreServer) Delete(context.Context, *structpb.Struct) (*empty.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedStoreServer) Scan(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Scan not implemented")
}
func (UnimplementedStoreServer) Sort(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Sort not implemented")
}
func (UnimplementedStoreServer) Finalize(context.Context, *empty.Empty) (*empty.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Finalize not implemented")
}
func (UnimplementedStoreServer) mustEmbedUnimplementedStoreServer() {}

// RegisterStoreServer registers srv with s.
func RegisterStoreServer(s grpc.ServiceRegistrar, srv StoreServer) {
	s.RegisterService(&Store_ServiceDesc, srv)
}

// handler adapts a typed StoreServer method to a grpc method handler.
func handler[Req any, PReq interface {
	*Req
	proto.Message
}, Resp any](method string, call func(StoreServer, context.Context, PReq) (Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StoreServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Store_ServiceDesc is the grpc.ServiceDesc for Store service.
var Store_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "shelf.Store",
	HandlerType: (*StoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: handler[structpb.Struct](Store_Create_FullMethodName, StoreServer.Create)},
		{MethodName: "Drop", Handler: handler[structpb.Struct](Store_Drop_FullMethodName, StoreServer.Drop)},
		{MethodName: "Insert", Handler: handler[structpb.Struct](Store_Insert_FullMethodName, StoreServer.Insert)},
		{MethodName: "Lookup", Handler: handler[structpb.Struct](Store_Lookup_FullMethodName, StoreServer.Lookup)},
		{MethodName: "Update", Handler: handler[structpb.Struct](Store_Update_FullMethodName, StoreServer.Update)},
		{MethodName: "Delete", Handler: handler[structpb.Struct](Store_Delete_FullMethodName, StoreServer.Delete)},
		{MethodName: "Scan", Handler: handler[structpb.Struct](Store_Scan_FullMethodName, StoreServer.Scan)},
		{MethodName: "Sort", Handler: handler[structpb.Struct](Store_Sort_FullMethodName, StoreServer.Sort)},
		{MethodName: "Finalize", Handler: handler[empty.Empty](Store_Finalize_FullMethodName, StoreServer.Finalize)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "store.proto",
}
