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

package table

import (
	"bytes"
	"cmp"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// kindRank orders values of different kinds: null < bool < number < string
// < list < struct.
func kindRank(v *structpb.Value) int {
	switch v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return 1
	case *structpb.Value_NumberValue:
		return 2
	case *structpb.Value_StringValue:
		return 3
	case *structpb.Value_ListValue:
		return 4
	case *structpb.Value_StructValue:
		return 5
	default:
		return 0
	}
}

// Compare returns a negative number, zero, or a positive number as a sorts
// before, together with, or after b.  Values of different kinds are ordered
// by kind; lists and structs compare by their deterministic wire encoding.
// A nil value compares as null.
func Compare(a, b *structpb.Value) int {
	if c := cmp.Compare(kindRank(a), kindRank(b)); c != 0 {
		return c
	}
	switch a.GetKind().(type) {
	case *structpb.Value_BoolValue:
		x, y := a.GetBoolValue(), b.GetBoolValue()
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case *structpb.Value_NumberValue:
		return cmp.Compare(a.GetNumberValue(), b.GetNumberValue())
	case *structpb.Value_StringValue:
		return strings.Compare(a.GetStringValue(), b.GetStringValue())
	case *structpb.Value_ListValue, *structpb.Value_StructValue:
		return bytes.Compare(encode(a), encode(b))
	default:
		return 0
	}
}

// encode marshals v deterministically so that equal values encode equally.
func encode(v *structpb.Value) []byte {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// field returns the value of column in row, or null when it is absent.
func field(row *structpb.Struct, column string) *structpb.Value {
	if v, ok := row.GetFields()[column]; ok {
		return v
	}
	return structpb.NewNullValue()
}
