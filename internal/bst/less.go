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

import "golang.org/x/exp/constraints"

// LessFunc determines how to order a type 'T'.
//
// This must provide a strict weak ordering; if !less(a, b) && !less(b, a),
// we treat this to mean a == b, and both values are kept in the bucket of a
// single node.
type LessFunc[T any] func(a, b T) bool

// Ordered returns a LessFunc for the natural order of any ordered type.
func Ordered[T constraints.Ordered]() LessFunc[T] {
	return func(a, b T) bool {
		return a < b
	}
}

// Reverse returns a LessFunc that orders values in the opposite direction of
// less.
func Reverse[T any](less LessFunc[T]) LessFunc[T] {
	return func(a, b T) bool {
		return less(b, a)
	}
}

