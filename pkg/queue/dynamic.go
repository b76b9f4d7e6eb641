// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package queue

import (
	"fmt"
	"math"
)

// DynamicQueue is the growable counterpart of StaticQueue. Storage grows on
// demand and is released back to the minimum reservation as the queue
// drains. A non-zero limit bounds the number of queued elements; pushing
// past it fails with ErrAlloc.
type DynamicQueue[T any] struct {
	data    []T
	minSize int
	limit   int
}

func NewDynamicQueue[T any](minSize, limit int) *DynamicQueue[T] {
	if minSize <= 0 {
		panic("Queue length must not be 0")
	}

	if limit != 0 && limit < minSize {
		panic("Queue limit must not be below its minimum size")
	}

	return &DynamicQueue[T]{
		data:    make([]T, 0, minSize),
		minSize: minSize,
		limit:   limit,
	}
}

func (q *DynamicQueue[T]) String() string {
	return fmt.Sprintf(
		"DynamicQueue{reserved: %d, size: %d, elements: %v}",
		cap(q.data),
		len(q.data),
		q.data,
	)
}

func (q *DynamicQueue[T]) adjustSize() {
	if cap(q.data) <= q.minSize {
		return
	}

	if len(q.data) == 0 {
		q.data = make([]T, 0, q.minSize)
	} else if len(q.data) < cap(q.data)/4 {
		shrunk := make([]T, len(q.data), max(q.minSize, len(q.data)*2))
		copy(shrunk, q.data)
		q.data = shrunk
	}
}

func (q *DynamicQueue[T]) Back() (T, bool) {
	if q.Empty() {
		var zero T
		return zero, false
	}

	return q.data[len(q.data)-1], true
}

func (q *DynamicQueue[T]) Peek() (T, bool) {
	if q.Empty() {
		var zero T
		return zero, false
	}

	return q.data[0], true
}

func (q *DynamicQueue[T]) Get(idx int) (T, bool) {
	if idx < 0 || idx >= len(q.data) {
		var zero T
		return zero, false
	}

	return q.data[idx], true
}

func (q *DynamicQueue[T]) Set(idx int, value T) bool {
	if idx < 0 || idx >= len(q.data) {
		return false
	}

	q.data[idx] = value
	return true
}

func (q *DynamicQueue[T]) Push(value T) error {
	if q.limit != 0 && len(q.data) >= q.limit {
		return ErrAlloc
	}

	q.data = append(q.data, value)
	return nil
}

func (q *DynamicQueue[T]) TryPush(value T) bool {
	return q.Push(value) == nil
}

// Extend pushes every value or none of them.
func (q *DynamicQueue[T]) Extend(values []T) error {
	if len(values) > q.Remaining() {
		return ErrAlloc
	}

	q.data = append(q.data, values...)
	return nil
}

func (q *DynamicQueue[T]) TryExtend(values []T) (int, error) {
	for i, value := range values {
		if err := q.Push(value); err != nil {
			return i, err
		}
	}

	return len(values), nil
}

func (q *DynamicQueue[T]) Pop() (T, bool) {
	var zero T

	if q.Empty() {
		return zero, false
	}

	value := q.data[0]
	q.data[0] = zero
	q.data = q.data[1:]
	q.adjustSize()

	return value, true
}

func (q *DynamicQueue[T]) Drain() []T {
	return q.DrainPart(len(q.data))
}

func (q *DynamicQueue[T]) DrainPart(num int) []T {
	num = min(max(num, 0), len(q.data))

	result := make([]T, num)
	copy(result, q.data[:num])

	var zero T
	for i := 0; i < num; i++ {
		q.data[i] = zero
	}

	q.data = q.data[num:]
	q.adjustSize()

	return result
}

func (q *DynamicQueue[T]) Clear() {
	q.data = make([]T, 0, q.minSize)
}

// Capacity is the element limit, or math.MaxInt for an unbounded queue.
func (q *DynamicQueue[T]) Capacity() int {
	if q.limit == 0 {
		return math.MaxInt
	}

	return q.limit
}

func (q *DynamicQueue[T]) Remaining() int {
	return q.Capacity() - len(q.data)
}

func (q *DynamicQueue[T]) Size() int {
	return len(q.data)
}

func (q *DynamicQueue[T]) Full() bool {
	return len(q.data) == q.Capacity()
}

func (q *DynamicQueue[T]) Empty() bool {
	return len(q.data) == 0
}

func (q *DynamicQueue[T]) Values() []T {
	result := make([]T, len(q.data))
	copy(result, q.data)
	return result
}
