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
)

// StaticQueue is a ring buffer with a capacity fixed at construction.
// Storage is zero-initialized up front and slots are zeroed again on pop.
type StaticQueue[T any] struct {
	data []T
	head int
	tail int
	size int
}

func NewStaticQueue[T any](capacity int) *StaticQueue[T] {
	if capacity <= 0 {
		panic("Queue length must not be 0")
	}

	return &StaticQueue[T]{data: make([]T, capacity)}
}

func (q *StaticQueue[T]) String() string {
	return fmt.Sprintf(
		"StaticQueue{capacity: %d, size: %d, elements: %v}",
		q.Capacity(),
		q.size,
		q.Values(),
	)
}

func (q *StaticQueue[T]) index(offset int) int {
	return (q.head + offset) % len(q.data)
}

func (q *StaticQueue[T]) Back() (T, bool) {
	if q.Empty() {
		var zero T
		return zero, false
	}

	return q.data[(q.tail+len(q.data)-1)%len(q.data)], true
}

func (q *StaticQueue[T]) Peek() (T, bool) {
	if q.Empty() {
		var zero T
		return zero, false
	}

	return q.data[q.head], true
}

func (q *StaticQueue[T]) Get(idx int) (T, bool) {
	if idx < 0 || idx >= q.size {
		var zero T
		return zero, false
	}

	return q.data[q.index(idx)], true
}

func (q *StaticQueue[T]) Set(idx int, value T) bool {
	if idx < 0 || idx >= q.size {
		return false
	}

	q.data[q.index(idx)] = value
	return true
}

func (q *StaticQueue[T]) Push(value T) error {
	if q.Full() {
		return ErrFull
	}

	q.data[q.tail] = value
	q.tail = (q.tail + 1) % len(q.data)
	q.size++

	return nil
}

func (q *StaticQueue[T]) TryPush(value T) bool {
	return q.Push(value) == nil
}

// Extend pushes every value or none of them.
func (q *StaticQueue[T]) Extend(values []T) error {
	if len(values) > q.Remaining() {
		return ErrFull
	}

	for _, value := range values {
		q.Push(value)
	}

	return nil
}

// TryExtend pushes values until the first failure and reports how many
// were accepted. Accepted values are not rolled back.
func (q *StaticQueue[T]) TryExtend(values []T) (int, error) {
	for i, value := range values {
		if err := q.Push(value); err != nil {
			return i, err
		}
	}

	return len(values), nil
}

func (q *StaticQueue[T]) Pop() (T, bool) {
	var zero T

	if q.Empty() {
		return zero, false
	}

	value := q.data[q.head]
	q.data[q.head] = zero
	q.head = (q.head + 1) % len(q.data)
	q.size--

	return value, true
}

func (q *StaticQueue[T]) Drain() []T {
	return q.DrainPart(q.size)
}

func (q *StaticQueue[T]) DrainPart(num int) []T {
	if num > q.size {
		num = q.size
	}

	if num < 0 {
		num = 0
	}

	result := make([]T, 0, num)

	for i := 0; i < num; i++ {
		value, _ := q.Pop()
		result = append(result, value)
	}

	return result
}

func (q *StaticQueue[T]) Clear() {
	for !q.Empty() {
		q.Pop()
	}

	q.head = 0
	q.tail = 0
}

func (q *StaticQueue[T]) Capacity() int {
	return len(q.data)
}

func (q *StaticQueue[T]) Remaining() int {
	return q.Capacity() - q.size
}

func (q *StaticQueue[T]) Size() int {
	return q.size
}

func (q *StaticQueue[T]) Full() bool {
	return q.size == q.Capacity()
}

func (q *StaticQueue[T]) Empty() bool {
	return q.size == 0
}

func (q *StaticQueue[T]) Values() []T {
	result := make([]T, q.size)

	for i := range result {
		result[i] = q.data[q.index(i)]
	}

	return result
}
