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
	"errors"
)

var (
	ErrFull  = errors.New("queue ran out of space")
	ErrAlloc = errors.New("queue allocation failure")
)

// Queue is a FIFO of T. Implementations keep 0 <= Size() <= Capacity().
type Queue[T any] interface {
	Back() (T, bool)
	Peek() (T, bool)
	Get(idx int) (T, bool)
	Set(idx int, value T) bool

	Push(value T) error
	TryPush(value T) bool
	Extend(values []T) error
	TryExtend(values []T) (int, error)
	Pop() (T, bool)
	Drain() []T
	DrainPart(num int) []T
	Clear()

	Capacity() int
	Remaining() int
	Size() int

	Full() bool
	Empty() bool

	Values() []T
}
