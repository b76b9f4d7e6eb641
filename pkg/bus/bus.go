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

package bus

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Bus is the 8088 memory bus: a flat 1 MiB store and the 20-bit address
// latch last driven onto it.
type Bus struct {
	memory [MEMORY_SIZE]byte
	latch  uint32
}

func New() *Bus {
	return &Bus{}
}

func (b *Bus) Reset() {
	for i := range b.memory {
		b.memory[i] = 0x00
	}

	b.latch = 0
}

// PhysicalAddress computes segment*16 + offset wrapped to 20 bits.
func PhysicalAddress(segment, offset uint16) uint32 {
	return ((uint32(segment) << 4) + uint32(offset)) & ADDRESS_MASK
}

// Latch computes the physical address for segment:offset and drives it onto
// the bus.
func (b *Bus) Latch(segment, offset uint16) uint32 {
	b.latch = PhysicalAddress(segment, offset)
	return b.latch
}

func (b *Bus) LatchedAddress() uint32 {
	return b.latch
}

func checkBounds(addr uint32, count int) error {
	if uint64(addr)+uint64(count) > uint64(MEMORY_SIZE) {
		return fmt.Errorf("%w: %#06x+%d", ErrOutOfBounds, addr, count)
	}

	return nil
}

func (b *Bus) Read8(addr uint32) (uint8, error) {
	if err := checkBounds(addr, 1); err != nil {
		return 0, err
	}

	return b.memory[addr], nil
}

func (b *Bus) Write8(addr uint32, value uint8) error {
	if err := checkBounds(addr, 1); err != nil {
		return err
	}

	b.memory[addr] = value
	return nil
}

// Read16 reads a little-endian word. Both bytes must lie inside memory.
func (b *Bus) Read16(addr uint32) (uint16, error) {
	if err := checkBounds(addr, 2); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b.memory[addr:]), nil
}

func (b *Bus) Write16(addr uint32, value uint16) error {
	if err := checkBounds(addr, 2); err != nil {
		return err
	}

	binary.LittleEndian.PutUint16(b.memory[addr:], value)
	return nil
}

func (b *Bus) ReadBlock(addr uint32, count int) ([]byte, error) {
	if err := checkBounds(addr, count); err != nil {
		return nil, err
	}

	result := make([]byte, count)
	copy(result, b.memory[addr:])

	return result, nil
}

func (b *Bus) WriteBlock(addr uint32, data []byte) error {
	if err := checkBounds(addr, len(data)); err != nil {
		return err
	}

	copy(b.memory[addr:], data)
	return nil
}

// Fetch8 peeks at a byte for the prefetch path. The address wraps at 20 bits
// and the latch is left alone.
func (b *Bus) Fetch8(addr uint32) uint8 {
	return b.memory[addr&ADDRESS_MASK]
}

func (b *Bus) Fetch16(addr uint32) uint16 {
	lo := b.memory[addr&ADDRESS_MASK]
	hi := b.memory[(addr+1)&ADDRESS_MASK]
	return uint16(lo) | uint16(hi)<<8
}

// Load copies a raw binary image into memory starting at addr.
func (b *Bus) Load(reader io.Reader, addr uint32) (int, error) {
	if err := checkBounds(addr, 0); err != nil {
		return 0, err
	}

	data, err := io.ReadAll(io.LimitReader(reader, int64(MEMORY_SIZE-addr)+1))

	if err != nil {
		return 0, err
	}

	if err := b.WriteBlock(addr, data); err != nil {
		return 0, err
	}

	return len(data), nil
}
