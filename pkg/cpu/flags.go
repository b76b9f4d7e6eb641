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

package cpu

import (
	"math/bits"
)

func (cpu *I8088) flag(f uint16) bool {
	return cpu.Registers.Flags&f != 0
}

func (cpu *I8088) setFlag(f uint16, set bool) {
	if set {
		cpu.Registers.Flags |= f
	} else {
		cpu.Registers.Flags &^= f
	}
}

// SetFlags loads the flags register, keeping the reserved bits set.
func (cpu *I8088) SetFlags(value uint16) {
	cpu.Registers.Flags = value&FLAGS_MASK | FLAGS_RESERVED
}

// parity is true when the low byte has an even number of set bits.
func parity(value uint8) bool {
	return bits.OnesCount8(value)%2 == 0
}

func (cpu *I8088) setResult8(r uint8) {
	cpu.setFlag(FLAG_ZF, r == 0)
	cpu.setFlag(FLAG_SF, r&0x80 != 0)
	cpu.setFlag(FLAG_PF, parity(r))
}

func (cpu *I8088) setResult16(r uint16) {
	cpu.setFlag(FLAG_ZF, r == 0)
	cpu.setFlag(FLAG_SF, r&0x8000 != 0)
	cpu.setFlag(FLAG_PF, parity(uint8(r)))
}

func (cpu *I8088) setArith8(result uint16, a, b uint8, sub bool) {
	r := uint8(result)

	cpu.setResult8(r)
	cpu.setFlag(FLAG_CF, result&0xFF00 != 0)
	cpu.setFlag(FLAG_AF, (a^b^r)&0x10 != 0)

	if sub {
		cpu.setFlag(FLAG_OF, (a^b)&(a^r)&0x80 != 0)
	} else {
		cpu.setFlag(FLAG_OF, ^(a^b)&(a^r)&0x80 != 0)
	}
}

func (cpu *I8088) setArith16(result uint32, a, b uint16, sub bool) {
	r := uint16(result)

	cpu.setResult16(r)
	cpu.setFlag(FLAG_CF, result&0xFFFF0000 != 0)
	cpu.setFlag(FLAG_AF, (a^b^r)&0x10 != 0)

	if sub {
		cpu.setFlag(FLAG_OF, (a^b)&(a^r)&0x8000 != 0)
	} else {
		cpu.setFlag(FLAG_OF, ^(a^b)&(a^r)&0x8000 != 0)
	}
}

func (cpu *I8088) setLogic8(r uint8) {
	cpu.setResult8(r)
	cpu.setFlag(FLAG_CF, false)
	cpu.setFlag(FLAG_OF, false)
	cpu.setFlag(FLAG_AF, false)
}

func (cpu *I8088) setLogic16(r uint16) {
	cpu.setResult16(r)
	cpu.setFlag(FLAG_CF, false)
	cpu.setFlag(FLAG_OF, false)
	cpu.setFlag(FLAG_AF, false)
}

// condition evaluates the predicate encoded in the low nibble of a Jcc
// opcode.
func (cpu *I8088) condition(code uint8) bool {
	var result bool

	switch (code >> 1) & 0x7 {
	case 0:
		result = cpu.flag(FLAG_OF)
	case 1:
		result = cpu.flag(FLAG_CF)
	case 2:
		result = cpu.flag(FLAG_ZF)
	case 3:
		result = cpu.flag(FLAG_CF) || cpu.flag(FLAG_ZF)
	case 4:
		result = cpu.flag(FLAG_SF)
	case 5:
		result = cpu.flag(FLAG_PF)
	case 6:
		result = cpu.flag(FLAG_SF) != cpu.flag(FLAG_OF)
	case 7:
		result = cpu.flag(FLAG_ZF) ||
			cpu.flag(FLAG_SF) != cpu.flag(FLAG_OF)
	}

	if code&0x1 == 1 {
		return !result
	}

	return result
}
