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

// Flags register bits
const (
	FLAG_CF uint16 = 1 << 0
	FLAG_PF uint16 = 1 << 2
	FLAG_AF uint16 = 1 << 4
	FLAG_ZF uint16 = 1 << 6
	FLAG_SF uint16 = 1 << 7
	FLAG_TF uint16 = 1 << 8
	FLAG_IF uint16 = 1 << 9
	FLAG_DF uint16 = 1 << 10
	FLAG_OF uint16 = 1 << 11
)

// Bits 1 and 12-15 of the 8088 flags register always read as set.
const (
	FLAGS_RESERVED uint16 = 0xF002
	FLAGS_MASK     uint16 = 0x0FD5
)

// Power-on state
const (
	RESET_CS    uint16 = 0xFFFF
	RESET_IP    uint16 = 0x0000
	RESET_FLAGS uint16 = FLAGS_RESERVED
)

const (
	QUEUE_SIZE = 4

	// Clocks charged to the execution unit for every instruction on top of
	// the bus transactions it waits on.
	EU_CYCLES = 2
)

// Segment selects one of the four segment registers. The values follow the
// sreg field of a ModR/M byte.
type Segment uint8

const (
	SEG_ES Segment = iota
	SEG_CS
	SEG_SS
	SEG_DS
)

func (s Segment) String() string {
	switch s {
	case SEG_ES:
		return "ES"
	case SEG_CS:
		return "CS"
	case SEG_SS:
		return "SS"
	case SEG_DS:
		return "DS"
	}

	return "??"
}

// TState is the bus interface unit's position within a transaction.
type TState uint8

const (
	TS TState = iota
	T0
	T1
	T2
	T3
	T4
)

func (t TState) String() string {
	switch t {
	case TS:
		return "TS"
	case T0:
		return "T0"
	case T1:
		return "T1"
	case T2:
		return "T2"
	case T3:
		return "T3"
	case T4:
		return "T4"
	}

	return "T?"
}

type Status uint8

const (
	STATUS_OKAY Status = iota
	STATUS_BREAKPOINT
	STATUS_HALTED
)

func (s Status) String() string {
	switch s {
	case STATUS_OKAY:
		return "Okay"
	case STATUS_BREAKPOINT:
		return "Breakpoint"
	case STATUS_HALTED:
		return "Halted"
	}

	return "Unknown"
}

type DecodeErrorKind uint8

const (
	DECODE_UNKNOWN_OPCODE DecodeErrorKind = iota
	DECODE_UNIMPLEMENTED_OPCODE
)

// Register indices as encoded in the reg and r/m fields of a ModR/M byte.
const (
	REG_AX uint8 = iota
	REG_CX
	REG_DX
	REG_BX
	REG_SP
	REG_BP
	REG_SI
	REG_DI
)

const (
	REG_AL uint8 = iota
	REG_CL
	REG_DL
	REG_BL
	REG_AH
	REG_CH
	REG_DH
	REG_BH
)
