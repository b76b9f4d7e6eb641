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

package fdc

// Port numbers
const (
	PORT_DIGITAL_OUTPUT_REG uint16 = 0x3F2
	PORT_MAIN_STATUS_REG    uint16 = 0x3F4
	PORT_DATA_REG           uint16 = 0x3F5
)

// Only the low 5 bits of a command byte select the command. The upper three
// carry the MT, MF and SK modifiers.
const (
	COMMAND_MASK   uint8 = 0b0001_1111
	MODIFIER_MT    uint8 = 0b1000_0000
	MODIFIER_MF    uint8 = 0b0100_0000
	MODIFIER_SK    uint8 = 0b0010_0000
	MAX_DRIVES           = 4
	MAX_PARAMETERS       = 8
	FIFO_LIMIT           = 0x10000
)

// Host CPU clock, used to turn step rates into cycle budgets.
const CYCLES_PER_MS = 4772

// DORFlag is a bit of the Digital Output Register.
type DORFlag uint8

const (
	DOR_DRIVE_SELECT_MASK DORFlag = 0b0000_0011
	// FDC is held reset when this bit is clear.
	DOR_NOT_RESET DORFlag = 0b0000_0100
	// Gates the FDC interrupt and DMA requests onto the I/O interface.
	DOR_DMA_ENABLE  DORFlag = 0b0000_1000
	DOR_MOTOR_A     DORFlag = 0b0001_0000
	DOR_MOTOR_B     DORFlag = 0b0010_0000
	DOR_MOTOR_C     DORFlag = 0b0100_0000
	DOR_MOTOR_D     DORFlag = 0b1000_0000
	DOR_MOTOR_SHIFT         = 4
)

// MSRFlag is a bit of the Main Status Register.
type MSRFlag uint8

const (
	MSR_SEEK_BUSY_A MSRFlag = 0b0000_0001
	MSR_SEEK_BUSY_B MSRFlag = 0b0000_0010
	MSR_SEEK_BUSY_C MSRFlag = 0b0000_0100
	MSR_SEEK_BUSY_D MSRFlag = 0b0000_1000
	// A read or write command is in process.
	MSR_FDC_BUSY MSRFlag = 0b0001_0000
	MSR_NON_DMA  MSRFlag = 0b0010_0000
	// Set when the data register holds a byte for the processor.
	MSR_DATA_INPUT         MSRFlag = 0b0100_0000
	MSR_REQUEST_FOR_MASTER MSRFlag = 0b1000_0000
)

// Status register 0
const (
	ST0_NORMAL        uint8 = 0b0000_0000
	ST0_ABNORMAL      uint8 = 0b0100_0000
	ST0_INVALID       uint8 = 0b1000_0000
	ST0_READY_CHANGED uint8 = 0b1100_0000
	ST0_SEEK_END      uint8 = 0b0010_0000
	ST0_EQUIP_CHECK   uint8 = 0b0001_0000
	ST0_NOT_READY     uint8 = 0b0000_1000
	ST0_HEAD          uint8 = 0b0000_0100
)

// Status register 1
const (
	ST1_END_OF_CYLINDER uint8 = 0b1000_0000
	ST1_DATA_ERROR      uint8 = 0b0010_0000
	ST1_OVERRUN         uint8 = 0b0001_0000
	ST1_NO_DATA         uint8 = 0b0000_0100
	ST1_NOT_WRITABLE    uint8 = 0b0000_0010
	ST1_MISSING_ADDRESS uint8 = 0b0000_0001
)

// Status register 2
const (
	ST2_CONTROL_MARK       uint8 = 0b0100_0000
	ST2_WRONG_CYLINDER     uint8 = 0b0001_0000
	ST2_SCAN_HIT           uint8 = 0b0000_1000
	ST2_SCAN_NOT_SATISFIED uint8 = 0b0000_0100
	ST2_BAD_CYLINDER       uint8 = 0b0000_0010
)

// Status register 3
const (
	ST3_FAULT         uint8 = 0b1000_0000
	ST3_WRITE_PROTECT uint8 = 0b0100_0000
	ST3_READY         uint8 = 0b0010_0000
	ST3_TRACK_ZERO    uint8 = 0b0001_0000
	ST3_TWO_SIDE      uint8 = 0b0000_1000
	ST3_HEAD          uint8 = 0b0000_0100
)
