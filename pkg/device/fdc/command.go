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

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrInvalidSectorSize = errors.New("invalid sector size code")
)

type Phase uint8

const (
	PHASE_NONE Phase = iota
	// FDC receives all information required to perform an operation.
	PHASE_COMMAND
	// FDC performs the operation it was instructed to do.
	PHASE_EXECUTION
	// Status and other information are made available to the processor.
	PHASE_RESULT
)

func (p Phase) String() string {
	switch p {
	case PHASE_NONE:
		return "None"
	case PHASE_COMMAND:
		return "Command"
	case PHASE_EXECUTION:
		return "Execution"
	case PHASE_RESULT:
		return "Result"
	}

	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// Command is the 5-bit command code of a uPD765 command byte.
type Command uint8

const (
	COMMAND_READ_TRACK             Command = 0b0_0010
	COMMAND_SPECIFY                Command = 0b0_0011
	COMMAND_SENSE_DRIVE_STATUS     Command = 0b0_0100
	COMMAND_WRITE_DATA             Command = 0b0_0101
	COMMAND_READ_DATA              Command = 0b0_0110
	COMMAND_RECALIBRATE            Command = 0b0_0111
	COMMAND_SENSE_INTERRUPT_STATUS Command = 0b0_1000
	COMMAND_WRITE_DELETED_DATA     Command = 0b0_1001
	COMMAND_READ_ID                Command = 0b0_1010
	COMMAND_READ_DELETED_DATA      Command = 0b0_1100
	COMMAND_FORMAT_TRACK           Command = 0b0_1101
	COMMAND_SEEK                   Command = 0b0_1111
	COMMAND_SCAN_EQUAL             Command = 0b1_0001
	COMMAND_SCAN_LOW_OR_EQUAL      Command = 0b1_1001
	COMMAND_SCAN_HIGH_OR_EQUAL     Command = 0b1_1101
)

var commands = []Command{
	COMMAND_READ_DATA,
	COMMAND_READ_DELETED_DATA,
	COMMAND_WRITE_DATA,
	COMMAND_WRITE_DELETED_DATA,
	COMMAND_READ_TRACK,
	COMMAND_READ_ID,
	COMMAND_FORMAT_TRACK,
	COMMAND_SCAN_EQUAL,
	COMMAND_SCAN_LOW_OR_EQUAL,
	COMMAND_SCAN_HIGH_OR_EQUAL,
	COMMAND_RECALIBRATE,
	COMMAND_SENSE_INTERRUPT_STATUS,
	COMMAND_SPECIFY,
	COMMAND_SENSE_DRIVE_STATUS,
	COMMAND_SEEK,
}

// DecodeCommand maps a command byte to its command, ignoring the modifier
// bits.
func DecodeCommand(value uint8) (Command, error) {
	code := Command(value & COMMAND_MASK)

	for _, command := range commands {
		if command == code {
			return command, nil
		}
	}

	return 0, fmt.Errorf("%w: %#02x", ErrUnknownCommand, value)
}

// Parameters is the number of parameter bytes following the command byte.
func (c Command) Parameters() int {
	switch c {
	case COMMAND_SENSE_INTERRUPT_STATUS:
		return 0
	case COMMAND_READ_ID,
		COMMAND_RECALIBRATE,
		COMMAND_SEEK,
		COMMAND_SENSE_DRIVE_STATUS:
		return 1
	case COMMAND_SPECIFY:
		return 2
	case COMMAND_FORMAT_TRACK:
		return 5
	case COMMAND_READ_DATA,
		COMMAND_READ_DELETED_DATA,
		COMMAND_WRITE_DATA,
		COMMAND_WRITE_DELETED_DATA,
		COMMAND_READ_TRACK,
		COMMAND_SCAN_EQUAL,
		COMMAND_SCAN_LOW_OR_EQUAL,
		COMMAND_SCAN_HIGH_OR_EQUAL:
		return 8
	}

	return 0
}

func (c Command) String() string {
	switch c {
	case COMMAND_READ_DATA:
		return "ReadData"
	case COMMAND_READ_DELETED_DATA:
		return "ReadDeletedData"
	case COMMAND_WRITE_DATA:
		return "WriteData"
	case COMMAND_WRITE_DELETED_DATA:
		return "WriteDeletedData"
	case COMMAND_READ_TRACK:
		return "ReadTrack"
	case COMMAND_READ_ID:
		return "ReadId"
	case COMMAND_FORMAT_TRACK:
		return "FormatTrack"
	case COMMAND_SCAN_EQUAL:
		return "ScanEqual"
	case COMMAND_SCAN_LOW_OR_EQUAL:
		return "ScanLowOrEqual"
	case COMMAND_SCAN_HIGH_OR_EQUAL:
		return "ScanHighOrEqual"
	case COMMAND_RECALIBRATE:
		return "Recalibrate"
	case COMMAND_SENSE_INTERRUPT_STATUS:
		return "SenseInterruptStatus"
	case COMMAND_SPECIFY:
		return "Specify"
	case COMMAND_SENSE_DRIVE_STATUS:
		return "SenseDriveStatus"
	case COMMAND_SEEK:
		return "Seek"
	}

	return fmt.Sprintf("Command(%#02x)", uint8(c))
}

// SectorSize decodes the N field of a sector ID.
func SectorSize(code uint8) (int, error) {
	switch code {
	case 0:
		return 128, nil
	case 1:
		return 256, nil
	case 2:
		return 512, nil
	case 3:
		return 1024, nil
	}

	return 0, fmt.Errorf("%w: %d", ErrInvalidSectorSize, code)
}
