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
	"errors"
	"fmt"

	"github.com/lassandro/go5150/pkg/bus"
	"github.com/lassandro/go5150/pkg/device"
	"github.com/lassandro/go5150/pkg/queue"
)

var (
	ErrUnknownOpcode       = errors.New("unknown opcode")
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
)

// DecodeError reports an opcode the core cannot execute. The opcode byte
// has already been consumed, so a driver may skip it by advancing again.
type DecodeError struct {
	Kind     DecodeErrorKind
	Opcode   uint8
	Mnemonic string
	CS       uint16
	IP       uint16
}

func (e *DecodeError) Error() string {
	if e.Kind == DECODE_UNKNOWN_OPCODE {
		return fmt.Sprintf(
			"unknown opcode %#02x at %04X:%04X", e.Opcode, e.CS, e.IP,
		)
	}

	return fmt.Sprintf(
		"unimplemented opcode %#02x (%s) at %04X:%04X",
		e.Opcode,
		e.Mnemonic,
		e.CS,
		e.IP,
	)
}

func (e *DecodeError) Unwrap() error {
	if e.Kind == DECODE_UNKNOWN_OPCODE {
		return ErrUnknownOpcode
	}

	return ErrUnimplementedOpcode
}

type Registers struct {
	AX uint16
	BX uint16
	CX uint16
	DX uint16
	SI uint16
	DI uint16
	BP uint16
	SP uint16

	CS uint16
	DS uint16
	SS uint16
	ES uint16

	Flags uint16
}

type Debugger interface {
	Step(cpu *I8088)
	Read(addr uint32, cpu *I8088)
	Write(addr uint32, cpu *I8088)
}

type transferKind uint8

const (
	TRANSFER_NONE transferKind = iota
	TRANSFER_FETCH
	TRANSFER_MEM_READ
	TRANSFER_MEM_WRITE
	TRANSFER_IO_READ
	TRANSFER_IO_WRITE
)

// transfer is one byte-wide bus transaction.
type transfer struct {
	kind  transferKind
	addr  uint32
	value uint8
	done  bool
}

// prefixes collected while decoding the current instruction.
type prefixes struct {
	segment  Segment
	override bool
	lock     bool
	repeat   uint8
}

type I8088 struct {
	Registers Registers
	Debugger  Debugger

	// The fetch pointer: the offset of the next byte the bus interface
	// will prefetch, not of the next instruction.
	pc uint16

	// Last physical address produced by the address adder.
	le uint32

	queue   *queue.StaticQueue[uint8]
	tstate  TState
	current transfer
	request *transfer
	cycles  uint64

	prefix prefixes
	halted bool

	breakpoints map[uint32]struct{}
	resuming    bool
	resumeAddr  uint32

	bus   *bus.Bus
	ports *device.PortBus
}
