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
	"slices"

	"github.com/lassandro/go5150/pkg/bus"
	"github.com/lassandro/go5150/pkg/device"
	"github.com/lassandro/go5150/pkg/queue"
)

// New creates a core attached to the given memory bus. ports may be nil, in
// which case every IN reads 0xFF and every OUT is dropped.
func New(b *bus.Bus, ports *device.PortBus) *I8088 {
	cpu := &I8088{
		queue:       queue.NewStaticQueue[uint8](QUEUE_SIZE),
		breakpoints: make(map[uint32]struct{}),
		bus:         b,
		ports:       ports,
	}

	cpu.Reset()

	return cpu
}

func (cpu *I8088) Reset() {
	cpu.Registers = Registers{
		CS:    RESET_CS,
		Flags: RESET_FLAGS,
	}

	cpu.le = 0
	cpu.cycles = 0
	cpu.halted = false
	cpu.resuming = false
	cpu.prefix = prefixes{}
	cpu.request = nil

	cpu.idle()
	cpu.jump(RESET_IP)
}

func (cpu *I8088) Bus() *bus.Bus {
	return cpu.bus
}

func (cpu *I8088) Ports() *device.PortBus {
	return cpu.ports
}

// Jump transfers control to cs:ip, discarding any prefetched bytes.
func (cpu *I8088) Jump(cs, ip uint16) {
	cpu.Registers.CS = cs
	cpu.halted = false
	cpu.jump(ip)
}

// IP returns the offset of the next instruction to execute.
func (cpu *I8088) IP() uint16 {
	return cpu.pc - uint16(cpu.queue.Size())
}

// PC returns the offset of the next byte to prefetch.
func (cpu *I8088) PC() uint16 {
	return cpu.pc
}

func (cpu *I8088) Queue() []uint8 {
	return cpu.queue.Values()
}

func (cpu *I8088) TState() TState {
	return cpu.tstate
}

func (cpu *I8088) Cycles() uint64 {
	return cpu.cycles
}

func (cpu *I8088) Halted() bool {
	return cpu.halted
}

// LastAddress returns the last physical address computed by
// CalculatePhysicalAddress.
func (cpu *I8088) LastAddress() uint32 {
	return cpu.le
}

func (cpu *I8088) SetBreakpoint(addr uint32) {
	cpu.breakpoints[addr&bus.ADDRESS_MASK] = struct{}{}
}

func (cpu *I8088) ClearBreakpoint(addr uint32) {
	delete(cpu.breakpoints, addr&bus.ADDRESS_MASK)
}

func (cpu *I8088) ClearBreakpoints() {
	clear(cpu.breakpoints)
	cpu.resuming = false
}

func (cpu *I8088) Breakpoints() []uint32 {
	result := make([]uint32, 0, len(cpu.breakpoints))

	for addr := range cpu.breakpoints {
		result = append(result, addr)
	}

	slices.Sort(result)

	return result
}

func (cpu *I8088) Segment(seg Segment) uint16 {
	switch seg {
	case SEG_ES:
		return cpu.Registers.ES
	case SEG_CS:
		return cpu.Registers.CS
	case SEG_SS:
		return cpu.Registers.SS
	case SEG_DS:
		return cpu.Registers.DS
	}

	return 0
}

func (cpu *I8088) setSegment(seg Segment, value uint16) {
	switch seg {
	case SEG_ES:
		cpu.Registers.ES = value
	case SEG_CS:
		cpu.Registers.CS = value
	case SEG_SS:
		cpu.Registers.SS = value
	case SEG_DS:
		cpu.Registers.DS = value
	}
}

// CalculatePhysicalAddress runs seg:off through the address adder. The
// result is latched on the bus and kept as the last effective address.
func (cpu *I8088) CalculatePhysicalAddress(seg Segment, off uint16) uint32 {
	cpu.le = cpu.bus.Latch(cpu.Segment(seg), off)
	return cpu.le
}

func (cpu *I8088) reg8(idx uint8) uint8 {
	r := &cpu.Registers

	switch idx & 0x7 {
	case REG_AL:
		return uint8(r.AX)
	case REG_CL:
		return uint8(r.CX)
	case REG_DL:
		return uint8(r.DX)
	case REG_BL:
		return uint8(r.BX)
	case REG_AH:
		return uint8(r.AX >> 8)
	case REG_CH:
		return uint8(r.CX >> 8)
	case REG_DH:
		return uint8(r.DX >> 8)
	case REG_BH:
		return uint8(r.BX >> 8)
	}

	return 0
}

func setLow(reg *uint16, value uint8) {
	*reg = *reg&0xFF00 | uint16(value)
}

func setHigh(reg *uint16, value uint8) {
	*reg = *reg&0x00FF | uint16(value)<<8
}

func (cpu *I8088) setReg8(idx uint8, value uint8) {
	r := &cpu.Registers

	switch idx & 0x7 {
	case REG_AL:
		setLow(&r.AX, value)
	case REG_CL:
		setLow(&r.CX, value)
	case REG_DL:
		setLow(&r.DX, value)
	case REG_BL:
		setLow(&r.BX, value)
	case REG_AH:
		setHigh(&r.AX, value)
	case REG_CH:
		setHigh(&r.CX, value)
	case REG_DH:
		setHigh(&r.DX, value)
	case REG_BH:
		setHigh(&r.BX, value)
	}
}

func (cpu *I8088) reg16(idx uint8) *uint16 {
	r := &cpu.Registers

	switch idx & 0x7 {
	case REG_AX:
		return &r.AX
	case REG_CX:
		return &r.CX
	case REG_DX:
		return &r.DX
	case REG_BX:
		return &r.BX
	case REG_SP:
		return &r.SP
	case REG_BP:
		return &r.BP
	case REG_SI:
		return &r.SI
	}

	return &r.DI
}
