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
	"github.com/lassandro/go5150/pkg/bus"
)

// Advance fetches, decodes and executes a single instruction.
//
// A breakpoint at the next instruction is reported once without consuming
// anything; the following call executes the instruction. Port devices are
// advanced by the number of cycles the instruction took.
func (cpu *I8088) Advance() (Status, error) {
	start := cpu.cycles

	if cpu.halted {
		cpu.StepCycle()
		cpu.tick(start)
		return STATUS_HALTED, nil
	}

	cs, ip := cpu.Registers.CS, cpu.IP()
	addr := bus.PhysicalAddress(cs, ip)

	if _, ok := cpu.breakpoints[addr]; ok {
		if !cpu.resuming || cpu.resumeAddr != addr {
			cpu.resuming = true
			cpu.resumeAddr = addr
			return STATUS_BREAKPOINT, nil
		}
	}

	cpu.resuming = false

	if cpu.Debugger != nil {
		cpu.Debugger.Step(cpu)
		cs, ip = cpu.Registers.CS, cpu.IP()
	}

	cpu.prefix = prefixes{}
	opcode := cpu.fetch8()

	for cpu.applyPrefix(opcode) {
		opcode = cpu.fetch8()
	}

	if !cpu.execute(opcode) {
		cpu.tick(start)
		return STATUS_OKAY, cpu.decodeError(opcode, cs, ip)
	}

	cpu.wait(EU_CYCLES)
	cpu.tick(start)

	if cpu.halted {
		return STATUS_HALTED, nil
	}

	return STATUS_OKAY, nil
}

func (cpu *I8088) tick(start uint64) {
	if cpu.ports != nil {
		cpu.ports.Advance(uint32(cpu.cycles - start))
	}
}

func (cpu *I8088) applyPrefix(opcode uint8) bool {
	switch opcode {
	case 0x26, 0x2E, 0x36, 0x3E:
		cpu.prefix.segment = Segment((opcode >> 3) & 0x3)
		cpu.prefix.override = true
	case 0xF0:
		cpu.prefix.lock = true
	case 0xF2, 0xF3:
		cpu.prefix.repeat = opcode
	default:
		return false
	}

	return true
}

// segment returns the override segment if one was given, else def.
func (cpu *I8088) segment(def Segment) Segment {
	if cpu.prefix.override {
		return cpu.prefix.segment
	}

	return def
}

// fetch8 pops the next instruction byte, clocking the bus interface unit
// until one is available.
func (cpu *I8088) fetch8() uint8 {
	for cpu.queue.Empty() {
		cpu.StepCycle()
	}

	value, _ := cpu.queue.Pop()
	return value
}

func (cpu *I8088) fetch16() uint16 {
	lo := cpu.fetch8()
	hi := cpu.fetch8()

	return uint16(hi)<<8 | uint16(lo)
}

func (cpu *I8088) read8(seg Segment, off uint16) uint8 {
	addr := cpu.CalculatePhysicalAddress(seg, off)
	value := cpu.transact(TRANSFER_MEM_READ, addr, 0)

	if cpu.Debugger != nil {
		cpu.Debugger.Read(addr, cpu)
	}

	return value
}

func (cpu *I8088) write8(seg Segment, off uint16, value uint8) {
	addr := cpu.CalculatePhysicalAddress(seg, off)
	cpu.transact(TRANSFER_MEM_WRITE, addr, value)

	if cpu.Debugger != nil {
		cpu.Debugger.Write(addr, cpu)
	}
}

// Words travel over the 8-bit bus as two transactions. The second byte
// wraps within the segment.
func (cpu *I8088) read16(seg Segment, off uint16) uint16 {
	lo := cpu.read8(seg, off)
	hi := cpu.read8(seg, off+1)

	return uint16(hi)<<8 | uint16(lo)
}

func (cpu *I8088) write16(seg Segment, off uint16, value uint16) {
	cpu.write8(seg, off, uint8(value))
	cpu.write8(seg, off+1, uint8(value>>8))
}

func (cpu *I8088) in8(port uint16) uint8 {
	return cpu.transact(TRANSFER_IO_READ, uint32(port), 0)
}

func (cpu *I8088) out8(port uint16, value uint8) {
	cpu.transact(TRANSFER_IO_WRITE, uint32(port), value)
}

func (cpu *I8088) push16(value uint16) {
	cpu.Registers.SP -= 2
	cpu.write16(SEG_SS, cpu.Registers.SP, value)
}

func (cpu *I8088) pop16() uint16 {
	value := cpu.read16(SEG_SS, cpu.Registers.SP)
	cpu.Registers.SP += 2

	return value
}

type modrm struct {
	mod uint8
	reg uint8
	rm  uint8
	seg Segment
	off uint16
}

func (m modrm) memory() bool {
	return m.mod != 0x3
}

// decodeModRM reads a ModR/M byte and any displacement following it, and
// resolves the effective address of a memory operand.
func (cpu *I8088) decodeModRM() modrm {
	value := cpu.fetch8()
	m := modrm{
		mod: value >> 6,
		reg: (value >> 3) & 0x7,
		rm:  value & 0x7,
		seg: SEG_DS,
	}

	if !m.memory() {
		return m
	}

	r := &cpu.Registers

	switch m.rm {
	case 0:
		m.off = r.BX + r.SI
	case 1:
		m.off = r.BX + r.DI
	case 2:
		m.off = r.BP + r.SI
		m.seg = SEG_SS
	case 3:
		m.off = r.BP + r.DI
		m.seg = SEG_SS
	case 4:
		m.off = r.SI
	case 5:
		m.off = r.DI
	case 6:
		if m.mod == 0 {
			m.off = cpu.fetch16()
		} else {
			m.off = r.BP
			m.seg = SEG_SS
		}
	case 7:
		m.off = r.BX
	}

	switch m.mod {
	case 1:
		m.off += uint16(int8(cpu.fetch8()))
	case 2:
		m.off += cpu.fetch16()
	}

	m.seg = cpu.segment(m.seg)

	return m
}

func (cpu *I8088) readRM8(m modrm) uint8 {
	if !m.memory() {
		return cpu.reg8(m.rm)
	}

	return cpu.read8(m.seg, m.off)
}

func (cpu *I8088) writeRM8(m modrm, value uint8) {
	if !m.memory() {
		cpu.setReg8(m.rm, value)
		return
	}

	cpu.write8(m.seg, m.off, value)
}

func (cpu *I8088) readRM16(m modrm) uint16 {
	if !m.memory() {
		return *cpu.reg16(m.rm)
	}

	return cpu.read16(m.seg, m.off)
}

func (cpu *I8088) writeRM16(m modrm, value uint16) {
	if !m.memory() {
		*cpu.reg16(m.rm) = value
		return
	}

	cpu.write16(m.seg, m.off, value)
}
