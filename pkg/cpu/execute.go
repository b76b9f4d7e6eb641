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

// ALU operations in the order of the opcode and group 1 reg field.
const (
	ALU_ADD uint8 = iota
	ALU_OR
	ALU_ADC
	ALU_SBB
	ALU_AND
	ALU_SUB
	ALU_XOR
	ALU_CMP
)

func (cpu *I8088) carry() uint16 {
	if cpu.flag(FLAG_CF) {
		return 1
	}

	return 0
}

func (cpu *I8088) alu8(op uint8, a, b uint8) uint8 {
	var result uint16

	switch op {
	case ALU_ADD:
		result = uint16(a) + uint16(b)
		cpu.setArith8(result, a, b, false)
	case ALU_ADC:
		result = uint16(a) + uint16(b) + cpu.carry()
		cpu.setArith8(result, a, b, false)
	case ALU_SUB, ALU_CMP:
		result = uint16(a) - uint16(b)
		cpu.setArith8(result, a, b, true)
	case ALU_SBB:
		result = uint16(a) - uint16(b) - cpu.carry()
		cpu.setArith8(result, a, b, true)
	case ALU_OR:
		result = uint16(a | b)
		cpu.setLogic8(uint8(result))
	case ALU_AND:
		result = uint16(a & b)
		cpu.setLogic8(uint8(result))
	case ALU_XOR:
		result = uint16(a ^ b)
		cpu.setLogic8(uint8(result))
	}

	return uint8(result)
}

func (cpu *I8088) alu16(op uint8, a, b uint16) uint16 {
	var result uint32

	switch op {
	case ALU_ADD:
		result = uint32(a) + uint32(b)
		cpu.setArith16(result, a, b, false)
	case ALU_ADC:
		result = uint32(a) + uint32(b) + uint32(cpu.carry())
		cpu.setArith16(result, a, b, false)
	case ALU_SUB, ALU_CMP:
		result = uint32(a) - uint32(b)
		cpu.setArith16(result, a, b, true)
	case ALU_SBB:
		result = uint32(a) - uint32(b) - uint32(cpu.carry())
		cpu.setArith16(result, a, b, true)
	case ALU_OR:
		result = uint32(a | b)
		cpu.setLogic16(uint16(result))
	case ALU_AND:
		result = uint32(a & b)
		cpu.setLogic16(uint16(result))
	case ALU_XOR:
		result = uint32(a ^ b)
		cpu.setLogic16(uint16(result))
	}

	return uint16(result)
}

// aluForm executes opcodes 0x00-0x3D. The operation is in bits 3-5, the
// operand form in bits 0-2.
func (cpu *I8088) aluForm(opcode uint8) {
	op := (opcode >> 3) & 0x7

	switch opcode & 0x7 {
	// op Eb, Gb
	case 0:
		m := cpu.decodeModRM()
		result := cpu.alu8(op, cpu.readRM8(m), cpu.reg8(m.reg))

		if op != ALU_CMP {
			cpu.writeRM8(m, result)
		}

	// op Ev, Gv
	case 1:
		m := cpu.decodeModRM()
		result := cpu.alu16(op, cpu.readRM16(m), *cpu.reg16(m.reg))

		if op != ALU_CMP {
			cpu.writeRM16(m, result)
		}

	// op Gb, Eb
	case 2:
		m := cpu.decodeModRM()
		result := cpu.alu8(op, cpu.reg8(m.reg), cpu.readRM8(m))

		if op != ALU_CMP {
			cpu.setReg8(m.reg, result)
		}

	// op Gv, Ev
	case 3:
		m := cpu.decodeModRM()
		result := cpu.alu16(op, *cpu.reg16(m.reg), cpu.readRM16(m))

		if op != ALU_CMP {
			*cpu.reg16(m.reg) = result
		}

	// op AL, Ib
	case 4:
		result := cpu.alu8(op, cpu.reg8(REG_AL), cpu.fetch8())

		if op != ALU_CMP {
			cpu.setReg8(REG_AL, result)
		}

	// op AX, Iv
	case 5:
		result := cpu.alu16(op, cpu.Registers.AX, cpu.fetch16())

		if op != ALU_CMP {
			cpu.Registers.AX = result
		}
	}
}

// group1 executes opcodes 0x80-0x83: an ALU operation selected by the reg
// field against an immediate.
func (cpu *I8088) group1(opcode uint8) {
	m := cpu.decodeModRM()

	switch opcode {
	case 0x80, 0x82:
		result := cpu.alu8(m.reg, cpu.readRM8(m), cpu.fetch8())

		if m.reg != ALU_CMP {
			cpu.writeRM8(m, result)
		}

	case 0x81, 0x83:
		var imm uint16

		if opcode == 0x81 {
			imm = cpu.fetch16()
		} else {
			imm = uint16(int8(cpu.fetch8()))
		}

		result := cpu.alu16(m.reg, cpu.readRM16(m), imm)

		if m.reg != ALU_CMP {
			cpu.writeRM16(m, result)
		}
	}
}

// incdec16 adds delta to a word, leaving the carry flag untouched.
func (cpu *I8088) incdec16(value uint16, dec bool) uint16 {
	cf := cpu.flag(FLAG_CF)

	var result uint16
	if dec {
		result = cpu.alu16(ALU_SUB, value, 1)
	} else {
		result = cpu.alu16(ALU_ADD, value, 1)
	}

	cpu.setFlag(FLAG_CF, cf)

	return result
}

func (cpu *I8088) jumpRelative(disp uint16) {
	cpu.jump(cpu.IP() + disp)
}

func (cpu *I8088) jumpShort() {
	disp := uint16(int8(cpu.fetch8()))
	cpu.jumpRelative(disp)
}

// execute runs the body of an opcode whose prefixes have been consumed. It
// returns false if the core has no body for the opcode.
func (cpu *I8088) execute(opcode uint8) bool {
	r := &cpu.Registers

	if opcode < 0x40 && opcode&0x7 < 0x6 {
		cpu.aluForm(opcode)
		return true
	}

	switch opcode {
	// PUSH ES/CS/SS/DS
	case 0x06, 0x0E, 0x16, 0x1E:
		cpu.push16(cpu.Segment(Segment((opcode >> 3) & 0x3)))

	// POP ES/SS/DS
	case 0x07, 0x17, 0x1F:
		cpu.setSegment(Segment((opcode>>3)&0x3), cpu.pop16())

	// INC reg16
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47:
		reg := cpu.reg16(opcode)
		*reg = cpu.incdec16(*reg, false)

	// DEC reg16
	case 0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F:
		reg := cpu.reg16(opcode)
		*reg = cpu.incdec16(*reg, true)

	// PUSH reg16
	case 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57:
		// The 8088 pushes the already decremented stack pointer.
		if opcode&0x7 == REG_SP {
			cpu.push16(r.SP - 2)
		} else {
			cpu.push16(*cpu.reg16(opcode))
		}

	// POP reg16
	case 0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F:
		value := cpu.pop16()
		*cpu.reg16(opcode) = value

	// Jcc rel8
	case 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x76, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		disp := uint16(int8(cpu.fetch8()))

		if cpu.condition(opcode) {
			cpu.jumpRelative(disp)
		}

	case 0x80, 0x81, 0x82, 0x83:
		cpu.group1(opcode)

	// TEST Eb, Gb
	case 0x84:
		m := cpu.decodeModRM()
		cpu.alu8(ALU_AND, cpu.readRM8(m), cpu.reg8(m.reg))

	// TEST Ev, Gv
	case 0x85:
		m := cpu.decodeModRM()
		cpu.alu16(ALU_AND, cpu.readRM16(m), *cpu.reg16(m.reg))

	// XCHG Eb, Gb
	case 0x86:
		m := cpu.decodeModRM()
		value := cpu.readRM8(m)
		cpu.writeRM8(m, cpu.reg8(m.reg))
		cpu.setReg8(m.reg, value)

	// XCHG Ev, Gv
	case 0x87:
		m := cpu.decodeModRM()
		value := cpu.readRM16(m)
		cpu.writeRM16(m, *cpu.reg16(m.reg))
		*cpu.reg16(m.reg) = value

	// MOV Eb, Gb
	case 0x88:
		m := cpu.decodeModRM()
		cpu.writeRM8(m, cpu.reg8(m.reg))

	// MOV Ev, Gv
	case 0x89:
		m := cpu.decodeModRM()
		cpu.writeRM16(m, *cpu.reg16(m.reg))

	// MOV Gb, Eb
	case 0x8A:
		m := cpu.decodeModRM()
		cpu.setReg8(m.reg, cpu.readRM8(m))

	// MOV Gv, Ev
	case 0x8B:
		m := cpu.decodeModRM()
		*cpu.reg16(m.reg) = cpu.readRM16(m)

	// MOV Ew, Sw
	case 0x8C:
		m := cpu.decodeModRM()
		cpu.writeRM16(m, cpu.Segment(Segment(m.reg&0x3)))

	// LEA Gv, M
	case 0x8D:
		m := cpu.decodeModRM()
		*cpu.reg16(m.reg) = m.off

	// MOV Sw, Ew
	case 0x8E:
		m := cpu.decodeModRM()
		seg := Segment(m.reg & 0x3)
		cpu.setSegment(seg, cpu.readRM16(m))

		if seg == SEG_CS {
			cpu.jump(cpu.IP())
		}

	// POP Ev
	case 0x8F:
		m := cpu.decodeModRM()
		cpu.writeRM16(m, cpu.pop16())

	// NOP
	case 0x90:

	// XCHG AX, reg16
	case 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97:
		reg := cpu.reg16(opcode)
		r.AX, *reg = *reg, r.AX

	// CBW
	case 0x98:
		r.AX = uint16(int8(r.AX))

	// CWD
	case 0x99:
		if r.AX&0x8000 != 0 {
			r.DX = 0xFFFF
		} else {
			r.DX = 0
		}

	// CALL far ptr16:16
	case 0x9A:
		off := cpu.fetch16()
		seg := cpu.fetch16()

		cpu.push16(r.CS)
		cpu.push16(cpu.IP())
		cpu.Jump(seg, off)

	// PUSHF
	case 0x9C:
		cpu.push16(r.Flags)

	// POPF
	case 0x9D:
		cpu.SetFlags(cpu.pop16())

	// SAHF
	case 0x9E:
		mask := FLAG_SF | FLAG_ZF | FLAG_AF | FLAG_PF | FLAG_CF
		r.Flags = r.Flags&^mask | (r.AX>>8)&mask

	// LAHF
	case 0x9F:
		setHigh(&r.AX, uint8(r.Flags))

	// MOV AL, [moffs]
	case 0xA0:
		cpu.setReg8(REG_AL, cpu.read8(cpu.segment(SEG_DS), cpu.fetch16()))

	// MOV AX, [moffs]
	case 0xA1:
		r.AX = cpu.read16(cpu.segment(SEG_DS), cpu.fetch16())

	// MOV [moffs], AL
	case 0xA2:
		cpu.write8(cpu.segment(SEG_DS), cpu.fetch16(), uint8(r.AX))

	// MOV [moffs], AX
	case 0xA3:
		cpu.write16(cpu.segment(SEG_DS), cpu.fetch16(), r.AX)

	// TEST AL, Ib
	case 0xA8:
		cpu.alu8(ALU_AND, uint8(r.AX), cpu.fetch8())

	// TEST AX, Iv
	case 0xA9:
		cpu.alu16(ALU_AND, r.AX, cpu.fetch16())

	// MOV reg8, Ib
	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7:
		cpu.setReg8(opcode, cpu.fetch8())

	// MOV reg16, Iv
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		*cpu.reg16(opcode) = cpu.fetch16()

	// RET imm16
	case 0xC2:
		n := cpu.fetch16()
		ip := cpu.pop16()
		r.SP += n
		cpu.jump(ip)

	// RET
	case 0xC3:
		cpu.jump(cpu.pop16())

	// LES / LDS Gv, Mp
	case 0xC4, 0xC5:
		m := cpu.decodeModRM()
		off := cpu.read16(m.seg, m.off)
		seg := cpu.read16(m.seg, m.off+2)
		*cpu.reg16(m.reg) = off

		if opcode == 0xC4 {
			r.ES = seg
		} else {
			r.DS = seg
		}

	// MOV Eb, Ib
	case 0xC6:
		m := cpu.decodeModRM()
		cpu.writeRM8(m, cpu.fetch8())

	// MOV Ev, Iv
	case 0xC7:
		m := cpu.decodeModRM()
		cpu.writeRM16(m, cpu.fetch16())

	// RETF imm16
	case 0xCA:
		n := cpu.fetch16()
		ip := cpu.pop16()
		cs := cpu.pop16()
		r.SP += n
		cpu.Jump(cs, ip)

	// RETF
	case 0xCB:
		ip := cpu.pop16()
		cs := cpu.pop16()
		cpu.Jump(cs, ip)

	// XLAT
	case 0xD7:
		off := r.BX + uint16(uint8(r.AX))
		cpu.setReg8(REG_AL, cpu.read8(cpu.segment(SEG_DS), off))

	// LOOPNZ / LOOPZ / LOOP rel8
	case 0xE0, 0xE1, 0xE2:
		disp := uint16(int8(cpu.fetch8()))
		r.CX--

		taken := r.CX != 0

		switch opcode {
		case 0xE0:
			taken = taken && !cpu.flag(FLAG_ZF)
		case 0xE1:
			taken = taken && cpu.flag(FLAG_ZF)
		}

		if taken {
			cpu.jumpRelative(disp)
		}

	// JCXZ rel8
	case 0xE3:
		disp := uint16(int8(cpu.fetch8()))

		if r.CX == 0 {
			cpu.jumpRelative(disp)
		}

	// IN AL, Ib
	case 0xE4:
		cpu.setReg8(REG_AL, cpu.in8(uint16(cpu.fetch8())))

	// IN AX, Ib
	case 0xE5:
		port := uint16(cpu.fetch8())
		lo := cpu.in8(port)
		hi := cpu.in8(port + 1)
		r.AX = uint16(hi)<<8 | uint16(lo)

	// OUT Ib, AL
	case 0xE6:
		cpu.out8(uint16(cpu.fetch8()), uint8(r.AX))

	// OUT Ib, AX
	case 0xE7:
		port := uint16(cpu.fetch8())
		cpu.out8(port, uint8(r.AX))
		cpu.out8(port+1, uint8(r.AX>>8))

	// CALL rel16
	case 0xE8:
		disp := cpu.fetch16()
		cpu.push16(cpu.IP())
		cpu.jumpRelative(disp)

	// JMP rel16
	case 0xE9:
		cpu.jumpRelative(cpu.fetch16())

	// JMP ptr16:16
	case 0xEA:
		off := cpu.fetch16()
		seg := cpu.fetch16()
		cpu.Jump(seg, off)

	// JMP rel8
	case 0xEB:
		cpu.jumpShort()

	// IN AL, DX
	case 0xEC:
		cpu.setReg8(REG_AL, cpu.in8(r.DX))

	// IN AX, DX
	case 0xED:
		lo := cpu.in8(r.DX)
		hi := cpu.in8(r.DX + 1)
		r.AX = uint16(hi)<<8 | uint16(lo)

	// OUT DX, AL
	case 0xEE:
		cpu.out8(r.DX, uint8(r.AX))

	// OUT DX, AX
	case 0xEF:
		cpu.out8(r.DX, uint8(r.AX))
		cpu.out8(r.DX+1, uint8(r.AX>>8))

	// HLT
	case 0xF4:
		cpu.halted = true

	// CMC
	case 0xF5:
		cpu.setFlag(FLAG_CF, !cpu.flag(FLAG_CF))

	case 0xF8:
		cpu.setFlag(FLAG_CF, false)
	case 0xF9:
		cpu.setFlag(FLAG_CF, true)
	case 0xFA:
		cpu.setFlag(FLAG_IF, false)
	case 0xFB:
		cpu.setFlag(FLAG_IF, true)
	case 0xFC:
		cpu.setFlag(FLAG_DF, false)
	case 0xFD:
		cpu.setFlag(FLAG_DF, true)

	default:
		return false
	}

	return true
}
