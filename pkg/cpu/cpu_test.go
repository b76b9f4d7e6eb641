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

package cpu_test

import (
	"errors"
	"testing"

	"github.com/lassandro/go5150/pkg/bus"
	"github.com/lassandro/go5150/pkg/cpu"
	"github.com/lassandro/go5150/pkg/device"
	"github.com/lassandro/go5150/pkg/device/fdc"
)

const CODE_OFFSET uint16 = 0x0100

func newCore(t *testing.T, code []uint8, ports *device.PortBus) (*cpu.I8088, *bus.Bus) {
	t.Helper()

	b := bus.New()

	if err := b.WriteBlock(uint32(CODE_OFFSET), code); err != nil {
		t.Fatalf("Failed to load code: %v", err)
	}

	core := cpu.New(b, ports)
	core.Jump(0x0000, CODE_OFFSET)

	return core, b
}

func advance(t *testing.T, core *cpu.I8088, steps int) {
	t.Helper()

	for i := 0; i < steps; i++ {
		status, err := core.Advance()

		if err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}

		if status == cpu.STATUS_BREAKPOINT {
			t.Fatalf("Unexpected breakpoint at step %d", i)
		}
	}
}

func TestAddressing(t *testing.T) {
	b := bus.New()
	core := cpu.New(b, nil)

	core.Registers.CS = 0x1000
	core.Registers.DS = 0x2000

	addr := core.CalculatePhysicalAddress(cpu.SEG_CS, 0x0005)

	if addr != 0x10005 {
		t.Fatalf("Address mismatch\nwant:%#05x\nhave:%#05x", 0x10005, addr)
	}

	if b.LatchedAddress() != addr || core.LastAddress() != addr {
		t.Errorf(
			"Latch mismatch\nwant:%#05x\nhave:%#05x (bus) %#05x (core)",
			addr,
			b.LatchedAddress(),
			core.LastAddress(),
		)
	}

	if err := b.Write8(addr, 0xAB); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	value, err := b.Read8(addr)

	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}

	if value != 0xAB {
		t.Errorf("Value mismatch\nwant:%#02x\nhave:%#02x", 0xAB, value)
	}

	if _, err := b.Read8(0x100000); !errors.Is(err, bus.ErrOutOfBounds) {
		t.Errorf("Error mismatch\nwant:%v\nhave:%v", bus.ErrOutOfBounds, err)
	}

	if addr := core.CalculatePhysicalAddress(cpu.SEG_DS, 0x0010); addr != 0x20010 {
		t.Errorf("Address mismatch\nwant:%#05x\nhave:%#05x", 0x20010, addr)
	}

	core.Registers.ES = 0xFFFF

	if addr := core.CalculatePhysicalAddress(cpu.SEG_ES, 0x0010); addr != 0x00000 {
		t.Errorf("Wrapped address mismatch\nwant:%#05x\nhave:%#05x", 0, addr)
	}
}

func TestReset(t *testing.T) {
	core := cpu.New(bus.New(), nil)

	core.Registers.AX = 0x1234
	core.Jump(0x0000, 0x0100)
	core.StepCycle()
	core.Reset()

	want := cpu.Registers{CS: 0xFFFF, Flags: 0xF002}

	if core.Registers != want {
		t.Errorf("Register mismatch\nwant:%+v\nhave:%+v", want, core.Registers)
	}

	if core.IP() != 0 || core.TState() != cpu.TS || len(core.Queue()) != 0 {
		t.Errorf(
			"Pipeline mismatch\nhave: ip=%#04x tstate=%s queue=%v",
			core.IP(),
			core.TState(),
			core.Queue(),
		)
	}

	if core.Cycles() != 0 {
		t.Errorf("Cycle count mismatch\nwant:0\nhave:%d", core.Cycles())
	}
}

func TestStepCycle(t *testing.T) {
	core, _ := newCore(t, []uint8{0x90, 0x40, 0x41, 0x42, 0x43}, nil)

	type testCase struct {
		Cycles int
		TState cpu.TState
		PC     uint16
		Queue  int
	}

	testCases := []testCase{
		{1, cpu.T0, 0x100, 0},
		{4, cpu.T4, 0x100, 0},
		{1, cpu.TS, 0x101, 1},
		{18, cpu.TS, 0x104, 4},
		// The fifth fetch completes but has nowhere to go.
		{6, cpu.T4, 0x104, 4},
		{20, cpu.T4, 0x104, 4},
	}

	for i, test := range testCases {
		for c := 0; c < test.Cycles; c++ {
			core.StepCycle()
		}

		if core.TState() != test.TState ||
			core.PC() != test.PC ||
			len(core.Queue()) != test.Queue {
			t.Errorf(
				"State %d mismatch\nwant:%s pc=%#04x queue=%d\nhave:%s pc=%#04x queue=%d",
				i,
				test.TState,
				test.PC,
				test.Queue,
				core.TState(),
				core.PC(),
				len(core.Queue()),
			)
		}
	}

	want := []uint8{0x90, 0x40, 0x41, 0x42}
	have := core.Queue()

	for i := range want {
		if have[i] != want[i] {
			t.Errorf("Queue mismatch\nwant:% x\nhave:% x", want, have)
			break
		}
	}

	if core.IP() != CODE_OFFSET {
		t.Errorf("IP mismatch\nwant:%#04x\nhave:%#04x", CODE_OFFSET, core.IP())
	}

	if core.Cycles() != 50 {
		t.Errorf("Cycle count mismatch\nwant:50\nhave:%d", core.Cycles())
	}

	// Executing frees a slot and the held byte lands on the next cycle.
	advance(t, core, 1)

	if core.IP() != CODE_OFFSET+1 {
		t.Errorf("IP mismatch\nwant:%#04x\nhave:%#04x", CODE_OFFSET+1, core.IP())
	}

	if core.PC() != 0x105 {
		t.Errorf("PC mismatch\nwant:%#04x\nhave:%#04x", 0x105, core.PC())
	}
}

func TestBreakpoint(t *testing.T) {
	core, _ := newCore(t, []uint8{0x90, 0x90, 0xF4}, nil)

	core.SetBreakpoint(0x00101)

	type testCase struct {
		Status cpu.Status
		IP     uint16
	}

	testCases := []testCase{
		{cpu.STATUS_OKAY, 0x101},
		{cpu.STATUS_BREAKPOINT, 0x101},
		{cpu.STATUS_OKAY, 0x102},
		{cpu.STATUS_HALTED, 0x103},
		{cpu.STATUS_HALTED, 0x103},
	}

	for i, test := range testCases {
		status, err := core.Advance()

		if err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}

		if status != test.Status || core.IP() != test.IP {
			t.Errorf(
				"Step %d mismatch\nwant:%s ip=%#04x\nhave:%s ip=%#04x",
				i,
				test.Status,
				test.IP,
				status,
				core.IP(),
			)
		}
	}

	if bps := core.Breakpoints(); len(bps) != 1 || bps[0] != 0x00101 {
		t.Errorf("Breakpoint list mismatch\nwant:[0x101]\nhave:%#x", bps)
	}

	core.ClearBreakpoint(0x00101)

	if len(core.Breakpoints()) != 0 {
		t.Errorf("Expected breakpoints to be cleared")
	}

	// A halted core resumes after a jump.
	core.SetBreakpoint(0x00100)
	core.Jump(0x0000, CODE_OFFSET)

	if status, _ := core.Advance(); status != cpu.STATUS_BREAKPOINT {
		t.Errorf("Status mismatch\nwant:%s\nhave:%s", cpu.STATUS_BREAKPOINT, status)
	}

	core.ClearBreakpoints()

	if status, _ := core.Advance(); status != cpu.STATUS_OKAY {
		t.Errorf("Status mismatch\nwant:%s\nhave:%s", cpu.STATUS_OKAY, status)
	}
}

func TestDecodeErrors(t *testing.T) {
	type testCase struct {
		Name   string
		Code   []uint8
		Kind   cpu.DecodeErrorKind
		Target error
		Opcode uint8
		IP     uint16
	}

	testCases := []testCase{
		{"Unknown", []uint8{0x63}, cpu.DECODE_UNKNOWN_OPCODE, cpu.ErrUnknownOpcode, 0x63, 0x101},
		{"UnknownSALC", []uint8{0xD6}, cpu.DECODE_UNKNOWN_OPCODE, cpu.ErrUnknownOpcode, 0xD6, 0x101},
		{"Unimplemented", []uint8{0x27}, cpu.DECODE_UNIMPLEMENTED_OPCODE, cpu.ErrUnimplementedOpcode, 0x27, 0x101},
		{"UnimplementedString", []uint8{0xA4}, cpu.DECODE_UNIMPLEMENTED_OPCODE, cpu.ErrUnimplementedOpcode, 0xA4, 0x101},
		{"Prefixed", []uint8{0x2E, 0xF3, 0xC0}, cpu.DECODE_UNKNOWN_OPCODE, cpu.ErrUnknownOpcode, 0xC0, 0x103},
	}

	for _, test := range testCases {
		t.Run(test.Name, func(t *testing.T) {
			core, _ := newCore(t, test.Code, nil)

			_, err := core.Advance()

			if !errors.Is(err, test.Target) {
				t.Fatalf("Error mismatch\nwant:%v\nhave:%v", test.Target, err)
			}

			var decodeErr *cpu.DecodeError

			if !errors.As(err, &decodeErr) {
				t.Fatalf("Expected *cpu.DecodeError, have:%T", err)
			}

			if decodeErr.Kind != test.Kind || decodeErr.Opcode != test.Opcode {
				t.Errorf(
					"Decode error mismatch\nwant:%d %#02x\nhave:%d %#02x",
					test.Kind,
					test.Opcode,
					decodeErr.Kind,
					decodeErr.Opcode,
				)
			}

			if decodeErr.IP != CODE_OFFSET {
				t.Errorf("Reported IP mismatch\nwant:%#04x\nhave:%#04x", CODE_OFFSET, decodeErr.IP)
			}

			if core.IP() != test.IP {
				t.Errorf("IP mismatch\nwant:%#04x\nhave:%#04x", test.IP, core.IP())
			}
		})
	}
}

func TestMnemonicTable(t *testing.T) {
	unknown := map[uint8]bool{0xC0: true, 0xC1: true, 0xC8: true, 0xC9: true, 0xD6: true, 0xF1: true}

	for op := 0x60; op <= 0x6F; op++ {
		unknown[uint8(op)] = true
	}

	for op := 0; op <= 0xFF; op++ {
		_, ok := cpu.Mnemonic(uint8(op))

		if ok == unknown[uint8(op)] {
			t.Errorf("Mnemonic presence mismatch for %#02x\nwant:%v\nhave:%v", op, !unknown[uint8(op)], ok)
		}
	}
}

type testState struct {
	Registers cpu.Registers
	IP        uint16
	Memory    map[uint32]uint8
}

type testCase struct {
	Name   string
	Code   []uint8
	Steps  int
	Input  testState
	Output testState
}

func TestInstructions(t *testing.T) {
	testCases := []testCase{
		{
			Name:  "MovImmediate",
			Code:  []uint8{0xB8, 0x34, 0x12, 0xB3, 0x56},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x1234, BX: 0x0056, Flags: 0xF002},
				IP:        0x105,
			},
		},
		{
			Name:  "AddCarry",
			Code:  []uint8{0x04, 0x01},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x00FF, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x0000, Flags: 0xF057},
				IP:        0x102,
			},
		},
		{
			Name:  "SubBorrow",
			Code:  []uint8{0x2D, 0x01, 0x00},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0xFFFF, Flags: 0xF097},
				IP:        0x103,
			},
		},
		{
			Name:  "CmpEqual",
			Code:  []uint8{0x3C, 0x05},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x0005, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x0005, Flags: 0xF046},
				IP:        0x102,
			},
		},
		{
			Name:  "XorSelf",
			Code:  []uint8{0x31, 0xC0},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x1234, Flags: 0xF003}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF046},
				IP:        0x102,
			},
		},
		{
			Name:  "IncPreservesCarry",
			Code:  []uint8{0x40},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0xFFFF, Flags: 0xF003}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF057},
				IP:        0x101,
			},
		},
		{
			Name:  "DecOverflow",
			Code:  []uint8{0x48},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x8000, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x7FFF, Flags: 0xF816},
				IP:        0x101,
			},
		},
		{
			Name:  "Group1SignExtended",
			Code:  []uint8{0x83, 0xC0, 0xFF},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x0010, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x000F, Flags: 0xF007},
				IP:        0x103,
			},
		},
		{
			Name:  "PushPop",
			Code:  []uint8{0x50, 0x5B},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{AX: 0xBEEF, SP: 0x1000, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0xBEEF, BX: 0xBEEF, SP: 0x1000, Flags: 0xF002},
				IP:        0x102,
				Memory:    map[uint32]uint8{0x0FFE: 0xEF, 0x0FFF: 0xBE},
			},
		},
		{
			Name:  "PushStackPointer",
			Code:  []uint8{0x54},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{SP: 0x1000, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{SP: 0x0FFE, Flags: 0xF002},
				IP:        0x101,
				Memory:    map[uint32]uint8{0x0FFE: 0xFE, 0x0FFF: 0x0F},
			},
		},
		{
			Name:  "PushPopSegment",
			Code:  []uint8{0x06, 0x1F},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{ES: 0x1234, SP: 0x1000, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{ES: 0x1234, DS: 0x1234, SP: 0x1000, Flags: 0xF002},
				IP:        0x102,
				Memory:    map[uint32]uint8{0x0FFE: 0x34, 0x0FFF: 0x12},
			},
		},
		{
			Name:  "MovMemory",
			Code:  []uint8{0x89, 0x1E, 0x00, 0x02, 0x8B, 0x0E, 0x00, 0x02},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{BX: 0xCAFE, DS: 0x0010, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{BX: 0xCAFE, CX: 0xCAFE, DS: 0x0010, Flags: 0xF002},
				IP:        0x108,
				Memory:    map[uint32]uint8{0x300: 0xFE, 0x301: 0xCA},
			},
		},
		{
			Name:  "SegmentOverride",
			Code:  []uint8{0x26, 0x88, 0x07},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x0042, BX: 0x0010, ES: 0x0020, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x0042, BX: 0x0010, ES: 0x0020, Flags: 0xF002},
				IP:        0x103,
				Memory:    map[uint32]uint8{0x210: 0x42},
			},
		},
		{
			Name:  "MovMemoryImmediate",
			Code:  []uint8{0xC6, 0x06, 0x00, 0x03, 0x7F},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF002},
				IP:        0x105,
				Memory:    map[uint32]uint8{0x300: 0x7F},
			},
		},
		{
			Name:  "MovAccumulatorOffset",
			Code:  []uint8{0xA3, 0x00, 0x04, 0xA0, 0x01, 0x04},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{AX: 0x5566, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x5555, Flags: 0xF002},
				IP:        0x106,
				Memory:    map[uint32]uint8{0x400: 0x66, 0x401: 0x55},
			},
		},
		{
			Name:  "Lea",
			Code:  []uint8{0x8D, 0x47, 0x10},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{BX: 0x0100, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x0110, BX: 0x0100, Flags: 0xF002},
				IP:        0x103,
			},
		},
		{
			Name:  "Xchg",
			Code:  []uint8{0x93},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x0001, BX: 0x0002, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x0002, BX: 0x0001, Flags: 0xF002},
				IP:        0x101,
			},
		},
		{
			Name:  "Cbw",
			Code:  []uint8{0x98},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{AX: 0x0080, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0xFF80, Flags: 0xF002},
				IP:        0x101,
			},
		},
		{
			Name:  "JumpTaken",
			Code:  []uint8{0x74, 0x02},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{Flags: 0xF042}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF042},
				IP:        0x104,
			},
		},
		{
			Name:  "JumpNotTaken",
			Code:  []uint8{0x74, 0x02},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF002},
				IP:        0x102,
			},
		},
		{
			Name:  "JumpBackward",
			Code:  []uint8{0x90, 0xEB, 0xFD},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF002},
				IP:        0x100,
			},
		},
		{
			Name:  "Loop",
			Code:  []uint8{0xB9, 0x03, 0x00, 0x40, 0xE2, 0xFD},
			Steps: 7,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{AX: 0x0003, Flags: 0xF006},
				IP:        0x106,
			},
		},
		{
			Name:  "CallReturn",
			Code:  []uint8{0xE8, 0x02, 0x00, 0xF4, 0x90, 0xC3},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{SP: 0x1000, Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{SP: 0x1000, Flags: 0xF002},
				IP:        0x103,
				Memory:    map[uint32]uint8{0x0FFE: 0x03, 0x0FFF: 0x01},
			},
		},
		{
			Name:  "JumpFar",
			Code:  []uint8{0xEA, 0x34, 0x00, 0x00, 0x02},
			Steps: 1,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{CS: 0x0200, Flags: 0xF002},
				IP:        0x0034,
			},
		},
		{
			Name:  "FlagOps",
			Code:  []uint8{0xF9, 0xFD, 0xFB, 0xF5},
			Steps: 4,
			Input: testState{Registers: cpu.Registers{Flags: 0xF002}},
			Output: testState{
				Registers: cpu.Registers{Flags: 0xF602},
				IP:        0x104,
			},
		},
		{
			Name:  "PushfPopf",
			Code:  []uint8{0x9C, 0x9D},
			Steps: 2,
			Input: testState{Registers: cpu.Registers{SP: 0x1000, Flags: 0xF8D5}},
			Output: testState{
				Registers: cpu.Registers{SP: 0x1000, Flags: 0xF8D7},
				IP:        0x102,
				Memory:    map[uint32]uint8{0x0FFE: 0xD5, 0x0FFF: 0xF8},
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.Name, func(t *testing.T) {
			core, b := newCore(t, test.Code, nil)

			core.Registers = test.Input.Registers
			core.Jump(test.Input.Registers.CS, CODE_OFFSET)

			for addr, value := range test.Input.Memory {
				if err := b.Write8(addr, value); err != nil {
					t.Fatalf("Failed to set memory: %v", err)
				}
			}

			advance(t, core, test.Steps)

			if core.Registers != test.Output.Registers {
				t.Errorf(
					"Register mismatch\nwant:%+v\nhave:%+v",
					test.Output.Registers,
					core.Registers,
				)
			}

			if core.IP() != test.Output.IP {
				t.Errorf("IP mismatch\nwant:%#04x\nhave:%#04x", test.Output.IP, core.IP())
			}

			for addr, want := range test.Output.Memory {
				have, err := b.Read8(addr)

				if err != nil {
					t.Fatalf("Failed to read memory: %v", err)
				}

				if have != want {
					t.Errorf(
						"Memory mismatch at %#05x\nwant:%#02x\nhave:%#02x",
						addr,
						want,
						have,
					)
				}
			}
		})
	}
}

func TestPortIO(t *testing.T) {
	controller, err := fdc.New()

	if err != nil {
		t.Fatalf("Failed to create controller: %v", err)
	}

	ports, err := device.NewPortBus()

	if err != nil {
		t.Fatalf("Failed to create port bus: %v", err)
	}

	if err := ports.Attach(controller); err != nil {
		t.Fatalf("Failed to attach controller: %v", err)
	}

	code := []uint8{
		0xBA, 0xF4, 0x03, // MOV DX, 0x3F4
		0xEC,       // IN AL, DX
		0x42,       // INC DX
		0xB0, 0x03, // MOV AL, 0x03
		0xEE,       // OUT DX, AL
		0xE4, 0x80, // IN AL, 0x80
	}

	core, _ := newCore(t, code, ports)

	advance(t, core, 2)

	if core.Registers.AX&0xFF != 0x80 {
		t.Errorf("Status mismatch\nwant:%#02x\nhave:%#02x", 0x80, core.Registers.AX&0xFF)
	}

	advance(t, core, 3)

	if controller.Phase() != fdc.PHASE_COMMAND {
		t.Errorf("Phase mismatch\nwant:%s\nhave:%s", fdc.PHASE_COMMAND, controller.Phase())
	}

	advance(t, core, 1)

	if core.Registers.AX&0xFF != 0xFF {
		t.Errorf("Unmapped port mismatch\nwant:0xff\nhave:%#02x", core.Registers.AX&0xFF)
	}
}

type countingDebugger struct {
	steps  int
	reads  []uint32
	writes []uint32
}

func (d *countingDebugger) Step(core *cpu.I8088) {
	d.steps++
}

func (d *countingDebugger) Read(addr uint32, core *cpu.I8088) {
	d.reads = append(d.reads, addr)
}

func (d *countingDebugger) Write(addr uint32, core *cpu.I8088) {
	d.writes = append(d.writes, addr)
}

func TestDebuggerHooks(t *testing.T) {
	// MOV [0x0200], AX; MOV BX, [0x0200]
	core, _ := newCore(t, []uint8{0xA3, 0x00, 0x02, 0x8B, 0x1E, 0x00, 0x02}, nil)

	dbg := &countingDebugger{}
	core.Debugger = dbg

	advance(t, core, 2)

	if dbg.steps != 2 {
		t.Errorf("Step count mismatch\nwant:2\nhave:%d", dbg.steps)
	}

	want := []uint32{0x200, 0x201}

	if len(dbg.writes) != 2 || dbg.writes[0] != want[0] || dbg.writes[1] != want[1] {
		t.Errorf("Write hook mismatch\nwant:%#x\nhave:%#x", want, dbg.writes)
	}

	if len(dbg.reads) != 2 || dbg.reads[0] != want[0] || dbg.reads[1] != want[1] {
		t.Errorf("Read hook mismatch\nwant:%#x\nhave:%#x", want, dbg.reads)
	}
}

type jumpingDebugger struct {
	target uint16
	jumped bool
}

func (d *jumpingDebugger) Step(core *cpu.I8088) {
	if !d.jumped {
		d.jumped = true
		core.Jump(core.Registers.CS, d.target)
	}
}

func (d *jumpingDebugger) Read(addr uint32, core *cpu.I8088)  {}
func (d *jumpingDebugger) Write(addr uint32, core *cpu.I8088) {}

func TestDecodeErrorAfterDebuggerJump(t *testing.T) {
	core, b := newCore(t, []uint8{0x90}, nil)

	if err := b.Write8(0x00300, 0x63); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	core.Debugger = &jumpingDebugger{target: 0x0300}

	_, err := core.Advance()

	var decodeErr *cpu.DecodeError

	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected *cpu.DecodeError, have:%v", err)
	}

	if decodeErr.CS != 0x0000 || decodeErr.IP != 0x0300 {
		t.Errorf(
			"Reported address mismatch\nwant:0000:0300\nhave:%04X:%04X",
			decodeErr.CS,
			decodeErr.IP,
		)
	}

	if core.IP() != 0x0301 {
		t.Errorf("IP mismatch\nwant:0x0301\nhave:%#04x", core.IP())
	}
}

func TestMemoryAtTopOfAddressSpace(t *testing.T) {
	// MOV [0xFFFF], AX; MOV BX, [0xFFFF]
	core, b := newCore(t, []uint8{0xA3, 0xFF, 0xFF, 0x8B, 0x1E, 0xFF, 0xFF}, nil)

	core.Registers.DS = 0xF000
	core.Registers.AX = 0xBEEF

	advance(t, core, 2)

	high, _ := b.Read8(0xFFFFF)
	low, _ := b.Read8(0xF0000)

	if high != 0xEF || low != 0xBE {
		t.Errorf("Memory mismatch\nwant:ef be\nhave:%02x %02x", high, low)
	}

	if core.Registers.BX != 0xBEEF {
		t.Errorf("BX mismatch\nwant:0xbeef\nhave:%#04x", core.Registers.BX)
	}
}
