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

// StepCycle advances the bus interface unit by exactly one T-state.
//
// A transaction is started from TS and completes at T4. Requests from the
// execution unit are served before prefetches. A prefetch that completes
// while the queue is full holds the bus at T4 until the queue drains or the
// execution unit needs the bus, in which case the fetch is dropped.
func (cpu *I8088) StepCycle() {
	cpu.cycles++

	switch cpu.tstate {
	case TS:
		cpu.begin()
	case T0:
		cpu.tstate = T1
	case T1:
		cpu.tstate = T2
	case T2:
		cpu.tstate = T3
	case T3:
		cpu.tstate = T4
	case T4:
		cpu.complete()
	}
}

func (cpu *I8088) begin() {
	if cpu.request != nil {
		cpu.current = *cpu.request
	} else {
		cpu.current = transfer{
			kind: TRANSFER_FETCH,
			addr: bus.PhysicalAddress(cpu.Registers.CS, cpu.pc),
		}
	}

	cpu.tstate = T0
}

func (cpu *I8088) complete() {
	switch cpu.current.kind {
	case TRANSFER_FETCH:
		if cpu.queue.Full() {
			if cpu.request != nil {
				cpu.idle()
			}

			return
		}

		cpu.queue.Push(cpu.bus.Fetch8(cpu.current.addr))
		cpu.pc++
		cpu.idle()
		return

	// Transfer addresses come from the latch, which masks them to 20 bits,
	// so the bus never rejects them.
	case TRANSFER_MEM_READ:
		cpu.request.value, _ = cpu.bus.Read8(cpu.current.addr)

	case TRANSFER_MEM_WRITE:
		cpu.bus.Write8(cpu.current.addr, cpu.current.value)

	case TRANSFER_IO_READ:
		cpu.request.value = 0xFF

		if cpu.ports != nil {
			cpu.request.value = cpu.ports.In(uint16(cpu.current.addr))
		}

	case TRANSFER_IO_WRITE:
		if cpu.ports != nil {
			cpu.ports.Out(uint16(cpu.current.addr), cpu.current.value)
		}
	}

	cpu.request.done = true
	cpu.request = nil
	cpu.idle()
}

func (cpu *I8088) idle() {
	cpu.current = transfer{}
	cpu.tstate = TS
}

// transact hands a transaction to the bus interface unit and clocks it
// until the transaction is done.
func (cpu *I8088) transact(kind transferKind, addr uint32, value uint8) uint8 {
	request := &transfer{kind: kind, addr: addr, value: value}
	cpu.request = request

	for !request.done {
		cpu.StepCycle()
	}

	return request.value
}

// flush empties the prefetch queue and drops a fetch in flight.
func (cpu *I8088) flush() {
	cpu.queue.Drain()

	if cpu.current.kind == TRANSFER_FETCH {
		cpu.idle()
	}
}

func (cpu *I8088) jump(ip uint16) {
	cpu.pc = ip
	cpu.flush()
}

func (cpu *I8088) wait(cycles int) {
	for i := 0; i < cycles; i++ {
		cpu.StepCycle()
	}
}
