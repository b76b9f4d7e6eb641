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
	"testing"

	"github.com/lassandro/go5150/pkg/bus"
)

// stalled returns a core whose queue is full and whose next fetch is held
// at T4.
func stalled(t *testing.T) *I8088 {
	t.Helper()

	cpu := New(bus.New(), nil)
	cpu.Jump(0x0000, 0x0000)
	cpu.wait(30)

	if cpu.tstate != T4 || !cpu.queue.Full() {
		t.Fatalf("Expected stalled fetch, have:%s queue=%d", cpu.tstate, cpu.queue.Size())
	}

	return cpu
}

func TestStalledFetchYieldsToExecutionUnit(t *testing.T) {
	cpu := stalled(t)

	addr := bus.PhysicalAddress(0x0000, 0x0500)
	cpu.transact(TRANSFER_MEM_WRITE, addr, 0x7F)

	value, err := cpu.bus.Read8(addr)

	if err != nil {
		t.Fatalf("Failed to read: %v", err)
	}

	if value != 0x7F {
		t.Errorf("Value mismatch\nwant:%#02x\nhave:%#02x", 0x7F, value)
	}

	// One cycle to drop the fetch, six for the write.
	if cpu.cycles != 37 {
		t.Errorf("Cycle count mismatch\nwant:37\nhave:%d", cpu.cycles)
	}

	if cpu.pc != 4 || cpu.queue.Size() != 4 {
		t.Errorf(
			"Prefetch state mismatch\nwant:pc=4 queue=4\nhave:pc=%d queue=%d",
			cpu.pc,
			cpu.queue.Size(),
		)
	}
}

func TestFlushDropsFetch(t *testing.T) {
	cpu := stalled(t)

	cpu.jump(0x0010)

	if cpu.tstate != TS || !cpu.queue.Empty() {
		t.Errorf(
			"Pipeline mismatch\nwant:TS queue=0\nhave:%s queue=%d",
			cpu.tstate,
			cpu.queue.Size(),
		)
	}

	if cpu.IP() != 0x0010 {
		t.Errorf("IP mismatch\nwant:%#04x\nhave:%#04x", 0x0010, cpu.IP())
	}

	// A flush between prefetches leaves an execution unit transfer alone.
	cpu.current = transfer{kind: TRANSFER_MEM_READ}
	cpu.tstate = T2
	cpu.flush()

	if cpu.tstate != T2 {
		t.Errorf("Expected transfer to survive flush, have:%s", cpu.tstate)
	}
}

func TestParity(t *testing.T) {
	type testCase struct {
		Value  uint8
		Parity bool
	}

	testCases := []testCase{
		{0x00, true},
		{0x01, false},
		{0x03, true},
		{0x07, false},
		{0xFF, true},
		{0x80, false},
	}

	for _, test := range testCases {
		if parity(test.Value) != test.Parity {
			t.Errorf(
				"Parity mismatch for %#02x\nwant:%v\nhave:%v",
				test.Value,
				test.Parity,
				!test.Parity,
			)
		}
	}
}
