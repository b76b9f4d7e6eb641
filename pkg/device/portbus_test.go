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

package device_test

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	"github.com/lassandro/go5150/pkg/device"
)

type latchDevice struct {
	ports  []uint16
	values map[uint16]uint8
	cycles uint32
}

func newLatchDevice(ports ...uint16) *latchDevice {
	return &latchDevice{ports: ports, values: make(map[uint16]uint8)}
}

func (d *latchDevice) ReadPort(port uint16) uint8 {
	return d.values[port]
}

func (d *latchDevice) WritePort(port uint16, value uint8) {
	d.values[port] = value
}

func (d *latchDevice) Ports() []uint16 {
	return d.ports
}

func (d *latchDevice) Advance(cycles uint32) {
	d.cycles += cycles
}

func (d *latchDevice) Summary() string {
	return fmt.Sprintf("latch %v", d.ports)
}

func newPortBus(t *testing.T, logs *bytes.Buffer) *device.PortBus {
	t.Helper()

	pb, err := device.NewPortBus(device.WithLogger(log.New(logs, "", 0)))

	if err != nil {
		t.Fatal(err)
	}

	return pb
}

func TestPortBusDispatch(t *testing.T) {
	var logs bytes.Buffer
	pb := newPortBus(t, &logs)
	dev := newLatchDevice(0x60, 0x61)

	if err := pb.Attach(dev); err != nil {
		t.Fatal(err)
	}

	pb.Out(0x61, 0x5A)

	if have := pb.In(0x61); have != 0x5A {
		t.Errorf("In(0x61)\nwant:0x5a\nhave:%#02x", have)
	}

	if have := pb.In(0x3F8); have != 0xFF {
		t.Errorf("Unmapped In\nwant:0xff\nhave:%#02x", have)
	}

	if !strings.Contains(logs.String(), "unmapped") {
		t.Errorf("Unmapped access not logged\nhave:%q", logs.String())
	}

	pb.Advance(12)
	pb.Advance(4)

	if dev.cycles != 16 {
		t.Errorf("Advance\nwant:16\nhave:%d", dev.cycles)
	}

	if have, ok := pb.Device(0x60); !ok || have != dev {
		t.Error("Device(0x60) did not return the owner")
	}
}

func TestPortBusConflict(t *testing.T) {
	var logs bytes.Buffer
	pb := newPortBus(t, &logs)

	if err := pb.Attach(newLatchDevice(0x3F2, 0x3F4)); err != nil {
		t.Fatal(err)
	}

	second := newLatchDevice(0x3F0, 0x3F4)

	if err := pb.Attach(second); !errors.Is(err, device.ErrPortConflict) {
		t.Fatalf("Attach\nwant:%v\nhave:%v", device.ErrPortConflict, err)
	}

	if _, ok := pb.Device(0x3F0); ok {
		t.Error("Rejected device was partially mapped")
	}

	if have := len(pb.Devices()); have != 1 {
		t.Errorf("Devices\nwant:1\nhave:%d", have)
	}
}

func TestPortBusNilLogger(t *testing.T) {
	if _, err := device.NewPortBus(device.WithLogger(nil)); err == nil {
		t.Error("nil logger accepted")
	}
}
