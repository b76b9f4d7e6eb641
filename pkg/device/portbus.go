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

package device

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

var ErrPortConflict = errors.New("port already mapped")

// PortBus routes byte-wide port accesses to the device that owns the port.
type PortBus struct {
	devices []PortDevice
	ports   map[uint16]PortDevice
	logger  *log.Logger
}

func NewPortBus(options ...func(*PortBus) error) (*PortBus, error) {
	pb := &PortBus{
		ports:  make(map[uint16]PortDevice),
		logger: log.Default(),
	}

	for i, option := range options {
		if err := option(pb); err != nil {
			return nil, fmt.Errorf("failed to set option index %d, err=%v", i, err)
		}
	}

	return pb, nil
}

func WithLogger(logger *log.Logger) func(*PortBus) error {
	return func(pb *PortBus) error {
		if logger == nil {
			return errors.New("nil logger")
		}

		pb.logger = logger
		return nil
	}
}

// Attach maps every port the device owns. Nothing is mapped if any port is
// already taken.
func (pb *PortBus) Attach(dev PortDevice) error {
	for _, port := range dev.Ports() {
		if _, exists := pb.ports[port]; exists {
			return fmt.Errorf("%w: %#04x", ErrPortConflict, port)
		}
	}

	for _, port := range dev.Ports() {
		pb.ports[port] = dev
	}

	pb.devices = append(pb.devices, dev)
	return nil
}

func (pb *PortBus) Devices() []PortDevice {
	return pb.devices
}

func (pb *PortBus) Device(port uint16) (PortDevice, bool) {
	dev, exists := pb.ports[port]
	return dev, exists
}

func (pb *PortBus) In(port uint16) uint8 {
	if dev, exists := pb.ports[port]; exists {
		return dev.ReadPort(port)
	}

	pb.logger.Printf("reading unmapped IO port: %#04x", port)
	return 0xFF
}

func (pb *PortBus) Out(port uint16, value uint8) {
	if dev, exists := pb.ports[port]; exists {
		dev.WritePort(port, value)
		return
	}

	pb.logger.Printf("writing unmapped IO port: %#04x (%#02x)", port, value)
}

func (pb *PortBus) Advance(cycles uint32) {
	for _, dev := range pb.devices {
		dev.Advance(cycles)
	}
}

func (pb *PortBus) Summary() string {
	var sb strings.Builder

	for _, dev := range pb.devices {
		sb.WriteString(dev.Summary())
		sb.WriteString("\n")
	}

	return sb.String()
}
