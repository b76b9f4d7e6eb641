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
	"log"
	"strings"

	"github.com/lassandro/go5150/pkg/queue"
)

type activeCommand struct {
	command   Command
	modifiers uint8
	params    *queue.StaticQueue[uint8]
	remaining int
}

type interruptStatus struct {
	st0 uint8
	pcn uint8
}

type drive struct {
	disk       *Diskette
	cylinder   uint8
	seekCycles uint32
}

type specifyParams struct {
	stepRate   uint8
	headUnload uint8
	headLoad   uint8
	nonDMA     bool
}

// Controller emulates the NEC uPD765A floppy disk controller and the
// Digital Output Register of the IBM 5150 diskette adapter.
type Controller struct {
	dor   uint8
	phase Phase
	irq   bool

	// Last byte the processor read from the data register.
	data uint8

	active activeCommand

	// Bytes waiting to be read by the processor: sector data first, then
	// the result bytes.
	fifo *queue.DynamicQueue[uint8]

	// Bytes staged by the DMA channel for write, format and scan commands.
	host *queue.DynamicQueue[uint8]

	interrupts *queue.StaticQueue[interruptStatus]
	drives     [MAX_DRIVES]drive
	specify    specifyParams

	logger *log.Logger
}

func New(options ...func(*Controller) error) (*Controller, error) {
	fdc := &Controller{
		dor:        uint8(DOR_NOT_RESET | DOR_DMA_ENABLE),
		data:       0xFF,
		fifo:       queue.NewDynamicQueue[uint8](16, FIFO_LIMIT),
		host:       queue.NewDynamicQueue[uint8](16, FIFO_LIMIT),
		interrupts: queue.NewStaticQueue[interruptStatus](MAX_DRIVES),
		logger:     log.Default(),
	}

	fdc.active.params = queue.NewStaticQueue[uint8](MAX_PARAMETERS)

	for i, option := range options {
		if err := option(fdc); err != nil {
			return nil, fmt.Errorf("failed to set option index %d, err=%v", i, err)
		}
	}

	return fdc, nil
}

func WithLogger(logger *log.Logger) func(*Controller) error {
	return func(fdc *Controller) error {
		if logger == nil {
			return errors.New("nil logger")
		}

		fdc.logger = logger
		return nil
	}
}

func (fdc *Controller) Ports() []uint16 {
	return []uint16{
		PORT_DIGITAL_OUTPUT_REG,
		PORT_MAIN_STATUS_REG,
		PORT_DATA_REG,
	}
}

func (fdc *Controller) ReadPort(port uint16) uint8 {
	switch port {
	case PORT_MAIN_STATUS_REG:
		return fdc.Status()
	case PORT_DATA_REG:
		return fdc.readData()
	}

	return 0xFF
}

func (fdc *Controller) WritePort(port uint16, value uint8) {
	switch port {
	case PORT_DIGITAL_OUTPUT_REG:
		fdc.writeDOR(value)
	case PORT_DATA_REG:
		fdc.writeData(value)
	default:
		fdc.logger.Printf("fdc: write to read-only port %#04x", port)
	}
}

// Advance runs down seek timers and lets a command waiting in the execution
// phase complete.
func (fdc *Controller) Advance(cycles uint32) {
	for i := range fdc.drives {
		if fdc.drives[i].seekCycles > cycles {
			fdc.drives[i].seekCycles -= cycles
		} else {
			fdc.drives[i].seekCycles = 0
		}
	}

	if fdc.phase == PHASE_EXECUTION {
		fdc.execute()
	}
}

func (fdc *Controller) held() bool {
	return DORFlag(fdc.dor)&DOR_NOT_RESET == 0
}

func (fdc *Controller) Phase() Phase {
	return fdc.phase
}

// ActiveCommand reports the command selected by the last command byte.
func (fdc *Controller) ActiveCommand() (Command, bool) {
	if fdc.phase == PHASE_NONE {
		return 0, false
	}

	return fdc.active.command, true
}

// PendingParameters is the number of parameter bytes still expected.
func (fdc *Controller) PendingParameters() int {
	if fdc.phase != PHASE_COMMAND {
		return 0
	}

	return fdc.active.remaining
}

func (fdc *Controller) DOR() uint8 {
	return fdc.dor
}

// InterruptPending reports the state of the IRQ 6 line.
func (fdc *Controller) InterruptPending() bool {
	return fdc.irq && DORFlag(fdc.dor)&DOR_DMA_ENABLE != 0
}

// Status computes the Main Status Register.
func (fdc *Controller) Status() uint8 {
	if fdc.held() {
		return 0
	}

	var msr MSRFlag

	for i, drive := range fdc.drives {
		if drive.seekCycles > 0 {
			msr |= MSR_SEEK_BUSY_A << i
		}
	}

	if fdc.specify.nonDMA {
		msr |= MSR_NON_DMA
	}

	switch fdc.phase {
	case PHASE_NONE:
		msr |= MSR_REQUEST_FOR_MASTER
	case PHASE_COMMAND:
		msr |= MSR_REQUEST_FOR_MASTER | MSR_FDC_BUSY
	case PHASE_EXECUTION:
		msr |= MSR_FDC_BUSY
	case PHASE_RESULT:
		msr |= MSR_REQUEST_FOR_MASTER

		if !fdc.fifo.Empty() {
			msr |= MSR_FDC_BUSY | MSR_DATA_INPUT
		}
	}

	return uint8(msr)
}

// Insert places a diskette in a drive, replacing any diskette present.
func (fdc *Controller) Insert(unit int, disk *Diskette) error {
	if unit < 0 || unit >= MAX_DRIVES {
		return fmt.Errorf("invalid drive %d", unit)
	}

	fdc.drives[unit].disk = disk
	return nil
}

func (fdc *Controller) Eject(unit int) (*Diskette, error) {
	if unit < 0 || unit >= MAX_DRIVES {
		return nil, fmt.Errorf("invalid drive %d", unit)
	}

	disk := fdc.drives[unit].disk
	fdc.drives[unit].disk = nil

	return disk, nil
}

func (fdc *Controller) Cylinder(unit int) uint8 {
	return fdc.drives[unit&(MAX_DRIVES-1)].cylinder
}

// Supply stages bytes the DMA channel delivers to write, format and scan
// commands, and the target cylinder of a seek.
func (fdc *Controller) Supply(data []byte) error {
	return fdc.host.Extend(data)
}

func (fdc *Controller) writeDOR(value uint8) {
	wasHeld := fdc.held()
	fdc.dor = value

	if fdc.held() {
		fdc.reset()
	} else if wasHeld {
		// Leaving reset reports a ready line change for every drive.
		for i := range fdc.drives {
			fdc.interrupts.TryPush(interruptStatus{
				st0: ST0_READY_CHANGED | uint8(i),
				pcn: fdc.drives[i].cylinder,
			})
		}

		fdc.irq = true
	}
}

func (fdc *Controller) reset() {
	fdc.phase = PHASE_NONE
	fdc.data = 0xFF
	fdc.irq = false
	fdc.active.params.Clear()
	fdc.active.remaining = 0
	fdc.fifo.Clear()
	fdc.host.Clear()
	fdc.interrupts.Clear()
}

func (fdc *Controller) writeData(value uint8) {
	if fdc.held() {
		return
	}

	switch fdc.phase {
	case PHASE_NONE:
		fdc.selectCommand(value)

	case PHASE_COMMAND:
		fdc.active.params.Push(value)
		fdc.active.remaining--

		if fdc.active.remaining == 0 {
			fdc.phase = PHASE_EXECUTION
		}

	case PHASE_EXECUTION:
		// The byte carries no meaning here; it only prompts the
		// controller to run the command.
		fdc.execute()

	case PHASE_RESULT:
		fdc.fifo.Clear()
		fdc.phase = PHASE_NONE
		fdc.selectCommand(value)
	}
}

func (fdc *Controller) readData() uint8 {
	if fdc.held() {
		return 0xFF
	}

	if fdc.phase == PHASE_EXECUTION {
		fdc.execute()
	}

	if fdc.phase != PHASE_RESULT {
		return fdc.data
	}

	if value, ok := fdc.fifo.Pop(); ok {
		fdc.data = value
		fdc.irq = false

		if fdc.fifo.Empty() {
			fdc.phase = PHASE_NONE
		}
	}

	return fdc.data
}

func (fdc *Controller) selectCommand(value uint8) {
	command, err := DecodeCommand(value)

	if err != nil {
		fdc.logger.Printf("fdc: %v", err)
		return
	}

	fdc.active.command = command
	fdc.active.modifiers = value &^ COMMAND_MASK
	fdc.active.params.Clear()
	fdc.active.remaining = command.Parameters()
	fdc.phase = PHASE_COMMAND

	if fdc.active.remaining == 0 {
		fdc.phase = PHASE_EXECUTION
	}
}

func (fdc *Controller) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(
		&sb,
		"uPD765 phase=%s msr=%#02x dor=%#02x irq=%v",
		fdc.phase,
		fdc.Status(),
		fdc.dor,
		fdc.InterruptPending(),
	)

	if command, ok := fdc.ActiveCommand(); ok {
		fmt.Fprintf(
			&sb,
			" cmd=%s params=% x",
			command,
			fdc.active.params.Values(),
		)
	}

	for i, drive := range fdc.drives {
		fmt.Fprintf(&sb, "\n  drive %c: cyl=%d", 'A'+i, drive.cylinder)

		if drive.disk != nil {
			g := drive.disk.Geometry()
			fmt.Fprintf(
				&sb,
				" disk=%d/%d/%d",
				g.Cylinders,
				g.Heads,
				g.SectorsPerTrack,
			)
		}
	}

	return sb.String()
}
