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

// transfer holds the eight parameter bytes shared by the read, write and
// scan commands.
type transfer struct {
	unit     uint8
	head     uint8
	cylinder uint8
	idHead   uint8
	sector   uint8
	sizeCode uint8
	eot      uint8
	gpl      uint8
	dtl      uint8
}

func (fdc *Controller) params() []uint8 {
	params := fdc.active.params.Values()

	for len(params) < MAX_PARAMETERS {
		params = append(params, 0)
	}

	return params
}

func (fdc *Controller) transferParams() transfer {
	p := fdc.params()

	return transfer{
		unit:     p[0] & 0x3,
		head:     (p[0] >> 2) & 0x1,
		cylinder: p[1],
		idHead:   p[2],
		sector:   p[3],
		sizeCode: p[4],
		eot:      p[5],
		gpl:      p[6],
		dtl:      p[7],
	}
}

func (fdc *Controller) multiTrack() bool {
	return fdc.active.modifiers&MODIFIER_MT != 0
}

// ready returns the drive if a diskette is present and its motor is on.
func (fdc *Controller) ready(unit uint8) (*drive, bool) {
	drive := &fdc.drives[unit]
	motor := DORFlag(fdc.dor) & (DOR_MOTOR_A << unit)

	return drive, drive.disk != nil && motor != 0
}

func (fdc *Controller) result(values ...uint8) {
	fdc.fifo.TryExtend(values)
}

func (fdc *Controller) transferResult(t transfer, st0, st1, st2 uint8) {
	if st0&ST0_INVALID == 0 {
		fdc.irq = true
	}

	fdc.result(
		st0|t.head<<2|t.unit,
		st1,
		st2,
		t.cylinder,
		t.idHead,
		t.sector,
		t.sizeCode,
	)
}

func (fdc *Controller) execute() {
	fdc.fifo.Clear()

	switch fdc.active.command {
	case COMMAND_READ_DATA, COMMAND_READ_DELETED_DATA, COMMAND_READ_TRACK:
		fdc.readSectors()
	case COMMAND_WRITE_DATA, COMMAND_WRITE_DELETED_DATA:
		fdc.writeSectors()
	case COMMAND_READ_ID:
		fdc.readID()
	case COMMAND_FORMAT_TRACK:
		fdc.formatTrack()
	case COMMAND_SCAN_EQUAL, COMMAND_SCAN_LOW_OR_EQUAL, COMMAND_SCAN_HIGH_OR_EQUAL:
		fdc.scan()
	case COMMAND_RECALIBRATE:
		fdc.recalibrate()
	case COMMAND_SENSE_INTERRUPT_STATUS:
		fdc.senseInterruptStatus()
	case COMMAND_SPECIFY:
		fdc.setSpecify()
	case COMMAND_SENSE_DRIVE_STATUS:
		fdc.senseDriveStatus()
	case COMMAND_SEEK:
		fdc.seek()
	}

	fdc.phase = PHASE_RESULT
}

// locate checks the drive and the requested sector ID, returning the
// diskette on success and the error status bits otherwise.
func (fdc *Controller) locate(t transfer) (*Diskette, uint8, uint8, uint8) {
	drive, ok := fdc.ready(t.unit)

	if !ok {
		return nil, ST0_ABNORMAL | ST0_NOT_READY, 0, 0
	}

	disk := drive.disk
	g := disk.Geometry()

	if _, err := SectorSize(t.sizeCode); err != nil {
		fdc.logger.Printf("fdc: %s: %v", fdc.active.command, err)
		return nil, ST0_ABNORMAL, ST1_NO_DATA, 0
	}

	if t.sizeCode != g.SizeCode || int(t.head) >= g.Heads {
		return nil, ST0_ABNORMAL, ST1_NO_DATA, 0
	}

	if t.cylinder != drive.cylinder {
		return nil, ST0_ABNORMAL, ST1_NO_DATA, ST2_WRONG_CYLINDER
	}

	return disk, 0, 0, 0
}

// advanceID moves the result ID past the last sector transferred.
func (fdc *Controller) advanceID(t *transfer, g Geometry) {
	if t.sector != t.eot {
		t.sector++
		return
	}

	t.sector = 1

	if fdc.multiTrack() && t.head == 0 && g.Heads > 1 {
		t.head = 1
		t.idHead ^= 1
		return
	}

	if fdc.multiTrack() {
		t.head = 0
		t.idHead ^= 1
	}

	t.cylinder++
}

func (fdc *Controller) readSectors() {
	t := fdc.transferParams()
	disk, st0, st1, st2 := fdc.locate(t)

	if disk == nil {
		fdc.transferResult(t, st0, st1, st2)
		return
	}

	g := disk.Geometry()

	if fdc.active.command == COMMAND_READ_TRACK {
		t.sector = 1
	}

	for {
		data, err := disk.ReadSector(t.cylinder, t.head, t.sector)

		if err != nil {
			fdc.transferResult(t, ST0_ABNORMAL, ST1_NO_DATA, 0)
			return
		}

		if _, err := fdc.fifo.TryExtend(data); err != nil {
			fdc.fifo.Clear()
			fdc.transferResult(t, ST0_ABNORMAL, ST1_OVERRUN, 0)
			return
		}

		if fdc.active.command == COMMAND_READ_DELETED_DATA {
			// Images carry no deleted address marks: every sector is a
			// normal one, which ends a deleted-data read.
			st2 |= ST2_CONTROL_MARK
			fdc.advanceID(&t, g)
			break
		}

		last := t.sector == t.eot
		wrapHead := last && fdc.multiTrack() && t.head == 0 && g.Heads > 1

		fdc.advanceID(&t, g)

		if last && !wrapHead {
			break
		}
	}

	fdc.transferResult(t, ST0_NORMAL, 0, st2)
}

func (fdc *Controller) writeSectors() {
	t := fdc.transferParams()
	disk, st0, st1, st2 := fdc.locate(t)

	if disk == nil {
		fdc.transferResult(t, st0, st1, st2)
		return
	}

	if disk.WriteProtected() {
		fdc.transferResult(t, ST0_ABNORMAL, ST1_NOT_WRITABLE, 0)
		return
	}

	g := disk.Geometry()
	size := g.SectorSize()

	for {
		if fdc.host.Size() < size {
			fdc.transferResult(t, ST0_ABNORMAL, ST1_OVERRUN, 0)
			return
		}

		err := disk.WriteSector(
			t.cylinder, t.head, t.sector, fdc.host.DrainPart(size),
		)

		if err != nil {
			fdc.transferResult(t, ST0_ABNORMAL, ST1_NO_DATA, 0)
			return
		}

		last := t.sector == t.eot
		wrapHead := last && fdc.multiTrack() && t.head == 0 && g.Heads > 1

		fdc.advanceID(&t, g)

		if last && !wrapHead {
			break
		}
	}

	fdc.transferResult(t, ST0_NORMAL, 0, 0)
}

// scan compares sectors against host data. Host bytes of 0xFF match any
// disk byte. Sectors are visited from R to EOT in steps of STP.
func (fdc *Controller) scan() {
	t := fdc.transferParams()
	disk, st0, st1, st2 := fdc.locate(t)

	if disk == nil {
		fdc.transferResult(t, st0, st1, st2)
		return
	}

	step := t.dtl
	if step == 0 {
		step = 1
	}

	size := disk.Geometry().SectorSize()

	for {
		if fdc.host.Size() < size {
			fdc.transferResult(t, ST0_ABNORMAL, ST1_OVERRUN, 0)
			return
		}

		data, err := disk.ReadSector(t.cylinder, t.head, t.sector)
		host := fdc.host.DrainPart(size)

		if err != nil {
			fdc.transferResult(t, ST0_ABNORMAL, ST1_NO_DATA, 0)
			return
		}

		equal, satisfied := compareScan(fdc.active.command, data, host)

		if satisfied {
			if equal {
				fdc.transferResult(t, ST0_NORMAL, 0, ST2_SCAN_HIT)
			} else {
				fdc.transferResult(t, ST0_NORMAL, 0, 0)
			}

			return
		}

		if int(t.sector)+int(step) > int(t.eot) {
			break
		}

		t.sector += step
	}

	fdc.transferResult(t, ST0_NORMAL, 0, ST2_SCAN_NOT_SATISFIED)
}

func compareScan(command Command, disk, host []byte) (bool, bool) {
	equal := true
	satisfied := true

	for i := range disk {
		if host[i] == 0xFF {
			continue
		}

		if disk[i] != host[i] {
			equal = false
		}

		switch command {
		case COMMAND_SCAN_EQUAL:
			satisfied = satisfied && disk[i] == host[i]
		case COMMAND_SCAN_LOW_OR_EQUAL:
			satisfied = satisfied && disk[i] <= host[i]
		case COMMAND_SCAN_HIGH_OR_EQUAL:
			satisfied = satisfied && disk[i] >= host[i]
		}
	}

	return equal, satisfied
}

func (fdc *Controller) readID() {
	p := fdc.params()
	t := transfer{unit: p[0] & 0x3, head: (p[0] >> 2) & 0x1}
	drive, ok := fdc.ready(t.unit)

	if !ok {
		fdc.transferResult(t, ST0_ABNORMAL|ST0_NOT_READY, 0, 0)
		return
	}

	g := drive.disk.Geometry()

	if int(t.head) >= g.Heads {
		fdc.transferResult(t, ST0_ABNORMAL, ST1_MISSING_ADDRESS, 0)
		return
	}

	t.cylinder = drive.cylinder
	t.idHead = t.head
	t.sector = 1
	t.sizeCode = g.SizeCode

	fdc.transferResult(t, ST0_NORMAL, 0, 0)
}

// formatTrack writes the filler byte D to every sector of the track. Sector
// IDs are taken four bytes at a time from host data when available.
func (fdc *Controller) formatTrack() {
	p := fdc.params()
	t := transfer{
		unit:     p[0] & 0x3,
		head:     (p[0] >> 2) & 0x1,
		sizeCode: p[1],
		eot:      p[2],
		gpl:      p[3],
	}
	filler := p[4]

	drive, ok := fdc.ready(t.unit)

	if !ok {
		fdc.transferResult(t, ST0_ABNORMAL|ST0_NOT_READY, 0, 0)
		return
	}

	disk := drive.disk
	g := disk.Geometry()
	t.cylinder = drive.cylinder
	t.idHead = t.head

	if disk.WriteProtected() {
		fdc.transferResult(t, ST0_ABNORMAL, ST1_NOT_WRITABLE, 0)
		return
	}

	if t.sizeCode != g.SizeCode {
		fdc.transferResult(t, ST0_ABNORMAL, ST1_MISSING_ADDRESS, 0)
		return
	}

	size := g.SectorSize()
	data := make([]byte, size)
	for i := range data {
		data[i] = filler
	}

	for i := 0; i < int(t.eot) && i < g.SectorsPerTrack; i++ {
		t.sector = uint8(i + 1)

		if fdc.host.Size() >= 4 {
			id := fdc.host.DrainPart(4)
			t.cylinder, t.idHead, t.sector = id[0], id[1], id[2]
		}

		if err := disk.WriteSector(drive.cylinder, t.head, t.sector, data); err != nil {
			fdc.transferResult(t, ST0_ABNORMAL, ST1_NO_DATA, 0)
			return
		}
	}

	fdc.transferResult(t, ST0_NORMAL, 0, 0)
}

// stepCycles is the time the head needs to travel between two cylinders,
// using the 5.25" step rate derived from the Specify SRT field.
func (fdc *Controller) stepCycles(from, to uint8) uint32 {
	steps := int(to) - int(from)
	if steps < 0 {
		steps = -steps
	}

	ms := uint32(16-fdc.specify.stepRate) * 2
	return uint32(steps) * ms * CYCLES_PER_MS
}

func (fdc *Controller) moveHead(unit, head, cylinder uint8) {
	drive := &fdc.drives[unit]
	drive.seekCycles = fdc.stepCycles(drive.cylinder, cylinder)
	drive.cylinder = cylinder

	st0 := ST0_SEEK_END | head<<2 | unit

	if _, ok := fdc.ready(unit); !ok {
		st0 |= ST0_ABNORMAL | ST0_NOT_READY
	}

	if !fdc.interrupts.TryPush(interruptStatus{st0: st0, pcn: cylinder}) {
		fdc.logger.Printf("fdc: dropped seek interrupt for drive %d", unit)
	}

	fdc.irq = true
}

func (fdc *Controller) recalibrate() {
	p := fdc.params()
	fdc.moveHead(p[0]&0x3, 0, 0)
}

// seek takes the new cylinder number from the host channel; without one
// the head stays where it is.
func (fdc *Controller) seek() {
	p := fdc.params()
	unit := p[0] & 0x3
	cylinder, ok := fdc.host.Pop()

	if !ok {
		fdc.logger.Printf("fdc: seek on drive %d without a cylinder", unit)
		cylinder = fdc.drives[unit].cylinder
	}

	fdc.moveHead(unit, (p[0]>>2)&0x1, cylinder)
}

func (fdc *Controller) senseInterruptStatus() {
	status, ok := fdc.interrupts.Pop()

	if !ok {
		fdc.result(ST0_INVALID)
		return
	}

	if fdc.interrupts.Empty() {
		fdc.irq = false
	}

	fdc.result(status.st0, status.pcn)
}

func (fdc *Controller) setSpecify() {
	p := fdc.params()

	fdc.specify = specifyParams{
		stepRate:   p[0] >> 4,
		headUnload: p[0] & 0xF,
		headLoad:   p[1] >> 1,
		nonDMA:     p[1]&0x1 != 0,
	}
}

func (fdc *Controller) senseDriveStatus() {
	p := fdc.params()
	unit := p[0] & 0x3
	head := (p[0] >> 2) & 0x1
	drive := &fdc.drives[unit]

	// The 5150 adapter ties the ready line high.
	st3 := ST3_READY | head<<2 | unit

	if drive.cylinder == 0 {
		st3 |= ST3_TRACK_ZERO
	}

	if drive.disk != nil {
		if drive.disk.Geometry().Heads > 1 {
			st3 |= ST3_TWO_SIDE
		}

		if drive.disk.WriteProtected() {
			st3 |= ST3_WRITE_PROTECT
		}
	}

	fdc.result(st3)
}
