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
	"io"
)

var (
	ErrUnknownGeometry = errors.New("unrecognized diskette image size")
	ErrSectorNotFound  = errors.New("sector not found")
	ErrWriteProtected  = errors.New("diskette is write protected")
)

type Geometry struct {
	Cylinders       int
	Heads           int
	SectorsPerTrack int
	SizeCode        uint8
}

var (
	GEOMETRY_160K  = Geometry{40, 1, 8, 2}
	GEOMETRY_180K  = Geometry{40, 1, 9, 2}
	GEOMETRY_320K  = Geometry{40, 2, 8, 2}
	GEOMETRY_360K  = Geometry{40, 2, 9, 2}
	GEOMETRY_720K  = Geometry{80, 2, 9, 2}
	GEOMETRY_1_2M  = Geometry{80, 2, 15, 2}
	GEOMETRY_1_44M = Geometry{80, 2, 18, 2}
)

var geometries = []Geometry{
	GEOMETRY_160K,
	GEOMETRY_180K,
	GEOMETRY_320K,
	GEOMETRY_360K,
	GEOMETRY_720K,
	GEOMETRY_1_2M,
	GEOMETRY_1_44M,
}

func (g Geometry) SectorSize() int {
	size, _ := SectorSize(g.SizeCode)
	return size
}

func (g Geometry) Size() int {
	return g.Cylinders * g.Heads * g.SectorsPerTrack * g.SectorSize()
}

// Diskette is a raw sector image ordered by cylinder, head, then sector.
type Diskette struct {
	geometry       Geometry
	data           []byte
	writeProtected bool
}

func NewDiskette(data []byte, writeProtected bool) (*Diskette, error) {
	for _, geometry := range geometries {
		if geometry.Size() == len(data) {
			return &Diskette{
				geometry:       geometry,
				data:           data,
				writeProtected: writeProtected,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %d bytes", ErrUnknownGeometry, len(data))
}

func NewBlankDiskette(geometry Geometry) *Diskette {
	return &Diskette{
		geometry: geometry,
		data:     make([]byte, geometry.Size()),
	}
}

func LoadDiskette(reader io.Reader, writeProtected bool) (*Diskette, error) {
	data, err := io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	return NewDiskette(data, writeProtected)
}

func (d *Diskette) Geometry() Geometry {
	return d.geometry
}

func (d *Diskette) WriteProtected() bool {
	return d.writeProtected
}

func (d *Diskette) Bytes() []byte {
	return d.data
}

func (d *Diskette) offset(cylinder, head, sector uint8) (int, error) {
	g := d.geometry

	if int(cylinder) >= g.Cylinders ||
		int(head) >= g.Heads ||
		sector == 0 ||
		int(sector) > g.SectorsPerTrack {
		return 0, fmt.Errorf(
			"%w: C=%d H=%d R=%d", ErrSectorNotFound, cylinder, head, sector,
		)
	}

	lba := (int(cylinder)*g.Heads+int(head))*g.SectorsPerTrack +
		int(sector) - 1

	return lba * g.SectorSize(), nil
}

func (d *Diskette) ReadSector(cylinder, head, sector uint8) ([]byte, error) {
	offset, err := d.offset(cylinder, head, sector)

	if err != nil {
		return nil, err
	}

	result := make([]byte, d.geometry.SectorSize())
	copy(result, d.data[offset:])

	return result, nil
}

// WriteSector replaces a sector. Short data is padded with zeroes.
func (d *Diskette) WriteSector(cylinder, head, sector uint8, data []byte) error {
	if d.writeProtected {
		return ErrWriteProtected
	}

	offset, err := d.offset(cylinder, head, sector)

	if err != nil {
		return err
	}

	size := d.geometry.SectorSize()
	sectorData := d.data[offset : offset+size]

	n := copy(sectorData, data)
	for i := n; i < size; i++ {
		sectorData[i] = 0
	}

	return nil
}
