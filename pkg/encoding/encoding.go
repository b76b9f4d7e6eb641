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

package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lassandro/go5150/pkg/bus"
)

var ErrInvalidHex = errors.New("Invalid hex string")

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	result, err := decodeHex(s, 16, true)
	return uint16(result), err
}

// Decodes a hexidecimal byte in the formats: 0xFF, xFF
func DecodeByte(s string) (uint8, error) {
	result, err := decodeHex(s, 8, true)
	return uint8(result), err
}

// Decodes a base-10 string in the formats: #123, 123
func DecodeInt(s string) (int, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// Decodes a segmented address in the format SSSS:OOOO. Either half may
// carry an 0x prefix.
func DecodeSegmented(s string) (uint16, uint16, error) {
	parts := strings.Split(s, ":")

	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	segment, err := decodeHex(parts[0], 16, false)

	if err != nil {
		return 0, 0, err
	}

	offset, err := decodeHex(parts[1], 16, false)

	if err != nil {
		return 0, 0, err
	}

	return uint16(segment), uint16(offset), nil
}

// Decodes a physical address given either as SSSS:OOOO or as a 20-bit hex
// value in the formats: 0xFFFFF, xFFFFF
func DecodeAddress(s string) (uint32, error) {
	if strings.Contains(s, ":") {
		segment, offset, err := DecodeSegmented(s)

		if err != nil {
			return 0, err
		}

		return bus.PhysicalAddress(segment, offset), nil
	}

	result, err := decodeHex(s, 20, true)
	return uint32(result), err
}

func decodeHex(s string, bitSize int, prefixed bool) (uint64, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = s[1:]
	} else if i == 1 && s[0] == '0' {
		s = s[2:]
	} else if i != -1 || prefixed {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	if bitSize == 20 {
		result, err := strconv.ParseUint(s, 16, 32)

		if err == nil && result > uint64(bus.ADDRESS_MASK) {
			err = fmt.Errorf("%w: %#x exceeds 20 bits", ErrInvalidHex, result)
		}

		return result, err
	}

	return strconv.ParseUint(s, 16, bitSize)
}
