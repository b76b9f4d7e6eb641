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

package main

import (
	"log"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const keyEscape = 0x1B

var termRestore unix.Termios
var rawterm bool

// enterRawTerm disables line buffering and echo so ESC can be polled while
// the machine runs. ISIG stays set so Ctrl-C still raises SIGINT.
func enterRawTerm() {
	fd := os.Stdin.Fd()

	if rawterm || !term.IsTerminal(int(fd)) {
		return
	}

	if err := termios.Tcgetattr(fd, &termRestore); err != nil {
		log.Println(err)
		return
	}

	termstate := termRestore

	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	if err := termios.Tcsetattr(fd, termios.TCSANOW, &termstate); err != nil {
		log.Println(err)
		return
	}

	rawterm = true
}

func exitRawTerm() {
	if !rawterm {
		return
	}

	if err := termios.Tcsetattr(
		os.Stdin.Fd(), termios.TCSANOW, &termRestore,
	); err != nil {
		log.Println(err)
	}

	rawterm = false
}

// pollEscape drains pending keystrokes and reports whether ESC was among
// them. With VMIN and VTIME at zero the read never blocks.
func pollEscape() bool {
	if !rawterm {
		return false
	}

	var buf [16]byte
	found := false

	for {
		n, err := os.Stdin.Read(buf[:])

		for _, key := range buf[:n] {
			if key == keyEscape {
				found = true
			}
		}

		if n < len(buf) || err != nil {
			return found
		}
	}
}
