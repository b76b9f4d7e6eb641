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
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/go5150/pkg/bus"
	"github.com/lassandro/go5150/pkg/cpu"
	"github.com/lassandro/go5150/pkg/debugger"
	"github.com/lassandro/go5150/pkg/encoding"
)

var lastcmd []string

func debugBreak(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [ssss:oooo|0x#####]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeAddress(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				return
			}
		}

		dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})
		fmt.Printf("Breakpoint added [%05X]\n", addr)

	case "l", "ls", "list":
		const usage = "break list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		fmtstring := indexFormat(len(dbg.Breakpoints), "%05X\n")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, ok := index(args[0], len(dbg.Breakpoints))

		if !ok {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [ssss:oooo|0x#####] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeAddress(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints,
			debugger.Watchpoint{Addr: addr, Type: wtype},
		)

		fmt.Printf("Watchpoint added [%05X] (%s)\n", addr, wtype)

	case "l", "ls", "list":
		const usage = "watch list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		fmtstring := indexFormat(len(dbg.Watchpoints), "%05X %s\n")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchpoint.Type)
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, ok := index(args[0], len(dbg.Watchpoints))

		if !ok {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s", int64(digits)+1, suffix)
}

func index(s string, count int) (int, bool) {
	i, err := strconv.ParseInt(s, 10, 64)

	if err != nil || i < 0 || i >= int64(count) {
		return 0, false
	}

	return int(i), true
}

func debugReg(dbg *debugger.Debugger, core *cpu.I8088, args []string) {
	const usage = "register [AX..DI|CS|DS|SS|ES|IP|FL] [0x####]"

	if len(args) == 0 {
		dbg.PrintRegs(core)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	name := strings.ToUpper(args[0])
	r := &core.Registers

	switch name {
	case "AX":
		r.AX = value
	case "BX":
		r.BX = value
	case "CX":
		r.CX = value
	case "DX":
		r.DX = value
	case "SI":
		r.SI = value
	case "DI":
		r.DI = value
	case "BP":
		r.BP = value
	case "SP":
		r.SP = value
	case "DS":
		r.DS = value
	case "SS":
		r.SS = value
	case "ES":
		r.ES = value
	case "CS":
		core.Jump(value, core.IP())
	case "IP":
		core.Jump(r.CS, value)
	case "FL", "FLAGS":
		core.SetFlags(value)
		value = r.Flags
	default:
		log.Println("Invalid register")
		return
	}

	fmt.Printf("%s: %04X\n", name, value)
}

func debugJump(dbg *debugger.Debugger, core *cpu.I8088, args []string) {
	const usage = "jump [ssss:oooo|0x####]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	if strings.Contains(args[0], ":") {
		seg, off, err := encoding.DecodeSegmented(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		core.Jump(seg, off)
	} else {
		off, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		core.Jump(core.Registers.CS, off)
	}

	dbg.PrintCode(core, 6)
}

// addressArgs parses the optional [address] [count] pair shared by the
// memory commands. A lone decimal argument is taken as the count.
func addressArgs(core *cpu.I8088, args []string, count int) (uint32, int, bool) {
	addr := bus.PhysicalAddress(core.Registers.CS, core.IP())

	if len(args) > 0 {
		if value, err := encoding.DecodeAddress(args[0]); err == nil {
			addr = value
		} else if len(args) == 1 {
			value, err := encoding.DecodeInt(args[0])

			if err != nil {
				log.Println(err)
				return 0, 0, false
			}

			count = value
		} else {
			log.Println(err)
			return 0, 0, false
		}
	}

	if len(args) > 1 {
		value, err := encoding.DecodeInt(args[1])

		if err != nil {
			log.Println(err)
			return 0, 0, false
		}

		count = value
	}

	return addr, count, true
}

func debugMemory(dbg *debugger.Debugger, core *cpu.I8088, args []string) {
	const usage = "memory [ssss:oooo|0x#####|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if addr, count, ok := addressArgs(core, args, 16); ok {
		dbg.PrintMem(core.Bus(), addr, count)
	}
}

func debugCode(dbg *debugger.Debugger, core *cpu.I8088, args []string) {
	const usage = "code [#]"

	count := 6

	if len(args) > 1 {
		log.Println(usage)
		return
	}

	if len(args) == 1 {
		value, err := encoding.DecodeInt(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		count = value
	}

	dbg.PrintCode(core, count)
}

func debugSet(dbg *debugger.Debugger, core *cpu.I8088, args []string) {
	const usage = "set [ssss:oooo|0x#####] [0x##]..."

	if len(args) < 2 {
		log.Println(usage)
		return
	}

	addr, err := encoding.DecodeAddress(args[0])

	if err != nil {
		log.Println(err)
		return
	}

	data := make([]byte, 0, len(args)-1)

	for _, arg := range args[1:] {
		value, err := encoding.DecodeByte(arg)

		if err != nil {
			log.Println(err)
			return
		}

		data = append(data, value)
	}

	if err := core.Bus().WriteBlock(addr, data); err != nil {
		log.Println(err)
		return
	}

	dbg.PrintMem(core.Bus(), addr, len(data))
}

func debugDevices(core *cpu.I8088, args []string) {
	const usage = "fdc"

	if len(args) != 0 {
		log.Println(usage)
		return
	}

	if core.Ports() == nil {
		fmt.Println("No devices attached")
		return
	}

	fmt.Print(core.Ports().Summary())
}

func debugREPL(dbg *debugger.Debugger, core *cpu.I8088) {
	exitRawTerm()
	defer enterRawTerm()
	defer dbg.Sync(core)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, core, args)

		case "j", "jmp", "jump":
			debugJump(dbg, core, args)

		case "m", "mem", "memory":
			debugMemory(dbg, core, args)

		case "code", "u":
			debugCode(dbg, core, args)

		case "set":
			debugSet(dbg, core, args)

		case "fdc", "dev", "devices":
			debugDevices(core, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func stop(dbg *debugger.Debugger, core *cpu.I8088) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintCode(core, 6)
	debugREPL(dbg, core)
}

func handleBreak(dbg *debugger.Debugger, core *cpu.I8088) {
	dbg.PrintCode(core, 6)
	debugREPL(dbg, core)
}

func handleRead(addr uint32, dbg *debugger.Debugger, core *cpu.I8088) {
	fmt.Println()
	fmt.Println("Program stopped (read)")
	dbg.PrintMem(core.Bus(), addr, 1)
	debugREPL(dbg, core)
}

func handleWrite(addr uint32, dbg *debugger.Debugger, core *cpu.I8088) {
	fmt.Println()
	fmt.Println("Program stopped (write)")
	dbg.PrintMem(core.Bus(), addr, 1)
	debugREPL(dbg, core)
}
