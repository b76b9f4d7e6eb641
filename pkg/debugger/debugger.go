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

package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/lassandro/go5150/pkg/bus"
	"github.com/lassandro/go5150/pkg/cpu"
)

// Step is called before every instruction. In single step mode it hands
// control to HandleBreak; breakpoints are reported by the core itself.
func (dbg *Debugger) Step(core *cpu.I8088) {
	if dbg.Break && dbg.HandleBreak != nil {
		dbg.HandleBreak(dbg, core)
	}
}

func (dbg *Debugger) Read(addr uint32, core *cpu.I8088) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			if dbg.HandleRead != nil {
				dbg.HandleRead(addr, dbg, core)
			}

			break
		}
	}
}

func (dbg *Debugger) Write(addr uint32, core *cpu.I8088) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			if dbg.HandleWrite != nil {
				dbg.HandleWrite(addr, dbg, core)
			}

			break
		}
	}
}

// Sync replaces the breakpoints installed in the core with the debugger's
// list.
func (dbg *Debugger) Sync(core *cpu.I8088) {
	core.ClearBreakpoints()

	for _, breakpoint := range dbg.Breakpoints {
		core.SetBreakpoint(breakpoint.Addr)
	}
}

func (dbg *Debugger) output() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) bold(s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func (dbg *Debugger) dim(s string) string {
	if !dbg.Color {
		return s
	}

	return "\033[1;30m" + s + "\033[0m"
}

func (dbg *Debugger) PrintMem(b *bus.Bus, addr uint32, count int) {
	w := dbg.output()

	for i := 0; i < count; i++ {
		current := (addr + uint32(i)) & bus.ADDRESS_MASK

		if i == 0 {
			fmt.Fprintf(w, "%s ", dbg.bold(fmt.Sprintf("[%05X]", current)))
		} else if i%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s ", dbg.bold(fmt.Sprintf("[%05X]", current)))
		}

		result, err := b.Read8(current)

		if err != nil {
			fmt.Fprintln(w, err)
			return
		}

		if result == 0 {
			fmt.Fprintf(w, "%s ", dbg.dim(fmt.Sprintf("%02X", result)))
		} else {
			fmt.Fprintf(w, "%02X ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintRegs(core *cpu.I8088) {
	w := dbg.output()
	r := core.Registers

	regs := []struct {
		name  string
		value uint16
	}{
		{"AX", r.AX}, {"BX", r.BX}, {"CX", r.CX}, {"DX", r.DX},
		{"SI", r.SI}, {"DI", r.DI}, {"BP", r.BP}, {"SP", r.SP},
		{"CS", r.CS}, {"DS", r.DS}, {"SS", r.SS}, {"ES", r.ES},
	}

	for i, reg := range regs {
		fmt.Fprintf(w, "%s %04X\t", dbg.bold(reg.name+":"), reg.value)

		if i%4 == 3 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(
		w,
		"%s %04X\t%s %04X [%s]\n",
		dbg.bold("IP:"),
		core.IP(),
		dbg.bold("FL:"),
		r.Flags,
		FormatFlags(r.Flags),
	)
}

// FormatFlags renders the status flags as letters, upper case when set.
func FormatFlags(flags uint16) string {
	names := []struct {
		flag   uint16
		letter byte
	}{
		{cpu.FLAG_OF, 'o'},
		{cpu.FLAG_DF, 'd'},
		{cpu.FLAG_IF, 'i'},
		{cpu.FLAG_TF, 't'},
		{cpu.FLAG_SF, 's'},
		{cpu.FLAG_ZF, 'z'},
		{cpu.FLAG_AF, 'a'},
		{cpu.FLAG_PF, 'p'},
		{cpu.FLAG_CF, 'c'},
	}

	result := make([]byte, len(names))

	for i, name := range names {
		result[i] = name.letter

		if flags&name.flag != 0 {
			result[i] -= 'a' - 'A'
		}
	}

	return string(result)
}

// PrintCode dumps count bytes from CS:IP, naming the opcode at CS:IP.
func (dbg *Debugger) PrintCode(core *cpu.I8088, count int) {
	w := dbg.output()
	cs, ip := core.Registers.CS, core.IP()
	addr := bus.PhysicalAddress(cs, ip)

	fmt.Fprintf(w, "%s ", dbg.bold(fmt.Sprintf("[%04X:%04X]", cs, ip)))

	for i := 0; i < count; i++ {
		value, err := core.Bus().Read8((addr + uint32(i)) & bus.ADDRESS_MASK)

		if err != nil {
			fmt.Fprintln(w, err)
			return
		}

		fmt.Fprintf(w, "%02X ", value)
	}

	opcode, err := core.Bus().Read8(addr)

	if err != nil {
		fmt.Fprintln(w)
		return
	}

	if name, ok := cpu.Mnemonic(opcode); ok {
		fmt.Fprintf(w, "%s\n", dbg.dim(name))
	} else {
		fmt.Fprintf(w, "%s\n", dbg.dim("(bad)"))
	}
}
