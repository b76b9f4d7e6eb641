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
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/lassandro/go5150/pkg/bus"
	"github.com/lassandro/go5150/pkg/cpu"
	"github.com/lassandro/go5150/pkg/debugger"
	"github.com/lassandro/go5150/pkg/device"
	"github.com/lassandro/go5150/pkg/device/fdc"
	"github.com/lassandro/go5150/pkg/encoding"
)

// Instructions executed between polls for ESC.
const escapePollInterval = 4096

var shouldexit bool

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

type runCmd struct {
	Image             string `arg:"" type:"existingfile" help:"Raw binary image loaded into memory"`
	Segment           string `default:"0x0000" help:"Load segment, also the initial CS"`
	Offset            string `default:"0x7C00" help:"Load offset, also the initial IP"`
	Floppy            string `type:"existingfile" help:"Disk image inserted into drive A"`
	WriteProtect      bool   `help:"Insert the floppy write protected"`
	Debug             bool   `help:"Run the machine under the debug monitor"`
	MaxSteps          uint64 `help:"Stop after this many instructions (0 runs forever)"`
	SkipUnimplemented bool   `help:"Warn about and skip unimplemented opcodes instead of halting"`
}

func (r *runCmd) Run(ctx *kong.Context) error {
	segment, err := encoding.DecodeHex(r.Segment)

	if err != nil {
		return fmt.Errorf("--segment: %w", err)
	}

	offset, err := encoding.DecodeHex(r.Offset)

	if err != nil {
		return fmt.Errorf("--offset: %w", err)
	}

	b := bus.New()

	if err := loadImage(b, r.Image, bus.PhysicalAddress(segment, offset)); err != nil {
		return err
	}

	controller, err := fdc.New(fdc.WithLogger(log.Default()))

	if err != nil {
		return err
	}

	if r.Floppy != "" {
		if err := insertFloppy(controller, r.Floppy, r.WriteProtect); err != nil {
			return err
		}
	}

	ports, err := device.NewPortBus(device.WithLogger(log.Default()))

	if err != nil {
		return err
	}

	if err := ports.Attach(controller); err != nil {
		return err
	}

	core := cpu.New(b, ports)
	core.Jump(segment, offset)

	var dbg *debugger.Debugger
	var interrupts chan os.Signal

	if r.Debug {
		dbg = &debugger.Debugger{
			Output:      os.Stdout,
			Color:       term.IsTerminal(int(os.Stdout.Fd())),
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
			HandleWrite: handleWrite,
		}
		core.Debugger = dbg

		interrupts = make(chan os.Signal, 1)
		signal.Notify(interrupts, os.Interrupt)
		defer signal.Stop(interrupts)
	}

	enterRawTerm()
	defer exitRawTerm()

	if dbg != nil {
		debugREPL(dbg, core)
	}

	return run(r, core, dbg, interrupts)
}

// run drives the core until it halts or fails. Signals received on
// interrupts break into the debugger.
func run(
	r *runCmd,
	core *cpu.I8088,
	dbg *debugger.Debugger,
	interrupts <-chan os.Signal,
) error {
	for steps := uint64(0); !shouldexit; steps++ {
		if r.MaxSteps != 0 && steps >= r.MaxSteps {
			log.Printf("Stopped after %d instructions", steps)
			return nil
		}

		if dbg != nil {
			select {
			case <-interrupts:
				fmt.Println()
				dbg.Break = true
			default:
			}

			if steps%escapePollInterval == 0 && pollEscape() {
				dbg.Break = true
			}
		}

		status, err := core.Advance()

		if err != nil {
			if r.SkipUnimplemented && errors.Is(err, cpu.ErrUnimplementedOpcode) {
				log.Printf("warning: %v", err)
				continue
			}

			if dbg == nil {
				return err
			}

			log.Println(err)
			stop(dbg, core)
			continue
		}

		switch status {
		case cpu.STATUS_BREAKPOINT:
			stop(dbg, core)

		case cpu.STATUS_HALTED:
			log.Printf(
				"Halted at %04X:%04X after %d cycles",
				core.Registers.CS,
				core.IP(),
				core.Cycles(),
			)

			if dbg == nil {
				return nil
			}

			stop(dbg, core)

			if core.Halted() {
				return nil
			}
		}
	}

	return nil
}

func loadImage(b *bus.Bus, path string, addr uint32) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	n, err := b.Load(file, addr)

	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	log.Printf("Loaded %d bytes at %05X", n, addr)

	return nil
}

func insertFloppy(controller *fdc.Controller, path string, writeProtect bool) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	disk, err := fdc.LoadDiskette(file, writeProtect)

	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	return controller.Insert(0, disk)
}

func main() {
	var cli struct {
		Run runCmd `cmd:"" default:"withargs" help:"Run a binary image on the 8088 core"`
	}

	ctx := kong.Parse(
		&cli,
		kong.Name("go5150"),
		kong.Description("IBM 5150 core emulator"),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
