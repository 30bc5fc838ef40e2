// Command z80mon is an interactive terminal monitor for the z80 package: a
// small REPL for loading a binary image, single-stepping, running to a
// breakpoint (optionally Lua-conditioned), and dumping architectural state.
// Grounded on the teacher's terminal_host.go (raw-mode stdin via
// golang.org/x/term) and debug_monitor.go (breakpoint/freeze/resume
// bookkeeping), scaled down from a multi-CPU GUI scrollback debugger to a
// single-CPU text REPL.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/zayn-otley/z80core/z80"
)

func main() {
	loadPath := flag.String("load", "", "binary image to load at address 0")
	pc := flag.Uint("pc", 0, "initial program counter")
	memSize := flag.Int("mem", 65536, "memory size in bytes")
	flag.Parse()

	cpu := z80.NewCPU(z80.Config{
		MemorySize:     *memSize,
		ProgramCounter: uint16(*pc),
	})

	if *loadPath != "" {
		data, err := os.ReadFile(*loadPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "z80mon: %v\n", err)
			os.Exit(1)
		}
		if err := cpu.LoadMemory(data); err != nil {
			fmt.Fprintf(os.Stderr, "z80mon: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("loaded %d bytes from %s\n", len(data), *loadPath)
	}

	mon := newMonitor(cpu)
	defer mon.close()

	fmt.Println("z80mon - type ? for help")
	repl(mon)
}

func repl(mon *monitor) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("z80> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "?", "help":
			printHelp()
		case "q", "quit", "exit":
			return
		case "r", "reg", "regs":
			mon.printRegisters()
		case "reset":
			mon.cpu.Reset()
			fmt.Println("reset")
		case "s", "step":
			n := 1
			if len(fields) > 1 {
				n = parseIntArg(fields[1], 1)
			}
			for i := 0; i < n; i++ {
				if mon.cpu.Finished {
					fmt.Println("halted")
					break
				}
				cycles, err := mon.cpu.Step()
				if err != nil {
					fmt.Printf("error: %v\n", err)
					break
				}
				fmt.Printf("step: %d cycles, PC=%04X\n", cycles, mon.cpu.PC)
			}
		case "g", "run":
			steps, cycles, reason, err := mon.run(1 << 20)
			if err != nil {
				fmt.Printf("stopped after %d steps (%d cycles): %v\n", steps, cycles, err)
				continue
			}
			fmt.Printf("stopped after %d steps (%d cycles): %s\n", steps, cycles, reason)
			mon.printRegisters()
		case "b", "break":
			if len(fields) < 2 {
				fmt.Println("usage: break <addr> [lua-condition]")
				continue
			}
			addr, ok := parseAddr(fields[1])
			if !ok {
				fmt.Println("bad address")
				continue
			}
			condition := strings.Join(fields[2:], " ")
			mon.setBreakpoint(addr, condition)
			fmt.Printf("breakpoint at %04X set\n", addr)
		case "c", "clear":
			if len(fields) < 2 {
				fmt.Println("usage: clear <addr>")
				continue
			}
			addr, ok := parseAddr(fields[1])
			if !ok {
				fmt.Println("bad address")
				continue
			}
			mon.clearBreakpoint(addr)
		case "w", "watch":
			watch(mon)
		default:
			fmt.Printf("unknown command %q (? for help)\n", fields[0])
		}
	}
}

// watch drops stdin into raw mode and steps the CPU once per keypress,
// printing the register file after each step. Any key other than 'q' steps;
// 'q' restores the terminal and returns to the line-oriented REPL.
func watch(mon *monitor) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "z80mon: failed to enter raw mode: %v\n", err)
		return
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	fmt.Print("\r\nwatch mode: any key steps, q quits\r\n")
	buf := make([]byte, 1)
	for {
		n, err := syscall.Read(fd, buf)
		if err != nil || n == 0 {
			return
		}
		if buf[0] == 'q' {
			fmt.Print("\r\n")
			return
		}
		if mon.cpu.Finished {
			fmt.Print("halted\r\n")
			continue
		}
		cycles, stepErr := mon.cpu.Step()
		if stepErr != nil {
			fmt.Printf("error: %v\r\n", stepErr)
			continue
		}
		fmt.Printf("PC=%04X cycles=%d AF=%04X BC=%04X DE=%04X HL=%04X\r\n",
			mon.cpu.PC, cycles, mon.cpu.AF(), mon.cpu.BC(), mon.cpu.DE(), mon.cpu.HL())
	}
}

func printHelp() {
	fmt.Print(`commands:
  reg              dump registers and flags
  step [n]         execute n instructions (default 1)
  run              run until HALT, a breakpoint, or the step cap
  break <a> [cond] set a breakpoint at hex address a, optional Lua condition
  clear <a>        remove the breakpoint at hex address a
  watch            raw single-keypress step mode (q to exit)
  reset            reset the CPU
  quit             exit z80mon
`)
}

func parseAddr(s string) (uint16, bool) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

func parseIntArg(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
