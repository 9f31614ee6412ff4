// Package main provides the entry point for pipesim, a command-line driver
// for the 16-bit 5-stage pipeline engine. It assembles a program, ticks the
// engine at an optional rate, and emits the wire-contract JSON snapshot (see
// spec §6) to stdout or a file — a minimal stand-in for the HTTP/WebSocket
// transport layer the engine itself is agnostic to.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/eduarch/pipesim16/engine"
)

var (
	programPath = flag.String("program", "", "path to a .asm source file (required)")
	cycles      = flag.Int("cycles", 0, "number of cycles to run; 0 runs until halt or -max-cycles")
	maxCycles   = flag.Int("max-cycles", 10000, "safety cap when -cycles is 0 and the program never halts")
	rateHz      = flag.Float64("rate", 0, "ticks per second; 0 runs as fast as possible")
	snapshotOut = flag.String("snapshot-out", "", "file to write one JSON snapshot per tick; empty means stdout gets only the final snapshot")
	verbose     = flag.Bool("v", false, "print per-tick occupancy to stderr")
)

func main() {
	flag.Parse()

	if *programPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: pipesim -program <file.asm> [options]\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pipesim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	source, err := os.ReadFile(*programPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *programPath, err)
	}

	eng := engine.New()
	if err := eng.AssembleAndLoad(string(source)); err != nil {
		return fmt.Errorf("loading %s: %w", *programPath, err)
	}

	out := os.Stdout
	streaming := *snapshotOut != ""
	if streaming {
		f, err := os.Create(*snapshotOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *snapshotOut, err)
		}
		defer f.Close()
		out = f
	}

	var period time.Duration
	if *rateHz > 0 {
		period = time.Duration(float64(time.Second) / *rateHz)
	}

	n := *cycles
	if n <= 0 {
		n = *maxCycles
	}

	enc := json.NewEncoder(out)
	var ran int
	for i := 0; i < n; i++ {
		_, halted := eng.RunUntilHalt(1)
		ran++

		snap := toWireSnapshot(eng.Snapshot())
		if streaming {
			if err := enc.Encode(snap); err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "cycle %d: IF=%s ID=%s EX=%s MEM=%s WB=%s\n",
				snap.Cycle, snap.PipelineOccupancy.IF, snap.PipelineOccupancy.ID,
				snap.PipelineOccupancy.EX, snap.PipelineOccupancy.MEM, snap.PipelineOccupancy.WB)
		}
		if period > 0 {
			time.Sleep(period)
		}
		if *cycles <= 0 && halted {
			break
		}
	}

	if !streaming {
		final := toWireSnapshot(eng.Snapshot())
		if err := enc.Encode(final); err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
	}

	stats := eng.Stats()
	fmt.Fprintf(os.Stderr, "ran %d cycles, %d instructions retired, CPI=%.2f, stalls=%d, flushes=%d\n",
		ran, stats.Instructions, stats.CPI, stats.Stalls, stats.Flushes)
	return nil
}
