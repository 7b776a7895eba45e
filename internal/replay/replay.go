// Package replay drives a simulation engine from a command script, standing
// in for the interactive input surface.
package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rustyeddy/treasurysim/sim"
)

// File applies a CSV command script to the engine, one command per line.
//
// Commands (case-insensitive):
//
//	PRESET,<name>          apply a named preset (resets the run)
//	SET,<param>,<value>    set one parameter by its input-surface key
//	ADVANCE                execute the next step
//	RESET                  full reset
//	RUN                    advance until the terminal step
//
// Blank lines and lines starting with '#' are skipped. Unknown commands and
// malformed arguments are script errors; unknown preset or parameter names
// stay silent no-ops inside the engine, matching the interactive surface.
func File(path string, eng *sim.Engine) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if err := handleCommand(eng, row); err != nil {
			return err
		}
	}
}

func handleCommand(eng *sim.Engine, row []string) error {
	args := make([]string, len(row)-1)
	for i, a := range row[1:] {
		args[i] = strings.TrimSpace(a)
	}

	switch cmd := strings.ToUpper(strings.TrimSpace(row[0])); cmd {
	case "PRESET":
		if len(args) < 1 || args[0] == "" {
			return fmt.Errorf("PRESET: missing preset name")
		}
		eng.ApplyPreset(args[0])
		return nil

	case "SET":
		if len(args) < 2 {
			return fmt.Errorf("SET: need param name and value")
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("SET: bad value %q: %w", args[1], err)
		}
		eng.SetParameter(args[0], v)
		return nil

	case "ADVANCE":
		eng.Advance()
		return nil

	case "RESET":
		eng.Reset()
		return nil

	case "RUN":
		for eng.Snapshot().StepIndex < sim.TerminalStep {
			eng.Advance()
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
