package sat

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type externalSolver struct {
	name      string
	path      string
	args      []string
	fileInput bool
}

// NewExternalSolver returns a solver that runs a DIMACS-CNF executable (kissat, cadical, ...) feeding the instance through its standard input.
// The executable must follow the SAT-competition conventions: exit-code 10 for satisfiable, 20 for unsatisfiable and "v" lines holding the model
func NewExternalSolver(name, path string, args ...string) SATSolver {
	return &externalSolver{
		name: name,
		path: path,
		args: args,
	}
}

// NewExternalFileSolver behaves like NewExternalSolver but hands the instance over as a temporary file appended to the arguments, for solvers that cannot read their standard input (slime, ortoolsat, ...)
func NewExternalFileSolver(name, path string, args ...string) SATSolver {
	return &externalSolver{
		name:      name,
		path:      path,
		args:      args,
		fileInput: true,
	}
}

func (solver *externalSolver) Solve(sat SAT) (SATSolution, error) {
	dimacs := sat.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	cmd := exec.Command(solver.path, solver.args...)
	if solver.fileInput {
		// Create a temporary file to hold the DIMACS content
		tmpFile, err := os.CreateTemp("", "dimacs-*.cnf")
		if err != nil {
			return nil, fmt.Errorf("failed to create temporary file: %w", err)
		}
		defer os.Remove(tmpFile.Name()) // Ensure the file is removed after execution

		// Write the DIMACS content to the temporary file
		if _, err := tmpFile.WriteString(dimacs); err != nil {
			tmpFile.Close()
			return nil, fmt.Errorf("failed to write DIMACS to temporary file: %w", err)
		}
		if err := tmpFile.Close(); err != nil {
			return nil, fmt.Errorf("failed to close temporary file: %w", err)
		}
		cmd.Args = append(cmd.Args, tmpFile.Name())
	} else {
		cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input
	}

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	err := cmd.Run()
	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("cannot start %v: %w", solver.name, err)
	} else if err != nil && cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 20 {
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, err.Error(), stderr.String())
	} else if cmd.ProcessState.ExitCode() == 20 {
		return nil, nil
	}

	return parseSolution(stdOut.String())
}
