package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spboyer/parbench/internal/models"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Benchmark completed and was reported
	ExitFailure = 1 // Configuration, resolution, trial, interruption or runtime error
)

// InterruptedMessage is printed when the run is stopped by a signal.
const InterruptedMessage = "Benchmark interrupted by user"

func main() {
	os.Exit(handleError(os.Stderr, execute()))
}

// handleError prints err for the user and returns the process exit code.
func handleError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	var interrupted *models.InterruptedError
	if errors.As(err, &interrupted) {
		fmt.Fprintf(w, "\n%s\n", InterruptedMessage)
		return ExitFailure
	}

	fmt.Fprintf(w, "Error: %v\n", err)
	return ExitFailure
}
