package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spboyer/parbench/internal/models"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "success",
			err:      nil,
			wantCode: ExitSuccess,
			wantMsg:  "",
		},
		{
			name:     "configuration error",
			err:      &models.ConfigurationError{Field: "thread term", Value: "x", Reason: "not an integer"},
			wantCode: ExitFailure,
			wantMsg:  "Error: invalid thread term \"x\": not an integer\n",
		},
		{
			name:     "interrupted",
			err:      &models.InterruptedError{Completed: 3, Total: 10, Cause: context.Canceled},
			wantCode: ExitFailure,
			wantMsg:  "\n" + InterruptedMessage + "\n",
		},
		{
			name:     "wrapped interruption",
			err:      fmt.Errorf("run: %w", &models.InterruptedError{Cause: context.Canceled}),
			wantCode: ExitFailure,
			wantMsg:  "\n" + InterruptedMessage + "\n",
		},
		{
			name:     "runtime error",
			err:      errors.New("disk full"),
			wantCode: ExitFailure,
			wantMsg:  "Error: disk full\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, handleError(&buf, tt.err))
			assert.Equal(t, tt.wantMsg, buf.String())
		})
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"run", "threads", "files", "report"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})
	assert.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "parbench version dev")
}
