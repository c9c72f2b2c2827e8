package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", err: nil, want: 0},
		{name: "other", err: errors.New("boom"), want: 1},
		{name: "usage", err: usageError{errors.New("bad flag")}, want: 2},
		{name: "invalid request", err: art.NewError(art.ErrInvalidRequest, "validate", "num_images"), want: 2},
		{name: "authentication", err: art.NewError(art.ErrAuthentication, "authenticate", ""), want: 3},
		{name: "navigation", err: art.NewError(art.ErrNavigation, "navigate", ""), want: 4},
		{name: "timeout", err: art.NewError(art.ErrTimeout, "await reply", ""), want: 5},
		{name: "no image", err: art.NewError(art.ErrNoImageFound, "extract", ""), want: 6},
		{name: "banned", err: art.NewError(art.ErrBannedPrompt, "status", ""), want: 7},
		{name: "unexpected status", err: art.NewError(art.ErrUnexpectedStatus, "status", ""), want: 8},
		{name: "wrapped", err: fmt.Errorf("failed to imagine: %w", art.NewError(art.ErrTimeout, "await reply", "")), want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestImagineCommand_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "missing prefix", args: []string{"imagine", "a cat"}, want: exitUsage},
		{name: "unknown flag", args: []string{"imagine", "a cat", "out", "--bogus"}, want: exitUsage},
		{name: "zero images", args: []string{"imagine", "a cat", "out", "--num-images", "0"}, want: exitUsage},
		{name: "too many images", args: []string{"imagine", "a cat", "out", "-n", "5"}, want: exitUsage},
		{name: "empty prompt", args: []string{"imagine", "  ", "out"}, want: exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCommand()
			root.SetArgs(tt.args)
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})

			err := root.ExecuteContext(context.Background())
			assert.Equal(t, tt.want, exitCode(err))
		})
	}
}
