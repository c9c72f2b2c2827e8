package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
)

const (
	exitOk = iota
	exitFailure
	exitUsage
	exitAuthentication
	exitNavigation
	exitTimeout
	exitNoImageFound
	exitBannedPrompt
	exitUnexpectedStatus
)

type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError{fmt.Errorf("%s takes %d argument(s), got %d\nUsage: %s", cmd.Name(), n, len(args), cmd.UseLine())}
		}
		return nil
	}
}

func exitCode(err error) int {
	if err == nil {
		return exitOk
	}

	var usage usageError
	if errors.As(err, &usage) {
		return exitUsage
	}

	switch art.KindOf(err) {
	case art.ErrInvalidRequest:
		return exitUsage
	case art.ErrAuthentication:
		return exitAuthentication
	case art.ErrNavigation:
		return exitNavigation
	case art.ErrTimeout:
		return exitTimeout
	case art.ErrNoImageFound:
		return exitNoImageFound
	case art.ErrBannedPrompt:
		return exitBannedPrompt
	case art.ErrUnexpectedStatus:
		return exitUnexpectedStatus
	default:
		return exitFailure
	}
}
