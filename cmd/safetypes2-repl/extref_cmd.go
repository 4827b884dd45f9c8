package main

import (
	"fmt"

	"github.com/safetypes2/safetypes2/pkg/extref"
)

func (s *Session) dispatchExtref(args []string) (string, error) {
	if len(args) < 1 || args[0] != "new" {
		return "", fmt.Errorf("%w: usage: extref new <handle> <value> [weak]", errBadArgs)
	}

	args = args[1:]
	if len(args) < 2 || len(args) > 3 {
		return "", fmt.Errorf("%w: usage: extref new <handle> <value> [weak]", errBadArgs)
	}

	name, value := args[0], args[1]

	var finalizer extref.Finalizer
	if len(args) != 3 || args[2] != "weak" {
		finalizer = func(v any) { fmt.Printf("extref %s finalized: %v\n", name, v) }
	}

	e := extref.New(value, finalizer)
	s.handles[name] = e

	return fmt.Sprintf("%s: extref, weak=%v", name, !e.HasFinalizer()), nil
}
