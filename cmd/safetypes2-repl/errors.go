package main

import "errors"

var (
	errUnknownCommand = errors.New("unknown command")
	errBadArgs        = errors.New("bad arguments")
	errNoSuchHandle   = errors.New("no such handle")
	errWrongType      = errors.New("handle is not the right type")
)
