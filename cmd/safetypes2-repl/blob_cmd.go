package main

import (
	"fmt"

	"github.com/safetypes2/safetypes2/pkg/blob"
)

func (s *Session) asBlob(name string) (*blob.Blob, error) {
	v, ok := s.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSuchHandle, name)
	}

	b, ok := v.(*blob.Blob)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s, not a blob", errWrongType, name, typeName(v))
	}

	return b, nil
}

func (s *Session) dispatchBlob(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("%w: usage: blob <new|set|get|truncate|compare> ...", errBadArgs)
	}

	switch args[0] {
	case "new":
		return s.blobNew(args[1:])
	case "set":
		return s.blobSet(args[1:])
	case "get":
		return s.blobGet(args[1:])
	case "truncate":
		return s.blobTruncate(args[1:])
	case "compare":
		return s.blobCompare(args[1:])
	default:
		return "", fmt.Errorf("%w: blob %s", errUnknownCommand, args[0])
	}
}

func (s *Session) blobNew(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("%w: usage: blob new <handle> [contents]", errBadArgs)
	}

	name := args[0]

	var b *blob.Blob
	if len(args) >= 2 {
		b = blob.FromString(args[1])
	} else {
		b = blob.Create(0)
	}

	s.handles[name] = b

	return fmt.Sprintf("%s: blob, len=%d", name, b.Len()), nil
}

func (s *Session) blobSet(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: usage: blob set <handle> <contents>", errBadArgs)
	}

	b, err := s.asBlob(args[0])
	if err != nil {
		return "", err
	}

	if err := b.Truncate(len(args[1])); err != nil {
		return "", err
	}

	data, err := b.Map(0, len(args[1]))
	if err != nil {
		return "", err
	}

	copy(data, args[1])
	b.Unmap()

	return fmt.Sprintf("%s: len=%d", args[0], b.Len()), nil
}

func (s *Session) blobGet(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: blob get <handle>", errBadArgs)
	}

	b, err := s.asBlob(args[0])
	if err != nil {
		return "", err
	}

	return string(b.WeakMap()), nil
}

func (s *Session) blobTruncate(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: usage: blob truncate <handle> <len>", errBadArgs)
	}

	b, err := s.asBlob(args[0])
	if err != nil {
		return "", err
	}

	if err := b.Truncate(atoiOr(args[1], b.Len())); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s: len=%d", args[0], b.Len()), nil
}

func (s *Session) blobCompare(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: usage: blob compare <handle1> <handle2>", errBadArgs)
	}

	a, err := s.asBlob(args[0])
	if err != nil {
		return "", err
	}

	b, err := s.asBlob(args[1])
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", blob.Compare(a, b)), nil
}
