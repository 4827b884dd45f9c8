package main

import (
	"fmt"

	"github.com/safetypes2/safetypes2/pkg/blob"
	"github.com/safetypes2/safetypes2/pkg/object"
	"github.com/safetypes2/safetypes2/pkg/omap"
)

func (s *Session) asMap(name string) (*omap.Map, error) {
	v, ok := s.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSuchHandle, name)
	}

	m, ok := v.(*omap.Map)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s, not a map", errWrongType, name, typeName(v))
	}

	return m, nil
}

func (s *Session) dispatchMap(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("%w: usage: map <new|set|get|unset|iter> ...", errBadArgs)
	}

	switch args[0] {
	case "new":
		return s.mapNew(args[1:])
	case "set":
		return s.mapSet(args[1:])
	case "get":
		return s.mapGet(args[1:])
	case "unset":
		return s.mapUnset(args[1:])
	case "iter":
		return s.mapIter(args[1:])
	default:
		return "", fmt.Errorf("%w: map %s", errUnknownCommand, args[0])
	}
}

func (s *Session) mapNew(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: map new <handle>", errBadArgs)
	}

	m := omap.Create()
	s.handles[args[0]] = m

	return fmt.Sprintf("%s: map, len=0", args[0]), nil
}

func (s *Session) mapSet(args []string) (string, error) {
	if len(args) < 3 || len(args) > 4 {
		return "", fmt.Errorf("%w: usage: map set <map> <key> <value-handle> [kept|gave]", errBadArgs)
	}

	m, err := s.asMap(args[0])
	if err != nil {
		return "", err
	}

	val, err := s.lookup(args[2])
	if err != nil {
		return "", err
	}

	setter := object.Kept
	if len(args) == 4 {
		setter, err = parseSetter(args[3])
		if err != nil {
			return "", err
		}
	}

	key := blob.FromString(args[1])
	defer object.Release(&key.Header)

	if err := m.Set(key, val, setter); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s: len=%d", args[0], m.Len()), nil
}

func (s *Session) mapGet(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: usage: map get <map> <key>", errBadArgs)
	}

	m, err := s.asMap(args[0])
	if err != nil {
		return "", err
	}

	key := blob.FromString(args[1])
	defer object.Release(&key.Header)

	val, status := m.Get(key)
	if status != object.Success {
		return "empty", nil
	}

	return fmt.Sprintf("found, type=%v", val.Type()), nil
}

func (s *Session) mapUnset(args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("%w: usage: map unset <map> <key>", errBadArgs)
	}

	m, err := s.asMap(args[0])
	if err != nil {
		return "", err
	}

	key := blob.FromString(args[1])
	defer object.Release(&key.Header)

	if m.Unset(key) != object.Success {
		return "empty", nil
	}

	return fmt.Sprintf("%s: len=%d", args[0], m.Len()), nil
}

func (s *Session) mapIter(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: map iter <map>", errBadArgs)
	}

	m, err := s.asMap(args[0])
	if err != nil {
		return "", err
	}

	it := m.CreateIterator()
	defer it.Final()

	count := 0

	for {
		key, status := it.Next()
		if status <= 0 {
			break
		}

		val, status := it.Next()
		if status <= 0 {
			break
		}

		count++

		_ = key
		_ = val
	}

	return fmt.Sprintf("%d entries", count), nil
}
