package main

import (
	"fmt"
	"strconv"

	"github.com/safetypes2/safetypes2/pkg/object"
	"github.com/safetypes2/safetypes2/pkg/seq"
)

func (s *Session) asSeq(name string) (*seq.Sequence, error) {
	v, ok := s.handles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoSuchHandle, name)
	}

	q, ok := v.(*seq.Sequence)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %s, not a seq", errWrongType, name, typeName(v))
	}

	return q, nil
}

func (s *Session) dispatchSeq(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("%w: usage: seq <new|push|insert|pop|shift|get|seek|sort|iter> ...", errBadArgs)
	}

	switch args[0] {
	case "new":
		return s.seqNew(args[1:])
	case "push", "insert":
		return s.seqPush(args[0], args[1:])
	case "pop":
		return s.seqPop(args[1:])
	case "shift":
		return s.seqShift(args[1:])
	case "get":
		return s.seqGet(args[1:])
	case "seek":
		return s.seqSeek(args[1:])
	case "iter":
		return s.seqIter(args[1:])
	case "sort":
		return s.seqSort(args[1:])
	default:
		return "", fmt.Errorf("%w: seq %s", errUnknownCommand, args[0])
	}
}

func (s *Session) seqNew(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: seq new <handle>", errBadArgs)
	}

	q := seq.Create()
	s.handles[args[0]] = q

	return fmt.Sprintf("%s: seq, len=0", args[0]), nil
}

func (s *Session) seqPush(op string, args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", fmt.Errorf("%w: usage: seq %s <seq> <value-handle> [kept|gave]", errBadArgs, op)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	val, err := s.lookup(args[1])
	if err != nil {
		return "", err
	}

	setter := object.Kept
	if len(args) == 3 {
		setter, err = parseSetter(args[2])
		if err != nil {
			return "", err
		}
	}

	if op == "push" {
		q.Push(val, setter)
	} else {
		q.Insert(val, setter)
	}

	return fmt.Sprintf("%s: len=%d pos=%d", args[0], q.Len(), q.Position()), nil
}

func (s *Session) seqPop(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: seq pop <seq>", errBadArgs)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	val, status := q.Pop()
	if status != object.Success {
		return "empty", nil
	}

	object.Release(val)

	return fmt.Sprintf("%s: len=%d pos=%d", args[0], q.Len(), q.Position()), nil
}

func (s *Session) seqShift(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: seq shift <seq>", errBadArgs)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	val, status := q.Shift()
	if status != object.Success {
		return "empty", nil
	}

	object.Release(val)

	return fmt.Sprintf("%s: len=%d pos=%d", args[0], q.Len(), q.Position()), nil
}

func (s *Session) seqGet(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: seq get <seq>", errBadArgs)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	val, status := q.Get()
	if status != object.Success {
		return "empty", nil
	}

	return fmt.Sprintf("type=%v", val.Type()), nil
}

func (s *Session) seqSeek(args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("%w: usage: seq seek <seq> <offset> <set|end|cur>", errBadArgs)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	offset, err := strconv.Atoi(args[1])
	if err != nil {
		return "", fmt.Errorf("%w: offset must be an integer", errBadArgs)
	}

	var whence seq.Whence

	switch args[2] {
	case "set":
		whence = seq.SeekSet
	case "end":
		whence = seq.SeekEnd
	case "cur":
		whence = seq.SeekCur
	default:
		return "", fmt.Errorf("%w: whence must be set, end, or cur", errBadArgs)
	}

	pos, err := q.Seek(offset, whence)
	if err != nil {
		return "-1", nil //nolint:nilerr // out-of-range seek is a normal REPL outcome, not a command error
	}

	return fmt.Sprintf("%d", pos), nil
}

// seqSort sorts the sequence's elements by type tag, a demonstration of
// the caller-supplied less-than predicate the underlying Sort takes; a
// host embedding the object system would supply whatever ordering fits
// its own element types.
func (s *Session) seqSort(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: seq sort <seq>", errBadArgs)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	q.Sort(func(a, b *object.Header) bool {
		return a.Type() < b.Type()
	})

	return fmt.Sprintf("%s: sorted", args[0]), nil
}

func (s *Session) seqIter(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: usage: seq iter <seq>", errBadArgs)
	}

	q, err := s.asSeq(args[0])
	if err != nil {
		return "", err
	}

	count := 0
	q.Each(func(int, *object.Header) bool {
		count++
		return true
	})

	return fmt.Sprintf("%d elements", count), nil
}
