package store

import (
	"errors"
	"fmt"
)

// Kind classifies a store failure.
type Kind int

const (
	KindFilesystem  Kind = iota + 1 // create, read, write, sync or rename failed
	KindDecode                      // stored content is not a valid snapshot
	KindEncode                      // snapshot cannot be serialized
	KindConsistency                 // backing file vanished while records are held in memory
)

func (k Kind) String() string {
	switch k {
	case KindFilesystem:
		return "filesystem"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindConsistency:
		return "consistency"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinel errors, to be used with errors.Is.
var (
	ErrFilesystem  = errors.New("filesystem error")
	ErrDecode      = errors.New("decode error")
	ErrEncode      = errors.New("encode error")
	ErrConsistency = errors.New("consistency error")
)

func (k Kind) sentinel() error {
	switch k {
	case KindFilesystem:
		return ErrFilesystem
	case KindDecode:
		return ErrDecode
	case KindEncode:
		return ErrEncode
	case KindConsistency:
		return ErrConsistency
	}
	return nil
}

// Error is returned by every failing Collection operation.
type Error struct {
	Kind Kind
	Op   string // operation name, e.g. "open", "upsert"
	Path string // backing file
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v error: %s %q", e.Kind, e.Op, e.Path)
	}
	return fmt.Sprintf("%v error: %s %q: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}
