package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

const indent = "  "

// encode serializes a whole snapshot as a pretty-printed JSON array followed
// by a newline. An empty snapshot is "[]".
func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// decode parses a snapshot. Zero bytes is a valid empty snapshot, any other
// content must be exactly one JSON array.
func decode[T any](data []byte) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	// Reject trailing content, a half-appended file is not a valid snapshot.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected content after offset %d", dec.InputOffset())
	}
	return records, nil
}
