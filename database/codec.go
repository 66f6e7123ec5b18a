package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var emptyList = []byte("[]")

// ErrCorrupt wraps a stored collection that can not be decoded.
var ErrCorrupt = errors.New("database: corrupt collection")

// encodeRecords renders a collection as indented JSON. A nil slice is stored
// as an empty list so readers never see null.
func encodeRecords(records interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(data, []byte("null")) {
		return emptyList, nil
	}
	return data, nil
}

func decodeRecords(data []byte, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return nil
}

func copyRecords(src, dest interface{}) error {
	data, err := encodeRecords(src)
	if err != nil {
		return fmt.Errorf("encode staged records: %w", err)
	}
	return decodeRecords(data, dest)
}
