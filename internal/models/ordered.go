package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// OrderedRecord keeps the top-level properties of a JSON object in the order
// they appeared on the wire.
type OrderedRecord struct {
	Keys   []string
	Values []any
}

// Row returns the property values as a sheet row, in insertion order.
func (o OrderedRecord) Row() SheetRow {
	row := make(SheetRow, len(o.Values))
	copy(row, o.Values)
	return row
}

// DecodeOrderedRecord reads a single JSON object from r. An empty body decodes
// to an empty record. Duplicate keys keep their first position and last value.
func DecodeOrderedRecord(r io.Reader) (OrderedRecord, error) {
	var rec OrderedRecord

	body, err := io.ReadAll(r)
	if err != nil {
		return rec, fmt.Errorf("failed to read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return rec, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return rec, fmt.Errorf("failed to decode body: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return rec, errors.New("request body must be a JSON object")
	}

	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return rec, fmt.Errorf("failed to decode key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return rec, fmt.Errorf("unexpected key token %v", keyTok)
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return rec, fmt.Errorf("failed to decode value of %q: %w", key, err)
		}

		if i, seen := index[key]; seen {
			rec.Values[i] = value
			continue
		}
		index[key] = len(rec.Keys)
		rec.Keys = append(rec.Keys, key)
		rec.Values = append(rec.Values, value)
	}

	if _, err := dec.Token(); err != nil {
		return rec, fmt.Errorf("failed to decode body: %w", err)
	}

	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return rec, fmt.Errorf("trailing data after JSON object: %w", err)
		}
		return rec, fmt.Errorf("trailing data after JSON object: %v", tok)
	}

	return rec, nil
}

// DecodeEmployeeRecord reads an employee record from r, keeping numbers as
// json.Number. An empty body yields an empty record.
func DecodeEmployeeRecord(r io.Reader) (EmployeeRecord, error) {
	ordered, err := DecodeOrderedRecord(r)
	if err != nil {
		return nil, err
	}

	rec := make(EmployeeRecord, len(ordered.Keys))
	for i, key := range ordered.Keys {
		rec[key] = ordered.Values[i]
	}
	return rec, nil
}
