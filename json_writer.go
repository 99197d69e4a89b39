package finsync

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Embed appends the fields of a raw JSON object to the object being built.
func (w *jsonObjectWriter) Embed(rawJSON []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	trimmed := bytes.TrimSpace(rawJSON)
	if len(trimmed) < 2 || trimmed[0] != '{' || trimmed[len(trimmed)-1] != '}' {
		w.err = fmt.Errorf("cannot embed %q: not a JSON object", trimmed)
		return w
	}
	trimmed = bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
	if len(trimmed) > 0 {
		w.Write(trimmed)
		w.WriteString(",")
	}
	return w
}

// EmbedFrom marshals v, which must encode to a JSON object, and embeds its
// fields.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	rawJSON, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal for embedding: %w", err)
		return w
	}
	return w.Embed(rawJSON)
}

// Append adds a new key-value pair to the JSON object.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	keyBytes, _ := json.Marshal(key)
	w.Write(keyBytes)
	w.WriteString(":")
	w.Write(valBytes)
	w.WriteString(",")
	return w
}

// Optional is like Append but skips zero values.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() || (v.Kind() == reflect.Slice && v.Len() == 0) {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON closes the object.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}

// TransactionDetail is a transaction joined with its account name and extras.
//
// It encodes as the transaction object followed by "account", "categories"
// and "tags". Empty categories and tags are omitted.
type TransactionDetail struct {
	Transaction
	Account string
	Extras  TransactionExtras
}

// MarshalJSON implements json.Marshaler.
func (d TransactionDetail) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	return w.EmbedFrom(d.Transaction).
		Append("account", d.Account).
		Optional("categories", d.Extras.Categories).
		Optional("tags", d.Extras.Tags).
		MarshalJSON()
}

// TransactionDetail returns the transaction with the given id, joined with its
// account name and extras.
func (db *DB) TransactionDetail(id uint64) (TransactionDetail, bool) {
	tx, ok := db.Transactions.FindByID(id)
	if !ok {
		return TransactionDetail{}, false
	}
	extras, _ := db.Extras.FindByID(id)
	return TransactionDetail{
		Transaction: tx,
		Account:     db.AccountName(tx.IDAccount),
		Extras:      extras,
	}, true
}
