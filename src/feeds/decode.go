package feeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// DecodeSnapshot reads a JSON snapshot document
// A record that does not decode is listed in Rejected and the rest of its feed is kept.
func DecodeSnapshot(r io.Reader) (*RawSnapshot, error) {
	var raw RawSnapshot
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &raw, nil
}

// UnmarshalJSON decodes each feed record on its own
func (s *RawSnapshot) UnmarshalJSON(data []byte) error {
	var doc struct {
		Company      json.RawMessage   `json:"company"`
		Properties   []json.RawMessage `json:"properties"`
		Leases       []json.RawMessage `json:"leases"`
		Tenants      []json.RawMessage `json:"tenants"`
		Payments     []json.RawMessage `json:"payments"`
		LevyPayments []json.RawMessage `json:"levyPayments"`
		Expenses     []json.RawMessage `json:"expenses"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*s = RawSnapshot{}
	if len(doc.Company) > 0 && !bytes.Equal(doc.Company, []byte("null")) {
		if err := json.Unmarshal(doc.Company, &s.Company); err != nil {
			s.reject("company", "company", err)
		}
	}
	s.Properties = decodeEach[RawProperty](s, "properties", indexed(doc.Properties))
	s.Leases = decodeEach[RawLease](s, "leases", indexed(doc.Leases))
	s.Tenants = decodeEach[RawTenant](s, "tenants", indexed(doc.Tenants))
	s.Payments = decodeEach[RawPayment](s, "payments", indexed(doc.Payments))
	s.LevyPayments = decodeEach[RawPayment](s, "levyPayments", indexed(doc.LevyPayments))
	s.Expenses = decodeEach[RawExpense](s, "expenses", indexed(doc.Expenses))
	return nil
}

// document is one undecoded feed record; key locates it for logging
type document struct {
	key  string
	body json.RawMessage
}

func indexed(bodies []json.RawMessage) []document {
	docs := make([]document, len(bodies))
	for i, body := range bodies {
		docs[i] = document{key: "#" + strconv.Itoa(i), body: body}
	}
	return docs
}

func decodeEach[T any](s *RawSnapshot, feed string, docs []document) []T {
	var out []T
	for _, doc := range docs {
		var record T
		if err := json.Unmarshal(doc.body, &record); err != nil {
			s.reject(feed, doc.key, err)
			continue
		}
		out = append(out, record)
	}
	return out
}

func (s *RawSnapshot) reject(feed, key string, err error) {
	s.Rejected = append(s.Rejected, Rejection{Feed: feed, Key: key, Err: err.Error()})
}
