package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// CardCollection maps employee codes to cards and remembers insertion order.
// Replacing an existing code keeps its position; new codes are appended.
type CardCollection struct {
	order []string
	cards map[string]CardRecord
}

// NewCardCollection creates an empty collection
func NewCardCollection() *CardCollection {
	return &CardCollection{cards: make(map[string]CardRecord)}
}

// Len returns the number of cards
func (c *CardCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Get looks up a card by employee code
func (c *CardCollection) Get(code string) (CardRecord, bool) {
	if c == nil {
		return CardRecord{}, false
	}
	r, ok := c.cards[code]
	return r, ok
}

// Put inserts or replaces the card keyed by its employee code
func (c *CardCollection) Put(r CardRecord) {
	c.put(r.EmployeeCode, r)
}

func (c *CardCollection) put(code string, r CardRecord) {
	if c.cards == nil {
		c.cards = make(map[string]CardRecord)
	}
	if _, exists := c.cards[code]; !exists {
		c.order = append(c.order, code)
	}
	c.cards[code] = r
}

// Delete removes a card and reports whether it was present
func (c *CardCollection) Delete(code string) bool {
	if c == nil {
		return false
	}
	if _, ok := c.cards[code]; !ok {
		return false
	}
	delete(c.cards, code)
	for i, k := range c.order {
		if k == code {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Codes returns employee codes in insertion order
func (c *CardCollection) Codes() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Records returns all cards in insertion order
func (c *CardCollection) Records() []CardRecord {
	if c == nil {
		return nil
	}
	out := make([]CardRecord, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.cards[code])
	}
	return out
}

// Clone returns a copy that can be modified without affecting c
func (c *CardCollection) Clone() *CardCollection {
	out := NewCardCollection()
	if c == nil {
		return out
	}
	for _, code := range c.order {
		out.put(code, c.cards[code])
	}
	return out
}

// MarshalJSON writes the collection as a JSON object with keys in insertion order
func (c *CardCollection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if c != nil {
		for i, code := range c.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(code)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(c.cards[code])
			if err != nil {
				return nil, fmt.Errorf("card %q: %w", code, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrInvalidShape is returned when JSON does not describe an employee code to card mapping
var ErrInvalidShape = errors.New("card collection must be a JSON object of card objects")

// UnmarshalJSON reads a JSON object of cards, preserving the document key order.
// A record without an employee code takes it from its key.
func (c *CardCollection) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrInvalidShape
	}

	out := NewCardCollection()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidShape, err)
		}
		code, ok := tok.(string)
		if !ok {
			return ErrInvalidShape
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidShape, err)
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return fmt.Errorf("%w: value for %q is not an object", ErrInvalidShape, code)
		}

		var rec CardRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return fmt.Errorf("%w: card %q: %v", ErrInvalidShape, code, err)
		}
		if rec.EmployeeCode == "" {
			rec.EmployeeCode = code
		}
		out.put(code, rec)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data", ErrInvalidShape)
	}

	*c = *out
	return nil
}
