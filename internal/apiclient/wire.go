package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ID decodes either a plain id string or a populated object carrying `_id` or `id`.
type ID string

func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var obj struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if obj.MongoID != "" {
		*i = ID(obj.MongoID)
	} else {
		*i = ID(obj.ID)
	}
	return nil
}

func (i ID) String() string { return string(i) }

// Number is a decimal that also accepts quoted numbers, empty strings and null.
// It encodes as a bare JSON number.
type Number struct {
	decimal.Decimal
}

func NewNumber(d decimal.Decimal) Number { return Number{Decimal: d} }

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}
	text := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			n.Decimal = decimal.Zero
			return nil
		}
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("decode number %q: %w", text, err)
	}
	n.Decimal = d
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// Time accepts RFC 3339 timestamps, plain yyyy-mm-dd dates, empty strings and null.
type Time struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Time) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("decode time %q: unsupported layout", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}

func (t Time) Set() bool { return !t.IsZero() }
