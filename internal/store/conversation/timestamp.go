package conversation

import (
	"encoding/json"
	"fmt"
	"time"
)

// storedTime is the durable representation of a message timestamp. Documents
// written by earlier clients carry one of three shapes: an RFC3339 string, a
// raw epoch-second number, or a {seconds, nanoseconds} record. Load accepts
// all three and always yields one concrete time.Time inside the system; Save
// writes the record form so client clock formats never leak into storage.
type storedTime struct {
	time.Time
}

type epochRecord struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

func (t storedTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(epochRecord{
		Seconds:     t.Unix(),
		Nanoseconds: int64(t.Nanosecond()),
	})
}

func (t *storedTime) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("unrecognized timestamp %q: %w", raw, err)
		}
		t.Time = parsed.UTC()
		return nil
	case '{':
		var rec epochRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		t.Time = time.Unix(rec.Seconds, rec.Nanoseconds).UTC()
		return nil
	default:
		var seconds int64
		if err := json.Unmarshal(data, &seconds); err != nil {
			return fmt.Errorf("unrecognized timestamp %s: %w", data, err)
		}
		t.Time = time.Unix(seconds, 0).UTC()
		return nil
	}
}
