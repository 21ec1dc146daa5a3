package timeutil

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Instant is a point in time paired with the UTC offset it was expressed in.
//
// Deadlines and closing times must keep the venue's original offset: the
// downstream route lookups expect arrival times like "18:00:00+09:00", so
// normalizing to UTC would lose information. Arithmetic works on epoch
// milliseconds; the offset only matters when rendering.
type Instant struct {
	ms        int64
	offsetMin int
}

const minuteMs = 60_000

// Of builds an Instant from epoch milliseconds and an offset in minutes.
func Of(ms int64, offsetMin int) Instant {
	return Instant{ms: ms, offsetMin: offsetMin}
}

// FromTime converts a time.Time, keeping its zone offset.
func FromTime(t time.Time) Instant {
	_, offSec := t.Zone()
	return Instant{ms: t.UnixMilli(), offsetMin: offSec / 60}
}

// Parse reads an ISO 8601 / RFC 3339 string. A string without an explicit
// offset is taken as UTC, matching how unannotated inputs were treated upstream.
func Parse(s string) (Instant, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t), nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return Instant{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return Instant{ms: t.UnixMilli(), offsetMin: 0}, nil
}

func (i Instant) UnixMilli() int64   { return i.ms }
func (i Instant) OffsetMinutes() int { return i.offsetMin }

// Before reports whether i is earlier than other, comparing absolute time.
func (i Instant) Before(other Instant) bool { return i.ms < other.ms }

// SubSeconds returns the instant n seconds earlier with the offset preserved.
func (i Instant) SubSeconds(n int) Instant {
	return Instant{ms: i.ms - int64(n)*1000, offsetMin: i.offsetMin}
}

// SubMinutes returns the instant n minutes earlier with the offset preserved.
func (i Instant) SubMinutes(n int) Instant {
	return i.SubSeconds(n * 60)
}

// MinutesBetween returns floor((to - from) in minutes). Negative when to is
// already past.
func MinutesBetween(from, to Instant) int {
	d := to.ms - from.ms
	q := d / minuteMs
	if d%minuteMs != 0 && d < 0 {
		q--
	}
	return int(q)
}

// Time converts to a time.Time in a fixed zone matching the stored offset.
func (i Instant) Time() time.Time {
	return time.UnixMilli(i.ms).In(time.FixedZone("", i.offsetMin*60))
}

// String renders the instant in its original offset, e.g. 2026-02-14T18:00:00+09:00.
func (i Instant) String() string {
	return i.Time().Format("2006-01-02T15:04:05-07:00")
}

func (i Instant) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("unmarshal instant: not a JSON string: %s", data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return fmt.Errorf("unmarshal instant: %w", err)
	}
	*i = parsed
	return nil
}

// Instants persist as their ISO string so documents stay readable and the
// offset survives the round trip.
func (i Instant) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(i.String())
}

func (i *Instant) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	s, ok := rv.StringValueOK()
	if !ok {
		return fmt.Errorf("unmarshal instant: unexpected bson type %s", t)
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("unmarshal instant: %w", err)
	}
	*i = parsed
	return nil
}
