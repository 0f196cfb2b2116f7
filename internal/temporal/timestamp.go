package temporal

import "fmt"

// Timestamp is an epoch-anchored instant (§3: "Timestamp: in UNIX epoch
// range; must round-trip through time_t"). Unlike Date/DateTime, a
// Timestamp's day-boundary semantics go through a Zone, since the
// mapping from epoch seconds to local civil time is the TZ service's
// responsibility (§1, §4.2).
type Timestamp struct {
	Seconds     uint32 // epoch seconds, per §6's 4-byte unsigned pack
	Microsecond int
}

// MaxTimestampSeconds is the largest epoch-seconds value the 4-byte
// unsigned on-row form can hold.
const MaxTimestampSeconds = ^uint32(0)

// FromEpochSeconds builds a Timestamp directly from a signed Unix time,
// rejecting negative values (pre-epoch) and values beyond the 4-byte
// unsigned range.
func FromEpochSeconds(sec int64, microsecond int) (Timestamp, error) {
	if sec < 0 || sec > int64(MaxTimestampSeconds) {
		return Timestamp{}, fmt.Errorf("temporal: epoch seconds %d out of Timestamp range", sec)
	}
	return Timestamp{Seconds: uint32(sec), Microsecond: microsecond}, nil
}

// ToDateTime converts ts to local civil time under zone.
func (ts Timestamp) ToDateTime(zone Zone) DateTime {
	dt := zone.FromUTCSeconds(int64(ts.Seconds))
	dt.Microsecond = ts.Microsecond
	return dt
}

// FromDateTime converts a local civil DateTime under zone to a Timestamp.
func FromDateTime(dt DateTime, zone Zone) (Timestamp, error) {
	sec, err := zone.ToUTCSeconds(dt)
	if err != nil {
		return Timestamp{}, err
	}
	return FromEpochSeconds(sec, dt.Microsecond)
}

// CompareTimestamp orders by epoch seconds then microseconds.
func CompareTimestamp(a, b Timestamp) int {
	switch {
	case a.Seconds < b.Seconds:
		return -1
	case a.Seconds > b.Seconds:
		return 1
	case a.Microsecond < b.Microsecond:
		return -1
	case a.Microsecond > b.Microsecond:
		return 1
	default:
		return 0
	}
}

// Pack4 packs ts into the 4-byte unsigned-epoch-seconds on-row form (§6).
func (ts Timestamp) Pack4() [4]byte {
	v := ts.Seconds
	return [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

// UnpackTimestamp4 is the inverse of Pack4.
func UnpackTimestamp4(b [4]byte) Timestamp {
	v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return Timestamp{Seconds: v}
}

func (ts Timestamp) String(zone Zone) string {
	return ts.ToDateTime(zone).String()
}
