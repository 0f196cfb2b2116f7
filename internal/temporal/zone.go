package temporal

import "fmt"

// Zone is the TimeZone interface described in spec.md §9's redesign
// notes: a small closed set of concrete variants standing in for the
// "opaque localtime-equivalent" TZ engine §1 treats as an external
// collaborator. Only OffsetZone does real work here; DBZone is an opaque
// placeholder this core never interprets.
type Zone interface {
	// ToUTCSeconds converts a local civil DateTime's wall-clock fields
	// (already normalized) to a UTC epoch-seconds value.
	ToUTCSeconds(dt DateTime) (int64, error)
	// FromUTCSeconds converts a UTC epoch-seconds value to local
	// wall-clock DateTime fields.
	FromUTCSeconds(sec int64) DateTime
	Name() string
}

// SystemZone defers to the process's local offset; this core does not
// load TZ rules itself (§1 non-goal) and treats the local offset as fixed
// at zero when no OffsetZone/DBZone is supplied by the embedder.
type SystemZone struct{}

func (SystemZone) Name() string { return "SYSTEM" }
func (SystemZone) ToUTCSeconds(dt DateTime) (int64, error) {
	return UTCZone{}.ToUTCSeconds(dt)
}
func (SystemZone) FromUTCSeconds(sec int64) DateTime {
	return UTCZone{}.FromUTCSeconds(sec)
}

// UTCZone is the zero-offset zone.
type UTCZone struct{}

func (UTCZone) Name() string { return "UTC" }

func (UTCZone) ToUTCSeconds(dt DateTime) (int64, error) {
	jdn := ToJulianDayNumber(dt.Date.Year, dt.Date.Month, dt.Date.Day)
	epochJDN := ToJulianDayNumber(1970, 1, 1)
	days := jdn - epochJDN
	sec := days*86400 + int64(dt.Time.ElapsedSeconds())
	return sec, nil
}

func (UTCZone) FromUTCSeconds(sec int64) DateTime {
	days := sec / 86400
	rem := sec % 86400
	if rem < 0 {
		rem += 86400
		days--
	}
	epochJDN := ToJulianDayNumber(1970, 1, 1)
	y, m, d := FromJulianDayNumber(epochJDN + days)
	return DateTime{
		Date: Date{Year: y, Month: m, Day: d},
		Time: Time{Hour: int(rem / 3600), Minute: int((rem / 60) % 60), Second: int(rem % 60)},
	}
}

// OffsetZone is a fixed UTC offset, checked at construction to fall in
// -12:59..+13:00 per spec.md §9.
type OffsetZone struct {
	SecondsEastOfUTC int32
}

// NewOffsetZone validates the offset range before returning a zone.
func NewOffsetZone(secondsEastOfUTC int32) (OffsetZone, error) {
	const minOffset = -(12*3600 + 59*60)
	const maxOffset = 13 * 3600
	if secondsEastOfUTC < minOffset || secondsEastOfUTC > maxOffset {
		return OffsetZone{}, fmt.Errorf("temporal: offset %ds out of range -12:59..+13:00", secondsEastOfUTC)
	}
	return OffsetZone{SecondsEastOfUTC: secondsEastOfUTC}, nil
}

func (z OffsetZone) Name() string { return fmt.Sprintf("OFFSET%+d", z.SecondsEastOfUTC) }

func (z OffsetZone) ToUTCSeconds(dt DateTime) (int64, error) {
	sec, err := UTCZone{}.ToUTCSeconds(dt)
	if err != nil {
		return 0, err
	}
	return sec - int64(z.SecondsEastOfUTC), nil
}

func (z OffsetZone) FromUTCSeconds(sec int64) DateTime {
	return UTCZone{}.FromUTCSeconds(sec + int64(z.SecondsEastOfUTC))
}

// DBZone is an opaque placeholder for a named TZ database rule set
// (e.g. "America/New_York"). This core never loads or interprets TZ
// rules (§1 non-goal: "Time-zone rule loading ... treated as an opaque
// localtime-equivalent"); an embedder supplying DBZone must implement
// Resolve itself and is expected to wrap a real Zone, not use DBZone
// directly as a Zone (hence DBZone does not implement Zone).
type DBZone struct {
	RuleSet string
}
