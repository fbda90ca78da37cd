package bodsfeed

import "time"

// siriTimeLayout is the single timestamp format the BODS profile permits:
// UTC, millisecond precision, literal "Z" suffix.
const siriTimeLayout = "2006-01-02T15:04:05.000Z"

// SiriTimestamp formats a time for a SIRI document. All timestamps in the
// feed go through this function; no other format is emitted anywhere.
func SiriTimestamp(t time.Time) string {
	return t.UTC().Format(siriTimeLayout)
}
