package archive

import "time"

// timeToDOS - packs t into MS-DOS date and time words. Seconds are halved
// (2-second resolution) and sub-second precision truncates. Years before
// 1980 clamp to the DOS epoch.
func timeToDOS(t time.Time) (date, tod uint16) {
	if t.Year() < 1980 {
		return 1 | 1<<5, 0 // 1980-01-01 00:00:00
	}

	date = uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	tod = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, tod
}

// timeFromDOS - unpacks MS-DOS date and time words.
func timeFromDOS(date, tod uint16) time.Time {
	return time.Date(
		1980+int(date>>9),
		time.Month(date>>5&0xF),
		int(date&0x1F),
		int(tod>>11),
		int(tod>>5&0x3F),
		int(tod&0x1F)*2,
		0, time.UTC)
}
