package deal

import (
	"fmt"
	"time"

	"github.com/melkban/dealdesk/internal/money"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// FormatTimestamp renders a server timestamp as a Persian-calendar date.
// Empty values render as an em-dash; unparseable values pass through raw.
func FormatTimestamp(raw string) string {
	if raw == "" {
		return "—"
	}

	var (
		t   time.Time
		err error
	)

	for _, layout := range timestampLayouts {
		t, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}

	if err != nil {
		return raw
	}

	jy, jm, jd := toJalali(t.Year(), int(t.Month()), t.Day())

	formatted := fmt.Sprintf("%04d/%02d/%02d", jy, jm, jd)
	if t.Hour() != 0 || t.Minute() != 0 {
		formatted += fmt.Sprintf(" %02d:%02d", t.Hour(), t.Minute())
	}

	return money.PersianDigits(formatted)
}

// toJalali converts a Gregorian civil date to the Persian calendar.
func toJalali(gy, gm, gd int) (jy, jm, jd int) {
	gDaysInMonth := [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

	gy2 := gy - 1600
	dayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	dayNo += gDaysInMonth[gm-1] + gd - 1

	if gm > 2 && ((gy%4 == 0 && gy%100 != 0) || gy%400 == 0) {
		dayNo++
	}

	jDayNo := dayNo - 79
	cycles := jDayNo / 12053
	jDayNo %= 12053

	jy = 979 + 33*cycles + 4*(jDayNo/1461)
	jDayNo %= 1461

	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	month := 0
	for month < 11 {
		length := 31
		if month >= 6 {
			length = 30
		}

		if jDayNo < length {
			break
		}

		jDayNo -= length
		month++
	}

	return jy, month + 1, jDayNo + 1
}
