package cvc

import (
	"errors"
	"time"
)

// ErrBadDate reports a BCD date field whose nibbles are out of range or
// whose digits don't name a valid Gregorian day (spec.md §3.6, §6.1:
// "validated against Gregorian rules").
var ErrBadDate = errors.New("cvc: invalid BCD date")

// dateCentury is the century BCD's two-digit year is read against: spec.md
// never names an epoch, so this follows the smart-card convention (and the
// CVC fixtures in this tree, all dated 202x-204x) of treating yy as 2000+yy.
const dateCentury = 2000

// EncodeDate packs t as six BCD digit bytes yy mm dd dd (spec.md §3.6's
// "each six BCD-packed bytes yyMMdd", §6.1's "Six bytes: yy mm dd dd in
// packed BCD nibbles"): one decimal digit per byte, low nibble only, in the
// order year-tens year-ones month-tens month-ones day-tens day-ones. The
// zero time.Time is encoded as all-zero bytes, the wire form of "no date
// binding" (spec.md §3.7's date invariant).
func EncodeDate(t time.Time) [6]byte {
	if t.IsZero() {
		return [6]byte{}
	}
	yy := (t.Year() - dateCentury) % 100
	if yy < 0 {
		yy += 100
	}
	mm := int(t.Month())
	dd := t.Day()
	return [6]byte{
		byte(yy / 10), byte(yy % 10),
		byte(mm / 10), byte(mm % 10),
		byte(dd / 10), byte(dd % 10),
	}
}

// DecodeDate unpacks six BCD digit bytes into a date, or into the zero
// time.Time when b is all-zero ("no date binding", spec.md §3.7). It
// rejects out-of-range nibbles and dates that are not valid Gregorian
// calendar days (month outside 1-12, day outside 1-{28..31}).
func DecodeDate(b []byte) (time.Time, error) {
	if len(b) != 6 {
		return time.Time{}, ErrBadDate
	}
	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
		}
		if v > 9 {
			return time.Time{}, ErrBadDate
		}
	}
	if allZero {
		return time.Time{}, nil
	}
	yy := int(b[0])*10 + int(b[1])
	mm := int(b[2])*10 + int(b[3])
	dd := int(b[4])*10 + int(b[5])
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return time.Time{}, ErrBadDate
	}
	year := dateCentury + yy
	date := time.Date(year, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != mm || date.Day() != dd {
		return time.Time{}, ErrBadDate
	}
	return date, nil
}
