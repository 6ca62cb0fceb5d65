package mailer

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	icsTimeLayout = "20060102T150405Z"
	icsLineBreak  = "\r\n"
	icsProductID  = "-//slotbook//booking//EN"
	icsLineOctets = 75
)

// invite is a single-event iCalendar REQUEST.
type invite struct {
	UID            string
	Start          time.Time
	End            time.Time
	Stamp          time.Time
	Summary        string
	Description    string
	OrganizerName  string
	OrganizerEmail string
	AttendeeName   string
	AttendeeEmail  string
}

func (i invite) Bytes() []byte {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icsProductID,
		"METHOD:REQUEST",
		"BEGIN:VEVENT",
		"UID:" + i.UID,
		"DTSTAMP:" + i.Stamp.UTC().Format(icsTimeLayout),
		"DTSTART:" + i.Start.UTC().Format(icsTimeLayout),
		"DTEND:" + i.End.UTC().Format(icsTimeLayout),
		"SUMMARY:" + icsEscape(i.Summary),
		"DESCRIPTION:" + icsEscape(i.Description),
		"ORGANIZER;CN=" + icsParam(i.OrganizerName) + ":mailto:" + i.OrganizerEmail,
		"ATTENDEE;CN=" + icsParam(i.AttendeeName) + ";RSVP=TRUE:mailto:" + i.AttendeeEmail,
		"END:VEVENT",
		"END:VCALENDAR",
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(fold(line))
		b.WriteString(icsLineBreak)
	}

	return []byte(b.String())
}

// fold splits content lines longer than 75 octets without breaking a UTF-8 sequence.
func fold(line string) string {
	if len(line) <= icsLineOctets {
		return line
	}

	var b strings.Builder

	width := 0
	for _, r := range line {
		size := utf8.RuneLen(r)
		if width+size > icsLineOctets {
			b.WriteString(icsLineBreak + " ")
			width = 1
		}

		b.WriteRune(r)
		width += size
	}

	return b.String()
}

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\r\n", `\n`, "\n", `\n`)

func icsEscape(value string) string {
	return icsEscaper.Replace(value)
}

// icsParam quotes parameter values that contain separators.
func icsParam(value string) string {
	value = strings.ReplaceAll(value, `"`, "'")
	if strings.ContainsAny(value, ":;,") {
		return `"` + value + `"`
	}

	return value
}
