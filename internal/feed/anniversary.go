package feed

import "time"

// Entry is one anniversary read from a vCard, with its next occurrence.
type Entry struct {
	// UID is stable across syncs for the same card field.
	UID string

	Name string

	// Kind is the vCard property the date came from (BDAY or ANNIVERSARY).
	Kind string

	// Calendar is the normalized calendar id of the original date.
	Calendar string

	// Year, Month and Day are counted in Calendar. Year is 0 when unknown.
	Year, Month, Day int
	YearKnown        bool

	// NextOccurrence is the Gregorian date of the next event, today included.
	NextOccurrence time.Time

	// AgeNext is counted in years of Calendar; 0 when the year is unknown.
	AgeNext int
}
