package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// pendingPrefix marks a notes value that carries an AI-recommended frequency
// awaiting user confirmation: "AI_RECOMMENDED:<days>|<original notes>".
const pendingPrefix = "AI_RECOMMENDED:"

// EncodePendingNotes packs a proposed frequency and the schedule's original
// notes into the notes side-channel.
func EncodePendingNotes(days int, originalNotes string) string {
	return fmt.Sprintf("%s%d|%s", pendingPrefix, days, originalNotes)
}

// DecodePendingNotes unpacks a pending recommendation from a notes value.
// ok is false when the value carries no recommendation or the payload is
// malformed.
func DecodePendingNotes(notes string) (days int, originalNotes string, ok bool) {
	rest, found := strings.CutPrefix(notes, pendingPrefix)
	if !found {
		return 0, "", false
	}
	daysPart, notesPart, found := strings.Cut(rest, "|")
	if !found {
		return 0, "", false
	}
	days, err := strconv.Atoi(daysPart)
	if err != nil || days < 1 {
		return 0, "", false
	}
	return days, notesPart, true
}
