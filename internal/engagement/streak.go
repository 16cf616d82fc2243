package engagement

import "time"

// StreakState is the slice of an account that the writing streak depends on.
type StreakState struct {
	CurrentStreak int
	LongestStreak int
	LastJournaled *time.Time
}

// StreakOutcome describes what AdvanceStreak did.
type StreakOutcome string

const (
	StreakUnchanged StreakOutcome = "unchanged"
	StreakExtended  StreakOutcome = "extended"
	StreakStarted   StreakOutcome = "started"
)

// AdvanceStreak applies a journal saved at journalDate to the streak.
//
// At most one increment happens per calendar day. A journal on the day right after the last
// one extends the streak; any other day (first journal, a gap, or a date before the last one)
// restarts it at 1. LongestStreak never decreases and never drops below CurrentStreak.
func AdvanceStreak(s StreakState, journalDate time.Time, loc *time.Location) (StreakState, StreakOutcome) {
	if s.LastJournaled != nil && SameDay(*s.LastJournaled, journalDate, loc) {
		return s, StreakUnchanged
	}

	next := 1
	outcome := StreakStarted
	if s.LastJournaled != nil && IsPreviousDay(*s.LastJournaled, journalDate, loc) {
		next = s.CurrentStreak + 1
		outcome = StreakExtended
	}

	longest := s.LongestStreak
	if next > longest {
		longest = next
	}

	at := journalDate
	return StreakState{
		CurrentStreak: next,
		LongestStreak: longest,
		LastJournaled: &at,
	}, outcome
}
