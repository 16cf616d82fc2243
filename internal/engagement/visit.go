package engagement

import "time"

const (
	// DailyCoinGrant is credited on the first visit of each calendar day.
	DailyCoinGrant = 10
	// StoryLength is the number of distinct visit-days that complete one story.
	StoryLength = 30
)

// VisitState is the slice of an account touched by a daily visit.
type VisitState struct {
	StoryVisitCount  int
	StoriesCompleted int
	Coins            int
	LastVisited      *time.Time
}

// VisitOutcome is reported back to the caller of RecordVisit.
type VisitOutcome struct {
	NewDay         bool
	CoinsEarned    int
	StoryCompleted bool
}

// RegisterVisit advances the story counter when newDay is set. The counter wraps at
// StoryLength into StoriesCompleted.
func RegisterVisit(s VisitState, newDay bool, now time.Time) (VisitState, bool) {
	if !newDay {
		return s, false
	}

	completed := false
	s.StoryVisitCount++
	if s.StoryVisitCount >= StoryLength {
		s.StoriesCompleted++
		s.StoryVisitCount = 0
		completed = true
	}

	at := now
	s.LastVisited = &at
	return s, completed
}

// GrantDailyCoins credits DailyCoinGrant when newDay is set and returns the amount earned.
func GrantDailyCoins(s VisitState, newDay bool) (VisitState, int) {
	if !newDay {
		return s, 0
	}
	s.Coins += DailyCoinGrant
	return s, DailyCoinGrant
}

// RecordVisit computes the day boundary once and feeds it to both the story counter and
// the coin grant.
func RecordVisit(s VisitState, now time.Time, loc *time.Location) (VisitState, VisitOutcome) {
	newDay := CrossedDay(s.LastVisited, now, loc)

	next, completed := RegisterVisit(s, newDay, now)
	next, earned := GrantDailyCoins(next, newDay)

	return next, VisitOutcome{
		NewDay:         newDay,
		CoinsEarned:    earned,
		StoryCompleted: completed,
	}
}
