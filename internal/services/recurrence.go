// Package services holds the reward ledger engine, the recurrence policy and
// the chore reset scheduler.
//
// This file implements the per-frequency reset policy. Each frequency has its
// own checker so the rules stay unit-testable in isolation from the store and
// the wall clock.

package services

import (
	"fmt"
	"time"

	"chorebucks/internal/core"
)

// ResetChecker decides whether a completed chore is due to revert to
// incomplete. All calendar comparisons use UTC, matching timestamp storage.
type ResetChecker interface {
	// ShouldReset reports whether a chore last completed at lastCompleted
	// should be reset given the current time.
	ShouldReset(lastCompleted, now time.Time) bool
}

// DailyChecker resets once the calendar date has moved on.
type DailyChecker struct{}

func (DailyChecker) ShouldReset(lastCompleted, now time.Time) bool {
	lastDate := lastCompleted.UTC().Format("2006-01-02")
	nowDate := now.UTC().Format("2006-01-02")
	return lastDate != nowDate
}

// WeeklyChecker resets on the first Monday check at least one whole day
// after completion. This is deliberately a heuristic, not a calendar-week
// boundary: completing late Sunday resets on the next Monday sweep.
type WeeklyChecker struct{}

func (WeeklyChecker) ShouldReset(lastCompleted, now time.Time) bool {
	if now.UTC().Weekday() != time.Monday {
		return false
	}
	wholeDays := int(now.Sub(lastCompleted).Hours() / 24)
	return wholeDays >= 1
}

// MonthlyChecker resets on the first of the month when the completion was in
// a different month or year.
type MonthlyChecker struct{}

func (MonthlyChecker) ShouldReset(lastCompleted, now time.Time) bool {
	nowUTC := now.UTC()
	if nowUTC.Day() != 1 {
		return false
	}
	lastUTC := lastCompleted.UTC()
	return lastUTC.Month() != nowUTC.Month() || lastUTC.Year() != nowUTC.Year()
}

// resetCheckers maps frequencies to their checkers.
var resetCheckers = map[core.Frequency]ResetChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
}

// GetResetChecker returns the checker for a frequency, or an error for
// frequencies with no reset rule.
func GetResetChecker(frequency core.Frequency) (ResetChecker, error) {
	checker, ok := resetCheckers[frequency]
	if !ok {
		return nil, fmt.Errorf("no reset rule for frequency: %s", frequency)
	}
	return checker, nil
}

// ShouldReset is the policy entry point used by the scheduler. A chore that
// was never completed is never due, and an unknown frequency never recurs.
func ShouldReset(frequency core.Frequency, lastCompletedAt *time.Time, now time.Time) bool {
	if lastCompletedAt == nil {
		return false
	}
	checker, err := GetResetChecker(frequency)
	if err != nil {
		return false
	}
	return checker.ShouldReset(*lastCompletedAt, now)
}
