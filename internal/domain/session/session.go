// Package session owns the state of one user visit: the challenge tracker,
// the action ledger, the running totals and the selected view.
//
// A Session is not safe for concurrent use; callers serialize access.
package session

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/okian/outgoing/internal/domain/catalog"
	"github.com/okian/outgoing/internal/domain/challenge"
	"github.com/okian/outgoing/internal/domain/ledger"
	"github.com/okian/outgoing/internal/domain/model"
)

// DayLayout is the format of day keys.
const DayLayout = "2006-01-02"

// Current is the read model of today's challenge.
type Current struct {
	Day            model.ChallengeDay
	UnlockedDay    int
	CompletedToday bool
	Finished       bool
}

// Session is the single owner of mutable progress state.
type Session struct {
	catalog *catalog.Catalog
	tracker *challenge.Tracker
	ledger  *ledger.Ledger
	clock   Clock
	loc     *time.Location
	policy  Policy

	totals model.Totals
	view   model.View
	day    string

	onRollover func(from, to string)
}

// New starts a session on the clock's current day.
func New(cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		catalog: cat,
		tracker: challenge.NewTracker(cat),
		ledger:  ledger.New(),
		clock:   RealClock{},
		loc:     time.Local,
		policy:  PolicyMidnight,
		view:    model.ViewHome,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.day = s.dayKey(s.clock.Now())
	return s
}

// OnRollover registers fn to be called after every rollover.
func (s *Session) OnRollover(fn func(from, to string)) {
	s.onRollover = fn
}

func (s *Session) dayKey(t time.Time) string {
	return t.In(s.loc).Format(DayLayout)
}

// sync applies the midnight policy. Day keys compare lexically, and the
// session day never moves backwards.
func (s *Session) sync() {
	if s.policy != PolicyMidnight {
		return
	}
	if today := s.dayKey(s.clock.Now()); today > s.day {
		s.rollover(today)
	}
}

func (s *Session) rollover(to string) {
	from := s.day
	s.day = to
	s.tracker.ResetDay()
	s.totals.DailyPoints = 0
	if s.onRollover != nil {
		s.onRollover(from, to)
	}
}

// StartNewDay rolls over to the day after the session day, regardless of policy.
func (s *Session) StartNewDay() string {
	s.sync()
	d, err := time.ParseInLocation(DayLayout, s.day, s.loc)
	if err != nil {
		d = s.clock.Now().In(s.loc)
	}
	s.rollover(d.AddDate(0, 0, 1).Format(DayLayout))
	return s.day
}

// Today returns the session day key.
func (s *Session) Today() string {
	s.sync()
	return s.day
}

// CompleteDailyChallenge claims the reward of the unlocked day.
func (s *Session) CompleteDailyChallenge() (model.ChallengeDay, model.Award, error) {
	s.sync()
	day, err := s.tracker.Complete()
	if err != nil {
		return model.ChallengeDay{}, model.Award{}, err
	}
	award := s.award(model.AwardChallenge, "day-"+strconv.Itoa(day.Day), day.Points, s.clock.Now())
	return day, award, nil
}

// LogAction appends a ledger entry for a catalogued action.
func (s *Session) LogAction(id string) (model.LogEntry, model.Award, error) {
	s.sync()
	action, err := s.catalog.Action(id)
	if err != nil {
		return model.LogEntry{}, model.Award{}, err
	}
	now := s.clock.Now()
	entry := s.ledger.Append(action, now)
	award := s.award(model.AwardAction, action.ID, action.Points, now)
	return entry, award, nil
}

func (s *Session) award(src model.AwardSource, ref string, points int, at time.Time) model.Award {
	s.totals.TotalPoints += points
	s.totals.DailyPoints += points
	return model.Award{Source: src, Ref: ref, Points: points, Day: s.day, At: at}
}

// SelectView switches the selected view.
func (s *Session) SelectView(v model.View) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidView, v)
	}
	s.view = v
	return nil
}

// View returns the selected view.
func (s *Session) View() model.View { return s.view }

// CurrentChallenge returns today's challenge read model.
func (s *Session) CurrentChallenge() (Current, error) {
	s.sync()
	day, err := s.tracker.Current()
	if err != nil {
		return Current{}, err
	}
	return Current{
		Day:            day,
		UnlockedDay:    s.tracker.UnlockedDay(),
		CompletedToday: s.tracker.CompletedToday(),
		Finished:       s.tracker.Finished(),
	}, nil
}

// Progress returns the seven-day progress list.
func (s *Session) Progress() []challenge.DayProgress {
	s.sync()
	return s.tracker.Progress()
}

// Entries yields log entries most recent first.
func (s *Session) Entries() iter.Seq[model.LogEntry] {
	return s.ledger.All()
}

// EntryCount returns the number of log entries.
func (s *Session) EntryCount() int { return s.ledger.Len() }

// Totals returns the running sums.
func (s *Session) Totals() model.Totals {
	s.sync()
	return s.totals
}

// Catalog returns the catalog the session was built with.
func (s *Session) Catalog() *catalog.Catalog { return s.catalog }
