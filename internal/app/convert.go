package service

import (
	"github.com/okian/outgoing/internal/adapters/repository"
	"github.com/okian/outgoing/internal/domain/challenge"
	"github.com/okian/outgoing/internal/domain/model"
	"github.com/okian/outgoing/internal/domain/session"
	"github.com/okian/outgoing/internal/domain/types"
)

func toChallenge(cur session.Current, today string) types.Challenge {
	return types.Challenge{
		Day:            cur.Day.Day,
		Task:           cur.Day.Task,
		Points:         cur.Day.Points,
		UnlockedDay:    cur.UnlockedDay,
		CompletedToday: cur.CompletedToday,
		Finished:       cur.Finished,
		Today:          today,
	}
}

func toProgress(rows []challenge.DayProgress) []types.ProgressDay {
	out := make([]types.ProgressDay, len(rows))
	for i, r := range rows {
		out[i] = types.ProgressDay{Day: r.Day, Task: r.Task, Points: r.Points, State: string(r.State)}
	}
	return out
}

func toCategories(cats []model.Category) []types.ActionCategory {
	out := make([]types.ActionCategory, len(cats))
	for i, c := range cats {
		actions := make([]types.Action, len(c.Actions))
		for j, a := range c.Actions {
			actions[j] = types.Action{ID: a.ID, Name: a.Name, Points: a.Points}
		}
		out[i] = types.ActionCategory{Name: c.Name, Actions: actions}
	}
	return out
}

func toLogEntry(e model.LogEntry) types.LogEntry {
	return types.LogEntry{
		ID:        e.ID,
		ActionID:  e.ActionID,
		Action:    e.Action,
		Category:  e.Category,
		Points:    e.Points,
		Timestamp: e.Timestamp,
	}
}

func toTotals(t model.Totals) types.Totals {
	return types.Totals{TotalPoints: t.TotalPoints, DailyPoints: t.DailyPoints}
}

func toSeries(points []repository.Point) []types.SeriesPoint {
	out := make([]types.SeriesPoint, len(points))
	for i, p := range points {
		out[i] = types.SeriesPoint{Day: p.Day, Points: p.Points, Cumulative: p.Cumulative}
	}
	return out
}
