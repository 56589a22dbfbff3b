package streaks

import (
	"context"
	"database/sql"
	"time"
)

const dayFormat = "2006-01-02"

type Streak struct {
	Current           int    `json:"current"`
	Longest           int    `json:"longest"`
	LastCompletedDate string `json:"last_completed_date,omitempty"`
}

// Advance computes the streak after completing `today` (YYYY-MM-DD), given
// the previous state. Completing the same day twice is a no-op; a consecutive
// day extends; a gap (or unparsable last date) starts over at 1.
func Advance(current, longest int, lastCompleted, today string) Streak {
	t, err := time.Parse(dayFormat, today)
	if err != nil {
		return Streak{Current: current, Longest: longest, LastCompletedDate: lastCompleted}
	}

	next := 1
	if last, err := time.Parse(dayFormat, lastCompleted); err == nil {
		switch {
		case last.Equal(t):
			return Streak{Current: current, Longest: longest, LastCompletedDate: lastCompleted}
		case last.AddDate(0, 0, 1).Equal(t):
			next = current + 1
		}
	}

	if next > longest {
		longest = next
	}
	return Streak{Current: next, Longest: longest, LastCompletedDate: today}
}

// Extend records that the user finished all tasks for `day` and returns the
// updated streak.
func Extend(ctx context.Context, dbx *sql.DB, userID int, day string) (Streak, error) {
	var cur, longest int
	var last sql.NullString
	err := dbx.QueryRowContext(ctx, `
		SELECT current, longest, to_char(last_completed_date, 'YYYY-MM-DD')
		FROM streaks
		WHERE user_id = $1
	`, userID).Scan(&cur, &longest, &last)
	if err != nil && err != sql.ErrNoRows {
		return Streak{}, err
	}

	s := Advance(cur, longest, last.String, day)

	_, err = dbx.ExecContext(ctx, `
		INSERT INTO streaks (user_id, current, longest, last_completed_date)
		VALUES ($1, $2, $3, $4::date)
		ON CONFLICT (user_id) DO UPDATE SET
			current = EXCLUDED.current,
			longest = EXCLUDED.longest,
			last_completed_date = EXCLUDED.last_completed_date
	`, userID, s.Current, s.Longest, s.LastCompletedDate)
	if err != nil {
		return Streak{}, err
	}

	return s, nil
}
