package session

import "time"

// TimestampLayout is how history timestamps are shown to users.
const TimestampLayout = "2006-01-02 15:04:05"

// HistoryEntry records a comparison made while both sides had a known source.
type HistoryEntry struct {
	Timestamp   time.Time
	LeftSource  string
	RightSource string
}

func (e HistoryEntry) FormattedTime() string {
	return e.Timestamp.Format(TimestampLayout)
}
