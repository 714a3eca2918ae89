package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsRecordAndRollover(t *testing.T) {
	s := NewStats(newMemDocs())

	day1 := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	s.now = func() time.Time { return day1 }

	s.RecordBlock()
	s.RecordBlock()
	s.RecordBlock()
	assert.Equal(t, 3, s.BlockedToday())

	// the counter reads as zero as soon as the day changes
	day2 := day1.Add(24 * time.Hour)
	s.now = func() time.Time { return day2 }
	assert.Equal(t, 0, s.BlockedToday())

	s.RecordBlock()
	assert.Equal(t, 1, s.BlockedToday())
}

func TestStatsLoadSameDay(t *testing.T) {
	docs := newMemDocs()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	docs.Set(docBlockStats, []byte(`{"totalBlocksToday":7,"lastReset":"2026-03-10"}`))

	s := NewStats(docs)
	s.now = func() time.Time { return now }
	s.Load()
	assert.Equal(t, 7, s.BlockedToday())
}

func TestStatsLoadDiscardsStaleDay(t *testing.T) {
	docs := newMemDocs()
	docs.Set(docBlockStats, []byte(`{"totalBlocksToday":42,"lastReset":"2026-03-09"}`))

	s := NewStats(docs)
	s.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local) }
	s.Load()
	assert.Equal(t, 0, s.BlockedToday())
}

func TestStatsLoadMissingDocument(t *testing.T) {
	s := NewStats(newMemDocs())
	s.Load()
	assert.Equal(t, 0, s.BlockedToday())
}
