package core

import (
	"time"

	"github.com/huangsam/crewcast/schema"
)

// day parses a YYYY-MM-DD literal, panicking on bad test input.
func day(s string) time.Time {
	t, err := time.Parse(schema.DayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// ts parses a "YYYY-MM-DD HH:MM" literal into a pointer.
func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func entry(d, worker string) schema.Event {
	return schema.Event{Date: day(d), Kind: schema.EntryEvent, Worker: worker}
}

func exit(d, worker string) schema.Event {
	return schema.Event{Date: day(d), Kind: schema.ExitEvent, Worker: worker}
}
