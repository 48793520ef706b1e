// Package session decides whether a timestamp falls inside a configured
// trading killzone (London or New York open). The engine consumes this as an
// injected predicate so the detection core stays timezone-agnostic.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Brxzee/scalping-bot/pkg/config"
)

// Window is a minute-of-day interval with a grace extension after the end.
type Window struct {
	Name      string
	StartMin  int
	EndMin    int
	ExtendMin int
}

// Contains reports whether a minute-of-day falls inside the window,
// inclusive at the start and through end+extend. Windows may wrap midnight.
func (w Window) Contains(minuteOfDay int) bool {
	end := w.EndMin + w.ExtendMin
	if w.EndMin >= w.StartMin {
		return minuteOfDay >= w.StartMin && minuteOfDay <= end
	}
	// Overnight window.
	return minuteOfDay >= w.StartMin || minuteOfDay <= end%(24*60)
}

// Clock evaluates killzone membership in a fixed timezone.
type Clock struct {
	loc     *time.Location
	windows []Window
}

// NewClock builds a killzone clock from config. Window times are HH:MM in
// the configured timezone.
func NewClock(cfg *config.KillzoneConfig) (*Clock, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid killzone timezone %s: %w", cfg.Timezone, err)
	}

	windows := make([]Window, 0, 2)
	for _, def := range []struct {
		name       string
		start, end string
	}{
		{"london", cfg.LondonStart, cfg.LondonEnd},
		{"newyork", cfg.NewYorkStart, cfg.NewYorkEnd},
	} {
		start, err := parseClock(def.start)
		if err != nil {
			return nil, fmt.Errorf("invalid %s start: %w", def.name, err)
		}
		end, err := parseClock(def.end)
		if err != nil {
			return nil, fmt.Errorf("invalid %s end: %w", def.name, err)
		}
		windows = append(windows, Window{
			Name:      def.name,
			StartMin:  start,
			EndMin:    end,
			ExtendMin: cfg.ExtendMinutesAfter,
		})
	}

	return &Clock{loc: loc, windows: windows}, nil
}

// WindowName returns the killzone containing the timestamp, or false when
// the timestamp is outside every window.
func (c *Clock) WindowName(ts time.Time) (string, bool) {
	local := ts.In(c.loc)
	minuteOfDay := local.Hour()*60 + local.Minute()
	for _, w := range c.windows {
		if w.Contains(minuteOfDay) {
			return w.Name, true
		}
	}
	return "", false
}

// InKillzone reports whether the timestamp falls inside any killzone.
func (c *Clock) InKillzone(ts time.Time) bool {
	_, ok := c.WindowName(ts)
	return ok
}

func parseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour*60 + minute, nil
}
