package progress

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const barWidth = 40

// Bar is a simple terminal progress bar for batch runs.
type Bar struct {
	total     int
	current   int
	mu        sync.Mutex
	startTime time.Time
	lastPrint time.Time
	done      bool
}

// New creates a new progress bar
func New(total int) *Bar {
	now := time.Now()
	return &Bar{
		total:     total,
		startTime: now,
		lastPrint: now,
	}
}

// Increment increases the progress counter
func (b *Bar) Increment() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	// Redraw at most twice a second, plus once on completion.
	now := time.Now()
	if now.Sub(b.lastPrint) > 500*time.Millisecond || b.current >= b.total {
		b.render()
		b.lastPrint = now
	}
}

// Finish marks the progress as complete
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.done {
		b.current = b.total
		b.render()
		fmt.Println()
		b.done = true
	}
}

func (b *Bar) render() {
	if b.done || b.total == 0 {
		return
	}

	fraction := float64(b.current) / float64(b.total)
	filled := int(float64(barWidth) * fraction)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	elapsed := time.Since(b.startTime)
	var eta time.Duration
	if b.current > 0 {
		eta = elapsed / time.Duration(b.current) * time.Duration(b.total-b.current)
	}

	fmt.Printf("\r[%s] %d/%d (%.1f%%) - Elapsed: %s - ETA: %s   ",
		bar, b.current, b.total, fraction*100, formatDuration(elapsed), formatDuration(eta))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
