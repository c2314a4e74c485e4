package presenter

import (
	"fmt"
	"math"
	"time"
)

// formatDuration renders d as the most fitting of "Xm Y.YYs", "X.XXs",
// "X.XXms", "X.XXus" or "Xns".
func formatDuration(d time.Duration) string {
	s := math.Round(d.Seconds()*100) / 100

	if s >= 60 {
		minutes := math.Floor(s / 60)
		return fmt.Sprintf("%dm %.2fs", int64(minutes), s-minutes*60)
	}
	if s >= 0.01 {
		return fmt.Sprintf("%.2fs", s)
	}

	n := d.Nanoseconds()
	switch {
	case n > 1_000_000:
		return fmt.Sprintf("%.2fms", float64(n)/1_000_000)
	case n > 1_000:
		return fmt.Sprintf("%.2fus", float64(n)/1_000)
	}
	return fmt.Sprintf("%dns", n)
}
