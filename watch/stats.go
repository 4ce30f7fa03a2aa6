package watch

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Stats counts the outcome of every link in a run.
// Watched counts every link that was opened, including ones that then
// failed, so Watched+Skipped always equals Total.
type Stats struct {
	Total    int
	Watched  int
	Skipped  int
	Failed   int
	TimedOut int
}

// SkipPercent formats skipped/total as "12.5%". Callers only report
// stats for non-empty runs; an empty run formats as "0.0%".
func (s Stats) SkipPercent() string {
	if s.Total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Skipped)/float64(s.Total)*100)
}

// Report logs the summary block
func (s Stats) Report(log zerolog.Logger) {
	log.Info().Msg("=== STATISTICS ===")
	log.Info().Msgf("Total processed: %d", s.Total)
	log.Info().Msgf("Watched: %d", s.Watched)
	log.Info().Msgf("Skipped: %d", s.Skipped)
	log.Info().Msgf("Skip percentage: %s", s.SkipPercent())
}
