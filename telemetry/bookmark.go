package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBloom            BookmarkType = "bloom"
	BookmarkCrash            BookmarkType = "population_crash"
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkFieldDepleted    BookmarkType = "field_depleted"
	BookmarkStablePopulation BookmarkType = "stable_population"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        uint64       `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run from its window stats.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPeak        int  // peak agent count since the last crash
	extinct           bool // extinction already reported
	depleted          bool // depletion already reported
	stableWindowCount int  // consecutive windows with a steady population
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFieldDepleted(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkBloom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStablePopulation(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Agents > bd.recentPeak {
		bd.recentPeak = stats.Agents
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

// checkBloom fires when the population more than doubles its rolling average.
func (bd *BookmarkDetector) checkBloom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Agents
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	if float64(stats.Agents) > avg*2.0 && stats.Agents >= 20 {
		return &Bookmark{
			Type:        BookmarkBloom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population %d is %.1fx average (%.0f)", stats.Agents, float64(stats.Agents)/avg, avg),
		}
	}
	return nil
}

// checkCrash fires when the population drops more than 30% below its recent peak.
func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Agents == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Agents)/float64(bd.recentPeak)
	if drop > 0.30 && stats.Agents < bd.recentPeak-10 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Agents

		return &Bookmark{
			Type:        BookmarkCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Agents),
		}
	}
	return nil
}

// checkExtinction fires once when the last agent dies.
func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Agents > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Population extinct after %d deaths in the last window", stats.Deaths),
	}
}

// checkFieldDepleted fires once when the field maximum falls below 5% of the
// previous window's mean.
func (bd *BookmarkDetector) checkFieldDepleted(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) == 0 {
		return nil
	}
	prev := history[len(history)-1]
	if prev.FieldMean <= 0 {
		return nil
	}
	if stats.FieldMax >= prev.FieldMean*0.05 {
		bd.depleted = false
		return nil
	}
	if bd.depleted {
		return nil
	}
	bd.depleted = true
	return &Bookmark{
		Type:        BookmarkFieldDepleted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Field max %.4f below 5%% of previous mean %.4f", stats.FieldMax, prev.FieldMean),
	}
}

// checkStablePopulation fires once after five consecutive windows whose
// trailing four-window coefficient of variation stays below 20%.
func (bd *BookmarkDetector) checkStablePopulation(stats WindowStats) *Bookmark {
	if stats.Agents < 10 {
		bd.stableWindowCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.Agents)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := float64(h.Agents) - mean
		variance += d * d
	}
	variance /= 4

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}

	if cv2 < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.stableWindowCount++
	} else {
		bd.stableWindowCount = 0
	}

	if bd.stableWindowCount == 5 {
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Population steady around %.0f agents over 5+ windows", mean),
		}
	}
	return nil
}
