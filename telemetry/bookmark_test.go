package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Bloom(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Agents: 50, FieldMean: 0.5, FieldMax: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Agents: 180, FieldMean: 0.5, FieldMax: 1})
	if !hasBookmark(bookmarks, BookmarkBloom) {
		t.Errorf("expected bloom bookmark, got %+v", bookmarks)
	}
}

func TestBookmarkDetector_Crash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Agents: 100, FieldMean: 0.5, FieldMax: 1})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Agents: 50, FieldMean: 0.5, FieldMax: 1})
	if !hasBookmark(bookmarks, BookmarkCrash) {
		t.Errorf("expected population_crash bookmark, got %+v", bookmarks)
	}

	// The peak resets after a crash, so holding steady does not re-trigger
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, Agents: 50, FieldMean: 0.5, FieldMax: 1})
	if hasBookmark(bookmarks, BookmarkCrash) {
		t.Error("crash reported twice for the same drop")
	}
}

func TestBookmarkDetector_ExtinctionOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 600, Agents: 30})

	first := bd.Check(WindowStats{WindowEndTick: 1200, Agents: 0, Deaths: 30})
	if !hasBookmark(first, BookmarkExtinction) {
		t.Fatalf("expected extinction bookmark, got %+v", first)
	}
	if hasBookmark(first, BookmarkCrash) {
		t.Error("extinction should not also be reported as a crash")
	}

	second := bd.Check(WindowStats{WindowEndTick: 1800, Agents: 0})
	if hasBookmark(second, BookmarkExtinction) {
		t.Error("extinction reported twice")
	}
}

func TestBookmarkDetector_FieldDepleted(t *testing.T) {
	bd := NewBookmarkDetector(10)
	bd.Check(WindowStats{WindowEndTick: 600, Agents: 40, FieldMean: 0.6, FieldMax: 1})

	bookmarks := bd.Check(WindowStats{WindowEndTick: 1200, Agents: 40, FieldMean: 0.001, FieldMax: 0.01})
	if !hasBookmark(bookmarks, BookmarkFieldDepleted) {
		t.Errorf("expected field_depleted bookmark, got %+v", bookmarks)
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndTick: uint64(i * 600), Agents: 100, FieldMean: 0.5, FieldMax: 1})
		if hasBookmark(bookmarks, BookmarkStablePopulation) {
			triggered++
			if i != 8 {
				t.Errorf("stable population reported at window %d, want 8", i)
			}
		}
	}
	if triggered != 1 {
		t.Errorf("expected exactly one stable_population bookmark, got %d", triggered)
	}
}
