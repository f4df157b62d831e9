package feed

import (
	"testing"
	"time"

	"github.com/timmy/memeboard/internal/domain"
)

func TestGroupByDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)

	items := []domain.MemeSummary{
		{ID: "t1", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "t2", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "y1", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "o1", CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.Local)},
		{ID: "o2", CreatedAt: time.Date(2026, 8, 20, 18, 0, 0, 0, time.Local)},
	}

	groups := GroupByDate(items, now)

	if len(groups) != 3 {
		t.Fatalf("group count: got %d, want 3", len(groups))
	}

	if groups[0].Label != "Today" || len(groups[0].Items) != 2 {
		t.Errorf("groups[0]: got %q with %d items, want Today with 2", groups[0].Label, len(groups[0].Items))
	}
	if groups[1].Label != "Yesterday" || len(groups[1].Items) != 1 {
		t.Errorf("groups[1]: got %q with %d items, want Yesterday with 1", groups[1].Label, len(groups[1].Items))
	}
	if groups[2].Label != "August 20, 2026" || len(groups[2].Items) != 2 {
		t.Errorf("groups[2]: got %q with %d items, want August 20, 2026 with 2", groups[2].Label, len(groups[2].Items))
	}

	// Input order preserved within a group.
	if groups[0].Items[0].ID != "t1" || groups[0].Items[1].ID != "t2" {
		t.Errorf("Today group order: got %s, %s", groups[0].Items[0].ID, groups[0].Items[1].ID)
	}
}

func TestGroupByDateEmpty(t *testing.T) {
	if groups := GroupByDate(nil, time.Now()); len(groups) != 0 {
		t.Errorf("empty input produced %d groups", len(groups))
	}
}
