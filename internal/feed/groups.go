package feed

import (
	"time"

	"github.com/timmy/memeboard/internal/domain"
)

// Group is a run of feed items sharing a creation-day bucket, used by
// the personal gallery view.
type Group struct {
	Label string               `json:"label"`
	Items []domain.MemeSummary `json:"items"`
}

// GroupByDate buckets items by creation day relative to now, preserving
// input order within each group. Labels are "Today", "Yesterday", or the
// item's date.
func GroupByDate(items []domain.MemeSummary, now time.Time) []Group {
	var groups []Group
	labels := make(map[string]int)

	for _, item := range items {
		label := dayLabel(item.CreatedAt, now)
		if idx, ok := labels[label]; ok {
			groups[idx].Items = append(groups[idx].Items, item)
			continue
		}
		labels[label] = len(groups)
		groups = append(groups, Group{Label: label, Items: []domain.MemeSummary{item}})
	}
	return groups
}

func dayLabel(t, now time.Time) string {
	y1, m1, d1 := t.Local().Date()
	y2, m2, d2 := now.Local().Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Local().Date()
	if y1 == y3 && m1 == m3 && d1 == d3 {
		return "Yesterday"
	}
	return t.Local().Format("January 2, 2006")
}
