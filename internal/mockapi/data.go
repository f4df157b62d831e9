package mockapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/timmy/memeboard/internal/domain"
)

// Seed corpus for the simulated backend. Sizes cycle through a few
// common aspect ratios so masonry layouts look realistic; every field
// is a pure function of the index, so runs are reproducible.

var seedTitles = []string{
	"Distracted Gopher",
	"This Is Fine",
	"Galaxy Brain Deploy",
	"Friday Rollback",
	"Compiles On My Machine",
	"One More Refactor",
	"Production Hotfix",
	"Meeting That Could Be An Email",
	"Legacy Code Archaeology",
	"Merge Conflict Sunrise",
}

var seedStyles = []string{"classic", "anime", "pixel", "sketch", "photo"}

var seedSizes = [][2]int{
	{600, 800},
	{800, 600},
	{640, 640},
	{540, 960},
	{900, 600},
}

// buildMeme returns the i-th meme of a scope's corpus.
func buildMeme(scope domain.FeedScope, i int, base time.Time) domain.MemeSummary {
	size := seedSizes[i%len(seedSizes)]
	author := "mock-user"
	if scope == domain.FeedScopePublic {
		author = fmt.Sprintf("creator-%d", i%7)
	}
	return domain.MemeSummary{
		ID:        fmt.Sprintf("%s-meme-%04d", scope, i),
		Title:     fmt.Sprintf("%s #%d", seedTitles[i%len(seedTitles)], i),
		ImageURL:  fmt.Sprintf("https://images.example.com/%s/%04d.jpg", scope, i),
		Author:    author,
		Style:     seedStyles[i%len(seedStyles)],
		Status:    domain.MemeStatusCompleted,
		Width:     size[0],
		Height:    size[1],
		Likes:     (i * 13) % 500,
		Views:     (i * 97) % 9000,
		Downloads: (i * 5) % 120,
		CreatedAt: base.Add(-time.Duration(i) * 7 * time.Hour),
		UpdatedAt: base.Add(-time.Duration(i) * 7 * time.Hour),
	}
}

// buildCorpus materializes n memes for a scope.
func buildCorpus(scope domain.FeedScope, n int, base time.Time) []domain.MemeSummary {
	items := make([]domain.MemeSummary, n)
	for i := range items {
		items[i] = buildMeme(scope, i, base)
	}
	return items
}

// filterByTitle returns the memes whose title contains term,
// case-insensitively. Empty term matches everything.
func filterByTitle(items []domain.MemeSummary, term string) []domain.MemeSummary {
	if term == "" {
		return items
	}
	needle := strings.ToLower(term)
	var out []domain.MemeSummary
	for _, m := range items {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			out = append(out, m)
		}
	}
	return out
}
