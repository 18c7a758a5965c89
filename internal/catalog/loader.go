package catalog

import (
	"context"
	"sync"
)

// CategoryResult holds the outcome of loading a single category.
// An empty Movies slice may mean the fetch failed.
type CategoryResult struct {
	Category string
	Movies   []MovieSummary
}

// Fetcher is the part of Client the loader needs
type Fetcher interface {
	FetchByCategory(ctx context.Context, category string) []MovieSummary
}

type loadJob struct {
	index    int
	category string
}

// LoadCategories fans category fetches out across N workers.
// Results are returned in the order the categories were requested.
func LoadCategories(ctx context.Context, f Fetcher, categories []string, workers int) []CategoryResult {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(categories) {
		workers = len(categories)
	}

	out := make([]CategoryResult, len(categories))
	jobs := make(chan loadJob, len(categories))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				// Each worker owns out[job.index]
				if ctx.Err() != nil {
					out[job.index] = CategoryResult{Category: job.category, Movies: []MovieSummary{}}
					continue
				}
				out[job.index] = CategoryResult{
					Category: job.category,
					Movies:   f.FetchByCategory(ctx, job.category),
				}
			}
		}()
	}

	for i, category := range categories {
		jobs <- loadJob{index: i, category: category}
	}
	close(jobs)

	wg.Wait()
	return out
}
