package usecase

import (
	"github.com/Masterminds/semver/v3"
	"github.com/september-cli/september/internal/domain"
)

// TagStatus is one cache entry in a status report.
type TagStatus struct {
	Name      string `json:"name" yaml:"name"`
	ID        string `json:"id" yaml:"id"`
	Processed bool   `json:"processed" yaml:"processed"`
}

// CacheStatus is a read-only snapshot of the cache for reporting.
type CacheStatus struct {
	Total           int         `json:"total" yaml:"total"`
	Processed       int         `json:"processed" yaml:"processed"`
	Pending         int         `json:"pending" yaml:"pending"`
	LatestProcessed string      `json:"latest_processed,omitempty" yaml:"latest_processed,omitempty"`
	Tags            []TagStatus `json:"tags" yaml:"tags"`
}

// InspectCacheUseCase summarizes cache contents without mutating anything.

type InspectCacheUseCase struct{}

// Execute builds the snapshot. Processed tag names that parse as semantic
// versions compete for LatestProcessed; other names only count.
func (uc *InspectCacheUseCase) Execute(cache *domain.TagCache) *CacheStatus {
	status := &CacheStatus{Tags: make([]TagStatus, 0, cache.Len())}
	var latest *semver.Version
	for name, record := range cache.Walk() {
		status.Tags = append(status.Tags, TagStatus{
			Name:      name,
			ID:        record.ID,
			Processed: record.Processed,
		})
		status.Total++
		if !record.Processed {
			status.Pending++
			continue
		}
		status.Processed++
		version, err := semver.NewVersion(name)
		if err != nil {
			continue
		}
		if latest == nil || version.GreaterThan(latest) {
			latest = version
			status.LatestProcessed = name
		}
	}
	return status
}
