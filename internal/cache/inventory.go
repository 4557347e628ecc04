package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	contributionKeyPrefix  = "contribution:%d"
	contributionPagePrefix = "contributions:"
	rankingPrefix          = "ranking:"
)

// TTLs. Ranking is informational, not authoritative, so a short TTL is an
// acceptable consistency window.
const (
	ContributionTTL = 30 * time.Minute
	PageTTL         = 2 * time.Minute
	RankingTTL      = time.Minute
)

// ContributionKey is the cache key for a single contribution.
func ContributionKey(id uint) string {
	return fmt.Sprintf(contributionKeyPrefix, id)
}

// ContributionPageKey is the cache key for one page of the public listing.
func ContributionPageKey(page, limit int) string {
	return fmt.Sprintf("%spage:%d:limit:%d", contributionPagePrefix, page, limit)
}

// RankingKey is the cache key for the ranking truncated to limit entries.
func RankingKey(limit int) string {
	return fmt.Sprintf("%slimit:%d", rankingPrefix, limit)
}

// InvalidateContribution drops the cached entry for a single contribution.
func InvalidateContribution(ctx context.Context, id uint) {
	Invalidate(ctx, ContributionKey(id))
}

// InvalidateContributionPages drops every cached listing page.
func InvalidateContributionPages(ctx context.Context) {
	InvalidatePrefix(ctx, contributionPagePrefix)
}

// InvalidateRanking drops every cached ranking, regardless of limit.
func InvalidateRanking(ctx context.Context) {
	InvalidatePrefix(ctx, rankingPrefix)
}
