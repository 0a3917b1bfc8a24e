package policies

import (
	"context"
	"strconv"

	"rentzy/internal/app/dto"
)

// StatsCache caches dashboard snapshots. Writers invalidate the keys
// they touch; misses fall through to the store.
type StatsCache interface {
	GetStats(ctx context.Context, key string) (dto.StatsSnapshot, bool, error)
	SetStats(ctx context.Context, key string, snap dto.StatsSnapshot) error
	Invalidate(ctx context.Context, keys ...string) error
}

func RenterStatsKey(renterID int64) string {
	return "stats:renter:" + strconv.FormatInt(renterID, 10)
}

func OwnerStatsKey(ownerID int64) string {
	return "stats:owner:" + strconv.FormatInt(ownerID, 10)
}
