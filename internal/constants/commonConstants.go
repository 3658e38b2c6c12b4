package constants

import "time"

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixEventStats CachePrefix = "EVENT_STATS_"
	CachePrefixUserRating CachePrefix = "USER_RATING_"
)

const (
	DefaultMaxGroupSize     = 5
	MaxGroupSizeLimit       = 20
	MaxReviewLength         = 500
	MinRating               = 1
	MaxRating               = 5
	DefaultNotificationPage = 50
	DefaultEventPageSize    = 6
	UpcomingRegistrations   = 5
	RecentRegistrationsSpan = 7 * 24 * time.Hour
)
