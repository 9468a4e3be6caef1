package common

const (
	RedisKeyIndicatorRecord = "indicator_record:%s"

	ReportDeepLinkFormat = "/reports/%d"
)
