package reports

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/darshanedu/insight_backend/config"
)

const reportCachePrefix = "report:dashboard:"

func reportCacheEnabled() bool {
	v := strings.ToLower(os.Getenv("ENABLE_REPORT_CACHE"))
	return v == "true" || v == "1"
}

func reportCacheTTL() time.Duration {
	seconds, err := strconv.Atoi(os.Getenv("REPORT_CACHE_TTL_SECONDS"))
	if err != nil || seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

func reportCacheKey(scope ReportScope) string {
	return fmt.Sprintf("%s%s|%s|%s|%s", reportCachePrefix, scope.BranchName, scope.Wing, scope.FromYear, scope.ToYear)
}

func getCachedReport(scope ReportScope) (*DashboardReport, bool) {
	if !reportCacheEnabled() {
		return nil, false
	}
	var report DashboardReport
	found, err := config.GetRedisObject(reportCacheKey(scope), &report)
	if err != nil {
		config.LogError(config.GetLogger(), "reports", "getCachedReport", "Error reading report cache", scope, err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &report, true
}

func setCachedReport(scope ReportScope, report *DashboardReport) {
	if !reportCacheEnabled() {
		return
	}
	if err := config.SetRedisObject(reportCacheKey(scope), report, reportCacheTTL()); err != nil {
		config.LogError(config.GetLogger(), "reports", "setCachedReport", "Error writing report cache", scope, err)
	}
}

// InvalidateReportCache drops every cached dashboard after an ingestion
// or delete. Scoped invalidation is not worth the bookkeeping at this
// record volume.
func InvalidateReportCache() {
	rdb := config.GetRedisDB()
	if rdb == nil {
		return
	}
	ctx := config.GetRedisContext()
	keys, err := rdb.Keys(ctx, reportCachePrefix+"*").Result()
	if err != nil {
		config.LogError(config.GetLogger(), "reports", "InvalidateReportCache", "Error listing report cache keys", nil, err)
		return
	}
	if err := config.DeleteRedisKeys(keys...); err != nil {
		config.LogError(config.GetLogger(), "reports", "InvalidateReportCache", "Error deleting report cache keys", len(keys), err)
	}
}
