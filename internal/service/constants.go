package service

const (
	// Sync state keys
	SyncKeyLastResults = "last_result_sync"
	SyncKeyLastRun     = "last_sync_run"

	// SyncOverlapDays re-fetches recent days so late edits in the Logbook are picked up
	SyncOverlapDays = 2

	// StrokeBatchSize caps stroke downloads per sync to stay polite to the API
	StrokeBatchSize = 50

	// Pagination limits
	RecentWorkoutsLimit = 20

	// Zone summary window
	DefaultZoneSummaryDays = 28
)
