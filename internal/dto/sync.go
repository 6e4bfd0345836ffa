package dto

// SyncStatusResponse outbox state
type SyncStatusResponse struct {
	MirrorEnabled bool  `json:"mirror_enabled"`
	Pending       int64 `json:"pending"`
	Done          int64 `json:"done"`
	Failed        int64 `json:"failed"`
}

// SyncRetryResponse failed entries put back in the queue
type SyncRetryResponse struct {
	Requeued int64 `json:"requeued"`
}
