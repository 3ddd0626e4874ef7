package models

// Alert is a user-visible notification request. ID is the same
// deterministic trigger id used for scheduling, so redisplaying with the
// same id overwrites the previous notification instead of stacking.
type Alert struct {
	ID       int
	UserID   string
	Title    string
	Body     string
	DeepLink DeepLink
}
