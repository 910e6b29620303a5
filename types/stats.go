package types

// Stats aggregates collection totals for the admin dashboard.
type Stats struct {
	TotalUsers         int64 `json:"total_users"`
	TotalPosts         int64 `json:"total_posts"`
	TotalEvents        int64 `json:"total_events"`
	TotalAnnouncements int64 `json:"total_announcements"`
}
