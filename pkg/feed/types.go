package feed

// Item is a single photo on the public feed. Identity is ID, unique across
// pages.
type Item struct {
	ID        string `json:"id"`
	MediaURL  string `json:"fileUrl"`
	Liked     bool   `json:"isLiked"`
	LikeCount int    `json:"likeCount"`
	DaysAgo   int    `json:"daysAgo"`
}

// Page is one cursor's worth of feed items. An empty NextCursor means the
// end of the stream.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"nextCursor"`
}
