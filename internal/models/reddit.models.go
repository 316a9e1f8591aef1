package models

type RedditAPIResponse struct {
	Data RedditAPIData `json:"data"`
}

type RedditAPIData struct {
	After    string           `json:"after"`
	Children []RedditAPIChild `json:"children"`
}

type RedditAPIChild struct {
	Data RedditAPIChildData `json:"data"`
}

// Pointer fields distinguish a missing key from a zero value.
type RedditAPIChildData struct {
	CreatedUTC *float64 `json:"created_utc"`
	Title      *string  `json:"title"`
	Permalink  *string  `json:"permalink"`
}
