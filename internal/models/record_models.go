package models

// TimestampLayout is fixed width and zero padded, so string order matches
// chronological order. Existing sheet rows depend on it.
const TimestampLayout = "2006-01-02 15:04:05"

type Category string

const (
	CategorySaved   Category = "Saved"
	CategoryUpvoted Category = "Upvoted"
)

// Record is one feed item as written to the sink.
type Record struct {
	Timestamp string   `json:"date"`
	Title     string   `json:"title"`
	Link      string   `json:"link"`
	Category  Category `json:"type"`
}

// Row returns the four sink cells in column order.
func (r Record) Row() []string {
	return []string{r.Timestamp, r.Title, r.Link, string(r.Category)}
}

// SinkHeader is written to the first row of an uninitialized sink.
var SinkHeader = []string{"Date", "Title", "Link", "Type"}

// Watermark is the timestamp of the last row in the sink. Valid is false
// when the sink holds no data rows.
type Watermark struct {
	Timestamp string
	Valid     bool
}

func (w Watermark) String() string {
	if !w.Valid {
		return "<none>"
	}
	return w.Timestamp
}
