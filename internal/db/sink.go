package db

import "context"

// Sink is an append-only table of four text columns. Row order is the only
// index: rows are expected oldest first, and the first row is the header.
type Sink interface {
	ReadRows(ctx context.Context) ([][]string, error)
	WriteHeader(ctx context.Context, header []string) error
	AppendRows(ctx context.Context, rows [][]string) error
}
