package db

import (
	"context"
	"errors"
)

type fakeSink struct {
	rows      [][]string
	readErr   error
	headerErr error
	appendErr error
	reads     int
	headers   int
	appends   int
}

func (f *fakeSink) ReadRows(ctx context.Context) ([][]string, error) {
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows, nil
}

func (f *fakeSink) WriteHeader(ctx context.Context, header []string) error {
	f.headers++
	if f.headerErr != nil {
		return f.headerErr
	}
	f.rows = append([][]string{header}, f.rows...)
	return nil
}

func (f *fakeSink) AppendRows(ctx context.Context, rows [][]string) error {
	f.appends++
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

var errBoom = errors.New("boom")
