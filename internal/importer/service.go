package importer

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=fetcher_mock.go -package=importer

// Fetcher returns the raw bytes of an uploaded attachment.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Source identifies an uploaded charge sheet.
type Source struct {
	Path string
	Ext  string
}

type Service struct {
	fetcher Fetcher
}

func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Load fetches and parses a charge sheet. The extension is checked before any I/O.
func (s *Service) Load(ctx context.Context, src Source) ([]Row, error) {
	format, err := ParseFormat(src.Ext)
	if err != nil {
		return nil, err
	}

	data, err := s.fetcher.Fetch(ctx, src.Path)
	if err != nil {
		return nil, fmt.Errorf("fetching attachment: %w", err)
	}

	return Parse(data, format)
}

// Check loads a sheet and validates it without persisting anything.
func (s *Service) Check(ctx context.Context, src Source, excluded []int) (*Result, error) {
	rows, err := s.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	res := Validate(rows, excluded)

	return &res, nil
}
