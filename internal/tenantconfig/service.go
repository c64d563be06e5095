package tenantconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tenantconfig
type Repository interface {
	Get(ctx context.Context, customerID, key string) (*Entry, error)
	GetGlobal(ctx context.Context, key string) (*Entry, error)
	ListGlobal(ctx context.Context) ([]*Entry, error)
	List(ctx context.Context, customerID string) ([]*Entry, error)
	// InsertIgnore inserts entries that do not exist yet and reports how many were written.
	InsertIgnore(ctx context.Context, entries []*Entry) (int, error)
	Upsert(ctx context.Context, e *Entry, actor string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Item is an entry projected to its declared type. ParseWarning is set instead of failing
// when the stored string does not match the type.
type Item struct {
	*Entry
	Typed        any
	ParseWarning string
}

func project(e *Entry) *Item {
	it := &Item{Entry: e}

	v, err := e.Value.Decode()
	if err != nil {
		it.Typed = e.Value.Raw
		it.ParseWarning = err.Error()

		return it
	}

	it.Typed = v

	return it
}

// Init seeds a tenant with the built-in defaults, taking global overrides where they exist.
// Existing tenant rows are left untouched.
func (s *Service) Init(ctx context.Context, customerID string) (int, error) {
	globals, err := s.repo.ListGlobal(ctx)
	if err != nil {
		return 0, fmt.Errorf("list global config: %w", err)
	}

	byKey := make(map[string]*Entry, len(globals))
	for _, g := range globals {
		byKey[g.Key] = g
	}

	entries := make([]*Entry, 0, len(Defaults)+len(globals))

	for _, d := range Defaults {
		e := &Entry{CustomerID: customerID, Key: d.Key, Value: d.Value}

		if g, ok := byKey[d.Key]; ok {
			e.Value = g.Value
			e.Metadata = g.Metadata
			delete(byKey, d.Key)
		}

		entries = append(entries, e)
	}

	for _, g := range globals {
		if _, ok := byKey[g.Key]; !ok {
			continue
		}

		entries = append(entries, &Entry{CustomerID: customerID, Key: g.Key, Value: g.Value, Metadata: g.Metadata})
	}

	n, err := s.repo.InsertIgnore(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("insert tenant config: %w", err)
	}

	return n, nil
}

type UpdateParams struct {
	CustomerID string
	Key        string
	Value      any
	// DataType is optional; the existing or default type is used when empty.
	DataType string
	Metadata json.RawMessage
	Actor    string
}

func (s *Service) Update(ctx context.Context, p UpdateParams) (*Item, error) {
	kind, err := s.resolveType(ctx, p.CustomerID, p.Key, p.DataType)
	if err != nil {
		return nil, err
	}

	v, err := Encode(kind, p.Value)
	if err != nil {
		return nil, err
	}

	e := &Entry{CustomerID: p.CustomerID, Key: p.Key, Value: v, Metadata: p.Metadata}
	if err := s.repo.Upsert(ctx, e, p.Actor); err != nil {
		return nil, fmt.Errorf("upsert config: %w", err)
	}

	return project(e), nil
}

func (s *Service) resolveType(ctx context.Context, customerID, key, requested string) (DataType, error) {
	if requested != "" {
		return ParseDataType(requested)
	}

	e, err := s.lookup(ctx, customerID, key)
	if err == nil {
		return e.Kind, nil
	}

	if errors.Is(err, ErrNotFound) {
		return TypeString, nil
	}

	return "", err
}

func (s *Service) List(ctx context.Context, customerID string) ([]*Item, error) {
	entries, err := s.repo.List(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}

	items := make([]*Item, len(entries))
	for i, e := range entries {
		items[i] = project(e)
	}

	return items, nil
}

// Lookup resolves a key for a tenant: tenant row, then global row, then built-in default.
func (s *Service) Lookup(ctx context.Context, customerID, key string) (Value, error) {
	return s.lookup(ctx, customerID, key)
}

func (s *Service) lookup(ctx context.Context, customerID, key string) (Value, error) {
	e, err := s.repo.Get(ctx, customerID, key)
	if err == nil {
		return e.Value, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return Value{}, fmt.Errorf("get tenant config: %w", err)
	}

	e, err = s.repo.GetGlobal(ctx, key)
	if err == nil {
		return e.Value, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return Value{}, fmt.Errorf("get global config: %w", err)
	}

	if d, ok := defaultFor(key); ok {
		return d.Value, nil
	}

	return Value{}, ErrNotFound.With("config_key", key)
}

// ResendInterval reads the notification resend interval in minutes.
func (s *Service) ResendInterval(ctx context.Context, customerID string) (time.Duration, error) {
	v, err := s.lookup(ctx, customerID, KeyResendInterval)
	if err != nil {
		return 0, err
	}

	n, err := v.Number()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", KeyResendInterval, err)
	}

	return time.Duration(n.Mul(decimalMinute).IntPart()), nil
}
