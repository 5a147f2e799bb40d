package numerator

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT behavior.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	lastIncr     int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case strings.Contains(sql, "current_val + $2"):
		// Range reservation.
		if val, ok := args[1].(int64); ok {
			m.currentValue += val
			m.lastIncr = val
		}
	case len(args) == 2:
		// Sequence repositioning.
		if val, ok := args[1].(int64); ok {
			m.currentValue = val
			m.lastIncr = 0
		}
	default:
		m.currentValue++
		m.lastIncr = 1
	}

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("PO")
	year := time.Now().Format("2006")

	num, err := svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-"+year+"-00001" {
		t.Errorf("expected PO-%s-00001, got %s", year, num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "PO-"+year+"-00002" {
		t.Errorf("expected PO-%s-00002, got %s", year, num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("BT")
	year := time.Now().Format("2006")

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call allocates the range 1..10 with a single DB round-trip.
	num, err := svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BT-"+year+"-00001" {
		t.Errorf("expected BT-%s-00001, got %s", year, num)
	}
	if q.lastIncr != 10 {
		t.Errorf("expected range allocation of 10, got %d", q.lastIncr)
	}

	// Subsequent calls within the range stay in memory.
	for i := 2; i <= 10; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, opts, time.Now()); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if q.currentValue != 10 {
		t.Errorf("expected a single allocated range, DB value is %d", q.currentValue)
	}

	// Range exhausted: the next call refills.
	num, err = svc.GetNextNumber(ctx, cfg, opts, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BT-"+year+"-00011" {
		t.Errorf("expected BT-%s-00011, got %s", year, num)
	}
}

func TestSetNextNumber(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("IB")
	now := time.Now()
	year := now.Format("2006")

	if err := svc.SetNextNumber(ctx, cfg, now, 41); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	num, err := svc.GetNextNumber(ctx, cfg, nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "IB-"+year+"-00042" {
		t.Errorf("expected IB-%s-00042, got %s", year, num)
	}
}

func TestSetNextNumber_DiscardsCachedRange(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("BT")
	now := time.Now()
	year := now.Format("2006")

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	if _, err := svc.GetNextNumber(ctx, cfg, opts, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.SetNextNumber(ctx, cfg, now, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The old in-memory range must not survive the repositioning.
	num, err := svc.GetNextNumber(ctx, cfg, opts, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "BT-"+year+"-00101" {
		t.Errorf("expected BT-%s-00101, got %s", year, num)
	}
}

func TestParseNumber(t *testing.T) {
	if n := ParseNumber("PO-2026-00042"); n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if n := ParseNumber("BT-00007"); n != 7 {
		t.Errorf("expected 7, got %d", n)
	}
	if n := ParseNumber("garbage"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
	if n := ParseNumber("PO-2026-"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
	if n := ParseNumber("PO-2026-abc"); n != -1 {
		t.Errorf("expected -1, got %d", n)
	}
}
