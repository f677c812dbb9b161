package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/sourcer/internal/db"
)

type expireCall struct {
	key string
	ttl time.Duration
	nx  bool
}

type mockKV struct {
	values  map[string][]byte
	incrs   map[string]int64
	expires []expireCall
	getErr  error
	incrErr error
}

func newMockKV() *mockKV {
	return &mockKV{values: map[string][]byte{}, incrs: map[string]int64{}}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) IncrBy(_ context.Context, key string, val int64) error {
	if m.incrErr != nil {
		return m.incrErr
	}
	m.incrs[key] += val
	return nil
}

func (m *mockKV) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	m.expires = append(m.expires, expireCall{key: key, ttl: ttl, nx: nx})
	return nil
}

func TestIncrBy_DailyKeyGetsDailyTTL(t *testing.T) {
	kv := newMockKV()
	s := New(kv, 48*time.Hour, 62*24*time.Hour)

	if err := s.IncrBy(context.Background(), "sourcer:usage:local:daily:2026-10-19", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kv.incrs["sourcer:usage:local:daily:2026-10-19"] != 3 {
		t.Errorf("incr = %d", kv.incrs["sourcer:usage:local:daily:2026-10-19"])
	}
	if len(kv.expires) != 1 || kv.expires[0].ttl != 48*time.Hour || !kv.expires[0].nx {
		t.Errorf("expires = %+v", kv.expires)
	}
}

func TestIncrBy_MonthlyKeyGetsMonthTTL(t *testing.T) {
	kv := newMockKV()
	s := New(kv, 48*time.Hour, 62*24*time.Hour)

	if err := s.IncrBy(context.Background(), "sourcer:usage:assist:monthly:2026-10", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kv.expires) != 1 || kv.expires[0].ttl != 62*24*time.Hour {
		t.Errorf("expires = %+v", kv.expires)
	}
}

func TestIncrBy_TotalKeyNeverExpires(t *testing.T) {
	kv := newMockKV()
	s := New(kv, 48*time.Hour, 62*24*time.Hour)

	if err := s.IncrBy(context.Background(), "sourcer:usage:local:total", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(kv.expires) != 0 {
		t.Errorf("total key must not expire: %+v", kv.expires)
	}
}

func TestIncrBy_Error(t *testing.T) {
	kv := newMockKV()
	kv.incrErr = errors.New("connection refused")
	s := New(kv, time.Hour, time.Hour)

	if err := s.IncrBy(context.Background(), "k:daily:x", 1); err == nil {
		t.Fatal("expected error")
	}
	if len(kv.expires) != 0 {
		t.Error("expire must not run after failed INCRBY")
	}
}

func TestGet(t *testing.T) {
	kv := newMockKV()
	kv.values["k"] = []byte("42")
	s := New(kv, time.Hour, time.Hour)

	got, err := s.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("Get = %d, want 42", got)
	}
}

func TestGet_MissingIsZero(t *testing.T) {
	s := New(newMockKV(), time.Hour, time.Hour)

	got, err := s.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Errorf("Get = %d, want 0", got)
	}
}

func TestGet_Errors(t *testing.T) {
	kv := newMockKV()
	kv.values["bad"] = []byte("not-a-number")
	s := New(kv, time.Hour, time.Hour)

	if _, err := s.Get(context.Background(), "bad"); err == nil {
		t.Error("expected parse error")
	}

	kv.getErr = errors.New("timeout")
	if _, err := s.Get(context.Background(), "k"); err == nil {
		t.Error("expected store error")
	}
}
