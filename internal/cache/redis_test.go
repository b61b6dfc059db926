package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"smart_home_catalog/internal/metrics"
	"smart_home_catalog/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
)

func TestKey(t *testing.T) {
	t.Parallel()
	if got := key("s-42"); got != "sensor:last:s-42" {
		t.Fatalf("key = %q", got)
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "ok", raw: `{"id":"r1","device_id":"d1","sensor_id":"s1","value":"12","timestamp":"2024-01-01T00:10:00Z"}`},
		{name: "garbage", raw: `not json`, wantErr: true},
		{name: "no sensor", raw: `{"id":"r1","value":"12"}`, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r, err := decode([]byte(tc.raw))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			want := time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)
			if r.SensorID != "s1" || r.Value != "12" || !r.Timestamp.Equal(want) {
				t.Fatalf("unexpected reading: %+v", r)
			}
		})
	}
}

func TestNewRedisCache_DefaultTTL(t *testing.T) {
	t.Parallel()
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), 0, nil)
	if c.ttl != DefaultTTL {
		t.Fatalf("ttl = %v", c.ttl)
	}
}

func TestUnreachableRedis(t *testing.T) {
	t.Parallel()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	c := NewRedisCache(rdb, time.Minute, nil)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "s1"); err == nil || ok {
		t.Fatalf("Get on dead redis: ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, models.SensorReading{ID: "r", SensorID: "s1", Value: "1"}); err == nil {
		t.Fatalf("Set on dead redis should fail")
	}
	if _, err := Connect(ctx, "127.0.0.1:1"); err == nil {
		t.Fatalf("Connect should fail")
	}
}

func TestRedisCache_RoundTrip(t *testing.T) {
	t.Parallel()
	srv := startFakeRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb, err := Connect(ctx, srv.addr)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	c := NewRedisCache(rdb, 90*time.Second, metrics.NewMetrics(reg))

	if r, ok, err := c.Get(ctx, "pc-1"); err != nil || ok {
		t.Fatalf("Get before Set = %+v, %v, %v; want a clean miss", r, ok, err)
	}

	at := time.Date(2024, 1, 1, 0, 10, 0, 0, time.UTC)
	if err := c.Set(ctx, models.SensorReading{ID: "r1", DeviceID: "meter", SensorID: "pc-1", Value: "230", Timestamp: at}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl, ok := srv.expiry(key("pc-1")); !ok || ttl != 90*time.Second {
		t.Fatalf("ttl = %v (set=%v), want 90s", ttl, ok)
	}

	got, ok, err := c.Get(ctx, "pc-1")
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if got.ID != "r1" || got.DeviceID != "meter" || got.Value != "230" || !got.Timestamp.Equal(at) {
		t.Fatalf("cached reading = %+v", got)
	}

	const want = `
# HELP latest_reading_cache_hits_total Latest-reading lookups served from the cache.
# TYPE latest_reading_cache_hits_total counter
latest_reading_cache_hits_total 1
# HELP latest_reading_cache_misses_total Latest-reading lookups that fell through to the database.
# TYPE latest_reading_cache_misses_total counter
latest_reading_cache_misses_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"latest_reading_cache_hits_total", "latest_reading_cache_misses_total"); err != nil {
		t.Fatal(err)
	}
}

func TestRedisCache_SubSecondTTL(t *testing.T) {
	t.Parallel()
	srv := startFakeRedis(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.addr})
	defer rdb.Close()
	ctx := context.Background()

	c := NewRedisCache(rdb, 1500*time.Millisecond, nil)
	if err := c.Set(ctx, models.SensorReading{ID: "r2", SensorID: "tmp-1", Value: "21"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl, _ := srv.expiry(key("tmp-1")); ttl != 1500*time.Millisecond {
		t.Fatalf("ttl = %v, want 1.5s", ttl)
	}
}
