package cache

import (
	"testing"
	"time"
)

func TestConfigWith(t *testing.T) {
	tests := []struct {
		name         string
		capacity     int
		ttl          time.Duration
		wantCapacity int
		wantTTL      time.Duration
		wantEarly    bool
	}{
		{name: "defaults kept", wantCapacity: 10000, wantTTL: 5 * time.Minute, wantEarly: true},
		{name: "overrides", capacity: 50, ttl: 10 * time.Minute, wantCapacity: 50, wantTTL: 10 * time.Minute, wantEarly: true},
		{name: "short ttl disables early refresh", ttl: 15 * time.Second, wantCapacity: 10000, wantTTL: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ConfigWith(tt.capacity, tt.ttl)
			if cfg.Capacity != tt.wantCapacity {
				t.Errorf("Capacity = %d, want %d", cfg.Capacity, tt.wantCapacity)
			}
			if cfg.TTL != tt.wantTTL {
				t.Errorf("TTL = %v, want %v", cfg.TTL, tt.wantTTL)
			}
			if (cfg.EarlyRefresh != nil) != tt.wantEarly {
				t.Errorf("EarlyRefresh set = %v, want %v", cfg.EarlyRefresh != nil, tt.wantEarly)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
		})
	}
}

func TestNewCacheService(t *testing.T) {
	svc, err := NewCacheService(DefaultConfig())
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a cache service")
	}

	if _, err := NewCacheService(Config{}); err == nil {
		t.Error("expected an error for an empty config")
	}
}
