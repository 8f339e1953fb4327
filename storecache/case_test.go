package storecache

import "testing"

func TestToSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Source", "source"},
		{"*shopify.Source", "shopify_source"},
		{"*memory.Store", "memory_store"},
		{"CachedSource", "cached_source"},
		{"HTTPClient", "http_client"},
		{"sqlstore.Source[T]", "sqlstore_source_t"},
		{"Version2Client", "version_2_client"},
		{"already_snake", "already_snake"},
		{"__weird--name__", "weird_name"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := toSnake(tt.in); got != tt.want {
				t.Errorf("toSnake(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
