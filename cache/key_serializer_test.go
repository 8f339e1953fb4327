package cache

import (
	"strings"
	"testing"
	"time"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

type productsQuery struct {
	Query   string
	SortKey string
	Reverse bool
	limit   int
}

type handle string

func (h handle) String() string { return "handle:" + string(h) }

func TestDefaultKeySerializer_SerializeKey(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	ptr := "summer"
	var nilPtr *string

	tests := []struct {
		name   string
		method string
		args   []any
		want   string
	}{
		{name: "no args", method: "Collections", want: "Collections"},
		{name: "single string", method: "Product", args: []any{"chair"}, want: joinWithSeparator("Product", "chair")},
		{
			name:   "basic types",
			method: "Get",
			args:   []any{1, "hello", true, 3.5, uint8(7)},
			want:   joinWithSeparator("Get", "1", "hello", "true", "3.5", "7"),
		},
		{name: "nil", method: "Get", args: []any{nil}, want: joinWithSeparator("Get", "nil")},
		{name: "pointer is dereferenced", method: "Collection", args: []any{&ptr}, want: joinWithSeparator("Collection", "summer")},
		{name: "nil pointer", method: "Collection", args: []any{nilPtr}, want: joinWithSeparator("Collection", "nil")},
		{
			name:   "struct keeps exported fields in order",
			method: "Products",
			args:   []any{productsQuery{Query: "red", SortKey: "PRICE", Reverse: true, limit: 3}},
			want:   joinWithSeparator("Products", "{Query=red,SortKey=PRICE,Reverse=true}"),
		},
		{
			name:   "zero struct",
			method: "Products",
			args:   []any{productsQuery{}},
			want:   joinWithSeparator("Products", "{Query=,SortKey=,Reverse=false}"),
		},
		{name: "slice", method: "Many", args: []any{[]string{"a", "b"}}, want: joinWithSeparator("Many", "[a,b]")},
		{name: "nil slice", method: "Many", args: []any{[]string(nil)}, want: joinWithSeparator("Many", "[]")},
		{name: "array", method: "Many", args: []any{[2]int{4, 5}}, want: joinWithSeparator("Many", "[4,5]")},
		{
			name:   "map sorted by key",
			method: "Tags",
			args:   []any{map[string]int{"b": 2, "a": 1, "c": 3}},
			want:   joinWithSeparator("Tags", "{a=1,b=2,c=3}"),
		},
		{name: "stringer", method: "Menu", args: []any{handle("main")}, want: joinWithSeparator("Menu", "handle:main")},
		{
			name:   "time is normalized to UTC",
			method: "Since",
			args:   []any{time.Date(2024, 1, 2, 5, 4, 5, 0, time.FixedZone("X", 2*3600))},
			want:   joinWithSeparator("Since", "2024-01-02T03:04:05Z"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.method, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNamespacedKeySerializer(t *testing.T) {
	serializer := NewNamespacedKeySerializer("storefront")

	got := serializer.SerializeKey("Product", "chair")
	want := joinWithSeparator("storefront", "Product", "chair")
	if got != want {
		t.Errorf("SerializeKey() = %v, want %v", got, want)
	}

	if !strings.HasPrefix(serializer.SerializeKey("Collections"), "storefront"+KeySeparator) {
		t.Error("expected every key to carry the namespace prefix")
	}
}

func TestDefaultKeySerializer_Stability(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	args := []any{1, "hello", []int{1, 2, 3}, map[string]int{"a": 1, "b": 2}, productsQuery{Query: "q"}}

	key1 := serializer.SerializeKey("TestMethod", args...)
	for i := 0; i < 20; i++ {
		if key := serializer.SerializeKey("TestMethod", args...); key != key1 {
			t.Fatalf("key serialization should be stable: %v != %v", key, key1)
		}
	}
}

func TestDefaultKeySerializer_DistinctQueries(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	a := serializer.SerializeKey("Products", productsQuery{SortKey: "PRICE"})
	b := serializer.SerializeKey("Products", productsQuery{SortKey: "PRICE", Reverse: true})
	if a == b {
		t.Errorf("expected different keys for different queries, both were %v", a)
	}
}

func TestDefaultKeySerializer_Channel(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	ch := make(chan int)

	key := serializer.SerializeKey("GetWithChannel", ch)
	prefix := joinWithSeparator("GetWithChannel", "chan") + ":"
	if !strings.HasPrefix(key, prefix) {
		t.Errorf("channel should be serialized with chan: prefix, got: %v", key)
	}
}

func BenchmarkDefaultKeySerializer(b *testing.B) {
	serializer := NewDefaultKeySerializer()
	args := []any{"summer", productsQuery{Query: "red", SortKey: "PRICE"}, []string{"a", "b"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serializer.SerializeKey("CollectionProducts", args...)
	}
}
