package ws

import "testing"

func TestBroadcastJSONCountsDroppedWhenChannelFull(t *testing.T) {
	h := NewHub()
	h.broadcast = make(chan []byte, 1) // tiny buffer to force a drop deterministically

	h.BroadcastJSON(map[string]string{"a": "1"})
	h.BroadcastJSON(map[string]string{"a": "2"})

	if got := h.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}
}

func TestBroadcastJSONIgnoresUnmarshalableValues(t *testing.T) {
	h := NewHub()
	h.BroadcastJSON(make(chan int)) // channels can't be marshaled to JSON
	if got := h.Dropped(); got != 0 {
		t.Fatalf("Dropped() = %d, want 0 (marshal failure isn't a channel drop)", got)
	}
}
