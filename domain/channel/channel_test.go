package channel

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		name string
		ch   Channel
		want bool
	}{
		{"complete", Channel{Name: "A", ID: "UC1", APIKey: "key"}, true},
		{"missing id", Channel{Name: "A", APIKey: "key"}, false},
		{"missing key", Channel{Name: "A", ID: "UC1"}, false},
		{"name optional", Channel{ID: "UC1", APIKey: "key"}, true},
	}
	for _, c := range cases {
		if got := c.ch.Valid(); got != c.want {
			t.Errorf("%s: expected Valid=%v, got %v", c.name, c.want, got)
		}
	}
}

func TestDisplayName(t *testing.T) {
	named := Channel{Name: "My Channel", ID: "UC1"}
	if got := named.DisplayName(); got != "My Channel" {
		t.Errorf("expected configured name, got %s", got)
	}

	unnamed := Channel{ID: "UC1"}
	if got := unnamed.DisplayName(); got != "UC1" {
		t.Errorf("expected fallback to ID, got %s", got)
	}
}
