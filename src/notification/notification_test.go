package notification

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"short", "saved", 5},
		{"exact", strings.Repeat("a", maxBody), maxBody},
		{"long", strings.Repeat("b", maxBody+50), maxBody + 3},
		{"multibyte", strings.Repeat("ż", maxBody+1), maxBody + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len([]rune(truncate(tt.in))); got != tt.want {
				t.Errorf("len = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSendWithoutApp(t *testing.T) {
	Send("Auto-Save Error", "could not create directory")
}
