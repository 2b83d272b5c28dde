package main

import "testing"

func TestListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		share, port, want string
	}{
		{"", "", "127.0.0.1:8080"},
		{"false", "9000", "127.0.0.1:9000"},
		{"true", "", "0.0.0.0:8080"},
		{"TRUE", "7860", "0.0.0.0:7860"},
		{"1", "8081", "0.0.0.0:8081"},
	}
	for _, tt := range tests {
		if got := listenAddr(tt.share, tt.port); got != tt.want {
			t.Errorf("listenAddr(%q, %q) = %q, want %q", tt.share, tt.port, got, tt.want)
		}
	}
}
