package util

import "testing"

func TestMaskSensitiveQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Nothing sensitive", "q=overlord&limit=10", "q=overlord&limit=10"},
		{"Authorization code", "code=ABCDEFGHIJ&state=xyz", "code=ABCD...GHIJ&state=xyz"},
		{"Refresh token", "grant_type=refresh_token&refresh_token=abcdef", "grant_type=refresh_token&refresh_token=ab...ef"},
		{"Short verifier", "code_verifier=abc", "code_verifier=a...c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskSensitiveQuery(tt.input)
			if got != tt.expected {
				t.Errorf("MaskSensitiveQuery(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHideSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"ab", "ab"},
		{"abcd", "a...d"},
		{"abcdef", "ab...ef"},
		{"0123456789", "0123...6789"},
	}

	for _, tt := range tests {
		if got := HideSecret(tt.input); got != tt.expected {
			t.Errorf("HideSecret(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestResolveAuthDir(t *testing.T) {
	t.Setenv("HOME", "/home/reader")

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"~", "/home/reader"},
		{"~/.tracker-sync", "/home/reader/.tracker-sync"},
		{"/var/lib/tracker/../tracker", "/var/lib/tracker"},
	}

	for _, tt := range tests {
		got, err := ResolveAuthDir(tt.input)
		if err != nil {
			t.Fatalf("ResolveAuthDir(%q) error = %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ResolveAuthDir(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
