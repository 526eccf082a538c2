package storage

import "testing"

func TestParseURL(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		wantErr     bool
	}{
		{"s3://books/class5/telugu.pdf", "books", "class5/telugu.pdf", false},
		{"s3://books/", "", "", true},
		{"s3://books", "", "", true},
		{"s3:///key.pdf", "", "", true},
	}
	for _, tt := range tests {
		b, k, err := ParseURL(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseURL(%q) error = %v", tt.in, err)
		}
		if b != tt.bucket || k != tt.key {
			t.Fatalf("ParseURL(%q) = %q, %q", tt.in, b, k)
		}
	}
}
