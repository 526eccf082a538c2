package locator

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestMatchTokenBoundary(t *testing.T) {
	cases := []struct {
		name  string
		names []string
		page  int
		want  string
		ok    bool
	}{
		{"plain", []string{"67.txt"}, 67, "67.txt", true},
		{"prefixed padded", []string{"page-067.png"}, 67, "page-067.png", true},
		{"underscore", []string{"page_67.txt"}, 67, "page_67.txt", true},
		{"larger number before", []string{"167.txt"}, 67, "", false},
		{"larger number after", []string{"670.txt"}, 67, "", false},
		{"prefix of larger", []string{"67.txt"}, 6, "", false},
		{"single digit padded", []string{"page-006.png"}, 6, "page-006.png", true},
		{"first in order wins", []string{"a-68.txt", "b-68.txt"}, 68, "a-68.txt", true},
		{"skips non matching", []string{"167.txt", "67.txt"}, 67, "67.txt", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Match(tc.names, tc.page)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Match(%v, %d) = %q, %v; want %q, %v", tc.names, tc.page, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestMatchNeverHitsSuperstrings(t *testing.T) {
	for p := 1; p <= 120; p++ {
		names := []string{"1" + strconv.Itoa(p) + ".txt", strconv.Itoa(p) + "1.txt"}
		if got, ok := Match(names, p); ok {
			t.Fatalf("page %d matched %q", p, got)
		}
		if _, ok := Match([]string{"scan-" + strconv.Itoa(p) + ".txt"}, p); !ok {
			t.Fatalf("page %d did not match its own file", p)
		}
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "167.txt")
	touch(t, dir, "67.txt")
	if err := os.Mkdir(filepath.Join(dir, "68"), 0o755); err != nil {
		t.Fatal(err)
	}

	l := New(dir)
	p, ok, err := l.Locate(67)
	if err != nil || !ok {
		t.Fatalf("Locate(67) = %q, %v, %v", p, ok, err)
	}
	if filepath.Base(p) != "67.txt" {
		t.Fatalf("Locate(67) = %q", p)
	}

	if _, ok, err := l.Locate(68); ok || err != nil {
		t.Fatalf("directories must not match: ok=%v err=%v", ok, err)
	}

	if _, _, err := New(filepath.Join(dir, "missing")).Locate(1); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestLocateImagePrefersPadded(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "page-90.png")
	touch(t, dir, "page-090.png")

	p, ok := New(dir).LocateImage(90)
	if !ok || filepath.Base(p) != "page-090.png" {
		t.Fatalf("LocateImage(90) = %q, %v", p, ok)
	}

	touch(t, dir, "page-101.png")
	p, ok = New(dir).LocateImage(101)
	if !ok || filepath.Base(p) != "page-101.png" {
		t.Fatalf("LocateImage(101) = %q, %v", p, ok)
	}

	if _, ok := New(dir).LocateImage(5); ok {
		t.Fatal("expected miss")
	}
}

func TestImportImages(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "scanned_images")
	touch(t, src, "page-090.png")
	touch(t, src, "page-91.png")
	touch(t, src, "cover.png")
	touch(t, src, "page-92.jpg")

	moved, err := ImportImages(src, dst)
	if err != nil {
		t.Fatalf("ImportImages() error = %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("moved = %v", moved)
	}
	if _, err := os.Stat(filepath.Join(dst, "page-090.png")); err != nil {
		t.Fatalf("page-090.png not moved: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "cover.png")); err != nil {
		t.Fatal("cover.png should stay in place")
	}
}
