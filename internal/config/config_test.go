package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseChaptersDefaultsRanges(t *testing.T) {
	doc := `{
		"pdf_path": "book.pdf",
		"chapters": [
			{"folder": "06_Shataka_Padyalu", "topic": "Poems", "start_page": 67, "end_page": 74},
			{"folder": "07_Sankranthi", "topic": "Festival", "start_page": 75, "end_page": 80,
			 "lesson_pages": [75, 76], "exercise_pages": [77, 80]}
		]
	}`
	f, err := ParseChapters([]byte(doc))
	if err != nil {
		t.Fatalf("ParseChapters() error = %v", err)
	}
	if f.PDFPath != "book.pdf" {
		t.Fatalf("pdf path = %q", f.PDFPath)
	}
	if len(f.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(f.Chapters))
	}
	first := f.Chapters[0]
	if first.Lesson != (PageRange{67, 74}) || first.Exercise != (PageRange{67, 74}) {
		t.Fatalf("default ranges not applied: %+v", first)
	}
	second := f.Chapters[1]
	if second.Lesson != (PageRange{75, 76}) || second.Exercise != (PageRange{77, 80}) {
		t.Fatalf("explicit ranges not applied: %+v", second)
	}
	if f.MaxPage() != 80 {
		t.Fatalf("MaxPage() = %d, want 80", f.MaxPage())
	}
}

func TestParseChaptersRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"invalid json":   `{`,
		"missing pdf":    `{"chapters":[{"folder":"a","start_page":1,"end_page":2}]}`,
		"no chapters":    `{"pdf_path":"x.pdf","chapters":[]}`,
		"inverted range": `{"pdf_path":"x.pdf","chapters":[{"folder":"a","start_page":5,"end_page":2}]}`,
		"duplicate":      `{"pdf_path":"x.pdf","chapters":[{"folder":"a","start_page":1,"end_page":2},{"folder":"a","start_page":3,"end_page":4}]}`,
		"short pair":     `{"pdf_path":"x.pdf","chapters":[{"folder":"a","start_page":1,"end_page":2,"lesson_pages":[1]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseChapters([]byte(doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsConfigError(err) {
				t.Fatalf("expected config error, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadChaptersMissingFile(t *testing.T) {
	_, err := LoadChapters(filepath.Join(t.TempDir(), "nope.json"))
	if !IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestPageRangePages(t *testing.T) {
	got := (PageRange{67, 70}).Pages()
	want := []int{67, 68, 69, 70}
	if len(got) != len(want) {
		t.Fatalf("Pages() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Pages() = %v, want %v", got, want)
		}
	}
	if (PageRange{5, 4}).Pages() != nil {
		t.Fatal("inverted range should have no pages")
	}
}

func TestChapterTableOrderAndCopy(t *testing.T) {
	table := ChapterTable()
	if len(table) != 5 {
		t.Fatalf("expected 5 chapters, got %d", len(table))
	}
	if table[0].Folder != "06_Shataka_Padyalu" || table[4].Folder != "10_Shibi_Chakravarti" {
		t.Fatalf("unexpected order: %s .. %s", table[0].Folder, table[4].Folder)
	}
	table[0].Folder = "mutated"
	if ChapterTable()[0].Folder != "06_Shataka_Padyalu" {
		t.Fatal("ChapterTable must return a copy")
	}
	c, ok := Lookup("09_Ramappa")
	if !ok || c.ID != 9 || c.Exercise != (PageRange{92, 96}) {
		t.Fatalf("Lookup() = %+v, %v", c, ok)
	}
}

func TestFromEnvDefaultsAndOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RETRY_SERVER_DELAY", "")
	t.Setenv("CHAPTER_DELAY", "250ms")
	t.Setenv("OCR_LANG", "")

	cfg := FromEnv()
	if cfg.Retry.Attempts != 3 || cfg.Retry.ServerDelay != 20*time.Second || cfg.Retry.OtherDelay != 5*time.Second {
		t.Fatalf("unexpected retry defaults: %+v", cfg.Retry)
	}
	if cfg.ChapterDelay != 250*time.Millisecond {
		t.Fatalf("ChapterDelay = %v", cfg.ChapterDelay)
	}
	if cfg.OCRLanguage != "tel" {
		t.Fatalf("OCRLanguage = %q", cfg.OCRLanguage)
	}
	if !cfg.RepairBackslashes {
		t.Fatal("backslash repair should default on")
	}
	if err := cfg.RequireAPIKey(); !IsConfigError(err) {
		t.Fatalf("RequireAPIKey() = %v, want config error", err)
	}

	t.Setenv("GEMINI_API_KEY", "k")
	if err := FromEnv().RequireAPIKey(); err != nil {
		t.Fatalf("RequireAPIKey() = %v", err)
	}
}

func TestLoadChaptersFromDisk(t *testing.T) {
	p := filepath.Join(t.TempDir(), "chapters.json")
	doc := `{"pdf_path":"b.pdf","chapters":[{"folder":"x","start_page":1,"end_page":1}]}`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadChapters(p)
	if err != nil {
		t.Fatalf("LoadChapters() error = %v", err)
	}
	if f.Chapters[0].Topic != "x" {
		t.Fatalf("topic should default to folder, got %q", f.Chapters[0].Topic)
	}
}

func TestChapterSpecSpan(t *testing.T) {
	c, ok := Lookup("06_Shataka_Padyalu")
	if !ok {
		t.Fatal("missing table entry")
	}
	if got := c.Span(); got != (PageRange{67, 74}) {
		t.Fatalf("Span() = %v", got)
	}
}
