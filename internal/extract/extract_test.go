package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestTextPlain(t *testing.T) {
	got, err := Text("resume.txt", []byte("  Dana Smith\nBackend Engineer  "))
	if err != nil {
		t.Fatalf("Text error: %v", err)
	}
	if got != "Dana Smith\nBackend Engineer" {
		t.Fatalf("Text = %q", got)
	}
}

func TestTextEmptyFile(t *testing.T) {
	if _, err := Text("resume.txt", nil); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("err = %v, want ErrEmptyFile", err)
	}
}

func TestTextUnsupportedFormat(t *testing.T) {
	if _, err := Text("resume.odt", []byte("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTextPlainTooLarge(t *testing.T) {
	big := []byte(strings.Repeat("a", maxPlainTextSize+1))
	if _, err := Text("resume.txt", big); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTextPlainInvalidUTF8(t *testing.T) {
	if _, err := Text("resume.txt", []byte{0xff, 0xfe, 0xfd}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestTextBlank(t *testing.T) {
	if _, err := Text("resume.txt", []byte("   \n  ")); !errors.Is(err, ErrNoText) {
		t.Fatalf("err = %v, want ErrNoText", err)
	}
}

func TestTextExtensionCaseInsensitive(t *testing.T) {
	got, err := Text("RESUME.TXT", []byte("hello"))
	if err != nil {
		t.Fatalf("Text error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("Text = %q", got)
	}
}

func TestDocxTagStripping(t *testing.T) {
	xml := `<w:document><w:body><w:p><w:r><w:t>Dana Smith</w:t></w:r></w:p><w:p><w:r><w:t>Engineer</w:t></w:r></w:p></w:body></w:document>`
	content := docxParaRe.ReplaceAllString(xml, "\n")
	content = docxTagRe.ReplaceAllString(content, "")
	if strings.TrimSpace(content) != "Dana Smith\nEngineer" {
		t.Fatalf("stripped = %q", content)
	}
}
