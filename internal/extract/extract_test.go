package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
)

// fakeParser records whether it was called and returns canned output.
type fakeParser struct {
	text   string
	err    error
	called bool
}

func (p *fakeParser) Parse(ctx context.Context, data []byte) (string, error) {
	p.called = true
	return p.text, p.err
}

func TestExtract_PlainText(t *testing.T) {
	e := New()
	text, err := e.Extract(context.Background(), "notes.txt", "text/plain", []byte("machine learning is a field of study"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "machine learning is a field of study" {
		t.Errorf("Extract() = %q", text)
	}
}

func TestExtract_UnsupportedBeforeParsing(t *testing.T) {
	pdf := &fakeParser{text: "should not be used"}
	docx := &fakeParser{text: "should not be used"}
	e := NewWithParsers(pdf, docx)

	_, err := e.Extract(context.Background(), "virus.exe", "application/octet-stream", []byte{0x4d, 0x5a})
	if !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("Extract() error = %v; want ErrUnsupportedFileType", err)
	}
	if pdf.called || docx.called {
		t.Error("parser invoked for unsupported file type")
	}
}

func TestExtract_EmptyOrWhitespaceText(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		data []byte
	}{
		{"zero bytes", nil},
		{"whitespace only", []byte("   \n\t  \n ")},
		{"below minimum", []byte("too short")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), "empty.txt", "text/plain", tt.data)
			if !errors.Is(err, ErrEmptyDocument) {
				t.Errorf("Extract() error = %v; want ErrEmptyDocument", err)
			}
		})
	}
}

func TestExtract_ParserFailureWrapped(t *testing.T) {
	pdf := &fakeParser{err: errors.New("stream corrupted at offset 42")}
	e := NewWithParsers(pdf, &fakeParser{})

	_, err := e.Extract(context.Background(), "scan.pdf", "application/pdf", []byte("%PDF-1.4"))
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("Extract() error = %v; want ErrExtractionFailed", err)
	}
	if !pdf.called {
		t.Error("pdf parser was not invoked")
	}
}

func TestExtract_ImageOnlyPDF(t *testing.T) {
	// A parser succeeding with nearly no text means a scanned document.
	pdf := &fakeParser{text: "  \n "}
	e := NewWithParsers(pdf, &fakeParser{})

	_, err := e.Extract(context.Background(), "scan.pdf", "application/pdf", []byte("%PDF-1.4"))
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("Extract() error = %v; want ErrEmptyDocument", err)
	}
}

func TestExtract_MediaTypeBeatsExtension(t *testing.T) {
	pdf := &fakeParser{text: "content extracted from the pdf parser path"}
	docx := &fakeParser{}
	e := NewWithParsers(pdf, docx)

	// Extension says docx, declared type says pdf: type wins.
	_, err := e.Extract(context.Background(), "report.docx", "application/pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !pdf.called {
		t.Error("pdf parser not used despite declared media type")
	}
	if docx.called {
		t.Error("docx parser used despite declared pdf media type")
	}
}

func TestExtract_DocxEndToEnd(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Neural networks learn</w:t></w:r></w:p>
    <w:p><w:r><w:t>from labeled examples.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	e := New()
	text, err := e.Extract(context.Background(), "notes.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", buf.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "Neural networks learn from labeled examples." {
		t.Errorf("Extract() = %q", text)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"  a   b\n\nc\t d ", "a b c d"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q; want %q", tt.input, got, tt.want)
		}
	}
}
