package export

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scribbleboard/scribbleboard/internal/board"
)

func sampleStrokes() []board.Stroke {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return []board.Stroke{
		{
			Owner: "user_1", Color: "#ff8800", Width: 4, Tool: board.ToolBrush,
			Segments: []board.Segment{
				{X: 10, Y: 10, CapturedAt: at},
				{X: 40, Y: 60, CapturedAt: at.Add(time.Second)},
			},
		},
		{
			Owner: "user_2", Color: "#000000", Width: 20, Tool: board.ToolEraser,
			Segments: []board.Segment{
				{X: 15, Y: 15, CapturedAt: at.Add(2 * time.Second)},
				{X: 25, Y: 25, CapturedAt: at.Add(3 * time.Second)},
			},
		},
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleStrokes()); err != nil {
		t.Fatalf("WritePDF() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, sampleStrokes()); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Total strokes: 2", "user_1", "eraser", "#ff8800", "Points: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestHandlers(t *testing.T) {
	history := board.NewHistory(10)
	for _, s := range sampleStrokes() {
		history.Commit(s)
	}

	srv := httptest.NewServer(PDFHandler(history))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET pdf: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("pdf content type = %q", got)
	}

	sumSrv := httptest.NewServer(SummaryHandler(history))
	defer sumSrv.Close()
	resp, err = http.Get(sumSrv.URL)
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("summary content type = %q", got)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
	}{
		{"#ff8800", 255, 136, 0},
		{"#000000", 0, 0, 0},
		{"#ffffff", 255, 255, 255},
		{"nonsense", 0, 0, 0},
		{"#xyzxyz", 0, 0, 0},
	}
	for _, tt := range tests {
		r, g, b := parseHexColor(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Fatalf("parseHexColor(%q) = %d,%d,%d want %d,%d,%d", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}
