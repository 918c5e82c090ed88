// Package export renders the committed stroke history to downloadable
// formats: a PDF drawing and a plain-text summary.
package export

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/scribbleboard/scribbleboard/internal/board"
)

// canvasScale maps canvas pixels to PDF millimetres; a 1200px-wide board
// lands inside an A4 page.
const canvasScale = 3.0

// WritePDF renders strokes as polylines on an A4 page in commit order, so
// later strokes paint over earlier ones just as they do on the canvas.
func WritePDF(w io.Writer, strokes []board.Stroke) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()

	for _, s := range strokes {
		r, g, b := strokeColor(s)
		p.SetDrawColor(r, g, b)
		width := s.Width / canvasScale
		if width < 0.2 {
			width = 0.2
		}
		p.SetLineWidth(width)
		for i := 1; i < len(s.Segments); i++ {
			p.Line(
				s.Segments[i-1].X/canvasScale, s.Segments[i-1].Y/canvasScale,
				s.Segments[i].X/canvasScale, s.Segments[i].Y/canvasScale,
			)
		}
	}
	return p.Output(w)
}

// WriteSummary writes a plain-text description of the history.
func WriteSummary(w io.Writer, strokes []board.Stroke) error {
	if _, err := fmt.Fprintf(w, "ScribbleBoard Export\n====================\n\nTotal strokes: %d\n\n", len(strokes)); err != nil {
		return err
	}
	for i, s := range strokes {
		fmt.Fprintf(w, "Stroke %d:\n", i+1)
		fmt.Fprintf(w, "  Owner:  %s\n", s.Owner)
		fmt.Fprintf(w, "  Tool:   %s\n", s.Tool)
		fmt.Fprintf(w, "  Color:  %s\n", s.Color)
		fmt.Fprintf(w, "  Width:  %g\n", s.Width)
		fmt.Fprintf(w, "  Points: %d\n", len(s.Segments))
		if len(s.Segments) > 0 {
			first := s.Segments[0]
			last := s.Segments[len(s.Segments)-1]
			fmt.Fprintf(w, "  Start:  (%.2f, %.2f) at %s\n", first.X, first.Y, first.CapturedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(w, "  End:    (%.2f, %.2f)\n", last.X, last.Y)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// PDFHandler serves the current history snapshot as a PDF.
func PDFHandler(history *board.History) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="scribbleboard.pdf"`)
		if err := WritePDF(w, history.Snapshot()); err != nil {
			http.Error(w, "render failed", http.StatusInternalServerError)
		}
	})
}

// SummaryHandler serves the plain-text board summary.
func SummaryHandler(history *board.History) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_ = WriteSummary(w, history.Snapshot())
	})
}

// strokeColor resolves the stroke's draw color. Eraser strokes paint the
// background color, matching how clients render them. Unparseable colors
// fall back to black.
func strokeColor(s board.Stroke) (int, int, int) {
	if s.Tool == board.ToolEraser {
		return 255, 255, 255
	}
	return parseHexColor(s.Color)
}

func parseHexColor(c string) (int, int, int) {
	if len(c) != 7 || c[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(c[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
