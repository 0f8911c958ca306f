package export

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"poster/internal/document"
	"poster/internal/logging"
)

// Format is an output file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatPDF  Format = "pdf"
)

// ErrUnsupportedFormat is returned for formats other than png, jpeg and pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts a format name or file extension, with or without the
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// WriteTo renders state and encodes it to w in opts.Format.
func WriteTo(w io.Writer, state document.CanvasState, size document.Size, opts Options) error {
	opts = opts.withDefaults()
	if _, err := ParseFormat(string(opts.Format)); err != nil {
		return err
	}
	dc, err := render(state, size, opts)
	if err != nil {
		return err
	}

	switch opts.Format {
	case FormatPNG:
		return dc.EncodePNG(w)
	case FormatJPEG:
		return jpeg.Encode(w, dc.Image(), &jpeg.Options{Quality: opts.Quality})
	}

	// PDF: one page the size of the canvas in points, the raster filling it.
	var raster bytes.Buffer
	if err := dc.EncodePNG(&raster); err != nil {
		return fmt.Errorf("encode pdf raster: %w", err)
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("canvas", imgOpts, &raster)
	pdf.ImageOptions("canvas", 0, 0, size.Width, size.Height, false, imgOpts, 0, "")
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WriteFile renders state to path. An empty opts.Format is inferred from
// the extension.
func WriteFile(path string, state document.CanvasState, size document.Size, opts Options) error {
	if opts.Format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		opts.Format = f
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTo(f, state, size, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	logging.Logger().Info("export: wrote file", "path", path, "format", string(opts.Format), "elements", len(state.Elements))
	return nil
}
