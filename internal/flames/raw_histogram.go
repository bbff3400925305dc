package flames

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

type rawHeader struct {
	Width, Height int32
	Bounds        [4]float64 // MinX, MaxX, MinY, MaxY
	Vibrancy      float64
	Gamma         float64
}

// SaveRaw writes the histogram, zstd compressed: a little-endian header
// followed by the flat float64 buffer. LoadRaw reads it back.
func (h *Histogram) SaveRaw(path string) error {
	exp64 := int64(h.Width) * int64(h.Height) * CellSize
	if int64(len(h.Buf)) != exp64 {
		return fmt.Errorf("Buf length mismatch: got %d, expected %d (Width*Height*%d)", len(h.Buf), exp64, CellSize)
	}

	// Make sure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := h.writeRaw(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (h *Histogram) writeRaw(out io.Writer) error {
	enc, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(enc)
	hdr := rawHeader{
		Width:    int32(h.Width),
		Height:   int32(h.Height),
		Bounds:   [4]float64{h.Bounds.MinX, h.Bounds.MaxX, h.Bounds.MinY, h.Bounds.MaxY},
		Vibrancy: h.Vibrancy,
		Gamma:    h.Gamma,
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		enc.Close()
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, h.Buf); err != nil {
		enc.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// LoadRaw reads a histogram written by SaveRaw.
func LoadRaw(path string) (*Histogram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readRaw(bufio.NewReader(dec))
}

func readRaw(r io.Reader) (*Histogram, error) {
	var hdr rawHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return nil, fmt.Errorf("bad dimensions: %dx%d", hdr.Width, hdr.Height)
	}
	b := Bounds{MinX: hdr.Bounds[0], MaxX: hdr.Bounds[1], MinY: hdr.Bounds[2], MaxY: hdr.Bounds[3]}
	h := NewHistogram(int(hdr.Width), int(hdr.Height), b, hdr.Vibrancy, hdr.Gamma)
	if err := binary.Read(r, binary.LittleEndian, h.Buf); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return h, nil
}
