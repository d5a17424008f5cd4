// Package archive assembles the in-memory zip of extraction results.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"labelscan/internal/domain"
)

// DefaultMarker is inserted before the extension of every entry name.
const DefaultMarker = "__Text"

// EntryName derives the archive entry for an uploaded file: marker goes in
// front of the final dot and ".json" is appended, so "sample.jpg" becomes
// "sample__Text.jpg.json". A name without a dot just gets ".json".
func EntryName(filename, marker string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return filename + ".json"
	}
	return filename[:i] + marker + filename[i:] + ".json"
}

// MarshalResult renders a result as the UTF-8, two-space-indented JSON stored in the archive.
func MarshalResult(result domain.AnalysisResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, fmt.Errorf("marshaling result for %s: %w", result.Filename, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Writer accumulates results into a zip held in memory. It is not safe for
// concurrent use.
type Writer struct {
	buf    *bytes.Buffer
	zw     *zip.Writer
	marker string
	names  map[string]int
	count  int
	closed bool
	now    func() time.Time
}

// NewWriter creates an empty archive. An empty marker means DefaultMarker.
func NewWriter(marker string) *Writer {
	if marker == "" {
		marker = DefaultMarker
	}
	buf := &bytes.Buffer{}
	return &Writer{
		buf:    buf,
		zw:     zip.NewWriter(buf),
		marker: marker,
		names:  make(map[string]int),
		now:    time.Now,
	}
}

// Add writes one result as a deflated JSON entry and returns the entry name.
// Duplicate names are written again rather than renamed.
func (w *Writer) Add(result domain.AnalysisResult) (string, error) {
	if w.closed {
		return "", fmt.Errorf("archive already closed")
	}

	data, err := MarshalResult(result)
	if err != nil {
		return "", err
	}

	name := EntryName(result.Filename, w.marker)
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: w.now(),
	}
	f, err := w.zw.CreateHeader(header)
	if err != nil {
		return "", fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("writing archive entry %s: %w", name, err)
	}

	w.names[name]++
	w.count++
	return name, nil
}

// Contains reports whether an entry with this name was already written.
func (w *Writer) Contains(name string) bool {
	return w.names[name] > 0
}

// Len returns the number of entries written.
func (w *Writer) Len() int {
	return w.count
}

// Close finalizes the zip and returns its bytes.
func (w *Writer) Close() ([]byte, error) {
	if !w.closed {
		if err := w.zw.Close(); err != nil {
			return nil, fmt.Errorf("closing archive: %w", err)
		}
		w.closed = true
	}
	return w.buf.Bytes(), nil
}

// Entry is one decoded archive member.
type Entry struct {
	Name   string
	Result domain.AnalysisResult
}

// Read decodes every entry of an archive produced by Writer.
func Read(data []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening entry %s: %w", f.Name, err)
		}
		var result domain.AnalysisResult
		err = json.NewDecoder(rc).Decode(&result)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding entry %s: %w", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Result: result})
	}
	return entries, nil
}
