package kml

import (
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ReadFile reads the track from a .kml, .kml.gz or .kmz file.
func ReadFile(filename string) (*Track, error) {
	var t *Track
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".kmz":
		t, err = readKMZ(filename)
	case ".gz":
		t, err = readGzip(filename)
	default:
		var f *os.File
		f, err = os.Open(filename)
		if err != nil {
			return nil, errors.Wrap(err, "opening KML file")
		}
		defer f.Close()
		t, err = Read(f)
	}
	if sfe, ok := err.(*SourceFormatError); ok {
		sfe.Filename = filename
	}
	return t, err
}

func readGzip(filename string) (*Track, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening KML file")
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, &SourceFormatError{Reason: "invalid gzip: " + err.Error()}
	}
	defer r.Close()
	return Read(r)
}

// readKMZ reads doc.kml from the archive, or the first .kml entry if the
// archive has no doc.kml.
func readKMZ(filename string) (*Track, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		if err == zip.ErrFormat {
			return nil, &SourceFormatError{Reason: "invalid KMZ archive"}
		}
		return nil, errors.Wrap(err, "opening KMZ file")
	}
	defer zr.Close()

	var doc *zip.File
	for _, f := range zr.File {
		if strings.ToLower(path.Ext(f.Name)) != ".kml" {
			continue
		}
		if path.Base(f.Name) == "doc.kml" {
			doc = f
			break
		}
		if doc == nil {
			doc = f
		}
	}
	if doc == nil {
		return nil, &SourceFormatError{Reason: "KMZ archive without .kml document"}
	}

	r, err := doc.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s in KMZ", doc.Name)
	}
	defer r.Close()
	return Read(io.LimitReader(r, int64(doc.UncompressedSize64)))
}
