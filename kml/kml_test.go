package kml

import (
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const trackKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Recorded tracks</name>
    <Placemark>
      <name>Tiergarten loop</name>
      <description>morning run</description>
      <LineString>
        <tessellate>1</tessellate>
        <coordinates>
          13.3501,52.5145,34.1 13.3512,52.5150,34.9
          13.3530,52.5161,35.2
        </coordinates>
      </LineString>
    </Placemark>
  </Document>
</kml>
`

func TestRead(t *testing.T) {
	require := require.New(t)

	track, err := Read(strings.NewReader(trackKML))
	require.NoError(err)
	require.Equal("Tiergarten loop", track.Name)
	require.Equal("morning run", track.Tags["description"])
	require.Len(track.Nodes, 3)

	require.Equal(int64(1), track.Nodes[0].ID)
	require.Equal(13.3501, track.Nodes[0].Long)
	require.Equal(52.5145, track.Nodes[0].Lat)
	require.Equal(int64(3), track.Nodes[2].ID)
	require.Equal(13.3530, track.Nodes[2].Long)
	require.Equal(52.5161, track.Nodes[2].Lat)
}

func TestReadWithoutAltitude(t *testing.T) {
	require := require.New(t)

	doc := `<kml><Placemark><LineString><coordinates>8.5,47.25 8.75,47.5</coordinates></LineString></Placemark></kml>`
	track, err := Read(strings.NewReader(doc))
	require.NoError(err)
	require.Equal("", track.Name)
	require.Empty(track.Tags)
	require.Len(track.Nodes, 2)
	require.Equal(8.75, track.Nodes[1].Long)
	require.Equal(47.5, track.Nodes[1].Lat)
}

func TestReadSkipsPointPlacemarks(t *testing.T) {
	require := require.New(t)

	doc := `<kml><Document><Folder>
	  <Placemark><name>start</name><Point><coordinates>1,2,0</coordinates></Point></Placemark>
	  <Folder>
	    <Placemark><name>route</name>
	      <MultiGeometry>
	        <LineString><coordinates>1,2,0 3,4,0</coordinates></LineString>
	        <LineString><coordinates>5,6,0 7,8,0 9,10,0</coordinates></LineString>
	      </MultiGeometry>
	    </Placemark>
	  </Folder>
	</Folder></Document></kml>`
	track, err := Read(strings.NewReader(doc))
	require.NoError(err)
	require.Equal("route", track.Name)
	require.Len(track.Nodes, 2)
	require.Equal(3.0, track.Nodes[1].Long)
	require.Equal(4.0, track.Nodes[1].Lat)
}

func TestReadErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"no linestring":  `<kml><Document><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></Document></kml>`,
		"no placemark":   `<kml><Document><name>empty</name></Document></kml>`,
		"empty":          `<kml><Placemark><LineString><coordinates> </coordinates></LineString></Placemark></kml>`,
		"short tuple":    `<kml><Placemark><LineString><coordinates>1,2 3</coordinates></LineString></Placemark></kml>`,
		"long tuple":     `<kml><Placemark><LineString><coordinates>1,2,3,4</coordinates></LineString></Placemark></kml>`,
		"bad number":     `<kml><Placemark><LineString><coordinates>1,2 x,4</coordinates></LineString></Placemark></kml>`,
		"nan longitude":  `<kml><Placemark><LineString><coordinates>nan,52.1 13.2,52.10001</coordinates></LineString></Placemark></kml>`,
		"inf latitude":   `<kml><Placemark><LineString><coordinates>13.1,52.1 13.2,+Inf</coordinates></LineString></Placemark></kml>`,
		"malformed xml":  `<kml><Placemark><LineString><coordinates>1,2 3,4</LineString>`,
		"not xml at all": `13.35,52.51 13.36,52.52`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			require.Error(t, err)
			_, ok := err.(*SourceFormatError)
			require.True(t, ok, "expected SourceFormatError, got %T: %v", err, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.kml")
	require.NoError(os.WriteFile(plain, []byte(trackKML), 0644))

	gz := filepath.Join(dir, "packed.kml.gz")
	f, err := os.Create(gz)
	require.NoError(err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(trackKML))
	require.NoError(err)
	require.NoError(zw.Close())
	require.NoError(f.Close())

	kmz := filepath.Join(dir, "archive.kmz")
	f, err = os.Create(kmz)
	require.NoError(err)
	arch := zip.NewWriter(f)
	w, err := arch.Create("files/icon.png")
	require.NoError(err)
	_, err = w.Write([]byte("not a png"))
	require.NoError(err)
	w, err = arch.Create("doc.kml")
	require.NoError(err)
	_, err = w.Write([]byte(trackKML))
	require.NoError(err)
	require.NoError(arch.Close())
	require.NoError(f.Close())

	for _, fname := range []string{plain, gz, kmz} {
		track, err := ReadFile(fname)
		require.NoError(err, fname)
		require.Equal("Tiergarten loop", track.Name, fname)
		require.Len(track.Nodes, 3, fname)
	}
}

func TestReadFileErrors(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.kml")
	require.NoError(os.WriteFile(broken, []byte(`<kml><Document/></kml>`), 0644))
	_, err := ReadFile(broken)
	sfe, ok := err.(*SourceFormatError)
	require.True(ok, "got %T: %v", err, err)
	require.Equal(broken, sfe.Filename)
	require.Contains(err.Error(), broken)

	notZip := filepath.Join(dir, "broken.kmz")
	require.NoError(os.WriteFile(notZip, []byte(trackKML), 0644))
	_, err = ReadFile(notZip)
	_, ok = err.(*SourceFormatError)
	require.True(ok, "got %T: %v", err, err)

	_, err = ReadFile(filepath.Join(dir, "missing.kml"))
	require.Error(err)
	_, ok = err.(*SourceFormatError)
	require.False(ok)
}
