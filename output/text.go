// Package output writes extracted canvas tracks.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rwsampling/trackcanvas/extract"
)

// WriteText writes the number of results followed by one line per track
// in the form [(x, y), (x, y), ...]. Failed tracks are written as
// comment lines.
func WriteText(w io.Writer, results []extract.Result) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(results))
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(bw, "# %s: %s\n", r.Path, r.Err)
			continue
		}
		bw.WriteByte('[')
		for i, p := range r.Points {
			if i > 0 {
				bw.WriteString(", ")
			}
			fmt.Fprintf(bw, "(%d, %d)", p.X, p.Y)
		}
		bw.WriteString("]\n")
	}
	return bw.Flush()
}
