package report

import (
	"fmt"
	"io"

	"github.com/arloliu/realmrecover"
	"github.com/fatih/color"
)

// PrintSummary writes a short human-readable summary of a run to w.
// Colors are only emitted when useColor is set.
func PrintSummary(w io.Writer, res *realmrecover.Result, artifacts []Artifact, useColor bool) {
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	note := color.New(color.FgYellow)
	for _, c := range []*color.Color{good, bad, note} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	verdict := func(ok bool) string {
		if ok {
			return good.Sprint("match")
		}

		return bad.Sprint("mismatch")
	}

	roots := res.Header.Roots()
	fmt.Fprintf(w, "run %s, %d bytes, blake3 %s\n", res.RunID, res.Size, res.Digest)
	for i, walk := range res.Walks {
		active := ""
		if byte(i) == res.Header.RootFlag() {
			active = " (active)"
		}
		fmt.Fprintf(w, "root %s at 0x%x%s: %d tables, %d offsets visited",
			realmrecover.RootLabel(i), roots[i], active, len(walk.Snapshot.Tables), walk.Tracker.Len())
		if n := len(walk.Diagnostics); n > 0 {
			fmt.Fprintf(w, ", %s", note.Sprintf("%d swallowed failures", n))
		}
		fmt.Fprintln(w)
	}

	r := res.Diff
	fmt.Fprintf(w, "table information: %s\n", verdict(r.InfoEqual))
	fmt.Fprintf(w, "table count: %s (%d / %d)\n", verdict(r.TableCountEqual()), r.TableCountA, r.TableCountB)
	for _, t := range r.Tables {
		if t.SchemaEqual && t.DataEqual {
			continue
		}
		fmt.Fprintf(w, "table %d: schema %s, data %s\n", t.Index, verdict(t.SchemaEqual), verdict(t.DataEqual))
	}

	unused := fmt.Sprintf("%d unused", len(res.Scan.Unused))
	if len(res.Scan.Unused) > 0 {
		unused = note.Sprint(unused)
	}
	fmt.Fprintf(w, "scan: %d markers, %d objects, %s\n", res.Scan.Hits, len(res.Scan.All), unused)

	for _, a := range artifacts {
		fmt.Fprintf(w, "wrote %s (%d bytes)\n", a.Path, a.CompressedSize)
	}
}
