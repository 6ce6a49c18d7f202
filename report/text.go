package report

import (
	"fmt"
	"io"

	"github.com/arloliu/realmrecover"
	"github.com/arloliu/realmrecover/diff"
	"github.com/arloliu/realmrecover/internal/pool"
	"github.com/arloliu/realmrecover/object"
	"github.com/arloliu/realmrecover/recovery"
	"github.com/arloliu/realmrecover/scan"
)

// Artifact names.
const (
	CompareFile     = "compare_objects.txt"
	DataStorageFile = "data_storages.txt"
	ScanAllFile     = "scan_all_objects.txt"
	ScanUnusedFile  = "scan_unused_objects.txt"
	ManifestFile    = "manifest.yaml"
)

// WriteComparison writes the comparison report of a run.
func WriteComparison(w io.Writer, res *realmrecover.Result) error {
	buf := pool.GetReportBuffer()
	defer pool.PutReportBuffer(buf)

	renderComparison(buf, res)
	_, err := buf.WriteTo(w)

	return err
}

func renderComparison(buf *pool.Buffer, res *realmrecover.Result) {
	r := res.Diff
	roots := res.Header.Roots()

	fmt.Fprintf(buf, "[*] Run %s\n", res.RunID)
	fmt.Fprintf(buf, "  - File size: %d bytes, BLAKE3: %s\n", res.Size, res.Digest)
	fmt.Fprintf(buf, "  - Root A: 0x%x, Root B: 0x%x, active: 0x%x\n\n", roots[0], roots[1], res.Header.ActiveRootOffset())

	if r.InfoEqual {
		buf.WriteString("[*] Table information match\n")
		fmt.Fprintf(buf, "  - %s\n\n", r.InfoA)
	} else {
		buf.WriteString("[*] Table information mismatch\n")
		fmt.Fprintf(buf, "  - Root A: %s\n", r.InfoA)
		fmt.Fprintf(buf, "  - Root B: %s\n", r.InfoB)
		fmt.Fprintf(buf, "  - Diff: %s\n\n", InlineDiff(r.InfoA.String(), r.InfoB.String()))
	}

	if r.TableCountEqual() {
		fmt.Fprintf(buf, "[*] Table count match - %d\n\n", r.TableCountA)
	} else {
		fmt.Fprintf(buf, "[*] Table count mismatch - %d != %d\n\n", r.TableCountA, r.TableCountB)
	}

	for i, t := range r.Tables {
		renderTable(buf, res, i, t)
	}

	diagnostics := res.Diagnostics()
	if diagnostics == 0 {
		return
	}

	fmt.Fprintf(buf, "[*] Swallowed failures - %d\n", diagnostics)
	for i, w := range res.Walks {
		for _, d := range w.Diagnostics {
			fmt.Fprintf(buf, "  - Root %s: %s\n", realmrecover.RootLabel(i), d)
		}
	}
	buf.WriteString("\n")
}

func renderTable(buf *pool.Buffer, res *realmrecover.Result, index int, t diff.TableReport) {
	if t.SchemaEqual {
		fmt.Fprintf(buf, "[*] Table %d schema match\n", t.Index)
		fmt.Fprintf(buf, "  - Table %d Schema: %s\n\n", t.Index, t.SchemaA)
	} else {
		a, b := t.SchemaA.String(), t.SchemaB.String()
		fmt.Fprintf(buf, "[*] Table %d schema mismatch\n", t.Index)
		fmt.Fprintf(buf, "  - Table %d Schema A: %s\n", t.Index, a)
		fmt.Fprintf(buf, "  - Table %d Schema B: %s\n", t.Index, b)
		fmt.Fprintf(buf, "  - Diff: %s\n\n", InlineDiff(a, b))
	}

	if t.DataEqual {
		fmt.Fprintf(buf, "[*] Table %d data storage match\n", t.Index)
		fmt.Fprintf(buf, "  - Fingerprint: %016x\n\n", res.DataFingerprint(0, index))

		return
	}

	fmt.Fprintf(buf, "[*] Table %d data storage mismatch\n", t.Index)
	fmt.Fprintf(buf, "  - Fingerprint A: %016x, B: %016x\n", res.DataFingerprint(0, index), res.DataFingerprint(1, index))
	for _, e := range t.Entries {
		fmt.Fprintf(buf, "  - Entry %d in root A but not in root B: %s\n", e.Index, e.OnlyA)
		fmt.Fprintf(buf, "  - Entry %d in root B but not in root A: %s\n", e.Index, e.OnlyB)
	}
	buf.WriteString("\n")
}

// WriteDataStorages writes the data of every table under both roots.
func WriteDataStorages(w io.Writer, a, b *recovery.Snapshot) error {
	buf := pool.GetReportBuffer()
	defer pool.PutReportBuffer(buf)

	for i := range max(len(a.Tables), len(b.Tables)) {
		if i < len(a.Tables) {
			fmt.Fprintf(buf, "Table %d Data Storage A: %s\n\n", i+1, valueString(a.Tables[i].DataStorage))
		}
		if i < len(b.Tables) {
			fmt.Fprintf(buf, "Table %d Data Storage B: %s\n\n", i+1, valueString(b.Tables[i].DataStorage))
		}
	}
	_, err := buf.WriteTo(w)

	return err
}

// WriteScan writes one line per record.
func WriteScan(w io.Writer, records []scan.Record) error {
	buf := pool.GetReportBuffer()
	defer pool.PutReportBuffer(buf)

	for _, rec := range records {
		buf.WriteString(rec.String())
		_ = buf.WriteByte('\n')
	}
	_, err := buf.WriteTo(w)

	return err
}

func valueString(v object.Value) string {
	if v == nil {
		return "null"
	}

	return v.String()
}
