package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/taskcal/internal/export"
	"github.com/calvinalkan/taskcal/internal/task"
	"github.com/calvinalkan/taskcal/internal/view"
)

var now = time.Date(2024, time.May, 15, 8, 0, 0, 0, time.UTC)

func sample() []task.Task {
	created := func(sec int) time.Time {
		return time.Date(2024, time.May, 1, 9, 0, sec, 0, time.UTC)
	}

	return []task.Task{
		{ID: "t1", Text: "pay rent", Date: "2024-05-01", CreatedAt: created(1)},
		{ID: "t2", Text: "trip; pack, go", Date: "2024-06-03", CreatedAt: created(2), Completed: true},
		{ID: "t3", Text: "call mom", Date: "2024-05-01", CreatedAt: created(3)},
	}
}

func ids(tasks []task.Task) []task.ID {
	var out []task.ID
	for _, t := range tasks {
		out = append(out, t.ID)
	}

	return out
}

func TestWrite_JSON_ListOrderAndWireNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.Write(&buf, "json", sample(), export.Options{Now: now})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := task.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff([]task.ID{"t1", "t3", "t2"}, ids(got)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	for _, field := range []string{`"id"`, `"text"`, `"date"`, `"completed"`, `"createdAt"`} {
		if !strings.Contains(buf.String(), field) {
			t.Errorf("missing field %s", field)
		}
	}
}

func TestWrite_JSON_EmptyIsArray(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.Write(&buf, "JSON", nil, export.Options{Now: now})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var got []any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil || got == nil {
		t.Fatalf("want empty array, got %q (%v)", buf.String(), err)
	}
}

func TestWrite_YAML_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.Write(&buf, "yaml", sample(), export.Options{Now: now})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var got []task.Task
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml: %v\n%s", err, buf.String())
	}

	want := view.SortForList(sample())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(buf.String(), "createdAt:") {
		t.Fatalf("want camelCase keys:\n%s", buf.String())
	}
}

func TestWrite_MonthFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	june := view.Cursor{Year: 2024, Month: time.June}

	err := export.Write(&buf, "json", sample(), export.Options{Now: now, Month: &june})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	got, err := task.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff([]task.ID{"t2"}, ids(got)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_ICS(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.Write(&buf, "ics", sample(), export.Options{Now: now})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	out := buf.String()

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\n") || !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Fatalf("bad envelope:\n%s", out)
	}

	if got := strings.Count(out, "BEGIN:VEVENT\r\n"); got != 3 {
		t.Fatalf("events=%d, want 3", got)
	}

	for _, want := range []string{
		"UID:task-t1@taskcal\r\n",
		"DTSTAMP:20240515T080000Z\r\n",
		"DTSTART;VALUE=DATE:20240501\r\nDTEND;VALUE=DATE:20240502\r\n",
		"DTSTART;VALUE=DATE:20240603\r\nDTEND;VALUE=DATE:20240604\r\n",
		"SUMMARY:✓ trip\\; pack\\, go\r\nDTSTART",
		"STATUS:CONFIRMED\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	if strings.Index(out, "pay rent") > strings.Index(out, "call mom") {
		t.Error("events should follow list order")
	}
}

func TestWrite_ICS_FoldsLongLines(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("가", 60)

	var buf bytes.Buffer

	err := export.Write(&buf, "ics", []task.Task{{ID: "x", Text: long, Date: "2024-05-01"}}, export.Options{Now: now})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	for _, line := range strings.Split(buf.String(), "\r\n") {
		if len(line) > 75 {
			t.Fatalf("line of %d octets: %q", len(line), line)
		}
	}

	unfolded := strings.ReplaceAll(buf.String(), "\r\n ", "")
	if !strings.Contains(unfolded, "SUMMARY:"+long+"\r\n") {
		t.Fatalf("unfolded summary lost text:\n%s", unfolded)
	}
}

func TestWrite_PDF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	may := view.Cursor{Year: 2024, Month: time.May}

	err := export.Write(&buf, "pdf", sample(), export.Options{Now: now, Month: &may})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("not a PDF: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}

	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Fatal("PDF not terminated")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.Write(&buf, "xml", sample(), export.Options{Now: now})
	if err == nil || !strings.Contains(err.Error(), "unknown export format") {
		t.Fatalf("err=%v", err)
	}
}

func TestSheetGrid_KeepsSpilloverTasks(t *testing.T) {
	t.Parallel()

	may := view.Cursor{Year: 2024, Month: time.May}
	tasks := append(sample(), task.Task{ID: "t4", Text: "june first", Date: "2024-06-01"})

	g := export.SheetGrid(tasks, export.Options{Now: now, Month: &may})

	var cell view.Cell

	for _, c := range g.Cells {
		if c.Date == "2024-06-01" {
			cell = c
		}
	}

	if !cell.OtherMonth {
		t.Fatalf("2024-06-01 should be a trailing cell of the May sheet, got %+v", cell)
	}

	if diff := cmp.Diff([]task.ID{"t4"}, ids(cell.Tasks)); diff != "" {
		t.Fatalf("spillover cell tasks mismatch (-want +got):\n%s", diff)
	}

	if got := len(g.Cells[3].Tasks); got != 2 {
		t.Fatalf("2024-05-01 tasks=%d, want 2", got)
	}
}

func TestWrite_FormatNameIgnoresCase(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := export.Write(&buf, " PDF ", sample(), export.Options{Now: now})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatal("want a PDF for an upper-case format name")
	}
}
