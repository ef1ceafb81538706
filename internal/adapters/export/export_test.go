package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/sohrab4u/consultation/internal/adapters/export"
	"github.com/sohrab4u/consultation/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() *export.Document {
	rows := []report.Row{
		{
			RowNumber: 1, PatientID: "P-1", ConsultationID: "C-1",
			CompletionScore: 100, MissingScore: 0,
			FilledFields: []string{"PatientName", "Advice"},
			TimeTaken:    "10:30", Status: "Completed",
			Symptoms: "Fever, cough", Diagnosis: "Viral fever", Advice: "Rest",
			DurationSeconds: 630,
		},
		{
			RowNumber: 2, PatientID: "P-2", ConsultationID: "C-2",
			CompletionScore: 50, MissingScore: 50,
			FilledFields:  []string{"PatientName"},
			MissingFields: []string{"Advice"},
			TimeTaken:     report.Unknown, Status: report.Unknown,
			Symptoms:    strings.Repeat("long symptom text ", 10),
			DurationErr: errors.New("Empty or NaN"),
		},
		{
			RowNumber: 3, PatientID: "P-3", ConsultationID: "C-3",
			CompletionScore: 25, MissingScore: 75,
			MissingFields: []string{"PatientName", "Advice"},
			TimeTaken:     "01:00", Status: "Closed",
			DurationSeconds: 60,
		},
	}
	return &export.Document{
		RunID:       "run-1",
		Title:       export.DefaultTitle,
		GeneratedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Rows:        rows,
		Summary:     report.Summarize(rows),
		Warnings:    []string{"date_range filter not applied"},
	}
}

func TestCSV(t *testing.T) {
	Convey("Given a report document", t, func() {
		doc := sampleDocument()
		var buf bytes.Buffer

		Convey("When encoding it as CSV", func() {
			err := export.CSV{}.Encode(&buf, doc)
			So(err, ShouldBeNil)
			lines, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then the header should use the fixed column order", func() {
				So(lines[0], ShouldResemble, report.Header())
				So(lines, ShouldHaveLength, 4)
			})

			Convey("Then rows should be rendered without an index column", func() {
				So(lines[1][0], ShouldEqual, "P-1")
				So(lines[1][2], ShouldEqual, "100.00")
				So(lines[1][5], ShouldEqual, report.NoFields)
				So(lines[2][6], ShouldEqual, report.Unknown)
				So(lines[3][4], ShouldEqual, report.NoFields)
			})
		})
	})
}

func TestXLSX(t *testing.T) {
	Convey("Given a report document", t, func() {
		doc := sampleDocument()
		var buf bytes.Buffer

		Convey("When encoding it as a workbook", func() {
			So(export.XLSX{}.Encode(&buf, doc), ShouldBeNil)
			f, err := excelize.OpenReader(&buf)
			So(err, ShouldBeNil)
			defer f.Close() //nolint:errcheck // test file

			Convey("Then it should have the four sheets", func() {
				So(f.GetSheetList(), ShouldResemble, []string{
					export.SheetAll, export.SheetHigh, export.SheetMedium, export.SheetDashboard,
				})
			})

			Convey("Then rows should be split into bands", func() {
				all, _ := f.GetRows(export.SheetAll)
				high, _ := f.GetRows(export.SheetHigh)
				medium, _ := f.GetRows(export.SheetMedium)
				So(all, ShouldHaveLength, 4)
				So(high, ShouldHaveLength, 2)
				So(high[1][0], ShouldEqual, "P-1")
				So(medium, ShouldHaveLength, 2)
				So(medium[1][0], ShouldEqual, "P-2")
			})

			Convey("Then the dashboard should list formatted metrics", func() {
				rows, _ := f.GetRows(export.SheetDashboard)
				So(rows[0], ShouldResemble, []string{"Metric", "Value"})
				So(rows[1], ShouldResemble, []string{"Total Patients", "3"})
				So(rows[2], ShouldResemble, []string{"Average Completion Score", "58.33%"})

				var found bool
				for _, r := range rows {
					if len(r) > 0 && strings.HasPrefix(r[0], "Row 2 (ConsultationId C-2)") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestPDF(t *testing.T) {
	Convey("Given a report document", t, func() {
		doc := sampleDocument()

		Convey("When encoding it as PDF", func() {
			var buf bytes.Buffer
			err := export.PDF{}.Encode(&buf, doc)

			Convey("Then a PDF should be produced", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), ShouldBeTrue)
			})
		})

		Convey("When there are enough rows to span pages", func() {
			for i := 0; i < 120; i++ {
				doc.Rows = append(doc.Rows, doc.Rows[1])
			}
			doc.Summary = report.Summarize(doc.Rows)
			var buf bytes.Buffer
			So(export.PDF{}.Encode(&buf, doc), ShouldBeNil)
			So(buf.Len(), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given long text", t, func() {
		Convey("Then it should be cut with an ellipsis", func() {
			So(export.Truncate(strings.Repeat("a", 60), 50), ShouldEqual, strings.Repeat("a", 50)+"...")
			So(export.Truncate("short", 50), ShouldEqual, "short")
			So(export.Truncate("ünïcødé-identifier-123456", 20), ShouldEqual, "ünïcødé-identifier-1...")
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given a report document", t, func() {
		doc := sampleDocument()
		var buf bytes.Buffer

		Convey("When encoding it as JSON", func() {
			So(export.JSON{}.Encode(&buf, doc), ShouldBeNil)
			var out map[string]any
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)

			Convey("Then the run document should carry rows and summary", func() {
				So(out["run_id"], ShouldEqual, "run-1")
				So(out["rows"], ShouldHaveLength, 3)
				summary := out["summary"].(map[string]any)
				So(summary["total"], ShouldEqual, 3.0)
				So(out["duration_failure_messages"], ShouldResemble, []any{"Row 2 (ConsultationId C-2): Empty or NaN"})
			})
		})
	})
}

func TestWriteFile(t *testing.T) {
	Convey("Given an output directory", t, func() {
		dir := t.TempDir()
		doc := sampleDocument()

		Convey("When writing every format", func() {
			for _, format := range export.Formats() {
				enc, err := export.ByName(format)
				So(err, ShouldBeNil)
				path, err := export.WriteFile(context.Background(), dir, enc, doc)
				So(err, ShouldBeNil)
				So(filepath.Base(path), ShouldEqual, "consultation_completion_report."+format)
			}

			Convey("Then only the final files should remain", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 4)
			})
		})

		Convey("When an encoder fails", func() {
			_, err := export.WriteFile(context.Background(), dir, failing{}, doc)

			Convey("Then no file should be left behind", func() {
				So(errors.Is(err, export.ErrEncode), ShouldBeTrue)
				entries, _ := os.ReadDir(dir)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When the format is unknown", func() {
			_, err := export.ByName("docx")
			So(errors.Is(err, export.ErrUnknownFormat), ShouldBeTrue)
		})
	})
}

type failing struct{}

func (failing) Format() string { return "bin" }

func (failing) Encode(w io.Writer, _ *export.Document) error {
	_, _ = w.Write([]byte("partial"))
	return errors.New("boom")
}

func failingDocument(n, limit int) *export.Document {
	rows := make([]report.Row, n)
	for i := range rows {
		rows[i] = report.Row{
			RowNumber:      i + 1,
			PatientID:      "P",
			ConsultationID: "C",
			TimeTaken:      report.Unknown,
			DurationErr:    errors.New("Empty or NaN"),
		}
	}
	return &export.Document{
		RunID:        "run-2",
		Rows:         rows,
		Summary:      report.Summarize(rows),
		FailureLimit: limit,
	}
}

func TestFailureDisplayLimit(t *testing.T) {
	Convey("Given a document with twelve duration failures", t, func() {
		Convey("When the display limit is zero", func() {
			doc := failingDocument(12, 0)

			Convey("Then the JSON export should list every failure", func() {
				var buf bytes.Buffer
				So(export.JSON{}.Encode(&buf, doc), ShouldBeNil)
				var out map[string]any
				So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)
				So(out["duration_failure_messages"], ShouldHaveLength, 12)
			})

			Convey("Then the dashboard should list every failure without a remainder line", func() {
				var buf bytes.Buffer
				So(export.XLSX{}.Encode(&buf, doc), ShouldBeNil)
				f, err := excelize.OpenReader(&buf)
				So(err, ShouldBeNil)
				defer f.Close() //nolint:errcheck // test file

				rows, _ := f.GetRows(export.SheetDashboard)
				var failures, more int
				for _, r := range rows {
					if len(r) == 0 {
						continue
					}
					if strings.HasPrefix(r[0], "Row ") {
						failures++
					}
					if strings.HasPrefix(r[0], "...and") {
						more++
					}
				}
				So(failures, ShouldEqual, 12)
				So(more, ShouldEqual, 0)
			})
		})

		Convey("When the display limit is ten", func() {
			doc := failingDocument(12, 10)
			var buf bytes.Buffer
			So(export.JSON{}.Encode(&buf, doc), ShouldBeNil)
			var out map[string]any
			So(json.Unmarshal(buf.Bytes(), &out), ShouldBeNil)

			Convey("Then the list should be capped with a remainder line", func() {
				msgs := out["duration_failure_messages"].([]any)
				So(msgs, ShouldHaveLength, 11)
				So(msgs[10], ShouldEqual, "...and 2 more")
			})
		})
	})
}
