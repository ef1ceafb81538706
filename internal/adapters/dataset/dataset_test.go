package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sohrab4u/consultation/internal/adapters/dataset"
	"github.com/sohrab4u/consultation/internal/domain/model"
	logging "github.com/sohrab4u/consultation/pkg/logger"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // test file
	sheet := "Sheet1"

	header := []any{model.ColPatientID, model.ColConsultationID, "Age", model.ColCreatedDate, model.ColDuration, "PatientName"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(f.SetCellValue(sheet, "A2", "P-1"))
	must(f.SetCellValue(sheet, "B2", "C-1"))
	must(f.SetCellValue(sheet, "C2", 42))
	must(f.SetCellValue(sheet, "D2", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))
	must(f.SetCellValue(sheet, "E2", 630.0/86400.0))
	must(f.SetCellValue(sheet, "F2", "Asha"))

	timeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 21})
	must(err)
	must(f.SetCellStyle(sheet, "E2", "E2", timeStyle))

	must(f.SetCellValue(sheet, "A3", "P-2"))
	must(f.SetCellValue(sheet, "E3", "12:34"))

	// Row 4 stays blank; row 5 has data again.
	must(f.SetCellValue(sheet, "A5", "P-3"))

	path := filepath.Join(dir, "consultations.xlsx")
	must(f.SaveAs(path))
	return path
}

func TestReader_XLSX(t *testing.T) {
	Convey("Given a consultation workbook", t, func() {
		_ = logging.Init()
		path := writeWorkbook(t, t.TempDir())
		reader := dataset.NewReader(dataset.WithKnownColumns([]string{model.ColPatientID}))

		Convey("When loading it", func() {
			records, err := reader.Load(context.Background(), path)

			Convey("Then blank rows should be skipped", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 3)
				So(records[2].TextOr(model.ColPatientID, ""), ShouldEqual, "P-3")
			})

			Convey("Then typed cells should keep their types", func() {
				r := records[0]
				age, _ := r.Get("Age")
				So(age, ShouldEqual, 42.0)

				created, _ := r.Get(model.ColCreatedDate)
				ts, ok := created.(time.Time)
				So(ok, ShouldBeTrue)
				So(ts.Format(time.DateOnly), ShouldEqual, "2025-03-14")

				dur, _ := r.Get(model.ColDuration)
				So(dur, ShouldResemble, model.ClockTime{Hour: 0, Minute: 10, Second: 30})
			})

			Convey("Then text cells and empty cells should be kept as such", func() {
				r := records[1]
				dur, _ := r.Get(model.ColDuration)
				So(dur, ShouldEqual, "12:34")
				name, ok := r.Get("PatientName")
				So(ok, ShouldBeTrue)
				So(name, ShouldBeNil)
			})
		})

		Convey("When the configured sheet does not exist", func() {
			r := dataset.NewReader(dataset.WithSheet("Missing"))
			_, err := r.Load(context.Background(), path)
			So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
		})

		Convey("When none of the expected columns exist", func() {
			r := dataset.NewReader(dataset.WithKnownColumns([]string{"Nope", "AlsoNope"}))
			_, err := r.Load(context.Background(), path)
			So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
		})
	})
}

func TestReader_CSV(t *testing.T) {
	Convey("Given a CSV export", t, func() {
		_ = logging.Init()
		reader := dataset.NewReader()
		src := "\ufeffPatientId,ConsultationId,HH_MM_SS,Advice\nP-1,C-1,10:30,\n,,,\nP-2,C-2,,Rest\n"

		Convey("When reading it", func() {
			records, err := reader.ReadCSV(context.Background(), strings.NewReader(src))

			Convey("Then values should be text and empty cells nil", func() {
				So(err, ShouldBeNil)
				So(records, ShouldHaveLength, 2)
				So(records[0].TextOr(model.ColPatientID, ""), ShouldEqual, "P-1")
				advice, ok := records[0].Get(model.ColAdvice)
				So(ok, ShouldBeTrue)
				So(advice, ShouldBeNil)
				So(records[1].TextOr(model.ColAdvice, ""), ShouldEqual, "Rest")
			})
		})

		Convey("When the input is empty", func() {
			_, err := reader.ReadCSV(context.Background(), strings.NewReader(""))
			So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
		})

		Convey("When the header is blank", func() {
			_, err := reader.ReadCSV(context.Background(), strings.NewReader(",,\n1,2,3\n"))
			So(errors.Is(err, dataset.ErrSchema), ShouldBeTrue)
		})

		Convey("When quoting is broken", func() {
			_, err := reader.ReadCSV(context.Background(), strings.NewReader("A,B\n\"x,1\n"))
			So(errors.Is(err, dataset.ErrUnreadable), ShouldBeTrue)
		})
	})
}

func TestReader_Load(t *testing.T) {
	Convey("Given files the reader cannot handle", t, func() {
		_ = logging.Init()
		reader := dataset.NewReader()
		dir := t.TempDir()

		Convey("When the extension is unsupported", func() {
			path := filepath.Join(dir, "data.json")
			So(os.WriteFile(path, []byte("{}"), 0o600), ShouldBeNil)
			_, err := reader.Load(context.Background(), path)
			So(errors.Is(err, dataset.ErrUnreadable), ShouldBeTrue)
		})

		Convey("When the file does not exist", func() {
			_, err := reader.Load(context.Background(), filepath.Join(dir, "missing.xlsx"))
			So(errors.Is(err, dataset.ErrUnreadable), ShouldBeTrue)
		})

		Convey("When the xlsx is corrupt", func() {
			path := filepath.Join(dir, "broken.xlsx")
			So(os.WriteFile(path, []byte("not a zip"), 0o600), ShouldBeNil)
			_, err := reader.Load(context.Background(), path)
			So(errors.Is(err, dataset.ErrUnreadable), ShouldBeTrue)
		})

		Convey("When a CSV is loaded from disk", func() {
			path := filepath.Join(dir, "data.csv")
			So(os.WriteFile(path, []byte("PatientId\nP-9\n"), 0o600), ShouldBeNil)
			records, err := reader.Load(context.Background(), path)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
		})
	})
}
