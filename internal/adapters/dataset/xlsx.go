package dataset

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sohrab4u/consultation/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

const secondsPerDay = 86400

// Built-in number formats that display a date or a time of day.
var (
	builtinDateFormats = map[int]bool{14: true, 15: true, 16: true, 17: true, 22: true}
	builtinTimeFormats = map[int]bool{18: true, 19: true, 20: true, 21: true, 45: true, 46: true, 47: true}
)

// elapsedFormat is the built-in [h]:mm:ss format.
const elapsedFormat = 46

// ReadXLSX reads the configured (or first) worksheet. The first row is the
// header. Numeric cells formatted as dates become time.Time, those formatted
// as times become model.ClockTime, other numbers become float64 and the rest
// stay text.
func (r *Reader) ReadXLSX(ctx context.Context, src io.Reader) ([]model.Record, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close() //nolint:errcheck // in-memory workbook

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrSchema)
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found", ErrSchema, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrSchema, sheet)
	}

	c := &cellReader{f: f, sheet: sheet, styles: map[int]cellKind{}}
	data := rows[1:]
	return r.table(ctx, rows[0], len(data), func(i, j int) any {
		row := data[i]
		if j >= len(row) || row[j] == "" {
			return nil
		}
		// +2: 1-based and below the header.
		return c.value(j+1, i+2, row[j])
	})
}

type cellKind int

const (
	kindPlain cellKind = iota
	kindDate
	kindTime
	kindElapsed
)

// cellReader recovers typed values from raw cell text. Style lookups are
// cached per style index.
type cellReader struct {
	f      *excelize.File
	sheet  string
	styles map[int]cellKind
}

func (c *cellReader) value(col, row int, raw string) any {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := c.f.GetCellType(c.sheet, axis)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw
	case excelize.CellTypeBool:
		if raw == "1" {
			return "TRUE"
		}
		return "FALSE"
	}

	num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}

	switch c.kind(axis) {
	case kindDate:
		if t, err := excelize.ExcelDateToTime(num, false); err == nil {
			return t
		}
	case kindTime:
		return clockFromSerial(num - math.Floor(num))
	case kindElapsed:
		return clockFromSerial(num)
	}
	return num
}

func (c *cellReader) kind(axis string) cellKind {
	idx, err := c.f.GetCellStyle(c.sheet, axis)
	if err != nil || idx == 0 {
		return kindPlain
	}
	if k, ok := c.styles[idx]; ok {
		return k
	}
	k := kindPlain
	if style, err := c.f.GetStyle(idx); err == nil && style != nil {
		k = classify(style.NumFmt, style.CustomNumFmt)
	}
	c.styles[idx] = k
	return k
}

func classify(numFmt int, custom *string) cellKind {
	if custom != nil && *custom != "" {
		return classifyCustom(*custom)
	}
	switch {
	case numFmt == elapsedFormat:
		return kindElapsed
	case builtinTimeFormats[numFmt]:
		return kindTime
	case builtinDateFormats[numFmt]:
		return kindDate
	}
	return kindPlain
}

// classifyCustom inspects a custom number format code. Quoted literals and
// bracketed colours are ignored; [h] marks an elapsed duration.
func classifyCustom(code string) cellKind {
	code = strings.ToLower(code)
	if strings.Contains(code, "[h") {
		return kindElapsed
	}
	var b strings.Builder
	quoted, bracket := false, false
	for _, ch := range code {
		switch {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '[':
			bracket = true
		case ch == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(ch)
		}
	}
	s := b.String()
	switch {
	case strings.ContainsAny(s, "yd"):
		return kindDate
	case strings.ContainsAny(s, "hs"):
		return kindTime
	}
	return kindPlain
}

func clockFromSerial(v float64) model.ClockTime {
	total := int(math.Round(v * secondsPerDay))
	if total < 0 {
		total = 0
	}
	return model.ClockTime{
		Hour:   total / 3600,
		Minute: total % 3600 / 60,
		Second: total % 60,
	}
}
