package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// DefaultDateLayouts are tried in order when no layouts are configured.
// Day-first dotted dates and month-first slashed dates are told apart by their separator.
var DefaultDateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
	"2006/01/02 15:04",
	"2006/01/02 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/06",
}

var errUnparseableDate = errors.New("unparseable date")

// dateParser turns a date cell into a time using an ordered list of layouts
type dateParser struct {
	layouts  []string
	location *time.Location
	// serial enables Excel serial day numbers, used for raw workbook cells
	serial bool
}

func newDateParser(layouts []string, loc *time.Location, serial bool) dateParser {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	if loc == nil {
		loc = time.UTC
	}
	return dateParser{layouts: layouts, location: loc, serial: serial}
}

// parse returns the first successful layout match
func (p dateParser) parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errUnparseableDate
	}

	for _, layout := range p.layouts {
		if t, err := time.ParseInLocation(layout, value, p.location); err == nil {
			return t, nil
		}
	}

	if p.serial {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && !math.IsInf(f, 0) {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, errUnparseableDate
}
