package app

import (
	"fmt"
	"strconv"
	"time"

	"infinite-carousel/carousel"
	"infinite-carousel/log"
	"infinite-carousel/ui"
)

type pickerKind int

const (
	kindDay pickerKind = iota
	kindMonth
	kindYear
	kindDates
	numKinds
)

func (k pickerKind) String() string {
	switch k {
	case kindDay:
		return "day"
	case kindMonth:
		return "month"
	case kindYear:
		return "year"
	case kindDates:
		return "dates"
	default:
		return "unknown"
	}
}

const (
	componentCellID = "component"
	dateCellID      = "date"

	// componentCellWidth fits a year with a column of padding on each side.
	componentCellWidth = 6
	cellHeight         = 3
	dateCellWidth      = len(DateLayout) + 4

	// defaultDateIndex is the date centered when the dates carousel first
	// loads.
	defaultDateIndex = 3
)

// picker holds the selected date and feeds the day, month, year and dates
// carousels. Everything runs on the UI context.
type picker struct {
	day, month, year int
	dates            []time.Time
	now              func() time.Time

	carousels [numKinds]*carousel.Carousel
}

// newPicker starts on the date the dates carousel centers first, or today
// when there are no dates, so every carousel's first load targets the same
// date.
func newPicker(now func() time.Time, dates []time.Time) *picker {
	p := &picker{dates: dates, now: now}
	start := now()
	if len(dates) > 0 {
		start = dates[p.selectedIndex(kindDates)]
	}
	p.year, p.month, p.day = p.clampYear(start.Year()), int(start.Month()), start.Day()
	return p
}

// host returns the data source of one carousel kind.
func (p *picker) host(kind pickerKind) *pickerHost {
	return &pickerHost{p: p, kind: kind}
}

// bind records the carousel serving kind.
func (p *picker) bind(kind pickerKind, c *carousel.Carousel) {
	p.carousels[kind] = c
}

func (p *picker) selectedDate() time.Time {
	return date(p.year, p.month, p.day)
}

func (p *picker) lastYear() int {
	return p.now().Year()
}

func (p *picker) clampYear(year int) int {
	return min(max(year, firstYear), p.lastYear())
}

func (p *picker) count(kind pickerKind) int {
	switch kind {
	case kindDay:
		return daysIn(p.month, p.year)
	case kindMonth:
		return len(monthNames)
	case kindYear:
		return p.lastYear() - firstYear + 1
	case kindDates:
		return len(p.dates)
	}
	return 0
}

func (p *picker) label(kind pickerKind, index int) string {
	switch kind {
	case kindDay:
		return strconv.Itoa(index + 1)
	case kindMonth:
		return monthNames[index]
	case kindYear:
		return strconv.Itoa(firstYear + index)
	case kindDates:
		return p.dates[index].Format(DateLayout)
	}
	return ""
}

func (p *picker) selectedIndex(kind pickerKind) int {
	switch kind {
	case kindDay:
		return min(p.day, daysIn(p.month, p.year)) - 1
	case kindMonth:
		return p.month - 1
	case kindYear:
		return p.year - firstYear
	}
	return max(min(defaultDateIndex, len(p.dates)-1), 0)
}

// didSelect applies a selection made in one of the carousels.
func (p *picker) didSelect(kind pickerKind, index int) {
	switch kind {
	case kindDay:
		p.day = index + 1
	case kindMonth:
		if month := index + 1; month != p.month {
			p.month = month
			p.dayCountChanged()
		}
	case kindYear:
		if year := firstYear + index; year != p.year {
			p.year = year
			p.dayCountChanged()
		}
	case kindDates:
		if index < len(p.dates) {
			p.setDate(p.dates[index])
		}
	}
}

// dayCountChanged clamps the day and reloads the day carousel, which follows
// the selected day.
func (p *picker) dayCountChanged() {
	p.day = min(p.day, daysIn(p.month, p.year))
	if c := p.carousels[kindDay]; c != nil {
		c.ReloadData(nil)
	}
}

// setDate moves the day, month and year carousels to t.
func (p *picker) setDate(t time.Time) {
	p.year, p.month, p.day = p.clampYear(t.Year()), int(t.Month()), t.Day()
	log.InfoLog.Printf("selected date %s", p.selectedDate().Format(DateLayout))

	if c := p.carousels[kindMonth]; c != nil {
		c.RefreshSelection()
	}
	if c := p.carousels[kindYear]; c != nil {
		c.RefreshSelection()
	}
	p.dayCountChanged()
}

// setDates swaps the dates list and reloads its carousel.
func (p *picker) setDates(dates []time.Time) {
	p.dates = dates
	if c := p.carousels[kindDates]; c != nil {
		c.ReloadData(nil)
	}
}

// pickerHost adapts the picker to one carousel.
type pickerHost struct {
	p    *picker
	kind pickerKind
}

func (h *pickerHost) NumberOfItems(c *carousel.Carousel) int {
	return h.p.count(h.kind)
}

func (h *pickerHost) CellForItem(index int, c *carousel.Carousel) carousel.Cell {
	reuseID := componentCellID
	if h.kind == kindDates {
		reuseID = dateCellID
	}
	cell, ok := c.DequeueCell(reuseID, index).(*ui.LabelCell)
	if !ok {
		return nil
	}
	cell.SetText(h.p.label(h.kind, index))
	return cell
}

func (h *pickerHost) SizeForItem(index int, c *carousel.Carousel) (float64, float64) {
	if h.kind == kindDates {
		return float64(dateCellWidth), cellHeight
	}
	return componentCellWidth, cellHeight
}

func (h *pickerHost) SelectedIndex(c *carousel.Carousel) int {
	return h.p.selectedIndex(h.kind)
}

// UserDidSelectCell applies selections of the dates carousel, and of the day,
// month and year carousels only when the user scrolled them. Their own
// refreshes center a date the picker already holds, or one it has since
// moved past.
func (h *pickerHost) UserDidSelectCell(cell carousel.Cell, index int, c *carousel.Carousel) {
	if h.kind != kindDates && c.Phase() != carousel.PhaseSettling {
		return
	}
	h.p.didSelect(h.kind, index)
}

func (h *pickerHost) String() string {
	return fmt.Sprintf("%s picker", h.kind)
}
