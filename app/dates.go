package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"infinite-carousel/log"
	"infinite-carousel/ui/debounce"
	"infinite-carousel/ui/fuzzy"

	"github.com/fsnotify/fsnotify"
)

// DateLayout is the format of dates in the dates file and on the clipboard.
const DateLayout = "2006-01-02"

// firstYear is the first year offered by the year carousel.
const firstYear = 1970

var monthNames = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var monthFullNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// DefaultDates are shown when no dates file is configured.
func DefaultDates() []time.Time {
	return []time.Time{
		date(1986, 2, 5),
		date(1972, 10, 17),
		date(1994, 4, 11),
		date(2005, 8, 21),
		date(1990, 10, 30),
		date(2012, 9, 29),
	}
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in month of year.
func daysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDates reads one date per line. Blank lines and lines starting with #
// are skipped. Bad lines are reported together; the good ones are still
// returned.
func ParseDates(r io.Reader) ([]time.Time, error) {
	var dates []time.Time
	var errs []error

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		t, err := time.Parse(DateLayout, text)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: invalid date %q", line, text))
			continue
		}
		dates = append(dates, t)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("failed to read dates: %w", err))
	}
	return dates, errors.Join(errs...)
}

// LoadDates reads the dates file at path.
func LoadDates(path string) ([]time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dates file: %w", err)
	}
	defer f.Close()
	return ParseDates(f)
}

// ParseQuery turns what the user typed into a date. It accepts YYYY-MM-DD or
// a day, a month and a four digit year in any order, such as "21 aug 2005",
// "31/12/1999", "feb 1990" or "sept". Numbers fill the day before the month.
// Missing parts default to the first day, January and the current year.
func ParseQuery(query string, now time.Time) (time.Time, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(DateLayout, query); err == nil {
		return validDate(t.Year(), int(t.Month()), t.Day(), now)
	}

	day, month, year := 0, 0, 0
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '.'
	})
	for _, field := range fields {
		if n, err := strconv.Atoi(field); err == nil {
			switch {
			case len(field) == 4 && year == 0:
				year = n
			case day == 0 && n >= 1 && n <= 31:
				day = n
			case month == 0 && n >= 1 && n <= 12:
				month = n
			default:
				return time.Time{}, fmt.Errorf("unexpected number %q", field)
			}
			continue
		}
		if month != 0 {
			return time.Time{}, fmt.Errorf("more than one month in %q", query)
		}
		index, ok := fuzzy.Best(field, monthFullNames, 0.3)
		if !ok {
			return time.Time{}, fmt.Errorf("unknown month %q", field)
		}
		month = index + 1
	}

	if day == 0 {
		day = 1
	}
	if month == 0 {
		month = 1
	}
	if year == 0 {
		year = now.Year()
	}
	return validDate(year, month, day, now)
}

func validDate(year, month, day int, now time.Time) (time.Time, error) {
	if year < firstYear || year > now.Year() {
		return time.Time{}, fmt.Errorf("year %d is outside %d-%d", year, firstYear, now.Year())
	}
	if day > daysIn(month, year) {
		return time.Time{}, fmt.Errorf("%s %d has no day %d", monthFullNames[month-1], year, day)
	}
	return date(year, month, day), nil
}

// datesWatcher calls onChange once a burst of writes to a dates file has
// settled. The file's directory is watched so that editors replacing the file
// are noticed too.
type datesWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce *debounce.Debouncer
	onChange func()

	closeOnce sync.Once
	done      chan struct{}
}

func watchDates(path string, settle time.Duration, onChange func()) (*datesWatcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dates file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &datesWatcher{
		watcher:  watcher,
		path:     path,
		debounce: debounce.New(settle),
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *datesWatcher) run() {
	defer close(w.done)
	everyN := log.NewEvery(30 * time.Second)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.debounce.Trigger(w.onChange)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if everyN.ShouldLog() {
				log.WarningLog.Printf("dates watcher error: %v", err)
			}
		}
	}
}

// Close stops watching and drops a pending change notification.
func (w *datesWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.debounce.Cancel()
		err = w.watcher.Close()
		<-w.done
	})
	return err
}
