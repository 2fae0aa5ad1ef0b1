package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"infinite-carousel/carousel"
	"infinite-carousel/config"
	"infinite-carousel/keys"
	"infinite-carousel/log"
	"infinite-carousel/mainloop"
	"infinite-carousel/ui"
	"infinite-carousel/ui/overlay"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Run is the main entrypoint into the application.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Carousel work is forwarded to the program so it runs inside Update.
	var p *tea.Program
	loop := mainloop.New(mainloop.WithExecutor(func(task func()) {
		p.Send(dispatchMsg(task))
	}))

	h := newHome(ctx, loop, cfg, time.Now)
	defer h.Close()
	if err := h.startWatching(); err != nil {
		log.ErrorLog.Printf("failed to watch dates file: %v", err)
	}

	p = tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Drags and wheel
		tea.WithContext(ctx),
	)
	go loop.Run(ctx)

	_, err := p.Run()
	return err
}

type state int

const (
	stateDefault state = iota
	// stateHelp is the state when the help screen is displayed.
	stateHelp
	// stateGoto is the state when the user is typing a date to jump to.
	stateGoto
)

const (
	// gutterWidth is the column left of each carousel holding the focus
	// marker.
	gutterWidth = 2
	// Rows above the carousels: title and a blank line.
	headerRows = 2
	// statusRow is the line below the three component carousels.
	statusRow = headerRows + 3*cellHeight
	// datesRow is the first line of the dates carousel.
	datesRow = statusRow + 2
	// footerRows are the help line and the error line.
	footerRows = 2

	// datesSettle coalesces bursts of writes to the dates file.
	datesSettle = 100 * time.Millisecond
)

var clipboardWrite = clipboard.WriteAll

type home struct {
	ctx context.Context
	cfg *config.Config

	loop   *mainloop.Loop
	picker *picker
	views  [numKinds]*ui.CarouselView
	focus  pickerKind

	state  state
	loaded bool

	width, height int
	// mouseTarget is the view that took the last mouse press, or -1.
	mouseTarget pickerKind

	gotoOverlay *overlay.TextInputOverlay
	helpContent string
	help        help.Model
	spinner     spinner.Model
	errBox      *ui.ErrBox
	status      string

	watcher     *datesWatcher
	datesSettle time.Duration
	// pending collects commands produced by dispatched tasks.
	pending []tea.Cmd

	copy func(string) error
	now  func() time.Time
}

func newHome(ctx context.Context, loop *mainloop.Loop, cfg *config.Config, now func() time.Time) *home {
	h := &home{
		ctx:         ctx,
		cfg:         cfg,
		loop:        loop,
		mouseTarget: -1,
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		errBox:      ui.NewErrBox(),
		datesSettle: datesSettle,
		copy:        clipboardWrite,
		now:         now,
	}

	dates := DefaultDates()
	if cfg.DatesFile != "" {
		loaded, err := LoadDates(cfg.DatesFile)
		if err != nil {
			log.ErrorLog.Printf("failed to load dates: %v", err)
			h.errBox.SetError(err)
		}
		if len(loaded) > 0 || err == nil {
			dates = loaded
		}
	}
	h.picker = newPicker(now, dates)

	for kind := kindDay; kind < numKinds; kind++ {
		opts := []carousel.Option{
			carousel.WithName(kind.String()),
			carousel.WithTiming(cfg.Timing()),
			carousel.WithPaging(cfg.Paging),
			carousel.WithContext(ctx),
		}
		factory, reuseID := ui.NewLabelCell, componentCellID
		switch kind {
		case kindDay:
			opts = append(opts, carousel.WithSelectionMode(carousel.FollowSelectedIndex))
		case kindDates:
			opts = append(opts, carousel.WithDirection(carousel.Vertical))
			factory, reuseID = ui.NewBoxCell, dateCellID
		}

		c := carousel.New(h.picker.host(kind), loop, opts...)
		c.Register(factory, reuseID)
		h.picker.bind(kind, c)
		h.views[kind] = ui.NewCarouselView(c, loop)
	}
	h.views[h.focus].SetFocused(true)
	return h
}

// startWatching reloads the dates carousel whenever the dates file changes.
func (m *home) startWatching() error {
	if m.cfg.DatesFile == "" || !m.cfg.WatchDatesFile {
		return nil
	}
	w, err := watchDates(m.cfg.DatesFile, m.datesSettle, func() {
		m.loop.Dispatch(m.reloadDates)
	})
	if err != nil {
		return err
	}
	m.watcher = w
	return nil
}

// Close stops the watcher and every carousel.
func (m *home) Close() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.WarningLog.Printf("failed to close dates watcher: %v", err)
		}
		m.watcher = nil
	}
	for _, v := range m.views {
		v.Close()
		v.Carousel().Close()
	}
}

func (m *home) carousel(kind pickerKind) *carousel.Carousel {
	return m.views[kind].Carousel()
}

// busy reports whether any carousel is still settling.
func (m *home) busy() bool {
	for _, v := range m.views {
		if v.Carousel().Busy() {
			return true
		}
	}
	return false
}

// updateHandleWindowSizeEvent lays the carousels out for the new terminal
// size. The first call also loads their data.
func (m *home) updateHandleWindowSizeEvent(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.help.Width = msg.Width
	m.errBox.SetSize(msg.Width, 1)

	contentWidth := max(msg.Width-gutterWidth, 0)
	for kind := kindDay; kind < kindDates; kind++ {
		m.views[kind].SetSize(contentWidth, cellHeight)
	}
	m.views[kindDates].SetSize(min(dateCellWidth, contentWidth), m.datesHeight())

	if m.gotoOverlay != nil {
		m.gotoOverlay.SetWidth(min(40, msg.Width))
	}

	if !m.loaded {
		m.loaded = true
		m.reloadAll()
	}
}

func (m *home) datesHeight() int {
	return max(m.height-datesRow-footerRows, cellHeight)
}

// reloadAll re-reads every carousel's data.
func (m *home) reloadAll() {
	for _, v := range m.views {
		v.Carousel().ReloadData(nil)
	}
}

// reloadDates re-reads the dates file. A file that cannot be read at all
// keeps the current dates.
func (m *home) reloadDates() {
	if m.cfg.DatesFile == "" {
		return
	}
	dates, err := LoadDates(m.cfg.DatesFile)
	if err != nil {
		m.pending = append(m.pending, m.handleError(err))
		if len(dates) == 0 {
			return
		}
	}
	log.InfoLog.Printf("loaded %d dates from %s", len(dates), m.cfg.DatesFile)
	m.picker.setDates(dates)
}

func (m *home) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dispatchMsg:
		msg()
		return m, m.takePending()
	case hideErrMsg:
		m.errBox.Clear()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.updateHandleWindowSizeEvent(msg)
		return m, nil
	case tea.MouseMsg:
		if m.state == stateDefault {
			m.handleMouse(msg)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m *home) takePending() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := m.pending
	m.pending = nil
	return tea.Batch(cmds...)
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateHelp:
		return m.handleHelpState(msg)
	case stateGoto:
		return m.handleGotoState(msg)
	}

	name, ok := keys.Lookup(msg.String())
	if !ok {
		return m, nil
	}

	switch name {
	case keys.KeyQuit:
		return m, tea.Quit
	case keys.KeyTab:
		m.setFocus((m.focus + 1) % numKinds)
	case keys.KeyShiftTab:
		m.setFocus((m.focus + numKinds - 1) % numKinds)
	case keys.KeyToday:
		m.picker.setDate(m.now())
		m.status = ""
	case keys.KeyCopy:
		text := m.picker.selectedDate().Format(DateLayout)
		if err := m.copy(text); err != nil {
			return m, m.handleError(fmt.Errorf("failed to copy date: %w", err))
		}
		m.status = "copied " + text
	case keys.KeyGoto:
		m.showGoto()
	case keys.KeyReload:
		m.reloadDates()
		m.reloadAll()
		return m, m.takePending()
	case keys.KeyHelp:
		return m.showHelpScreen(helpTypeGeneral{})
	default:
		m.views[m.focus].HandleKey(msg)
	}
	return m, nil
}

func (m *home) setFocus(kind pickerKind) {
	m.views[m.focus].SetFocused(false)
	m.focus = kind
	m.views[m.focus].SetFocused(true)
}

func (m *home) showGoto() {
	o := overlay.NewTextInputOverlay("Go to date", "2005-08-21, 21 aug 2005, sept")
	o.SetWidth(min(40, m.width))
	o.OnSubmit = func(value string) {
		t, err := ParseQuery(value, m.now())
		if err != nil {
			m.pending = append(m.pending, m.handleError(err))
			return
		}
		m.status = ""
		m.picker.setDate(t)
	}
	m.gotoOverlay = o
	m.state = stateGoto
}

func (m *home) handleGotoState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gotoOverlay.HandleKeyPress(msg) {
		m.gotoOverlay = nil
		m.state = stateDefault
		return m, m.takePending()
	}
	return m, nil
}

// handleMouse routes a mouse event to the carousel under it. Motion and
// release go to the carousel that took the press.
func (m *home) handleMouse(msg tea.MouseMsg) {
	if m.mouseTarget >= 0 && (msg.Action == tea.MouseActionMotion || msg.Action == tea.MouseActionRelease) {
		x, y := m.relative(m.mouseTarget, msg.X, msg.Y)
		m.views[m.mouseTarget].HandleMouse(msg, x, y)
		if msg.Action == tea.MouseActionRelease {
			m.mouseTarget = -1
		}
		return
	}

	kind, ok := m.hitTest(msg.X, msg.Y)
	if !ok {
		return
	}
	x, y := m.relative(kind, msg.X, msg.Y)
	if !m.views[kind].HandleMouse(msg, x, y) {
		return
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.mouseTarget = kind
		m.setFocus(kind)
	}
}

func (m *home) top(kind pickerKind) int {
	if kind == kindDates {
		return datesRow
	}
	return headerRows + int(kind)*cellHeight
}

func (m *home) relative(kind pickerKind, x, y int) (int, int) {
	return x - gutterWidth, y - m.top(kind)
}

func (m *home) hitTest(x, y int) (pickerKind, bool) {
	for kind := kindDay; kind < numKinds; kind++ {
		rx, ry := m.relative(kind, x, y)
		w, h := m.views[kind].Size()
		if rx >= 0 && rx < w && ry >= 0 && ry < h {
			return kind, true
		}
	}
	return 0, false
}

// handleError shows err and returns a command that clears it after 3 seconds.
func (m *home) handleError(err error) tea.Cmd {
	log.ErrorLog.Printf("%v", err)
	m.errBox.SetError(err)
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
		case <-time.After(3 * time.Second):
		}
		return hideErrMsg{}
	}
}

// dispatchMsg carries a UI task forwarded by the main loop.
type dispatchMsg func()

// hideErrMsg implements tea.Msg and clears the error text from the screen.
type hideErrMsg struct{}

var (
	appTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#aaaaaa"})
)

// gutter is the focus marker column for a block of height lines.
func gutter(focused bool, height int) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(" ", gutterWidth)
	}
	if focused && height > 0 {
		lines[height/2] = gutterStyle.Render("▸ ")
	}
	return strings.Join(lines, "\n")
}

func (m *home) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.state {
	case stateGoto:
		return overlay.PlaceOverlay(m.width, m.height, m.gotoOverlay.Render())
	case stateHelp:
		return overlay.PlaceOverlay(m.width, m.height, m.helpContent)
	}

	title := appTitleStyle.Render("Infinite Carousel")
	if m.busy() {
		title += " " + m.spinner.View()
	}

	rows := []string{title, ""}
	for kind := kindDay; kind < numKinds; kind++ {
		v := m.views[kind]
		_, h := v.Size()
		if kind == kindDates {
			rows = append(rows, m.statusLine(), "")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, gutter(v.Focused(), h), v.String()))
	}
	rows = append(rows, m.help.View(keys.HelpMap{}), m.errBox.String())

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *home) statusLine() string {
	selected := m.picker.selectedDate()
	line := fmt.Sprintf("Selected: %s (%s)", selected.Format(DateLayout), selected.Weekday())
	if m.status != "" {
		line += "  " + m.status
	}
	return statusStyle.Render(line)
}
