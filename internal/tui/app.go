package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Screen is the screen currently on display
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
)

// Vertical chrome: header and footer lines
const ChromeHeight = 2

// ImageLauncher opens a product image outside the terminal
type ImageLauncher interface {
	Launch(url string) error
}

// Model is the root Bubble Tea model. It owns both screen reducers and
// routes every message to them; each reducer ignores what is not its own.
type Model struct {
	Screen Screen
	Ready  bool

	List   ListModel
	Detail DetailModel

	launcher ImageLauncher
	logger   *slog.Logger

	// UI Components
	search   textinput.Model
	picker   components.CategoryPicker
	spinner  spinner.Model
	showHelp bool
	status   string

	// List viewport
	cursor int
	offset int

	// Dimensions
	Width  int
	Height int
}

// NewModel creates a new application model.
// launcher may be nil, which disables opening images.
func NewModel(svc *catalog.Service, pageSize int, debounce time.Duration, launcher ImageLauncher, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.CharLimit = 100
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return Model{
		Screen:   ScreenList,
		List:     NewListModel(svc, pageSize, debounce, logger),
		Detail:   NewDetailModel(svc, logger),
		launcher: launcher,
		logger:   logger,
		search:   ti,
		picker:   components.NewCategoryPicker(),
		spinner:  sp,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.List.Init(), m.spinner.Tick)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.search.Width = msg.Width - 4
		m.picker.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case imageOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to open image", "error", msg.err)
			m.status = "Could not open image: " + msg.err.Error()
		} else {
			m.status = "Opened image"
		}
		return m, nil
	}

	m, cmd := m.dispatch(msg)

	// Cursor blink and other input messages
	var inputCmd tea.Cmd
	m.search, inputCmd = m.search.Update(msg)
	return m, tea.Batch(cmd, inputCmd)
}

// dispatch hands msg to both screen reducers
func (m Model) dispatch(msg tea.Msg) (Model, tea.Cmd) {
	var listCmd, detailCmd tea.Cmd
	m.List, listCmd = m.List.Update(msg)
	m.Detail, detailCmd = m.Detail.Update(msg)
	m.clampCursor()
	return m, tea.Batch(listCmd, detailCmd)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	m.status = ""

	if m.picker.IsVisible() {
		var cmd tea.Cmd
		var chosen bool
		m.picker, cmd, chosen = m.picker.Update(msg)
		if !chosen {
			return m, cmd
		}
		category, _ := m.picker.Selected()
		m.picker.Hide()
		m.cursor, m.offset = 0, 0
		return m.dispatch(CategorySelectedMsg{Category: category})
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	if m.Screen == ScreenDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// handleSearchKey edits the search bar; every edit is a query change
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.Blur()
		m.search.SetValue("")
		m.cursor, m.offset = 0, 0
		return m.dispatch(ClearSearchMsg{})
	case tea.KeyEnter:
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var inputCmd tea.Cmd
	m.search, inputCmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, inputCmd
	}

	m.cursor, m.offset = 0, 0
	m, cmd := m.dispatch(QueryChangedMsg{Query: m.search.Value()})
	return m, tea.Batch(inputCmd, cmd)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products := m.List.State.Products
	page := m.bodyHeight()

	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.showHelp = true

	case key.Matches(msg, Keys.Up):
		m.cursor--
	case key.Matches(msg, Keys.Down):
		m.cursor++
	case key.Matches(msg, Keys.PageUp):
		m.cursor -= page
	case key.Matches(msg, Keys.PageDown):
		m.cursor += page
	case key.Matches(msg, Keys.Home):
		m.cursor = 0
	case key.Matches(msg, Keys.End):
		m.cursor = len(products) - 1

	case key.Matches(msg, Keys.Enter):
		if m.cursor < len(products) {
			m.Screen = ScreenDetail
			return m.dispatch(OpenDetailMsg{ID: products[m.cursor].ID})
		}

	case key.Matches(msg, Keys.Search):
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, Keys.Escape):
		if m.List.State.Query != "" || m.List.State.SelectedCategory != nil {
			m.search.SetValue("")
			m.cursor, m.offset = 0, 0
			return m.dispatch(ClearSearchMsg{})
		}

	case key.Matches(msg, Keys.Category):
		m.picker.Show(m.List.State.Categories)
		return m, textinput.Blink

	case key.Matches(msg, Keys.Refresh):
		return m.dispatch(RefreshMsg{})

	case key.Matches(msg, Keys.Retry):
		return m.dispatch(RetryMsg{})
	}

	m.clampCursor()
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Quit):
		return m.quit()
	case key.Matches(msg, Keys.Help):
		m.showHelp = true
	case key.Matches(msg, Keys.Back):
		m.Detail.Stop()
		m.Screen = ScreenList
	case key.Matches(msg, Keys.Refresh):
		return m.dispatch(DetailRefreshMsg{})
	case key.Matches(msg, Keys.Retry):
		return m.dispatch(DetailRetryMsg{})
	case key.Matches(msg, Keys.Open):
		p := m.Detail.State.Product
		if p == nil || m.launcher == nil {
			return m, nil
		}
		url := p.Thumbnail
		if len(p.Images) > 0 {
			url = p.Images[0]
		}
		return m, openImageCmd(m.launcher, url)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.List.Stop()
	m.Detail.Stop()
	return m, tea.Quit
}

// clampCursor keeps the cursor on a product and inside the viewport
func (m *Model) clampCursor() {
	n := len(m.List.State.Products)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	height := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if height > 0 && m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
}

// bodyHeight is the number of product rows that fit on screen
func (m Model) bodyHeight() int {
	h := m.Height - ChromeHeight
	if m.showSearchBar() {
		h--
	}
	if m.List.State.Error != "" && len(m.List.State.Products) > 0 {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) showSearchBar() bool {
	return m.search.Focused() || m.List.State.Query != ""
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.picker.IsVisible() {
		return m.picker.View()
	}
	if m.Screen == ScreenDetail {
		return m.renderDetail()
	}
	return m.renderList()
}

func (m Model) renderList() string {
	state := m.List.State
	lines := []string{m.renderHeader(RenderBreadcrumb(state, m.Width/2), m.listStatus())}

	if m.showSearchBar() {
		lines = append(lines, m.search.View())
	}

	height := m.bodyHeight()
	switch {
	case len(state.Products) == 0 && state.Error != "":
		// Nothing cached to fall back on
		lines = append(lines, RenderErrorView(state.Error, m.Width, height))
	case len(state.Products) == 0 && state.Loading:
		lines = append(lines, lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading products..."))
	case len(state.Products) == 0:
		lines = append(lines, lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
			styles.DimStyle.Render("No products")))
	default:
		if state.Error != "" {
			lines = append(lines, RenderErrorBanner(state.Error, m.Width))
		}
		end := m.offset + height
		if end > len(state.Products) {
			end = len(state.Products)
		}
		rows := make([]string, 0, height)
		for i := m.offset; i < end; i++ {
			rows = append(rows, RenderProductRow(state.Products[i], i == m.cursor, m.Width))
		}
		lines = append(lines, lipgloss.NewStyle().Height(height).Render(strings.Join(rows, "\n")))
	}

	lines = append(lines, m.renderFooter("/ search  c category  r refresh  enter details"))
	return strings.Join(lines, "\n")
}

// listStatus describes the running task, if any
func (m Model) listStatus() string {
	state := m.List.State
	switch {
	case state.Refreshing && m.List.Progress.Total > 0:
		p := m.List.Progress
		return m.spinner.View() + styles.DimStyle.Render(fmt.Sprintf(" Refreshing %d/%d", p.Loaded, p.Total))
	case state.Refreshing:
		return m.spinner.View() + styles.DimStyle.Render(" Refreshing...")
	case state.Loading:
		return m.spinner.View() + styles.DimStyle.Render(" Loading...")
	default:
		return styles.DimStyle.Render(fmt.Sprintf("%d products", len(state.Products)))
	}
}

func (m Model) renderDetail() string {
	state := m.Detail.State
	status := ""
	if state.Loading {
		status = m.spinner.View() + styles.DimStyle.Render(" Loading...")
	}
	header := m.renderHeader(styles.AccentStyle.Render("Shelf > Product"), status)
	footer := m.renderFooter("h back  r refresh  t retry  o open image")
	height := m.Height - ChromeHeight

	var body string
	switch {
	case state.Product == nil && state.Error != "":
		body = RenderErrorView(state.Error, m.Width, height)
	case state.Product == nil:
		body = lipgloss.Place(m.Width, height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading product...")
	default:
		body = RenderProductDetail(state.Product, m.Width)
		if state.Error != "" {
			body = RenderErrorBanner(state.Error, m.Width) + "\n" + body
		}
		body = lipgloss.NewStyle().Height(height).MaxHeight(height).Render(body)
	}

	return header + "\n" + body + "\n" + footer
}

// renderHeader lays out left and right aligned header content
func (m Model) renderHeader(left, right string) string {
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.HeaderStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter(hints string) string {
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")
	left := styles.DimStyle.Render(hints)
	if m.status != "" {
		left = styles.AccentStyle.Render(m.status)
	}
	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
LIST                            DETAIL
  j/k        Up/down              h/Esc  Back to list
  g/G        First/last item      r      Refresh
  PgUp/PgDn  Scroll page          t      Retry
  Enter      Product details      o      Open image
                                OTHER
SEARCH & FILTER                   q      Quit
  /          Search               ?      This help
  Esc        Clear search
  c          Pick category
  r          Refresh catalog
  t          Retry

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
