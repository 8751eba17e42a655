package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// AllCategoriesLabel is the picker row that clears the category filter
const AllCategoriesLabel = "All categories"

// CategoryPicker is the category selection modal with fuzzy filtering
type CategoryPicker struct {
	input      textinput.Model
	categories []string
	matches    []string // filtered categories in display order
	cursor     int
	visible    bool
	width      int
	height     int
}

// NewCategoryPicker creates a new category picker
func NewCategoryPicker() CategoryPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter categories..."
	ti.CharLimit = 60
	ti.Width = 30
	ti.Prompt = "# "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return CategoryPicker{input: ti}
}

// Show makes the picker visible with the given categories
func (p *CategoryPicker) Show(categories []string) {
	p.visible = true
	p.categories = categories
	p.input.SetValue("")
	p.input.Focus()
	p.applyFilter()
}

// Hide hides the picker
func (p *CategoryPicker) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns true if the picker is visible
func (p CategoryPicker) IsVisible() bool {
	return p.visible
}

// SetSize updates the component dimensions
func (p *CategoryPicker) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Selected returns the highlighted category.
// ok is false when nothing matches; a nil category means all categories.
func (p CategoryPicker) Selected() (category *string, ok bool) {
	rows := p.rows()
	if p.cursor >= len(rows) {
		return nil, false
	}
	if p.input.Value() == "" && p.cursor == 0 {
		return nil, true
	}
	c := rows[p.cursor]
	return &c, true
}

// rows is the "all" entry (unfiltered only) followed by the matches
func (p CategoryPicker) rows() []string {
	if p.input.Value() == "" {
		return append([]string{AllCategoriesLabel}, p.matches...)
	}
	return p.matches
}

func (p *CategoryPicker) applyFilter() {
	query := p.input.Value()
	p.cursor = 0

	if query == "" {
		p.matches = p.categories
		return
	}

	matches := fuzzy.Find(strings.ToLower(query), p.categories)
	p.matches = make([]string, len(matches))
	for i, match := range matches {
		p.matches[i] = match.Str
	}
}

// Update handles messages. chosen is true when the user confirmed a row.
func (p CategoryPicker) Update(msg tea.Msg) (picker CategoryPicker, cmd tea.Cmd, chosen bool) {
	if !p.visible {
		return p, nil, false
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.Hide()
			return p, nil, false

		case "enter":
			_, ok := p.Selected()
			return p, nil, ok

		case "down", "ctrl+n":
			if p.cursor < len(p.rows())-1 {
				p.cursor++
			}
			return p, nil, false

		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, false
		}
	}

	before := p.input.Value()
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.applyFilter()
	}
	return p, cmd, false
}

// View renders the component
func (p CategoryPicker) View() string {
	if !p.visible {
		return ""
	}

	modalWidth := p.width / 2
	if modalWidth < 36 {
		modalWidth = 36
	}
	maxRows := 12

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Category"))
	b.WriteString("\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	rows := p.rows()
	if len(rows) == 0 {
		b.WriteString(styles.DimStyle.Render("No matches found"))
	}

	// Keep the cursor inside the visible window
	start := 0
	if p.cursor >= maxRows {
		start = p.cursor - maxRows + 1
	}
	end := start + maxRows
	if end > len(rows) {
		end = len(rows)
	}

	for i := start; i < end; i++ {
		style := styles.NormalItemStyle
		if i == p.cursor {
			style = styles.SelectedItemStyle
		}
		b.WriteString(style.Render(styles.Truncate(rows[i], modalWidth-8)))
		b.WriteString("\n")
	}
	if len(rows) > end {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(rows)-end)))
	}

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(b.String())

	return lipgloss.Place(p.width, p.height, lipgloss.Center, lipgloss.Center, modal)
}
