package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
)

// Events accepted by the list screen

// LoadMsg starts the list screen: default fetch plus categories
type LoadMsg struct{}

// QueryChangedMsg carries the search bar contents after an edit
type QueryChangedMsg struct {
	Query string
}

// CategorySelectedMsg selects a category; nil means all categories
type CategorySelectedMsg struct {
	Category *string
}

// RefreshMsg forces a full network refresh before re-reading the view
type RefreshMsg struct{}

// ClearSearchMsg resets the query and returns to the unscoped list
type ClearSearchMsg struct{}

// RetryMsg re-issues whichever read was last active
type RetryMsg struct{}

// Events accepted by the detail screen

// OpenDetailMsg loads the product with the given ID
type OpenDetailMsg struct {
	ID int
}

// DetailRefreshMsg reloads the current product
type DetailRefreshMsg struct{}

// DetailRetryMsg retries the last requested product
type DetailRetryMsg struct{}

// Task results. Each carries the id of the task that produced it so the
// owning reducer can drop output from superseded tasks.

// productsMsg is one emission of a list read.
// next continues reading the stream; nil once Done is set.
type productsMsg struct {
	task     int
	products []*domain.Product
	done     bool
	err      error
	next     tea.Cmd
}

// categoriesMsg is one emission of the categories read
type categoriesMsg struct {
	task       int
	categories []string
	done       bool
	err        error
	next       tea.Cmd
}

// refreshProgressMsg reports full refresh progress, then completion
type refreshProgressMsg struct {
	task   int
	loaded int
	total  int
	done   bool
	count  int
	err    error
	next   tea.Cmd
}

// detailLoadedMsg is the result of a detail read
type detailLoadedMsg struct {
	task    int
	product *domain.Product
	err     error
}

// imageOpenedMsg reports the result of launching the image viewer
type imageOpenedMsg struct {
	err error
}
