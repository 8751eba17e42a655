package tui

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
)

// DefaultSearchDebounce is the quiet period before a search starts
const DefaultSearchDebounce = 300 * time.Millisecond

// ListState is everything the list screen renders.
// Products stays populated while Loading or Error are set.
type ListState struct {
	Products         []*domain.Product
	Categories       []string
	SelectedCategory *string
	Query            string
	Loading          bool
	Refreshing       bool
	Error            string
}

// RefreshProgress is the page progress of a running full refresh
type RefreshProgress struct {
	Loaded int
	Total  int
}

// ListModel reduces list events and task results into ListState.
//
// One fetch task and one search task may be alive at a time. Starting
// either cancels the other as well as its own predecessor, so only the
// latest user intent writes Products.
type ListModel struct {
	State    ListState
	Progress RefreshProgress

	svc      *catalog.Service
	logger   *slog.Logger
	pageSize int
	debounce time.Duration

	tasks      taskCounter
	fetch      taskHandle
	search     taskHandle
	categories taskHandle
}

// NewListModel creates the list screen reducer
func NewListModel(svc *catalog.Service, pageSize int, debounce time.Duration, logger *slog.Logger) ListModel {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce < 0 {
		debounce = DefaultSearchDebounce
	}
	return ListModel{
		svc:      svc,
		logger:   logger,
		pageSize: pageSize,
		debounce: debounce,
	}
}

// Init starts the screen
func (m ListModel) Init() tea.Cmd {
	return func() tea.Msg { return LoadMsg{} }
}

// Update handles list events and task results
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadMsg:
		cmd := tea.Batch(m.startFetch(m.scopedQuery()), m.startCategories())
		return m, cmd

	case QueryChangedMsg:
		m.State.Query = msg.Query
		cmd := m.startSearch(m.debounce)
		return m, cmd

	case CategorySelectedMsg:
		m.State.SelectedCategory = msg.Category
		cmd := m.startFetch(m.scopedQuery())
		return m, cmd

	case RefreshMsg:
		cmd := m.startRefresh()
		return m, cmd

	case ClearSearchMsg:
		m.State.Query = ""
		m.State.SelectedCategory = nil
		cmd := m.startFetch(m.scopedQuery())
		return m, cmd

	case RetryMsg:
		cmd := m.retry()
		return m, cmd

	case productsMsg:
		return m.handleProducts(msg)

	case categoriesMsg:
		if !m.categories.owns(msg.task) {
			return m, nil
		}
		if !msg.done {
			m.State.Categories = msg.categories
			return m, msg.next
		}
		if msg.err != nil {
			m.logger.Warn("Category refresh failed", "error", msg.err)
		}
		m.categories.stop()
		return m, nil

	case refreshProgressMsg:
		return m.handleRefreshProgress(msg)
	}

	return m, nil
}

// Stop cancels every in-flight task
func (m *ListModel) Stop() {
	m.fetch.stop()
	m.search.stop()
	m.categories.stop()
}

func (m ListModel) handleProducts(msg productsMsg) (ListModel, tea.Cmd) {
	var h *taskHandle
	switch {
	case m.fetch.owns(msg.task):
		h = &m.fetch
	case m.search.owns(msg.task):
		h = &m.search
	default:
		return m, nil
	}

	if !msg.done {
		m.State.Products = msg.products
		return m, msg.next
	}

	m.State.Loading = false
	if msg.err != nil {
		m.State.Error = domain.UserMessage(msg.err)
		m.logger.Warn("Product read failed", "query", m.State.Query, "error", msg.err)
	}
	h.stop()
	return m, nil
}

func (m ListModel) handleRefreshProgress(msg refreshProgressMsg) (ListModel, tea.Cmd) {
	if !m.fetch.owns(msg.task) {
		return m, nil
	}

	if !msg.done {
		m.Progress = RefreshProgress{Loaded: msg.loaded, Total: msg.total}
		return m, msg.next
	}

	m.fetch.stop()
	m.State.Refreshing = false
	m.Progress = RefreshProgress{}
	if msg.err != nil {
		m.State.Loading = false
		m.State.Error = domain.UserMessage(msg.err)
		m.logger.Warn("Full refresh failed", "error", msg.err)
		return m, nil
	}

	m.logger.Info("Full refresh complete", "products", msg.count)
	cmd := tea.Batch(m.retry(), m.startCategories())
	return m, cmd
}

// scopedQuery is the default read: the selected category, else all
func (m ListModel) scopedQuery() domain.Query {
	if m.State.SelectedCategory != nil {
		return domain.ProductsInCategory(*m.State.SelectedCategory)
	}
	return domain.AllProducts(m.pageSize)
}

// retry re-issues the active read: search, then category, then default
func (m *ListModel) retry() tea.Cmd {
	if strings.TrimSpace(m.State.Query) != "" {
		return m.startSearch(0)
	}
	return m.startFetch(m.scopedQuery())
}

// begin resets the projection for a new products task
func (m *ListModel) begin() {
	m.State.Loading = true
	m.State.Refreshing = false
	m.State.Error = ""
	m.Progress = RefreshProgress{}
}

func (m *ListModel) startFetch(q domain.Query) tea.Cmd {
	m.search.stop()
	ctx, id := m.tasks.start(&m.fetch)
	m.begin()
	return streamProductsCmd(ctx, m.svc, id, 0, q)
}

// startSearch debounces a search for the current query.
// A blank query resolves to an empty result; ClearSearch restores the list.
func (m *ListModel) startSearch(delay time.Duration) tea.Cmd {
	m.fetch.stop()
	ctx, id := m.tasks.start(&m.search)
	m.begin()

	q := domain.SearchProducts(strings.TrimSpace(m.State.Query))
	return streamProductsCmd(ctx, m.svc, id, delay, q)
}

func (m *ListModel) startRefresh() tea.Cmd {
	m.search.stop()
	ctx, id := m.tasks.start(&m.fetch)
	m.begin()
	m.State.Refreshing = true
	return refreshAllCmd(ctx, m.svc, id)
}

func (m *ListModel) startCategories() tea.Cmd {
	ctx, id := m.tasks.start(&m.categories)
	return loadCategoriesCmd(ctx, m.svc, id)
}
