package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
)

// DetailState is everything the detail screen renders
type DetailState struct {
	Product   *domain.Product
	Loading   bool
	Error     string
	ProductID int // last requested, reused by retry
}

// DetailModel reduces detail events into DetailState.
// A new load cancels the one in flight.
type DetailModel struct {
	State DetailState

	svc    *catalog.Service
	logger *slog.Logger

	tasks taskCounter
	load  taskHandle
}

// NewDetailModel creates the detail screen reducer
func NewDetailModel(svc *catalog.Service, logger *slog.Logger) DetailModel {
	if logger == nil {
		logger = slog.Default()
	}
	return DetailModel{svc: svc, logger: logger}
}

// Update handles detail events and task results
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case OpenDetailMsg:
		if msg.ID != m.State.ProductID {
			m.State.Product = nil
		}
		m.State.ProductID = msg.ID
		cmd := m.start()
		return m, cmd

	case DetailRefreshMsg, DetailRetryMsg:
		if m.State.ProductID == 0 {
			return m, nil
		}
		cmd := m.start()
		return m, cmd

	case detailLoadedMsg:
		if !m.load.owns(msg.task) {
			return m, nil
		}
		m.load.stop()
		m.State.Loading = false
		if msg.err != nil {
			m.State.Error = domain.UserMessage(msg.err)
			m.logger.Warn("Product detail failed", "id", m.State.ProductID, "error", msg.err)
			return m, nil
		}
		m.State.Product = msg.product
	}
	return m, nil
}

// Stop cancels the in-flight load
func (m *DetailModel) Stop() {
	m.load.stop()
}

func (m *DetailModel) start() tea.Cmd {
	ctx, id := m.tasks.start(&m.load)
	m.State.Loading = true
	m.State.Error = ""
	return loadDetailCmd(ctx, m.svc, id, m.State.ProductID)
}
