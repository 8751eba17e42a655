package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
)

// Command factories for async operations.
//
// Long-running reads are delivered one message at a time: each message
// embeds a continuation command that reads the next value, so the reducer
// stops a task simply by not running its continuation.

// waitDebounce blocks for delay or until ctx is done.
// Reports whether the task should still run.
func waitDebounce(ctx context.Context, delay time.Duration) bool {
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return false
		}
	}
	return ctx.Err() == nil
}

// streamProductsCmd runs a cache-first read after an optional delay
func streamProductsCmd(
	ctx context.Context,
	svc *catalog.Service,
	task int,
	delay time.Duration,
	q domain.Query,
) tea.Cmd {
	return func() tea.Msg {
		if !waitDebounce(ctx, delay) {
			return nil
		}
		return readProducts(task, svc.Stream(ctx, q))
	}
}

// readProducts reads one emission and creates a productsMsg
// with the continuation command embedded
func readProducts(task int, ch <-chan catalog.Emission) tea.Msg {
	e, ok := <-ch
	if !ok {
		// Stream stopped by cancellation
		return nil
	}

	msg := productsMsg{
		task:     task,
		products: e.Products,
		done:     e.Done,
		err:      e.Err,
	}
	if !e.Done {
		msg.next = func() tea.Msg {
			return readProducts(task, ch)
		}
	}
	return msg
}

// loadCategoriesCmd streams the stored categories, then the merged list
func loadCategoriesCmd(ctx context.Context, svc *catalog.Service, task int) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan categoriesMsg)
		go func() {
			defer close(ch)
			send := func(m categoriesMsg) {
				select {
				case ch <- m:
				case <-ctx.Done():
				}
			}
			err := svc.Categories(ctx, func(c []string) {
				send(categoriesMsg{task: task, categories: c})
			})
			if ctx.Err() == nil {
				send(categoriesMsg{task: task, done: true, err: err})
			}
		}()
		return readCategories(ch)
	}
}

func readCategories(ch <-chan categoriesMsg) tea.Msg {
	msg, ok := <-ch
	if !ok {
		return nil
	}
	if !msg.done {
		msg.next = func() tea.Msg {
			return readCategories(ch)
		}
	}
	return msg
}

// refreshAllCmd runs a full refresh, reporting progress per page
func refreshAllCmd(ctx context.Context, svc *catalog.Service, task int) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan refreshProgressMsg)
		go func() {
			defer close(ch)
			send := func(m refreshProgressMsg) {
				select {
				case ch <- m:
				case <-ctx.Done():
				}
			}
			count, err := svc.RefreshAll(ctx, func(loaded, total int) {
				send(refreshProgressMsg{task: task, loaded: loaded, total: total})
			})
			if ctx.Err() == nil {
				send(refreshProgressMsg{task: task, done: true, count: count, err: err})
			}
		}()
		return readRefreshProgress(ch)
	}
}

func readRefreshProgress(ch <-chan refreshProgressMsg) tea.Msg {
	msg, ok := <-ch
	if !ok {
		return nil
	}
	if !msg.done {
		msg.next = func() tea.Msg {
			return readRefreshProgress(ch)
		}
	}
	return msg
}

// loadDetailCmd reads one product through the cache
func loadDetailCmd(ctx context.Context, svc *catalog.Service, task, id int) tea.Cmd {
	return func() tea.Msg {
		p, err := svc.Product(ctx, id)
		if ctx.Err() != nil {
			return nil
		}
		return detailLoadedMsg{task: task, product: p, err: err}
	}
}

// openImageCmd hands url to the external viewer
func openImageCmd(launcher ImageLauncher, url string) tea.Cmd {
	return func() tea.Msg {
		return imageOpenedMsg{err: launcher.Launch(url)}
	}
}
