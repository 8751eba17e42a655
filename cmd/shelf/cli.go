package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                        \r"

// listQuery picks the query printed by --list
func listQuery(opts options, pageSize int) domain.Query {
	switch {
	case opts.search != "":
		return domain.SearchProducts(opts.search)
	case opts.category != "":
		return domain.ProductsInCategory(opts.category)
	default:
		return domain.AllProducts(pageSize)
	}
}

// printCatalog prints the final snapshot of a cache-first read.
// A failed network refresh still prints the cached rows and warns on errOut.
func printCatalog(ctx context.Context, svc *catalog.Service, q domain.Query, out, errOut io.Writer) error {
	var last []*domain.Product
	emitted := false
	err := svc.Fetch(ctx, q, func(products []*domain.Product) {
		last = products
		emitted = true
	})
	if err != nil {
		if !emitted {
			return fmt.Errorf("%s", domain.UserMessage(err))
		}
		fmt.Fprintf(errOut, "warning: showing cached products: %s\n", domain.UserMessage(err))
	}

	_, err = fmt.Fprintln(out, renderTable(last))
	return err
}

// renderTable lays out products as a plain text table
func renderTable(products []*domain.Product) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("ID", "TITLE", "CATEGORY", "PRICE", "RATING", "STOCK")

	for _, p := range products {
		price := p.FormattedPrice()
		if p.HasDiscount() {
			price += " (was " + p.FormattedListPrice() + ")"
		}
		t.Row(
			strconv.Itoa(p.ID),
			styles.Truncate(p.Title, 40),
			p.Category,
			price,
			p.FormattedRating(),
			p.StockLabel(),
		)
	}
	return t.Render()
}

// refreshWithProgress runs a full refresh with a spinner and page counter
func refreshWithProgress(ctx context.Context, svc *catalog.Service) error {
	type result struct {
		count int
		err   error
	}
	resultCh := make(chan result, 1)
	progressCh := make(chan [2]int, 1)

	// Start refresh in background
	go func() {
		count, err := svc.RefreshAll(ctx, func(loaded, total int) {
			select {
			case progressCh <- [2]int{loaded, total}:
			default:
			}
		})
		resultCh <- result{count, err}
	}()

	frame := 0
	status := "Refreshing catalog..."
	fmt.Printf("\r%s %s", styles.SpinnerFrames[frame], status)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case res := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if res.err != nil {
				return fmt.Errorf("refresh failed: %s", domain.UserMessage(res.err))
			}
			fmt.Printf("✓ Cached %d products\n", res.count)
			return nil

		case p := <-progressCh:
			status = fmt.Sprintf("Refreshing catalog %d/%d", p[0], p[1])

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s %s", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)], status)
		}
	}
}
