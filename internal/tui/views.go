package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// RenderBreadcrumb renders the list scope: category and search query
func RenderBreadcrumb(state ListState, width int) string {
	parts := []string{"Shelf"}
	if state.SelectedCategory != nil {
		parts = append(parts, *state.SelectedCategory)
	} else {
		parts = append(parts, "all")
	}
	if q := strings.TrimSpace(state.Query); q != "" {
		parts = append(parts, fmt.Sprintf("%q", q))
	}

	crumb := styles.Truncate(strings.Join(parts, " > "), width-2)
	return styles.AccentStyle.Render(styles.Pad(crumb, width))
}

// priceText renders the effective price, with the list price struck out
// when discounted
func priceText(p *domain.Product) string {
	if !p.HasDiscount() {
		return styles.PriceStyle.Render(p.FormattedPrice())
	}
	return styles.PriceStyle.Render(p.FormattedPrice()) +
		" " + styles.StrikeStyle.Render(p.FormattedListPrice())
}

// RenderProductRow renders one product for the list
func RenderProductRow(p *domain.Product, selected bool, width int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}

	price := priceText(p)
	rating := p.FormattedRating()

	// Title takes whatever the right-hand columns leave
	right := lipgloss.Width(price) + lipgloss.Width(rating) + 4
	title := styles.Truncate(p.Title, width-right-4)
	left := style.Render(styles.Pad(title, width-right-2))

	if rating != "" {
		rating = styles.DimStyle.Render(rating) + " "
	}
	return left + " " + rating + price
}

// RenderProductDetail renders the detail screen body
func RenderProductDetail(p *domain.Product, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(p.Title))
	b.WriteString("\n")

	var meta []string
	if brand := p.BrandName(); brand != "" {
		meta = append(meta, brand)
	}
	meta = append(meta, p.Category)
	b.WriteString(styles.SubtitleStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	b.WriteString(priceText(p))
	if p.HasDiscount() {
		b.WriteString(" ")
		b.WriteString(styles.BadgeStyle.Render(fmt.Sprintf("-%.0f%%", *p.DiscountPercentage)))
	}
	b.WriteString("\n")

	if rating := p.FormattedRating(); rating != "" {
		b.WriteString(styles.AccentStyle.Render(rating))
		b.WriteString("  ")
	}
	if stock := p.StockLabel(); stock != "" {
		style := styles.SuccessStyle
		if p.Stock != nil && *p.Stock <= 0 {
			style = styles.ErrorStyle
		}
		b.WriteString(style.Render(stock))
	}
	b.WriteString("\n\n")

	if p.Description != "" {
		b.WriteString(wordWrap(p.Description, width-4))
		b.WriteString("\n\n")
	}

	if len(p.Images) > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d images", len(p.Images))))
		b.WriteString("\n")
	}
	if !p.LastSyncedAt.IsZero() {
		b.WriteString(styles.DimStyle.Render("Synced " + p.LastSyncedAt.Local().Format("2006-01-02 15:04")))
	}

	return styles.DetailStyle.Render(b.String())
}

// RenderErrorBanner renders a one-line error above stale rows
func RenderErrorBanner(msg string, width int) string {
	return styles.ErrorBannerStyle.Render(styles.Truncate(msg, width-2))
}

// RenderErrorView renders the full-screen error shown when nothing is cached
func RenderErrorView(msg string, width, height int) string {
	body := styles.ErrorStyle.Render(wordWrap(msg, width/2)) + "\n\n" +
		styles.DimStyle.Render("press t to retry")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
