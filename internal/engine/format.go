package engine

import (
	"fmt"
	"strings"

	domain "stockwatch/pkg/types"
)

// variantBlock renders a sorted variant list as a code block, one bullet
// per line.
func variantBlock(variants []string) string {
	var b strings.Builder
	b.WriteString("```\n")
	for _, v := range variants {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	b.WriteString("```")
	return b.String()
}

func formatRestock(name, price, hint, url string, variants []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 **%s RESTOCKED!**\n", name)
	fmt.Fprintf(&b, "💲 **Price:** %s\n", price)
	if hint != "" {
		fmt.Fprintf(&b, "📦 **Inventory:** %s\n", hint)
	}
	fmt.Fprintf(&b, "🔗 %s\n", url)
	b.WriteString(variantBlock(variants))
	return b.String()
}

func formatSoldOut(name, price, hint, url string, variants []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ **%s SOLD OUT**\n", name)
	fmt.Fprintf(&b, "💲 **Price:** %s\n", price)
	if hint != "" {
		fmt.Fprintf(&b, "📦 **Inventory:** %s\n", hint)
	}
	fmt.Fprintf(&b, "🔗 %s\n", url)
	b.WriteString(variantBlock(variants))
	return b.String()
}

// FormatReport renders an on-demand stock snapshot for display.
func FormatReport(r *domain.StockReport) string {
	if len(r.InStock) == 0 {
		return fmt.Sprintf(
			"**%s**\n💲 **Price:** %s\n🔗 %s\n❌ **All variants are OUT OF STOCK**",
			r.Name, r.Price, r.URL,
		)
	}

	var b strings.Builder
	b.WriteString("```\n")
	fmt.Fprintf(&b, "%s\n", r.Name)
	fmt.Fprintf(&b, "Price: %s\n", r.Price)
	if r.InventoryHint != "" {
		fmt.Fprintf(&b, "Inventory: %s\n", r.InventoryHint)
	}
	b.WriteString("IN STOCK:\n")
	for _, v := range r.InStock {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	b.WriteString("```")
	fmt.Fprintf(&b, "\n🔗 %s", r.URL)
	return b.String()
}
