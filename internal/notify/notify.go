// Package notify delivers sale notifications to shop operators.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Notifier is told about every recorded sale.
type Notifier interface {
	SaleRecorded(ctx context.Context, sale map[string]any) error
}

// Nop drops every notification. It is used when no channel is configured.
type Nop struct{}

func (Nop) SaleRecorded(context.Context, map[string]any) error { return nil }

// FormatSale renders a sale document as a short plain-text message, with
// well-known fields first and the rest sorted by key.
func FormatSale(sale map[string]any) string {
	var b strings.Builder
	b.WriteString("New sale recorded")

	seen := map[string]bool{}
	for _, k := range []string{"product_name", "selling_price", "email"} {
		if v, ok := sale[k]; ok {
			fmt.Fprintf(&b, "\n%s: %v", k, v)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(sale))
	for k := range sale {
		if !seen[k] && k != "_id" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		fmt.Fprintf(&b, "\n%s: %v", k, sale[k])
	}
	return b.String()
}
