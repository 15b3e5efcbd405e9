package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andrejsk/kvits/internal/client/models"
)

// parseAmount parses a decimal money amount. An empty string is zero.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// parseTags splits a comma-separated tag list, dropping empty entries.
func parseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// parseLineItem parses one "name,quantity,price" line. Quantity and price
// are optional and default to 1 and 0.
func parseLineItem(line string) (models.LineItem, error) {
	parts := strings.Split(line, ",")
	item := models.LineItem{Name: strings.TrimSpace(parts[0]), Quantity: 1}
	if item.Name == "" {
		return models.LineItem{}, fmt.Errorf("line item needs a name: %q", line)
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || qty <= 0 {
			return models.LineItem{}, fmt.Errorf("invalid quantity in %q", line)
		}
		item.Quantity = qty
	}
	if len(parts) > 2 {
		price, err := parseAmount(parts[2])
		if err != nil {
			return models.LineItem{}, err
		}
		item.Price = price
	}
	return item, nil
}

// formatReceiptLine renders one receipt for the list output.
func formatReceiptLine(r models.Receipt) string {
	return fmt.Sprintf("%s  %s  %-20s %10.2f %s", r.Id, r.Date, r.Store, r.Total, r.Currency)
}
