package cli

import (
	"context"
	"fmt"
	"log"
)

// Stats prints the spending summary. Empty bounds mean all time; the
// aggregation is fully local and works offline.
func (a *App) Stats(ctx context.Context, from, to string) error {
	sum, err := a.statsService.Summary(ctx, from, to)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Total: %.2f over %d receipt(s)\n", sum.TotalSpend, sum.ReceiptCount)

	if len(sum.ByStore) > 0 {
		fmt.Println("By store:")
		for _, row := range sum.ByStore {
			fmt.Printf("  %-20s %10.2f (%d)\n", row.Store, row.Total, row.Count)
		}
	}
	if len(sum.ByMonth) > 0 {
		fmt.Println("By month:")
		for _, row := range sum.ByMonth {
			fmt.Printf("  %-20s %10.2f (%d)\n", row.Month, row.Total, row.Count)
		}
	}
	if len(sum.ByCurrency) > 0 {
		fmt.Println("By currency:")
		for _, row := range sum.ByCurrency {
			fmt.Printf("  %-20s %10.2f (%d)\n", row.Currency, row.Total, row.Count)
		}
	}
	return nil
}
