package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) List(ctx context.Context) error {
	rows, err := a.receiptService.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, r := range rows {
		fmt.Println(formatReceiptLine(r))
	}
	fmt.Printf("%d receipt(s)\n", len(rows))
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	if id == "" {
		var err error
		id, err = getSimpleText(a.reader, "Enter receipt id to show", os.Stdout)
		if err != nil {
			return err
		}
	}

	r, err := a.receiptService.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("%s  %s  %.2f %s\n", r.Date, r.Store, r.Total, r.Currency)
	for _, item := range r.Items {
		fmt.Printf("  %-20s %6.2f x %8.2f = %8.2f\n", item.Name, item.Quantity, item.Price, item.LineTotal())
	}
	if r.Notes != "" {
		fmt.Printf("Notes: %s\n", r.Notes)
	}
	if len(r.Tags) > 0 {
		fmt.Printf("Tags: %v\n", r.Tags)
	}
	if r.Image != "" {
		fmt.Println("Photo attached")
	}
	return nil
}

// Delete removes a receipt. The local removal is immediate; when the remote
// copy cannot be removed right now the deletion stays queued and replays on
// the next sync.
func (a *App) Delete(ctx context.Context, id string) error {
	if id == "" {
		var err error
		id, err = getSimpleText(a.reader, "Enter receipt id to delete", os.Stdout)
		if err != nil {
			return err
		}
	}

	out, err := a.receiptService.Delete(ctx, a.sess, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println("Deleted locally")
	if out.Queued && a.isLoggedIn() {
		fmt.Println("Cloud copy removal queued for the next sync")
	}
	return nil
}
