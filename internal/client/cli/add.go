package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/andrejsk/kvits/internal/client/models"
	"github.com/andrejsk/kvits/internal/common"
)

// getSimpleText, getMultiline and getLines are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline
var getLines = GetLines

// Add interactively collects a receipt and creates it through the façade.
// The local write is what succeeds or fails; a failed remote mirror is only
// reported as a notice.
func (a *App) Add(ctx context.Context) error {
	store, err := getSimpleText(a.reader, "Store name", os.Stdout)
	if err != nil {
		return err
	}

	date, err := getSimpleText(a.reader, "Date (YYYY-MM-DD, empty for today)", os.Stdout)
	if err != nil {
		return err
	}

	totalText, err := getSimpleText(a.reader, "Total amount", os.Stdout)
	if err != nil {
		return err
	}
	total, err := parseAmount(totalText)
	if err != nil {
		return err
	}

	currency, err := getSimpleText(a.reader, "Currency (e.g. EUR)", os.Stdout)
	if err != nil {
		return err
	}

	itemLines, err := getLines(a.reader, "Line items as name,quantity,price", os.Stdout)
	if err != nil {
		return err
	}
	items := make([]models.LineItem, 0, len(itemLines))
	for _, line := range itemLines {
		item, err := parseLineItem(line)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	notes, err := getMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		return err
	}

	tagsText, err := getSimpleText(a.reader, "Tags (comma separated)", os.Stdout)
	if err != nil {
		return err
	}

	out, err := a.receiptService.Create(ctx, a.sess, models.Receipt{
		Store:    store,
		Date:     date,
		Total:    total,
		Currency: currency,
		Items:    items,
		Notes:    notes,
		Tags:     parseTags(tagsText),
	})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Created %s\n", out.Receipt.Id)
	reportRemoteErr(out.RemoteErr)
	return nil
}

// reportRemoteErr prints a notice for a failed cloud mirror. Plain
// connectivity problems are normal offline operation and stay quiet; the
// record converges on the next sync either way.
func reportRemoteErr(err error) {
	if err == nil || errors.Is(err, common.ErrorConnectivity) {
		return
	}
	fmt.Printf("Note: saved locally, cloud copy pending (%s)\n", err.Error())
}
