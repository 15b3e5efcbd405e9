package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Scan creates a receipt from a photo on disk. Field extraction is
// best-effort: when the extraction service is unavailable or returns
// garbage, a minimally-populated receipt carrying the photo is created
// instead and the user edits it afterwards.
func (a *App) Scan(ctx context.Context, path string) error {
	if path == "" {
		var err error
		path, err = getSimpleText(a.reader, "Path to receipt photo", os.Stdout)
		if err != nil {
			return err
		}
	}

	data, err := readFile(path)
	if err != nil {
		log.Printf("Error reading %s: %s", path, err.Error())
		return err
	}

	out, err := a.receiptService.CreateFromImage(ctx, a.sess, data)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Created %s (%s, %.2f %s)\n", out.Receipt.Id, out.Receipt.Store, out.Receipt.Total, out.Receipt.Currency)
	reportRemoteErr(out.RemoteErr)
	return nil
}
