package rendering

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultPDFTimeout bounds a headless print.
const DefaultPDFTimeout = 60 * time.Second

// PrintPDF renders an HTML document in a headless browser and prints it to PDF.
// Requires Chrome/Chromium to be installed on the system.
func PrintPDF(ctx context.Context, document string, timeout time.Duration, verbose bool) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	if verbose {
		log.Printf("[PDF] Starting headless browser (%d bytes of HTML)", len(document))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, document).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &RenderError{
			Message: "pdf printing failed",
			Cause:   fmt.Errorf("chromedp: %w", err),
		}
	}

	if verbose {
		log.Printf("[PDF] Printed %d bytes", len(pdf))
	}
	return pdf, nil
}

// PDFExport prints the post-paper export to PDF.
func PDFExport(ctx context.Context, htmlExport *Export, verbose bool) (*Export, error) {
	pdf, err := PrintPDF(ctx, string(htmlExport.Body), DefaultPDFTimeout, verbose)
	if err != nil {
		return nil, err
	}
	return &Export{
		Stage:       htmlExport.Stage,
		Filename:    PostPaperPDFName,
		ContentType: contentTypePDF,
		Body:        pdf,
	}, nil
}
