package enrichment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/h2non/filetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/scorecatalog/mutopia-catalog/domain"
)

// InspectPDF checks that data is a readable PDF and returns its page count.
// maxPages <= 0 disables the page limit.
func InspectPDF(data []byte, maxPages int) (int, error) {
	if !filetype.Is(data, "pdf") {
		return 0, fmt.Errorf("%w: content is not a PDF", domain.ErrPDFUnreadable)
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("%w: pdfcpu read: %v", domain.ErrPDFUnreadable, err)
	}
	if maxPages > 0 && ctx.PageCount > maxPages {
		return ctx.PageCount, fmt.Errorf("%w: %d pages exceeds the limit of %d", domain.ErrPDFUnreadable, ctx.PageCount, maxPages)
	}
	return ctx.PageCount, nil
}

// downloadPDF fetches a score PDF, reading at most maxBytes.
func downloadPDF(ctx context.Context, client *http.Client, pdfURL, userAgent string, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPDFDownload, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPDFDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", domain.ErrPDFDownload, pdfURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrPDFDownload, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", domain.ErrPDFUnreadable, maxBytes)
	}
	return data, nil
}
