package load

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
)

// maxDocumentBytes bounds a single fetched document.
const maxDocumentBytes = 64 << 20

// SourceFetcher reads sources from the local filesystem or over HTTP(S).
type SourceFetcher struct {
	client *http.Client
}

var _ contract.Fetcher = &SourceFetcher{} // Compile-time check

// NewSourceFetcher returns a fetcher whose HTTP requests time out after timeout.
func NewSourceFetcher(timeout time.Duration) *SourceFetcher {
	return &SourceFetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch implements the contract.Fetcher interface.
func (f *SourceFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, schema.WrapError(schema.SourceUnavailable, err, "fetch %s", source)
	}
	if contract.IsRemoteSource(source) {
		return f.fetchRemote(ctx, source)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, schema.WrapError(schema.SourceUnavailable, err, "read %s", source)
	}
	return data, nil
}

func (f *SourceFetcher) fetchRemote(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, schema.WrapError(schema.SourceUnavailable, err, "build request for %s", source)
	}
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, schema.WrapError(schema.SourceUnavailable, err, "fetch %s", source)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, schema.NewError(schema.SourceUnavailable, "fetch %s: unexpected status %s", source, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes+1))
	if err != nil {
		return nil, schema.WrapError(schema.SourceUnavailable, err, "read body of %s", source)
	}
	if len(data) > maxDocumentBytes {
		return nil, schema.NewError(schema.SourceUnavailable, "fetch %s: document exceeds %d bytes", source, maxDocumentBytes)
	}
	return data, nil
}

// describeSource is used in log and error messages.
func describeSource(source string) string {
	if contract.IsRemoteSource(source) {
		return source
	}
	return fmt.Sprintf("file %s", source)
}
