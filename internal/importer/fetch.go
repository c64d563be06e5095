package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPFetcher loads attachments either over http(s) or from the local upload directory.
type HTTPFetcher struct {
	client *resty.Client
	root   string
}

func NewHTTPFetcher(root string, timeout time.Duration, retries int) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond)

	return &HTTPFetcher{client: client, root: root}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := f.client.R().SetContext(ctx).Get(path)
		if err != nil {
			return nil, ErrFetch.Wrap(fmt.Errorf("get %s: %w", path, err))
		}

		if resp.IsError() {
			return nil, ErrFetch.Wrap(fmt.Errorf("get %s: status %d", path, resp.StatusCode()))
		}

		return resp.Body(), nil
	}

	// Relative and absolute paths alike resolve inside root.
	full := filepath.Join(f.root, filepath.Clean("/"+path))

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, ErrFetch.Wrap(fmt.Errorf("read %s: %w", full, err))
	}

	return data, nil
}
