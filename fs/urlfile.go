package fs

import (
	"context"
	"errors"
	"os"

	"github.com/fwojciec/pagesnap"
)

// Ensure URLFile implements pagesnap.URLSource at compile time.
var _ pagesnap.URLSource = (*URLFile)(nil)

// URLFile reads the URLs to crawl from a newline-delimited file on every
// call, so edits take effect on the next run.
type URLFile struct {
	path string
}

// NewURLFile creates a URLFile reading path.
func NewURLFile(path string) *URLFile {
	return &URLFile{path: path}
}

// URLs parses the file. A missing file is an ENOTFOUND error.
func (f *URLFile) URLs(_ context.Context) ([]string, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, pagesnap.Errorf(pagesnap.ENOTFOUND, "URL list %s not found", f.path)
	} else if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "failed to open URL list: %v", err)
	}
	defer file.Close()

	urls, err := pagesnap.ParseURLList(file)
	if err != nil {
		return nil, pagesnap.Errorf(pagesnap.EINVALID, "failed to read URL list: %v", err)
	}
	return urls, nil
}
