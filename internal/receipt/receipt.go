// Package receipt manages the receipt preview: an asynchronous binary
// fetch that materializes image receipts as transient local files. At most
// one transient file is live at a time; the previous one is always
// released before a new one is created, and the active one is released
// when the preview closes.
package receipt

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Fetcher retrieves a receipt binary. The returned content type is the
// media type without parameters.
type Fetcher interface {
	FetchReceipt(ctx context.Context, url string) (io.ReadCloser, string, error)
}

// View is the outcome of opening a receipt. Exactly one of ImagePath and
// FallbackURL is set: image receipts get a local preview file, everything
// else falls back to the original resource URL.
type View struct {
	ImagePath   string
	FallbackURL string
}

// Manager owns the single live preview resource.
type Manager struct {
	fetcher Fetcher
	dir     string

	// Open and Close run inside UI commands, off the update goroutine,
	// so the active path needs real locking.
	mu     sync.Mutex
	active string
}

// NewManager creates a manager writing transient files under dir. An empty
// dir uses the system temp directory.
func NewManager(fetcher Fetcher, dir string) *Manager {
	if dir == "" {
		dir = os.TempDir()
	}

	return &Manager{fetcher: fetcher, dir: dir}
}

// Open releases any previous preview resource, fetches the receipt and
// returns its view. Non-image receipts and fetch failures never leave a
// transient file behind.
func (m *Manager) Open(ctx context.Context, url string) (View, error) {
	m.Close()

	body, contentType, err := m.fetcher.FetchReceipt(ctx, url)
	if err != nil {
		return View{}, fmt.Errorf("fetching receipt: %w", err)
	}
	defer body.Close()

	if !strings.HasPrefix(contentType, "image/") {
		return View{FallbackURL: url}, nil
	}

	path, err := m.materialize(body, contentType)
	if err != nil {
		return View{}, err
	}

	m.mu.Lock()
	m.active = path
	m.mu.Unlock()

	return View{ImagePath: path}, nil
}

// Close releases the active preview resource, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	path := m.active
	m.active = ""
	m.mu.Unlock()

	if path != "" {
		_ = os.Remove(path)
	}
}

// ActivePath returns the live transient file, empty when none is open.
func (m *Manager) ActivePath() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active
}

func (m *Manager) materialize(body io.Reader, contentType string) (string, error) {
	ext := ".img"
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		ext = exts[0]
	}

	path := filepath.Join(m.dir, "receipt-"+uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating preview file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)

		return "", fmt.Errorf("writing preview file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)

		return "", fmt.Errorf("closing preview file: %w", err)
	}

	return path, nil
}
