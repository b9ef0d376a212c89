package versions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const (
	// IndexFile lists the published versions as a JSON array of strings.
	IndexFile = "versions.json"
	// SchemaFile is the document stored under each version directory.
	SchemaFile = "schema.avsc"
)

// ErrNotFound reports a missing index or schema document.
var ErrNotFound = errors.New("versions: not found")

// Source provides the version index and the schema document of a version.
type Source interface {
	Versions(ctx context.Context) ([]string, error)
	Schema(ctx context.Context, version string) ([]byte, error)
}

// SchemaPath returns the location of version's document relative to the root.
func SchemaPath(version string) string { return path.Join(version, SchemaFile) }

func decodeIndex(data []byte) ([]string, error) {
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("versions: decode %s: %w", IndexFile, err)
	}
	return out, nil
}

func checkVersion(version string) error {
	if version == "" || strings.ContainsAny(version, "/\\") || version == "." || version == ".." {
		return fmt.Errorf("versions: invalid version %q", version)
	}
	return nil
}

// DirSource reads the layout from a file system, typically os.DirFS.
type DirSource struct {
	FS fs.FS
}

// NewDirSource returns a DirSource rooted at fsys.
func NewDirSource(fsys fs.FS) *DirSource { return &DirSource{FS: fsys} }

func (d *DirSource) Versions(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(d.FS, IndexFile)
	if err != nil {
		return nil, d.wrap(IndexFile, err)
	}
	return decodeIndex(data)
}

func (d *DirSource) Schema(ctx context.Context, version string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkVersion(version); err != nil {
		return nil, err
	}
	p := SchemaPath(version)
	data, err := fs.ReadFile(d.FS, p)
	if err != nil {
		return nil, d.wrap(p, err)
	}
	return data, nil
}

func (d *DirSource) wrap(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fmt.Errorf("versions: read %s: %w", name, err)
}

// HTTPSource fetches the layout below a base URL.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns an HTTPSource with a client using timeout (10s when zero).
func NewHTTPSource(baseURL string, timeout time.Duration) (*HTTPSource, error) {
	if baseURL == "" {
		return nil, errors.New("versions: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("versions: invalid base URL: %w", err)
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{BaseURL: strings.TrimRight(baseURL, "/"), Client: &http.Client{Timeout: timeout}}, nil
}

func (h *HTTPSource) Versions(ctx context.Context) ([]string, error) {
	data, err := h.get(ctx, IndexFile)
	if err != nil {
		return nil, err
	}
	return decodeIndex(data)
}

func (h *HTTPSource) Schema(ctx context.Context, version string) ([]byte, error) {
	if err := checkVersion(version); err != nil {
		return nil, err
	}
	return h.get(ctx, url.PathEscape(version)+"/"+SchemaFile)
}

func (h *HTTPSource) get(ctx context.Context, rel string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/"+rel, nil)
	if err != nil {
		return nil, fmt.Errorf("versions: request %s: %w", rel, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("versions: fetch %s: %w", rel, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("versions: fetch %s: unexpected status %d", rel, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("versions: read %s: %w", rel, err)
	}
	return data, nil
}
