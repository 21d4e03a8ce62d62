// Package static implements the directory-serving delegate used by
// static mounts. The router hands it the remainder of a wildcard
// match; the delegate owns all filesystem access and file-handle
// lifetime.
package static

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vyrodovalexey/avarouter/internal/observability"
	"github.com/vyrodovalexey/avarouter/internal/response"
)

// Options configures a static mount. Recognized options mirror the
// serving contract: the directory root, directory listing, CORS
// headers on served files, and quiet logging.
type Options struct {
	FSRoot         string
	ShowDirListing bool
	EnableCORS     bool
	Quiet          bool
}

// defaultOptions returns the option defaults for a mount rooted at dir.
func defaultOptions(dir string) Options {
	return Options{FSRoot: dir}
}

// Server serves files from a directory root.
type Server struct {
	opts   Options
	logger observability.Logger
}

// New creates a directory server for dir. Caller-supplied options are
// shallow-merged over the defaults: FSRoot falls back to dir when
// unset, boolean options apply as given.
func New(dir string, opts *Options, logger observability.Logger) *Server {
	merged := defaultOptions(dir)
	if opts != nil {
		merged.ShowDirListing = opts.ShowDirListing
		merged.EnableCORS = opts.EnableCORS
		merged.Quiet = opts.Quiet
		if opts.FSRoot != "" {
			merged.FSRoot = opts.FSRoot
		}
	}
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &Server{opts: merged, logger: logger}
}

// Options returns the merged serving options.
func (s *Server) Options() Options {
	return s.opts
}

// Serve resolves rest under the configured root and serves it. Missing
// entries produce a 404 response. Filesystem failures other than
// non-existence are returned to the caller unwrapped.
func (s *Server) Serve(req *http.Request, rest string) (*response.Response, error) {
	target, ok := s.resolve(rest)
	if !ok {
		return s.notFound(rest), nil
	}

	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.notFound(rest), nil
		}
		return nil, err
	}

	if info.IsDir() {
		return s.serveDir(target, rest)
	}

	return s.serveFile(target, rest)
}

// resolve maps the request remainder to a filesystem path, rejecting
// traversal outside the root.
func (s *Server) resolve(rest string) (string, bool) {
	clean := path.Clean("/" + rest)
	target := filepath.Join(s.opts.FSRoot, filepath.FromSlash(clean))

	root := filepath.Clean(s.opts.FSRoot)
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}

// serveFile reads and returns a regular file with an extension-derived
// content type.
func (s *Server) serveFile(target, rest string) (*response.Response, error) {
	data, err := os.ReadFile(target) //nolint:gosec // target is confined to FSRoot by resolve
	if err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(target))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b := s.builder().SetHeader("Content-Type", contentType)

	if !s.opts.Quiet {
		s.logger.Info("static file served",
			observability.String("path", rest),
			observability.Int("size", len(data)),
		)
	}

	return b.Send(response.Bytes(data)), nil
}

// dirEntry is one row of a directory listing.
type dirEntry struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"isDir"`
}

// serveDir serves a directory: index.html when present, otherwise a
// JSON listing when enabled, otherwise 404.
func (s *Server) serveDir(target, rest string) (*response.Response, error) {
	index := filepath.Join(target, "index.html")
	if _, err := os.Stat(index); err == nil {
		return s.serveFile(index, path.Join(rest, "index.html"))
	}

	if !s.opts.ShowDirListing {
		return s.notFound(rest), nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, err
	}

	listing := make([]dirEntry, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing = append(listing, dirEntry{
			Name:  entry.Name(),
			Size:  info.Size(),
			IsDir: entry.IsDir(),
		})
	}

	if !s.opts.Quiet {
		s.logger.Info("directory listing served",
			observability.String("path", rest),
			observability.Int("entries", len(listing)),
		)
	}

	return s.builder().
		SetHeader("Content-Type", "application/json").
		Send(response.JSON(listing)), nil
}

// notFound produces the delegate's 404 response.
func (s *Server) notFound(rest string) *response.Response {
	if !s.opts.Quiet {
		s.logger.Warn("static path not found",
			observability.String("path", rest),
		)
	}
	return s.builder().
		Status(http.StatusNotFound).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		Send(response.Text("404"))
}

// builder returns a response builder for static responses. Static
// responses carry no default header set; CORS headers are added only
// when enabled for the mount.
func (s *Server) builder() *response.Builder {
	b := response.NewBuilder(http.Header{})
	if s.opts.EnableCORS {
		b.SetHeader("Access-Control-Allow-Origin", response.DefaultAllowOrigin).
			SetHeader("Access-Control-Allow-Methods", response.DefaultAllowMethods).
			SetHeader("Access-Control-Allow-Headers", response.DefaultAllowHeaders)
	}
	return b
}
