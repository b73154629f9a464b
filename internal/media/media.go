// Package media stores uploaded material files on disk under a per-day
// directory tree and hands out the public URL for each stored file.
package media

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/materialdesk/materialdesk/internal/config"
)

const defaultChunkSize = 64 * 1024

// Store writes uploads below Root and maps them to URLs below BaseURL.
type Store struct {
	root      string
	baseURL   string
	uploadDir string
	chunkSize int
}

// New creates a store from the media configuration.
func New(cfg config.Media) *Store {
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}

	return &Store{
		root:      cfg.Root,
		baseURL:   cfg.BaseURL,
		uploadDir: cfg.UploadDir,
		chunkSize: chunk,
	}
}

// Save streams an upload to disk under <root>/<uploadDir>/yyyy/mm/dd/ and
// returns its public URL together with the uppercased extension derived from
// the original filename. The stored name is a fresh UUID so uploads can never
// collide or traverse outside the tree.
func (s *Store) Save(originalName string, r io.Reader, now time.Time) (string, string, error) {
	day := now.Format("2006/01/02")

	dir := filepath.Join(s.root, s.uploadDir, filepath.FromSlash(day))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "failed to create upload directory")
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", "", errors.Wrap(err, "failed to create upload file")
	}
	defer f.Close()

	buf := make([]byte, s.chunkSize)
	if _, err := io.CopyBuffer(f, r, buf); err != nil {
		return "", "", errors.Wrap(err, "failed to write upload")
	}

	url := path.Join("/", s.baseURL, s.uploadDir, day, name)
	extension := strings.ToUpper(strings.TrimPrefix(ext, "."))

	return url, extension, nil
}

// Remove deletes the stored file behind a public URL. A file that is already
// gone is not an error; removal is best-effort cleanup after a soft delete.
func (s *Store) Remove(url string) error {
	rel := strings.TrimPrefix(url, path.Join("/", s.baseURL)+"/")
	if strings.Contains(rel, "..") {
		return errors.New("file URL escapes the media tree")
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove stored file")
	}

	return nil
}
