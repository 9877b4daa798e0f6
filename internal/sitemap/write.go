package sitemap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"sitemapgen/internal/log"
)

// WriteFile replaces path with the encoded document. The new content becomes
// visible only after it is fully written and synced; on any error the
// previous file is left in place.
func WriteFile(path string, set *URLSet) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, set) })
}

func writeFile(path string, encode func(io.Writer) error) error {
	logger := log.WithComponent("sitemap")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return fmt.Errorf("create pending sitemap file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending sitemap file")
		}
	}()

	if err := encode(pendingFile); err != nil {
		return fmt.Errorf("write sitemap data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace sitemap file: %w", err)
	}
	return nil
}
