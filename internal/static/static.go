// Package static embeds static files into the binary and copies them to the
// filesystem
package static

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/trueinspo/babytimer/internal/osutil"
)

const (
	filesDir = "files"
)

//go:embed files/*
var embeddedFiles embed.FS

// Install copies the embedded files into dir. Files that already exist are
// left alone so a user can replace the notification icon.
func Install(dir string) error {
	return fs.WalkDir(
		embeddedFiles,
		filesDir,
		func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			b, err := embeddedFiles.ReadFile(p)
			if err != nil {
				return err
			}

			// embed paths always use forward slashes
			rel, err := filepath.Rel(filesDir, filepath.FromSlash(p))
			if err != nil {
				return err
			}

			destPath := filepath.Join(dir, rel)

			// Only write if file does not already exist
			if _, err := os.Stat(destPath); os.IsNotExist(err) {
				err = os.MkdirAll(filepath.Dir(destPath), osutil.DirPermission)
				if err != nil {
					return err
				}

				if err := os.WriteFile(destPath, b, 0o644); err != nil {
					return err
				}
			}

			return nil
		},
	)
}

// Files lists the names of the embedded files.
func Files() []string {
	var names []string

	_ = fs.WalkDir(embeddedFiles, filesDir, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			names = append(names, path.Base(p))
		}

		return err
	})

	return names
}
