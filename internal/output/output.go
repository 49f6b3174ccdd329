// Package output writes rendered pages to disk and hands them to a browser.
package output

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

// TempPattern is the os.CreateTemp pattern of generated maps.
const TempPattern = "zip_map_*.html"

// RenderFunc writes a page to w.
type RenderFunc func(w io.Writer) error

// Opener shows a written file to the user.
type Opener func(path string) error

func init() {
	// keep stdout for the result line only
	browser.Stdout = os.Stderr
}

// WriteTemp renders into a new file created in dir (os.TempDir when empty)
// and returns its path. The file is left in place for the browser.
// On failure no file remains.
func WriteTemp(dir string, render RenderFunc) (string, error) {
	f, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return "", fmt.Errorf("create temporary file: %w", err)
	}

	return f.Name(), finish(f, render)
}

// WriteFile renders into path, replacing any existing file.
// On failure no file remains.
func WriteFile(path string, render RenderFunc) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	return finish(f, render)
}

func finish(f *os.File, render RenderFunc) error {
	path := f.Name()

	err := render(f)
	// We care about write errors on close
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Error().Err(rmErr).Str("path", path).Msg("Failed to remove partial output")
		}
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// FileURL returns the file:// URL of path, made absolute.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if filepath.VolumeName(abs) != "" {
		// windows drive paths need a leading slash: file:///C:/...
		u.Path = "/" + u.Path
	}

	return u.String(), nil
}

// Open shows path in the default web browser.
func Open(path string) error {
	u, err := FileURL(path)
	if err != nil {
		return err
	}

	log.Debug().Str("url", u).Msg("Opening browser")

	return browser.OpenURL(u)
}
