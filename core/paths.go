package core

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/smartystreets/appinstall/contracts"
)

// ComposeArchivePath is where the downloaded archive for the descriptor is
// written: <tempDir>/<basename of the download location>.
func ComposeArchivePath(tempDir string, descriptor contracts.ApplicationDescriptor) string {
	return filepath.Join(tempDir, archiveFilename(descriptor.DownloadLocation))
}

// ComposeExtractionPath is where the archive is expanded: <tempDir>/<name>.
func ComposeExtractionPath(tempDir string, descriptor contracts.ApplicationDescriptor) string {
	return filepath.Join(tempDir, descriptor.Name)
}

func archiveFilename(location string) string {
	if address, err := url.Parse(location); err == nil && address.Path != "" {
		return path.Base(address.Path)
	}
	return location[strings.LastIndex(location, "/")+1:]
}

// extractionPathContained reports whether extractionPath lies strictly beneath
// tempDir. Names such as "", "." or ".." do not.
func extractionPathContained(tempDir, extractionPath string) bool {
	relative, err := filepath.Rel(tempDir, extractionPath)
	return err == nil &&
		relative != "." &&
		relative != ".." &&
		!strings.HasPrefix(relative, ".."+string(filepath.Separator))
}
