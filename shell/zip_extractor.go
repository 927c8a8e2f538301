package shell

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/mholt/archiver"

	"github.com/smartystreets/appinstall/contracts"
)

type ZipExtractor struct{}

func NewZipExtractor() *ZipExtractor {
	return &ZipExtractor{}
}

func (this *ZipExtractor) Open(path string) (contracts.ArchiveHandle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	reader := archiver.NewZip()
	if err := reader.Open(file, info.Size()); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("reading zip archive %s: %w", path, err)
	}
	return &ZipArchive{file: file, reader: reader}, nil
}

///////////////////////////////////////////////////////////////////////////////

type ZipArchive struct {
	file   *os.File
	reader *archiver.Zip
	once   sync.Once
}

// ExtractAll writes every entry of the archive beneath directory, creating it
// if necessary. Entries that would land outside of directory are rejected.
func (this *ZipArchive) ExtractAll(directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}
	for {
		entry, err := this.reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		err = this.extract(directory, entry)
		_ = entry.Close()
		if err != nil {
			return err
		}
	}
}

func (this *ZipArchive) extract(directory string, entry archiver.File) error {
	target := filepath.Join(directory, entryName(entry))
	if !within(directory, target) {
		return fmt.Errorf("illegal file path in archive: %s", entryName(entry))
	}
	if err := refuseSymlinkedParents(directory, target); err != nil {
		return err
	}

	switch mode := entry.Mode(); {
	case entry.IsDir():
		return os.MkdirAll(target, 0755)
	case mode&os.ModeSymlink != 0:
		return this.writeSymlink(directory, target, entry)
	default:
		return this.writeFile(target, entry, mode.Perm())
	}
}

func (this *ZipArchive) writeFile(target string, source io.Reader, permissions os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if err := removeSymlink(target); err != nil {
		return err
	}
	if permissions == 0 {
		permissions = 0644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, permissions)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, source)
	return multierror.Append(err, out.Close()).ErrorOrNil()
}

// writeSymlink only creates links that resolve beneath directory.
func (this *ZipArchive) writeSymlink(directory, target string, source io.Reader) error {
	raw, err := io.ReadAll(source)
	if err != nil {
		return err
	}
	link := string(raw)
	if filepath.IsAbs(link) || !within(directory, filepath.Join(filepath.Dir(target), link)) {
		return fmt.Errorf("illegal symlink in archive: %s -> %s", target, link)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(link, target)
}

func (this *ZipArchive) Close() (err error) {
	this.once.Do(func() {
		err = multierror.Append(this.reader.Close(), this.file.Close()).ErrorOrNil()
	})
	return err
}

func entryName(entry archiver.File) string {
	if header, ok := entry.Header.(zip.FileHeader); ok {
		return header.Name
	}
	return entry.Name()
}

func within(parent, sub string) bool {
	relative, err := filepath.Rel(parent, sub)
	return err == nil && relative != ".." && !strings.HasPrefix(relative, ".."+string(filepath.Separator))
}

// refuseSymlinkedParents fails when any existing directory between directory
// and target is a symlink, so that writes never follow a link.
func refuseSymlinkedParents(directory, target string) error {
	relative, err := filepath.Rel(directory, filepath.Dir(target))
	if err != nil || relative == "." {
		return err
	}
	current := directory
	for _, element := range strings.Split(relative, string(filepath.Separator)) {
		current = filepath.Join(current, element)
		info, err := os.Lstat(current)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to extract through symlink: %s", current)
		}
	}
	return nil
}

func removeSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return nil
	}
	return os.Remove(path)
}
