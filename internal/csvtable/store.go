package csvtable

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// ErrLocked means another process holds the file and the write did not happen.
var ErrLocked = errors.New("file is locked by another process")

const (
	filePerm = 0o644
	dirPerm  = 0o755
	tmpExt   = ".tmp"
)

// Store performs whole-file reads, single-row appends and full rewrites of tables
// on a filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store on fsys; nil means the OS filesystem.
func NewStore(fsys afero.Fs) *Store {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Store{fs: fsys}
}

// Exists reports whether path is an existing regular file.
func (s *Store) Exists(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile returns the file contents. A missing file yields an error matching
// fs.ErrNotExist.
func (s *Store) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// Load reads and parses path. A missing file yields an error matching fs.ErrNotExist.
func (s *Store) Load(path string, comma rune) (*Table, error) {
	raw, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(Decode(raw), comma)
}

// AppendRow adds one row to path. A missing or empty file is created with header
// first.
func (s *Store) AppendRow(path string, header, row []string, comma rune) error {
	info, err := s.fs.Stat(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return classify("stat", path, err)
	}
	writeHeader := err != nil || info.Size() == 0

	var buf bytes.Buffer
	cw := newWriter(&buf, comma)
	if writeHeader {
		_ = cw.Write(header)
	}
	_ = cw.Write(row)
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode row: %w", err)
	}

	if err := s.ensureDir(path); err != nil {
		return err
	}
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return classify("open", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return classify("write", path, err)
	}
	if err := f.Close(); err != nil {
		return classify("close", path, err)
	}
	return nil
}

// Rewrite replaces path with the given table. The content is written to a sibling
// temp file and renamed over the target, so readers see either the old or the new
// table.
func (s *Store) Rewrite(path string, columns []string, rows []Record, comma rune) error {
	var buf bytes.Buffer
	if err := Encode(&buf, columns, rows, comma); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	if err := s.ensureDir(path); err != nil {
		return err
	}

	tmp := path + tmpExt
	if err := afero.WriteFile(s.fs, tmp, buf.Bytes(), filePerm); err != nil {
		return classify("write", tmp, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return classify("rename", path, err)
	}
	return nil
}

func (s *Store) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if ok, err := afero.DirExists(s.fs, dir); err == nil && ok {
		return nil
	}
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return classify("mkdir", dir, err)
	}
	return nil
}

// classify wraps err, turning lock and permission failures into ErrLocked.
func classify(op, path string, err error) error {
	if IsLockError(err) {
		return fmt.Errorf("%s %q: %w: %v", op, path, ErrLocked, err)
	}
	return fmt.Errorf("%s %q: %w", op, path, err)
}

// IsLockError reports whether err means the file is held by someone else.
func IsLockError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrLocked) || errors.Is(err, fs.ErrPermission) {
		return true
	}
	var errno syscall.Errno
	return errors.As(err, &errno) && lockErrno(errno)
}
