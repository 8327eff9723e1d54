package files

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// ReaderFile is an implementation of File created from an io.Reader.
// ReaderFiles are never directories, and can be read from and closed.
type ReaderFile struct {
	abspath string
	reader  io.Reader
	stat    os.FileInfo

	fsize int64
}

// NewBytesFile wraps b. Its size is always known.
func NewBytesFile(b []byte) File {
	return &ReaderFile{"", bytes.NewReader(b), nil, int64(len(b))}
}

// NewReaderFile wraps reader. The size of the result is known when reader
// reports its remaining length (as *bytes.Reader and *strings.Reader do);
// otherwise Size returns ErrNotSupported.
func NewReaderFile(reader io.Reader) File {
	return &ReaderFile{"", reader, nil, -1}
}

// NewReaderPathFile wraps an opened file on disk. Closing the result closes
// reader.
func NewReaderPathFile(path string, reader io.ReadCloser, stat os.FileInfo) (*ReaderFile, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &ReaderFile{abspath, reader, stat, -1}, nil
}

func (f *ReaderFile) AbsPath() string {
	return f.abspath
}

func (f *ReaderFile) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

func (f *ReaderFile) Close() error {
	if c, ok := f.reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (f *ReaderFile) Stat() os.FileInfo {
	return f.stat
}

func (f *ReaderFile) Size() (int64, error) {
	if f.stat != nil {
		return f.stat.Size(), nil
	}
	if f.fsize >= 0 {
		return f.fsize, nil
	}
	if l, ok := f.reader.(interface{ Len() int }); ok {
		return int64(l.Len()), nil
	}
	return 0, ErrNotSupported
}

func (f *ReaderFile) Seek(offset int64, whence int) (int64, error) {
	if s, ok := f.reader.(io.Seeker); ok {
		return s.Seek(offset, whence)
	}

	return 0, ErrNotSupported
}

var (
	_ File     = &ReaderFile{}
	_ FileInfo = &ReaderFile{}
)
