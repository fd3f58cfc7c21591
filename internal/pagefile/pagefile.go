// Package pagefile implements the storage-layer contract the buffer pool
// depends on: a flat file of fixed-size pages, addressable by index, that
// can be read, written, and grown.
package pagefile

import (
	"fmt"
	"io"
	"os"
)

// PageSize is the fixed size, in bytes, of every page in a page file.
const PageSize = 4096

// PageFile is the storage-layer contract the buffer pool is built on: open,
// read/write a page at an index, grow to at least n pages, and report the
// current page count. Implementations are not required to be safe for
// concurrent use; the buffer pool that owns a PageFile is already assumed
// to be the sole caller (spec §5).
type PageFile interface {
	// PageCount returns the number of pages currently present in the file.
	PageCount() int64
	// ReadPage reads the page at index idx into buf, which must be exactly
	// PageSize bytes long. Returns an error if idx is beyond PageCount.
	ReadPage(idx int64, buf []byte) error
	// WritePage writes buf (exactly PageSize bytes) to the page at index idx.
	WritePage(idx int64, buf []byte) error
	// GrowToAtLeast appends zero-filled pages, if necessary, so that
	// PageCount() >= n afterward.
	GrowToAtLeast(n int64) error
	// Close releases the underlying file handle.
	Close() error
}

// FileBackedPageFile is the on-disk implementation of PageFile: a plain
// file containing a sequence of PageSize-byte pages with no header of its
// own. The handle is held open for the lifetime of the FileBackedPageFile
// rather than reopened per operation -- an internal optimization over the
// naive "open around each read/write" contract that spec §4.5 explicitly
// permits.
type FileBackedPageFile struct {
	file      *os.File
	pageCount int64
}

// Open opens path, creating it with exactly one zero-filled page if it does
// not already exist (spec §4.1, §6: "a freshly created file contains
// exactly one zero-filled page").
func Open(path string) (*FileBackedPageFile, error) {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open %s: %w", path, err)
	}

	pf := &FileBackedPageFile{file: f}

	if fresh {
		if err := pf.GrowToAtLeast(1); err != nil {
			f.Close()
			return nil, fmt.Errorf("pagefile: initialize %s: %w", path, err)
		}
		return pf, nil
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagefile: stat %s: %w", path, err)
	}
	pf.pageCount = info.Size() / PageSize
	return pf, nil
}

// PageCount returns the number of whole pages currently in the file.
func (pf *FileBackedPageFile) PageCount() int64 {
	return pf.pageCount
}

// ReadPage reads the page at idx into buf.
func (pf *FileBackedPageFile) ReadPage(idx int64, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("pagefile: read buffer must be %d bytes, got %d", PageSize, len(buf))
	}
	if idx < 0 || idx >= pf.pageCount {
		return fmt.Errorf("pagefile: page %d does not exist (have %d pages)", idx, pf.pageCount)
	}
	n, err := pf.file.ReadAt(buf, idx*PageSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("pagefile: read page %d: %w", idx, err)
	}
	if n < PageSize {
		return fmt.Errorf("pagefile: short read on page %d: got %d of %d bytes", idx, n, PageSize)
	}
	return nil
}

// WritePage writes buf to the page at idx. idx must already be within the
// file's current page count; callers must GrowToAtLeast first.
func (pf *FileBackedPageFile) WritePage(idx int64, buf []byte) error {
	if len(buf) != PageSize {
		return fmt.Errorf("pagefile: write buffer must be %d bytes, got %d", PageSize, len(buf))
	}
	if idx < 0 || idx >= pf.pageCount {
		return fmt.Errorf("pagefile: page %d does not exist (have %d pages)", idx, pf.pageCount)
	}
	if _, err := pf.file.WriteAt(buf, idx*PageSize); err != nil {
		return fmt.Errorf("pagefile: write page %d: %w", idx, err)
	}
	return nil
}

// GrowToAtLeast appends zero-filled pages until PageCount() >= n.
func (pf *FileBackedPageFile) GrowToAtLeast(n int64) error {
	if n <= pf.pageCount {
		return nil
	}
	zero := make([]byte, PageSize)
	for idx := pf.pageCount; idx < n; idx++ {
		if _, err := pf.file.WriteAt(zero, idx*PageSize); err != nil {
			return fmt.Errorf("pagefile: grow to page %d: %w", idx, err)
		}
	}
	pf.pageCount = n
	return nil
}

// Close releases the underlying file handle.
func (pf *FileBackedPageFile) Close() error {
	return pf.file.Close()
}
