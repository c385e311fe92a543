package pagestore

import (
	"fmt"
	"os"
)

// RecordSize is the fixed length of every record in a record file.
const RecordSize = 4096

// RecordFile is a file of fixed-length records keyed by 1-based 32-bit record
// numbers. Record number 0 is reserved. Reads and writes go through the
// environment's page pool when one is attached; every read hands the caller
// a fresh buffer.
type RecordFile struct {
	file    *os.File
	path    string
	records uint32
	pool    *Pool
}

// Create creates the record file with exclusive-create semantics: it fails if
// the file already exists. The returned file is open and empty.
func Create(path string, pool *Pool) (*RecordFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file %s: %w", path, err)
	}
	return &RecordFile{file: file, path: path, pool: pool}, nil
}

// Open opens an existing record file and derives its record count from the
// file size.
func Open(path string, pool *Pool) (*RecordFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open record file %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat record file %s: %w", path, err)
	}

	return &RecordFile{
		file:    file,
		path:    path,
		records: uint32(stat.Size() / RecordSize),
		pool:    pool,
	}, nil
}

// Read returns the record stored under recno. A short tail is padded with
// zeros. The returned buffer is owned by the caller.
func (rf *RecordFile) Read(recno uint32) ([]byte, error) {
	if rf.file == nil {
		return nil, fmt.Errorf("record file %s is closed", rf.path)
	}
	if recno == 0 {
		return nil, fmt.Errorf("record number 0 is reserved")
	}

	if rf.pool != nil {
		if page, ok := rf.pool.Get(rf.path, recno); ok {
			return page, nil
		}
	}

	page := make([]byte, RecordSize)
	offset := int64(recno-1) * RecordSize

	n, err := rf.file.ReadAt(page, offset)
	if err != nil {
		if n == 0 {
			return nil, fmt.Errorf("failed to read record %d: %w", recno, err)
		}
		// partial read at EOF: the zero tail stands
	}

	if rf.pool != nil {
		rf.pool.Put(rf.path, recno, page)
	}
	return page, nil
}

// Write stores page under recno. The buffer must be exactly RecordSize bytes.
func (rf *RecordFile) Write(recno uint32, page []byte) error {
	if rf.file == nil {
		return fmt.Errorf("record file %s is closed", rf.path)
	}
	if recno == 0 {
		return fmt.Errorf("record number 0 is reserved")
	}
	if len(page) != RecordSize {
		return fmt.Errorf("record size %d does not match %d", len(page), RecordSize)
	}

	offset := int64(recno-1) * RecordSize
	if _, err := rf.file.WriteAt(page, offset); err != nil {
		return fmt.Errorf("failed to write record %d: %w", recno, err)
	}

	if recno > rf.records {
		rf.records = recno
	}
	if rf.pool != nil {
		rf.pool.Put(rf.path, recno, page)
	}
	return nil
}

// Records returns the highest record number stored in the file.
func (rf *RecordFile) Records() uint32 {
	return rf.records
}

// Path returns the on-disk path of the file.
func (rf *RecordFile) Path() string {
	return rf.path
}

// Close releases the file handle. Closing a closed file is a no-op.
func (rf *RecordFile) Close() error {
	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	if err != nil {
		return fmt.Errorf("failed to close record file %s: %w", rf.path, err)
	}
	return nil
}

// Remove closes the file, drops its pages from the pool and deletes it from
// disk.
func (rf *RecordFile) Remove() error {
	records := rf.records
	if err := rf.Close(); err != nil {
		return err
	}
	if rf.pool != nil {
		for recno := uint32(1); recno <= records; recno++ {
			rf.pool.Evict(rf.path, recno)
		}
	}
	if err := os.Remove(rf.path); err != nil {
		return fmt.Errorf("failed to remove record file %s: %w", rf.path, err)
	}
	return nil
}
