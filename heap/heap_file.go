package heap

import (
	"fmt"

	"HeapDB/dbenv"
	"HeapDB/logger"
	"HeapDB/pagestore"
)

// HeapFile ties a table name to the record file that stores its blocks. The
// block at record number i is the slotted page for block id i; block id 0 is
// reserved and never allocated. Allocation is monotonic and blocks are never
// freed.
type HeapFile struct {
	name   string
	dbfile string
	last   uint32
	closed bool
	store  *pagestore.RecordFile
}

// NewHeapFile builds the handle for table name; the physical file is
// <name>.db inside the database environment directory. Nothing touches disk
// until Create or Open.
func NewHeapFile(name string) *HeapFile {
	return &HeapFile{
		name:   name,
		dbfile: name + ".db",
		closed: true,
	}
}

// Name returns the table identifier this file backs.
func (f *HeapFile) Name() string {
	return f.name
}

// Create creates the physical file (failing if it already exists), allocates
// block 1 as an empty slotted page and leaves the file open.
func (f *HeapFile) Create() error {
	path, err := f.path()
	if err != nil {
		return err
	}
	store, err := pagestore.Create(path, dbenv.Get().Pool())
	if err != nil {
		return fmt.Errorf("failed to create heap file %s: %w", f.name, err)
	}
	f.store = store
	f.last = 0
	f.closed = false

	block, err := f.GetNew()
	if err != nil {
		return err
	}
	if err := f.Put(block); err != nil {
		return err
	}
	logger.Debugf("created heap file %s", f.dbfile)
	return nil
}

// Open opens the physical file and learns the highest allocated block id
// from its record count. Opening an open file is a no-op.
func (f *HeapFile) Open() error {
	if !f.closed {
		return nil
	}
	path, err := f.path()
	if err != nil {
		return err
	}
	store, err := pagestore.Open(path, dbenv.Get().Pool())
	if err != nil {
		return fmt.Errorf("failed to open heap file %s: %w", f.name, err)
	}
	f.store = store
	f.last = store.Records()
	f.closed = false
	return nil
}

// Close releases the file handle. Closing a closed file is a no-op.
func (f *HeapFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.store.Close(); err != nil {
		return fmt.Errorf("failed to close heap file %s: %w", f.name, err)
	}
	return nil
}

// Drop closes the file and removes it from disk. The handle is not reusable
// afterwards.
func (f *HeapFile) Drop() error {
	if err := f.Close(); err != nil {
		return err
	}
	if f.store == nil {
		// never opened; resolve the path so the file still comes off disk
		path, err := f.path()
		if err != nil {
			return err
		}
		store, err := pagestore.Open(path, dbenv.Get().Pool())
		if err != nil {
			return fmt.Errorf("failed to drop heap file %s: %w", f.name, err)
		}
		f.store = store
	}
	if err := f.store.Remove(); err != nil {
		return fmt.Errorf("failed to drop heap file %s: %w", f.name, err)
	}
	logger.Debugf("dropped heap file %s", f.dbfile)
	return nil
}

// GetNew allocates the next block id, writes a freshly initialised page under
// it and returns the view read back from the store.
func (f *HeapFile) GetNew() (*SlottedPage, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	f.last++
	block := make([]byte, BlockSize)
	NewSlottedPage(block, f.last, true)
	if err := f.store.Write(f.last, block); err != nil {
		f.last--
		return nil, err
	}
	// read it back so the store owns the buffer the view wraps
	buf, err := f.store.Read(f.last)
	if err != nil {
		return nil, err
	}
	return NewSlottedPage(buf, f.last, false), nil
}

// Get reads a block from the store and returns a page view over it.
func (f *HeapFile) Get(blockID uint32) (*SlottedPage, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	buf, err := f.store.Read(blockID)
	if err != nil {
		return nil, err
	}
	return NewSlottedPage(buf, blockID, false), nil
}

// Put writes a page's block back under its block id.
func (f *HeapFile) Put(block *SlottedPage) error {
	if err := f.checkOpen(); err != nil {
		return err
	}
	return f.store.Write(block.BlockID(), block.Data())
}

// BlockIDs returns the sequence 1..last.
func (f *HeapFile) BlockIDs() []uint32 {
	ids := make([]uint32, 0, f.last)
	for id := uint32(1); id <= f.last; id++ {
		ids = append(ids, id)
	}
	return ids
}

// LastBlockID returns the highest allocated block id, 0 if empty.
func (f *HeapFile) LastBlockID() uint32 {
	return f.last
}

func (f *HeapFile) checkOpen() error {
	if f.closed || f.store == nil {
		return fmt.Errorf("heap file %s is not open", f.name)
	}
	return nil
}

func (f *HeapFile) path() (string, error) {
	env := dbenv.Get()
	if env == nil {
		return "", fmt.Errorf("database environment is not open")
	}
	return env.Path(f.dbfile), nil
}
