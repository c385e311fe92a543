package heap

import (
	"encoding/binary"
)

const (
	// BlockSize is the fixed size of one block on disk.
	BlockSize = 4096
	// slotSize is the width of one slot directory entry (size: 2B, loc: 2B).
	slotSize = 4
)

// SlottedPage is an in-memory view over one block buffer. The first four
// bytes hold the page header (num_records, end_free); the slot directory
// follows at 4 bytes per record id; record payloads are packed at the high
// end of the block, growing downward. Record ids are 1-based and stable: a
// deleted record leaves a (0, 0) tombstone in the directory and its id is
// never reused.
type SlottedPage struct {
	block      []byte
	blockID    uint32
	numRecords uint16
	endFree    uint16
}

// NewSlottedPage wraps a BlockSize buffer. A new page gets an empty header
// written into the buffer; an existing one has its header parsed out.
func NewSlottedPage(block []byte, blockID uint32, isNew bool) *SlottedPage {
	page := &SlottedPage{block: block, blockID: blockID}
	if isNew {
		page.numRecords = 0
		page.endFree = BlockSize - 1
		page.writePageHeader()
	} else {
		page.readPageHeader()
	}
	return page
}

// BlockID returns the id of the block this view wraps.
func (p *SlottedPage) BlockID() uint32 {
	return p.blockID
}

// Data returns the underlying block buffer.
func (p *SlottedPage) Data() []byte {
	return p.block
}

// NumRecords returns the count of slot directory entries ever allocated,
// tombstones included.
func (p *SlottedPage) NumRecords() uint16 {
	return p.numRecords
}

// EndFree returns the offset of the last free byte before the record heap.
func (p *SlottedPage) EndFree() uint16 {
	return p.endFree
}

// Add stores a new record in the block and returns its id.
func (p *SlottedPage) Add(data []byte) (uint16, error) {
	if !p.hasRoom(len(data)) {
		return 0, &BlockNoRoomError{"not enough room for new record"}
	}
	p.numRecords++
	id := p.numRecords
	size := uint16(len(data))
	p.endFree -= size
	loc := p.endFree + 1
	p.writePageHeader()
	p.writeSlot(id, size, loc)
	copy(p.block[loc:int(loc)+len(data)], data)
	return id, nil
}

// Get returns the record's payload, or nil if the record has been deleted or
// the id was never issued by this page. The returned slice aliases the block
// buffer.
func (p *SlottedPage) Get(recordID uint16) []byte {
	if recordID == 0 || recordID > p.numRecords {
		return nil
	}
	size, loc := p.readSlot(recordID)
	if loc == 0 {
		return nil
	}
	return p.block[loc : loc+size]
}

// Put replaces the record's payload. A growing record needs room for the
// extra bytes; a shrinking or equal-size one always succeeds. The record
// keeps its id.
func (p *SlottedPage) Put(recordID uint16, data []byte) error {
	size, loc := p.readSlot(recordID)
	newSize := uint16(len(data))
	if newSize > size {
		extra := newSize - size
		if !p.hasRoom(int(extra)) {
			return &BlockNoRoomError{"not enough room for enlarged record"}
		}
		p.slide(loc, loc-extra)
		copy(p.block[loc-extra:int(loc-extra)+len(data)], data)
	} else {
		copy(p.block[loc:int(loc)+len(data)], data)
		p.slide(loc+newSize, loc+size)
	}
	// slide has adjusted this record's loc; refresh it before rewriting the slot
	_, loc = p.readSlot(recordID)
	p.writeSlot(recordID, newSize, loc)
	return nil
}

// Del tombstones the record and compacts the remaining payloads. Deleting a
// tombstoned or never-issued id is a no-op. The id stays reserved forever.
func (p *SlottedPage) Del(recordID uint16) {
	if recordID == 0 || recordID > p.numRecords {
		return
	}
	size, loc := p.readSlot(recordID)
	if loc == 0 {
		return
	}
	p.writeSlot(recordID, 0, 0)
	p.slide(loc, loc+size)
}

// IDs returns the live record ids in ascending order. Ascending by id is not
// ascending by physical offset.
func (p *SlottedPage) IDs() []uint16 {
	ids := make([]uint16, 0, p.numRecords)
	for id := uint16(1); id <= p.numRecords; id++ {
		if _, loc := p.readSlot(id); loc != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// hasRoom reports whether a record of the given size plus a fresh 4-byte
// slot entry still fits in the free gap. Computed in int width so the
// directory term cannot wrap.
func (p *SlottedPage) hasRoom(size int) bool {
	available := int(p.endFree) - (int(p.numRecords)+2)*slotSize
	return size <= available
}

// slide moves the packed payload region below start by end-start bytes: a
// right shift (start < end) closes the hole left by a removed or shrunken
// record, a left shift (start > end) opens room for a growing one. Slots of
// records whose payload moved are fixed up, and end_free follows. This is
// the single place payload bytes move, so contiguity is restored here and
// only here.
func (p *SlottedPage) slide(start, end uint16) {
	moveOver := int(end) - int(start)
	if moveOver == 0 {
		return
	}

	src := int(p.endFree) + 1
	dst := src + moveOver
	n := int(start) - src
	copy(p.block[dst:dst+n], p.block[src:src+n]) // copy is overlap-safe

	for _, id := range p.IDs() {
		size, loc := p.readSlot(id)
		if loc <= start {
			p.writeSlot(id, size, uint16(int(loc)+moveOver))
		}
	}
	p.endFree = uint16(int(p.endFree) + moveOver)
	p.writePageHeader()
}

// readPageHeader parses num_records and end_free from the first four bytes.
func (p *SlottedPage) readPageHeader() {
	p.numRecords = binary.LittleEndian.Uint16(p.block[0:2])
	p.endFree = binary.LittleEndian.Uint16(p.block[2:4])
}

// writePageHeader stores num_records and end_free into the first four bytes.
func (p *SlottedPage) writePageHeader() {
	binary.LittleEndian.PutUint16(p.block[0:2], p.numRecords)
	binary.LittleEndian.PutUint16(p.block[2:4], p.endFree)
}

// readSlot reads the (size, loc) directory entry for a record id.
func (p *SlottedPage) readSlot(recordID uint16) (size, loc uint16) {
	offset := slotSize * int(recordID)
	size = binary.LittleEndian.Uint16(p.block[offset : offset+2])
	loc = binary.LittleEndian.Uint16(p.block[offset+2 : offset+4])
	return size, loc
}

// writeSlot stores the (size, loc) directory entry for a record id.
func (p *SlottedPage) writeSlot(recordID uint16, size, loc uint16) {
	offset := slotSize * int(recordID)
	binary.LittleEndian.PutUint16(p.block[offset:offset+2], size)
	binary.LittleEndian.PutUint16(p.block[offset+2:offset+4], loc)
}
