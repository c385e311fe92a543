package heap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"HeapDB/logger"
	"HeapDB/types"
)

// HeapTable is the heap storage engine implementation of types.Relation: it
// translates typed rows into record bytes against the declared column schema
// and stores them through a HeapFile.
type HeapTable struct {
	name             string
	columnNames      []string
	columnAttributes []types.ColumnAttribute
	file             *HeapFile
	dropped          bool
}

var _ types.Relation = (*HeapTable)(nil)

// NewHeapTable builds the relation for table name with the declared columns.
// columnNames and columnAttributes are parallel and ordered; that order is
// the row wire format.
func NewHeapTable(name string, columnNames []string, columnAttributes []types.ColumnAttribute) *HeapTable {
	return &HeapTable{
		name:             name,
		columnNames:      columnNames,
		columnAttributes: columnAttributes,
		file:             NewHeapFile(name),
	}
}

// Name returns the table identifier.
func (t *HeapTable) Name() string {
	return t.name
}

// ColumnNames returns the declared column names in declaration order.
func (t *HeapTable) ColumnNames() []string {
	return t.columnNames
}

// Create creates the underlying heap file.
func (t *HeapTable) Create() error {
	if err := t.checkDropped(); err != nil {
		return err
	}
	return t.file.Create()
}

// CreateIfNotExists opens the table, falling back to Create when the open
// fails.
func (t *HeapTable) CreateIfNotExists() error {
	if err := t.checkDropped(); err != nil {
		return err
	}
	if err := t.file.Open(); err != nil {
		logger.Debugf("open of table %s failed (%v), creating it", t.name, err)
		return t.file.Create()
	}
	return nil
}

// Drop deletes the table from disk and marks the object unusable.
func (t *HeapTable) Drop() error {
	if err := t.checkDropped(); err != nil {
		return err
	}
	if err := t.file.Drop(); err != nil {
		return err
	}
	t.dropped = true
	return nil
}

// Open opens the underlying heap file.
func (t *HeapTable) Open() error {
	if err := t.checkDropped(); err != nil {
		return err
	}
	return t.file.Open()
}

// Close closes the underlying heap file.
func (t *HeapTable) Close() error {
	if err := t.checkDropped(); err != nil {
		return err
	}
	return t.file.Close()
}

// Insert validates the row against the schema and appends it, returning a
// handle to the new row.
func (t *HeapTable) Insert(row types.ValueDict) (types.Handle, error) {
	if err := t.checkDropped(); err != nil {
		return types.Handle{}, err
	}
	if err := t.Open(); err != nil {
		return types.Handle{}, err
	}
	full, err := t.validate(row)
	if err != nil {
		return types.Handle{}, err
	}
	return t.append(full)
}

// Update is not part of this engine yet.
func (t *HeapTable) Update(handle types.Handle, values types.ValueDict) error {
	return &RelationError{"update is not implemented"}
}

// Delete is not part of this engine yet.
func (t *HeapTable) Delete(handle types.Handle) error {
	return &RelationError{"delete is not implemented"}
}

// Select enumerates every live row, block id ascending then record id
// ascending.
func (t *HeapTable) Select() ([]types.Handle, error) {
	if err := t.checkDropped(); err != nil {
		return nil, err
	}
	handles := make([]types.Handle, 0)
	for _, blockID := range t.file.BlockIDs() {
		block, err := t.file.Get(blockID)
		if err != nil {
			return nil, err
		}
		for _, recordID := range block.IDs() {
			handles = append(handles, types.Handle{BlockID: blockID, RecordID: recordID})
		}
	}
	return handles, nil
}

// SelectWhere enumerates like Select; predicate filtering happens above this
// layer, via Project.
func (t *HeapTable) SelectWhere(where types.ValueDict) ([]types.Handle, error) {
	return t.Select()
}

// Project resolves a handle to its row, unmarshalled against the full column
// list.
func (t *HeapTable) Project(handle types.Handle) (types.ValueDict, error) {
	if err := t.checkDropped(); err != nil {
		return nil, err
	}
	block, err := t.file.Get(handle.BlockID)
	if err != nil {
		return nil, err
	}
	data := block.Get(handle.RecordID)
	if data == nil {
		return nil, &RelationError{fmt.Sprintf("no record %d in block %d of table %s",
			handle.RecordID, handle.BlockID, t.name)}
	}
	return t.unmarshal(data)
}

// ProjectColumns is not part of this engine yet.
func (t *HeapTable) ProjectColumns(handle types.Handle, columnNames []string) (types.ValueDict, error) {
	return nil, &RelationError{"projection onto a column subset is not implemented"}
}

// validate builds the full row in declared-column terms. Every declared
// column must be present; unknown keys in the input are ignored.
func (t *HeapTable) validate(row types.ValueDict) (types.ValueDict, error) {
	full := make(types.ValueDict, len(t.columnNames))
	for _, name := range t.columnNames {
		value, ok := row[name]
		if !ok {
			return nil, &RelationError{"don't know how to handle NULLs, defaults, etc. yet"}
		}
		full[name] = value
	}
	return full, nil
}

// append marshals the row into the last block, rolling over to a fresh block
// when it does not fit. A row too large for an empty block surfaces the
// second no-room failure.
func (t *HeapTable) append(row types.ValueDict) (types.Handle, error) {
	data, err := t.marshal(row)
	if err != nil {
		return types.Handle{}, err
	}

	block, err := t.file.Get(t.file.LastBlockID())
	if err != nil {
		return types.Handle{}, err
	}
	recordID, err := block.Add(data)
	var noRoom *BlockNoRoomError
	if errors.As(err, &noRoom) {
		block, err = t.file.GetNew()
		if err != nil {
			return types.Handle{}, err
		}
		recordID, err = block.Add(data)
	}
	if err != nil {
		return types.Handle{}, err
	}

	if err := t.file.Put(block); err != nil {
		return types.Handle{}, err
	}
	return types.Handle{BlockID: t.file.LastBlockID(), RecordID: recordID}, nil
}

// marshal lays the row out in declared column order: INT as 4 little-endian
// bytes, TEXT as a 2-byte length followed by the raw bytes.
func (t *HeapTable) marshal(row types.ValueDict) ([]byte, error) {
	buf := new(bytes.Buffer)
	for i, name := range t.columnNames {
		value := row[name]
		switch t.columnAttributes[i].DataType {
		case types.Int:
			if err := binary.Write(buf, binary.LittleEndian, value.N); err != nil {
				return nil, err
			}
		case types.Text:
			if len(value.S) > 65535 {
				return nil, &RelationError{fmt.Sprintf("text value for column %s is too long", name)}
			}
			if err := binary.Write(buf, binary.LittleEndian, uint16(len(value.S))); err != nil {
				return nil, err
			}
			buf.WriteString(value.S)
		default:
			return nil, &RelationError{"only know how to marshal INT and TEXT"}
		}
	}
	return buf.Bytes(), nil
}

// unmarshal mirrors marshal, walking the buffer in declared column order.
func (t *HeapTable) unmarshal(data []byte) (types.ValueDict, error) {
	row := make(types.ValueDict, len(t.columnNames))
	offset := 0
	for i, name := range t.columnNames {
		switch t.columnAttributes[i].DataType {
		case types.Int:
			if offset+4 > len(data) {
				return nil, &RelationError{fmt.Sprintf("row bytes truncated at column %s", name)}
			}
			row[name] = types.IntValue(int32(binary.LittleEndian.Uint32(data[offset : offset+4])))
			offset += 4
		case types.Text:
			if offset+2 > len(data) {
				return nil, &RelationError{fmt.Sprintf("row bytes truncated at column %s", name)}
			}
			size := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
			offset += 2
			if offset+size > len(data) {
				return nil, &RelationError{fmt.Sprintf("row bytes truncated at column %s", name)}
			}
			row[name] = types.TextValue(string(data[offset : offset+size]))
			offset += size
		default:
			return nil, &RelationError{"only know how to unmarshal INT and TEXT"}
		}
	}
	return row, nil
}

func (t *HeapTable) checkDropped() error {
	if t.dropped {
		return &RelationError{fmt.Sprintf("table %s has been dropped", t.name)}
	}
	return nil
}
