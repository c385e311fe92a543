package heap

import (
	"bytes"
	"errors"

	"HeapDB/logger"
	"HeapDB/types"
)

// SelfTest exercises the slotted page and the full table round-trip against
// throwaway tables in the open database environment. It logs the first
// failing check and reports overall success. The shell's "test" line is
// backed by it.
func SelfTest() bool {
	if !selfTestTable() {
		return false
	}
	return selfTestSlottedPage()
}

func selfTestFailed(message string) bool {
	logger.Errorf("FAILED TEST: %s", message)
	return false
}

func selfTestSlottedPage() bool {
	block := make([]byte, BlockSize)
	page := NewSlottedPage(block, 1, true)

	rec1 := []byte("hello\x00")
	id, err := page.Add(rec1)
	if err != nil || id != 1 {
		return selfTestFailed("add id 1")
	}
	if !bytes.Equal(page.Get(1), rec1) {
		return selfTestFailed("get 1 back")
	}

	rec2 := []byte("goodbye\x00")
	id, err = page.Add(rec2)
	if err != nil || id != 2 {
		return selfTestFailed("add id 2")
	}
	if !bytes.Equal(page.Get(2), rec2) {
		return selfTestFailed("get 2 back")
	}

	// expanding put, then make sure the neighbour survived the slide
	rec1Big := []byte("something much bigger\x00")
	if err := page.Put(1, rec1Big); err != nil {
		return selfTestFailed("expanding put of 1")
	}
	if !bytes.Equal(page.Get(2), rec2) {
		return selfTestFailed("get 2 back after expanding put of 1")
	}
	if !bytes.Equal(page.Get(1), rec1Big) {
		return selfTestFailed("get 1 back after expanding put of 1")
	}

	// contracting put
	if err := page.Put(1, rec1); err != nil {
		return selfTestFailed("contracting put of 1")
	}
	if !bytes.Equal(page.Get(2), rec2) {
		return selfTestFailed("get 2 back after contracting put of 1")
	}
	if !bytes.Equal(page.Get(1), rec1) {
		return selfTestFailed("get 1 back after contracting put of 1")
	}

	ids := page.IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		return selfTestFailed("ids() with 2 records")
	}
	page.Del(1)
	ids = page.IDs()
	if len(ids) != 1 || ids[0] != 2 {
		return selfTestFailed("ids() with 1 record remaining")
	}
	if page.Get(1) != nil {
		return selfTestFailed("get of deleted record was not nil")
	}

	// too big, but only because there are records in there
	_, err = page.Add(make([]byte, BlockSize-10))
	var noRoom *BlockNoRoomError
	if !errors.As(err, &noRoom) {
		return selfTestFailed("add too big did not report no room")
	}
	return true
}

func selfTestTable() bool {
	columnNames := []string{"a", "b"}
	columnAttributes := []types.ColumnAttribute{
		{DataType: types.Int},
		{DataType: types.Text},
	}

	table1 := NewHeapTable("_test_create_drop", columnNames, columnAttributes)
	if err := table1.Create(); err != nil {
		return selfTestFailed("create: " + err.Error())
	}
	logger.Debugf("create ok")
	if err := table1.Drop(); err != nil {
		return selfTestFailed("drop: " + err.Error())
	}
	logger.Debugf("drop ok")

	table := NewHeapTable("_test_data", columnNames, columnAttributes)
	if err := table.CreateIfNotExists(); err != nil {
		return selfTestFailed("create_if_not_exists: " + err.Error())
	}
	logger.Debugf("create_if_not_exists ok")

	row := types.ValueDict{
		"a": types.IntValue(12),
		"b": types.TextValue("Hello!"),
	}
	if _, err := table.Insert(row); err != nil {
		return selfTestFailed("insert: " + err.Error())
	}
	logger.Debugf("insert ok")

	handles, err := table.Select()
	if err != nil {
		return selfTestFailed("select: " + err.Error())
	}
	logger.Debugf("select ok %d", len(handles))
	if len(handles) != 1 {
		return selfTestFailed("select did not find the inserted row")
	}

	result, err := table.Project(handles[0])
	if err != nil {
		return selfTestFailed("project: " + err.Error())
	}
	logger.Debugf("project ok")
	if result["a"].N != 12 {
		return selfTestFailed("projected value of a")
	}
	if result["b"].S != "Hello!" {
		return selfTestFailed("projected value of b")
	}

	if err := table.Drop(); err != nil {
		return selfTestFailed("drop after round-trip: " + err.Error())
	}
	return true
}
