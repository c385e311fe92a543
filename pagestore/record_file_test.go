package pagestore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage(fill byte) []byte {
	page := make([]byte, RecordSize)
	for i := range page {
		page[i] = fill
	}
	return page
}

func TestRecordFileCreateIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")

	rf, err := Create(path, nil)
	require.NoError(t, err)
	defer rf.Close()

	_, err = Create(path, nil)
	require.Error(t, err)
}

func TestRecordFileReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, nil)
	require.NoError(t, err)
	defer rf.Close()

	require.NoError(t, rf.Write(1, testPage(0xAA)))
	require.NoError(t, rf.Write(2, testPage(0xBB)))
	assert.Equal(t, uint32(2), rf.Records())

	page, err := rf.Read(2)
	require.NoError(t, err)
	assert.Equal(t, testPage(0xBB), page)

	// the returned buffer is the caller's: mutating it must not leak back
	page[0] = 0x00
	reread, err := rf.Read(2)
	require.NoError(t, err)
	assert.Equal(t, testPage(0xBB), reread)
}

func TestRecordFileRejectsBadSizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, nil)
	require.NoError(t, err)
	defer rf.Close()

	require.Error(t, rf.Write(1, make([]byte, RecordSize-1)))
	require.Error(t, rf.Write(1, make([]byte, RecordSize+1)))
}

func TestRecordFileRecordZeroReserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, nil)
	require.NoError(t, err)
	defer rf.Close()

	require.Error(t, rf.Write(0, testPage(0x01)))
	_, err = rf.Read(0)
	require.Error(t, err)
}

func TestRecordFileOpenCountsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, nil)
	require.NoError(t, err)
	require.NoError(t, rf.Write(1, testPage(0x11)))
	require.NoError(t, rf.Write(2, testPage(0x22)))
	require.NoError(t, rf.Write(3, testPage(0x33)))
	require.NoError(t, rf.Close())

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, uint32(3), reopened.Records())

	page, err := reopened.Read(1)
	require.NoError(t, err)
	assert.Equal(t, testPage(0x11), page)
}

func TestRecordFileClosedIO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, nil)
	require.NoError(t, err)
	require.NoError(t, rf.Close())
	require.NoError(t, rf.Close()) // idempotent

	_, err = rf.Read(1)
	require.Error(t, err)
	require.Error(t, rf.Write(1, testPage(0x01)))
}

func TestRecordFileRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, nil)
	require.NoError(t, err)
	require.NoError(t, rf.Write(1, testPage(0x42)))
	require.NoError(t, rf.Remove())

	_, err = Open(path, nil)
	require.Error(t, err)
}

// Reads served through the pool still hand out independent buffers, and a
// write refreshes what later reads observe.
func TestRecordFileWithPool(t *testing.T) {
	pool, err := NewPool(1 << 20)
	require.NoError(t, err)
	defer pool.Close()

	path := filepath.Join(t.TempDir(), "table.db")
	rf, err := Create(path, pool)
	require.NoError(t, err)
	defer rf.Close()

	require.NoError(t, rf.Write(1, testPage(0x5A)))
	pool.Wait()

	first, err := rf.Read(1)
	require.NoError(t, err)
	first[0] = 0xFF

	second, err := rf.Read(1)
	require.NoError(t, err)
	assert.Equal(t, testPage(0x5A), second)

	require.NoError(t, rf.Write(1, testPage(0x6B)))
	pool.Wait()
	third, err := rf.Read(1)
	require.NoError(t, err)
	assert.Equal(t, testPage(0x6B), third)
}
