package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapFileCreateAllocatesFirstBlock(t *testing.T) {
	file := NewHeapFile("hf_create")
	require.NoError(t, file.Create())
	defer file.Drop()

	assert.Equal(t, uint32(1), file.LastBlockID())
	assert.Equal(t, []uint32{1}, file.BlockIDs())

	block, err := file.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint16(0), block.NumRecords())
	assert.Equal(t, uint16(BlockSize-1), block.EndFree())
}

func TestHeapFileExclusiveCreate(t *testing.T) {
	file := NewHeapFile("hf_exclusive")
	require.NoError(t, file.Create())
	defer file.Drop()

	again := NewHeapFile("hf_exclusive")
	require.Error(t, again.Create())
}

func TestHeapFileGetNew(t *testing.T) {
	file := NewHeapFile("hf_getnew")
	require.NoError(t, file.Create())
	defer file.Drop()

	block, err := file.GetNew()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), block.BlockID())
	assert.Equal(t, uint32(2), file.LastBlockID())
	assert.Equal(t, []uint32{1, 2}, file.BlockIDs())

	id, err := block.Add([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, file.Put(block))

	reread, err := file.Get(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), reread.Get(id))
}

// Reopening a heap file learns the highest block id from the record count.
func TestHeapFileReopen(t *testing.T) {
	file := NewHeapFile("hf_reopen")
	require.NoError(t, file.Create())
	defer file.Drop()

	block, err := file.Get(1)
	require.NoError(t, err)
	id, err := block.Add([]byte("durable"))
	require.NoError(t, err)
	require.NoError(t, file.Put(block))
	_, err = file.GetNew()
	require.NoError(t, err)

	require.NoError(t, file.Close())
	require.NoError(t, file.Close()) // idempotent

	require.NoError(t, file.Open())
	require.NoError(t, file.Open()) // idempotent
	assert.Equal(t, uint32(2), file.LastBlockID())

	block, err = file.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), block.Get(id))
}

func TestHeapFileClosedIO(t *testing.T) {
	file := NewHeapFile("hf_closed")
	_, err := file.Get(1)
	require.Error(t, err)
	_, err = file.GetNew()
	require.Error(t, err)
}

func TestHeapFileDropRemovesFile(t *testing.T) {
	file := NewHeapFile("hf_dropped")
	require.NoError(t, file.Create())
	require.NoError(t, file.Drop())

	// gone from disk, so a fresh open must fail
	require.Error(t, NewHeapFile("hf_dropped").Open())
}
