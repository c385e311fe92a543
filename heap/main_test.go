package heap

import (
	"os"
	"testing"

	"HeapDB/dbenv"
	"HeapDB/logger"
)

// The heap tests share one database environment for the whole package run,
// the way the engine itself does for the whole process.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "heapdb_heap_test")
	if err != nil {
		panic(err)
	}
	logger.Init("error")
	if err := dbenv.Open(dir, dbenv.DefaultPoolBytes); err != nil {
		panic(err)
	}

	code := m.Run()

	dbenv.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}
