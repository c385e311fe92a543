package dbenv

import (
	"fmt"
	"os"
	"path/filepath"

	"HeapDB/pagestore"
)

// DefaultPoolBytes is the page pool capacity used when no configuration
// overrides it.
const DefaultPoolBytes int64 = 4 << 20

// Env is the process-wide database environment: the directory holding every
// table's heap file, plus the in-memory page pool those files share. It must
// be opened before any table operation.
type Env struct {
	dir  string
	pool *pagestore.Pool
}

var env *Env

// Open creates the environment directory if needed, initialises the shared
// page pool and installs the environment for the whole process. Opening a
// second environment is an error.
func Open(dir string, poolBytes int64) error {
	if env != nil {
		return fmt.Errorf("database environment already open at %s", env.dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create environment directory %s: %w", dir, err)
	}
	pool, err := pagestore.NewPool(poolBytes)
	if err != nil {
		return err
	}
	env = &Env{dir: dir, pool: pool}
	return nil
}

// Get returns the process environment, or nil if Open has not been called.
func Get() *Env {
	return env
}

// Close releases the environment and its page pool.
func Close() {
	if env == nil {
		return
	}
	env.pool.Close()
	env = nil
}

// Dir returns the environment directory.
func (e *Env) Dir() string {
	return e.dir
}

// Pool returns the shared page pool.
func (e *Env) Pool() *pagestore.Pool {
	return e.pool
}

// Path resolves a file name inside the environment directory.
func (e *Env) Path(name string) string {
	return filepath.Join(e.dir, name)
}
