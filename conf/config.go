package conf

import (
	"fmt"
	"path/filepath"

	"gopkg.in/ini.v1"

	"HeapDB/dbenv"
)

// FileName is the optional configuration file looked up inside the database
// environment directory.
const FileName = "heapdb.ini"

// Cfg carries the engine settings.
//
// [heapdb]
// log_level = info
// pool_size = 4194304
type Cfg struct {
	LogLevel  string
	PoolBytes int64
}

// Load reads FileName from the environment directory. A missing file yields
// the defaults.
func Load(envDir string) (*Cfg, error) {
	cfg := &Cfg{
		LogLevel:  "info",
		PoolBytes: dbenv.DefaultPoolBytes,
	}

	path := filepath.Join(envDir, FileName)
	raw, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	sec := raw.Section("heapdb")
	cfg.LogLevel = sec.Key("log_level").MustString(cfg.LogLevel)
	cfg.PoolBytes = sec.Key("pool_size").MustInt64(cfg.PoolBytes)
	if cfg.PoolBytes <= 0 {
		return nil, fmt.Errorf("pool_size must be positive, got %d", cfg.PoolBytes)
	}
	return cfg, nil
}
