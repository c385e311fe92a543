package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"HeapDB/conf"
	"HeapDB/dbenv"
	"HeapDB/heap"
	"HeapDB/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: heapdb dbenvpath")
		os.Exit(1)
	}
	envDir := os.Args[1]

	cfg, err := conf.Load(envDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "heapdb: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	if err := dbenv.Open(envDir, cfg.PoolBytes); err != nil {
		fmt.Fprintf(os.Stderr, "heapdb: %v\n", err)
		os.Exit(1)
	}
	defer dbenv.Close()

	fmt.Printf("(heapdb: running with database environment at %s)\n", envDir)

	scanner := bufio.NewScanner(os.Stdin)
	// REPL
	for {
		fmt.Print("SQL> ")

		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" {
			break
		}
		if query == "test" {
			if heap.SelfTest() {
				fmt.Println("test_heap_storage: ok")
			} else {
				fmt.Println("test_heap_storage: failed")
			}
			continue
		}

		// The SQL parser and dispatcher live outside this engine; without
		// them every other line is a parse failure.
		fmt.Printf("invalid SQL: %s\n", query)
	}
}
