// Inspect a heap table file (.db).
// Usage: go run ./cmd/dump_heap <path-to-.db>
// Example: go run ./cmd/dump_heap data/students.db
package main

import (
	"fmt"
	"os"

	"HeapDB/heap"
	"HeapDB/pagestore"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <table.db>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s data/students.db\n", os.Args[0])
		os.Exit(1)
	}
	path := os.Args[1]

	store, err := pagestore.Open(path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	for blockID := uint32(1); blockID <= store.Records(); blockID++ {
		buf, err := store.Read(blockID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading block %d: %v\n", blockID, err)
			os.Exit(1)
		}
		page := heap.NewSlottedPage(buf, blockID, false)
		live := page.IDs()
		fmt.Printf("block %d: num_records=%d end_free=%d live=%d\n",
			blockID, page.NumRecords(), page.EndFree(), len(live))
		for _, recordID := range live {
			fmt.Printf("  record %d: %d bytes\n", recordID, len(page.Get(recordID)))
		}
	}
}
