// Command boardfind lists ScribbleBoard servers advertised on the local
// network.
package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/scribbleboard/scribbleboard/internal/discovery"
)

func main() {
	var found atomic.Int32
	err := discovery.Browse(func(addr string) {
		found.Add(1)
		fmt.Printf("http://%s\n", addr)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "lookup failed: %v\n", err)
		os.Exit(1)
	}
	// Give late responders a moment to drain before deciding nothing was
	// found.
	time.Sleep(200 * time.Millisecond)
	if found.Load() == 0 {
		fmt.Println("no boards found")
	}
}
