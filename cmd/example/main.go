// Command example prints timestamps baked in at build time next to the live
// clock. Rebuild after go generate to see the constants change; run it twice
// without regenerating to see that they do not.
package main

//go:generate go run ../buildtime generate --const BuildTimeUTC=utc --const BuildTimeLocal=local --const BuildDate=utc:%Y-%m-%d

import (
	"fmt"
	"os"
	"time"

	"github.com/verustcode/buildtime/pkg/buildtime"
)

func main() {
	fmt.Println("built (UTC):  ", BuildTimeUTC)
	fmt.Println("built (local):", BuildTimeLocal)
	fmt.Println("built on:     ", BuildDate)

	// The runtime provider resolves once per process; later calls return the
	// same instant even after the clock moves on.
	first, err := buildtime.TimestampUTC()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	time.Sleep(1100 * time.Millisecond)
	second, err := buildtime.TimestampUTC()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("started:      ", first)
	fmt.Println("started again:", second)
	fmt.Println("now:          ", time.Now().UTC().Format(time.RFC3339))
}
