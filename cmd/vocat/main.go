// Command vocat inspects and validates values against a catalog of value
// object types.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errInvalidValues) {
			fmt.Fprintln(os.Stderr, "vocat:", err)
		}
		os.Exit(1)
	}
}
