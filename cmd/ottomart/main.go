// OttoMart is a grocery cart assistant. It recommends recipes from what
// is in the cart, prices them per serving and fills in the products a
// recipe still needs.
//
// Usage:
//
//	ottomart [--config file] [--verbose] [--quiet] [command]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
