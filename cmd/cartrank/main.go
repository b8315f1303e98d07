// Command cartrank compares total cart cost and travel distance across
// retail branches and recommends the top five.
package main

import (
	"fmt"
	"os"

	"github.com/smartcart-labs/cartrank-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
