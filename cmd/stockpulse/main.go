// StockPulse - AI portfolio reports with scheduled delivery
package main

import (
	"fmt"
	"os"

	"github.com/findosh/stockpulse/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
