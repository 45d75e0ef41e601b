package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bond-kaneko/go-calc/calc"
	"github.com/bond-kaneko/go-calc/config"
	"github.com/bond-kaneko/go-calc/keypad"
)

func main() {
	chain := flag.String("chain", "replace", "Operator chaining: replace or evaluate")
	maxDigits := flag.Int("max-digits", calc.DefaultMaxDigits, "Maximum digits per operand")
	flag.Parse()

	// Check command line arguments
	if flag.NArg() == 0 {
		fmt.Printf("Usage: %s [-chain replace|evaluate] <keys>...\n", os.Args[0])
		os.Exit(1)
	}

	policy, err := config.ParseChain(*chain)
	if err != nil {
		log.Fatal("Invalid chain policy: ", err)
	}

	keys, err := keypad.Parse(strings.Join(flag.Args(), " "))
	if err != nil {
		log.Fatal("Failed to parse keys: ", err)
	}

	engine := calc.New(calc.Options{MaxDigits: *maxDigits, Chain: policy})
	fmt.Printf("%-4s %-8s %-20s %s\n", "key", "state", "expression", "display")

	// Print the engine after every key press
	for _, k := range keys {
		if !keypad.Dispatch(engine, k) {
			fmt.Printf("%-4s (ignored)\n", k.Label())
			continue
		}
		fmt.Printf("%-4s %-8s %-20s %s\n", k.Label(), engine.State(), engine.Expression(), engine.Display())
	}

	for _, line := range engine.HistoryStrings() {
		fmt.Printf("History: %s\n", line)
	}
}
