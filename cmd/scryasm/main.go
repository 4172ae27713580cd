package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"scryasm/pkg/asm"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: scryasm <source file> [output file]")
	}
	srcPath := os.Args[1]

	outPath := strings.TrimSuffix(srcPath, ".s") + ".bin"
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	sourceBytes, err := os.ReadFile(srcPath)
	if err != nil {
		log.Fatalf("Failed to read source file: %v", err)
	}

	code, err := asm.Raw{}.Assemble(string(sourceBytes))
	if err != nil {
		log.Fatalf("Assembly failed: %v", err)
	}

	if err := os.WriteFile(outPath, code, 0o644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(code), outPath)
}
