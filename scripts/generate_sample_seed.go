//go:build ignore

// Writes sample seed files for cmd/seed:
//
//	go run scripts/generate_sample_seed.go
//	go run ./cmd/seed -coupons data/seed/coupons.csv.gz -categories data/seed/categories.csv.gz
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	pgzip "github.com/klauspost/pgzip"
)

func main() {
	dataDir := "data/seed"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][]string{
		"coupons.csv.gz": {
			"code,discount,minimum",
			"SAVE5,5,15",
			"SAVE10,10,50",
			"WELCOME20,20,100",
		},
		"categories.csv.gz": {
			"name,description",
			`Books,"Novels, essays and comics"`,
			"Electronics,Phones and accessories",
			"Home,Kitchen and decoration",
		},
	}

	for name, lines := range files {
		path := filepath.Join(dataDir, name)
		if err := writeGzip(path, lines); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("Created %s with %d rows\n", path, len(lines)-1)
	}
}

func writeGzip(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := pgzip.NewWriter(file)
	if _, err := w.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
		return err
	}
	return w.Close()
}
