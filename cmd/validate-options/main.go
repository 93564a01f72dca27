// Command validate-options checks newsletter option files.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blockedby/newsletter-light/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("No files to check.")
		os.Exit(0)
	}

	failed := false
	for _, path := range os.Args[1:] {
		if err := check(path); err != nil {
			fmt.Printf("❌ %s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("✅ %s is valid\n", path)
	}

	if failed {
		os.Exit(1)
	}
}

func check(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	if unknown := unknownKeys(keys); len(unknown) > 0 {
		return fmt.Errorf("unknown options: %v", unknown)
	}

	_, err = config.ParseOptions(data)
	return err
}

func unknownKeys(keys map[string]any) []string {
	known := map[string]bool{}
	var probe map[string]any
	raw, _ := yaml.Marshal(config.DefaultOptions())
	_ = yaml.Unmarshal(raw, &probe)
	for k := range probe {
		known[k] = true
	}

	var out []string
	for k := range keys {
		if !known[k] {
			out = append(out, k)
		}
	}
	return out
}
