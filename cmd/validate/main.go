package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ZABarton/idle-artifice-sub000/pkg/content"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <tree.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	result, err := validateFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}

	if !result.OK() {
		fmt.Fprintf(os.Stderr, "Validation errors in %s:\n", filename)
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	printLayout(result)
	fmt.Println("Dialog tree is valid!")
}

func validateFile(filename string) (*content.TreeValidation, error) {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return nil, fmt.Errorf("tree file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidTreeFilename(nameWithoutExt) {
		return nil, fmt.Errorf("tree filename '%s' must be lowercase snake_case (e.g., forge_keeper_intro.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var tree content.DialogTree
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}
	if tree.ID == "" {
		tree.ID = nameWithoutExt
	}

	result := content.ValidateTree(&tree)
	return result, nil
}

// printLayout shows each conversation level and the nodes on it, the
// same breadth-first ordering an editor would use to lay the tree out.
func printLayout(result *content.TreeValidation) {
	if len(result.Depths) == 0 {
		return
	}

	maxDepth := 0
	byDepth := make(map[int][]string)
	for id, depth := range result.Depths {
		byDepth[depth] = append(byDepth[depth], id)
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	fmt.Println("Layout:")
	for depth := 0; depth <= maxDepth; depth++ {
		ids := byDepth[depth]
		sort.Strings(ids)
		fmt.Printf("  level %d: %s\n", depth, strings.Join(ids, ", "))
	}
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidTreeFilename(name string) bool {
	return validFilenameRegex.MatchString(name)
}
