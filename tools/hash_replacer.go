// Build-time tool: replaces GetHash("name") / GetModuleHash("name") call
// sites with precomputed constants so the plaintext names never reach the
// shipped binary. Hashing goes through pkg/obf, the same code the runtime
// resolver uses, so emitted constants cannot drift from it. Constants
// emitted with --alg other than fnv1a only resolve if the program calls
// obf.SetDefaultAlgorithm with the matching algorithm at startup.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/carved4/go-hashresolve/pkg/obf"
)

var (
	hashPattern       = regexp.MustCompile(`(\w+\.)?GetHash\("([^"]+)"\)`)
	moduleHashPattern = regexp.MustCompile(`(\w+\.)?GetModuleHash\("([^"]+)"\)`)
)

func processFile(path string, alg obf.Algorithm, dryRun bool) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	original := string(content)
	modified := original
	replacements := make(map[string]string)

	collect := func(pattern *regexp.Regexp, normalize bool) {
		for _, match := range pattern.FindAllStringSubmatch(original, -1) {
			fullMatch := match[0]
			literal := match[2]
			if normalize {
				literal = obf.NormalizeModuleName(literal)
			}

			hash := obf.GetHashWithAlgorithm(literal, alg)
			replacement := fmt.Sprintf("uint32(0x%08X)", hash)

			if _, exists := replacements[fullMatch]; !exists {
				replacements[fullMatch] = replacement
				fmt.Printf("  %s -> %s  // %q\n", fullMatch, replacement, literal)
			}
		}
	}

	matches := len(hashPattern.FindAllString(original, -1)) +
		len(moduleHashPattern.FindAllString(original, -1))
	if matches == 0 {
		return nil
	}

	fmt.Printf("\n%s:\n", path)
	collect(moduleHashPattern, true)
	collect(hashPattern, false)

	for old, new := range replacements {
		modified = strings.ReplaceAll(modified, old, new)
	}

	if !dryRun && modified != original {
		return os.WriteFile(path, []byte(modified), 0644)
	}

	return nil
}

func main() {
	dryRun := false
	alg := obf.AlgFNV1a
	root := ".."

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--dry-run":
			dryRun = true
			fmt.Println("DRY RUN MODE - No files will be modified")
		case strings.HasPrefix(args[0], "--alg="):
			switch strings.TrimPrefix(args[0], "--alg=") {
			case "fnv1a":
				alg = obf.AlgFNV1a
			case "djb2":
				alg = obf.AlgDJB2
			case "xxh64":
				alg = obf.AlgXXH64
			default:
				fmt.Println("usage: hash_replacer [--dry-run] [--alg=fnv1a|djb2|xxh64] [root]")
				os.Exit(1)
			}
		default:
			root = args[0]
		}
		args = args[1:]
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if name == "tools" || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		return processFile(path, alg, dryRun)
	})
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
