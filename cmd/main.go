//go:build windows

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"

	hashresolve "github.com/carved4/go-hashresolve"
	"github.com/carved4/go-hashresolve/pkg/resolve"
)

func main() {
	hashresolve.SetLogger(log.NewLogfmtLogger(os.Stderr))

	fmt.Println("go-hashresolve demo :3")
	showMenu()
}

func showMenu() {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nchoose an option:")
		fmt.Println("1. resolve a dll/function by name")
		fmt.Println("2. list a module's exports")
		fmt.Println("3. show loaded modules")
		fmt.Println("4. show current module path")
		fmt.Println("5. exit")
		fmt.Print("\nenter choice (1-5): ")

		if !scanner.Scan() {
			break
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			resolveSymbol(scanner)
		case "2":
			listExports(scanner)
		case "3":
			listModules()
		case "4":
			showSelfPath()
		case "5":
			fmt.Println("goodbye!")
			return
		default:
			fmt.Println("invalid choice. please enter 1-5.")
		}
	}
}

func readModuleBase(scanner *bufio.Scanner) (string, uintptr, bool) {
	fmt.Print("enter dll name (e.g., kernel32.dll) or 'back' to return: ")
	if !scanner.Scan() {
		return "", 0, false
	}
	dllName := strings.TrimSpace(scanner.Text())
	if dllName == "" || strings.EqualFold(dllName, "back") {
		return "", 0, false
	}

	moduleHash := hashresolve.GetModuleHash(dllName)
	moduleBase := hashresolve.GetModuleBase(moduleHash)
	if moduleBase == 0 {
		fmt.Printf("module %q not loaded (hash 0x%08X)\n", dllName, moduleHash)
		return "", 0, false
	}
	fmt.Printf("module %q -> hash 0x%08X, base 0x%X\n", dllName, moduleHash, moduleBase)
	return dllName, moduleBase, true
}

func resolveSymbol(scanner *bufio.Scanner) {
	fmt.Println("\n--- dll/function resolver ---")

	for {
		_, moduleBase, ok := readModuleBase(scanner)
		if !ok {
			return
		}

		fmt.Print("enter function name: ")
		if !scanner.Scan() {
			return
		}
		funcName := strings.TrimSpace(scanner.Text())
		if funcName == "" {
			continue
		}

		funcHash := hashresolve.GetHash(funcName)
		funcAddr := hashresolve.GetFunctionAddress(moduleBase, funcHash)
		if funcAddr == 0 {
			fmt.Printf("function %q not found (hash 0x%08X)\n", funcName, funcHash)
			continue
		}
		fmt.Printf("function %q -> hash 0x%08X, address 0x%X\n", funcName, funcHash, funcAddr)
	}
}

func listExports(scanner *bufio.Scanner) {
	dllName, moduleBase, ok := readModuleBase(scanner)
	if !ok {
		return
	}

	if err := hashresolve.VerifyExports(moduleBase); err != nil {
		fmt.Printf("warning: export cross-check failed: %v\n", err)
	}

	exports := hashresolve.ModuleExports(moduleBase)
	fmt.Printf("%d named exports in %s:\n", len(exports), dllName)
	for _, e := range exports {
		fmt.Printf("  %4d  0x%08X  %s\n", e.Ordinal, e.RVA, e.Name)
	}
}

func listModules() {
	hashresolve.EnumerateModules(func(m resolve.Module) bool {
		fmt.Printf("  0x%016X  %8d KiB  %-28s %s\n", m.Base, m.Size/1024, m.Name, m.Path)
		return true
	})
}

func showSelfPath() {
	path, err := hashresolve.CurrentModulePath()
	if err != nil {
		fmt.Printf("self location failed: %v\n", err)
		return
	}
	fmt.Printf("current module: %s\n", path)
}
