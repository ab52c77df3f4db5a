//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "deepl-helper"
	mainPath   = "./cmd/deepl-helper"
)

// Default target when running mage without arguments
var Default = Build

// Build builds the deepl-helper binary
func Build() error {
	fmt.Println("Building", binaryName)
	return sh.RunV("go", "build", "-o", binaryName, mainPath)
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), binaryName)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestRace runs all tests with the race detector
func TestRace() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and tests
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Integration runs the tests that talk to the real providers. They are
// skipped unless DEEPL_AUTH_KEY, OPENAI_API_KEY or GEMINI_API_KEY is set.
func Integration() error {
	return sh.RunV("go", "test", "-run", "Integration", "-v", "./internal/...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	return os.RemoveAll(binaryName)
}
