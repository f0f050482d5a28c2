package arch_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
)

const internalImportPrefix = "github.com/papapumpkin/igmguesses/internal/"

// internalDir returns the absolute path of internal/, found by walking up
// from this file to the directory holding go.mod.
func internalDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	for dir := filepath.Dir(file); ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "internal")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above " + file)
		}
		dir = parent
	}
}

// internalPackages lists the directories under internal/ that hold Go
// source, except this one.
func internalPackages(t *testing.T) []string {
	t.Helper()
	dir := internalDir(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var pkgs []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != "arch_test" && len(goFiles(t, filepath.Join(dir, e.Name()), false)) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	return pkgs
}

// goFiles lists the .go files in dir, sorted. Test files are included only
// when withTests is set.
func goFiles(t *testing.T, dir string, withTests bool) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !withTests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

// internalImports returns the internal packages imported by the non-test
// files of pkg, sorted and deduplicated.
func internalImports(t *testing.T, pkg string) []string {
	t.Helper()
	seen := map[string]bool{}
	fset := token.NewFileSet()
	for _, f := range goFiles(t, filepath.Join(internalDir(t), pkg), false) {
		node, err := parser.ParseFile(fset, f, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatal(err)
		}
		for _, imp := range node.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if rel, ok := strings.CutPrefix(path, internalImportPrefix); ok {
				rel, _, _ = strings.Cut(rel, "/")
				seen[rel] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// generated reports whether the file carries a "Code generated" header.
func generated(t *testing.T, path string) bool {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	head, _, _ := strings.Cut(string(data), "package ")
	return strings.Contains(head, "Code generated")
}

func TestInternalImportsOfLeafPackage(t *testing.T) {
	t.Parallel()
	if got := internalImports(t, "voigt"); len(got) != 0 {
		t.Errorf("voigt imports %v, want nothing internal", got)
	}
	got := internalImports(t, "survey")
	if len(got) != 1 || got[0] != "guesses" {
		t.Errorf("survey imports %v, want [guesses]", got)
	}
}
