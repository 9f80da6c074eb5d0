package classfile

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/javelin/descriptor"
)

func writeJar(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestScannerConvergesOnOneSymbol(t *testing.T) {
	dir := t.TempDir()
	data := sampleClass()
	for i := 0; i < 40; i++ {
		sub := filepath.Join(dir, fmt.Sprintf("pkg%d", i%4))
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(sub, fmt.Sprintf("Point%d.class", i)), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	jar := filepath.Join(dir, "lib.jar")
	writeJar(t, jar, map[string][]byte{
		"com/example/Point.class": data,
		"META-INF/MANIFEST.MF":    []byte("Manifest-Version: 1.0\n"),
	})

	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	s := NewScanner(&Parser{Table: tbl})
	s.Workers = 6
	results, err := s.Scan(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(results) != 41 {
		t.Fatalf("results = %d, want 41", len(results))
	}

	first := results[0].Class
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Path, r.Err)
		}
		if r.Class.ThisClass != first.ThisClass {
			t.Errorf("%s: this_class is a different symbol", r.Path)
		}
		for i, m := range r.Class.Methods {
			if m.Signature != first.Methods[i].Signature {
				t.Errorf("%s: signature %d is a different symbol", r.Path, i)
			}
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Path > results[i].Path {
			t.Fatal("results should be sorted by path")
		}
	}
	if !tbl.Symbols.Verify() {
		t.Error("Verify failed after concurrent scan")
	}
}

func TestScannerRecordsParseErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Bad.class"), []byte{0xCA, 0xFE}, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Good.class"), sampleClass(), 0644); err != nil {
		t.Fatal(err)
	}
	jar := filepath.Join(dir, "only.jar")
	writeJar(t, jar, map[string][]byte{"A.class": sampleClass()})

	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	results, err := NewScanner(&Parser{Table: tbl}).Scan(context.Background(), []string{
		filepath.Join(dir, "Bad.class"),
		filepath.Join(dir, "Good.class"),
		jar,
	})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Err == nil || results[0].Class != nil {
		t.Errorf("Bad.class should fail to parse: %+v", results[0])
	}
	if results[1].Err != nil || results[2].Err != nil {
		t.Errorf("good classes should parse: %v, %v", results[1].Err, results[2].Err)
	}
	if want := jar + "!/A.class"; results[2].Path != want {
		t.Errorf("jar entry path = %q, want %q", results[2].Path, want)
	}
}

func TestScannerMissingPath(t *testing.T) {
	tbl := descriptor.NewTable(descriptor.NewBootstrap())
	_, err := NewScanner(&Parser{Table: tbl}).Scan(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	if err == nil {
		t.Fatal("expected an error for a missing path")
	}
}
