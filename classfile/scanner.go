package classfile

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("javelin.classfile")

// DefaultWorkers is the number of concurrent parsers when Scanner.Workers
// is not set.
const DefaultWorkers = 8

// Result is the outcome of parsing one class file. Err holds a parse error;
// I/O errors abort the scan instead.
type Result struct {
	Path  string
	Class *ClassFile
	Err   error
}

// Scanner parses every class file found under a set of paths. Paths may be
// .class files, directories (walked recursively) or .jar/.zip archives.
// All classes are parsed concurrently against the Parser's Table.
type Scanner struct {
	Parser  *Parser
	Workers int
}

// NewScanner creates a scanner with the default worker count.
func NewScanner(p *Parser) *Scanner {
	return &Scanner{Parser: p, Workers: DefaultWorkers}
}

// Scan parses all class files under paths and returns one Result per class,
// sorted by path.
func (s *Scanner) Scan(ctx context.Context, paths []string) ([]Result, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var (
		mu      sync.Mutex
		results []Result
		closers []io.Closer
	)
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	submit := func(path string, open func() ([]byte, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := open()
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", path, err)
			}
			cf, perr := s.Parser.Parse(data)
			if perr != nil {
				log.Debugf("%s: %v", path, perr)
			}
			mu.Lock()
			results = append(results, Result{Path: path, Class: cf, Err: perr})
			mu.Unlock()
			return nil
		})
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			g.Wait()
			return nil, err
		}
		switch {
		case info.IsDir():
			err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() {
					return nil
				}
				switch {
				case isClass(path):
					submit(path, func() ([]byte, error) { return os.ReadFile(path) })
				case isArchive(path):
					zr, err := s.openArchive(path, submit)
					if err != nil {
						return err
					}
					closers = append(closers, zr)
				}
				return nil
			})
		case isArchive(root):
			var zr io.Closer
			if zr, err = s.openArchive(root, submit); err == nil {
				closers = append(closers, zr)
			}
		default:
			path := root
			submit(path, func() ([]byte, error) { return os.ReadFile(path) })
		}
		if err != nil {
			g.Wait()
			return nil, err
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	log.Infof("scanned %d classes", len(results))
	return results, nil
}

// openArchive submits every class entry of a jar. The returned closer must
// stay open until all submitted work has finished.
func (s *Scanner) openArchive(path string, submit func(string, func() ([]byte, error))) (io.Closer, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open archive %s: %w", path, err)
	}
	n := 0
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isClass(f.Name) {
			continue
		}
		submit(path+"!/"+f.Name, func() ([]byte, error) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		})
		n++
	}
	log.Debugf("%s: %d class entries", path, n)
	return zr, nil
}

func isClass(path string) bool {
	return strings.HasSuffix(path, ".class")
}

func isArchive(path string) bool {
	return strings.HasSuffix(path, ".jar") || strings.HasSuffix(path, ".zip")
}
