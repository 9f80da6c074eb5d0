// Package report summarises a class file scan.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/chazu/javelin/classfile"
	"github.com/chazu/javelin/symbol"
	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("report: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Report is the outcome of a scan.
type Report struct {
	Classes  int       `cbor:"1,keyasint"`
	Fields   int       `cbor:"2,keyasint"`
	Methods  int       `cbor:"3,keyasint"`
	Refs     int       `cbor:"4,keyasint"`
	Symbols  Occupancy `cbor:"5,keyasint"`
	Verified bool      `cbor:"6,keyasint"`
	Top      []Count   `cbor:"7,keyasint,omitempty"`
	Failures []Failure `cbor:"8,keyasint,omitempty"`
}

// Occupancy mirrors symbol.Stats.
type Occupancy struct {
	Strong int `cbor:"1,keyasint"`
	Weak   int `cbor:"2,keyasint"`
	Dead   int `cbor:"3,keyasint"`
}

// Count is the number of uses of one descriptor across the scan.
type Count struct {
	Descriptor string `cbor:"1,keyasint"`
	Uses       int    `cbor:"2,keyasint"`
}

// Failure is a class file that could not be parsed.
type Failure struct {
	Path  string `cbor:"1,keyasint"`
	Error string `cbor:"2,keyasint"`
}

// Build summarises scan results. top limits the descriptor counts to the
// most used ones.
func Build(results []classfile.Result, stats symbol.Stats, verified bool, top int) *Report {
	r := &Report{
		Symbols:  Occupancy{Strong: stats.Strong, Weak: stats.Weak, Dead: stats.Dead},
		Verified: verified,
	}

	// Symbols are canonical, so identity counts content.
	uses := make(map[*symbol.Symbol[symbol.Descriptor]]int)
	count := func(s interface {
		AsDescriptor() *symbol.Symbol[symbol.Descriptor]
	}) {
		uses[s.AsDescriptor()]++
	}

	for _, res := range results {
		if res.Err != nil {
			r.Failures = append(r.Failures, Failure{Path: res.Path, Error: res.Err.Error()})
			continue
		}
		cf := res.Class
		r.Classes++
		r.Fields += len(cf.Fields)
		r.Methods += len(cf.Methods)
		r.Refs += len(cf.Refs)

		count(cf.ThisClass)
		if cf.SuperClass != nil {
			count(cf.SuperClass)
		}
		for _, iface := range cf.Interfaces {
			count(iface)
		}
		for _, f := range cf.Fields {
			count(f.Type)
		}
		for _, m := range cf.Methods {
			count(m.Signature)
		}
		for _, ref := range cf.Refs {
			if ref.Type != nil {
				count(ref.Type)
			} else {
				count(ref.Signature)
			}
		}
	}

	for sym, n := range uses {
		r.Top = append(r.Top, Count{Descriptor: sym.String(), Uses: n})
	}
	sort.Slice(r.Top, func(i, j int) bool {
		if r.Top[i].Uses != r.Top[j].Uses {
			return r.Top[i].Uses > r.Top[j].Uses
		}
		return r.Top[i].Descriptor < r.Top[j].Descriptor
	})
	if top >= 0 && len(r.Top) > top {
		r.Top = r.Top[:top]
	}
	return r
}

// OK reports whether every class parsed and the engine verified.
func (r *Report) OK() bool {
	return len(r.Failures) == 0 && r.Verified
}

// WriteText writes a human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	verified := "ok"
	if !r.Verified {
		verified = "FAILED"
	}
	if _, err := fmt.Fprintf(w, "classes: %d  fields: %d  methods: %d  refs: %d\n", r.Classes, r.Fields, r.Methods, r.Refs); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "symbols: %d strong, %d weak, %d dead  verify: %s\n", r.Symbols.Strong, r.Symbols.Weak, r.Symbols.Dead, verified); err != nil {
		return err
	}
	if len(r.Top) > 0 {
		fmt.Fprintf(w, "\nMost used descriptors:\n")
		for _, c := range r.Top {
			fmt.Fprintf(w, "  %6d  %s\n", c.Uses, c.Descriptor)
		}
	}
	if len(r.Failures) > 0 {
		fmt.Fprintf(w, "\nFailures:\n")
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  %s: %s\n", f.Path, f.Error)
		}
	}
	return nil
}

// Marshal serializes a Report to canonical CBOR.
func Marshal(r *Report) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// Unmarshal deserializes a Report from CBOR bytes.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: unmarshal: %w", err)
	}
	return &r, nil
}
