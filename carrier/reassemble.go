package carrier

import "fmt"

// Reassembler collects fragments of one or more files and joins them once
// every index is present. Fragments may arrive in any order.
//
// Fragment data is kept by reference until Assemble copies it into a single
// buffer, so callers must not reuse the slices they pass to Add.
type Reassembler struct {
	files map[string]*arena
	order []string
}

type arena struct {
	total uint32
	frags map[uint32][]byte
	size  int64
}

func NewReassembler() *Reassembler {
	return &Reassembler{files: make(map[string]*arena)}
}

// Add stores f. It fails if an earlier fragment of the same file had the
// same index or declared a different total.
func (r *Reassembler) Add(f Fragment) error {
	if f.Total == 0 || f.Index >= f.Total {
		return malformed("fragment %d of %d for %q", f.Index, f.Total, f.Name)
	}
	a, ok := r.files[f.Name]
	if !ok {
		a = &arena{total: f.Total, frags: make(map[uint32][]byte)}
		r.files[f.Name] = a
		r.order = append(r.order, f.Name)
	}
	if f.Total != a.total {
		return malformed("fragment %d of %q declares %d fragments, earlier fragments declared %d", f.Index, f.Name, f.Total, a.total)
	}
	if _, dup := a.frags[f.Index]; dup {
		return fmt.Errorf("%w: fragment %d of %q", ErrDuplicateFragment, f.Index, f.Name)
	}
	a.frags[f.Index] = f.Data
	a.size += int64(len(f.Data))
	return nil
}

// Has reports whether at least one fragment of name has been added.
func (r *Reassembler) Has(name string) bool {
	_, ok := r.files[name]
	return ok
}

// Complete reports whether every fragment of name is present.
func (r *Reassembler) Complete(name string) bool {
	a, ok := r.files[name]
	return ok && uint32(len(a.frags)) == a.total
}

// Assemble joins the fragments of name in index order and releases them.
func (r *Reassembler) Assemble(name string) ([]byte, error) {
	a, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: no fragments of %q", ErrIncompleteFile, name)
	}
	for i := uint32(0); i < a.total; i++ {
		if _, ok := a.frags[i]; !ok {
			return nil, fmt.Errorf("%w: %q is missing fragment %d of %d", ErrIncompleteFile, name, i, a.total)
		}
	}

	buf := make([]byte, 0, a.size)
	for i := uint32(0); i < a.total; i++ {
		buf = append(buf, a.frags[i]...)
	}
	delete(r.files, name)
	return buf, nil
}

// Names returns the names still held, in the order they were first seen.
func (r *Reassembler) Names() []string {
	names := make([]string, 0, len(r.files))
	seen := make(map[string]struct{}, len(r.files))
	for _, n := range r.order {
		if _, ok := seen[n]; ok {
			continue
		}
		if _, ok := r.files[n]; ok {
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	return names
}
