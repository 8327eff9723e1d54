package files

import "sort"

type fileEntry struct {
	name string
	file Node
}

func (e fileEntry) Name() string {
	return e.name
}

func (e fileEntry) Node() Node {
	return e.file
}

// FileEntry pairs a name with a node.
func FileEntry(name string, file Node) DirEntry {
	return fileEntry{
		name: name,
		file: file,
	}
}

type sliceIterator struct {
	files []DirEntry
	n     int
}

func (it *sliceIterator) Name() string {
	return it.files[it.n].Name()
}

func (it *sliceIterator) Node() Node {
	return it.files[it.n].Node()
}

func (it *sliceIterator) Next() bool {
	it.n++
	return it.n < len(it.files)
}

func (it *sliceIterator) Err() error {
	return nil
}

// SliceFile implements Directory over a fixed list of entries. Entries are
// iterated in slice order.
type SliceFile struct {
	files []DirEntry
}

func NewSliceDirectory(files []DirEntry) Directory {
	return &SliceFile{files}
}

// NewMapDirectory returns a Directory of m's entries, sorted by name.
func NewMapDirectory(m map[string]Node) Directory {
	ents := make([]DirEntry, 0, len(m))
	for name, nd := range m {
		ents = append(ents, FileEntry(name, nd))
	}
	sort.Slice(ents, func(i, j int) bool {
		return ents[i].Name() < ents[j].Name()
	})
	return NewSliceDirectory(ents)
}

func (f *SliceFile) Entries() DirIterator {
	return &sliceIterator{files: f.files, n: -1}
}

func (f *SliceFile) Close() error {
	return nil
}

func (f *SliceFile) Size() (int64, error) {
	var size int64

	for _, file := range f.files {
		s, err := file.Node().Size()
		if err != nil {
			return 0, err
		}
		size += s
	}

	return size, nil
}

var _ Directory = &SliceFile{}
