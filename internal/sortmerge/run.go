package sortmerge

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
)

// MemoryRun holds an already-sorted shard entirely in memory, the path
// sort.cc takes when a shard fits within the available sort buffer.
type MemoryRun struct {
	data [][]byte
	i    int
}

// NewMemoryRun wraps an already-sorted record set; callers must sort
// recs by the same Comparator the merge uses before constructing one.
func NewMemoryRun(recs [][]byte) *MemoryRun {
	data := make([][]byte, len(recs))
	copy(data, recs)
	return &MemoryRun{data: data}
}

// Next returns the shard's records one at a time in the order they were
// given (callers sort before constructing a MemoryRun).
func (r *MemoryRun) Next() ([]byte, bool, error) {
	if r.i >= len(r.data) {
		return nil, false, nil
	}
	rec := r.data[r.i]
	r.i++
	return rec, true, nil
}

func (r *MemoryRun) Close() error { return nil }

// SliceProducer sorts an in-memory record set with cmp and returns a
// MemoryRun. Used when a shard's estimated size fits the memory budget.
type SliceProducer struct {
	Records [][]byte
	Cmp     Comparator
}

func (p *SliceProducer) Produce(ctx context.Context, memoryBudget int) (Run, error) {
	sorted := make([][]byte, len(p.Records))
	copy(sorted, p.Records)
	sort.Slice(sorted, func(i, j int) bool { return p.Cmp(sorted[i], sorted[j]) < 0 })
	return NewMemoryRun(sorted), nil
}

// FileRun streams records back out of a temporary file that stores each
// record as a 4-byte little-endian length prefix followed by its bytes,
// the spill path sort.cc takes once a shard exceeds the available sort
// buffer. Close removes the backing file on every exit path.
type FileRun struct {
	f *os.File
}

func newFileRun(f *os.File) *FileRun {
	return &FileRun{f: f}
}

func (r *FileRun) Next() ([]byte, bool, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.f, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("sortmerge: reading run: %w", err)
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.f, buf); err != nil {
		return nil, false, fmt.Errorf("sortmerge: reading run record: %w", err)
	}
	return buf, true, nil
}

func (r *FileRun) Close() error {
	name := r.f.Name()
	closeErr := r.f.Close()
	removeErr := os.Remove(name)
	if closeErr != nil {
		return closeErr
	}
	if removeErr != nil && !os.IsNotExist(removeErr) {
		return removeErr
	}
	return nil
}

// SpillProducer sorts an in-memory record set and writes it out to a
// temporary file, for a shard a caller has determined exceeds the
// in-memory budget. tmpDir empty uses the OS default.
type SpillProducer struct {
	Records [][]byte
	Cmp     Comparator
	TmpDir  string
}

func (p *SpillProducer) Produce(ctx context.Context, memoryBudget int) (Run, error) {
	sorted := make([][]byte, len(p.Records))
	copy(sorted, p.Records)
	sort.Slice(sorted, func(i, j int) bool { return p.Cmp(sorted[i], sorted[j]) < 0 })

	f, err := os.CreateTemp(p.TmpDir, "sortmerge-run-*")
	if err != nil {
		return nil, fmt.Errorf("sortmerge: creating temp run file: %w", err)
	}

	var buf bytes.Buffer
	var lenBuf [4]byte
	for _, rec := range sorted {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(rec)))
		buf.Write(lenBuf[:])
		buf.Write(rec)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("sortmerge: writing temp run file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("sortmerge: seeking temp run file: %w", err)
	}

	return newFileRun(f), nil
}
