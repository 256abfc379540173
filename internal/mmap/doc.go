// Package mmap maps files read-only into memory.
//
// It backs the local blob store: a Parquet file opened from disk is read
// through ReadAt on the mapping instead of through read(2) calls.
//
//	m, err := mmap.Open("videos.parquet")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessRandom)
//	n, err := m.ReadAt(buf, off)
//
// On Unix the package uses mmap(2) and madvise(2). On Windows it uses
// CreateFileMapping/MapViewOfFile and Advise is a no-op.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not use a slice returned by Bytes after Close.
package mmap
