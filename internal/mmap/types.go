package mmap

import "errors"

// AccessPattern is a hint to the kernel about how a mapping will be read.
type AccessPattern int

const (
	// AccessDefault gives no specific advice.
	AccessDefault AccessPattern = iota
	// AccessSequential expects front-to-back scans, e.g. a full parquet read.
	AccessSequential
	// AccessRandom expects scattered range reads.
	AccessRandom
	// AccessWillNeed asks the kernel to start reading ahead now.
	AccessWillNeed
)

var (
	// ErrClosed is returned when reading from a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for negative read offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
