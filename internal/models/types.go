package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidLimits = errors.New("invalid limits")

// FileEntry is a file listed under a directory. Owned by that directory.
type FileEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Directory is one node of the arena. Parent and Children are arena indexes;
// the root has Parent -1.
type Directory struct {
	Name     string
	Parent   int
	Files    []FileEntry
	Children []int
}

// DirSize is one entry of the flat size sequence
type DirSize struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type Limits struct {
	DiskCapacity      int64 `json:"disk_capacity" yaml:"disk_capacity"`
	RequiredFree      int64 `json:"required_free" yaml:"required_free"`
	SmallDirThreshold int64 `json:"small_dir_threshold" yaml:"small_dir_threshold"`
}

func (l Limits) Validate() error {
	if l.DiskCapacity <= 0 {
		return fmt.Errorf("%w: disk capacity must be positive, got %d", ErrInvalidLimits, l.DiskCapacity)
	}
	if l.RequiredFree < 0 {
		return fmt.Errorf("%w: required free space must not be negative, got %d", ErrInvalidLimits, l.RequiredFree)
	}
	if l.SmallDirThreshold < 0 {
		return fmt.Errorf("%w: small directory threshold must not be negative, got %d", ErrInvalidLimits, l.SmallDirThreshold)
	}
	return nil
}

// LimitsOverride carries the limits a caller wants to change. Nil fields keep
// the configured value.
type LimitsOverride struct {
	DiskCapacity      *int64 `json:"disk_capacity,omitempty" jsonschema:"total disk capacity, default 70000000"`
	RequiredFree      *int64 `json:"required_free,omitempty" jsonschema:"free space the update needs, default 30000000"`
	SmallDirThreshold *int64 `json:"small_dir_threshold,omitempty" jsonschema:"upper bound for the small directory sum, default 100000"`
}

func (o *LimitsOverride) Apply(base Limits) Limits {
	if o == nil {
		return base
	}
	if o.DiskCapacity != nil {
		base.DiskCapacity = *o.DiskCapacity
	}
	if o.RequiredFree != nil {
		base.RequiredFree = *o.RequiredFree
	}
	if o.SmallDirThreshold != nil {
		base.SmallDirThreshold = *o.SmallDirThreshold
	}
	return base
}

// Input message

type AnalysisRequest struct {
	ID     string          `json:"id"`
	Trace  string          `json:"trace"`
	Limits *LimitsOverride `json:"limits,omitempty"`
}

// Final output
type Report struct {
	ID              string    `json:"id"`
	Limits          Limits    `json:"limits"`
	RootSize        int64     `json:"root_size"`
	FreeSpace       int64     `json:"free_space"`
	Deficit         int64     `json:"deficit"`
	SmallDirsTotal  int64     `json:"small_dirs_total"`
	DeleteCandidate DirSize   `json:"delete_candidate"`
	Directories     []DirSize `json:"directories"`
	CreatedAt       time.Time `json:"created_at"`
}
