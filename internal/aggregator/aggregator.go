package aggregator

import (
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultDiskCapacity      int64 = 70_000_000
	DefaultRequiredFree      int64 = 30_000_000
	DefaultSmallDirThreshold int64 = 100_000
)

var ErrNoCandidate = errors.New("no directory frees enough space")

func DefaultLimits() models.Limits {
	return models.Limits{
		DiskCapacity:      DefaultDiskCapacity,
		RequiredFree:      DefaultRequiredFree,
		SmallDirThreshold: DefaultSmallDirThreshold,
	}
}

type Aggregator struct {
	logger *zerolog.Logger
}

func NewAggregator(logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// Aggregate applies both selections to the flat size sequence. sizes must be
// in pre-order; ties in the delete candidate resolve to the earliest entry.
func (a *Aggregator) Aggregate(id string, limits models.Limits, rootSize int64, sizes []models.DirSize) (models.Report, error) {
	if err := limits.Validate(); err != nil {
		return models.Report{}, err
	}

	freeSpace := limits.DiskCapacity - rootSize
	deficit := limits.RequiredFree - freeSpace

	candidate, err := SmallestAbove(sizes, deficit)
	if err != nil {
		return models.Report{}, fmt.Errorf("need %d more bytes free: %w", deficit, err)
	}

	report := models.Report{
		ID:              id,
		Limits:          limits,
		RootSize:        rootSize,
		FreeSpace:       freeSpace,
		Deficit:         deficit,
		SmallDirsTotal:  SumAtMost(sizes, limits.SmallDirThreshold),
		DeleteCandidate: candidate,
		Directories:     sizes,
		CreatedAt:       time.Now(),
	}

	a.logger.
		Info().
		Str("id", id).
		Int64("root_size", rootSize).
		Int64("deficit", deficit).
		Int64("small_dirs_total", report.SmallDirsTotal).
		Str("delete_candidate", candidate.Path).
		Msg("aggregation complete")
	return report, nil
}

// SumAtMost adds up every size that is <= threshold.
func SumAtMost(sizes []models.DirSize, threshold int64) int64 {
	var total int64
	for _, s := range sizes {
		if s.Size <= threshold {
			total += s.Size
		}
	}
	return total
}

// SmallestAbove returns the smallest entry strictly greater than deficit.
func SmallestAbove(sizes []models.DirSize, deficit int64) (models.DirSize, error) {
	var (
		best  models.DirSize
		found bool
	)
	for _, s := range sizes {
		if s.Size <= deficit {
			continue
		}
		if !found || s.Size < best.Size {
			best = s
			found = true
		}
	}

	if !found {
		return models.DirSize{}, ErrNoCandidate
	}
	return best, nil
}
