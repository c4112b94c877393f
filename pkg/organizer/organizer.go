package organizer

import (
	"time"

	"github.com/arthur-debert/tidydl/pkg/errors"
	"github.com/arthur-debert/tidydl/pkg/filesystem"
	"github.com/arthur-debert/tidydl/pkg/logging"
	"github.com/arthur-debert/tidydl/pkg/mover"
	"github.com/arthur-debert/tidydl/pkg/rules"
	"github.com/arthur-debert/tidydl/pkg/types"
	"github.com/google/uuid"
)

// Options configures an organize run
type Options struct {
	// Root is the source directory whose files get organized
	Root string

	// Rules classifies each file
	Rules *rules.RuleSet

	// FS is the filesystem to operate on
	FS types.FS

	// Conflict decides what happens when a target is occupied
	Conflict mover.ConflictPolicy

	// DryRun reports planned moves without touching the filesystem
	DryRun bool

	// OnOutcome, when set, is called after each file is processed
	OnOutcome func(types.Outcome)
}

// Organize classifies and moves every regular file directly inside opts.Root.
// The returned error is non-nil only when the root cannot be listed.
func Organize(opts Options) (*types.Summary, error) {
	if opts.Rules == nil {
		return nil, errors.New(errors.ErrInvalidInput, "organize needs a rule set")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}

	runID := uuid.NewString()
	logger := logging.GetLogger("organizer").With().Str("run_id", runID).Logger()
	done := logging.LogOperationStart(logger, "organize")
	defer done()

	summary := &types.Summary{
		RunID:     runID,
		Root:      opts.Root,
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
		Outcomes:  []types.Outcome{},
	}

	logger.Info().
		Str("root", opts.Root).
		Bool("dry_run", opts.DryRun).
		Str("conflict", string(opts.Conflict)).
		Msg("Organizing files")

	files, err := Discover(opts.FS, opts.Root, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Cannot enumerate source directory")
		return nil, err
	}

	m := mover.New(opts.FS, opts.Conflict)
	for _, file := range files {
		outcome := process(opts, m, file)
		summary.Add(outcome)
		if opts.OnOutcome != nil {
			opts.OnOutcome(outcome)
		}
	}

	summary.FinishedAt = time.Now()

	logger.Info().
		Int("moved", summary.Moved).
		Int("conflicts", summary.Conflicts).
		Int("failed", summary.Failed).
		Int("ignored", summary.Ignored).
		Int("planned", summary.Planned).
		Int64("bytes_moved", summary.BytesMoved).
		Msg("Organize completed")

	return summary, nil
}

// process handles a single file; it never returns an error, failures become outcomes
func process(opts Options, m *mover.Mover, file types.File) types.Outcome {
	if pattern, ok := opts.Rules.Ignored(file.Name); ok {
		return types.Outcome{
			Kind:   types.OutcomeIgnored,
			File:   file.Name,
			Source: file.Path,
			Rule:   "ignore:" + pattern,
			Size:   file.Size,
		}
	}

	match := opts.Rules.Explain(file)

	var outcome types.Outcome
	if opts.DryRun {
		outcome = m.Plan(file, match.Label, opts.Root)
	} else {
		outcome = m.Relocate(file, match.Label, opts.Root)
	}
	outcome.Rule = match.String()
	return outcome
}
