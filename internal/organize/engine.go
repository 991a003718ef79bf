package organize

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"cubby/internal/classify"
	"cubby/internal/config"
	"cubby/internal/grouping"
	"cubby/internal/logging"
	"cubby/internal/notifications"
	"cubby/internal/prune"
	"cubby/internal/services"
	"cubby/internal/services/tags"
)

// Engine walks the watched roots and performs the scan cycle phases in
// order: bootstrap, primary pass, batch regroup, review sweep, prune.
type Engine struct {
	cfg        *config.Config
	classifier *classify.Classifier
	grouper    *grouping.Grouper
	tagger     tags.Service
	notifier   notifications.Service
	logger     *slog.Logger

	// skip holds the top-level names the primary pass leaves alone: the
	// special folders, the Folders bucket, and every category label.
	skip map[string]struct{}
}

// New builds an engine from configuration, wiring the default classifier,
// the configured grouping policy, the tag command probe, and the
// notification service.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	classifier := classify.NewFromFile(cfg.Paths.CategoriesFile, logger)

	policy := grouping.DefaultPolicy()
	policy.SimilarityThreshold = cfg.Grouping.SimilarityThreshold
	policy.MinPrefixLen = cfg.Grouping.MinPrefixLength
	policy.MinGroupSize = cfg.Grouping.MinGroupSize
	policy = policy.WithExtraStopwords(cfg.Grouping.ExtraStopwords...)

	return NewWithDependencies(cfg, logger,
		classifier,
		grouping.New(policy),
		tags.NewFromEnvironment(logger),
		notifications.NewService(cfg),
	)
}

// NewWithDependencies builds an engine with explicit collaborators.
func NewWithDependencies(
	cfg *config.Config,
	logger *slog.Logger,
	classifier *classify.Classifier,
	grouper *grouping.Grouper,
	tagger tags.Service,
	notifier notifications.Service,
) *Engine {
	engine := &Engine{
		cfg:        cfg,
		classifier: classifier,
		grouper:    grouper,
		tagger:     tagger,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "organize"),
	}
	engine.skip = engine.structuralNames()
	return engine
}

func (e *Engine) structuralNames() map[string]struct{} {
	names := map[string]struct{}{foldersBucket: {}}
	if e.cfg != nil {
		names[e.cfg.Special.ManualFolder] = struct{}{}
		names[e.cfg.Special.ReviewFolder] = struct{}{}
	}
	if e.classifier != nil {
		for _, label := range e.classifier.Categories() {
			names[label] = struct{}{}
		}
	}
	return names
}

// RunCycle executes one full scan cycle across every watched root.
// Per-item failures are logged and counted but never abort the cycle; only
// an unreadable root listing or context cancellation does.
func (e *Engine) RunCycle(ctx context.Context) (*CycleReport, error) {
	start := time.Now()
	report := &CycleReport{}
	ctx = services.WithCycleID(ctx, uuid.NewString()[:8])
	logger := logging.WithContext(ctx, e.logger)
	roots := e.cfg.Paths.WatchedRoots

	logger.Info("scan cycle starting", logging.Int("roots", len(roots)))

	e.bootstrap(ctx, report)

	residue := make(map[string][]string, len(roots))
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		ungrouped, err := e.primaryPass(services.WithRoot(ctx, root), root, report)
		if err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		residue[root] = ungrouped
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		e.regroupRoot(services.WithRoot(ctx, root), root, residue[root], report)
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		if err := e.reviewSweep(services.WithRoot(ctx, root), root, report); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		e.pruneRoot(services.WithRoot(ctx, root), root, report)
	}

	report.Duration = time.Since(start)
	logger.Info("scan cycle complete",
		logging.Int("examined", report.Examined),
		logging.Int("files_moved", report.FilesMoved),
		logging.Int("folders_moved", report.FoldersMoved),
		logging.Int("groups_created", report.GroupsCreated),
		logging.Int("review_moves", report.ReviewMoves),
		logging.Int("folders_pruned", report.FoldersPruned),
		logging.Int("errors", report.Errors),
		logging.Duration("duration", report.Duration),
	)
	e.notifyCompleted(ctx, report)
	return report, nil
}

// bootstrap ensures the Manual and Review folders exist in every root and
// re-applies their Finder tags. Tag failures are logged and absorbed; they
// never fail the cycle.
func (e *Engine) bootstrap(ctx context.Context, report *CycleReport) {
	type special struct {
		name  string
		tag   string
		color string
	}
	for _, root := range e.cfg.Paths.WatchedRoots {
		if ctx.Err() != nil {
			return
		}
		logger := logging.WithContext(services.WithRoot(ctx, root), e.logger)
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("watched root missing; skipping")
				continue
			}
			logger.Warn("watched root unreadable", logging.Error(err))
			report.Errors++
			continue
		}
		for _, sp := range []special{
			{e.cfg.Special.ManualFolder, e.cfg.Special.ManualTag, e.cfg.Special.ManualTagColor},
			{e.cfg.Special.ReviewFolder, e.cfg.Special.ReviewTag, e.cfg.Special.ReviewTagColor},
		} {
			dir := filepath.Join(root, sp.name)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				logger.Error("special folder creation failed",
					logging.String("folder", sp.name),
					logging.Error(err))
				report.Errors++
				continue
			}
			if e.tagger == nil || sp.tag == "" {
				continue
			}
			if err := e.tagger.Apply(ctx, dir, sp.tag, sp.color); err != nil {
				logger.Warn("folder tag application failed",
					logging.String("folder", sp.name),
					logging.Error(err))
			}
		}
	}
}

// pruneRoot removes the empty directories left behind by the earlier phases.
func (e *Engine) pruneRoot(ctx context.Context, root string, report *CycleReport) {
	logger := logging.WithContext(ctx, e.logger)
	removed, err := prune.Empty(root, prune.Options{
		SkipNames:      e.specialFolderNames(),
		BundleSuffixes: e.cfg.Organizer.BundleSuffixes,
		Logger:         logger,
	})
	report.FoldersPruned += removed
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("empty folder pruning incomplete", logging.Error(err))
		report.Errors++
	}
}

func (e *Engine) specialFolderNames() []string {
	return []string{e.cfg.Special.ManualFolder, e.cfg.Special.ReviewFolder}
}

func (e *Engine) notifyCompleted(ctx context.Context, report *CycleReport) {
	if e.notifier == nil {
		return
	}
	if report.TotalMoved() == 0 && report.FoldersPruned == 0 {
		return
	}
	if err := e.notifier.NotifyCycleCompleted(ctx, report.TotalMoved(), report.FoldersPruned, report.Duration); err != nil {
		logging.WithContext(ctx, e.logger).Warn("cycle completion notification failed", logging.Error(err))
	}
}
