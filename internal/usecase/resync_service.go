package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// ResyncInput selects which seasons and data kinds to refresh. An empty
// season list targets every known season; an empty data list refreshes
// standings and baselines both.
type ResyncInput struct {
	SeasonIDs  []string
	SyncData   []string
	MaxWorkers int
}

type ResyncResult struct {
	SeasonCount   int                `json:"season_count"`
	TaskCount     int                `json:"task_count"`
	SuccessCount  int                `json:"success_count"`
	FailedCount   int                `json:"failed_count"`
	SkippedCount  int                `json:"skipped_count"`
	WorkerCount   int                `json:"worker_count"`
	Tasks         []ResyncTaskResult `json:"tasks"`
	RequestedData []string           `json:"requested_data"`
}

type ResyncTaskResult struct {
	SeasonID   string `json:"season_id"`
	SyncData   string `json:"sync_data"`
	Status     string `json:"status"`
	Round      int    `json:"round,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type resyncDataKind string

const (
	resyncStatusSuccess = "success"
	resyncStatusFailed  = "failed"
	resyncStatusSkipped = "skipped"

	resyncDataStandings resyncDataKind = "standings"
	resyncDataBaseline  resyncDataKind = "baseline"
)

var resyncKindAliases = map[string]resyncDataKind{
	"standing":  resyncDataStandings,
	"standings": resyncDataStandings,
	"baseline":  resyncDataBaseline,
	"baselines": resyncDataBaseline,
}

var resyncKeyReplacer = strings.NewReplacer("-", "_", " ", "_")

type resyncTask struct {
	seasonID string
	kind     resyncDataKind
}

// ResyncService fans standings refreshes out over a bounded worker pool.
type ResyncService struct {
	standingsService *StandingsService
	seasonRepo       season.Repository
	logger           *logging.Logger
}

func NewResyncService(
	standingsService *StandingsService,
	seasonRepo season.Repository,
	logger *logging.Logger,
) *ResyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResyncService{
		standingsService: standingsService,
		seasonRepo:       seasonRepo,
		logger:           logger,
	}
}

func (s *ResyncService) Resync(ctx context.Context, input ResyncInput) (ResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResyncService.Resync")
	defer span.End()

	if s.standingsService == nil {
		return ResyncResult{}, fmt.Errorf("%w: standings sync is not configured", ErrDependencyUnavailable)
	}

	kinds, rawKinds, err := normalizeResyncKinds(input.SyncData)
	if err != nil {
		return ResyncResult{}, err
	}
	seasonIDs, err := s.resolveResyncSeasons(ctx, input.SeasonIDs)
	if err != nil {
		return ResyncResult{}, err
	}

	tasks := make([]resyncTask, 0, len(seasonIDs)*len(kinds))
	for _, seasonID := range seasonIDs {
		for _, kind := range kinds {
			tasks = append(tasks, resyncTask{seasonID: seasonID, kind: kind})
		}
	}

	out := ResyncResult{
		SeasonCount:   len(seasonIDs),
		TaskCount:     len(tasks),
		WorkerCount:   resyncWorkerCount(input.MaxWorkers, len(tasks)),
		RequestedData: rawKinds,
		Tasks:         []ResyncTaskResult{},
	}
	if len(tasks) == 0 {
		return out, nil
	}

	// Every task writes its own slot, so the pool needs no result channel.
	rows := make([]ResyncTaskResult, len(tasks))
	workers, err := ants.NewPool(out.WorkerCount)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workers.Release()

	var wg sync.WaitGroup
	for idx, task := range tasks {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()
			rows[idx] = s.executeTask(ctx, task)
		}); err != nil {
			wg.Done()
			return ResyncResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].SeasonID != rows[j].SeasonID {
			return rows[i].SeasonID < rows[j].SeasonID
		}
		return rows[i].SyncData < rows[j].SyncData
	})

	for _, row := range rows {
		switch row.Status {
		case resyncStatusSuccess:
			out.SuccessCount++
		case resyncStatusSkipped:
			out.SkippedCount++
		default:
			out.FailedCount++
		}
	}
	out.Tasks = rows
	return out, nil
}

func (s *ResyncService) executeTask(ctx context.Context, task resyncTask) ResyncTaskResult {
	start := time.Now()
	row := ResyncTaskResult{
		SeasonID: task.seasonID,
		SyncData: string(task.kind),
		Status:   resyncStatusSuccess,
	}

	switch task.kind {
	case resyncDataStandings:
		snap, err := s.standingsService.SyncSeason(ctx, task.seasonID)
		if err != nil {
			row.Status = resyncStatusFailed
			row.Message = err.Error()
		} else {
			row.Round = snap.Round
		}
	case resyncDataBaseline:
		seeded, err := s.standingsService.SeedBaseline(ctx, task.seasonID)
		switch {
		case err != nil:
			row.Status = resyncStatusFailed
			row.Message = err.Error()
		case seeded.SeededAt.IsZero():
			// SeedBaseline returns an existing baseline without a seeding
			// timestamp instead of overwriting it.
			row.Status = resyncStatusSkipped
			row.Message = "baseline already seeded"
		}
	default:
		row.Status = resyncStatusSkipped
		row.Message = "unsupported sync_data"
	}

	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

func (s *ResyncService) resolveResyncSeasons(ctx context.Context, requested []string) ([]string, error) {
	seen := make(map[string]struct{}, len(requested))
	out := make([]string, 0, len(requested))
	for _, id := range requested {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	if len(out) == 0 {
		seasons, err := s.seasonRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list seasons: %w", err)
		}
		for _, item := range seasons {
			out = append(out, item.ID)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: no seasons to resync", ErrNotFound)
		}
	}

	sort.Strings(out)
	return out, nil
}

func normalizeResyncKinds(raw []string) ([]resyncDataKind, []string, error) {
	if len(raw) == 0 {
		return []resyncDataKind{resyncDataStandings, resyncDataBaseline},
			[]string{string(resyncDataStandings), string(resyncDataBaseline)}, nil
	}

	seen := make(map[resyncDataKind]struct{}, 2)
	kinds := make([]resyncDataKind, 0, len(raw))
	requested := make([]string, 0, len(raw))
	for _, item := range raw {
		key := normalizeResyncKey(item)
		if key == "" {
			continue
		}
		kind, ok := resyncKindAliases[key]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unsupported sync_data=%s", ErrInvalidInput, item)
		}
		if _, dup := seen[kind]; dup {
			continue
		}
		seen[kind] = struct{}{}
		kinds = append(kinds, kind)
		requested = append(requested, key)
	}
	if len(kinds) == 0 {
		return nil, nil, fmt.Errorf("%w: sync_data is required", ErrInvalidInput)
	}
	return kinds, requested, nil
}

func normalizeResyncKey(value string) string {
	return resyncKeyReplacer.Replace(strings.ToLower(strings.TrimSpace(value)))
}

// Worker count stays low to respect the provider's rate limits.
func resyncWorkerCount(requested, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	return min(max(requested, 1), 2, taskCount)
}
