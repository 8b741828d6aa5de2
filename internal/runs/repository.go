package runs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/prognosis/pkg/pagination"
	"github.com/JaimeStill/prognosis/pkg/query"
	"github.com/JaimeStill/prognosis/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Label", "DatasetPath", "ArtifactKey")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &run, nil
}

func (r *repo) Record(ctx context.Context, cmd RecordCommand) (*Run, error) {
	if cmd.ID == uuid.Nil || cmd.ArtifactKey == "" || cmd.Label == "" {
		return nil, fmt.Errorf("%w: id, artifact key, and label are required", ErrInvalid)
	}

	q := `
		INSERT INTO training_runs(id, artifact_key, dataset_path, label, features, classes, train_rows, test_rows, accuracy, seed, estimators, size_bytes, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, artifact_key, dataset_path, label, features, classes, train_rows, test_rows, accuracy, seed, estimators, size_bytes, trained_at, recorded_at`

	args := []any{
		cmd.ID,
		cmd.ArtifactKey,
		cmd.DatasetPath,
		cmd.Label,
		cmd.Features,
		cmd.Classes,
		cmd.TrainRows,
		cmd.TestRows,
		cmd.Accuracy,
		cmd.Seed,
		cmd.Estimators,
		cmd.SizeBytes,
		cmd.TrainedAt,
	}

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRun)
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("training run recorded", "id", run.ID, "artifact_key", run.ArtifactKey)
	return &run, nil
}
