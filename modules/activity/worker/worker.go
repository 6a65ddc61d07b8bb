package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"slotswap-api/core/config"
	"slotswap-api/core/constants"
	"slotswap-api/core/logger"
	"slotswap-api/modules/activity/entity"
	"slotswap-api/modules/activity/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes activity:log tasks and persists them.
type Worker struct {
	server *asynq.Server
	repo   repository.ActivityRepositoryInterface
}

func NewWorker(cfg config.RedisConfig, repo repository.ActivityRepositoryInterface) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				constants.QueueDefault: 1,
			},
		},
	)

	return &Worker{
		server: server,
		repo:   repo,
	}
}

// Start runs the worker in the background. It returns immediately; processing
// errors are retried by asynq up to the task's MaxRetry.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskTypeActivityLog, w.HandleActivityTask)

	if err := w.server.Start(mux); err != nil {
		logger.Error("ActivityWorker:Start:Error", err)
		return err
	}

	logger.Info("ActivityWorker:Start:Success")
	return nil
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) HandleActivityTask(ctx context.Context, t *asynq.Task) error {
	var p ActivityPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads will never succeed; drop instead of retrying.
		logger.Error("ActivityWorker:HandleActivityTask:Unmarshal:Error", err)
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	activity := &entity.Activity{
		UserID: p.UserID,
		Action: p.Action,
		Detail: p.Detail,
	}
	if p.SubjectID != uuid.Nil {
		subjectID := p.SubjectID
		activity.SubjectID = &subjectID
	}

	if err := w.repo.Create(ctx, activity); err != nil {
		return fmt.Errorf("persist activity: %w", err)
	}

	logger.Debug("ActivityWorker:HandleActivityTask:Stored",
		"user_id", p.UserID.String(),
		"action", p.Action,
	)
	return nil
}
