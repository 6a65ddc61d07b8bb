package worker

import (
	"encoding/json"

	"slotswap-api/core/constants"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ActivityPayload is the body of an activity:log task.
type ActivityPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"`
	SubjectID uuid.UUID `json:"subject_id"`
	Detail    string    `json:"detail"`
}

func NewActivityTask(p ActivityPayload) (*asynq.Task, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskTypeActivityLog, body,
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(constants.ActivityTaskMaxRetry),
	), nil
}
