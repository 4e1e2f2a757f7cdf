package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskSummarizeDocument = "documents.summarize"

type SummarizeDocumentPayload struct {
	DocumentID string `json:"documentId"`
	UserID     string `json:"userId"`
}

func NewSummarizeDocumentTask(payload SummarizeDocumentPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummarizeDocument, data), nil
}

func ParseSummarizeDocumentPayload(task *asynq.Task) (SummarizeDocumentPayload, error) {
	var payload SummarizeDocumentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SummarizeDocumentPayload{}, err
	}
	return payload, nil
}
