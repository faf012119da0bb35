package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskWeeklyMatching = "matching.weekly"

const TaskLeadRescore = "leads.rescore"

type WeeklyMatchingPayload struct {
	TenantID    string   `json:"tenantId"`
	PropertyIDs []string `json:"propertyIds,omitempty"`
}

type LeadRescorePayload struct {
	TenantID string `json:"tenantId"`
}

func NewWeeklyMatchingTask(payload WeeklyMatchingPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWeeklyMatching, data), nil
}

func ParseWeeklyMatchingPayload(task *asynq.Task) (WeeklyMatchingPayload, error) {
	var payload WeeklyMatchingPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WeeklyMatchingPayload{}, err
	}
	return payload, nil
}

func NewLeadRescoreTask(payload LeadRescorePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadRescore, data), nil
}

func ParseLeadRescorePayload(task *asynq.Task) (LeadRescorePayload, error) {
	var payload LeadRescorePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadRescorePayload{}, err
	}
	return payload, nil
}
