package queue

import (
	"encoding/json"
	"strings"

	"github.com/easyq-blog/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskRevalidatePages 页面刷新任务
	TaskRevalidatePages = constants.TaskRevalidatePages

	revalidateMaxRetry = 3
)

// RevalidatePagesPayload 页面刷新任务载荷，slug 为空时只刷新首页与列表
type RevalidatePagesPayload struct {
	Slug string `json:"slug,omitempty"`
}

// NewRevalidatePagesTask 创建页面刷新任务
func NewRevalidatePagesTask(payload RevalidatePagesPayload) (*asynq.Task, error) {
	payload.Slug = strings.TrimSpace(payload.Slug)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRevalidatePages, body), nil
}

// ParseRevalidatePagesPayload 解析任务载荷
func ParseRevalidatePagesPayload(task *asynq.Task) (RevalidatePagesPayload, error) {
	var payload RevalidatePagesPayload
	if task == nil || len(task.Payload()) == 0 {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
