package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeCVExport = "cv:export"
)

// CVExportPayload 描述一次异步导出所需的最小信息。
type CVExportPayload struct {
	CVID          uint   `json:"cv_id"`
	Format        string `json:"format"`
	ThemeID       string `json:"theme_id,omitempty"`
	LayoutID      string `json:"layout_id,omitempty"`
	CorrelationID string `json:"correlation_id"`
}

// NewCVExportTask 构造异步导出任务。任务不重试，失败结果通过通知返回给调用方。
func NewCVExportTask(payload CVExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCVExport, data, asynq.MaxRetry(0)), nil
}
