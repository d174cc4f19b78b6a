package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/themeflex/internal/service/logs"
)

// LogsHandler exposes the in-memory log journal.
type LogsHandler struct {
	journal *logs.Journal
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(journal *logs.Journal) *LogsHandler {
	return &LogsHandler{journal: journal}
}

// GetLogStatsInput is the input for getting log statistics.
type GetLogStatsInput struct{}

// GetLogStatsOutput is the output for getting log statistics.
type GetLogStatsOutput struct {
	Body logs.Stats
}

// GetRecentLogsInput is the input for getting recent logs.
type GetRecentLogsInput struct {
	Limit int    `query:"limit" default:"100" minimum:"1" maximum:"500" doc:"Maximum number of entries to return"`
	Level string `query:"level" enum:"trace,debug,info,warn,error" doc:"Minimum level to include"`
}

// GetRecentLogsOutput is the output for getting recent logs.
type GetRecentLogsOutput struct {
	Body struct {
		Logs []logs.Entry `json:"logs"`
	}
}

// Register registers the logs routes with the API.
func (h *LogsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getLogStats",
		Method:      "GET",
		Path:        "/api/v1/logs/stats",
		Summary:     "Get log statistics",
		Description: "Returns counts by level and component for records since startup",
		Tags:        []string{"Logs"},
	}, h.GetStats)

	huma.Register(api, huma.Operation{
		OperationID: "getRecentLogs",
		Method:      "GET",
		Path:        "/api/v1/logs/recent",
		Summary:     "Get recent logs",
		Description: "Returns the newest retained log entries, oldest first",
		Tags:        []string{"Logs"},
	}, h.GetRecentLogs)
}

// GetStats returns current log statistics.
func (h *LogsHandler) GetStats(ctx context.Context, input *GetLogStatsInput) (*GetLogStatsOutput, error) {
	return &GetLogStatsOutput{Body: h.journal.Stats()}, nil
}

// GetRecentLogs returns the most recent log entries.
func (h *LogsHandler) GetRecentLogs(ctx context.Context, input *GetRecentLogsInput) (*GetRecentLogsOutput, error) {
	out := &GetRecentLogsOutput{}
	out.Body.Logs = h.journal.Recent(input.Limit, input.Level)
	return out, nil
}
