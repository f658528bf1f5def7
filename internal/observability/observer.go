// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StandardObserver times pipeline stages and logs them under one run id.
type StandardObserver struct {
	logger *zap.Logger
	runID  string
}

// NewStandardObserver returns an observer tagging every entry with a fresh
// run id. A nil logger disables logging.
func NewStandardObserver(logger *zap.Logger) *StandardObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	return &StandardObserver{
		logger: logger.With(zap.String("run_id", runID)),
		runID:  runID,
	}
}

// RunID returns the id attached to every entry.
func (o *StandardObserver) RunID() string { return o.runID }

// Logger returns the run-scoped logger.
func (o *StandardObserver) Logger() *zap.Logger { return o.logger }

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, target string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Target:     target,
			DurationMs: time.Since(start).Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Bool("success", data.Success),
	}
	if data.Target != "" {
		fields = append(fields, zap.String("target", data.Target))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}

	if data.Success {
		o.logger.Debug("operation completed", fields...)
		return
	}
	o.logger.Warn("operation failed", fields...)
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Target     string                 `json:"target,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
