package llm

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// CallEvent describes one attempt against one endpoint and model.
type CallEvent struct {
	Task      TaskType
	Model     string
	Endpoint  string
	Attempt   int
	Latency   time.Duration
	Success   bool
	ErrorCode string
}

func (e CallEvent) outcome() string {
	if e.Success {
		return "ok"
	}
	return "err:" + e.ErrorCode
}

// Observer is notified after every attempt, successful or not.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver prints one key=value line per attempt.
type LogObserver struct {
	w   io.Writer
	now func() time.Time
}

func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w, now: time.Now}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	fmt.Fprintf(o.w, "%s llm task=%s model=%s endpoint=%s attempt=%d latency=%s outcome=%s\n",
		o.now().UTC().Format(time.RFC3339), e.Task, e.Model, e.Endpoint, e.Attempt,
		e.Latency.Round(time.Millisecond), e.outcome())
}

// ZapObserver logs attempts under the "llm" logger; failures at warn.
type ZapObserver struct {
	log *zap.Logger
}

func NewZapObserver(logger *zap.Logger) *ZapObserver {
	return &ZapObserver{log: logger.Named("llm")}
}

func (o *ZapObserver) OnCallComplete(e CallEvent) {
	fields := []zap.Field{
		zap.String("task", string(e.Task)),
		zap.String("model", e.Model),
		zap.String("endpoint", e.Endpoint),
		zap.Int("attempt", e.Attempt),
		zap.Duration("latency", e.Latency),
	}
	if e.Success {
		o.log.Info("llm call", fields...)
		return
	}
	o.log.Warn("llm call failed", append(fields, zap.String("error_code", e.ErrorCode))...)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
