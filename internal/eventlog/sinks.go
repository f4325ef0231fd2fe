package eventlog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/hammamikhairi/ottomart/internal/domain"
	"github.com/hammamikhairi/ottomart/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.EventSink = (*RedisStreamSink)(nil)
	_ domain.EventSink = (*LogSink)(nil)
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "ottomart:user_logs"

// RedisStreamSink appends events to a Redis stream with XADD.
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamSink creates a sink on client. A maxLen above zero trims
// the stream approximately to that many entries.
func NewRedisStreamSink(client *redis.Client, stream string, maxLen int64) *RedisStreamSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

// Record implements domain.EventSink.
func (s *RedisStreamSink) Record(ctx context.Context, ev domain.Event) error {
	param, err := json.Marshal(ev.Parameter)
	if err != nil {
		return fmt.Errorf("encoding event parameter: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"user_num":       strconv.Itoa(ev.UserID),
			"log_type":       string(ev.Type),
			"timestamp":      ev.Timestamp.Format(time.RFC3339),
			"parameter":      string(param),
			"os_type":        ev.OSType,
			"partition_date": ev.PartitionDate,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("appending to stream %s: %w", s.stream, err)
	}
	return nil
}

// LogSink writes events to the process log. Used when no durable sink is
// configured.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a sink writing through log.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Record implements domain.EventSink.
func (s *LogSink) Record(_ context.Context, ev domain.Event) error {
	param, err := json.Marshal(ev.Parameter)
	if err != nil {
		return fmt.Errorf("encoding event parameter: %w", err)
	}
	s.log.Info("event %s user=%d os=%s %s", ev.Type, ev.UserID, ev.OSType, param)
	return nil
}
