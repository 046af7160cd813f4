package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends every record to the stream "<prefix>:<task>"
type RedisSink struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

var _ Sink = &RedisSink{}

func NewRedisSink(addr, prefix string) *RedisSink {
	if prefix == "" {
		prefix = "ltmb"
	}
	return &RedisSink{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		prefix:  prefix,
		timeout: 5 * time.Second,
	}
}

// Stream name for a task
func (s *RedisSink) Stream(task string) string {
	return s.prefix + ":" + task
}

// Ping checks that the server is reachable
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSink) Write(r Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.Stream(r.Task),
		Values: map[string]interface{}{
			"seed":    r.Seed,
			"success": boolInt(r.Success),
			"record":  string(b),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.Stream(r.Task), err)
	}
	return nil
}

// Read the records of a task stream, oldest first
func (s *RedisSink) Read(ctx context.Context, task string) ([]Record, error) {
	msgs, err := s.client.XRange(ctx, s.Stream(task), "-", "+").Result()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		raw, ok := m.Values["record"].(string)
		if !ok {
			return nil, fmt.Errorf("message %s without a record", m.ID)
		}
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
