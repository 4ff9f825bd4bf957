package taskinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/scout/jobsearch/task"
	"github.com/Abraxas-365/scout/pkg/kernel"
	"github.com/redis/go-redis/v9"
)

// RedisQueue implements the task broker using a Redis list for ready ids and
// a sorted set for delayed ones. Only ids travel through Redis; the durable
// task state lives in Postgres.
type RedisQueue struct {
	client    *redis.Client
	queueName string
}

// NewRedisQueue creates a new Redis-based task queue
func NewRedisQueue(client *redis.Client, queueName string) task.Queue {
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

func (q *RedisQueue) delayedName() string {
	return q.queueName + ":delayed"
}

// Push puts a task id on the ready queue
func (q *RedisQueue) Push(ctx context.Context, id kernel.TaskID) error {
	if err := q.client.LPush(ctx, q.queueName, id.String()).Err(); err != nil {
		return fmt.Errorf("push task %s: %w", id, err)
	}
	return nil
}

// PushDelayed schedules a task id to become ready after the delay
func (q *RedisQueue) PushDelayed(ctx context.Context, id kernel.TaskID, delay time.Duration) error {
	score := float64(time.Now().Add(delay).Unix())
	if err := q.client.ZAdd(ctx, q.delayedName(), redis.Z{
		Score:  score,
		Member: id.String(),
	}).Err(); err != nil {
		return fmt.Errorf("push delayed task %s: %w", id, err)
	}
	return nil
}

// Pop blocks up to timeout for the next ready id
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (kernel.TaskID, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		// redis.Nil means the timeout elapsed with an empty queue
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("pop task: %w", err)
	}

	if len(result) < 2 {
		return "", fmt.Errorf("invalid result from queue: expected 2 elements, got %d", len(result))
	}

	return kernel.NewTaskID(result[1]), nil
}

// MoveDelayedToReady promotes due delayed ids to the ready queue
func (q *RedisQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	now := float64(time.Now().Unix())

	ids, err := q.client.ZRangeByScore(ctx, q.delayedName(), &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%f", now),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed tasks: %w", err)
	}

	if len(ids) == 0 {
		return 0, nil
	}

	pipe := q.client.Pipeline()
	for _, id := range ids {
		pipe.LPush(ctx, q.queueName, id)
		pipe.ZRem(ctx, q.delayedName(), id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("move delayed tasks to ready: %w", err)
	}

	return len(ids), nil
}

// Size returns the ready queue length
func (q *RedisQueue) Size(ctx context.Context) (int64, error) {
	size, err := q.client.LLen(ctx, q.queueName).Result()
	if err != nil {
		return 0, fmt.Errorf("get queue size: %w", err)
	}
	return size, nil
}

// DelayedSize returns the delayed set cardinality
func (q *RedisQueue) DelayedSize(ctx context.Context) (int64, error) {
	size, err := q.client.ZCard(ctx, q.delayedName()).Result()
	if err != nil {
		return 0, fmt.Errorf("get delayed queue size: %w", err)
	}
	return size, nil
}

// Ping checks if the Redis connection is alive
func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
