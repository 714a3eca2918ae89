// Package queue holds the pending command batch until agents poll and
// acknowledge it.
package queue

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"webguard/backend/app/models"
	"webguard/backend/app/repo"
	"webguard/wire"
)

// Queue is the pending command batch. Pending does not consume; Clear
// acknowledges the whole batch.
type Queue interface {
	Push(ctx context.Context, cmd wire.Command) error
	Pending(ctx context.Context) ([]wire.Command, error)
	Clear(ctx context.Context) error
}

// DBQueue keeps the batch in command rows with a pending/cleared status.
type DBQueue struct {
	repo *repo.CommandRepository
}

func NewDBQueue(r *repo.CommandRepository) *DBQueue { return &DBQueue{repo: r} }

func (q *DBQueue) Push(ctx context.Context, cmd wire.Command) error {
	return q.repo.Create(&models.PendingCommand{
		Name:    cmd.Name,
		Payload: string(cmd.Payload),
		Status:  models.StatusPending,
	})
}

func (q *DBQueue) Pending(ctx context.Context) ([]wire.Command, error) {
	rows, err := q.repo.ListPending()
	if err != nil {
		return nil, err
	}
	out := make([]wire.Command, 0, len(rows))
	for _, row := range rows {
		out = append(out, wire.Command{Name: row.Name, Payload: json.RawMessage(row.Payload)})
	}
	return out, nil
}

func (q *DBQueue) Clear(ctx context.Context) error {
	return q.repo.ClearPending()
}

const redisKey = "webguard:pending_commands"

// RedisQueue keeps the batch in a redis list, for deployments where several
// backend instances share one queue.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue { return &RedisQueue{rdb: rdb} }

func (q *RedisQueue) Push(ctx context.Context, cmd wire.Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return q.rdb.RPush(ctx, redisKey, data).Err()
}

func (q *RedisQueue) Pending(ctx context.Context) ([]wire.Command, error) {
	items, err := q.rdb.LRange(ctx, redisKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]wire.Command, 0, len(items))
	for _, item := range items {
		var cmd wire.Command
		if err := json.Unmarshal([]byte(item), &cmd); err != nil {
			continue
		}
		out = append(out, cmd)
	}
	return out, nil
}

func (q *RedisQueue) Clear(ctx context.Context) error {
	return q.rdb.Del(ctx, redisKey).Err()
}
