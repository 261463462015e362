package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/promptsheet-backend/internal/domain"
	"github.com/yungbote/promptsheet-backend/internal/platform/logger"
)

// Each prompt is a hash at user-prompt:<id>; a user's prompts are a sorted
// set at user:prompt:<userID> scored by save time in milliseconds.
func promptKey(promptID string) string { return "user-prompt:" + promptID }
func userKey(userID string) string { return "user:prompt:" + userID }

type redisPromptRepo struct {
	rdb goredis.UniversalClient
	log *logger.Logger
}

func NewRedisPromptRepo(rdb goredis.UniversalClient, baseLog *logger.Logger) PromptRepo {
	return &redisPromptRepo{rdb: rdb, log: baseLog.With("repo", "RedisPromptRepo")}
}

func (r *redisPromptRepo) Save(ctx context.Context, userID string, p *domain.Prompt) error {
	if p == nil {
		return nil
	}
	p.UserID = userID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	args, err := json.Marshal([]string(p.Args))
	if err != nil {
		return err
	}
	key := promptKey(p.ID)
	_, err = r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"promptId":  p.ID,
			"title":     p.Title,
			"prompt":    p.Body,
			"args":      string(args),
			"createdAt": p.CreatedAt.UnixMilli(),
		})
		pipe.ZAdd(ctx, userKey(userID), goredis.Z{Score: float64(p.CreatedAt.UnixMilli()), Member: key})
		return nil
	})
	if err != nil {
		return fmt.Errorf("save prompt %s: %w", p.ID, err)
	}
	return nil
}

func (r *redisPromptRepo) List(ctx context.Context, userID string) ([]*domain.Prompt, error) {
	results := []*domain.Prompt{}
	keys, err := r.rdb.ZRange(ctx, userKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return results, nil
	}
	cmds := make([]*goredis.MapStringStringCmd, len(keys))
	_, err = r.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, err
	}
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			r.log.Warn("Dangling prompt reference", "key", keys[i], "error", err)
			continue
		}
		results = append(results, promptFromHash(userID, fields))
	}
	return results, nil
}

func promptFromHash(userID string, h map[string]string) *domain.Prompt {
	p := &domain.Prompt{
		ID:     h["promptId"],
		UserID: userID,
		Title:  h["title"],
		Body:   h["prompt"],
		Args:   []string{},
	}
	var args []string
	if err := json.Unmarshal([]byte(h["args"]), &args); err == nil && args != nil {
		p.Args = args
	}
	var ms int64
	if _, err := fmt.Sscan(h["createdAt"], &ms); err == nil {
		p.CreatedAt = time.UnixMilli(ms).UTC()
	}
	return p
}

// Delete removes the prompt only when it belongs to userID.
func (r *redisPromptRepo) Delete(ctx context.Context, userID, promptID string) error {
	key := promptKey(promptID)
	if err := r.rdb.ZScore(ctx, userKey(userID), key).Err(); err != nil {
		if errors.Is(err, goredis.Nil) {
			return ErrNotFound
		}
		return err
	}
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.ZRem(ctx, userKey(userID), key)
		return nil
	})
	return err
}
