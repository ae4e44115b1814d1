package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/pkg/errors"
)

var storeTracer = otel.Tracer("redis.story_store")

// StoryStore 已生成故事的 TTL 存储
//
// 故事内容不落库，仅在缓存中保留一段时间供前端回读。
// 并发读取同一故事时用 singleflight 合并为一次 Redis 请求。
type StoryStore struct {
	client *Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewStoryStore 创建故事存储
func NewStoryStore(client *Client, ttl time.Duration) *StoryStore {
	return &StoryStore{
		client: client,
		ttl:    ttl,
	}
}

func storyKey(id string) string {
	return "story:" + id
}

// Save 保存故事
func (s *StoryStore) Save(ctx context.Context, story *entity.Story) error {
	ctx, span := storeTracer.Start(ctx, "story_store.Save",
		trace.WithAttributes(
			attribute.String("story.id", story.ID),
			attribute.Int64("story.ttl_ms", s.ttl.Milliseconds()),
		))
	defer span.End()

	bytes, err := json.Marshal(story)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("序列化故事失败: %w", err)
	}

	if err := s.client.rdb.Set(ctx, storyKey(story.ID), bytes, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("保存故事失败: %w", err)
	}
	return nil
}

// Get 按 ID 读取故事
func (s *StoryStore) Get(ctx context.Context, id string) (*entity.Story, error) {
	ctx, span := storeTracer.Start(ctx, "story_store.Get",
		trace.WithAttributes(attribute.String("story.id", id)))
	defer span.End()

	val, err, _ := s.group.Do(storyKey(id), func() (interface{}, error) {
		bytes, err := s.client.rdb.Get(ctx, storyKey(id)).Bytes()
		if err != nil {
			return nil, err
		}
		return bytes, nil
	})
	if err != nil {
		if IsNil(err) {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			return nil, errors.ErrStoryNotFound.WithDetail(id)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("读取故事失败: %w", err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	var story entity.Story
	if err := json.Unmarshal(val.([]byte), &story); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("反序列化故事失败: %w", err)
	}
	return &story, nil
}

// Delete 删除故事
func (s *StoryStore) Delete(ctx context.Context, id string) error {
	ctx, span := storeTracer.Start(ctx, "story_store.Delete",
		trace.WithAttributes(attribute.String("story.id", id)))
	defer span.End()

	return s.client.rdb.Del(ctx, storyKey(id)).Err()
}
