package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	totalVotesKey = "vootes:total"
	opTimeout     = 2 * time.Second
)

// VoteCache Redis 기반 투표 집계 미러
// DB가 진실이고 캐시는 실시간 카운터/리더보드 조회를 빠르게 하기 위한 사본
type VoteCache struct {
	client *redis.Client
}

// NewVoteCache VoteCache 생성
func NewVoteCache(client *redis.Client) *VoteCache {
	return &VoteCache{client: client}
}

// Connect Redis URL로 클라이언트 생성 및 연결 확인
func Connect(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func (c *VoteCache) leaderboardKey(categoryID string) string {
	return fmt.Sprintf("vootes:lb:%s", categoryID)
}

func (c *VoteCache) categoryVotesKey(categoryID string) string {
	return fmt.Sprintf("vootes:votes:%s", categoryID)
}

// RecordVote 전체/카테고리 카운터 증가, 갱신된 전체 수 반환
func (c *VoteCache) RecordVote(categoryID string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	pipe := c.client.TxPipeline()
	total := pipe.Incr(ctx, totalVotesKey)
	pipe.Incr(ctx, c.categoryVotesKey(categoryID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to record vote: %w", err)
	}

	return total.Val(), nil
}

// MirrorScore 리더보드 ZSET에 아이템 점수 반영 (절대값, 멱등)
func (c *VoteCache) MirrorScore(categoryID, itemID string, score int) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	err := c.client.ZAdd(ctx, c.leaderboardKey(categoryID), redis.Z{
		Score:  float64(score),
		Member: itemID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to mirror score: %w", err)
	}

	return nil
}

// TopItems 캐시된 리더보드 상위 limit개 아이템 ID
func (c *VoteCache) TopItems(categoryID string, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	ids, err := c.client.ZRevRange(ctx, c.leaderboardKey(categoryID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cached leaderboard: %w", err)
	}

	return ids, nil
}

// TotalVotes 캐시된 전체 투표 수 (키가 없으면 0)
func (c *VoteCache) TotalVotes() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	total, err := c.client.Get(ctx, totalVotesKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read total votes: %w", err)
	}

	return total, nil
}

// SeedTotal DB 합계로 카운터 초기화 (기동 시 1회)
func (c *VoteCache) SeedTotal(total int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, totalVotesKey, total, 0).Err(); err != nil {
		return fmt.Errorf("failed to seed total votes: %w", err)
	}

	return nil
}
