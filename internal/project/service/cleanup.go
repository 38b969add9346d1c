package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cleanupQueueKey 待删除远端文件的 Redis 队列
const cleanupQueueKey = "project:file-cleanup"

// FileCleaner 远端文件清理器
// 本地实体删除提交后，关联的远端文件ID进入 Redis 队列，
// 由后台 worker 重试删除。没有 Redis 时退化为同步尽力删除。
type FileCleaner struct {
	files  FileClient
	rdb    *redis.Client
	logger *zap.Logger
}

// NewFileCleaner 创建远端文件清理器，rdb 可以为 nil
func NewFileCleaner(files FileClient, rdb *redis.Client, logger *zap.Logger) *FileCleaner {
	return &FileCleaner{files: files, rdb: rdb, logger: logger}
}

// Enqueue 登记一批待删除的远端文件，同批内相同ID只删一次
// 删除失败只记录日志，不向调用方返回错误
func (c *FileCleaner) Enqueue(ctx context.Context, fileIDs ...string) {
	seen := make(map[string]bool, len(fileIDs))
	for _, id := range fileIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if c.rdb != nil {
			if err := c.rdb.LPush(ctx, cleanupQueueKey, id).Err(); err == nil {
				continue
			} else {
				c.logger.Warn("enqueue file cleanup failed, deleting inline",
					zap.String("file_id", id), zap.Error(err))
			}
		}
		if err := c.files.DeleteFile(ctx, id); err != nil {
			c.logger.Warn("delete remote file failed",
				zap.String("file_id", id), zap.Error(err))
		}
	}
}

// Run 后台清理循环，阻塞直到 ctx 取消
func (c *FileCleaner) Run(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := c.rdb.BRPop(ctx, 5*time.Second, cleanupQueueKey).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("pop file cleanup queue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if len(result) < 2 {
			continue
		}

		fileID := result[1]
		if err := c.files.DeleteFile(ctx, fileID); err != nil {
			c.logger.Warn("delete remote file failed, re-queueing",
				zap.String("file_id", fileID), zap.Error(err))
			// 放回队尾，避免坏文件阻塞队头
			if err := c.rdb.LPush(ctx, cleanupQueueKey, fileID).Err(); err != nil {
				c.logger.Error("re-queue file cleanup failed",
					zap.String("file_id", fileID), zap.Error(err))
			}
			time.Sleep(time.Second)
		}
	}
}
