package repository

import (
	"context"
	"encoding/json"
	"edu_insight_backend/internal/model"
	"edu_insight_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CollectiveVersion 当前集体模式存储的结构版本号
const CollectiveVersion = 2

const collectiveKeyPrefix = "collective:"

// CollectiveRepository 以 Redis 为后端的按课程键值存储，保存带版本的聚合数据
type CollectiveRepository struct {
	RDB *redis.Client
}

func NewCollectiveRepository(rdb *redis.Client) *CollectiveRepository {
	return &CollectiveRepository{RDB: rdb}
}

// Load 读取课程聚合；键不存在视为空存储，损坏的数据记录日志后同样按空处理
func (r *CollectiveRepository) Load(ctx context.Context, courseID string) (*model.VersionedPatterns, error) {
	raw, err := r.RDB.Get(ctx, collectiveKeyPrefix+courseID).Bytes()
	if err == redis.Nil {
		return &model.VersionedPatterns{
			Data:    *model.NewCollectivePatterns(courseID),
			Version: CollectiveVersion,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	var blob model.VersionedPatterns
	if err := json.Unmarshal(raw, &blob); err != nil {
		logger.Log.Warn("corrupt collective blob, treating as empty",
			zap.String("courseId", courseID), zap.Error(err))
		return &model.VersionedPatterns{
			Data:    *model.NewCollectivePatterns(courseID),
			Version: CollectiveVersion,
		}, nil
	}

	if blob.Version < CollectiveVersion {
		// 没有自动迁移机制，低版本数据按原样继续使用
		logger.Log.Warn("collective blob has older version, proceeding without migration",
			zap.String("courseId", courseID),
			zap.Int("stored", blob.Version), zap.Int("current", CollectiveVersion))
	}
	if blob.Data.HelpfulByUser == nil {
		blob.Data.HelpfulByUser = map[uint][]model.HelpfulContent{}
	}
	blob.Data.CourseID = courseID
	return &blob, nil
}

func (r *CollectiveRepository) Save(ctx context.Context, courseID string, blob *model.VersionedPatterns) error {
	blob.Version = CollectiveVersion
	raw, err := json.Marshal(blob)
	if err != nil {
		return err
	}
	return r.RDB.Set(ctx, collectiveKeyPrefix+courseID, raw, 0).Err()
}

func (r *CollectiveRepository) Delete(ctx context.Context, courseID string) error {
	return r.RDB.Del(ctx, collectiveKeyPrefix+courseID).Err()
}
