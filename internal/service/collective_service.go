package service

import (
	"context"
	"edu_insight_backend/internal/model"
	"edu_insight_backend/internal/repository"
	"sort"
	"sync"
	"time"
)

const (
	maxFingerprints   = 500
	maxPatterns       = 100
	maxHelpfulPerUser = 50
	maxEntryAge       = 30 * 24 * time.Hour
)

// CollectiveService 按课程维护共享的挣扎/补救聚合
// 写入遵循 读取-合并-修剪-持久化 的顺序，同一课程的写入串行化，
// 实体粒度上采用 last-write-wins，不做分布式锁
type CollectiveService struct {
	Repo *repository.CollectiveRepository

	mu          sync.Mutex
	courseLocks map[string]*sync.Mutex
}

func NewCollectiveService(repo *repository.CollectiveRepository) *CollectiveService {
	return &CollectiveService{
		Repo:        repo,
		courseLocks: make(map[string]*sync.Mutex),
	}
}

func (s *CollectiveService) lockCourse(courseID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.courseLocks[courseID]
	if !ok {
		l = &sync.Mutex{}
		s.courseLocks[courseID] = l
	}
	return l
}

// mutate 在课程级临界区内执行 读取-修改-修剪-保存
func (s *CollectiveService) mutate(courseID string, fn func(p *model.CollectivePatterns, now time.Time)) error {
	l := s.lockCourse(courseID)
	l.Lock()
	defer l.Unlock()

	ctx := context.Background()
	blob, err := s.Repo.Load(ctx, courseID)
	if err != nil {
		return err
	}

	now := time.Now()
	fn(&blob.Data, now)
	blob.Data.LastAggregated = now
	PruneCollective(&blob.Data, now)

	return s.Repo.Save(ctx, courseID, blob)
}

// AddOrUpdateFingerprint 按学习者 ID 替换指纹，首次出现时递增 learnerCount
func (s *CollectiveService) AddOrUpdateFingerprint(courseID string, fp model.LearnerFingerprint) error {
	return s.mutate(courseID, func(p *model.CollectivePatterns, now time.Time) {
		for i := range p.Fingerprints {
			if p.Fingerprints[i].UserID == fp.UserID {
				p.Fingerprints[i] = fp
				return
			}
		}
		p.Fingerprints = append(p.Fingerprints, fp)
		p.LearnerCount++
	})
}

// AddLearningPattern 按 (章节, 主题) 合并挣扎模式，频次累加
func (s *CollectiveService) AddLearningPattern(courseID string, pattern model.LearningPattern) error {
	return s.mutate(courseID, func(p *model.CollectivePatterns, now time.Time) {
		for i := range p.Patterns {
			if p.Patterns[i].SectionID == pattern.SectionID && p.Patterns[i].Topic == pattern.Topic {
				p.Patterns[i].StruggleCount += pattern.StruggleCount
				if pattern.LastSeen.After(p.Patterns[i].LastSeen) {
					p.Patterns[i].LastSeen = pattern.LastSeen
				}
				for _, rc := range pattern.RecoveryContents {
					p.Patterns[i].RecoveryContents = foldRecovery(p.Patterns[i].RecoveryContents, rc)
				}
				return
			}
		}
		p.Patterns = append(p.Patterns, pattern)
	})
}

// RecordHelpfulContent 在学习者桶内按 (槽类型, 章节, 主题) 合并有效内容，
// 并折叠进对应挣扎模式的补救内容列表
func (s *CollectiveService) RecordHelpfulContent(courseID string, userID uint, hc model.HelpfulContent) error {
	return s.mutate(courseID, func(p *model.CollectivePatterns, now time.Time) {
		bucket := p.HelpfulByUser[userID]
		merged := false
		for i := range bucket {
			if bucket[i].SlotType == hc.SlotType && bucket[i].SectionID == hc.SectionID && bucket[i].Topic == hc.Topic {
				total := bucket[i].HelpCount + hc.HelpCount
				if total > 0 {
					bucket[i].ImprovementScore = (bucket[i].ImprovementScore*float64(bucket[i].HelpCount) +
						hc.ImprovementScore*float64(hc.HelpCount)) / float64(total)
				}
				bucket[i].HelpCount = total
				bucket[i].ContentID = hc.ContentID
				if hc.RecordedAt.After(bucket[i].RecordedAt) {
					bucket[i].RecordedAt = hc.RecordedAt
				}
				merged = true
				break
			}
		}
		if !merged {
			bucket = append(bucket, hc)
		}
		p.HelpfulByUser[userID] = bucket

		for i := range p.Patterns {
			if p.Patterns[i].SectionID == hc.SectionID && p.Patterns[i].Topic == hc.Topic {
				p.Patterns[i].RecoveryContents = foldRecovery(p.Patterns[i].RecoveryContents, model.RecoveryContent{
					ContentID:      hc.ContentID,
					SlotType:       hc.SlotType,
					HelpedCount:    hc.HelpCount,
					AvgImprovement: hc.ImprovementScore,
				})
				break
			}
		}
	})
}

// Export 导出课程聚合快照
func (s *CollectiveService) Export(courseID string) (*model.VersionedPatterns, error) {
	l := s.lockCourse(courseID)
	l.Lock()
	defer l.Unlock()
	return s.Repo.Load(context.Background(), courseID)
}

// Import 合并式导入：同键实体按 最近者/高频者 胜出，双方都有的实体不会丢失
func (s *CollectiveService) Import(courseID string, incoming *model.VersionedPatterns) error {
	return s.mutate(courseID, func(p *model.CollectivePatterns, now time.Time) {
		merged := MergeCollective(p, &incoming.Data)
		*p = *merged
	})
}

// ClearCourse 清空整门课程的聚合数据
func (s *CollectiveService) ClearCourse(courseID string) error {
	l := s.lockCourse(courseID)
	l.Lock()
	defer l.Unlock()
	return s.Repo.Delete(context.Background(), courseID)
}

// PurgeLearner 移除单个学习者的指纹与内容桶，learnerCount 相应回退
func (s *CollectiveService) PurgeLearner(courseID string, userID uint) error {
	return s.mutate(courseID, func(p *model.CollectivePatterns, now time.Time) {
		kept := p.Fingerprints[:0]
		removed := false
		for _, fp := range p.Fingerprints {
			if fp.UserID == userID {
				removed = true
				continue
			}
			kept = append(kept, fp)
		}
		p.Fingerprints = kept
		delete(p.HelpfulByUser, userID)
		if removed && p.LearnerCount > 0 {
			p.LearnerCount--
		}
	})
}

// foldRecovery 按 (ContentID, SlotType) 合并补救内容记录
func foldRecovery(list []model.RecoveryContent, rc model.RecoveryContent) []model.RecoveryContent {
	for i := range list {
		if list[i].ContentID == rc.ContentID && list[i].SlotType == rc.SlotType {
			total := list[i].HelpedCount + rc.HelpedCount
			if total > 0 {
				list[i].AvgImprovement = (list[i].AvgImprovement*float64(list[i].HelpedCount) +
					rc.AvgImprovement*float64(rc.HelpedCount)) / float64(total)
			}
			list[i].HelpedCount = total
			return list
		}
	}
	return append(list, rc)
}

// MergeCollective 纯合并函数：同 UserID 指纹取较新者，
// 同键模式取较高频次，内容桶逐条按最近者胜出，实体不丢失
func MergeCollective(a, b *model.CollectivePatterns) *model.CollectivePatterns {
	out := model.NewCollectivePatterns(a.CourseID)

	fps := make(map[uint]model.LearnerFingerprint)
	for _, fp := range a.Fingerprints {
		fps[fp.UserID] = fp
	}
	for _, fp := range b.Fingerprints {
		if existing, ok := fps[fp.UserID]; !ok || fp.UpdatedAt.After(existing.UpdatedAt) {
			fps[fp.UserID] = fp
		}
	}
	for _, fp := range fps {
		out.Fingerprints = append(out.Fingerprints, fp)
	}
	sort.Slice(out.Fingerprints, func(i, j int) bool {
		return out.Fingerprints[i].UserID < out.Fingerprints[j].UserID
	})

	type patternKey struct{ section, topic string }
	pats := make(map[patternKey]model.LearningPattern)
	for _, pt := range a.Patterns {
		pats[patternKey{pt.SectionID, pt.Topic}] = pt
	}
	for _, pt := range b.Patterns {
		k := patternKey{pt.SectionID, pt.Topic}
		existing, ok := pats[k]
		if !ok {
			pats[k] = pt
			continue
		}
		// 导入合并取较大频次而不是相加，避免重复同步时重复计数
		if pt.StruggleCount > existing.StruggleCount {
			existing.StruggleCount = pt.StruggleCount
		}
		if pt.LastSeen.After(existing.LastSeen) {
			existing.LastSeen = pt.LastSeen
		}
		for _, rc := range pt.RecoveryContents {
			existing.RecoveryContents = mergeRecoveryMax(existing.RecoveryContents, rc)
		}
		pats[k] = existing
	}
	for _, pt := range pats {
		out.Patterns = append(out.Patterns, pt)
	}
	sort.Slice(out.Patterns, func(i, j int) bool {
		if out.Patterns[i].SectionID != out.Patterns[j].SectionID {
			return out.Patterns[i].SectionID < out.Patterns[j].SectionID
		}
		return out.Patterns[i].Topic < out.Patterns[j].Topic
	})

	for userID, bucket := range a.HelpfulByUser {
		out.HelpfulByUser[userID] = append([]model.HelpfulContent(nil), bucket...)
	}
	for userID, bucket := range b.HelpfulByUser {
		existing := out.HelpfulByUser[userID]
		for _, hc := range bucket {
			existing = mergeHelpfulRecent(existing, hc)
		}
		out.HelpfulByUser[userID] = existing
	}

	out.LearnerCount = a.LearnerCount
	if b.LearnerCount > out.LearnerCount {
		out.LearnerCount = b.LearnerCount
	}
	if len(out.Fingerprints) > out.LearnerCount {
		out.LearnerCount = len(out.Fingerprints)
	}
	out.LastAggregated = a.LastAggregated
	if b.LastAggregated.After(out.LastAggregated) {
		out.LastAggregated = b.LastAggregated
	}
	return out
}

func mergeRecoveryMax(list []model.RecoveryContent, rc model.RecoveryContent) []model.RecoveryContent {
	for i := range list {
		if list[i].ContentID == rc.ContentID && list[i].SlotType == rc.SlotType {
			if rc.HelpedCount > list[i].HelpedCount {
				list[i].HelpedCount = rc.HelpedCount
				list[i].AvgImprovement = rc.AvgImprovement
			}
			return list
		}
	}
	return append(list, rc)
}

func mergeHelpfulRecent(list []model.HelpfulContent, hc model.HelpfulContent) []model.HelpfulContent {
	for i := range list {
		if list[i].SlotType == hc.SlotType && list[i].SectionID == hc.SectionID && list[i].Topic == hc.Topic {
			if hc.RecordedAt.After(list[i].RecordedAt) {
				list[i] = hc
			}
			return list
		}
	}
	return append(list, hc)
}

// PruneCollective 每次写入前的有界保留策略：
// 指纹按更新时间保留最新 500 条并过滤 30 天以上的旧数据，
// 模式按频次降序保留 100 条，每个学习者的内容桶按提升分降序保留 50 条
func PruneCollective(p *model.CollectivePatterns, now time.Time) {
	cutoff := now.Add(-maxEntryAge)

	kept := p.Fingerprints[:0]
	for _, fp := range p.Fingerprints {
		if fp.UpdatedAt.After(cutoff) {
			kept = append(kept, fp)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].UpdatedAt.After(kept[j].UpdatedAt)
	})
	if len(kept) > maxFingerprints {
		kept = kept[:maxFingerprints]
	}
	p.Fingerprints = kept

	sort.SliceStable(p.Patterns, func(i, j int) bool {
		return p.Patterns[i].StruggleCount > p.Patterns[j].StruggleCount
	})
	if len(p.Patterns) > maxPatterns {
		p.Patterns = p.Patterns[:maxPatterns]
	}

	for userID, bucket := range p.HelpfulByUser {
		filtered := bucket[:0]
		for _, hc := range bucket {
			if hc.RecordedAt.After(cutoff) {
				filtered = append(filtered, hc)
			}
		}
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].ImprovementScore > filtered[j].ImprovementScore
		})
		if len(filtered) > maxHelpfulPerUser {
			filtered = filtered[:maxHelpfulPerUser]
		}
		if len(filtered) == 0 {
			delete(p.HelpfulByUser, userID)
			continue
		}
		p.HelpfulByUser[userID] = filtered
	}
}
