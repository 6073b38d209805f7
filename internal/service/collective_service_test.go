package service

import (
	"edu_insight_backend/internal/model"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneCollectiveFingerprintBound(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := model.NewCollectivePatterns("c")
	for i := 0; i < maxFingerprints+100; i++ {
		p.Fingerprints = append(p.Fingerprints, model.LearnerFingerprint{
			UserID:    uint(i + 1),
			UpdatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	PruneCollective(p, now)

	require.Len(t, p.Fingerprints, maxFingerprints)
	// 保留的是最近更新的那一批
	assert.Equal(t, uint(1), p.Fingerprints[0].UserID)
	for _, fp := range p.Fingerprints {
		assert.True(t, fp.UpdatedAt.After(now.Add(-maxEntryAge)))
	}
}

func TestPruneCollectivePatternBound(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := model.NewCollectivePatterns("c")
	// 120 个模式，频次 1..120
	for i := 1; i <= 120; i++ {
		p.Patterns = append(p.Patterns, model.LearningPattern{
			SectionID:     fmt.Sprintf("s%d", i),
			Topic:         "loops",
			StruggleCount: i,
			LastSeen:      now,
		})
	}

	PruneCollective(p, now)

	require.Len(t, p.Patterns, maxPatterns)
	// 高频模式存活，低频的 20 个被修剪
	assert.Equal(t, 120, p.Patterns[0].StruggleCount)
	for _, pt := range p.Patterns {
		assert.GreaterOrEqual(t, pt.StruggleCount, 21)
	}
}

func TestPruneCollectiveAgeFilter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := model.NewCollectivePatterns("c")
	p.Fingerprints = []model.LearnerFingerprint{
		{UserID: 1, UpdatedAt: now.Add(-time.Hour)},
		{UserID: 2, UpdatedAt: now.Add(-40 * 24 * time.Hour)},
	}
	p.HelpfulByUser[1] = []model.HelpfulContent{
		{SlotType: "video", SectionID: "s1", RecordedAt: now.Add(-time.Hour)},
		{SlotType: "quiz", SectionID: "s1", RecordedAt: now.Add(-35 * 24 * time.Hour)},
	}
	p.HelpfulByUser[2] = []model.HelpfulContent{
		{SlotType: "video", SectionID: "s2", RecordedAt: now.Add(-31 * 24 * time.Hour)},
	}

	PruneCollective(p, now)

	require.Len(t, p.Fingerprints, 1)
	assert.Equal(t, uint(1), p.Fingerprints[0].UserID)
	require.Len(t, p.HelpfulByUser[1], 1)
	assert.Equal(t, "video", p.HelpfulByUser[1][0].SlotType)
	// 整桶过期后删除键
	_, ok := p.HelpfulByUser[2]
	assert.False(t, ok)
}

func TestPruneCollectiveHelpfulPerUserBound(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := model.NewCollectivePatterns("c")
	for i := 0; i < maxHelpfulPerUser+10; i++ {
		p.HelpfulByUser[7] = append(p.HelpfulByUser[7], model.HelpfulContent{
			SlotType:         "video",
			SectionID:        fmt.Sprintf("s%d", i),
			ImprovementScore: float64(i),
			RecordedAt:       now,
		})
	}

	PruneCollective(p, now)

	require.Len(t, p.HelpfulByUser[7], maxHelpfulPerUser)
	// 提升分最高的排最前
	assert.InDelta(t, float64(maxHelpfulPerUser+9), p.HelpfulByUser[7][0].ImprovementScore, 0.001)
}

func buildPatterns(courseID string, seed int, now time.Time) *model.CollectivePatterns {
	p := model.NewCollectivePatterns(courseID)
	p.Fingerprints = []model.LearnerFingerprint{
		{UserID: 1, AverageScore: float64(50 + seed), UpdatedAt: now.Add(-time.Duration(seed) * time.Hour)},
		{UserID: uint(10 + seed), AverageScore: 70, UpdatedAt: now},
	}
	p.Patterns = []model.LearningPattern{
		{SectionID: "s1", Topic: "loops", StruggleCount: 3 + seed, LastSeen: now},
		{SectionID: fmt.Sprintf("s%d", seed), Topic: "maps", StruggleCount: 2, LastSeen: now},
	}
	p.HelpfulByUser[1] = []model.HelpfulContent{
		{ContentID: fmt.Sprintf("v%d", seed), SlotType: "video", SectionID: "s1", Topic: "loops",
			ImprovementScore: float64(20 + seed), HelpCount: seed, RecordedAt: now.Add(-time.Duration(seed) * time.Hour)},
	}
	p.LearnerCount = 2
	p.LastAggregated = now.Add(-time.Duration(seed) * time.Hour)
	return p
}

func normalize(p *model.CollectivePatterns) *model.CollectivePatterns {
	sort.Slice(p.Fingerprints, func(i, j int) bool { return p.Fingerprints[i].UserID < p.Fingerprints[j].UserID })
	sort.Slice(p.Patterns, func(i, j int) bool {
		if p.Patterns[i].SectionID != p.Patterns[j].SectionID {
			return p.Patterns[i].SectionID < p.Patterns[j].SectionID
		}
		return p.Patterns[i].Topic < p.Patterns[j].Topic
	})
	return p
}

// 导入合并与方向无关：A 并 B 与 B 并 A 得到相同结果
func TestMergeCollectiveCommutative(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := buildPatterns("c", 1, now)
	b := buildPatterns("c", 2, now)

	ab := normalize(MergeCollective(a, b))
	ba := normalize(MergeCollective(b, a))

	assert.Equal(t, ab.Fingerprints, ba.Fingerprints)
	assert.Equal(t, ab.Patterns, ba.Patterns)
	assert.Equal(t, ab.LearnerCount, ba.LearnerCount)
	assert.Equal(t, ab.LastAggregated, ba.LastAggregated)
}

func TestMergeCollectiveEntityRules(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := model.NewCollectivePatterns("c")
	a.Fingerprints = []model.LearnerFingerprint{
		{UserID: 1, AverageScore: 40, UpdatedAt: now.Add(-2 * time.Hour)},
		{UserID: 2, AverageScore: 60, UpdatedAt: now},
	}
	a.Patterns = []model.LearningPattern{
		{SectionID: "s1", Topic: "loops", StruggleCount: 5, LastSeen: now.Add(-time.Hour)},
	}
	a.LearnerCount = 2

	b := model.NewCollectivePatterns("c")
	b.Fingerprints = []model.LearnerFingerprint{
		{UserID: 1, AverageScore: 80, UpdatedAt: now}, // 较新，应胜出
		{UserID: 3, AverageScore: 55, UpdatedAt: now},
	}
	b.Patterns = []model.LearningPattern{
		{SectionID: "s1", Topic: "loops", StruggleCount: 9, LastSeen: now}, // 较高频次胜出
		{SectionID: "s2", Topic: "maps", StruggleCount: 1, LastSeen: now},
	}
	b.LearnerCount = 2

	merged := MergeCollective(a, b)

	require.Len(t, merged.Fingerprints, 3)
	for _, fp := range merged.Fingerprints {
		if fp.UserID == 1 {
			assert.Equal(t, 80.0, fp.AverageScore)
		}
	}

	require.Len(t, merged.Patterns, 2)
	for _, pt := range merged.Patterns {
		if pt.SectionID == "s1" {
			// 取较大频次而不是相加，重复导入不会翻倍
			assert.Equal(t, 9, pt.StruggleCount)
		}
	}

	// 合并后实际学习者多于双方计数时，以指纹数为准
	assert.Equal(t, 3, merged.LearnerCount)
}

func TestFoldRecoveryMergesByContent(t *testing.T) {
	list := []model.RecoveryContent{
		{ContentID: "v1", SlotType: "video", HelpedCount: 2, AvgImprovement: 20},
	}

	list = foldRecovery(list, model.RecoveryContent{ContentID: "v1", SlotType: "video", HelpedCount: 2, AvgImprovement: 40})
	require.Len(t, list, 1)
	assert.Equal(t, 4, list[0].HelpedCount)
	assert.InDelta(t, 30.0, list[0].AvgImprovement, 0.001)

	list = foldRecovery(list, model.RecoveryContent{ContentID: "v2", SlotType: "video", HelpedCount: 1, AvgImprovement: 10})
	assert.Len(t, list, 2)
}
