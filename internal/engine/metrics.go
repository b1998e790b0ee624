package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/tkc/fignotes/internal/domain"
)

// スコアリングの閾値
const (
	penaltyCritical     = 15
	penaltyStaleAgeDays = 7
	penaltyStale        = 10
	penaltyLongEstimate = 5
	longEstimateMinutes = 60
	highRiskAgeDays     = 14
	highRiskUnresolved  = 20
)

// ComputeResult はタスク集合から最終出力を組み立てる。
// 入力は変更しない。同じ入力には常に同じ出力を返す。
func ComputeResult(tasks []*domain.Task, currentUser string) *domain.SyncResult {
	sorted := SortTasks(tasks)

	result := &domain.SyncResult{
		Tasks:             sorted,
		Flows:             computeFlows(sorted),
		File:              computeFileMetrics(sorted),
		ResolverBreakdown: resolverBreakdown(sorted),
		CurrentUser:       currentUser,
	}
	result.WeeklySummary = weeklySummary(result)
	return result
}

// SortTasks は表示順にソートしたコピーを返す。
// 未解決が先、優先度順、ステータス順、新しい順。
// タイムスタンプまで同じ場合はcommentIDの辞書順で決定性を保証する。
func SortTasks(tasks []*domain.Task) []*domain.Task {
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Resolved != b.Resolved {
			return !a.Resolved
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.InternalStatus.Rank() != b.InternalStatus.Rank() {
			return a.InternalStatus.Rank() < b.InternalStatus.Rank()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.CommentID < b.CommentID
	})

	return sorted
}

// flowKey はタスクのグルーピングキーを返す（pageId / frameId、欠落時は固定ラベル）
func flowKey(t *domain.Task) string {
	page := t.PageID
	if page == "" {
		page = "global"
	}
	frame := t.FrameID
	if frame == "" {
		frame = "canvas"
	}
	return page + "/" + frame
}

func computeFlows(tasks []*domain.Task) []domain.FlowMetrics {
	groups := make(map[string][]*domain.Task)
	for _, t := range tasks {
		key := flowKey(t)
		groups[key] = append(groups[key], t)
	}

	flows := make([]domain.FlowMetrics, 0, len(groups))
	for key, group := range groups {
		flows = append(flows, computeFlow(key, group))
	}

	// グループ化はマップ経由なので出力順を固定する
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].FlowName != flows[j].FlowName {
			return flows[i].FlowName < flows[j].FlowName
		}
		return flows[i].FlowID < flows[j].FlowID
	})

	return flows
}

func computeFlow(key string, group []*domain.Task) domain.FlowMetrics {
	m := domain.FlowMetrics{
		FlowID:     key,
		PageName:   group[0].Page,
		FrameName:  group[0].Frame,
		TotalTasks: len(group),
	}
	m.FlowName = fmt.Sprintf("%s / %s", m.PageName, m.FrameName)

	for _, t := range group {
		m.TotalTimeEstimate += t.TimeEstimate()
		if t.Priority == domain.PriorityCritical {
			m.CriticalTasks++
		}
		if !t.Resolved {
			m.UnresolvedTasks++
		}
	}

	m.HealthScore = healthScore(group)
	if m.TotalTasks > 0 {
		m.Intensity = float64(m.UnresolvedTasks) / float64(m.TotalTasks)
	}

	return m
}

// healthScore は完了率ベースのスコアから未解決タスクごとの
// ペナルティを引いた値を返す。常に[0,100]。
func healthScore(group []*domain.Task) int {
	if len(group) == 0 {
		return 100
	}

	resolved := 0
	for _, t := range group {
		if t.Resolved {
			resolved++
		}
	}

	score := 100 * float64(resolved) / float64(len(group))

	for _, t := range group {
		if t.Resolved {
			continue
		}
		if t.Priority == domain.PriorityCritical {
			score -= penaltyCritical
		}
		if t.AgeInDays > penaltyStaleAgeDays {
			score -= penaltyStale
		}
		if t.TimeEstimate() > longEstimateMinutes {
			score -= penaltyLongEstimate
		}
	}

	return int(math.Round(math.Min(100, math.Max(0, score))))
}

func computeFileMetrics(tasks []*domain.Task) domain.FileMetrics {
	m := domain.FileMetrics{
		TotalTasks:           len(tasks),
		CompletionPercentage: 100,
	}

	criticalUnresolved := false
	for _, t := range tasks {
		if t.Resolved {
			continue
		}
		m.TotalUnresolved++
		m.UnresolvedTimeEstimate += t.TimeEstimate()
		if t.Priority == domain.PriorityCritical {
			criticalUnresolved = true
		}
		if t.AgeInDays > m.OldestUnresolvedAgeDays {
			m.OldestUnresolvedAgeDays = t.AgeInDays
		}
	}

	if m.TotalTasks > 0 {
		resolved := m.TotalTasks - m.TotalUnresolved
		m.CompletionPercentage = 100 * float64(resolved) / float64(m.TotalTasks)
	}

	switch {
	case criticalUnresolved,
		m.OldestUnresolvedAgeDays > highRiskAgeDays,
		m.TotalUnresolved > highRiskUnresolved:
		m.ShipReadiness = domain.ReadinessHighRisk
	case m.TotalUnresolved > 0:
		m.ShipReadiness = domain.ReadinessNeedsCleanup
	default:
		m.ShipReadiness = domain.ReadinessReady
	}

	return m
}

// resolverBreakdown は解決者ごとの件数を多い順に返す
func resolverBreakdown(tasks []*domain.Task) []domain.ResolverCount {
	counts := make(map[string]int)
	for _, t := range tasks {
		if t.Resolved && t.ResolvedBy != "" {
			counts[t.ResolvedBy]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	breakdown := make([]domain.ResolverCount, 0, len(counts))
	for handle, count := range counts {
		breakdown = append(breakdown, domain.ResolverCount{Handle: handle, Count: count})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Handle < breakdown[j].Handle
	})

	return breakdown
}

func weeklySummary(r *domain.SyncResult) string {
	if r.File.TotalTasks == 0 {
		return fmt.Sprintf("No review tasks on file. Ship readiness: %s.", r.File.ShipReadiness)
	}
	return fmt.Sprintf("%d of %d review tasks unresolved across %d flows. Ship readiness: %s.",
		r.File.TotalUnresolved, r.File.TotalTasks, len(r.Flows), r.File.ShipReadiness)
}
