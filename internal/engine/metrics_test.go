package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkc/fignotes/internal/domain"
)

func task(id string, mutate func(*domain.Task)) *domain.Task {
	t := &domain.Task{
		CommentID:      id,
		Author:         "carol",
		CreatedAt:      testNow.AddDate(0, 0, -1),
		Message:        "task " + id,
		Page:           "Checkout",
		Frame:          "Cart",
		PageID:         "1:1",
		FrameID:        "1:2",
		Priority:       domain.PriorityMedium,
		InternalStatus: domain.StatusPending,
	}
	if mutate != nil {
		mutate(t)
	}
	return t
}

func TestSortOrder(t *testing.T) {
	tasks := []*domain.Task{
		task("resolved-critical", func(t *domain.Task) { t.Resolved = true; t.Priority = domain.PriorityCritical }),
		task("low", func(t *domain.Task) { t.Priority = domain.PriorityLow }),
		task("critical", func(t *domain.Task) { t.Priority = domain.PriorityCritical }),
		task("critical-done", func(t *domain.Task) {
			t.Priority = domain.PriorityCritical
			t.InternalStatus = domain.StatusDone
		}),
		task("critical-newer", func(t *domain.Task) {
			t.Priority = domain.PriorityCritical
			t.CreatedAt = testNow
		}),
	}

	sorted := SortTasks(tasks)

	ids := make([]string, len(sorted))
	for i, s := range sorted {
		ids[i] = s.CommentID
	}
	// 未解決が先、Critical優先、同priorityはステータス順、同ステータスは新しい順
	assert.Equal(t, []string{"critical-newer", "critical", "critical-done", "low", "resolved-critical"}, ids)
}

func TestSortStableTieBreakByID(t *testing.T) {
	a := task("b-id", nil)
	b := task("a-id", nil)

	for i := 0; i < 5; i++ {
		sorted := SortTasks([]*domain.Task{a, b})
		require.Equal(t, "a-id", sorted[0].CommentID)
		sorted = SortTasks([]*domain.Task{b, a})
		require.Equal(t, "a-id", sorted[0].CommentID)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	tasks := []*domain.Task{task("z", nil), task("a", nil)}
	SortTasks(tasks)
	assert.Equal(t, "z", tasks[0].CommentID)
}

func TestHealthScoreBounds(t *testing.T) {
	// 全部未解決・全部Critical・全部古くて重い → 0でクランプされる
	var group []*domain.Task
	for i := 0; i < 10; i++ {
		group = append(group, task(fmt.Sprintf("c%d", i), func(t *domain.Task) {
			t.Priority = domain.PriorityCritical
			t.AgeInDays = 30
			t.TimeEstimateMinutes = 90
		}))
	}

	result := ComputeResult(group, "")
	for _, f := range result.Flows {
		assert.GreaterOrEqual(t, f.HealthScore, 0)
		assert.LessOrEqual(t, f.HealthScore, 100)
	}
	require.Len(t, result.Flows, 1)
	assert.Equal(t, 0, result.Flows[0].HealthScore)
}

func TestHealthScorePenalties(t *testing.T) {
	// 2件中1件解決済み: base 50。未解決の1件がCritical(-15)+古い(-10)+重い(-5)
	group := []*domain.Task{
		task("done", func(t *domain.Task) { t.Resolved = true }),
		task("open", func(t *domain.Task) {
			t.Priority = domain.PriorityCritical
			t.AgeInDays = 8
			t.TimeEstimateMinutes = 61
		}),
	}

	result := ComputeResult(group, "")
	require.Len(t, result.Flows, 1)
	assert.Equal(t, 20, result.Flows[0].HealthScore)
	assert.InDelta(t, 0.5, result.Flows[0].Intensity, 0.001)
}

func TestFlowGrouping(t *testing.T) {
	tasks := []*domain.Task{
		task("a", nil),
		task("b", func(t *domain.Task) { t.PageID = "2:1"; t.FrameID = "2:2"; t.Page = "Login"; t.Frame = "Form" }),
		task("c", func(t *domain.Task) { t.PageID = ""; t.FrameID = ""; t.Page = "Global / Unassigned"; t.Frame = "Canvas" }),
	}

	result := ComputeResult(tasks, "")
	require.Len(t, result.Flows, 3)

	byID := map[string]domain.FlowMetrics{}
	for _, f := range result.Flows {
		byID[f.FlowID] = f
	}
	assert.Contains(t, byID, "1:1/1:2")
	assert.Contains(t, byID, "2:1/2:2")
	assert.Contains(t, byID, "global/canvas")
	assert.Equal(t, "Global / Unassigned / Canvas", byID["global/canvas"].FlowName)
	assert.Equal(t, "Login / Form", byID["2:1/2:2"].FlowName)
}

func TestShipReadinessNeedsCleanup(t *testing.T) {
	// シナリオA: 未解決1件、Criticalなし、若い → Needs Cleanup
	result := ComputeResult([]*domain.Task{task("c1", nil)}, "")

	require.Len(t, result.Tasks, 1)
	assert.Equal(t, "c1", result.Tasks[0].CommentID)
	assert.Equal(t, domain.ReadinessNeedsCleanup, result.File.ShipReadiness)
}

func TestShipReadinessHighRisk(t *testing.T) {
	t.Run("critical unresolved", func(t *testing.T) {
		result := ComputeResult([]*domain.Task{
			task("c1", func(t *domain.Task) { t.Priority = domain.PriorityCritical }),
		}, "")
		assert.Equal(t, domain.ReadinessHighRisk, result.File.ShipReadiness)
	})

	t.Run("stale unresolved", func(t *testing.T) {
		result := ComputeResult([]*domain.Task{
			task("c1", func(t *domain.Task) { t.AgeInDays = 15 }),
		}, "")
		assert.Equal(t, domain.ReadinessHighRisk, result.File.ShipReadiness)
	})

	t.Run("more than 20 unresolved", func(t *testing.T) {
		// シナリオC: Criticalなし・若くても21件でHigh Risk
		var tasks []*domain.Task
		for i := 0; i < 21; i++ {
			tasks = append(tasks, task(fmt.Sprintf("c%d", i), func(t *domain.Task) { t.AgeInDays = 3 }))
		}
		result := ComputeResult(tasks, "")
		assert.Equal(t, domain.ReadinessHighRisk, result.File.ShipReadiness)
	})

	t.Run("exactly 20 unresolved stays cleanup", func(t *testing.T) {
		var tasks []*domain.Task
		for i := 0; i < 20; i++ {
			tasks = append(tasks, task(fmt.Sprintf("c%d", i), nil))
		}
		result := ComputeResult(tasks, "")
		assert.Equal(t, domain.ReadinessNeedsCleanup, result.File.ShipReadiness)
	})
}

func TestShipReadinessEmpty(t *testing.T) {
	// シナリオE: 空ストア → Ready、フローなし
	result := ComputeResult(nil, "")

	assert.Empty(t, result.Tasks)
	assert.Empty(t, result.Flows)
	assert.Equal(t, domain.ReadinessReady, result.File.ShipReadiness)
	assert.InDelta(t, 100, result.File.CompletionPercentage, 0.001)
	assert.Contains(t, result.WeeklySummary, "Ready")
}

func TestWeeklySummaryContents(t *testing.T) {
	result := ComputeResult([]*domain.Task{
		task("c1", nil),
		task("c2", func(t *domain.Task) { t.Resolved = true }),
	}, "")

	assert.Contains(t, result.WeeklySummary, "1 of 2")
	assert.Contains(t, result.WeeklySummary, string(domain.ReadinessNeedsCleanup))
}

func TestResolverBreakdown(t *testing.T) {
	tasks := []*domain.Task{
		task("a", func(t *domain.Task) { t.Resolved = true; t.ResolvedBy = "alice" }),
		task("b", func(t *domain.Task) { t.Resolved = true; t.ResolvedBy = "alice" }),
		task("c", func(t *domain.Task) { t.Resolved = true; t.ResolvedBy = "bob" }),
		task("d", nil),
	}

	result := ComputeResult(tasks, "")
	require.Len(t, result.ResolverBreakdown, 2)
	assert.Equal(t, domain.ResolverCount{Handle: "alice", Count: 2}, result.ResolverBreakdown[0])
	assert.Equal(t, domain.ResolverCount{Handle: "bob", Count: 1}, result.ResolverBreakdown[1])
}

func TestFileMetricsEstimates(t *testing.T) {
	tasks := []*domain.Task{
		task("a", func(t *domain.Task) { t.Effort = domain.EffortLarge }),                 // 90m
		task("b", func(t *domain.Task) { t.TimeEstimateMinutes = 30 }),                    // 30m
		task("c", func(t *domain.Task) { t.Resolved = true; t.TimeEstimateMinutes = 99 }), // 解決済みは含めない
	}

	result := ComputeResult(tasks, "")
	assert.Equal(t, 120, result.File.UnresolvedTimeEstimate)
	assert.InDelta(t, 100.0/3.0, result.File.CompletionPercentage, 0.1)
}
