package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tkc/fignotes/internal/domain"
)

func TestSelectFocusEmpty(t *testing.T) {
	assert.Nil(t, SelectFocus(nil, "alice"))
	assert.Nil(t, SelectFocus([]*domain.Task{}, "alice"))
}

func TestSelectFocusAssignedBeatsPriority(t *testing.T) {
	// シナリオD: 自分アサインのMediumが他人のCriticalより先
	t0 := testNow.AddDate(0, 0, -10)
	t1 := testNow.AddDate(0, 0, -1)

	tasks := []*domain.Task{
		task("a", func(t *domain.Task) { t.Assignee = "bob"; t.Priority = domain.PriorityMedium; t.CreatedAt = t1 }),
		task("b", func(t *domain.Task) { t.Assignee = "alice"; t.Priority = domain.PriorityCritical; t.CreatedAt = t0 }),
	}

	focus := SelectFocus(tasks, "alice")
	require.NotNil(t, focus)
	assert.Equal(t, "b", focus.CommentID)

	// bob視点ではaが勝つ
	focus = SelectFocus(tasks, "bob")
	require.NotNil(t, focus)
	assert.Equal(t, "a", focus.CommentID)
}

func TestSelectFocusCriticalBeatsAge(t *testing.T) {
	tasks := []*domain.Task{
		task("old-medium", func(t *domain.Task) { t.CreatedAt = testNow.AddDate(0, 0, -30) }),
		task("new-critical", func(t *domain.Task) {
			t.Priority = domain.PriorityCritical
			t.CreatedAt = testNow.AddDate(0, 0, -1)
		}),
	}

	focus := SelectFocus(tasks, "")
	require.NotNil(t, focus)
	assert.Equal(t, "new-critical", focus.CommentID)
}

func TestSelectFocusOldestThenEstimate(t *testing.T) {
	created := testNow.AddDate(0, 0, -5)
	tasks := []*domain.Task{
		task("small", func(t *domain.Task) { t.CreatedAt = created; t.TimeEstimateMinutes = 10 }),
		task("big", func(t *domain.Task) { t.CreatedAt = created; t.TimeEstimateMinutes = 90 }),
		task("older", func(t *domain.Task) { t.CreatedAt = created.AddDate(0, 0, -1) }),
	}

	focus := SelectFocus(tasks, "")
	require.NotNil(t, focus)
	assert.Equal(t, "older", focus.CommentID)

	// 同じ古さなら見積もりの大きい方
	focus = SelectFocus(tasks[:2], "")
	require.NotNil(t, focus)
	assert.Equal(t, "big", focus.CommentID)
}

func TestSelectFocusSkipsNonActionable(t *testing.T) {
	tasks := []*domain.Task{
		task("resolved", func(t *domain.Task) { t.Resolved = true }),
		task("done", func(t *domain.Task) { t.InternalStatus = domain.StatusDone }),
		task("ignored", func(t *domain.Task) { t.Ignored = true }),
	}

	assert.Nil(t, SelectFocus(tasks, "alice"))
}

func TestSelectFocusPure(t *testing.T) {
	tasks := []*domain.Task{
		task("a", func(t *domain.Task) { t.CreatedAt = testNow.Add(-time.Hour) }),
		task("b", func(t *domain.Task) { t.CreatedAt = testNow.Add(-2 * time.Hour) }),
	}

	first := SelectFocus(tasks, "alice")
	for i := 0; i < 10; i++ {
		assert.Same(t, first, SelectFocus(tasks, "alice"))
	}
	// 入力順も変えない
	assert.Equal(t, "a", tasks[0].CommentID)
}
