package engine

import (
	"sort"

	"github.com/tkc/fignotes/internal/domain"
)

// SelectFocus は今いちばん手を付けるべきタスクを1件選ぶ。
// 自分にアサインされたものが最優先、次にCritical、古い順、
// 最後に見積もりの大きい順で決める。対象がなければnil。
// 副作用はなく、同じスナップショットには常に同じ答えを返す。
func SelectFocus(tasks []*domain.Task, currentUserID string) *domain.Task {
	candidates := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsActionable() {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		aMine := currentUserID != "" && a.Assignee == currentUserID
		bMine := currentUserID != "" && b.Assignee == currentUserID
		if aMine != bMine {
			return aMine
		}

		aCritical := a.Priority == domain.PriorityCritical
		bCritical := b.Priority == domain.PriorityCritical
		if aCritical != bCritical {
			return aCritical
		}

		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		if a.TimeEstimate() != b.TimeEstimate() {
			return a.TimeEstimate() > b.TimeEstimate()
		}
		return a.CommentID < b.CommentID
	})

	return candidates[0]
}
