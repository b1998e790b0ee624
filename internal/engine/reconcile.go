package engine

import (
	"time"

	"github.com/tkc/fignotes/internal/domain"
)

// Reconcile はライブタスクと保存済みタスクをマージする。
//
// フィールドの所有権で勝敗が決まる:
//   - 外部ソース所有（message, page, frame, resolved, author, createdAt）
//     は常にライブ側で上書きする
//   - ローカル所有のうちstatus/priority/ignored/workingは無条件で
//     保存済みの値を引き継ぐ
//   - effort/estimate/assignee/resolvedAtは「保存済みが未設定でなければ
//     保存済み優先」
//
// ライブに存在しないタスクは結果に含まれない（フルsyncで消える）。
// 派生フィールドは全タスクでnow基準に再計算される。
func Reconcile(live []*domain.Task, stored map[string]*domain.Task, now time.Time) map[string]*domain.Task {
	merged := make(map[string]*domain.Task, len(live))

	for _, l := range live {
		if l.CommentID == "" {
			continue
		}

		task := *l
		task.ApplyFirstSeenDefaults()

		if s, ok := stored[l.CommentID]; ok && s != nil {
			if s.Effort != domain.EffortUnset {
				task.Effort = s.Effort
			}
			if s.TimeEstimateMinutes > 0 {
				task.TimeEstimateMinutes = s.TimeEstimateMinutes
			}
			if s.Assignee != "" {
				task.Assignee = s.Assignee
			}
			if s.ResolvedAt != nil && task.ResolvedAt == nil {
				task.ResolvedAt = s.ResolvedAt
			}
			// 外部からは誰も設定できないフィールドは無条件に引き継ぐ。
			// 保存データが欠けている場合だけ初期値に逃がす
			if s.Priority != "" {
				task.Priority = s.Priority
			}
			if s.InternalStatus != "" {
				task.InternalStatus = s.InternalStatus
			}
			task.Ignored = s.Ignored
			task.IsCurrentlyWorking = s.IsCurrentlyWorking
		}

		task.RecomputeDerived(now)
		merged[task.CommentID] = &task
	}

	return merged
}

// CountDroppedAnnotations はsyncで消えるローカル注釈付きタスクを数える
func CountDroppedAnnotations(stored, merged map[string]*domain.Task) int {
	dropped := 0
	for id, t := range stored {
		if t == nil {
			continue
		}
		if _, kept := merged[id]; !kept && t.HasLocalAnnotations() {
			dropped++
		}
	}
	return dropped
}
