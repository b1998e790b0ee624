package figma

import (
	"regexp"
	"time"

	"github.com/tkc/fignotes/internal/domain"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_.\-]+)`)

// ParseComments は生コメントを正規化されたTaskに変換する。
// 不正なレコードは捨てる。全体としては決して失敗しない。
func ParseComments(raw []RawComment, index *NodeIndex, currentUserHandle string, now time.Time) []*domain.Task {
	tasks := make([]*domain.Task, 0, len(raw))

	for _, rc := range raw {
		// IDなしは追跡不能、返信はスレッド先頭のみ対象
		if rc.ID == "" || rc.ParentID != "" {
			continue
		}

		task := &domain.Task{
			CommentID: rc.ID,
			Author:    rc.User.Handle,
			Message:   rc.Message,
			CreatedAt: parseTime(rc.CreatedAt, now),
			Page:      GlobalPageName,
			Frame:     GlobalFrameName,
		}

		if loc := index.Resolve(rc.ClientMeta.NodeID); loc.NodeID != "" {
			task.NodeID = loc.NodeID
			task.FrameID = loc.FrameID
			task.PageID = loc.PageID
			if loc.PageName != "" {
				task.Page = loc.PageName
			}
			if loc.FrameName != "" {
				task.Frame = loc.FrameName
			}
		}

		if rc.ResolvedAt != "" {
			resolvedAt := parseTime(rc.ResolvedAt, now)
			task.Resolved = true
			task.ResolvedAt = &resolvedAt
		}

		if assignee := mentionAssignee(rc.Message, currentUserHandle); assignee != "" {
			task.Assignee = assignee
		}

		if task.Resolved {
			task.ResolvedBy = resolverHandle(task)
		}

		task.ApplyFirstSeenDefaults()
		tasks = append(tasks, task)
	}

	return tasks
}

// mentionAssignee はメンションによる自動アサインを判定する。
// 本文が現在ユーザーをメンションしている場合のみ設定する。
// 同じ本文と同じユーザーに対しては常に同じ結果を返す（冪等）。
func mentionAssignee(message, currentUserHandle string) string {
	if currentUserHandle == "" {
		return ""
	}
	for _, m := range mentionPattern.FindAllStringSubmatch(message, -1) {
		if m[1] == currentUserHandle {
			return currentUserHandle
		}
	}
	return ""
}

// resolverHandle は解決者のハンドルを推定する。
// APIは解決者を返さないため、アサイン済みならその人、なければ起票者とする。
func resolverHandle(t *domain.Task) string {
	if t.Assignee != "" {
		return t.Assignee
	}
	return t.Author
}

func parseTime(s string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
