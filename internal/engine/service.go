package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tkc/fignotes/internal/domain"
	"github.com/tkc/fignotes/internal/store"
)

// ErrInvalidMutation は存在しないタスクや不正なフィールドへの変更要求。
// 一切の状態変更より前に弾かれる
var ErrInvalidMutation = errors.New("invalid mutation payload")

// TaskSource はライブタスクの取得元（通常はfigma.Client）
type TaskSource interface {
	FetchTasks(ctx context.Context, currentUserHandle string) ([]*domain.Task, error)
}

// Service はsyncとタスク変更を取りまとめる。
// 1プロセス内の書き手はここに直列に入ってくる前提で、
// ストアのread-modify-writeを複数プロセスから叩いてはいけない。
type Service struct {
	source TaskSource
	store  *store.TaskStore
	user   string

	// Now はテストから時刻を固定するためのフック
	Now func() time.Time
}

// NewService は新しいServiceを作成する
func NewService(source TaskSource, st *store.TaskStore, currentUser string) *Service {
	return &Service{
		source: source,
		store:  st,
		user:   currentUser,
		Now:    time.Now,
	}
}

// Sync はライブ取得→reconcile→保存→集計を1サイクル実行する。
// ライブ取得の失敗は致命にせず、保存データだけで結果を組み立てて
// LiveFetchFailedを立てる。保存の失敗だけがエラーとして返る。
func (s *Service) Sync(ctx context.Context) (*domain.SyncResult, error) {
	live, err := s.source.FetchTasks(ctx, s.user)
	if err != nil {
		result := s.GetState()
		result.LiveFetchFailed = true
		return result, nil
	}

	stored := s.store.GetAll()
	now := s.Now()

	merged := Reconcile(live, stored, now)
	dropped := CountDroppedAnnotations(stored, merged)

	// 保存してから同じスナップショットで集計する。
	// 永続化された内容と返す集計は常に一致する
	if err := s.store.SaveAll(merged); err != nil {
		return nil, fmt.Errorf("failed to persist sync result: %w", err)
	}

	result := ComputeResult(taskList(merged), s.user)
	result.DroppedAnnotations = dropped
	return result, nil
}

// GetState は保存済みタスクだけから結果を組み立てる。
// ライブ取得も保存もせず、タスクの取捨選択もしない。
// 派生フィールドだけは現在時刻で計算し直す（永続化はしない）。
func (s *Service) GetState() *domain.SyncResult {
	tasks := taskList(s.store.GetAll())
	now := s.Now()
	for _, t := range tasks {
		t.RecomputeDerived(now)
	}
	return ComputeResult(tasks, s.user)
}

// Focus は現在のスナップショットからフォーカスすべきタスクを返す
func (s *Service) Focus() *domain.Task {
	return SelectFocus(s.GetState().Tasks, s.user)
}

// UpdateTask は1タスクの1フィールドを変更する
func (s *Service) UpdateTask(id, field, value string) error {
	tasks := s.store.GetAll()
	task, ok := tasks[id]
	if !ok {
		return fmt.Errorf("%w: unknown task %q", ErrInvalidMutation, id)
	}
	if err := applyField(task, field, value); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMutation, err)
	}
	return s.store.UpdateOne(task)
}

// BulkUpdate は複数タスクへ同じ変更をまとめて適用する。
// 1件でも不正があれば何も書き込まずに失敗する
func (s *Service) BulkUpdate(ids []string, updates map[string]string) error {
	tasks := s.store.GetAll()

	changed := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		task, ok := tasks[id]
		if !ok {
			return fmt.Errorf("%w: unknown task %q", ErrInvalidMutation, id)
		}
		copied := *task
		for field, value := range updates {
			if err := applyField(&copied, field, value); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidMutation, err)
			}
		}
		changed = append(changed, &copied)
	}

	for _, t := range changed {
		tasks[t.CommentID] = t
	}
	return s.store.SaveAll(tasks)
}

// Resolve はタスクをローカルで解決済みにする。
// resolvedの所有者は外部ソースなので、次のsyncでライブ側の値に戻り得る
func (s *Service) Resolve(id string) error {
	tasks := s.store.GetAll()
	task, ok := tasks[id]
	if !ok {
		return fmt.Errorf("%w: unknown task %q", ErrInvalidMutation, id)
	}

	now := s.Now()
	task.Resolved = true
	task.ResolvedAt = &now
	if task.ResolvedBy == "" {
		if s.user != "" {
			task.ResolvedBy = s.user
		} else {
			task.ResolvedBy = task.Author
		}
	}
	task.RecomputeDerived(now)
	return s.store.UpdateOne(task)
}

// Unresolve はローカルの解決済みフラグを取り消す
func (s *Service) Unresolve(id string) error {
	tasks := s.store.GetAll()
	task, ok := tasks[id]
	if !ok {
		return fmt.Errorf("%w: unknown task %q", ErrInvalidMutation, id)
	}

	task.Resolved = false
	task.ResolvedAt = nil
	task.ResolvedBy = ""
	task.RecomputeDerived(s.Now())
	return s.store.UpdateOne(task)
}

// SetWorking は作業中タスクを切り替える（常に高々1件）
func (s *Service) SetWorking(id string) error {
	if err := s.store.SetWorking(id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return fmt.Errorf("%w: unknown task %q", ErrInvalidMutation, id)
		}
		return err
	}
	return nil
}

// ClearWorking は作業中フラグを全て下ろす
func (s *Service) ClearWorking() error {
	return s.store.ClearWorking()
}

// applyField はフィールド名と文字列値で1項目だけ書き換える
func applyField(t *domain.Task, field, value string) error {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "effort":
		effort, err := domain.ParseEffort(value)
		if err != nil {
			return err
		}
		t.Effort = effort
	case "estimate":
		minutes, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || minutes < 0 {
			return fmt.Errorf("invalid estimate: %q (minutes)", value)
		}
		t.TimeEstimateMinutes = minutes
	case "assignee":
		t.Assignee = strings.TrimSpace(strings.TrimPrefix(value, "@"))
	case "priority":
		priority, err := domain.ParsePriority(value)
		if err != nil {
			return err
		}
		t.Priority = priority
	case "status":
		status, err := domain.ParseStatus(value)
		if err != nil {
			return err
		}
		t.InternalStatus = status
	case "ignored":
		ignored, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid ignored flag: %q", value)
		}
		t.Ignored = ignored
	default:
		return fmt.Errorf("unknown field: %q (effort, estimate, assignee, priority, status, ignored)", field)
	}
	return nil
}

func taskList(tasks map[string]*domain.Task) []*domain.Task {
	list := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		list = append(list, t)
	}
	return list
}
