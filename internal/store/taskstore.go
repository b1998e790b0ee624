package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tkc/fignotes/internal/domain"
)

// storageKeyPrefix はスキーマ変更時にバージョンを上げる
const storageKeyPrefix = "fignotes_tasks_v3"

// ErrTaskNotFound は存在しないタスクIDへの操作
var ErrTaskNotFound = errors.New("task not found")

// TaskStore はTaskのセット全体をKVに永続化する。
// 読み出しは決して失敗しない（壊れていれば空として扱う）。
// 書き込み失敗は致命で、ErrWriteFailedが伝播する。
//
// UpdateOneはread-modify-writeで、複数の書き手が重なると
// 後勝ちで片方の変更が消える。書き手はプロセス内で直列化すること。
type TaskStore struct {
	kv  KV
	key string
}

// NewTaskStore は新しいTaskStoreを作成する。
// fileKeyごとにタスクセットを分離する。
func NewTaskStore(kv KV, fileKey string) *TaskStore {
	key := storageKeyPrefix
	if fileKey != "" {
		key = fmt.Sprintf("%s_%s", storageKeyPrefix, fileKey)
	}
	return &TaskStore{kv: kv, key: key}
}

// GetAll は保存済みタスクをcommentID→Taskのマップで返す。
// 未保存・破損時は空マップを返す
func (s *TaskStore) GetAll() map[string]*domain.Task {
	data, ok := s.kv.Get(s.key)
	if !ok {
		return map[string]*domain.Task{}
	}

	var tasks map[string]*domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil || tasks == nil {
		return map[string]*domain.Task{}
	}

	// JSONのnullエントリはnil *Taskとして素通りしてくるので捨てる
	for id, t := range tasks {
		if t == nil {
			delete(tasks, id)
		}
	}
	return tasks
}

// SaveAll はタスクセット全体を上書き保存する
func (s *TaskStore) SaveAll(tasks map[string]*domain.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return s.kv.Set(s.key, data)
}

// UpdateOne は1件だけ差し替えて全体を保存し直す
func (s *TaskStore) UpdateOne(task *domain.Task) error {
	tasks := s.GetAll()
	tasks[task.CommentID] = task
	return s.SaveAll(tasks)
}

// SetWorking は指定タスクだけをisCurrentlyWorking=trueにする。
// 他の全タスクのフラグはクリアされ、trueは常に高々1件になる
func (s *TaskStore) SetWorking(taskID string) error {
	tasks := s.GetAll()
	target, ok := tasks[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	for _, t := range tasks {
		t.IsCurrentlyWorking = false
	}
	target.IsCurrentlyWorking = true

	return s.SaveAll(tasks)
}

// ClearWorking は全タスクのisCurrentlyWorkingをクリアする
func (s *TaskStore) ClearWorking() error {
	tasks := s.GetAll()
	for _, t := range tasks {
		t.IsCurrentlyWorking = false
	}
	return s.SaveAll(tasks)
}
