package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// ErrWriteFailed は永続化層の書き込み失敗。呼び出し側に必ず伝播させる。
var ErrWriteFailed = errors.New("storage write failed")

// KV は最小限のキーバリュー永続化プリミティブ
type KV interface {
	// Get は値を返す。存在しない・読めない場合は ok=false
	Get(key string) (value []byte, ok bool)
	// Set は値を書き込む。失敗は ErrWriteFailed にラップされる
	Set(key string, value []byte) error
}

// FileKV はキーごとに1ファイルを持つKV実装。
// 書き込みはtmpファイル経由のアトミックリネームで行う。
type FileKV struct {
	dir string
}

// NewFileKV は新しいFileKVを作成する
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// Get はキーの値を読み出す。読み出し失敗は空扱いにする
func (kv *FileKV) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(kv.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set はキーの値を書き込む
func (kv *FileKV) Set(key string, value []byte) error {
	if err := os.MkdirAll(kv.dir, 0700); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if err := atomic.WriteFile(kv.path(key), bytes.NewReader(value)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func (kv *FileKV) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}
