package figma

import (
	"context"
	"time"

	"github.com/tkc/fignotes/internal/domain"
)

// FetchTasks はコメント取得とノード解決をまとめてライブタスクを返す。
// コメント取得の失敗はエラーとして返す（呼び出し側が空セットに退化させる）。
// ノード階層の取得失敗は位置情報なしに退化するだけで、致命にはしない。
func (c *Client) FetchTasks(ctx context.Context, currentUserHandle string) ([]*domain.Task, error) {
	comments, err := c.GetComments(ctx)
	if err != nil {
		return nil, err
	}

	var index *NodeIndex
	if file, err := c.GetFile(ctx); err == nil {
		index = file.Nodes
	}

	return ParseComments(comments, index, currentUserHandle, time.Now()), nil
}
