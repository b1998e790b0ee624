package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL はFigma REST APIのエンドポイント
const DefaultBaseURL = "https://api.figma.com"

// Client はFigma REST APIクライアント
type Client struct {
	http    *http.Client
	baseURL string
	fileKey string
}

// ClientOption はクライアントの追加設定
type ClientOption struct {
	BaseURL string        // テスト用の差し替え先
	Timeout time.Duration // HTTPタイムアウト
}

// NewClient は新しいClientを作成する
func NewClient(token, fileKey string, opt *ClientOption) *Client {
	if opt == nil {
		opt = &ClientOption{}
	}
	if opt.BaseURL == "" {
		opt.BaseURL = DefaultBaseURL
	}
	if opt.Timeout == 0 {
		opt.Timeout = 30 * time.Second
	}

	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = opt.Timeout

	return &Client{
		http:    httpClient,
		baseURL: opt.BaseURL,
		fileKey: fileKey,
	}
}

// RawComment はAPIが返すコメントレコード。
// 型は緩く、フィールドは欠落し得る。パーサ以外に渡してはいけない。
type RawComment struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	ParentID   string `json:"parent_id"`
	CreatedAt  string `json:"created_at"`
	ResolvedAt string `json:"resolved_at"`
	User       struct {
		Handle string `json:"handle"`
	} `json:"user"`
	ClientMeta struct {
		NodeID string `json:"node_id"`
	} `json:"client_meta"`
}

// File はファイル名とノード階層のインデックス
type File struct {
	Name  string
	Nodes *NodeIndex
}

// GetComments はファイルの全コメントを取得する
func (c *Client) GetComments(ctx context.Context) ([]RawComment, error) {
	var resp struct {
		Comments []RawComment `json:"comments"`
	}
	if err := c.get(ctx, fmt.Sprintf("/v1/files/%s/comments", url.PathEscape(c.fileKey)), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return resp.Comments, nil
}

// GetFile はファイル名とノード階層を取得する
func (c *Client) GetFile(ctx context.Context) (*File, error) {
	var resp struct {
		Name     string  `json:"name"`
		Document rawNode `json:"document"`
	}
	if err := c.get(ctx, fmt.Sprintf("/v1/files/%s", url.PathEscape(c.fileKey)), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch file: %w", err)
	}
	return &File{
		Name:  resp.Name,
		Nodes: buildNodeIndex(&resp.Document),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("token rejected (HTTP %d). Regenerate a token with file read scope at https://www.figma.com/developers/api#access-tokens", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
