package figma

import "strings"

// ノードが見つからない場合の表示名
const (
	GlobalPageName  = "Global / Unassigned"
	GlobalFrameName = "Canvas"
)

// rawNode はファイルAPIのドキュメントツリーの1ノード
type rawNode struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Children []rawNode `json:"children"`
}

type nodeInfo struct {
	ID     string
	Name   string
	Type   string
	Parent string
}

// NodeIndex はノードID→親子関係のインデックス。
// コメントの座標からフロー（ページ/フレーム）を引くために使う。
type NodeIndex struct {
	nodes map[string]*nodeInfo
}

// Location はノードが属するフローの解決結果
type Location struct {
	NodeID    string
	FrameID   string
	FrameName string
	PageID    string
	PageName  string
}

func buildNodeIndex(root *rawNode) *NodeIndex {
	idx := &NodeIndex{nodes: make(map[string]*nodeInfo)}
	if root != nil {
		idx.add(root, "")
	}
	return idx
}

func (idx *NodeIndex) add(n *rawNode, parent string) {
	if n.ID == "" {
		return
	}
	idx.nodes[n.ID] = &nodeInfo{ID: n.ID, Name: n.Name, Type: n.Type, Parent: parent}
	for i := range n.Children {
		idx.add(&n.Children[i], n.ID)
	}
}

// NormalizeNodeID はID表記の揺れを正規化する。
// REST APIは "12:34" 形式、プラグイン由来のデータは "12-34" 形式を返すことがある。
func NormalizeNodeID(id string) string {
	if strings.Contains(id, ":") {
		return id
	}
	return strings.Replace(id, "-", ":", 1)
}

// Resolve はノードIDから最近接のフレームとページを解決する。
// 未知のIDは空のLocationに退化する（エラーにしない）。
func (idx *NodeIndex) Resolve(nodeID string) Location {
	loc := Location{}
	if idx == nil || nodeID == "" {
		return loc
	}

	id := NormalizeNodeID(nodeID)
	if _, ok := idx.nodes[id]; !ok {
		return loc
	}
	loc.NodeID = id

	// 最近接のFRAMEまたはPAGEまで遡る
	if n := idx.climb(id, "FRAME", "PAGE"); n != nil && n.Type == "FRAME" {
		loc.FrameID = n.ID
		loc.FrameName = n.Name
	}

	// さらにPAGEまで遡る
	if n := idx.climb(id, "PAGE"); n != nil {
		loc.PageID = n.ID
		loc.PageName = n.Name
	}

	return loc
}

func (idx *NodeIndex) climb(id string, types ...string) *nodeInfo {
	n := idx.nodes[id]
	for n != nil {
		for _, t := range types {
			if n.Type == t {
				return n
			}
		}
		n = idx.nodes[n.Parent]
	}
	return nil
}
