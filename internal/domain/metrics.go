package domain

// ShipReadiness はファイル全体の出荷可否の3値判定
type ShipReadiness string

const (
	ReadinessReady        ShipReadiness = "Ready"
	ReadinessNeedsCleanup ShipReadiness = "Needs Cleanup"
	ReadinessHighRisk     ShipReadiness = "High Risk"
)

// FlowMetrics はページ/フレーム単位（フロー）の集計値
type FlowMetrics struct {
	FlowID            string  `json:"flowId"`
	FlowName          string  `json:"flowName"`
	PageName          string  `json:"pageName"`
	FrameName         string  `json:"frameName"`
	TotalTasks        int     `json:"totalTasks"`
	UnresolvedTasks   int     `json:"unresolvedTasks"`
	CriticalTasks     int     `json:"criticalTasks"`
	TotalTimeEstimate int     `json:"totalTimeEstimate"`
	HealthScore       int     `json:"healthScore"`
	Intensity         float64 `json:"intensity"`
}

// FileMetrics はファイル全体の集計値
type FileMetrics struct {
	TotalTasks              int           `json:"totalTasks"`
	TotalUnresolved         int           `json:"totalUnresolved"`
	UnresolvedTimeEstimate  int           `json:"unresolvedTimeEstimate"`
	CompletionPercentage    float64       `json:"completionPercentage"`
	OldestUnresolvedAgeDays int           `json:"oldestUnresolvedAgeDays"`
	ShipReadiness           ShipReadiness `json:"shipReadiness"`
}

// ResolverCount は解決者ごとの件数
type ResolverCount struct {
	Handle string `json:"handle"`
	Count  int    `json:"count"`
}

// SyncResult はsync/getStateの最終出力。
// UI層はこのオブジェクトだけを見て描画する。
type SyncResult struct {
	Tasks             []*Task         `json:"tasks"`
	Flows             []FlowMetrics   `json:"metrics"`
	File              FileMetrics     `json:"fileMetrics"`
	WeeklySummary     string          `json:"weeklySummary"`
	ResolverBreakdown []ResolverCount `json:"resolverBreakdown,omitempty"`
	CurrentUser       string          `json:"currentUser,omitempty"`

	// LiveFetchFailed はライブ取得が失敗し保存データのみで
	// 結果を組み立てたことを示す（致命エラーではない）
	LiveFetchFailed bool `json:"liveFetchFailed,omitempty"`

	// DroppedAnnotations はsyncでライブ側から消えたために
	// 破棄されたローカル注釈付きタスクの数
	DroppedAnnotations int `json:"droppedAnnotations,omitempty"`
}
