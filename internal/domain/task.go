package domain

import "time"

// Priority はタスクの優先度を表す
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Rank は優先度の序列を返す（小さいほど緊急）
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Status はレビュータスクの進行状態を表す
type Status string

const (
	StatusPending     Status = "Pending"
	StatusInProgress  Status = "InProgress"
	StatusBlocked     Status = "Blocked"
	StatusNeedsReview Status = "NeedsReview"
	StatusDone        Status = "Done"
)

// Rank はステータスの序列を返す（宣言順、早い工程が先）
func (s Status) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusBlocked:
		return 2
	case StatusNeedsReview:
		return 3
	case StatusDone:
		return 4
	default:
		return 5
	}
}

// Effort は作業量の目安（1=Small, 2=Medium, 3=Large、0は未設定）
type Effort int

const (
	EffortUnset  Effort = 0
	EffortSmall  Effort = 1
	EffortMedium Effort = 2
	EffortLarge  Effort = 3
)

// avoidanceAgeDays を超えた大きいタスクは先送りとみなす
const avoidanceAgeDays = 5

// Task はデザインレビューコメント1件に対応する作業単位。
// 外部ソース（Figma）が所有するフィールドと、ローカルで管理する
// フィールドが混在する。どちらが勝つかは reconcile が決める。
type Task struct {
	CommentID string `json:"commentId"`
	NodeID    string `json:"nodeId,omitempty"`
	FrameID   string `json:"frameId,omitempty"`
	PageID    string `json:"pageId,omitempty"`

	// 外部ソース所有（毎回のsyncで上書きされる）
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	Resolved   bool      `json:"resolved"`
	Message    string    `json:"message"`
	Page       string    `json:"page"`
	Frame      string    `json:"frame"`
	ResolvedBy string    `json:"resolvedBy,omitempty"`

	// ローカル所有（reconcileで保存済みの値が生き残る）
	Effort              Effort     `json:"effort"`
	TimeEstimateMinutes int        `json:"timeEstimateMinutes"`
	Assignee            string     `json:"assignee,omitempty"`
	Priority            Priority   `json:"priority"`
	InternalStatus      Status     `json:"internalStatus"`
	Ignored             bool       `json:"ignored"`
	IsCurrentlyWorking  bool       `json:"isCurrentlyWorking"`
	ResolvedAt          *time.Time `json:"resolvedAt,omitempty"`

	// 派生値（毎サイクル再計算、保存値は信用しない）
	AgeInDays   int  `json:"ageInDays"`
	IsAvoidance bool `json:"isAvoidance"`
}

// TimeEstimate は見積もり時間(分)を返す。
// 明示的な見積もりがなければEffortの規定値を使う。
func (t *Task) TimeEstimate() int {
	if t.TimeEstimateMinutes > 0 {
		return t.TimeEstimateMinutes
	}
	switch t.Effort {
	case EffortSmall:
		return 15
	case EffortMedium:
		return 45
	case EffortLarge:
		return 90
	}
	return 0
}

// IsActionable はフォーカス対象になり得るかを返す
func (t *Task) IsActionable() bool {
	return !t.Resolved && t.InternalStatus != StatusDone && !t.Ignored
}

// HasLocalAnnotations はユーザーが触った形跡があるかを返す
func (t *Task) HasLocalAnnotations() bool {
	return t.Effort != EffortUnset ||
		t.TimeEstimateMinutes > 0 ||
		t.Assignee != "" ||
		t.Priority != PriorityMedium ||
		t.InternalStatus != StatusPending ||
		t.Ignored ||
		t.IsCurrentlyWorking
}

// RecomputeDerived は派生フィールドを現在時刻基準で再計算する
func (t *Task) RecomputeDerived(now time.Time) {
	age := 0
	if !t.CreatedAt.IsZero() && now.After(t.CreatedAt) {
		age = int(now.Sub(t.CreatedAt).Hours() / 24)
	}
	t.AgeInDays = age
	t.IsAvoidance = !t.Resolved && t.Effort == EffortLarge && age > avoidanceAgeDays
}

// ApplyFirstSeenDefaults は初回観測タスクの初期値を設定する
func (t *Task) ApplyFirstSeenDefaults() {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.InternalStatus == "" {
		t.InternalStatus = StatusPending
	}
}
