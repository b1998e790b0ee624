package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePriority は入力文字列をPriorityに解釈する（大文字小文字は無視）
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return PriorityCritical, nil
	case "high":
		return PriorityHigh, nil
	case "medium":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority: %q (Critical, High, Medium, Low)", s)
}

// ParseStatus は入力文字列をStatusに解釈する
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "inprogress", "in-progress":
		return StatusInProgress, nil
	case "blocked":
		return StatusBlocked, nil
	case "needsreview", "needs-review":
		return StatusNeedsReview, nil
	case "done":
		return StatusDone, nil
	}
	return "", fmt.Errorf("unknown status: %q (Pending, InProgress, Blocked, NeedsReview, Done)", s)
}

// ParseEffort は "1"〜"3" または small/medium/large をEffortに解釈する
func ParseEffort(s string) (Effort, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small", "s":
		return EffortSmall, nil
	case "medium", "m":
		return EffortMedium, nil
	case "large", "l":
		return EffortLarge, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 1 && n <= 3 {
		return Effort(n), nil
	}
	return EffortUnset, fmt.Errorf("unknown effort: %q (1-3 or small, medium, large)", s)
}
