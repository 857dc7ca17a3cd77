package common

import "strings"

// CanonicalIndustryCode はユーザー入力を正規化して既知の業種ラベルに合わせる。
// 英字コード・表記揺れの双方を受け付け、未知の入力はそのまま返す。
func CanonicalIndustryCode(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	switch lower {
	case "manufacturing", "factory":
		return "製造"
	case "it", "tech", "it_telecom":
		return "IT・通信"
	case "construction":
		return "建設"
	case "caregiving", "nursing", "welfare":
		return "介護・福祉"
	case "food", "hospitality", "food_hospitality":
		return "飲食・宿泊"
	case "logistics", "transport":
		return "物流・運輸"
	case "agriculture", "farming":
		return "農業"
	case "retail":
		return "小売"
	}

	switch trimmed {
	case "製造", "IT・通信", "建設", "介護・福祉", "飲食・宿泊", "物流・運輸", "農業", "小売":
		return trimmed
	}

	return trimmed
}
