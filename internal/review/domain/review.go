package domain

import (
	"fmt"
	"time"
)

// 在籍区分。
const (
	EmploymentCurrent = "CURRENT"
	EmploymentFormer  = "FORMER"
)

// 対応言語。
const (
	LanguageEN = "en"
	LanguageJA = "ja"
	LanguageZH = "zh"
)

// MinEmploymentYear は在籍期間として受け付ける最古の年。
const MinEmploymentYear = 1970

// Review は 1 ユーザーによる 1 企業への口コミ投稿を表す集約。
// IndividualAverage / AnsweredCount は常にサーバー側で再計算される派生値であり、
// クライアント入力をそのまま保持することはない。
type Review struct {
	ID                string
	CompanyID         string
	UserID            string
	EmploymentStatus  string
	EmploymentPeriod  *EmploymentPeriod
	Ratings           RatingSet
	Comments          CommentSet
	CommentsEN        *CommentSet
	CommentsJA        *CommentSet
	CommentsZH        *CommentSet
	Language          string
	IndividualAverage float64
	AnsweredCount     int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EmploymentPeriod は在籍期間。EndYear が nil の場合は現職を表す。
type EmploymentPeriod struct {
	StartYear int
	EndYear   *int
}

// Display は在籍期間の表示用文字列を返す。
func (p EmploymentPeriod) Display() string {
	if p.EndYear == nil {
		return fmt.Sprintf("%d–present", p.StartYear)
	}
	return fmt.Sprintf("%d–%d", p.StartYear, *p.EndYear)
}

// ValidateEmploymentPeriod は在籍区分と期間の整合性を検証する。
// 期間自体は区分によらず省略可。指定した場合、FORMER は開始・終了の
// 両方が必須で、終了年 nil を許すのは CURRENT のみ。
func ValidateEmploymentPeriod(status string, period *EmploymentPeriod, now time.Time) error {
	if status != EmploymentCurrent && status != EmploymentFormer {
		return fmt.Errorf("employment status must be CURRENT or FORMER")
	}
	if period == nil {
		return nil
	}

	currentYear := now.Year()
	if period.StartYear < MinEmploymentYear || period.StartYear > currentYear {
		return fmt.Errorf("start year must be between %d and %d", MinEmploymentYear, currentYear)
	}
	if period.EndYear == nil {
		if status != EmploymentCurrent {
			return fmt.Errorf("end year is required for former employees")
		}
		return nil
	}
	if *period.EndYear < MinEmploymentYear || *period.EndYear > currentYear {
		return fmt.Errorf("end year must be between %d and %d", MinEmploymentYear, currentYear)
	}
	if period.StartYear > *period.EndYear {
		return fmt.Errorf("start year must not be after end year")
	}
	return nil
}

// IsValidLanguage checks whether the code is one of the supported languages.
func IsValidLanguage(code string) bool {
	return code == LanguageEN || code == LanguageJA || code == LanguageZH
}

// 監査履歴のアクション種別。
const (
	HistoryActionCreate = "CREATE"
	HistoryActionUpdate = "UPDATE"
)

// ReviewHistory は口コミの作成・更新ごとに追記される監査レコード。
// 一度書き込まれた履歴は更新も削除もされない。
type ReviewHistory struct {
	ID           string
	ReviewID     string
	UserID       string
	CompanyID    string
	Action       string
	PreviousData *Review
	Timestamp    time.Time
}

// ReviewSummary は企業単位の口コミ集計。Company ドキュメントに埋め込まれ、
// 口コミの作成・更新のたびに全件から再計算した結果で丸ごと置き換えられる。
type ReviewSummary struct {
	TotalReviews     int
	OverallAverage   float64
	CategoryAverages map[Category]float64
	LastUpdated      time.Time
}

// EmptySummary は口コミが 1 件もない企業のサマリーを返す。
func EmptySummary(now time.Time) ReviewSummary {
	averages := make(map[Category]float64, len(Categories()))
	for _, c := range Categories() {
		averages[c] = 0.0
	}
	return ReviewSummary{
		TotalReviews:     0,
		OverallAverage:   0.0,
		CategoryAverages: averages,
		LastUpdated:      now,
	}
}
