package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// MaskedComment はプレビュー表示で本文の代わりに返す固定文字列。
const MaskedComment = "***"

// AnonymousLetter はユーザー ID とソルトから決定的に 1 文字の仮名を導出する。
// SHA-256 ダイジェスト先頭 8 桁（16 進）を整数と見なし mod 26 で A〜Z に写像する。
// 同じ (userId, salt) は常に同じ文字になる。26 文字しかないため衝突は前提。
func AnonymousLetter(userID, salt string) string {
	digest := sha256.Sum256([]byte(userID + salt))
	hexDigest := hex.EncodeToString(digest[:])
	value, err := strconv.ParseUint(hexDigest[:8], 16, 64)
	if err != nil {
		// 16 進 8 桁のパースは失敗しない。
		return "A"
	}
	return string(rune('A' + value%26))
}

// AnonymousName は表示用の仮名（"User"+1 文字）を返す。
func AnonymousName(userID, salt string) string {
	return "User" + AnonymousLetter(userID, salt)
}

// ProjectedReview は閲覧者向けに匿名化された口コミの読み取りモデル。
// UserID は含まれない。
type ProjectedReview struct {
	ID                string      `json:"id"`
	CompanyID         string      `json:"companyId"`
	AnonymizedUser    string      `json:"anonymizedUser"`
	EmploymentStatus  string      `json:"employmentStatus"`
	EmploymentDisplay string      `json:"employmentDisplay,omitempty"`
	Ratings           RatingSet   `json:"ratings"`
	Comments          CommentSet  `json:"comments"`
	CommentsEN        *CommentSet `json:"comments_en,omitempty"`
	CommentsJA        *CommentSet `json:"comments_ja,omitempty"`
	CommentsZH        *CommentSet `json:"comments_zh,omitempty"`
	Language          string      `json:"language"`
	IndividualAverage float64     `json:"individualAverage"`
	AnsweredCount     int         `json:"answeredCount"`
	CreatedAt         string      `json:"createdAt"`
	UpdatedAt         string      `json:"updatedAt"`
}

// Anonymize は口コミを閲覧者向けの匿名化済み投影へ変換する。
// previewMode が真のとき、全コメント言語マップの非 nil 値を MaskedComment で
// 置き換える。評点・平均・回答数・在籍情報はモードに関わらずマスクしない。
func Anonymize(review Review, salt string, previewMode bool) ProjectedReview {
	mask := func(string) string { return MaskedComment }

	comments := review.Comments
	commentsEN := review.CommentsEN
	commentsJA := review.CommentsJA
	commentsZH := review.CommentsZH
	if previewMode {
		comments = comments.Transform(mask)
		commentsEN = maskOptional(commentsEN)
		commentsJA = maskOptional(commentsJA)
		commentsZH = maskOptional(commentsZH)
	}

	projected := ProjectedReview{
		ID:                review.ID,
		CompanyID:         review.CompanyID,
		AnonymizedUser:    AnonymousName(review.UserID, salt),
		EmploymentStatus:  review.EmploymentStatus,
		Ratings:           review.Ratings,
		Comments:          comments,
		CommentsEN:        commentsEN,
		CommentsJA:        commentsJA,
		CommentsZH:        commentsZH,
		Language:          review.Language,
		IndividualAverage: review.IndividualAverage,
		AnsweredCount:     review.AnsweredCount,
		CreatedAt:         review.CreatedAt.Format("2006-01-02"),
		UpdatedAt:         review.UpdatedAt.Format("2006-01-02"),
	}
	if review.EmploymentPeriod != nil {
		projected.EmploymentDisplay = review.EmploymentPeriod.Display()
	}
	return projected
}

func maskOptional(comments *CommentSet) *CommentSet {
	if comments == nil {
		return nil
	}
	masked := comments.Transform(func(string) string { return MaskedComment })
	return &masked
}
