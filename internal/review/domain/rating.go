package domain

import "math"

// 評点の許容範囲。
const (
	MinRating = 1
	MaxRating = 5
)

// Round1 は小数第 1 位への四捨五入（round half up）。
// 口コミ個別平均と企業サマリーの両方でこの丸めを使う。
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// AggregateRatings は未回答を除いた評点の平均と回答数を返す。
// 回答が 1 件もなければ (0.0, 0)。副作用なし。
func AggregateRatings(ratings RatingSet) (average float64, answered int) {
	sum := 0
	for _, c := range Categories() {
		if v := ratings.Value(c); v != nil {
			sum += *v
			answered++
		}
	}
	if answered == 0 {
		return 0.0, 0
	}
	return Round1(float64(sum) / float64(answered)), answered
}

// IsValidRating checks whether the value is within the accepted range.
func IsValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
