package domain

// Category は口コミの評価カテゴリを表す閉じた列挙。
// 6 カテゴリ以外の値はドキュメントにもレスポンスにも現れない。
type Category string

const (
	CategoryRecommendation     Category = "recommendation"
	CategoryForeignSupport     Category = "foreign_support"
	CategoryCompanyCulture     Category = "company_culture"
	CategoryEmployeeRelations  Category = "employee_relations"
	CategoryEvaluationSystem   Category = "evaluation_system"
	CategoryPromotionTreatment Category = "promotion_treatment"
)

// Categories returns all rating categories in display order.
func Categories() []Category {
	return []Category{
		CategoryRecommendation,
		CategoryForeignSupport,
		CategoryCompanyCulture,
		CategoryEmployeeRelations,
		CategoryEvaluationSystem,
		CategoryPromotionTreatment,
	}
}

// IsValidCategory checks whether the given key is one of the six categories.
func IsValidCategory(key string) bool {
	for _, c := range Categories() {
		if string(c) == key {
			return true
		}
	}
	return false
}

// RatingSet は 6 カテゴリの評点（1〜5、未回答は nil）を固定フィールドで保持する。
// マップ形式の入力は application 層で必須キー検証を通してからこの構造体へ変換する。
type RatingSet struct {
	Recommendation     *int `json:"recommendation" bson:"recommendation"`
	ForeignSupport     *int `json:"foreign_support" bson:"foreignSupport"`
	CompanyCulture     *int `json:"company_culture" bson:"companyCulture"`
	EmployeeRelations  *int `json:"employee_relations" bson:"employeeRelations"`
	EvaluationSystem   *int `json:"evaluation_system" bson:"evaluationSystem"`
	PromotionTreatment *int `json:"promotion_treatment" bson:"promotionTreatment"`
}

// Value returns the rating for the given category.
func (r RatingSet) Value(c Category) *int {
	switch c {
	case CategoryRecommendation:
		return r.Recommendation
	case CategoryForeignSupport:
		return r.ForeignSupport
	case CategoryCompanyCulture:
		return r.CompanyCulture
	case CategoryEmployeeRelations:
		return r.EmployeeRelations
	case CategoryEvaluationSystem:
		return r.EvaluationSystem
	case CategoryPromotionTreatment:
		return r.PromotionTreatment
	}
	return nil
}

// NewRatingSet はカテゴリキー付きマップから RatingSet を構築する。
// 6 キーが揃っていることは呼び出し側（入力検証）が保証する。
func NewRatingSet(values map[string]*int) RatingSet {
	return RatingSet{
		Recommendation:     values[string(CategoryRecommendation)],
		ForeignSupport:     values[string(CategoryForeignSupport)],
		CompanyCulture:     values[string(CategoryCompanyCulture)],
		EmployeeRelations:  values[string(CategoryEmployeeRelations)],
		EvaluationSystem:   values[string(CategoryEvaluationSystem)],
		PromotionTreatment: values[string(CategoryPromotionTreatment)],
	}
}

// CommentSet は 6 カテゴリの自由記述コメント（未記入は nil）を保持する。
type CommentSet struct {
	Recommendation     *string `json:"recommendation" bson:"recommendation"`
	ForeignSupport     *string `json:"foreign_support" bson:"foreignSupport"`
	CompanyCulture     *string `json:"company_culture" bson:"companyCulture"`
	EmployeeRelations  *string `json:"employee_relations" bson:"employeeRelations"`
	EvaluationSystem   *string `json:"evaluation_system" bson:"evaluationSystem"`
	PromotionTreatment *string `json:"promotion_treatment" bson:"promotionTreatment"`
}

// Value returns the comment for the given category.
func (c CommentSet) Value(cat Category) *string {
	switch cat {
	case CategoryRecommendation:
		return c.Recommendation
	case CategoryForeignSupport:
		return c.ForeignSupport
	case CategoryCompanyCulture:
		return c.CompanyCulture
	case CategoryEmployeeRelations:
		return c.EmployeeRelations
	case CategoryEvaluationSystem:
		return c.EvaluationSystem
	case CategoryPromotionTreatment:
		return c.PromotionTreatment
	}
	return nil
}

// NewCommentSet はカテゴリキー付きマップから CommentSet を構築する。
func NewCommentSet(values map[string]*string) CommentSet {
	return CommentSet{
		Recommendation:     values[string(CategoryRecommendation)],
		ForeignSupport:     values[string(CategoryForeignSupport)],
		CompanyCulture:     values[string(CategoryCompanyCulture)],
		EmployeeRelations:  values[string(CategoryEmployeeRelations)],
		EvaluationSystem:   values[string(CategoryEvaluationSystem)],
		PromotionTreatment: values[string(CategoryPromotionTreatment)],
	}
}

// Transform applies fn to every non-nil comment and returns a new set.
// サニタイズとプレビューマスクの双方がこの経路を通る。
func (c CommentSet) Transform(fn func(string) string) CommentSet {
	apply := func(v *string) *string {
		if v == nil {
			return nil
		}
		out := fn(*v)
		return &out
	}
	return CommentSet{
		Recommendation:     apply(c.Recommendation),
		ForeignSupport:     apply(c.ForeignSupport),
		CompanyCulture:     apply(c.CompanyCulture),
		EmployeeRelations:  apply(c.EmployeeRelations),
		EvaluationSystem:   apply(c.EvaluationSystem),
		PromotionTreatment: apply(c.PromotionTreatment),
	}
}
