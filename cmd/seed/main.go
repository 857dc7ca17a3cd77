package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	mongodoc "github.com/workvoice/workvoice-services/api/internal/infrastructure/mongo"
	reviewapp "github.com/workvoice/workvoice-services/api/internal/review/application"
	"github.com/workvoice/workvoice-services/api/internal/review/domain"
)

type seedOptions struct {
	envFile         string
	companyCount    int
	reviewCount     int
	historyUpdates  int
	dropCollections bool
	randomSeed      int64
}

type collections struct {
	companies string
	reviews   string
	histories string
}

type companyMeta struct {
	ID       primitive.ObjectID
	Name     string
	Industry string
}

func main() {
	opts := parseFlags()

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil {
			log.Fatalf("環境変数ファイル %s の読み込みに失敗しました: %v", opts.envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := collections{
		companies: envOrDefault("COMPANY_COLLECTION", "companies"),
		reviews:   envOrDefault("REVIEW_COLLECTION", "reviews"),
		histories: envOrDefault("REVIEW_HISTORY_COLLECTION", "review_histories"),
	}

	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "workvoice")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(dbName)

	if opts.dropCollections {
		dropCollections(ctx, db, cfg)
		log.Printf("既存コレクションを削除しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, cfg.reviews, cfg.histories); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	rng := rand.New(rand.NewSource(opts.randomSeed))
	now := time.Now().UTC()

	companyDocs, metas := generateCompanies(rng, opts.companyCount, now)
	if err := insertMany(ctx, db.Collection(cfg.companies), toAnySlice(companyDocs)); err != nil {
		log.Fatalf("企業データの挿入に失敗しました: %v", err)
	}

	reviewDocs, byCompany := generateReviews(rng, metas, opts.reviewCount, now)
	if err := insertMany(ctx, db.Collection(cfg.reviews), toAnySlice(reviewDocs)); err != nil {
		log.Fatalf("口コミデータの挿入に失敗しました: %v", err)
	}

	historyDocs := generateHistories(rng, reviewDocs, opts.historyUpdates, now)
	if err := insertMany(ctx, db.Collection(cfg.histories), toAnySlice(historyDocs)); err != nil {
		log.Fatalf("履歴データの挿入に失敗しました: %v", err)
	}

	if err := applySummaries(ctx, db.Collection(cfg.companies), byCompany, now); err != nil {
		log.Fatalf("企業サマリーの更新に失敗しました: %v", err)
	}

	log.Printf("Seed 完了: companies=%d reviews=%d histories=%d",
		len(companyDocs), len(reviewDocs), len(historyDocs))
	log.Printf("Mongo: %s / %s", mongoURI, dbName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", "", "読み込む .env ファイル (省略時はカレントの .env)")
	flag.IntVar(&opts.companyCount, "companies", 12, "生成する企業数")
	flag.IntVar(&opts.reviewCount, "reviews", 80, "生成する口コミ総数")
	flag.IntVar(&opts.historyUpdates, "updates", 10, "編集履歴を付与する口コミ数")
	flag.BoolVar(&opts.dropCollections, "drop", true, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.companyCount <= 0 {
		log.Fatal("companies は 1 以上を指定してください")
	}
	if opts.reviewCount < opts.companyCount {
		opts.reviewCount = opts.companyCount
	}
	if opts.historyUpdates < 0 {
		opts.historyUpdates = 0
	}
	return opts
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func dropCollections(ctx context.Context, db *mongo.Database, cfg collections) {
	for _, name := range []string{cfg.companies, cfg.reviews, cfg.histories} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			// Drop は存在しない場合も err を返すので warning ログにとどめる
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

var companyNames = []string{
	"山田製作所", "グローバルテック", "さくら建設", "ひまわり介護サービス", "大和フーズ",
	"北斗運輸", "みどり農園", "サンライズ商事", "青葉電子工業", "富士ロジスティクス",
	"ほしの水産加工", "中央ソフトウェア", "オリオン金属", "つばめ清掃サービス", "明和縫製",
}

var industries = []string{
	"製造", "IT・通信", "建設", "介護・福祉", "飲食・宿泊", "物流・運輸", "農業", "小売",
}

var prefectures = []string{
	"東京都", "大阪府", "愛知県", "神奈川県", "埼玉県", "福岡県", "広島県", "北海道", "群馬県", "岐阜県",
}

var commentPoolsByLanguage = map[string][]string{
	domain.LanguageJA: {
		"先輩が丁寧に仕事を教えてくれました。",
		"残業は月によって差がありますが、手当はきちんと支払われます。",
		"寮があるので生活費を抑えられました。",
		"日本語があまり話せなくても通訳スタッフがサポートしてくれます。",
		"評価基準が明確で、頑張った分だけ昇給につながります。",
	},
	domain.LanguageEN: {
		"The supervisors were patient and explained every procedure carefully.",
		"Overtime pay is always calculated correctly and paid on time.",
		"There is a translator on site which made the first months much easier.",
		"Dormitory is close to the factory and rent is deducted fairly.",
		"Promotion criteria are posted openly so everyone knows what to aim for.",
	},
	domain.LanguageZH: {
		"前辈们都很耐心，入职培训很完整。",
		"加班费按规定发放，从来没有拖欠过。",
		"公司有中文翻译，遇到问题可以随时咨询。",
		"宿舍离公司很近，生活很方便。",
		"升职加薪的标准很透明，努力就有回报。",
	},
}

func generateCompanies(rng *rand.Rand, count int, now time.Time) ([]mongodoc.CompanyDocument, []companyMeta) {
	docs := make([]mongodoc.CompanyDocument, 0, count)
	metas := make([]companyMeta, 0, count)

	for i := 0; i < count; i++ {
		name := companyNames[i%len(companyNames)]
		industry := industries[rng.Intn(len(industries))]
		created := now.Add(-time.Duration(rng.Intn(365*3)) * 24 * time.Hour)

		doc := mongodoc.CompanyDocument{
			ID:          primitive.NewObjectID(),
			Name:        name,
			NameKana:    "",
			Industry:    industry,
			Prefecture:  prefectures[rng.Intn(len(prefectures))],
			WebsiteURL:  fmt.Sprintf("https://example.com/companies/%d", i+1),
			Description: fmt.Sprintf("%s分野で外国人労働者を積極的に受け入れている企業です。", industry),
			Summary: mongodoc.ReviewSummaryDocument{
				TotalReviews:     0,
				OverallAverage:   0,
				CategoryAverages: emptyCategoryAverages(),
				LastUpdated:      created,
			},
			CreatedAt: &created,
			UpdatedAt: &created,
		}
		docs = append(docs, doc)
		metas = append(metas, companyMeta{ID: doc.ID, Name: doc.Name, Industry: doc.Industry})
	}
	return docs, metas
}

func generateReviews(rng *rand.Rand, companies []companyMeta, total int, now time.Time) ([]mongodoc.ReviewDocument, map[primitive.ObjectID][]domain.Review) {
	counts := distribute(total, len(companies), 1, 15, rng)
	docs := make([]mongodoc.ReviewDocument, 0, total)
	byCompany := make(map[primitive.ObjectID][]domain.Review, len(companies))
	languages := []string{domain.LanguageEN, domain.LanguageJA, domain.LanguageZH}

	for idx, company := range companies {
		for j := 0; j < counts[idx]; j++ {
			created := now.Add(-time.Duration(rng.Intn(360*24)) * time.Hour)
			language := languages[rng.Intn(len(languages))]

			ratings := randomRatings(rng)
			comments := randomComments(rng, language)
			average, answered := domain.AggregateRatings(ratings)

			status := domain.EmploymentCurrent
			var period *domain.EmploymentPeriod
			if rng.Intn(3) == 0 {
				status = domain.EmploymentFormer
				start := now.Year() - 2 - rng.Intn(4)
				end := start + 1 + rng.Intn(2)
				period = &domain.EmploymentPeriod{StartYear: start, EndYear: &end}
			} else {
				start := now.Year() - rng.Intn(3)
				period = &domain.EmploymentPeriod{StartYear: start}
			}

			doc := mongodoc.ReviewDocument{
				ID:               primitive.NewObjectID(),
				CompanyID:        company.ID,
				UserID:           uuid.NewString(),
				EmploymentStatus: status,
				Ratings:          ratings,
				Comments:         comments,
				Language:         language,
				IndividualAverage: average,
				AnsweredCount:     answered,
				IsActive:          true,
				CreatedAt:         created,
				UpdatedAt:         created,
			}
			if period != nil {
				start := period.StartYear
				doc.EmploymentStartYear = &start
				doc.EmploymentEndYear = period.EndYear
			}
			docs = append(docs, doc)

			byCompany[company.ID] = append(byCompany[company.ID], domain.Review{
				ID:                doc.ID.Hex(),
				CompanyID:         company.ID.Hex(),
				UserID:            doc.UserID,
				Ratings:           ratings,
				Comments:          comments,
				Language:          language,
				IndividualAverage: average,
				AnsweredCount:     answered,
				IsActive:          true,
				CreatedAt:         created,
				UpdatedAt:         created,
			})
		}
	}
	return docs, byCompany
}

// generateHistories は全口コミに CREATE 履歴を付け、一部には編集前スナップショット付きの UPDATE 履歴を重ねる。
func generateHistories(rng *rand.Rand, reviews []mongodoc.ReviewDocument, updates int, now time.Time) []mongodoc.ReviewHistoryDocument {
	docs := make([]mongodoc.ReviewHistoryDocument, 0, len(reviews)+updates)
	for _, review := range reviews {
		docs = append(docs, mongodoc.ReviewHistoryDocument{
			ID:        primitive.NewObjectID(),
			ReviewID:  review.ID,
			UserID:    review.UserID,
			CompanyID: review.CompanyID,
			Action:    domain.HistoryActionCreate,
			Timestamp: review.CreatedAt,
		})
	}

	if updates > len(reviews) {
		updates = len(reviews)
	}
	for _, i := range rng.Perm(len(reviews))[:updates] {
		review := reviews[i]
		snapshot := review
		updatedAt := review.CreatedAt.Add(time.Duration(1+rng.Intn(72)) * time.Hour)
		if updatedAt.After(now) {
			updatedAt = now
		}
		docs = append(docs, mongodoc.ReviewHistoryDocument{
			ID:           primitive.NewObjectID(),
			ReviewID:     review.ID,
			UserID:       review.UserID,
			CompanyID:    review.CompanyID,
			Action:       domain.HistoryActionUpdate,
			PreviousData: &snapshot,
			Timestamp:    updatedAt,
		})
	}
	return docs
}

// applySummaries は挿入済みの口コミから各企業のサマリーを再計算し、企業ドキュメントへ反映する。
func applySummaries(ctx context.Context, companies *mongo.Collection, byCompany map[primitive.ObjectID][]domain.Review, now time.Time) error {
	for companyID, reviews := range byCompany {
		summary := reviewapp.BuildSummary(reviews, now)
		averages := make(map[string]float64, len(summary.CategoryAverages))
		for c, v := range summary.CategoryAverages {
			averages[string(c)] = v
		}
		update := bson.M{"$set": bson.M{
			"reviewSummary": mongodoc.ReviewSummaryDocument{
				TotalReviews:     summary.TotalReviews,
				OverallAverage:   summary.OverallAverage,
				CategoryAverages: averages,
				LastUpdated:      summary.LastUpdated,
			},
			"updatedAt": now,
		}}
		if _, err := companies.UpdateByID(ctx, companyID, update); err != nil {
			return err
		}
	}
	return nil
}

func randomRatings(rng *rand.Rand) domain.RatingSet {
	pick := func() *int {
		// 2 割程度は未回答にして任意回答カテゴリの分布を再現する
		if rng.Intn(5) == 0 {
			return nil
		}
		v := 1 + rng.Intn(5)
		return &v
	}
	required := 3 + rng.Intn(3)
	return domain.RatingSet{
		Recommendation:     &required,
		ForeignSupport:     pick(),
		CompanyCulture:     pick(),
		EmployeeRelations:  pick(),
		EvaluationSystem:   pick(),
		PromotionTreatment: pick(),
	}
}

func randomComments(rng *rand.Rand, language string) domain.CommentSet {
	pool := commentPoolsByLanguage[language]
	pick := func() *string {
		if rng.Intn(3) == 0 {
			return nil
		}
		v := pool[rng.Intn(len(pool))]
		return &v
	}
	return domain.CommentSet{
		Recommendation:     pick(),
		ForeignSupport:     pick(),
		CompanyCulture:     pick(),
		EmployeeRelations:  pick(),
		EvaluationSystem:   pick(),
		PromotionTreatment: pick(),
	}
}

func emptyCategoryAverages() map[string]float64 {
	averages := make(map[string]float64, len(domain.Categories()))
	for _, c := range domain.Categories() {
		averages[string(c)] = 0
	}
	return averages
}

// distribute は total 件を bucket 数に min〜max の範囲でばらけさせる。端数は先頭から吸収する。
func distribute(total, buckets, min, max int, rng *rand.Rand) []int {
	if total > buckets*max {
		total = buckets * max
	}
	counts := make([]int, buckets)
	remaining := total
	for i := range counts {
		counts[i] = min
		remaining -= min
	}
	for remaining > 0 {
		i := rng.Intn(buckets)
		if counts[i] >= max {
			continue
		}
		counts[i]++
		remaining--
	}
	return counts
}

func insertMany(ctx context.Context, collection *mongo.Collection, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := collection.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](docs []T) []any {
	out := make([]any, len(docs))
	for i, doc := range docs {
		out[i] = doc
	}
	return out
}
