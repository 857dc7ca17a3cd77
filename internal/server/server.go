package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	companyapp "github.com/workvoice/workvoice-services/api/internal/company/application"
	"github.com/workvoice/workvoice-services/api/internal/config"
	mongodoc "github.com/workvoice/workvoice-services/api/internal/infrastructure/mongo"
	adminhttp "github.com/workvoice/workvoice-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/workvoice/workvoice-services/api/internal/interfaces/http/common"
	publichttp "github.com/workvoice/workvoice-services/api/internal/interfaces/http/public"
	"github.com/workvoice/workvoice-services/api/internal/metrics"
	reviewapp "github.com/workvoice/workvoice-services/api/internal/review/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
// DDD の Interface 層に相当し、アプリケーションサービスをルータへ接続する責務を担う。
type Server struct {
	logger              *log.Logger
	client              *mongo.Client
	database            *mongo.Database
	reviewRepo          *mongodoc.ReviewRepository
	historyRepo         *mongodoc.HistoryRepository
	companyRepo         *mongodoc.CompanyRepository
	companyQueryService companyapp.CompanyQueryService
	permissionValidator *reviewapp.PermissionValidator
	recalculator        *reviewapp.AggregateRecalculator
	reviewService       *reviewapp.ReviewService
	accessResolver      *reviewapp.AccessResolver
	location            *time.Location
	jwtConfigs          []config.JWTConfig
	jwtAudience         string
	anonymizationSalt   string
	submitPerMinute     int
	submitBurst         int
	reviewCollection    string
	historyCollection   string
	addr                string
	allowedOrigins      []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run はHTTPサーバーを起動し、Public/Adminのルーティングやミドルウェアを組み立てる。
// インフラ初期化に限定し、ドメインロジックをここに書かないことで層の責務を守る。
func (s *Server) Run() error {
	if err := s.ensureIndexes(context.Background()); err != nil {
		s.logger.Printf("インデックスの作成に失敗しました: %v", err)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))
	router.Use(metrics.HTTPMiddleware)

	router.Get("/healthz", s.healthHandler())
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:                s.logger,
		CompanyQueries:        s.companyQueryService,
		Reviews:               s.reviewRepo,
		ReviewService:         s.reviewService,
		Permissions:           s.permissionValidator,
		Access:                s.accessResolver,
		AnonymizationSalt:     s.anonymizationSalt,
		Now:                   time.Now,
		ReviewSubmitPerMinute: s.submitPerMinute,
		ReviewSubmitBurst:     s.submitBurst,
	})
	publicHandler.Register(router, s.authMiddleware, s.optionalAuthMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:       s.logger,
		Histories:    s.historyRepo,
		Recalculator: s.recalculator,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			permitted := origin != "" && (allowAll || originAllowed(origin, allowed))

			if permitted {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
				w.Header().Set("Access-Control-Max-Age", "300")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認を行い、監視系からのヘルスチェック要求に応える。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みユーザーをコンテキストへ詰める。
// 投稿・編集など認証必須のエンドポイントで使用する。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.userFromRequest(r)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuthMiddleware は JWT があれば検証してコンテキストへ詰め、なければ未認証のまま通す。
// 閲覧系エンドポイントでは未認証をプレビュー表示として扱うため、ここで弾かない。
// ただし不正なトークンは未認証に読み替えず、明示的に 401 を返す。
func (s *Server) optionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.userFromRequest(r)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) userFromRequest(r *http.Request) (authenticatedUser, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return authenticatedUser{}, fmt.Errorf("Authorization ヘッダーがありません")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return authenticatedUser{}, fmt.Errorf("Bearer トークンを指定してください")
	}

	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
	if tokenString == "" {
		return authenticatedUser{}, fmt.Errorf("アクセストークンが空です")
	}

	claims, err := s.parseAuthToken(tokenString)
	if err != nil {
		return authenticatedUser{}, err
	}

	return authenticatedUser{
		ID:       claims.Subject,
		Name:     claims.Name,
		Username: claims.PreferredUsername,
	}, nil
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
// Google / LINE など発行元が複数あるため、最初に検証を通過した設定を採用する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("アクセストークンが無効です")
}

// contains は Audience 検証で利用する単純な包含チェック。
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// ensureIndexes は起動時に口コミ・履歴コレクションのインデックスを保証する。
// 同一ユーザー×同一企業のアクティブ口コミ一意制約もここで張られる。
func (s *Server) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return mongodoc.EnsureIndexes(ctx, s.database, s.reviewCollection, s.historyCollection)
}

// writeJSON は JSON レスポンスの共通書き込み処理。
func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("JSON エンコードに失敗: %v", err)
	}
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断し、プロセス終了時のリソースリークを防ぐ。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアントを受け取り、アプリケーションサービスとハンドラを組み立てた Server を返す。
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
		cfg.ServerLog.Printf("タイムゾーン %s の読み込みに失敗: %v, JST を使用します", cfg.Timezone, err)
	}

	srv := &Server{
		logger:            cfg.ServerLog,
		client:            client,
		database:          client.Database(cfg.MongoDatabase),
		location:          loc,
		jwtConfigs:        append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:       cfg.JWTAudience,
		anonymizationSalt: cfg.AnonymizationSalt,
		submitPerMinute:   cfg.ReviewSubmitPerMinute,
		submitBurst:       cfg.ReviewSubmitBurst,
		reviewCollection:  cfg.ReviewCollection,
		historyCollection: cfg.ReviewHistoryCollection,
		addr:              cfg.Addr,
		allowedOrigins:    append([]string(nil), cfg.AllowedOrigins...),
	}

	now := time.Now

	srv.reviewRepo = mongodoc.NewReviewRepository(srv.database, cfg.ReviewCollection)
	srv.historyRepo = mongodoc.NewHistoryRepository(srv.database, cfg.ReviewHistoryCollection)
	srv.companyRepo = mongodoc.NewCompanyRepository(srv.database, cfg.CompanyCollection)

	srv.companyQueryService = companyapp.NewCompanyQueryService(srv.companyRepo)
	srv.permissionValidator = reviewapp.NewPermissionValidator(srv.reviewRepo, now)
	srv.recalculator = reviewapp.NewAggregateRecalculator(srv.reviewRepo, srv.companyRepo, now)
	srv.reviewService = reviewapp.NewReviewService(srv.reviewRepo, srv.historyRepo, srv.permissionValidator, srv.recalculator, cfg.ServerLog, now)
	srv.accessResolver = reviewapp.NewAccessResolver(srv.reviewRepo, now, cfg.ServerLog, cfg.CrawlerUserAgents)

	return srv
}
