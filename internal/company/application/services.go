package application

import (
	"context"

	"github.com/workvoice/workvoice-services/api/internal/company/domain"
)

// CompanyRepository abstracts read access to companies.
// CompanyRepository は Public コンテキストで企業を読み取るためのポート。
type CompanyRepository interface {
	Find(ctx context.Context, filter CompanyFilter, paging Paging) ([]domain.Company, error)
	FindByID(ctx context.Context, id string) (*domain.Company, error)
}

// CompanyFilter expresses search criteria for companies.
type CompanyFilter struct {
	Prefecture string
	Industry   string
	Keyword    string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
	Sort  string
}

// CompanyQueryService describes read use-cases.
// CompanyQueryService は企業に関する参照ユースケースを提供するリーダーモデル。
type CompanyQueryService interface {
	List(ctx context.Context, filter CompanyFilter, paging Paging) ([]domain.Company, error)
	Detail(ctx context.Context, id string) (*domain.Company, error)
}

// NewCompanyQueryService wraps the repository as a query service.
func NewCompanyQueryService(repo CompanyRepository) CompanyQueryService {
	return &companyQueryService{repo: repo}
}

type companyQueryService struct {
	repo CompanyRepository
}

func (s *companyQueryService) List(ctx context.Context, filter CompanyFilter, paging Paging) ([]domain.Company, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *companyQueryService) Detail(ctx context.Context, id string) (*domain.Company, error) {
	return s.repo.FindByID(ctx, id)
}
