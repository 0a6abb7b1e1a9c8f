package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var maxRating = decimal.NewFromInt(5)

// SupplierUseCase gestión de proveedores.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	audit ports.AuditRecorder
	now   func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, audit ports.AuditRecorder) *SupplierUseCase {
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &SupplierUseCase{repo: repo, audit: audit, now: time.Now}
}

// Create alta de proveedor activo.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		TaxID:            in.TaxID,
		ContactName:      in.ContactName,
		Phone:            in.Phone,
		Email:            in.Email,
		SuppliedProducts: nonNil(in.SuppliedProducts),
		AvgLeadTimeDays:  in.AvgLeadTimeDays,
		PaymentTerms:     in.PaymentTerms,
		Rating:           in.Rating,
		LogoURL:          in.LogoURL,
		Status:           entity.StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "crear_proveedor", "proveedores", map[string]interface{}{"proveedor_id": s.ID})
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// Update actualización parcial.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		s.TaxID = *in.TaxID
	}
	if in.ContactName != nil {
		s.ContactName = *in.ContactName
	}
	if in.Phone != nil {
		s.Phone = *in.Phone
	}
	if in.Email != nil {
		s.Email = *in.Email
	}
	if in.SuppliedProducts != nil {
		s.SuppliedProducts = nonNil(*in.SuppliedProducts)
	}
	if in.AvgLeadTimeDays != nil {
		s.AvgLeadTimeDays = *in.AvgLeadTimeDays
	}
	if in.PaymentTerms != nil {
		s.PaymentTerms = *in.PaymentTerms
	}
	if in.Rating != nil {
		if err := validateRating(*in.Rating); err != nil {
			return nil, err
		}
		s.Rating = *in.Rating
	}
	if in.LogoURL != nil {
		s.LogoURL = *in.LogoURL
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "actualizar_proveedor", "proveedores", map[string]interface{}{"proveedor_id": s.ID})
	return toSupplierResponse(s), nil
}

// Deactivate baja lógica idempotente.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if s.Status == entity.StatusInactive {
		return nil
	}
	if err := uc.repo.SetStatus(ctx, id, entity.StatusInactive); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "desactivar_proveedor", "proveedores", map[string]interface{}{"proveedor_id": id})
	return nil
}

// List estado "todos" o vacío no filtra.
func (uc *SupplierUseCase) List(ctx context.Context, search, status string) ([]dto.SupplierResponse, error) {
	if status == "todos" {
		status = ""
	}
	list, err := uc.repo.List(ctx, repository.SupplierFilter{Search: strings.TrimSpace(search), Status: status})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSupplierResponse(s))
	}
	return items, nil
}

func validateRating(r decimal.Decimal) error {
	if r.IsNegative() || r.GreaterThan(maxRating) {
		return fmt.Errorf("%w: calificacion debe estar entre 0 y 5", domain.ErrInvalidInput)
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:               s.ID,
		Name:             s.Name,
		TaxID:            s.TaxID,
		ContactName:      s.ContactName,
		Phone:            s.Phone,
		Email:            s.Email,
		SuppliedProducts: nonNil(s.SuppliedProducts),
		AvgLeadTimeDays:  s.AvgLeadTimeDays,
		PaymentTerms:     s.PaymentTerms,
		Rating:           s.Rating,
		LogoURL:          s.LogoURL,
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
