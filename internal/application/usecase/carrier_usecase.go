package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// CarrierUseCase gestión de transportistas.
type CarrierUseCase struct {
	repo repository.CarrierRepository
	now  func() time.Time
}

// NewCarrierUseCase construye el caso de uso.
func NewCarrierUseCase(repo repository.CarrierRepository) *CarrierUseCase {
	return &CarrierUseCase{repo: repo, now: time.Now}
}

// Create alta de transportista activo.
func (uc *CarrierUseCase) Create(ctx context.Context, in dto.CreateCarrierRequest) (*dto.CarrierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.Carrier{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		TaxID:        in.TaxID,
		Phone:        in.Phone,
		Email:        in.Email,
		VehicleModel: in.VehicleModel,
		VehiclePlate: strings.ToUpper(strings.TrimSpace(in.VehiclePlate)),
		Notes:        in.Notes,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCarrierResponse(c), nil
}

// GetByID obtiene un transportista.
func (uc *CarrierUseCase) GetByID(ctx context.Context, id string) (*dto.CarrierResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCarrierResponse(c), nil
}

// Update actualización parcial.
func (uc *CarrierUseCase) Update(ctx context.Context, id string, in dto.UpdateCarrierRequest) (*dto.CarrierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.TaxID != nil {
		c.TaxID = *in.TaxID
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.VehicleModel != nil {
		c.VehicleModel = *in.VehicleModel
	}
	if in.VehiclePlate != nil {
		c.VehiclePlate = strings.ToUpper(strings.TrimSpace(*in.VehiclePlate))
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	c.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCarrierResponse(c), nil
}

// Deactivate baja lógica idempotente.
func (uc *CarrierUseCase) Deactivate(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	if c.Status == entity.StatusInactive {
		return nil
	}
	return uc.repo.SetStatus(ctx, id, entity.StatusInactive)
}

// List status "todos" o vacío no filtra.
func (uc *CarrierUseCase) List(ctx context.Context, status string) ([]dto.CarrierResponse, error) {
	if status == "todos" {
		status = ""
	}
	list, err := uc.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CarrierResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCarrierResponse(c))
	}
	return items, nil
}

func toCarrierResponse(c *entity.Carrier) *dto.CarrierResponse {
	return &dto.CarrierResponse{
		ID:           c.ID,
		Name:         c.Name,
		TaxID:        c.TaxID,
		Phone:        c.Phone,
		Email:        c.Email,
		VehicleModel: c.VehicleModel,
		VehiclePlate: c.VehiclePlate,
		Notes:        c.Notes,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
