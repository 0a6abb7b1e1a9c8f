package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/inventory"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. El precio de venta siempre se deriva antes de persistir.
type ProductUseCase struct {
	repo        repository.ProductRepository
	notifier    ports.Notifier
	audit       ports.AuditRecorder
	storage     ports.FileStorage
	imageBucket string
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso. storage puede ser nil (subida de imágenes deshabilitada).
func NewProductUseCase(repo repository.ProductRepository, notifier ports.Notifier, audit ports.AuditRecorder, storage ports.FileStorage, imageBucket string) *ProductUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	if audit == nil {
		audit = ports.NopAuditRecorder{}
	}
	return &ProductUseCase{
		repo:        repo,
		notifier:    notifier,
		audit:       audit,
		storage:     storage,
		imageBucket: imageBucket,
		now:         time.Now,
	}
}

// Create valida, deriva el precio de venta y persiste.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := inventory.ValidatePricing(in.PurchasePrice, in.BaseTax, in.ExtraTax1, in.ExtraTax2, in.ExtraTax3); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	status := in.Status
	if status == "" {
		status = entity.StatusActive
	}
	now := uc.now()
	p := &entity.Product{
		ID:                   uuid.New().String(),
		Name:                 strings.TrimSpace(in.Name),
		Brands:               nonNil(in.Brands),
		TechnicalDescription: in.TechnicalDescription,
		Measures:             in.Measures,
		StockCurrent:         in.StockCurrent,
		StockMinimum:         in.StockMinimum,
		PurchasePrice:        in.PurchasePrice,
		BaseTax:              in.BaseTax,
		ExtraTax1:            in.ExtraTax1,
		ExtraTax2:            in.ExtraTax2,
		ExtraTax3:            in.ExtraTax3,
		LotPrice:             in.LotPrice,
		Category:             in.Category,
		WarehouseLocation:    in.WarehouseLocation,
		ImageURL:             in.ImageURL,
		Images:               nonNil(in.Images),
		PDFDocuments:         nonNil(in.PDFDocuments),
		RelatedLinks:         nonNil(in.RelatedLinks),
		Sectors:              nonNil(in.Sectors),
		Status:               status,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	reprice(p)
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "crear_producto", "productos", map[string]interface{}{"producto_id": p.ID, "nombre": p.Name})
	return toProductResponse(p), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// Update aplica solo los campos presentes y recalcula el precio si cambió costo o algún recargo.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	wasLow := p.IsLowStock()

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brands != nil {
		p.Brands = in.Brands
	}
	if in.TechnicalDescription != nil {
		p.TechnicalDescription = *in.TechnicalDescription
	}
	if in.Measures != nil {
		p.Measures = *in.Measures
	}
	if in.StockCurrent != nil {
		p.StockCurrent = *in.StockCurrent
	}
	if in.StockMinimum != nil {
		p.StockMinimum = *in.StockMinimum
	}
	if in.PurchasePrice != nil {
		p.PurchasePrice = *in.PurchasePrice
	}
	if in.BaseTax != nil {
		p.BaseTax = *in.BaseTax
	}
	if in.ExtraTax1 != nil {
		p.ExtraTax1 = *in.ExtraTax1
	}
	if in.ExtraTax2 != nil {
		p.ExtraTax2 = *in.ExtraTax2
	}
	if in.ExtraTax3 != nil {
		p.ExtraTax3 = *in.ExtraTax3
	}
	if in.LotPrice != nil {
		p.LotPrice = in.LotPrice
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.WarehouseLocation != nil {
		p.WarehouseLocation = *in.WarehouseLocation
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.PDFDocuments != nil {
		p.PDFDocuments = in.PDFDocuments
	}
	if in.RelatedLinks != nil {
		p.RelatedLinks = in.RelatedLinks
	}
	if in.Sectors != nil {
		p.Sectors = in.Sectors
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.TouchesPricing() {
		if err := inventory.ValidatePricing(p.PurchasePrice, p.BaseTax, p.ExtraTax1, p.ExtraTax2, p.ExtraTax3); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		reprice(p)
	}
	p.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "actualizar_producto", "productos", map[string]interface{}{"producto_id": p.ID})
	uc.notifyIfBecameLow(p, wasLow)
	return toProductResponse(p), nil
}

// Deactivate baja lógica. Repetirla sobre un producto inactivo es éxito.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.Status == entity.StatusInactive {
		return nil
	}
	if err := uc.repo.SetStatus(ctx, id, entity.StatusInactive); err != nil {
		return err
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "desactivar_producto", "productos", map[string]interface{}{"producto_id": id})
	return nil
}

// AdjustStock suma, resta (sin bajar de cero) o fija el stock.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	before, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, domain.ErrNotFound
	}
	p, err := uc.repo.AdjustStock(ctx, id, in.Operation, in.Quantity)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	uc.audit.Record(ctx, ports.ActorFrom(ctx), "ajustar_stock", "productos", map[string]interface{}{
		"producto_id": id, "operacion": in.Operation, "cantidad": in.Quantity, "stock_resultante": p.StockCurrent,
	})
	uc.notifyIfBecameLow(p, before.IsLowStock())
	return toProductResponse(p), nil
}

// List aplica los filtros; stock_bajo se evalúa en memoria.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: in.Category,
		Status:   in.Status,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		if in.LowStockOnly && !p.IsLowStock() {
			continue
		}
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Catalog productos activos para el catálogo público.
func (uc *ProductUseCase) Catalog(ctx context.Context, search, category string) ([]dto.ProductResponse, error) {
	return uc.List(ctx, dto.ProductFilterRequest{Search: search, Category: category, Status: entity.StatusActive})
}

// LowStock productos activos bajo mínimo, los más críticos primero.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// RestockList productos a reponer con cantidad sugerida.
func (uc *ProductUseCase) RestockList(ctx context.Context) ([]dto.RestockItemResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RestockItemResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.RestockItemResponse{
			ProductID:         p.ID,
			Name:              p.Name,
			Category:          p.Category,
			StockCurrent:      p.StockCurrent,
			StockMinimum:      p.StockMinimum,
			SuggestedQuantity: inventory.SuggestedRestock(p.StockCurrent, p.StockMinimum),
		})
	}
	return items, nil
}

// Categories categorías distintas.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	cats, err := uc.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(cats), nil
}

// UploadImage sube la imagen a imagenes/productos/<id>-<ts>.<ext> y la fija como imagen principal.
func (uc *ProductUseCase) UploadImage(ctx context.Context, id, filename, contentType string, data []byte) (*dto.UploadResponse, error) {
	if uc.storage == nil {
		return nil, fmt.Errorf("%w: almacenamiento de archivos no configurado", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	objectPath := fmt.Sprintf("productos/%s-%d%s", id, uc.now().UnixMilli(), fileExt(filename))
	url, err := uc.storage.Upload(ctx, uc.imageBucket, objectPath, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("subir imagen: %w", err)
	}
	if err := uc.repo.UpdateImage(ctx, id, url); err != nil {
		return nil, err
	}
	return &dto.UploadResponse{URL: url}, nil
}

func (uc *ProductUseCase) notifyIfBecameLow(p *entity.Product, wasLow bool) {
	if wasLow || !p.IsLowStock() || !p.IsActive() {
		return
	}
	uc.notifier.Notify(ports.EventLowStock, map[string]interface{}{
		"producto_id":  p.ID,
		"nombre":       p.Name,
		"stock_actual": p.StockCurrent,
		"stock_minimo": p.StockMinimum,
	})
}

// reprice deriva precio_venta_final y mantiene precio_unitario sincronizado.
func reprice(p *entity.Product) {
	p.SalePrice = inventory.SalePrice(p.PurchasePrice, p.BaseTax, p.ExtraTax1, p.ExtraTax2, p.ExtraTax3)
	p.UnitPrice = p.SalePrice
}

func fileExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return ".bin"
	}
	return ext
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                   p.ID,
		Name:                 p.Name,
		Brands:               nonNil(p.Brands),
		TechnicalDescription: p.TechnicalDescription,
		Measures:             p.Measures,
		StockCurrent:         p.StockCurrent,
		StockMinimum:         p.StockMinimum,
		LowStock:             p.IsLowStock(),
		PurchasePrice:        p.PurchasePrice,
		BaseTax:              p.BaseTax,
		ExtraTax1:            p.ExtraTax1,
		ExtraTax2:            p.ExtraTax2,
		ExtraTax3:            p.ExtraTax3,
		SalePrice:            p.SalePrice,
		UnitPrice:            p.UnitPrice,
		LotPrice:             p.LotPrice,
		Category:             p.Category,
		WarehouseLocation:    p.WarehouseLocation,
		ImageURL:             p.ImageURL,
		Images:               nonNil(p.Images),
		PDFDocuments:         nonNil(p.PDFDocuments),
		RelatedLinks:         nonNil(p.RelatedLinks),
		Sectors:              nonNil(p.Sectors),
		Status:               p.Status,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
