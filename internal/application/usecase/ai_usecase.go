package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/dto"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/domain/entity"
	"github.com/jhoicas/medical-farma-api/internal/domain/repository"
)

const (
	assistantTimeout     = 10 * time.Second
	assistantMaxProducts = 300
)

// ErrAssistantUnavailable no hay proveedor de IA configurado.
var ErrAssistantUnavailable = errors.New("asistente no configurado")

// AssistantUseCase asistente de ventas: responde preguntas sobre el catálogo con un LLM.
// Aplica un timeout de 10 segundos en cada llamada al LLM.
type AssistantUseCase struct {
	llm      ports.LLMService
	products repository.ProductRepository
}

// NewAssistantUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAssistantUseCase(llm ports.LLMService, products repository.ProductRepository) *AssistantUseCase {
	return &AssistantUseCase{llm: llm, products: products}
}

// Ask arma el contexto con los productos activos y delega al LLM.
func (uc *AssistantUseCase) Ask(ctx context.Context, req dto.AssistantRequest) (*dto.AssistantResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if uc.llm == nil {
		return nil, ErrAssistantUnavailable
	}
	list, err := uc.products.List(ctx, repository.ProductFilter{Status: entity.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("asistente: catálogo: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, assistantTimeout)
	defer cancel()

	answer, err := uc.llm.Ask(ctx, BuildCatalogPrompt(list), strings.TrimSpace(req.Question))
	if err != nil {
		return nil, fmt.Errorf("asistente IA: %w", err)
	}
	return &dto.AssistantResponse{Answer: strings.TrimSpace(answer)}, nil
}

// BuildCatalogPrompt prompt de sistema con una línea por producto.
func BuildCatalogPrompt(products []*entity.Product) string {
	var b strings.Builder
	b.WriteString("Sos el asistente de ventas de una distribuidora de insumos médicos. ")
	b.WriteString("Respondé en español, breve, usando solo el catálogo siguiente. ")
	b.WriteString("Si un producto tiene STOCK BAJO, avisalo. Si no está en el catálogo, decilo.\n\nCatálogo:\n")
	for i, p := range products {
		if i == assistantMaxProducts {
			fmt.Fprintf(&b, "... y %d productos más\n", len(products)-assistantMaxProducts)
			break
		}
		fmt.Fprintf(&b, "- %s", p.Name)
		if len(p.Brands) > 0 {
			fmt.Fprintf(&b, " | marca: %s", strings.Join(p.Brands, ", "))
		}
		if p.Category != "" {
			fmt.Fprintf(&b, " | categoría: %s", p.Category)
		}
		fmt.Fprintf(&b, " | precio: $%s | stock: %d", p.SalePrice.StringFixed(2), p.StockCurrent)
		if p.IsLowStock() {
			b.WriteString(" | STOCK BAJO")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
