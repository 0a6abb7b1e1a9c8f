package inventory

import "github.com/jhoicas/medical-farma-api/internal/domain/entity"

// SuggestedRestock cantidad sugerida para reponer: llevar el stock al doble del mínimo.
// Devuelve 0 si el producto no está por debajo del mínimo.
func SuggestedRestock(stockCurrent, stockMinimum int) int {
	if stockCurrent >= stockMinimum {
		return 0
	}
	return stockMinimum*2 - stockCurrent
}

// ApplyStockAdjustment aplica una operación de ajuste sobre el stock actual.
// restar nunca deja stock negativo. ok=false si la operación es desconocida o la cantidad es negativa.
func ApplyStockAdjustment(current int, op string, quantity int) (next int, ok bool) {
	if quantity < 0 {
		return current, false
	}
	switch op {
	case entity.StockAdd:
		return current + quantity, true
	case entity.StockSub:
		next = current - quantity
		if next < 0 {
			next = 0
		}
		return next, true
	case entity.StockSet:
		return quantity, true
	}
	return current, false
}
