package request

import (
	"strings"

	"construmax/internal/domain/entities"
	"construmax/internal/usecase"
)

type QuoteItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CreateQuoteRequest is the customer intake payload.
type CreateQuoteRequest struct {
	Name           string             `json:"name" binding:"required"`
	Email          string             `json:"email" binding:"required,email"`
	Phone          string             `json:"phone" binding:"required"`
	ProjectDetails string             `json:"project_details" binding:"required"`
	Products       []QuoteItemRequest `json:"products" binding:"required,min=1,dive"`
}

func (r CreateQuoteRequest) ToCommand() usecase.CreateQuoteCommand {
	items := make([]entities.QuoteItem, 0, len(r.Products))
	for _, p := range r.Products {
		items = append(items, entities.QuoteItem{
			ProductID: strings.TrimSpace(p.ProductID),
			Quantity:  p.Quantity,
		})
	}
	return usecase.CreateQuoteCommand{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		ProjectDetails: r.ProjectDetails,
		Items:          items,
	}
}

// UpdateQuoteStatusRequest is the admin transition payload.
type UpdateQuoteStatusRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"admin_notes"`
}

func (r UpdateQuoteStatusRequest) ResolveStatus() entities.QuoteStatus {
	return entities.QuoteStatus(strings.TrimSpace(strings.ToLower(r.Status)))
}
