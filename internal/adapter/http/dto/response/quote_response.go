package response

import (
	"time"

	"construmax/internal/domain/entities"
)

type QuoteItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type QuoteResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	ProjectDetails string              `json:"project_details"`
	Products       []QuoteItemResponse `json:"products"`
	Status         string              `json:"status"`
	AdminNotes     string              `json:"admin_notes,omitempty"`
	EmailStatus    string              `json:"email_status"`
	EmailError     string              `json:"email_error,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func FromQuote(q entities.Quote) QuoteResponse {
	products := make([]QuoteItemResponse, 0, len(q.Items))
	for _, li := range q.Items {
		products = append(products, QuoteItemResponse{ProductID: li.ProductID, Quantity: li.Quantity})
	}
	return QuoteResponse{
		ID:             q.ID,
		Name:           q.Name,
		Email:          q.Email,
		Phone:          q.Phone,
		ProjectDetails: q.ProjectDetails,
		Products:       products,
		Status:         string(q.Status),
		AdminNotes:     q.AdminNotes,
		EmailStatus:    string(q.EmailStatus),
		EmailError:     q.EmailError,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

// QuoteListResponse wraps the admin list read side.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Pages int             `json:"pages"`
	Limit int             `json:"limit"`
}

func FromQuoteList(items []entities.Quote, total int64, page, limit int) QuoteListResponse {
	out := make([]QuoteResponse, 0, len(items))
	for _, q := range items {
		out = append(out, FromQuote(q))
	}
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return QuoteListResponse{Items: out, Total: total, Page: page, Pages: pages, Limit: limit}
}
