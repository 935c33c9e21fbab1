package response

import (
	"testing"
	"time"

	"construmax/internal/domain/entities"
)

func TestFromQuote(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	q := entities.Quote{
		ID:             "q-1",
		Name:           "Maria Souza",
		Email:          "maria@example.com",
		Phone:          "+55 11 99999-0000",
		ProjectDetails: "Two-story house foundation",
		Items: []entities.QuoteItem{
			{ProductID: "cement-50kg", Quantity: 10},
		},
		Status:      entities.QuoteStatusProcessed,
		AdminNotes:  "delivery scheduled",
		EmailStatus: entities.EmailStatusFailed,
		EmailError:  "smtp 550",
		CreatedAt:   now,
		UpdatedAt:   now.Add(time.Hour),
	}

	got := FromQuote(q)
	if got.ID != q.ID || got.Status != "processed" || got.EmailStatus != "failed" {
		t.Fatalf("unexpected mapping: %+v", got)
	}
	if got.EmailError != "smtp 550" || got.AdminNotes != "delivery scheduled" {
		t.Fatalf("bookkeeping fields not mapped: %+v", got)
	}
	if len(got.Products) != 1 || got.Products[0].ProductID != "cement-50kg" || got.Products[0].Quantity != 10 {
		t.Fatalf("items not mapped: %+v", got.Products)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("timestamps not mapped: %+v", got)
	}
}

func TestFromQuoteList(t *testing.T) {
	items := []entities.Quote{{ID: "a"}, {ID: "b"}}

	got := FromQuoteList(items, 11, 2, 5)
	if len(got.Items) != 2 || got.Total != 11 || got.Page != 2 || got.Limit != 5 {
		t.Fatalf("unexpected list mapping: %+v", got)
	}
	if got.Pages != 3 {
		t.Fatalf("expected ceil(11/5) = 3 pages, got %d", got.Pages)
	}

	empty := FromQuoteList(nil, 0, 1, 20)
	if len(empty.Items) != 0 || empty.Pages != 0 {
		t.Fatalf("unexpected empty mapping: %+v", empty)
	}
	if empty.Items == nil {
		t.Fatalf("items must serialize as an empty array, not null")
	}
}
