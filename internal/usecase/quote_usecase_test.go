package usecase

import (
	"context"
	"errors"
	"testing"

	"construmax/internal/domain/entities"
	"construmax/internal/usecase/interfaces"
	mock_interfaces "construmax/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

var allCapabilities = QuoteUseCaseOptions{AllowCancellation: true, AllowCustomerReplied: true}

func validCommand() CreateQuoteCommand {
	return CreateQuoteCommand{
		Name:           "Maria Souza",
		Email:          "maria@example.com",
		Phone:          "+55 11 99999-0000",
		ProjectDetails: "Two-story house foundation",
		Items: []entities.QuoteItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}
}

func TestQuoteUseCase_CreateQuote(t *testing.T) {
	t.Run("empty payload lists every violated field", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, allCapabilities)
		_, err := uc.CreateQuote(context.Background(), CreateQuoteCommand{})

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		want := []string{"name", "email", "phone", "project_details", "products"}
		if len(verr.Fields) != len(want) {
			t.Fatalf("expected %d violated fields, got %v", len(want), verr.Fields)
		}
		for i, f := range want {
			if verr.Fields[i] != f {
				t.Fatalf("expected field %q at %d, got %v", f, i, verr.Fields)
			}
		}
	})

	t.Run("empty products list is rejected before persistence", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		catalog := mock_interfaces.NewMockIProductCatalog(ctrl)
		uc := NewQuoteUseCase(repo, catalog, nil, allCapabilities)

		cmd := validCommand()
		cmd.Items = nil
		_, err := uc.CreateQuote(context.Background(), cmd)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(verr.Fields) != 1 || verr.Fields[0] != "products" {
			t.Fatalf("expected products violation, got %v", verr.Fields)
		}
	})

	t.Run("non-positive quantity names the item", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, allCapabilities)
		cmd := validCommand()
		cmd.Items[1].Quantity = 0
		_, err := uc.CreateQuote(context.Background(), cmd)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(verr.Fields) != 1 || verr.Fields[0] != "products[1].quantity" {
			t.Fatalf("unexpected fields: %v", verr.Fields)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		catalog := mock_interfaces.NewMockIProductCatalog(ctrl)
		uc := NewQuoteUseCase(repo, catalog, nil, allCapabilities)

		catalog.EXPECT().ProductExists(gomock.Any(), "p1").Return(true, nil)
		catalog.EXPECT().ProductExists(gomock.Any(), "p2").Return(false, nil)

		_, err := uc.CreateQuote(context.Background(), validCommand())
		if !errors.Is(err, ErrProductNotFound) {
			t.Fatalf("expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("catalog error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		catalog := mock_interfaces.NewMockIProductCatalog(ctrl)
		uc := NewQuoteUseCase(repo, catalog, nil, allCapabilities)

		catalog.EXPECT().ProductExists(gomock.Any(), "p1").Return(false, errors.New("db"))

		_, err := uc.CreateQuote(context.Background(), validCommand())
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("create success notifies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		catalog := mock_interfaces.NewMockIProductCatalog(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, catalog, notifier, allCapabilities)

		catalog.EXPECT().ProductExists(gomock.Any(), "p1").Return(true, nil)
		catalog.EXPECT().ProductExists(gomock.Any(), "p2").Return(true, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Quote{})).DoAndReturn(
			func(_ context.Context, q entities.Quote) (entities.Quote, error) {
				if q.ID == "" {
					t.Fatalf("expected generated id")
				}
				if q.Status != entities.QuoteStatusPending {
					t.Fatalf("expected pending status, got %s", q.Status)
				}
				if q.EmailStatus != entities.EmailStatusPending {
					t.Fatalf("expected pending email status, got %s", q.EmailStatus)
				}
				if q.CreatedAt.IsZero() || q.UpdatedAt.IsZero() {
					t.Fatalf("expected timestamps")
				}
				if len(q.Items) != 2 || q.Items[0].ProductID != "p1" || q.Items[0].Quantity != 2 {
					t.Fatalf("unexpected items: %+v", q.Items)
				}
				return q, nil
			},
		)
		notifier.EXPECT().QuoteCreated(gomock.AssignableToTypeOf(entities.Quote{}))

		res, err := uc.CreateQuote(context.Background(), validCommand())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.QuoteStatusPending {
			t.Fatalf("unexpected status: %s", res.Status)
		}
	})

	t.Run("repo error does not notify", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		catalog := mock_interfaces.NewMockIProductCatalog(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, catalog, notifier, allCapabilities)

		catalog.EXPECT().ProductExists(gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quote{}, errors.New("db"))

		_, err := uc.CreateQuote(context.Background(), validCommand())
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestQuoteUseCase_UpdateStatus(t *testing.T) {
	stored := func(status entities.QuoteStatus) entities.Quote {
		return entities.Quote{ID: "q-1", Status: status, EmailStatus: entities.EmailStatusSent}
	}

	t.Run("invalid id", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, allCapabilities)
		_, err := uc.UpdateStatus(context.Background(), "   ", entities.QuoteStatusProcessed, nil)
		if !errors.Is(err, ErrInvalidQuoteID) {
			t.Fatalf("expected ErrInvalidQuoteID, got %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, allCapabilities)
		_, err := uc.UpdateStatus(context.Background(), "q-1", "approved", nil)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("customer_replied rejected when capability disabled", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, QuoteUseCaseOptions{AllowCancellation: true})
		_, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusCustomerReplied, nil)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{}, nil)

		_, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusProcessed, nil)
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("same status is idempotent no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusProcessed), nil).Times(2)

		for i := 0; i < 2; i++ {
			res, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusProcessed, nil)
			if err != nil {
				t.Fatalf("expected no-op success, got %v", err)
			}
			if res.Status != entities.QuoteStatusProcessed {
				t.Fatalf("unexpected status: %s", res.Status)
			}
		}
	})

	t.Run("backward transition rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusProcessed), nil)

		_, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusPending, nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("terminal state rejects transitions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusCompleted), nil)

		_, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusProcessed, nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("cancellation gated by deployment flag", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, QuoteUseCaseOptions{AllowCancellation: false})

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusPending), nil)

		_, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusCancelled, nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("success notifies customer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, allCapabilities)

		notes := "called customer"
		updated := stored(entities.QuoteStatusProcessed)
		updated.AdminNotes = notes

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusPending), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusPending, entities.QuoteStatusProcessed, &notes).Return(updated, nil)
		notifier.EXPECT().QuoteStatusChanged(updated)

		res, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusProcessed, &notes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.QuoteStatusProcessed || res.AdminNotes != notes {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("lost conditional write, concurrent writer applied same status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		notifier := mock_interfaces.NewMockINotifier(ctrl)
		uc := NewQuoteUseCase(repo, nil, notifier, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusPending), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusPending, entities.QuoteStatusProcessed, gomock.Nil()).Return(entities.Quote{}, nil)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusProcessed), nil)

		res, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusProcessed, nil)
		if err != nil {
			t.Fatalf("expected idempotent success, got %v", err)
		}
		if res.Status != entities.QuoteStatusProcessed {
			t.Fatalf("unexpected status: %s", res.Status)
		}
	})

	t.Run("lost conditional write, concurrent writer moved elsewhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusPending), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuoteStatusPending, entities.QuoteStatusProcessed, gomock.Nil()).Return(entities.Quote{}, nil)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored(entities.QuoteStatusCancelled), nil)

		_, err := uc.UpdateStatus(context.Background(), "q-1", entities.QuoteStatusProcessed, nil)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestQuoteUseCase_GetByID(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, allCapabilities)
		_, err := uc.GetByID(context.Background(), "")
		if !errors.Is(err, ErrInvalidQuoteID) {
			t.Fatalf("expected ErrInvalidQuoteID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.Quote{}, nil)

		_, err := uc.GetByID(context.Background(), "missing")
		if !errors.Is(err, ErrQuoteNotFound) {
			t.Fatalf("expected ErrQuoteNotFound, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quote{ID: "q-1"}, nil)

		q, err := uc.GetByID(context.Background(), " q-1 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.ID != "q-1" {
			t.Fatalf("unexpected quote: %+v", q)
		}
	})
}

func TestQuoteUseCase_List(t *testing.T) {
	t.Run("unknown status filter", func(t *testing.T) {
		uc := NewQuoteUseCase(nil, nil, nil, allCapabilities)
		_, _, err := uc.List(context.Background(), interfaces.ListQuotesFilter{Status: "approved"})
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuoteRepository(ctrl)
		uc := NewQuoteUseCase(repo, nil, nil, allCapabilities)

		repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, f interfaces.ListQuotesFilter) ([]entities.Quote, int64, error) {
				if f.Limit != 20 || f.Skip != 0 {
					t.Fatalf("expected defaulted paging, got %+v", f)
				}
				return []entities.Quote{{ID: "q-1"}}, 1, nil
			},
		)

		items, total, err := uc.List(context.Background(), interfaces.ListQuotesFilter{Skip: -5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if total != 1 || len(items) != 1 {
			t.Fatalf("unexpected result: %d items, total %d", len(items), total)
		}
	})
}
