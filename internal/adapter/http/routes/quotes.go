package routes

import (
	"construmax/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotes = "/quotes"
)

func addQuoteRoutes(rg *gin.RouterGroup, quoteHandler *handlers.QuoteHandler) {
	quotes := rg.Group(PathQuotes)
	{
		// Customer intake.
		quotes.POST("", quoteHandler.CreateQuote)

		// Admin read side + workflow transitions.
		quotes.GET("", quoteHandler.ListQuotes)
		quotes.GET("/:id", quoteHandler.GetQuote)
		quotes.PATCH("/:id/status", quoteHandler.UpdateQuoteStatus)
	}
}
