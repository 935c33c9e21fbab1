package interfaces

import "context"

// IProductCatalog is the read-only catalog collaborator used to validate
// quote line items at intake time.
type IProductCatalog interface {
	ProductExists(ctx context.Context, productID string) (bool, error)
}
