package repository

import (
	"context"
	"log"

	"construmax/internal/cache"
	"construmax/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultProductsTableName = "products"

// ProductDynamoRepository answers catalog existence checks against the
// products table. The cache is optional; when wired, answers are held for a
// few minutes and a cache outage silently falls through to DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type ProductDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
	cache     cache.ProductCache
}

var _ interfaces.IProductCatalog = (*ProductDynamoRepository)(nil)

func NewProductDynamoRepository(ddb *dynamodb.Client, productCache cache.ProductCache) *ProductDynamoRepository {
	return &ProductDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("PRODUCTS_TABLE", defaultProductsTableName),
		cache:     productCache,
	}
}

func (r *ProductDynamoRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	if r.cache != nil {
		exists, found, err := r.cache.GetExists(ctx, productID)
		if err != nil {
			log.Printf("[catalog][repository] cache lookup failed product_id=%s err=%v", productID, err)
		} else if found {
			return exists, nil
		}
	}

	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: productID},
		},
		ProjectionExpression:     aws.String("#id"),
		ExpressionAttributeNames: map[string]string{"#id": "id"},
	})
	if err != nil {
		return false, err
	}
	exists := len(out.Item) > 0

	if r.cache != nil {
		if err := r.cache.SetExists(ctx, productID, exists); err != nil {
			log.Printf("[catalog][repository] cache write failed product_id=%s err=%v", productID, err)
		}
	}
	return exists, nil
}
