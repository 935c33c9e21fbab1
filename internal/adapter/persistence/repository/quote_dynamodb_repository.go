package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"construmax/internal/domain/entities"
	"construmax/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const defaultQuotesTableName = "quotes"

type quoteLineItem struct {
	ProductID string `dynamodbav:"product_id"`
	Quantity  int    `dynamodbav:"quantity"`
}

type quoteItem struct {
	ID             string          `dynamodbav:"id"`
	Name           string          `dynamodbav:"name"`
	Email          string          `dynamodbav:"email"`
	Phone          string          `dynamodbav:"phone"`
	ProjectDetails string          `dynamodbav:"project_details"`
	Items          []quoteLineItem `dynamodbav:"items"`
	Status         string          `dynamodbav:"status"`
	AdminNotes     string          `dynamodbav:"admin_notes,omitempty"`
	EmailStatus    string          `dynamodbav:"email_status"`
	EmailError     string          `dynamodbav:"email_error,omitempty"`
	CreatedAt      string          `dynamodbav:"created_at"`
	UpdatedAt      string          `dynamodbav:"updated_at"`
}

// QuoteDynamoRepository persists Quote entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//
// Workflow fields and email bookkeeping are written by separate UpdateItem
// calls with disjoint SET expressions, so a status transition and an email
// reconciliation racing on the same quote can never overwrite each other.
type QuoteDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IQuoteRepository = (*QuoteDynamoRepository)(nil)

func NewQuoteDynamoRepository(ddb *dynamodb.Client) *QuoteDynamoRepository {
	return &QuoteDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("QUOTES_TABLE", defaultQuotesTableName),
	}
}

func (r *QuoteDynamoRepository) Create(ctx context.Context, q entities.Quote) (entities.Quote, error) {
	it := toQuoteItem(q)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Quote{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Quote{}, err
	}
	return q, nil
}

func (r *QuoteDynamoRepository) GetByID(ctx context.Context, id string) (entities.Quote, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Quote{}, err
	}
	if len(out.Item) == 0 {
		return entities.Quote{}, nil
	}

	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

// List scans the table (optionally filtered by status), sorts by creation
// time and pages in memory. Fine at intake-queue volumes; a created_at GSI
// would replace the scan if the table ever grows past that.
func (r *QuoteDynamoRepository) List(ctx context.Context, filter interfaces.ListQuotesFilter) ([]entities.Quote, int64, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	}
	if filter.Status != "" {
		input.FilterExpression = aws.String("#status = :status")
		input.ExpressionAttributeNames = map[string]string{"#status": "status"}
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(filter.Status)},
		}
	}

	var all []entities.Quote
	for {
		out, err := r.ddb.Scan(ctx, input)
		if err != nil {
			return nil, 0, err
		}
		for _, item := range out.Items {
			var it quoteItem
			if err := attributevalue.UnmarshalMap(item, &it); err != nil {
				return nil, 0, err
			}
			all = append(all, fromQuoteItem(it))
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	sort.SliceStable(all, func(i, j int) bool {
		if filter.SortNewestFirst {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := int64(len(all))
	if filter.Skip >= len(all) {
		return []entities.Quote{}, total, nil
	}
	all = all[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

// UpdateStatus applies a workflow transition in one conditional UpdateItem.
// The #status = :prev condition makes the transition atomic against
// concurrent writers; a failed condition (or unknown id) returns the zero
// Quote for the usecase to disambiguate.
func (r *QuoteDynamoRepository) UpdateStatus(ctx context.Context, id string, prev, next entities.QuoteStatus, adminNotes *string) (entities.Quote, error) {
	return r.update(ctx, id,
		aws.String("attribute_exists(#id) AND #status = :prev"),
		func(now string) (string, map[string]types.AttributeValue, map[string]string) {
			expr := "SET #status = :status, #updated_at = :updated_at"
			vals := map[string]types.AttributeValue{
				":status":     &types.AttributeValueMemberS{Value: string(next)},
				":prev":       &types.AttributeValueMemberS{Value: string(prev)},
				":updated_at": &types.AttributeValueMemberS{Value: now},
			}
			names := map[string]string{
				"#status":     "status",
				"#updated_at": "updated_at",
			}
			if adminNotes != nil {
				expr += ", #admin_notes = :admin_notes"
				vals[":admin_notes"] = &types.AttributeValueMemberS{Value: *adminNotes}
				names["#admin_notes"] = "admin_notes"
			}
			return expr, vals, names
		})
}

// UpdateEmailOutcome records a notification delivery result. It touches only
// the email bookkeeping fields and never conditions on (or writes) status.
func (r *QuoteDynamoRepository) UpdateEmailOutcome(ctx context.Context, id string, status entities.EmailStatus, emailError string) (entities.Quote, error) {
	return r.update(ctx, id,
		aws.String("attribute_exists(#id)"),
		func(now string) (string, map[string]types.AttributeValue, map[string]string) {
			expr := "SET #email_status = :email_status, #email_error = :email_error, #updated_at = :updated_at"
			vals := map[string]types.AttributeValue{
				":email_status": &types.AttributeValueMemberS{Value: string(status)},
				":email_error":  &types.AttributeValueMemberS{Value: emailError},
				":updated_at":   &types.AttributeValueMemberS{Value: now},
			}
			names := map[string]string{
				"#email_status": "email_status",
				"#email_error":  "email_error",
				"#updated_at":   "updated_at",
			}
			return expr, vals, names
		})
}

func (r *QuoteDynamoRepository) update(
	ctx context.Context,
	id string,
	condition *string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Quote, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpr, values, names := build(now)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       condition,
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Quote{}, nil
		}
		return entities.Quote{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Quote{}, nil
	}
	var it quoteItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Quote{}, err
	}
	return fromQuoteItem(it), nil
}

func toQuoteItem(q entities.Quote) quoteItem {
	items := make([]quoteLineItem, 0, len(q.Items))
	for _, li := range q.Items {
		items = append(items, quoteLineItem{ProductID: li.ProductID, Quantity: li.Quantity})
	}
	return quoteItem{
		ID:             q.ID,
		Name:           q.Name,
		Email:          q.Email,
		Phone:          q.Phone,
		ProjectDetails: q.ProjectDetails,
		Items:          items,
		Status:         string(q.Status),
		AdminNotes:     q.AdminNotes,
		EmailStatus:    string(q.EmailStatus),
		EmailError:     q.EmailError,
		CreatedAt:      q.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      q.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromQuoteItem(it quoteItem) entities.Quote {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	items := make([]entities.QuoteItem, 0, len(it.Items))
	for _, li := range it.Items {
		items = append(items, entities.QuoteItem{ProductID: li.ProductID, Quantity: li.Quantity})
	}
	return entities.Quote{
		ID:             it.ID,
		Name:           it.Name,
		Email:          it.Email,
		Phone:          it.Phone,
		ProjectDetails: it.ProjectDetails,
		Items:          items,
		Status:         entities.QuoteStatus(it.Status),
		AdminNotes:     it.AdminNotes,
		EmailStatus:    entities.EmailStatus(it.EmailStatus),
		EmailError:     it.EmailError,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
