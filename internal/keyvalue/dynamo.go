package keyvalue

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Dynamo is the DynamoDB backed Store used in production.
//
// The client is constructed once at startup and shared by all requests.
// An optional table prefix separates environments sharing one AWS account.
type Dynamo struct {
	client *dynamodb.Client
	prefix string
}

// NewDynamo initializes the DynamoDB client from the default AWS
// configuration chain (environment, shared config, instance role).
func NewDynamo(ctx context.Context, prefix string) (*Dynamo, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Dynamo{
		client: dynamodb.NewFromConfig(cfg),
		prefix: prefix,
	}, nil
}

func (d *Dynamo) table(name string) *string {
	return aws.String(d.prefix + name)
}

func (d *Dynamo) Put(ctx context.Context, table string, item Item) error {
	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: d.table(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", table, ID(item), err)
	}

	return nil
}

func (d *Dynamo) Get(ctx context.Context, table string, id string) (Item, bool, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: d.table(table),
		Key: map[string]types.AttributeValue{
			"id": S(id),
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", table, id, err)
	}

	if out.Item == nil {
		return nil, false, nil
	}

	return Item(out.Item), true, nil
}

func (d *Dynamo) Delete(ctx context.Context, table string, id string) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: d.table(table),
		Key: map[string]types.AttributeValue{
			"id": S(id),
		},
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}

	return nil
}

func (d *Dynamo) Scan(ctx context.Context, table string) ([]Item, error) {
	var items []Item

	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: d.table(table),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		for _, item := range page.Items {
			items = append(items, Item(item))
		}
	}

	return items, nil
}
