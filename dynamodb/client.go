package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// PartitionKey is the DynamoDB partition key attribute name.
	PartitionKey = types.AttrPK

	// SortKey is the DynamoDB sort key attribute name.
	SortKey = types.AttrSK

	// maxBatchSize is the BatchWriteItem request limit.
	maxBatchSize = 25

	// maxBackoff is the maximum backoff duration for retry loops.
	maxBackoff = 2 * time.Second
)

// ErrPartialWrite is wrapped by the error returned from [Client.SavePost]
// when the metadata record was written but the content record was not. It is
// only possible with transactional writes disabled.
var ErrPartialWrite = errors.New("metadata record written without content record")

// Client is a DynamoDB-backed implementation of the [types.DB] interface.
//
// Use [New] to create a Client, [Client.Connect] to initialize the underlying
// DynamoDB connection, and [Client.Init] to validate the table schema.
type Client struct {
	client    API
	tableName string
	awsCfg    *aws.Config
	opts      *Options
}

var _ types.DB = (*Client)(nil)

// New creates a new Client configured with the given AWS config, table name,
// and optional options. Call [Client.Connect] on the returned client before use.
func New(awsCfg *aws.Config, tableName string, opts ...Option) *Client {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	return &Client{
		awsCfg:    awsCfg,
		tableName: tableName,
		opts:      options,
	}
}

// Connect initializes the DynamoDB client from the AWS config provided to [New].
// It must be called before any other Client methods, and must complete before
// the Client is used concurrently.
func (c *Client) Connect() error {
	if c.tableName == "" {
		return errors.New("table name cannot be empty")
	}

	if err := c.opts.validate(); err != nil {
		return fmt.Errorf("invalid DynamoDB options: %w", err)
	}

	// Use injected DynamoDB API if provided (useful for testing).
	if c.opts.dynamoDBAPI != nil {
		c.client = c.opts.dynamoDBAPI
	} else {
		if c.awsCfg == nil {
			return errors.New("AWS config cannot be nil")
		}
		c.client = dynamodb.NewFromConfig(*c.awsCfg, func(o *dynamodb.Options) {
			if c.opts.endpoint != "" {
				o.BaseEndpoint = aws.String(c.opts.endpoint)
			}
		})
	}

	return nil
}

// TableName returns the name of the DynamoDB table.
func (c *Client) TableName() string {
	return c.tableName
}

// Init validates the DynamoDB table schema. It checks that the table exists,
// has the partition key PK and the sort key SK, and is active.
//
// Pass skipSchemaValidation true to skip all checks and return immediately,
// which is useful when schema validation is managed separately.
func (c *Client) Init(ctx context.Context, skipSchemaValidation bool) error {
	if skipSchemaValidation {
		return nil
	}

	input := &dynamodb.DescribeTableInput{
		TableName: aws.String(c.tableName),
	}

	response, err := c.client.DescribeTable(ctx, input)
	if err != nil {
		var notFoundError *dynamodbtypes.ResourceNotFoundException
		if errors.As(err, &notFoundError) {
			return fmt.Errorf("table %s does not exist", c.tableName)
		}
		return fmt.Errorf("failed to describe table %s: %w", c.tableName, err)
	}

	return verifyTable(c.tableName, response.Table)
}

// EnsureTable creates the table with on-demand billing if it does not exist,
// then waits until it is active. A table that already exists is not an error.
func (c *Client) EnsureTable(ctx context.Context) error {
	input := &dynamodb.CreateTableInput{
		TableName:   aws.String(c.tableName),
		BillingMode: dynamodbtypes.BillingModePayPerRequest,
		AttributeDefinitions: []dynamodbtypes.AttributeDefinition{
			{AttributeName: aws.String(PartitionKey), AttributeType: dynamodbtypes.ScalarAttributeTypeS},
			{AttributeName: aws.String(SortKey), AttributeType: dynamodbtypes.ScalarAttributeTypeS},
		},
		KeySchema: []dynamodbtypes.KeySchemaElement{
			{AttributeName: aws.String(PartitionKey), KeyType: dynamodbtypes.KeyTypeHash},
			{AttributeName: aws.String(SortKey), KeyType: dynamodbtypes.KeyTypeRange},
		},
	}

	if _, err := c.client.CreateTable(ctx, input); err != nil {
		var inUseError *dynamodbtypes.ResourceInUseException
		if !errors.As(err, &inUseError) {
			return fmt.Errorf("failed to create DynamoDB table %s: %w", c.tableName, err)
		}
	}

	waiter := dynamodb.NewTableExistsWaiter(c.client)

	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(c.tableName)}, c.opts.tableWaitTimeout); err != nil {
		return fmt.Errorf("failed waiting for DynamoDB table %s to become active: %w", c.tableName, err)
	}

	return nil
}

// DropAllData deletes every item from the DynamoDB table. It scans the table
// in pages and removes each page using BatchWriteItem with exponential backoff
// for unprocessed items.
//
// This method is intended for tests and operator purges only.
func (c *Client) DropAllData(ctx context.Context) error {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(c.tableName),
		ProjectionExpression: aws.String("#pk, #sk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": PartitionKey,
			"#sk": SortKey,
		},
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		output, err := c.client.Scan(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to scan DynamoDB table %s: %w", c.tableName, err)
		}

		requests := make([]dynamodbtypes.WriteRequest, 0, len(output.Items))

		for _, item := range output.Items {
			requests = append(requests, dynamodbtypes.WriteRequest{
				DeleteRequest: &dynamodbtypes.DeleteRequest{
					Key: map[string]dynamodbtypes.AttributeValue{
						PartitionKey: item[PartitionKey],
						SortKey:      item[SortKey],
					},
				},
			})
		}

		if err := c.batchWrite(ctx, requests); err != nil {
			return fmt.Errorf("failed to batch delete items from DynamoDB table %s: %w", c.tableName, err)
		}

		if output.LastEvaluatedKey == nil {
			break
		}

		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return nil
}

// SavePost writes the metadata and content records of a post, replacing any
// records previously stored under the same ID. The post is validated before
// anything is written.
func (c *Client) SavePost(ctx context.Context, post *types.Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	if err := post.Validate(); err != nil {
		return err
	}

	metadata, err := marshalRecord(post.MetadataRecord())
	if err != nil {
		return err
	}

	content, err := marshalRecord(post.ContentRecord())
	if err != nil {
		return err
	}

	if c.opts.transactionalWrites {
		input := &dynamodb.TransactWriteItemsInput{
			TransactItems: []dynamodbtypes.TransactWriteItem{
				{Put: &dynamodbtypes.Put{TableName: &c.tableName, Item: metadata}},
				{Put: &dynamodbtypes.Put{TableName: &c.tableName, Item: content}},
			},
		}

		if _, err := c.client.TransactWriteItems(ctx, input); err != nil {
			return fmt.Errorf("failed to write post %s to DynamoDB table %s: %w", post.ID, c.tableName, err)
		}

		return nil
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &c.tableName, Item: metadata}); err != nil {
		return fmt.Errorf("failed to write metadata record of post %s to DynamoDB table %s: %w", post.ID, c.tableName, err)
	}

	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &c.tableName, Item: content}); err != nil {
		return fmt.Errorf("%w: failed to write content record of post %s to DynamoDB table %s: %w", ErrPartialWrite, post.ID, c.tableName, err)
	}

	return nil
}

// SavePosts writes multiple posts in batches of up to 25 records using
// BatchWriteItem, with exponential backoff for any unprocessed items. Batch
// writes are not atomic. When the same ID appears more than once, the last
// post wins.
func (c *Client) SavePosts(ctx context.Context, posts ...*types.Post) error {
	if len(posts) == 0 {
		return nil
	}

	latest := make(map[string]*types.Post, len(posts))
	order := make([]string, 0, len(posts))

	for _, post := range posts {
		if post == nil {
			return errors.New("post cannot be nil")
		}

		if err := post.Validate(); err != nil {
			return fmt.Errorf("invalid post %q: %w", post.ID, err)
		}

		if _, ok := latest[post.ID]; !ok {
			order = append(order, post.ID)
		}

		latest[post.ID] = post
	}

	requests := make([]dynamodbtypes.WriteRequest, 0, 2*len(order))

	for _, id := range order {
		for _, record := range latest[id].Records() {
			item, err := marshalRecord(record)
			if err != nil {
				return err
			}

			requests = append(requests, dynamodbtypes.WriteRequest{
				PutRequest: &dynamodbtypes.PutRequest{Item: item},
			})
		}
	}

	if err := c.batchWrite(ctx, requests); err != nil {
		return fmt.Errorf("failed to batch write posts to DynamoDB table %s: %w", c.tableName, err)
	}

	return nil
}

// ListRecords scans the whole table, following LastEvaluatedKey until every
// page has been read. Items are returned in scan order with every stored
// attribute, whatever its kind or type.
func (c *Client) ListRecords(ctx context.Context) ([]*types.Record, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(c.tableName),
	}

	records := []*types.Record{}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := c.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan DynamoDB table %s: %w", c.tableName, err)
		}

		page, err := unmarshalRecords(output.Items)
		if err != nil {
			return nil, err
		}

		records = append(records, page...)

		if output.LastEvaluatedKey == nil {
			break
		}

		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return records, nil
}

// FindPost queries the records stored under POST#<id> with a consistent read
// and assembles them into a post. Returns [types.ErrNotFound] if there is no
// metadata record.
func (c *Client) FindPost(ctx context.Context, id string) (*types.Post, error) {
	if err := types.ValidatePostID(id); err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              &c.tableName,
		ConsistentRead:         aws.Bool(true),
		KeyConditionExpression: aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": PartitionKey,
		},
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":pk": &dynamodbtypes.AttributeValueMemberS{Value: types.PostPartitionKey(id)},
		},
	}

	var records []*types.Record

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, err := c.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB table %s: %w", c.tableName, err)
		}

		page, err := unmarshalRecords(output.Items)
		if err != nil {
			return nil, err
		}

		records = append(records, page...)

		if output.LastEvaluatedKey == nil {
			break
		}

		input.ExclusiveStartKey = output.LastEvaluatedKey
	}

	return types.PostFromRecords(records)
}

// batchWrite sends requests in batches of 25, retrying unprocessed items with
// exponential backoff.
func (c *Client) batchWrite(ctx context.Context, requests []dynamodbtypes.WriteRequest) error {
	for i := 0; i < len(requests); i += maxBatchSize {
		end := min(i+maxBatchSize, len(requests))

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]dynamodbtypes.WriteRequest{
				c.tableName: requests[i:end],
			},
		}

		maxRetries := c.opts.maxBatchRetries
		backoff := c.opts.batchRetryBackoff

		for attempt := 0; attempt <= maxRetries; attempt++ {
			batchResult, err := c.client.BatchWriteItem(ctx, input)
			if err != nil {
				return err
			}

			if len(batchResult.UnprocessedItems) == 0 {
				break
			}

			if attempt == maxRetries {
				return fmt.Errorf("%d unprocessed items after %d retries", len(batchResult.UnprocessedItems[c.tableName]), maxRetries)
			}

			// Wait before retrying unprocessed items.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff = min(backoff*2, maxBackoff)
			input.RequestItems = batchResult.UnprocessedItems
		}
	}

	return nil
}

func verifyTable(tableName string, table *dynamodbtypes.TableDescription) error {
	if table == nil {
		return fmt.Errorf("table %s has no description", tableName)
	}

	if len(table.KeySchema) < 1 {
		return fmt.Errorf("table %s has no key schema", tableName)
	}

	if aws.ToString(table.KeySchema[0].AttributeName) != PartitionKey {
		return fmt.Errorf("table %s has partition key %s, expected %s", tableName, aws.ToString(table.KeySchema[0].AttributeName), PartitionKey)
	}

	if len(table.KeySchema) < 2 {
		return fmt.Errorf("table %s has a simple primary key, expected composite", tableName)
	}

	if aws.ToString(table.KeySchema[1].AttributeName) != SortKey {
		return fmt.Errorf("table %s has sort key %s, expected %s", tableName, aws.ToString(table.KeySchema[1].AttributeName), SortKey)
	}

	if table.TableStatus != dynamodbtypes.TableStatusActive {
		return fmt.Errorf("table %s is not active (status: %s)", tableName, table.TableStatus)
	}

	return nil
}

// marshalRecord encodes only the attributes that belong to the record's kind,
// so content items never carry empty metadata attributes and vice versa.
func marshalRecord(record *types.Record) (map[string]dynamodbtypes.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(record.Attributes())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", record.SK, err)
	}

	return item, nil
}

// unmarshalRecords decodes items without projecting them onto a fixed set of
// attributes, so listing returns each item as it is stored.
func unmarshalRecords(items []map[string]dynamodbtypes.AttributeValue) ([]*types.Record, error) {
	records := make([]*types.Record, 0, len(items))

	for _, item := range items {
		var attrs map[string]any

		if err := attributevalue.UnmarshalMap(item, &attrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}

		records = append(records, types.RecordFromItem(attrs))
	}

	return records, nil
}
