package dynamodb

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeAPI is an in-memory table that understands the subset of requests the
// Client sends. Scans return at most pageSize items per call so that the
// LastEvaluatedKey handling is exercised.
type fakeAPI struct {
	mu       sync.Mutex
	items    map[string]map[string]dynamodbtypes.AttributeValue
	pageSize int
}

func newFakeAPI(pageSize int) *fakeAPI {
	return &fakeAPI{
		items:    make(map[string]map[string]dynamodbtypes.AttributeValue),
		pageSize: pageSize,
	}
}

func fakeKey(item map[string]dynamodbtypes.AttributeValue) string {
	return getS(item[PartitionKey]) + "\x00" + getS(item[SortKey])
}

func getS(attr dynamodbtypes.AttributeValue) string {
	if s, ok := attr.(*dynamodbtypes.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeAPI) put(item map[string]dynamodbtypes.AttributeValue) {
	f.items[fakeKey(item)] = item
}

func (f *fakeAPI) sortedKeys() []string {
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (f *fakeAPI) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) TransactWriteItems(_ context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range params.TransactItems {
		if item.Put == nil {
			return nil, errors.New("fake only supports Put in transactions")
		}
		f.put(item.Put.Item)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeAPI) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, requests := range params.RequestItems {
		if len(requests) > maxBatchSize {
			return nil, errors.New("too many items in batch")
		}
		for _, r := range requests {
			switch {
			case r.PutRequest != nil:
				f.put(r.PutRequest.Item)
			case r.DeleteRequest != nil:
				delete(f.items, fakeKey(r.DeleteRequest.Key))
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

func (f *fakeAPI) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := ""
	if params.ExclusiveStartKey != nil {
		start = fakeKey(params.ExclusiveStartKey)
	}

	output := &dynamodb.ScanOutput{}

	for _, k := range f.sortedKeys() {
		if start != "" && k <= start {
			continue
		}
		if len(output.Items) == f.pageSize {
			last := output.Items[len(output.Items)-1]
			output.LastEvaluatedKey = map[string]dynamodbtypes.AttributeValue{
				PartitionKey: last[PartitionKey],
				SortKey:      last[SortKey],
			}
			break
		}
		output.Items = append(output.Items, f.items[k])
	}

	return output, nil
}

func (f *fakeAPI) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pk := getS(params.ExpressionAttributeValues[":pk"])
	output := &dynamodb.QueryOutput{}

	for _, k := range f.sortedKeys() {
		if strings.HasPrefix(k, pk+"\x00") {
			output.Items = append(output.Items, f.items[k])
		}
	}

	return output, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	return &dynamodb.DescribeTableOutput{Table: activeTable(aws.ToString(params.TableName))}, nil
}

func (f *fakeAPI) CreateTable(_ context.Context, _ *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	return nil, &dynamodbtypes.ResourceInUseException{Message: aws.String("table exists")}
}

func activeTable(name string) *dynamodbtypes.TableDescription {
	return &dynamodbtypes.TableDescription{
		TableName:   aws.String(name),
		TableStatus: dynamodbtypes.TableStatusActive,
		KeySchema: []dynamodbtypes.KeySchemaElement{
			{AttributeName: aws.String(PartitionKey), KeyType: dynamodbtypes.KeyTypeHash},
			{AttributeName: aws.String(SortKey), KeyType: dynamodbtypes.KeyTypeRange},
		},
	}
}
