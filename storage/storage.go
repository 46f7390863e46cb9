package storage

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"
)

type tableClient interface {
	GetEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.GetEntityOptions) (aztables.GetEntityResponse, error)
	UpsertEntity(ctx context.Context, entity []byte, options *aztables.UpsertEntityOptions) (aztables.UpsertEntityResponse, error)
	DeleteEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error)
}

// TableKV stores each key as one entity of an Azure table. The namespace is
// used as the partition key so several boards can share a table.
type TableKV struct {
	table     tableClient
	namespace string
}

// NewTableKV creates a TableKV from the given connection string.
func NewTableKV(connStr, table, namespace string) (*TableKV, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	return &TableKV{table: svc.NewClient(table), namespace: namespace}, nil
}

type kvEntity struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
	Value        string `json:"Value"`
}

func encodeEntity(namespace, key string, value []byte) ([]byte, error) {
	return sonic.Marshal(kvEntity{PartitionKey: namespace, RowKey: key, Value: string(value)})
}

func decodeEntity(data []byte) ([]byte, error) {
	var ent kvEntity
	if err := sonic.Unmarshal(data, &ent); err != nil {
		return nil, err
	}
	return []byte(ent.Value), nil
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

func (s *TableKV) Load(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.table.GetEntity(ctx, s.namespace, key, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeEntity(resp.Value)
}

func (s *TableKV) Save(ctx context.Context, key string, value []byte) error {
	payload, err := encodeEntity(s.namespace, key, value)
	if err != nil {
		return err
	}
	_, err = s.table.UpsertEntity(ctx, payload, &aztables.UpsertEntityOptions{UpdateMode: aztables.UpdateModeReplace})
	return err
}

func (s *TableKV) Delete(ctx context.Context, key string) error {
	_, err := s.table.DeleteEntity(ctx, s.namespace, key, nil)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
