package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetHead(t *testing.T) {
	require := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/chains/main/blocks/head", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Block{
			Hash: "BKpLvH3E3bUa5Z2nb3RkH2p6EKLfymvxUAEgtRJnu4m9UX1TWUb",
			Header: BlockHeader{
				Level:       100,
				Predecessor: "BLockGenesisGenesisGenesisGenesisGenesisf79b5d1CoW2",
			},
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(err)
	defer client.Shutdown()

	block, err := client.GetHead(context.Background())
	require.NoError(err)
	require.Equal("BKpLvH3E3bUa5Z2nb3RkH2p6EKLfymvxUAEgtRJnu4m9UX1TWUb", block.Hash)
	require.Equal(int64(100), block.Header.Level)
}

func TestGetCounter(t *testing.T) {
	require := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/chains/main/blocks/head/context/contracts/tz1grSQDByRpnVs7sPtaprNZRp531ZKz6Jmm/counter", r.URL.Path)
		_, _ = w.Write([]byte(`"446244"`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(err)
	defer client.Shutdown()

	counter, err := client.GetCounter(context.Background(), "tz1grSQDByRpnVs7sPtaprNZRp531ZKz6Jmm")
	require.NoError(err)
	require.Equal("446244", counter.String())

	next, err := client.GetNextCounterForAccount(context.Background(), "tz1grSQDByRpnVs7sPtaprNZRp531ZKz6Jmm")
	require.NoError(err)
	require.Equal("446245", next.String())
}

func TestPreapplyOperations(t *testing.T) {
	require := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/chains/main/blocks/head/helpers/preapply/operations", r.URL.Path)
		require.Equal(http.MethodPost, r.Method)
		var reqs []PreapplyOperationRequest
		require.NoError(json.NewDecoder(r.Body).Decode(&reqs))
		require.Len(reqs, 1)
		require.Equal("BKpLvH3E3bUa5Z2nb3RkH2p6EKLfymvxUAEgtRJnu4m9UX1TWUb", reqs[0].Branch)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"contents": []map[string]interface{}{
					{
						"metadata": map[string]interface{}{
							"operation_result": map[string]interface{}{
								"consumed_milligas":      "10300000",
								"paid_storage_size_diff": "0",
							},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(err)
	defer client.Shutdown()

	results, err := client.PreapplyOperations(context.Background(), []PreapplyOperationRequest{
		{Branch: "BKpLvH3E3bUa5Z2nb3RkH2p6EKLfymvxUAEgtRJnu4m9UX1TWUb", Signature: "sig..."},
	})
	require.NoError(err)
	require.Len(results, 1)
	require.Equal("10300000", results[0].Contents[0].Metadata.OperationResult.ConsumedMilligas)
}

func TestInjectOperation(t *testing.T) {
	require := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal("/injection/operation", r.URL.Path)
		var body string
		require.NoError(json.NewDecoder(r.Body).Decode(&body))
		require.Equal("deadbeefcafe", body)
		_ = json.NewEncoder(w).Encode("ooHash1234")
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(err)
	defer client.Shutdown()

	hash, err := client.InjectOperation(context.Background(), []byte{0xde, 0xad, 0xbe, 0xef}, []byte{0xca, 0xfe})
	require.NoError(err)
	require.Equal("ooHash1234", hash)
}

func TestGetBlockNon200(t *testing.T) {
	require := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`[{"kind":"permanent","id":"proto.block_not_found"}]`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	require.NoError(err)
	defer client.Shutdown()

	_, err = client.GetBlock(context.Background(), "head~9999999")
	require.Error(err)
}
