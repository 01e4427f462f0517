// Package chain reads ERC-20 bond token state straight from an Ethereum
// JSON-RPC endpoint.
package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bondfeed/internal/fault"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
	"bondfeed/internal/provider/etherscan"
)

const (
	Name = "rpc"

	erc20ABIJSON = `[{"inputs":[],"name":"totalSupply","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"}]`
)

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("failed to parse ERC-20 ABI: " + err.Error())
	}
	erc20ABI = parsed
}

// Defaults for a self-hosted or hosted RPC node. BaseURL holds the RPC URL.
var Defaults = provider.Config{
	RateLimit: time.Second,
	CacheTTL:  time.Minute,
}

// Adapter reads total supply, decimals, native balance and the head block.
type Adapter struct {
	client    *provider.Client
	rpc       *ethclient.Client
	clientMux sync.Mutex
}

// New builds the RPC adapter. It needs no credential, only an RPC URL.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	available := provider.WithAvailability(func(cfg provider.Config) bool {
		return cfg.Enabled && strings.TrimSpace(cfg.BaseURL) != ""
	})
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger, available)}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

// FetchOne returns the token state of the contract at address.
func (a *Adapter) FetchOne(ctx context.Context, address string) (*market.Holding, error) {
	key := "token:" + strings.ToLower(strings.TrimSpace(address))
	return provider.Fetch(ctx, a.client, key, 0, func(ctx context.Context) (*market.Holding, error) {
		if !common.IsHexAddress(address) {
			return nil, fault.Shape(Name, "invalid contract address %q", address)
		}
		addr := common.HexToAddress(address)

		client, err := a.getClient(ctx)
		if err != nil {
			return nil, fault.Transient(Name, err)
		}

		supply, err := a.callUint(ctx, client, addr, "totalSupply")
		if err != nil {
			return nil, err
		}
		decimals, err := a.callUint(ctx, client, addr, "decimals")
		if err != nil {
			return nil, err
		}
		if !decimals.IsInt64() || decimals.Int64() > 36 {
			return nil, fault.Shape(Name, "implausible decimals %s", decimals)
		}

		balance, err := client.BalanceAt(ctx, addr, nil)
		if err != nil {
			return nil, fault.Transient(Name, err)
		}
		block, err := client.BlockNumber(ctx)
		if err != nil {
			return nil, fault.Transient(Name, err)
		}

		return &market.Holding{
			Address:     addr.Hex(),
			Network:     etherscan.Network,
			Balance:     decimal.NewNullDecimal(decimal.NewFromBigInt(balance, -18)),
			TotalSupply: decimal.NewNullDecimal(decimal.NewFromBigInt(supply, -int32(decimals.Int64()))),
			Block:       block,
			ExplorerURL: etherscan.ExplorerURL(addr),
			Origin:      market.Origin{Source: Name, FetchedAt: a.client.Now()},
		}, nil
	})
}

// Fallback carries only the explorer link.
func (a *Adapter) Fallback(address string) (*market.Holding, bool) {
	if !common.IsHexAddress(address) {
		return nil, false
	}
	addr := common.HexToAddress(address)
	return &market.Holding{
		Address:     addr.Hex(),
		Network:     etherscan.Network,
		ExplorerURL: etherscan.ExplorerURL(addr),
		Origin:      market.Origin{Source: "static"},
	}, true
}

// Close releases the RPC connection.
func (a *Adapter) Close() {
	a.clientMux.Lock()
	defer a.clientMux.Unlock()
	if a.rpc != nil {
		a.rpc.Close()
		a.rpc = nil
	}
}

func (a *Adapter) callUint(ctx context.Context, client *ethclient.Client, addr common.Address, method string) (*big.Int, error) {
	payload, err := erc20ABI.Pack(method)
	if err != nil {
		return nil, fault.Configuration(Name, "pack %s: %v", method, err)
	}

	res, err := client.CallContract(ctx, ethereum.CallMsg{To: &addr, Data: payload}, nil)
	if err != nil {
		return nil, fault.Transient(Name, err)
	}

	outputs, err := erc20ABI.Unpack(method, res)
	if err != nil {
		return nil, fault.Shape(Name, "unpack %s: %v", method, err)
	}
	if len(outputs) != 1 {
		return nil, fault.Shape(Name, "unexpected %s response", method)
	}

	switch v := outputs[0].(type) {
	case *big.Int:
		return v, nil
	case uint8:
		return big.NewInt(int64(v)), nil
	default:
		return nil, fault.Shape(Name, "failed to decode %s output", method)
	}
}

func (a *Adapter) getClient(ctx context.Context) (*ethclient.Client, error) {
	a.clientMux.Lock()
	defer a.clientMux.Unlock()

	if a.rpc != nil {
		return a.rpc, nil
	}

	url := a.client.BaseURL()
	if url == "" {
		return nil, errors.New("ethereum rpc url not configured")
	}
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	a.rpc = client
	return client, nil
}

var _ provider.Adapter[*market.Holding] = (*Adapter)(nil)
