// Package etherscan reads tokenised bond contract balances from the
// Etherscan account API.
package etherscan

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bondfeed/internal/fault"
	"bondfeed/internal/market"
	"bondfeed/internal/provider"
)

const (
	Name            = "etherscan"
	Network         = "Ethereum"
	DefaultBaseURL  = "https://api.etherscan.io/api"
	ExplorerBaseURL = "https://etherscan.io/address/"
)

// Defaults for the Etherscan free tier.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: 5 * time.Second,
	CacheTTL:  time.Minute,
}

// Adapter fetches the native balance held by a contract address.
type Adapter struct {
	client *provider.Client
}

// New builds the Etherscan adapter.
func New(cfg provider.Config, deps provider.Deps, logger zerolog.Logger) *Adapter {
	return &Adapter{client: provider.NewClient(Name, cfg.WithDefaults(Defaults), deps, logger)}
}

func (a *Adapter) Name() string    { return Name }
func (a *Adapter) Available() bool { return a.client.Available() }

type balanceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// FetchOne returns the on-chain state of the contract at address.
func (a *Adapter) FetchOne(ctx context.Context, address string) (*market.Holding, error) {
	key := "balance:" + strings.ToLower(strings.TrimSpace(address))
	return provider.Fetch(ctx, a.client, key, 0, func(ctx context.Context) (*market.Holding, error) {
		if !common.IsHexAddress(address) {
			return nil, fault.Shape(Name, "invalid contract address %q", address)
		}
		addr := common.HexToAddress(address)

		query := url.Values{}
		query.Set("module", "account")
		query.Set("action", "balance")
		query.Set("address", addr.Hex())
		query.Set("tag", "latest")
		query.Set("apikey", a.client.APIKey())

		var resp balanceResponse
		if err := a.client.GetJSON(ctx, a.client.Endpoint("", query), nil, &resp); err != nil {
			return nil, err
		}
		if resp.Status != "1" {
			return nil, classify(resp)
		}

		wei, err := decimal.NewFromString(strings.TrimSpace(resp.Result))
		if err != nil {
			return nil, fault.Shape(Name, "balance %q is not an integer", resp.Result)
		}
		if wei.IsNegative() {
			return nil, fault.Shape(Name, "negative balance %s", resp.Result)
		}

		return &market.Holding{
			Address:     addr.Hex(),
			Network:     Network,
			Balance:     decimal.NewNullDecimal(wei.Shift(-18)),
			ExplorerURL: ExplorerURL(addr),
			Origin:      market.Origin{Source: Name, FetchedAt: a.client.Now()},
		}, nil
	})
}

// Fallback carries only the explorer link; there is no static balance.
func (a *Adapter) Fallback(address string) (*market.Holding, bool) {
	if !common.IsHexAddress(address) {
		return nil, false
	}
	addr := common.HexToAddress(address)
	return &market.Holding{
		Address:     addr.Hex(),
		Network:     Network,
		ExplorerURL: ExplorerURL(addr),
		Origin:      market.Origin{Source: "static"},
	}, true
}

// ExplorerURL links an address on etherscan.io using its checksum form.
func ExplorerURL(addr common.Address) string {
	return ExplorerBaseURL + addr.Hex()
}

func classify(resp balanceResponse) error {
	detail := strings.TrimSpace(resp.Result)
	if detail == "" {
		detail = resp.Message
	}
	lower := strings.ToLower(detail + " " + resp.Message)
	switch {
	case strings.Contains(lower, "rate limit"):
		return fault.Quota(Name, 0, errors.New(detail))
	case strings.Contains(lower, "invalid api key") || strings.Contains(lower, "missing/invalid api key"):
		return fault.Configuration(Name, "%s", detail)
	default:
		return fault.Shape(Name, "etherscan status %q: %s", resp.Status, detail)
	}
}

var _ provider.Adapter[*market.Holding] = (*Adapter)(nil)
