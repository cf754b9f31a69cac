package blockchain

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/core-coin/go-core/v2/accounts/abi"
	"github.com/core-coin/go-core/v2/accounts/abi/bind"
	"github.com/core-coin/go-core/v2/common"
	"github.com/core-coin/go-core/v2/crypto"
	"github.com/core-coin/go-core/v2/xcbclient"

	"github.com/0xZumii/cat-tv/internal/config"
	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

// tokenDecimals is the fixed decimal count of the CATTV token.
const tokenDecimals = 18

var (
	weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(tokenDecimals), nil)
	maxUint256  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// Gocore talks to the chain node and holds the server signing authority.
type Gocore struct {
	logger *logger.Logger
	config *config.Config

	client *xcbclient.Client

	// mu serializes transacting calls so the account nonce stays ordered.
	mu sync.Mutex

	tokenContract  *bind.BoundContract
	feederContract *bind.BoundContract
	feederAddress  common.Address
	transactOpts   *bind.TransactOpts
	enabled        bool
}

// NewGocore creates a new Gocore instance. Run must be called before use.
func NewGocore(logger *logger.Logger, config *config.Config) *Gocore {
	return &Gocore{logger: logger, config: config, enabled: config.ChainEnabled()}
}

func (g *Gocore) Run() error {
	if !g.enabled {
		g.logger.Info("Chain mirroring disabled: no signing key or contract addresses configured")
		return nil
	}
	if err := g.ConnectToRPC(); err != nil {
		return fmt.Errorf("failed to connect to the RPC server: %w", err)
	}
	if err := g.BuildBindings(); err != nil {
		return fmt.Errorf("failed to build bindings: %w", err)
	}
	return nil
}

func (g *Gocore) ConnectToRPC() error {
	client, err := xcbclient.Dial(g.config.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to connect to the RPC server: %w", err)
	}
	g.client = client
	return nil
}

func (g *Gocore) BuildBindings() error {
	tokenAddress, err := common.HexToAddress(g.config.TokenAddress)
	if err != nil {
		return fmt.Errorf("failed to parse token contract address: %w", err)
	}
	feederAddress, err := common.HexToAddress(g.config.FeederAddress)
	if err != nil {
		return fmt.Errorf("failed to parse feeder contract address: %w", err)
	}

	tokenABI, err := abi.JSON(strings.NewReader(TokenABI))
	if err != nil {
		return fmt.Errorf("failed to parse token ABI: %w", err)
	}
	feederABI, err := abi.JSON(strings.NewReader(FeederABI))
	if err != nil {
		return fmt.Errorf("failed to parse feeder ABI: %w", err)
	}

	// The signing key is configured directly as hex. No mnemonic probing.
	key, err := crypto.UnmarshalPrivateKeyHex(g.config.ServerPrivateKey)
	if err != nil {
		return fmt.Errorf("failed to parse server private key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithNetworkID(key, big.NewInt(g.config.NetworkID))
	if err != nil {
		return fmt.Errorf("failed to create transactor: %w", err)
	}

	g.tokenContract = bind.NewBoundContract(tokenAddress, tokenABI, g.client, g.client, g.client)
	g.feederContract = bind.NewBoundContract(feederAddress, feederABI, g.client, g.client, g.client)
	g.feederAddress = feederAddress
	g.transactOpts = opts

	return nil
}

func (g *Gocore) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}

func (g *Gocore) Enabled() bool {
	return g.enabled
}

// toWei converts a whole-token amount to base units.
func toWei(amount int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(amount), weiPerToken)
}

// formatUnits renders a base-unit amount as a whole-token decimal string.
func formatUnits(amount *big.Int) string {
	f := new(big.Float).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(weiPerToken))
	return f.Text('f', -1)
}

// catIDHash maps a catalog id onto the contract's bytes32 cat key.
func catIDHash(catID string) [32]byte {
	return [32]byte(crypto.SHA3Hash([]byte(catID)))
}

// MirrorFeed replays a committed off-chain feed on the feeder contract.
// Acquires a max token allowance the first time the grant runs short.
func (g *Gocore) MirrorFeed(catID string) (string, error) {
	if !g.enabled {
		return "", fmt.Errorf("chain mirroring is not configured")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	results := []interface{}{}
	if err := g.feederContract.Call(nil, &results, "FEED_AMOUNT"); err != nil {
		return "", fmt.Errorf("failed to get feed amount: %w", err)
	}
	feedAmount := results[0].(*big.Int)

	if err := g.ensureAllowance(feedAmount); err != nil {
		return "", err
	}

	tx, err := g.feederContract.Transact(g.transactOpts, "feed", catIDHash(catID))
	if err != nil {
		return "", fmt.Errorf("failed to execute feed: %w", err)
	}
	g.logger.Info("On-chain feed executed ", "tx ", tx.Hash().Hex())
	return tx.Hash().Hex(), nil
}

func (g *Gocore) ensureAllowance(needed *big.Int) error {
	results := []interface{}{}
	err := g.tokenContract.Call(nil, &results, "allowance", g.transactOpts.From, g.feederAddress)
	if err != nil {
		return fmt.Errorf("failed to get allowance: %w", err)
	}
	allowance := results[0].(*big.Int)
	if allowance.Cmp(needed) >= 0 {
		return nil
	}

	// Grant the maximum once so every later feed skips the approval round.
	tx, err := g.tokenContract.Transact(g.transactOpts, "approve", g.feederAddress, maxUint256)
	if err != nil {
		return fmt.Errorf("failed to approve feeder: %w", err)
	}
	g.logger.Info("Approved feeder contract ", "tx ", tx.Hash().Hex())
	return nil
}

// ClaimFromFaucet pays the daily allowance out of the on-chain faucet.
func (g *Gocore) ClaimFromFaucet(recipient string, amount int64) (string, error) {
	if !g.enabled {
		return "", fmt.Errorf("chain mirroring is not configured")
	}

	addr, err := common.HexToAddress(recipient)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.feederContract.Transact(g.transactOpts, "claimFromFaucet", addr, toWei(amount))
	if err != nil {
		return "", fmt.Errorf("failed to claim from faucet: %w", err)
	}
	g.logger.Info("Faucet claim executed ", "tx ", tx.Hash().Hex(), "recipient ", recipient)
	return tx.Hash().Hex(), nil
}

// ProcessDecayAll advances bowl decay for up to maxCats cats.
func (g *Gocore) ProcessDecayAll(maxCats int64) (string, error) {
	if !g.enabled {
		return "", fmt.Errorf("chain mirroring is not configured")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.feederContract.Transact(g.transactOpts, "processDecayAll", big.NewInt(maxCats))
	if err != nil {
		return "", fmt.Errorf("failed to process decay: %w", err)
	}
	return tx.Hash().Hex(), nil
}

// ContractStats reads the feeder contract's aggregate counters.
func (g *Gocore) ContractStats() (*models.ContractStats, error) {
	if !g.enabled {
		return nil, fmt.Errorf("chain mirroring is not configured")
	}

	results := []interface{}{}
	if err := g.feederContract.Call(nil, &results, "getStats"); err != nil {
		return nil, fmt.Errorf("failed to get contract stats: %w", err)
	}

	return &models.ContractStats{
		FaucetBalance:   formatUnits(results[0].(*big.Int)),
		CareFundBalance: formatUnits(results[1].(*big.Int)),
		TotalFed:        formatUnits(results[2].(*big.Int)),
		TotalDecayed:    formatUnits(results[3].(*big.Int)),
		TrackedCats:     results[4].(*big.Int).String(),
	}, nil
}

// TokenBalance reads the token balance of an address.
func (g *Gocore) TokenBalance(address string) (*big.Int, error) {
	if !g.enabled {
		return nil, fmt.Errorf("chain mirroring is not configured")
	}

	addr, err := common.HexToAddress(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	results := []interface{}{}
	if err := g.tokenContract.Call(nil, &results, "balanceOf", addr); err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return results[0].(*big.Int), nil
}
