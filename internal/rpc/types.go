package rpc

import (
	"strconv"

	"github.com/Klingon-tech/klingnet-wallet/internal/balance"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"lukechampine.com/uint128"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	// CodeLedgerUnavailable means no height source answered.
	CodeLedgerUnavailable = -32001
	// CodeInconsistentState means stored outputs contradict each other.
	CodeInconsistentState = -32002
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// ── Param types ─────────────────────────────────────────────────────────
//
// Integers travel as decimal strings so 64-bit values survive JSON
// clients that only have doubles.

// AccountParam is used by endpoints that take a single account.
type AccountParam struct {
	AccountID string `json:"account_id"`
	// Depth is the confirmation depth; empty uses the server default.
	Depth string `json:"depth,omitempty"`
}

// AddressParam is used by the address balance endpoints.
type AddressParam struct {
	Address string `json:"address"`
	Depth   string `json:"depth,omitempty"`
}

// ImportAccountParam is used by import_account.
type ImportAccountParam struct {
	Mnemonic        string `json:"mnemonic"`
	Passphrase      string `json:"passphrase,omitempty"`
	Password        string `json:"password,omitempty"`
	Name            string `json:"name,omitempty"`
	AccountIndex    string `json:"account_index,omitempty"`
	FirstBlockIndex string `json:"first_block_index,omitempty"`
}

// ImportViewOnlyParam is used by import_view_only_account.
type ImportViewOnlyParam struct {
	ViewPublicKey   string   `json:"view_public_key"`
	SpendXPub       string   `json:"spend_xpub"`
	Name            string   `json:"name,omitempty"`
	FirstBlockIndex string   `json:"first_block_index,omitempty"`
	Subaddresses    []string `json:"subaddresses,omitempty"`
}

// ImportSubaddressesParam is used by import_subaddresses_to_view_only_account.
type ImportSubaddressesParam struct {
	AccountID    string   `json:"account_id"`
	Subaddresses []string `json:"subaddresses"`
	Comment      string   `json:"comment,omitempty"`
}

// AssignAddressParam is used by assign_address_for_account.
type AssignAddressParam struct {
	AccountID string `json:"account_id"`
	Metadata  string `json:"metadata,omitempty"`
}

// ExportSecretsParam is used by export_account_secrets.
type ExportSecretsParam struct {
	AccountID string `json:"account_id"`
	Password  string `json:"password"`
}

// PageParam is used by the account listing endpoints.
type PageParam struct {
	AccountID string `json:"account_id"`
	Offset    string `json:"offset,omitempty"`
	Limit     string `json:"limit,omitempty"`
	// Status filters get_txos_for_account to one lifecycle state.
	Status string `json:"status,omitempty"`
	Depth  string `json:"depth,omitempty"`
}

// ── Result types ────────────────────────────────────────────────────────

// BalanceResult is the JSON shape of a balance.
type BalanceResult struct {
	Object             string `json:"object"`
	NetworkBlockHeight string `json:"network_block_height"`
	LocalBlockHeight   string `json:"local_block_height"`
	AccountBlockHeight string `json:"account_block_height"`
	IsSynced           bool   `json:"is_synced"`
	UnspentPmob        string `json:"unspent_pmob"`
	MaxSpendablePmob   string `json:"max_spendable_pmob"`
	PendingPmob        string `json:"pending_pmob"`
	SpentPmob          string `json:"spent_pmob"`
	SecretedPmob       string `json:"secreted_pmob"`
	OrphanedPmob       string `json:"orphaned_pmob"`
}

// BalanceResponse wraps a balance.
type BalanceResponse struct {
	Balance *BalanceResult `json:"balance"`
}

// NetworkStatusResult is the JSON shape of the ledger status.
type NetworkStatusResult struct {
	Object             string `json:"object"`
	NetworkBlockHeight string `json:"network_block_height"`
	LocalBlockHeight   string `json:"local_block_height"`
	FeePmob            string `json:"fee_pmob"`
	BlockVersion       string `json:"block_version"`
}

// NetworkStatusResponse wraps a network status.
type NetworkStatusResponse struct {
	NetworkStatus *NetworkStatusResult `json:"network_status"`
}

// WalletStatusResult is the JSON shape of the wallet status.
type WalletStatusResult struct {
	Object              string                            `json:"object"`
	NetworkBlockHeight  string                            `json:"network_block_height"`
	LocalBlockHeight    string                            `json:"local_block_height"`
	MinSyncedBlockIndex string                            `json:"min_synced_block_index"`
	IsSyncedAll         bool                              `json:"is_synced_all"`
	TotalUnspentPmob    string                            `json:"total_unspent_pmob"`
	TotalPendingPmob    string                            `json:"total_pending_pmob"`
	TotalSpentPmob      string                            `json:"total_spent_pmob"`
	TotalSecretedPmob   string                            `json:"total_secreted_pmob"`
	TotalOrphanedPmob   string                            `json:"total_orphaned_pmob"`
	AccountIDs          []string                          `json:"account_ids"`
	AccountMap          map[string]*AccountResult         `json:"account_map"`
	ViewOnlyAccountIDs  []string                          `json:"view_only_account_ids"`
	ViewOnlyAccountMap  map[string]*ViewOnlyAccountResult `json:"view_only_account_map"`
}

// WalletStatusResponse wraps a wallet status.
type WalletStatusResponse struct {
	WalletStatus *WalletStatusResult `json:"wallet_status"`
}

// AccountResult is the JSON shape of a spend-capable account.
type AccountResult struct {
	Object                string `json:"object"`
	AccountID             string `json:"account_id"`
	Name                  string `json:"name"`
	ViewPublicKey         string `json:"view_public_key"`
	SpendPublicKey        string `json:"spend_public_key"`
	MainSubaddressIndex   string `json:"main_subaddress_index"`
	ChangeSubaddressIndex string `json:"change_subaddress_index"`
	NextSubaddressIndex   string `json:"next_subaddress_index"`
	FirstBlockIndex       string `json:"first_block_index"`
	NextBlockIndex        string `json:"next_block_index"`
	HasSeed               bool   `json:"has_seed"`
}

// AccountResponse wraps one account.
type AccountResponse struct {
	Account *AccountResult `json:"account"`
}

// AccountsResponse lists spend-capable accounts.
type AccountsResponse struct {
	AccountIDs []string                  `json:"account_ids"`
	AccountMap map[string]*AccountResult `json:"account_map"`
}

// ViewOnlyAccountResult is the JSON shape of a view-only account.
type ViewOnlyAccountResult struct {
	Object                string `json:"object"`
	AccountID             string `json:"account_id"`
	Name                  string `json:"name"`
	ViewPublicKey         string `json:"view_public_key"`
	SpendXPub             string `json:"spend_xpub"`
	MainSubaddressIndex   string `json:"main_subaddress_index"`
	ChangeSubaddressIndex string `json:"change_subaddress_index"`
	NextSubaddressIndex   string `json:"next_subaddress_index"`
	FirstBlockIndex       string `json:"first_block_index"`
	NextBlockIndex        string `json:"next_block_index"`
}

// ViewOnlyAccountResponse wraps one view-only account.
type ViewOnlyAccountResponse struct {
	ViewOnlyAccount *ViewOnlyAccountResult `json:"view_only_account"`
}

// ViewOnlyAccountsResponse lists view-only accounts.
type ViewOnlyAccountsResponse struct {
	AccountIDs []string                          `json:"account_ids"`
	AccountMap map[string]*ViewOnlyAccountResult `json:"account_map"`
}

// AddressResult is the JSON shape of an assigned subaddress.
type AddressResult struct {
	Object           string `json:"object"`
	PublicAddressB58 string `json:"public_address_b58"`
	AccountID        string `json:"account_id"`
	Metadata         string `json:"metadata"`
	SubaddressIndex  string `json:"subaddress_index"`
}

// AddressResponse wraps one subaddress.
type AddressResponse struct {
	Address *AddressResult `json:"address"`
}

// AddressesResponse lists subaddresses in index order.
type AddressesResponse struct {
	PublicAddresses []string                  `json:"public_addresses"`
	AddressMap      map[string]*AddressResult `json:"address_map"`
}

// TxoResult is the JSON shape of a classified output.
type TxoResult struct {
	Object             string  `json:"object"`
	TxoID              string  `json:"txo_id"`
	AccountID          string  `json:"account_id"`
	ValuePmob          string  `json:"value_pmob"`
	SubaddressIndex    *string `json:"subaddress_index"`
	ReceivedBlockIndex *string `json:"received_block_index"`
	SpentBlockIndex    *string `json:"spent_block_index"`
	Status             string  `json:"status"`
}

// TxosResponse lists outputs in storage order.
type TxosResponse struct {
	TxoIDs []string              `json:"txo_ids"`
	TxoMap map[string]*TxoResult `json:"txo_map"`
}

// AccountSecretsResult carries the unsealed BIP-39 seed of an account.
type AccountSecretsResult struct {
	Object    string `json:"object"`
	AccountID string `json:"account_id"`
	// Seed is the 64-byte BIP-39 seed, hex encoded.
	Seed string `json:"seed"`
	// SpendXPub lets the holder rebuild a view-only account.
	SpendXPub string `json:"spend_xpub"`
}

// AccountSecretsResponse wraps exported account secrets.
type AccountSecretsResponse struct {
	AccountSecrets *AccountSecretsResult `json:"account_secrets"`
}

// RemovedResponse reports an account removal.
type RemovedResponse struct {
	Removed bool `json:"removed"`
}

// VersionResponse reports the daemon version.
type VersionResponse struct {
	String string `json:"string"`
}

// ── Converters ──────────────────────────────────────────────────────────

func u64(v uint64) string { return strconv.FormatUint(v, 10) }

func u128(v uint128.Uint128) string { return v.String() }

func optU64(v *uint64) *string {
	if v == nil {
		return nil
	}
	s := u64(*v)
	return &s
}

func newBalanceResult(b *balance.Balance) *BalanceResult {
	return &BalanceResult{
		Object:             "balance",
		NetworkBlockHeight: u64(b.NetworkBlockHeight),
		LocalBlockHeight:   u64(b.LocalBlockHeight),
		AccountBlockHeight: u64(b.SyncedBlocks),
		IsSynced:           b.SyncedBlocks == b.NetworkBlockHeight,
		UnspentPmob:        u128(b.Unspent),
		MaxSpendablePmob:   u128(b.MaxSpendable),
		PendingPmob:        u128(b.Pending),
		SpentPmob:          u128(b.Spent),
		SecretedPmob:       u128(b.Secreted),
		OrphanedPmob:       u128(b.Orphaned),
	}
}

func newNetworkStatusResult(n *balance.NetworkStatus) *NetworkStatusResult {
	return &NetworkStatusResult{
		Object:             "network_status",
		NetworkBlockHeight: u64(n.NetworkBlockHeight),
		LocalBlockHeight:   u64(n.LocalBlockHeight),
		FeePmob:            u64(n.FeePmob),
		BlockVersion:       strconv.FormatUint(uint64(n.BlockVersion), 10),
	}
}

func newWalletStatusResult(w *balance.WalletStatus) *WalletStatusResult {
	res := &WalletStatusResult{
		Object:              "wallet_status",
		NetworkBlockHeight:  u64(w.NetworkBlockHeight),
		LocalBlockHeight:    u64(w.LocalBlockHeight),
		MinSyncedBlockIndex: u64(w.MinSyncedBlockIndex),
		IsSyncedAll:         w.MinSyncedBlockIndex+1 >= w.NetworkBlockHeight,
		TotalUnspentPmob:    u128(w.Unspent),
		TotalPendingPmob:    u128(w.Pending),
		TotalSpentPmob:      u128(w.Spent),
		TotalSecretedPmob:   u128(w.Secreted),
		TotalOrphanedPmob:   u128(w.Orphaned),
		AccountIDs:          make([]string, 0, len(w.AccountIDs)),
		AccountMap:          make(map[string]*AccountResult, len(w.AccountMap)),
		ViewOnlyAccountIDs:  make([]string, 0, len(w.ViewOnlyAccountIDs)),
		ViewOnlyAccountMap:  make(map[string]*ViewOnlyAccountResult, len(w.ViewOnlyAccountMap)),
	}
	for _, id := range w.AccountIDs {
		res.AccountIDs = append(res.AccountIDs, id.String())
		res.AccountMap[id.String()] = newAccountResult(w.AccountMap[id])
	}
	for _, id := range w.ViewOnlyAccountIDs {
		res.ViewOnlyAccountIDs = append(res.ViewOnlyAccountIDs, id.String())
		res.ViewOnlyAccountMap[id.String()] = newViewOnlyAccountResult(w.ViewOnlyAccountMap[id])
	}
	return res
}

func newAccountResult(a *walletdb.Account) *AccountResult {
	return &AccountResult{
		Object:                "account",
		AccountID:             a.ID.String(),
		Name:                  a.Name,
		ViewPublicKey:         a.ViewPublicKey.String(),
		SpendPublicKey:        a.SpendPublicKey.String(),
		MainSubaddressIndex:   u64(a.MainSubaddressIndex),
		ChangeSubaddressIndex: u64(a.ChangeSubaddressIndex),
		NextSubaddressIndex:   u64(a.NextSubaddressIndex),
		FirstBlockIndex:       u64(a.FirstBlockIndex),
		NextBlockIndex:        u64(a.NextBlockIndex),
		HasSeed:               len(a.EncryptedSeed) > 0,
	}
}

func newViewOnlyAccountResult(a *walletdb.ViewOnlyAccount) *ViewOnlyAccountResult {
	return &ViewOnlyAccountResult{
		Object:                "view_only_account",
		AccountID:             a.ID.String(),
		Name:                  a.Name,
		ViewPublicKey:         a.ViewPublicKey.String(),
		SpendXPub:             a.SpendXPub,
		MainSubaddressIndex:   u64(a.MainSubaddressIndex),
		ChangeSubaddressIndex: u64(a.ChangeSubaddressIndex),
		NextSubaddressIndex:   u64(a.NextSubaddressIndex),
		FirstBlockIndex:       u64(a.FirstBlockIndex),
		NextBlockIndex:        u64(a.NextBlockIndex),
	}
}

func newAddressResult(s *walletdb.Subaddress) *AddressResult {
	return &AddressResult{
		Object:           "address",
		PublicAddressB58: s.Address,
		AccountID:        s.AccountID.String(),
		Metadata:         s.Comment,
		SubaddressIndex:  u64(s.Index),
	}
}

func newAddressesResponse(subs []*walletdb.Subaddress) *AddressesResponse {
	res := &AddressesResponse{
		PublicAddresses: make([]string, 0, len(subs)),
		AddressMap:      make(map[string]*AddressResult, len(subs)),
	}
	for _, s := range subs {
		res.PublicAddresses = append(res.PublicAddresses, s.Address)
		res.AddressMap[s.Address] = newAddressResult(s)
	}
	return res
}

func newTxoResult(o balance.ClassifiedTxo) *TxoResult {
	return &TxoResult{
		Object:             "txo",
		TxoID:              o.ID.String(),
		AccountID:          o.AccountID.String(),
		ValuePmob:          u64(o.Value),
		SubaddressIndex:    optU64(o.SubaddressIndex),
		ReceivedBlockIndex: optU64(o.ReceivedBlockIndex),
		SpentBlockIndex:    optU64(o.SpentBlockIndex),
		Status:             o.Status.String(),
	}
}
