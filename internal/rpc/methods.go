package rpc

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Klingon-tech/klingnet-wallet/internal/account"
	"github.com/Klingon-tech/klingnet-wallet/internal/balance"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

type handler func(ctx context.Context, req *Request) (interface{}, *Error)

// methodAliases maps deprecated method names to their current ones.
var methodAliases = map[string]string{
	"get_all_addresses_for_account": "get_addresses_for_account",
	"get_all_txos_for_account":      "get_txos_for_account",
}

// resolveMethod rewrites a deprecated method name. It runs before params
// are decoded, so aliases share the target's param type.
func resolveMethod(name string) string {
	if target, ok := methodAliases[name]; ok {
		return target
	}
	return name
}

func (s *Server) methodTable() map[string]handler {
	return map[string]handler{
		// Balances and status
		"get_balance_for_account":           s.handleBalanceForAccount,
		"get_balance_for_address":           s.handleBalanceForAddress,
		"get_balance_for_view_only_account": s.handleBalanceForViewOnlyAccount,
		"get_balance_for_view_only_address": s.handleBalanceForViewOnlyAddress,
		"get_network_status":                s.handleNetworkStatus,
		"get_wallet_status":                 s.handleWalletStatus,

		// Accounts
		"import_account":                           s.handleImportAccount,
		"import_view_only_account":                 s.handleImportViewOnlyAccount,
		"import_subaddresses_to_view_only_account": s.handleImportSubaddresses,
		"assign_address_for_account":               s.handleAssignAddress,
		"get_account":                              s.handleGetAccount,
		"get_all_accounts":                         s.handleGetAllAccounts,
		"get_all_view_only_accounts":               s.handleGetAllViewOnlyAccounts,
		"get_addresses_for_account":                s.handleGetAddresses,
		"get_txos_for_account":                     s.handleGetTxos,
		"export_account_secrets":                   s.handleExportSecrets,
		"remove_account":                           s.handleRemoveAccount,
		"remove_view_only_account":                 s.handleRemoveViewOnlyAccount,

		"version": s.handleVersion,
	}
}

// dispatch routes a request to its handler.
func (s *Server) dispatch(ctx context.Context, method string, req *Request) (interface{}, *Error) {
	h, ok := s.methods[method]
	if !ok {
		return nil, &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}
	return h(ctx, req)
}

func helpText(table map[string]handler) string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	aliases := make([]string, 0, len(methodAliases))
	for from, to := range methodAliases {
		aliases = append(aliases, fmt.Sprintf("  %s -> %s", from, to))
	}
	sort.Strings(aliases)

	var b strings.Builder
	b.WriteString("Klingnet wallet JSON-RPC 2.0\n\n")
	b.WriteString("POST /wallet with {\"jsonrpc\": \"2.0\", \"method\": ..., \"params\": {...}, \"id\": 1}\n\n")
	b.WriteString("Methods:\n")
	for _, n := range names {
		b.WriteString("  " + n + "\n")
	}
	b.WriteString("\nDeprecated aliases:\n")
	for _, a := range aliases {
		b.WriteString(a + "\n")
	}
	return b.String()
}

// toRPCError maps service errors onto JSON-RPC error codes.
func toRPCError(err error) *Error {
	switch {
	case errors.Is(err, balance.ErrNotFound), errors.Is(err, walletdb.ErrNotFound):
		return &Error{Code: CodeNotFound, Message: err.Error()}
	case errors.Is(err, balance.ErrLedgerUnavailable):
		return &Error{Code: CodeLedgerUnavailable, Message: err.Error()}
	case errors.Is(err, balance.ErrInconsistentState):
		return &Error{Code: CodeInconsistentState, Message: err.Error()}
	case errors.Is(err, wallet.ErrInvalidMnemonic),
		errors.Is(err, account.ErrInvalidKey),
		errors.Is(err, wallet.ErrSubaddressIndex),
		errors.Is(err, walletdb.ErrInvalidKey),
		errors.Is(err, wallet.ErrWrongPassword),
		errors.Is(err, account.ErrNoSeed),
		errors.Is(err, walletdb.ErrAccountExists),
		errors.Is(err, walletdb.ErrAddressExists):
		return &Error{Code: CodeInvalidParams, Message: err.Error()}
	default:
		return &Error{Code: CodeInternalError, Message: err.Error()}
	}
}

// ── Param helpers ───────────────────────────────────────────────────────

func invalidParam(name, reason string) *Error {
	return &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid %s: %s", name, reason)}
}

func parseAccountID(s string) (types.AccountID, *Error) {
	if s == "" {
		return types.AccountID{}, invalidParam("account_id", "required")
	}
	id, err := types.ParseAccountID(s)
	if err != nil {
		return types.AccountID{}, invalidParam("account_id", err.Error())
	}
	return id, nil
}

// parseUint parses an optional decimal string, returning def when empty.
func parseUint(name, s string, def uint64) (uint64, *Error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, invalidParam(name, "must be a decimal unsigned integer")
	}
	return v, nil
}

func (s *Server) parseDepth(v string) (uint64, *Error) {
	return parseUint("depth", v, s.defaultDepth)
}

func parseIndexes(name string, values []string) ([]uint64, *Error) {
	out := make([]uint64, 0, len(values))
	for _, v := range values {
		i, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, invalidParam(name, fmt.Sprintf("%q is not a subaddress index", v))
		}
		out = append(out, i)
	}
	return out, nil
}

// page applies offset and limit to items. A zero limit means no limit.
func page[T any](items []T, offset, limit string) ([]T, *Error) {
	off, rpcErr := parseUint("offset", offset, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	lim, rpcErr := parseUint("limit", limit, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if off >= uint64(len(items)) {
		return items[:0], nil
	}
	items = items[off:]
	if lim > 0 && lim < uint64(len(items)) {
		items = items[:lim]
	}
	return items, nil
}
