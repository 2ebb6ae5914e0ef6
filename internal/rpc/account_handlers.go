package rpc

import (
	"context"
	"encoding/hex"
	"math"

	"github.com/Klingon-tech/klingnet-wallet/internal/account"
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

func (s *Server) handleImportAccount(_ context.Context, req *Request) (interface{}, *Error) {
	var p ImportAccountParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	if p.Mnemonic == "" {
		return nil, invalidParam("mnemonic", "required")
	}
	index, rpcErr := parseUint("account_index", p.AccountIndex, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if index > math.MaxUint32 {
		return nil, invalidParam("account_index", "out of range")
	}
	first, rpcErr := parseUint("first_block_index", p.FirstBlockIndex, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}

	a, err := s.accounts.Import(account.ImportRequest{
		Mnemonic:        p.Mnemonic,
		Passphrase:      p.Passphrase,
		Password:        p.Password,
		Name:            p.Name,
		AccountIndex:    uint32(index),
		FirstBlockIndex: first,
	})
	if err != nil {
		return nil, toRPCError(err)
	}
	return &AccountResponse{Account: newAccountResult(a)}, nil
}

func (s *Server) handleImportViewOnlyAccount(_ context.Context, req *Request) (interface{}, *Error) {
	var p ImportViewOnlyParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	view, err := types.ParsePublicKeyHex(p.ViewPublicKey)
	if err != nil {
		return nil, invalidParam("view_public_key", err.Error())
	}
	if p.SpendXPub == "" {
		return nil, invalidParam("spend_xpub", "required")
	}
	first, rpcErr := parseUint("first_block_index", p.FirstBlockIndex, 0)
	if rpcErr != nil {
		return nil, rpcErr
	}
	indexes, rpcErr := parseIndexes("subaddresses", p.Subaddresses)
	if rpcErr != nil {
		return nil, rpcErr
	}

	a, err := s.accounts.ImportViewOnly(account.ViewOnlyRequest{
		ViewPublicKey:   view,
		SpendXPub:       p.SpendXPub,
		Name:            p.Name,
		FirstBlockIndex: first,
	})
	if err != nil {
		return nil, toRPCError(err)
	}

	// Main and change are created with the account.
	extra := make([]uint64, 0, len(indexes))
	for _, i := range indexes {
		if i != a.MainSubaddressIndex && i != a.ChangeSubaddressIndex {
			extra = append(extra, i)
		}
	}
	if len(extra) > 0 {
		if _, err := s.accounts.ImportViewOnlySubaddresses(a.ID, extra, ""); err != nil {
			if rmErr := s.accounts.RemoveViewOnly(a.ID); rmErr != nil {
				s.logger.Error().Err(rmErr).Str("account_id", a.ID.String()).Msg("Rollback of view-only import failed")
			}
			return nil, toRPCError(err)
		}
		if a, err = s.accounts.GetViewOnly(a.ID); err != nil {
			return nil, toRPCError(err)
		}
	}
	return &ViewOnlyAccountResponse{ViewOnlyAccount: newViewOnlyAccountResult(a)}, nil
}

func (s *Server) handleImportSubaddresses(_ context.Context, req *Request) (interface{}, *Error) {
	var p ImportSubaddressesParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if len(p.Subaddresses) == 0 {
		return nil, invalidParam("subaddresses", "required")
	}
	indexes, rpcErr := parseIndexes("subaddresses", p.Subaddresses)
	if rpcErr != nil {
		return nil, rpcErr
	}

	subs, err := s.accounts.ImportViewOnlySubaddresses(id, indexes, p.Comment)
	if err != nil {
		return nil, toRPCError(err)
	}
	return newAddressesResponse(subs), nil
}

func (s *Server) handleAssignAddress(_ context.Context, req *Request) (interface{}, *Error) {
	var p AssignAddressParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}

	sub, err := s.accounts.AssignAddress(id, p.Metadata)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &AddressResponse{Address: newAddressResult(sub)}, nil
}

func (s *Server) handleGetAccount(_ context.Context, req *Request) (interface{}, *Error) {
	var p AccountParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}

	a, err := s.accounts.Get(id)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &AccountResponse{Account: newAccountResult(a)}, nil
}

func (s *Server) handleGetAllAccounts(context.Context, *Request) (interface{}, *Error) {
	list, err := s.accounts.List()
	if err != nil {
		return nil, toRPCError(err)
	}
	res := &AccountsResponse{
		AccountIDs: make([]string, 0, len(list)),
		AccountMap: make(map[string]*AccountResult, len(list)),
	}
	for _, a := range list {
		res.AccountIDs = append(res.AccountIDs, a.ID.String())
		res.AccountMap[a.ID.String()] = newAccountResult(a)
	}
	return res, nil
}

func (s *Server) handleGetAllViewOnlyAccounts(context.Context, *Request) (interface{}, *Error) {
	list, err := s.accounts.ListViewOnly()
	if err != nil {
		return nil, toRPCError(err)
	}
	res := &ViewOnlyAccountsResponse{
		AccountIDs: make([]string, 0, len(list)),
		AccountMap: make(map[string]*ViewOnlyAccountResult, len(list)),
	}
	for _, a := range list {
		res.AccountIDs = append(res.AccountIDs, a.ID.String())
		res.AccountMap[a.ID.String()] = newViewOnlyAccountResult(a)
	}
	return res, nil
}

func (s *Server) handleGetAddresses(_ context.Context, req *Request) (interface{}, *Error) {
	var p PageParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}

	subs, err := s.accounts.Addresses(id)
	if err != nil {
		return nil, toRPCError(err)
	}
	subs, rpcErr = page(subs, p.Offset, p.Limit)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return newAddressesResponse(subs), nil
}

func (s *Server) handleGetTxos(_ context.Context, req *Request) (interface{}, *Error) {
	var p PageParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	depth, rpcErr := s.parseDepth(p.Depth)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var status *txo.Status
	if p.Status != "" {
		st, err := txo.ParseStatus(p.Status)
		if err != nil {
			return nil, invalidParam("status", err.Error())
		}
		status = &st
	}

	txos, err := s.balances.TxosForAccount(id, status, depth)
	if err != nil {
		return nil, toRPCError(err)
	}
	txos, rpcErr = page(txos, p.Offset, p.Limit)
	if rpcErr != nil {
		return nil, rpcErr
	}

	res := &TxosResponse{
		TxoIDs: make([]string, 0, len(txos)),
		TxoMap: make(map[string]*TxoResult, len(txos)),
	}
	for _, o := range txos {
		res.TxoIDs = append(res.TxoIDs, o.ID.String())
		res.TxoMap[o.ID.String()] = newTxoResult(o)
	}
	return res, nil
}

func (s *Server) handleExportSecrets(_ context.Context, req *Request) (interface{}, *Error) {
	var p ExportSecretsParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if p.Password == "" {
		return nil, invalidParam("password", "required")
	}
	a, err := s.accounts.Get(id)
	if err != nil {
		return nil, toRPCError(err)
	}
	seed, err := s.accounts.Seed(id, p.Password)
	if err != nil {
		return nil, toRPCError(err)
	}
	s.logger.Warn().Str("account_id", id.String()).Msg("Account secrets exported")
	return &AccountSecretsResponse{AccountSecrets: &AccountSecretsResult{
		Object:    "account_secrets",
		AccountID: id.String(),
		Seed:      hex.EncodeToString(seed),
		SpendXPub: a.SpendXPub,
	}}, nil
}

func (s *Server) handleRemoveAccount(_ context.Context, req *Request) (interface{}, *Error) {
	var p AccountParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.accounts.Remove(id); err != nil {
		return nil, toRPCError(err)
	}
	return &RemovedResponse{Removed: true}, nil
}

func (s *Server) handleRemoveViewOnlyAccount(_ context.Context, req *Request) (interface{}, *Error) {
	var p AccountParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	id, rpcErr := parseAccountID(p.AccountID)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if err := s.accounts.RemoveViewOnly(id); err != nil {
		return nil, toRPCError(err)
	}
	return &RemovedResponse{Removed: true}, nil
}
