package rpc

import (
	"context"

	"github.com/Klingon-tech/klingnet-wallet/config"
)

func (s *Server) handleBalanceForAccount(ctx context.Context, req *Request) (interface{}, *Error) {
	var p AccountParam
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

	b, err := s.balances.BalanceForAccount(ctx, id, depth)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &BalanceResponse{Balance: newBalanceResult(b)}, nil
}

func (s *Server) handleBalanceForAddress(ctx context.Context, req *Request) (interface{}, *Error) {
	var p AddressParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	if p.Address == "" {
		return nil, invalidParam("address", "required")
	}
	depth, rpcErr := s.parseDepth(p.Depth)
	if rpcErr != nil {
		return nil, rpcErr
	}

	b, err := s.balances.BalanceForAddress(ctx, p.Address, depth)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &BalanceResponse{Balance: newBalanceResult(b)}, nil
}

func (s *Server) handleBalanceForViewOnlyAccount(ctx context.Context, req *Request) (interface{}, *Error) {
	var p AccountParam
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

	b, err := s.balances.BalanceForViewOnlyAccount(ctx, id, depth)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &BalanceResponse{Balance: newBalanceResult(b)}, nil
}

func (s *Server) handleBalanceForViewOnlyAddress(ctx context.Context, req *Request) (interface{}, *Error) {
	var p AddressParam
	if err := parseParams(req, &p); err != nil {
		return nil, err
	}
	if p.Address == "" {
		return nil, invalidParam("address", "required")
	}
	depth, rpcErr := s.parseDepth(p.Depth)
	if rpcErr != nil {
		return nil, rpcErr
	}

	b, err := s.balances.BalanceForViewOnlyAddress(ctx, p.Address, depth)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &BalanceResponse{Balance: newBalanceResult(b)}, nil
}

func (s *Server) handleNetworkStatus(ctx context.Context, _ *Request) (interface{}, *Error) {
	n, err := s.balances.NetworkStatus(ctx)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &NetworkStatusResponse{NetworkStatus: newNetworkStatusResult(n)}, nil
}

func (s *Server) handleWalletStatus(ctx context.Context, _ *Request) (interface{}, *Error) {
	w, err := s.balances.WalletStatus(ctx)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &WalletStatusResponse{WalletStatus: newWalletStatusResult(w)}, nil
}

func (s *Server) handleVersion(context.Context, *Request) (interface{}, *Error) {
	return &VersionResponse{String: config.Version}, nil
}
