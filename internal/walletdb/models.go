// Package walletdb persists accounts, subaddresses and tracked outputs.
package walletdb

import (
	"github.com/Klingon-tech/klingnet-wallet/internal/txo"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

// Default subaddress layout for newly imported accounts.
const (
	DefaultMainSubaddressIndex   uint64 = 0
	DefaultChangeSubaddressIndex uint64 = 1
)

// Account is a spend-capable account.
type Account struct {
	ID             types.AccountID `json:"id"`
	Name           string          `json:"name"`
	ViewPublicKey  types.PublicKey `json:"view_public_key"`
	SpendPublicKey types.PublicKey `json:"spend_public_key"`
	// SpendXPub is the serialized public spend branch subaddresses are
	// derived from.
	SpendXPub string `json:"spend_xpub"`
	// EncryptedSeed is the wallet-encrypted BIP-39 seed, empty when the
	// key material is held elsewhere.
	EncryptedSeed         []byte `json:"encrypted_seed,omitempty"`
	MainSubaddressIndex   uint64 `json:"main_subaddress_index"`
	ChangeSubaddressIndex uint64 `json:"change_subaddress_index"`
	NextSubaddressIndex   uint64 `json:"next_subaddress_index"`
	FirstBlockIndex       uint64 `json:"first_block_index"`
	NextBlockIndex        uint64 `json:"next_block_index"`
}

// ViewOnlyAccount can observe incoming outputs but never spend.
type ViewOnlyAccount struct {
	ID                    types.AccountID `json:"account_id_hex"`
	Name                  string          `json:"name"`
	ViewPublicKey         types.PublicKey `json:"view_public_key"`
	SpendXPub             string          `json:"spend_xpub"`
	MainSubaddressIndex   uint64          `json:"main_subaddress_index"`
	ChangeSubaddressIndex uint64          `json:"change_subaddress_index"`
	NextSubaddressIndex   uint64          `json:"next_subaddress_index"`
	FirstBlockIndex       uint64          `json:"first_block_index"`
	NextBlockIndex        uint64          `json:"next_block_index"`
}

// Subaddress binds a public address to an (account, index) pair. It is
// used for both account kinds.
type Subaddress struct {
	AccountID      types.AccountID `json:"account_id"`
	Index          uint64          `json:"subaddress_index"`
	Address        string          `json:"public_address_b58"`
	Comment        string          `json:"comment,omitempty"`
	SpendPublicKey types.PublicKey `json:"spend_public_key"`
}

// Txo is an output tracked by a spend-capable account.
type Txo struct {
	ID                 types.TxoID     `json:"id"`
	AccountID          types.AccountID `json:"account_id"`
	Value              uint64          `json:"value"`
	SubaddressIndex    *uint64         `json:"subaddress_index,omitempty"`
	ReceivedBlockIndex *uint64         `json:"received_block_index,omitempty"`
	SpentBlockIndex    *uint64         `json:"spent_block_index,omitempty"`
	PendingSpend       bool            `json:"pending_spend,omitempty"`
	Minted             bool            `json:"minted,omitempty"`
}

// Record returns the fields classification depends on.
func (t *Txo) Record() txo.Record {
	return txo.Record{
		Value:              t.Value,
		SubaddressIndex:    t.SubaddressIndex,
		ReceivedBlockIndex: t.ReceivedBlockIndex,
		SpentBlockIndex:    t.SpentBlockIndex,
		PendingSpend:       t.PendingSpend,
		Minted:             t.Minted,
	}
}

// ViewOnlyTxo is an output observed by a view-only account. View-only
// accounts never build transactions, so nothing is ever minted.
type ViewOnlyTxo struct {
	ID                 types.TxoID     `json:"id"`
	AccountID          types.AccountID `json:"view_only_account_id_hex"`
	Value              uint64          `json:"value"`
	SubaddressIndex    *uint64         `json:"subaddress_index,omitempty"`
	ReceivedBlockIndex *uint64         `json:"received_block_index,omitempty"`
	SpentBlockIndex    *uint64         `json:"spent_block_index,omitempty"`
	PendingSpend       bool            `json:"pending_spend,omitempty"`
}

// Record returns the fields classification depends on.
func (t *ViewOnlyTxo) Record() txo.Record {
	return txo.Record{
		Value:              t.Value,
		SubaddressIndex:    t.SubaddressIndex,
		ReceivedBlockIndex: t.ReceivedBlockIndex,
		SpentBlockIndex:    t.SpentBlockIndex,
		PendingSpend:       t.PendingSpend,
	}
}
