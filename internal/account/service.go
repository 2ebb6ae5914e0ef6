// Package account imports, extends and removes wallet accounts.
package account

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	klog "github.com/Klingon-tech/klingnet-wallet/internal/log"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
	"github.com/Klingon-tech/klingnet-wallet/internal/walletdb"
	"github.com/Klingon-tech/klingnet-wallet/pkg/types"
)

var (
	// ErrInvalidKey is returned when imported key material cannot be used.
	ErrInvalidKey = errors.New("invalid key material")
	// ErrNoSeed is returned when an account was imported without a password.
	ErrNoSeed = errors.New("account has no stored seed")
)

// ImportRequest describes a spend-capable account to import.
type ImportRequest struct {
	Mnemonic string
	// Passphrase is the optional BIP-39 passphrase.
	Passphrase string
	// Password seals the seed at rest. Empty stores no seed.
	Password        string
	Name            string
	AccountIndex    uint32
	FirstBlockIndex uint64
}

// ViewOnlyRequest describes a view-only account to import.
type ViewOnlyRequest struct {
	ViewPublicKey   types.PublicKey
	SpendXPub       string
	Name            string
	FirstBlockIndex uint64
}

// Service manages accounts in the wallet store.
type Service struct {
	db     *walletdb.Store
	kdf    wallet.KDFParams
	logger zerolog.Logger
}

// NewService creates an account service.
func NewService(db *walletdb.Store, kdf wallet.KDFParams) *Service {
	return &Service{db: db, kdf: kdf, logger: klog.WithComponent("account")}
}

// defaultSubaddresses derives the main and change subaddresses.
func defaultSubaddresses(key *wallet.AccountKey) ([]*walletdb.Subaddress, error) {
	comments := map[uint64]string{
		walletdb.DefaultMainSubaddressIndex:   "Main",
		walletdb.DefaultChangeSubaddressIndex: "Change",
	}
	var subs []*walletdb.Subaddress
	for _, index := range []uint64{walletdb.DefaultMainSubaddressIndex, walletdb.DefaultChangeSubaddressIndex} {
		sub, err := deriveSubaddress(key, index)
		if err != nil {
			return nil, err
		}
		sub.Comment = comments[index]
		subs = append(subs, sub)
	}
	return subs, nil
}

func deriveSubaddress(key *wallet.AccountKey, index uint64) (*walletdb.Subaddress, error) {
	addr, err := key.Subaddress(index)
	if err != nil {
		return nil, err
	}
	return &walletdb.Subaddress{
		Index:          index,
		Address:        addr.B58(),
		SpendPublicKey: addr.SpendPublicKey,
	}, nil
}

// Import derives an account from a mnemonic and stores it with its main
// and change subaddresses.
func (s *Service) Import(req ImportRequest) (*walletdb.Account, error) {
	seed, err := wallet.SeedFromMnemonic(req.Mnemonic, req.Passphrase)
	if err != nil {
		return nil, err
	}
	key, err := wallet.NewAccountKey(seed, req.AccountIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	id := key.ID()

	a := &walletdb.Account{
		ID:                    id,
		Name:                  req.Name,
		ViewPublicKey:         key.ViewPublicKey(),
		SpendPublicKey:        key.SpendPublicKey(),
		SpendXPub:             key.SpendXPub(),
		MainSubaddressIndex:   walletdb.DefaultMainSubaddressIndex,
		ChangeSubaddressIndex: walletdb.DefaultChangeSubaddressIndex,
		FirstBlockIndex:       req.FirstBlockIndex,
		NextBlockIndex:        req.FirstBlockIndex,
	}
	if req.Password != "" {
		a.EncryptedSeed, err = wallet.SealSeed(seed, []byte(req.Password), id, s.kdf)
		if err != nil {
			return nil, fmt.Errorf("seal seed: %w", err)
		}
	}

	subs, err := defaultSubaddresses(key)
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateAccount(a, subs); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("account_id", id.String()).
		Str("name", a.Name).
		Uint64("first_block", a.FirstBlockIndex).
		Msg("Account imported")
	return a, nil
}

// ImportViewOnly stores a view-only account with its main and change
// subaddresses.
func (s *Service) ImportViewOnly(req ViewOnlyRequest) (*walletdb.ViewOnlyAccount, error) {
	key, err := wallet.NewViewOnlyKey(req.ViewPublicKey, req.SpendXPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	id := key.ID()

	a := &walletdb.ViewOnlyAccount{
		ID:                    id,
		Name:                  req.Name,
		ViewPublicKey:         req.ViewPublicKey,
		SpendXPub:             key.SpendXPub(),
		MainSubaddressIndex:   walletdb.DefaultMainSubaddressIndex,
		ChangeSubaddressIndex: walletdb.DefaultChangeSubaddressIndex,
		FirstBlockIndex:       req.FirstBlockIndex,
		NextBlockIndex:        req.FirstBlockIndex,
	}
	subs, err := defaultSubaddresses(key)
	if err != nil {
		return nil, err
	}
	if err := s.db.CreateViewOnlyAccount(a, subs); err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id.String()).Str("name", a.Name).Msg("View-only account imported")
	return a, nil
}

// ImportViewOnlySubaddresses derives and tracks extra subaddresses of a
// view-only account.
func (s *Service) ImportViewOnlySubaddresses(id types.AccountID, indexes []uint64, comment string) ([]*walletdb.Subaddress, error) {
	var a *walletdb.ViewOnlyAccount
	err := s.db.View(func(c *walletdb.Conn) error {
		var err error
		a, err = c.GetViewOnlyAccount(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	key, err := wallet.NewViewOnlyKey(a.ViewPublicKey, a.SpendXPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	subs := make([]*walletdb.Subaddress, 0, len(indexes))
	for _, index := range indexes {
		sub, err := deriveSubaddress(key, index)
		if err != nil {
			return nil, err
		}
		sub.Comment = comment
		subs = append(subs, sub)
	}
	if err := s.db.ImportViewOnlySubaddresses(id, subs); err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id.String()).Int("count", len(subs)).Msg("View-only subaddresses imported")
	return subs, nil
}

// AssignAddress derives and tracks the account's next subaddress.
func (s *Service) AssignAddress(id types.AccountID, comment string) (*walletdb.Subaddress, error) {
	sub, err := s.db.AssignSubaddress(id, comment, func(a *walletdb.Account, index uint64) (*walletdb.Subaddress, error) {
		key, err := wallet.NewViewOnlyKey(a.ViewPublicKey, a.SpendXPub)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return deriveSubaddress(key, index)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id.String()).Uint64("index", sub.Index).Msg("Address assigned")
	return sub, nil
}

// Remove deletes a spend-capable account and everything it owns.
func (s *Service) Remove(id types.AccountID) error {
	if err := s.db.RemoveAccount(id); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id.String()).Msg("Account removed")
	return nil
}

// RemoveViewOnly deletes a view-only account and everything it owns.
func (s *Service) RemoveViewOnly(id types.AccountID) error {
	if err := s.db.RemoveViewOnlyAccount(id); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", id.String()).Msg("View-only account removed")
	return nil
}

// Get returns one spend-capable account.
func (s *Service) Get(id types.AccountID) (*walletdb.Account, error) {
	var a *walletdb.Account
	err := s.db.View(func(c *walletdb.Conn) error {
		var err error
		a, err = c.GetAccount(id)
		return err
	})
	return a, err
}

// GetViewOnly returns one view-only account.
func (s *Service) GetViewOnly(id types.AccountID) (*walletdb.ViewOnlyAccount, error) {
	var a *walletdb.ViewOnlyAccount
	err := s.db.View(func(c *walletdb.Conn) error {
		var err error
		a, err = c.GetViewOnlyAccount(id)
		return err
	})
	return a, err
}

// List returns every spend-capable account.
func (s *Service) List() ([]*walletdb.Account, error) {
	var out []*walletdb.Account
	err := s.db.View(func(c *walletdb.Conn) error {
		var err error
		out, err = c.ListAccounts()
		return err
	})
	return out, err
}

// ListViewOnly returns every view-only account.
func (s *Service) ListViewOnly() ([]*walletdb.ViewOnlyAccount, error) {
	var out []*walletdb.ViewOnlyAccount
	err := s.db.View(func(c *walletdb.Conn) error {
		var err error
		out, err = c.ListViewOnlyAccounts()
		return err
	})
	return out, err
}

// Addresses returns the subaddresses assigned to an account.
func (s *Service) Addresses(id types.AccountID) ([]*walletdb.Subaddress, error) {
	var out []*walletdb.Subaddress
	err := s.db.View(func(c *walletdb.Conn) error {
		if _, err := c.GetAccount(id); err != nil {
			return err
		}
		var err error
		out, err = c.ListSubaddresses(id)
		return err
	})
	return out, err
}

// Seed opens the sealed seed of an account.
func (s *Service) Seed(id types.AccountID, password string) ([]byte, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if len(a.EncryptedSeed) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSeed, id)
	}
	return wallet.OpenSeed(a.EncryptedSeed, []byte(password), id)
}
