// Package txo classifies tracked outputs into lifecycle states.
//
// Every output belongs to exactly one of five states. Classify is the
// single place where that decision is made, so the partition over an
// account's outputs can be checked directly with Totals.
package txo

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a tracked output.
type Status uint8

const (
	// StatusUnspent is received, unconsumed, at a tracked subaddress.
	StatusUnspent Status = iota
	// StatusPending has a consuming transaction that is not yet final.
	StatusPending
	// StatusSpent was consumed at a confirmed block index.
	StatusSpent
	// StatusSecreted left the account through one of its own transactions
	// and never came back to a tracked subaddress.
	StatusSecreted
	// StatusOrphaned was received at a subaddress the account does not track.
	StatusOrphaned

	numStatuses
)

// Statuses lists every state in declaration order.
var Statuses = [numStatuses]Status{
	StatusUnspent,
	StatusPending,
	StatusSpent,
	StatusSecreted,
	StatusOrphaned,
}

var statusNames = [numStatuses]string{
	StatusUnspent:  "unspent",
	StatusPending:  "pending",
	StatusSpent:    "spent",
	StatusSecreted: "secreted",
	StatusOrphaned: "orphaned",
}

// String returns the lowercase name used in logs and JSON.
func (s Status) String() string {
	if s < numStatuses {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// AccountScoped reports whether the state only exists at whole-account scope.
func (s Status) AccountScoped() bool {
	return s == StatusSecreted || s == StatusOrphaned
}

// ParseStatus converts a name back into a Status.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown txo status %q", name)
}

// MarshalJSON encodes the status as its name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
