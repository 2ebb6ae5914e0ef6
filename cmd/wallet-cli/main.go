// wallet-cli is a command-line client for a running walletd.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Klingon-tech/klingnet-wallet/internal/rpc"
	"github.com/Klingon-tech/klingnet-wallet/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-wallet/internal/wallet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	rpcURL := ""
	network := "mainnet"

	// Scan for --rpc and --network before the subcommand.
	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	if rpcURL == "" {
		rpcURL = defaultRPCURL(network)
	}

	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "network":
		cmdNetwork(client)
	case "balance":
		cmdBalance(client, cmdArgs)
	case "balance-address":
		cmdBalanceAddress(client, cmdArgs)
	case "accounts":
		cmdAccounts(client)
	case "view-only-accounts":
		cmdViewOnlyAccounts(client)
	case "addresses":
		cmdAddresses(client, cmdArgs)
	case "new-address":
		cmdNewAddress(client, cmdArgs)
	case "txos":
		cmdTxos(client, cmdArgs)
	case "import":
		cmdImport(client, cmdArgs)
	case "remove":
		cmdRemove(client, cmdArgs)
	case "export-secrets":
		cmdExportSecrets(client, cmdArgs)
	case "mnemonic":
		cmdMnemonic()
	case "version":
		cmdVersion(client)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: wallet-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:9090/wallet)
  --network <net>     mainnet (default) or testnet

Commands:
  status                          Wallet-wide sync and totals
  network                         Ledger heights, fee and block version
  balance <account_id> [--depth]  Balance of an account
  balance-address <address>       Balance of one subaddress
  accounts                        List spend-capable accounts
  view-only-accounts              List view-only accounts
  addresses <account_id>          List assigned subaddresses
  new-address <account_id>        Assign the next subaddress [--metadata]
  txos <account_id>               List outputs [--status --depth --offset --limit]
  import                          Import an account from a mnemonic [--name --first-block --index]
  remove <account_id>             Remove a spend-capable account [--view-only]
  export-secrets <account_id>     Print the account's seed (prompts for password)
  mnemonic                        Generate a new 24-word mnemonic (offline)
  version                         Daemon version
`)
}

// defaultRPCURL follows walletd's per-network default port.
func defaultRPCURL(network string) string {
	if network == "testnet" {
		return "http://127.0.0.1:9190/wallet"
	}
	return "http://127.0.0.1:9090/wallet"
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	var res rpc.WalletStatusResponse
	if err := client.Call("get_wallet_status", nil, &res); err != nil {
		fatal("get_wallet_status: %v", err)
	}
	s := res.WalletStatus

	fmt.Printf("Network height: %s\n", s.NetworkBlockHeight)
	fmt.Printf("Local height:   %s\n", s.LocalBlockHeight)
	fmt.Printf("Min synced:     %s\n", s.MinSyncedBlockIndex)
	fmt.Printf("Synced:         %v\n", s.IsSyncedAll)
	fmt.Printf("Accounts:       %d (%d view-only)\n", len(s.AccountIDs), len(s.ViewOnlyAccountIDs))
	fmt.Printf("Unspent:        %s MOB\n", formatMOB(s.TotalUnspentPmob))
	fmt.Printf("Pending:        %s MOB\n", formatMOB(s.TotalPendingPmob))
	fmt.Printf("Spent:          %s MOB\n", formatMOB(s.TotalSpentPmob))
	fmt.Printf("Secreted:       %s MOB\n", formatMOB(s.TotalSecretedPmob))
	fmt.Printf("Orphaned:       %s MOB\n", formatMOB(s.TotalOrphanedPmob))
}

func cmdNetwork(client *rpcclient.Client) {
	var res rpc.NetworkStatusResponse
	if err := client.Call("get_network_status", nil, &res); err != nil {
		fatal("get_network_status: %v", err)
	}
	s := res.NetworkStatus

	fmt.Printf("Network height: %s\n", s.NetworkBlockHeight)
	fmt.Printf("Local height:   %s\n", s.LocalBlockHeight)
	fmt.Printf("Fee:            %s MOB\n", formatMOB(s.FeePmob))
	fmt.Printf("Block version:  %s\n", s.BlockVersion)
}

func cmdVersion(client *rpcclient.Client) {
	var res rpc.VersionResponse
	if err := client.Call("version", nil, &res); err != nil {
		fatal("version: %v", err)
	}
	fmt.Println(res.String)
}

// ── balance ─────────────────────────────────────────────────────────────

func cmdBalance(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	depth := fs.String("depth", "", "Confirmation depth (default: daemon setting)")
	id, rest := splitPositional(args)
	fs.Parse(rest)
	if id == "" {
		fatal("Usage: wallet-cli balance <account_id> [--depth N]")
	}

	var res rpc.BalanceResponse
	if err := client.Call("get_balance_for_account", rpc.AccountParam{AccountID: id, Depth: *depth}, &res); err != nil {
		fatal("get_balance_for_account: %v", err)
	}
	printBalance(res.Balance)
}

func cmdBalanceAddress(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("balance-address", flag.ExitOnError)
	depth := fs.String("depth", "", "Confirmation depth (default: daemon setting)")
	addr, rest := splitPositional(args)
	fs.Parse(rest)
	if addr == "" {
		fatal("Usage: wallet-cli balance-address <address> [--depth N]")
	}

	var res rpc.BalanceResponse
	if err := client.Call("get_balance_for_address", rpc.AddressParam{Address: addr, Depth: *depth}, &res); err != nil {
		fatal("get_balance_for_address: %v", err)
	}
	printBalance(res.Balance)
}

func printBalance(b *rpc.BalanceResult) {
	fmt.Printf("Unspent:       %s MOB\n", formatMOB(b.UnspentPmob))
	fmt.Printf("Max spendable: %s MOB\n", formatMOB(b.MaxSpendablePmob))
	fmt.Printf("Pending:       %s MOB\n", formatMOB(b.PendingPmob))
	fmt.Printf("Spent:         %s MOB\n", formatMOB(b.SpentPmob))
	fmt.Printf("Secreted:      %s MOB\n", formatMOB(b.SecretedPmob))
	fmt.Printf("Orphaned:      %s MOB\n", formatMOB(b.OrphanedPmob))
	fmt.Printf("Synced:        %s/%s", b.AccountBlockHeight, b.NetworkBlockHeight)
	if !b.IsSynced {
		fmt.Print(" (syncing)")
	}
	fmt.Println()
}

// ── accounts ────────────────────────────────────────────────────────────

func cmdAccounts(client *rpcclient.Client) {
	var res rpc.AccountsResponse
	if err := client.Call("get_all_accounts", nil, &res); err != nil {
		fatal("get_all_accounts: %v", err)
	}
	if len(res.AccountIDs) == 0 {
		fmt.Println("No accounts.")
		return
	}
	for _, id := range res.AccountIDs {
		a := res.AccountMap[id]
		fmt.Printf("%s  %-16s next block %s\n", id, a.Name, a.NextBlockIndex)
	}
}

func cmdViewOnlyAccounts(client *rpcclient.Client) {
	var res rpc.ViewOnlyAccountsResponse
	if err := client.Call("get_all_view_only_accounts", nil, &res); err != nil {
		fatal("get_all_view_only_accounts: %v", err)
	}
	if len(res.AccountIDs) == 0 {
		fmt.Println("No view-only accounts.")
		return
	}
	for _, id := range res.AccountIDs {
		a := res.AccountMap[id]
		fmt.Printf("%s  %-16s next block %s\n", id, a.Name, a.NextBlockIndex)
	}
}

func cmdAddresses(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: wallet-cli addresses <account_id>")
	}
	var res rpc.AddressesResponse
	if err := client.Call("get_addresses_for_account", rpc.PageParam{AccountID: args[0]}, &res); err != nil {
		fatal("get_addresses_for_account: %v", err)
	}
	for _, addr := range res.PublicAddresses {
		a := res.AddressMap[addr]
		fmt.Printf("%6s  %s  %s\n", a.SubaddressIndex, addr, a.Metadata)
	}
}

func cmdNewAddress(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("new-address", flag.ExitOnError)
	metadata := fs.String("metadata", "", "Free-form label stored with the address")
	id, rest := splitPositional(args)
	fs.Parse(rest)
	if id == "" {
		fatal("Usage: wallet-cli new-address <account_id> [--metadata TEXT]")
	}

	var res rpc.AddressResponse
	if err := client.Call("assign_address_for_account", rpc.AssignAddressParam{AccountID: id, Metadata: *metadata}, &res); err != nil {
		fatal("assign_address_for_account: %v", err)
	}
	fmt.Printf("Index:   %s\n", res.Address.SubaddressIndex)
	fmt.Printf("Address: %s\n", res.Address.PublicAddressB58)
}

func cmdTxos(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("txos", flag.ExitOnError)
	status := fs.String("status", "", "Only list outputs in this state")
	depth := fs.String("depth", "", "Confirmation depth")
	offset := fs.String("offset", "", "Skip this many outputs")
	limit := fs.String("limit", "", "Return at most this many outputs")
	id, rest := splitPositional(args)
	fs.Parse(rest)
	if id == "" {
		fatal("Usage: wallet-cli txos <account_id> [--status S --depth N --offset N --limit N]")
	}

	var res rpc.TxosResponse
	if err := client.Call("get_txos_for_account", rpc.PageParam{
		AccountID: id,
		Status:    *status,
		Depth:     *depth,
		Offset:    *offset,
		Limit:     *limit,
	}, &res); err != nil {
		fatal("get_txos_for_account: %v", err)
	}
	for _, txoID := range res.TxoIDs {
		o := res.TxoMap[txoID]
		fmt.Printf("%s  %-8s %s MOB\n", txoID, o.Status, formatMOB(o.ValuePmob))
	}
}

func cmdImport(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	name := fs.String("name", "", "Account name")
	firstBlock := fs.Uint64("first-block", 0, "First block to scan")
	index := fs.Uint("index", 0, "BIP-44 account index")
	fs.Parse(args)

	mnemonic, err := readPassword("Enter mnemonic: ")
	if err != nil {
		fatal("read mnemonic: %v", err)
	}
	phrase := strings.Join(strings.Fields(string(mnemonic)), " ")
	if !wallet.ValidateMnemonic(phrase) {
		fatal("invalid mnemonic")
	}

	password, err := readPassword("Enter password (empty to keep no seed): ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if len(password) > 0 {
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			fatal("read password: %v", err)
		}
		if string(password) != string(confirm) {
			fatal("passwords do not match")
		}
	}

	var res rpc.AccountResponse
	if err := client.Call("import_account", rpc.ImportAccountParam{
		Mnemonic:        phrase,
		Password:        string(password),
		Name:            *name,
		AccountIndex:    strconv.FormatUint(uint64(*index), 10),
		FirstBlockIndex: strconv.FormatUint(*firstBlock, 10),
	}, &res); err != nil {
		fatal("import_account: %v", err)
	}

	fmt.Printf("Account imported: %s\n", res.Account.AccountID)
	if res.Account.Name != "" {
		fmt.Printf("Name:             %s\n", res.Account.Name)
	}
	fmt.Printf("Scanning from:    %s\n", res.Account.FirstBlockIndex)
}

func cmdRemove(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	viewOnly := fs.Bool("view-only", false, "Remove a view-only account")
	id, rest := splitPositional(args)
	fs.Parse(rest)
	if id == "" {
		fatal("Usage: wallet-cli remove <account_id> [--view-only]")
	}

	method := "remove_account"
	if *viewOnly {
		method = "remove_view_only_account"
	}
	var res rpc.RemovedResponse
	if err := client.Call(method, rpc.AccountParam{AccountID: id}, &res); err != nil {
		fatal("%s: %v", method, err)
	}
	fmt.Printf("Removed: %v\n", res.Removed)
}

func cmdExportSecrets(client *rpcclient.Client, args []string) {
	id, _ := splitPositional(args)
	if id == "" {
		fatal("Usage: wallet-cli export-secrets <account_id>")
	}
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	var res rpc.AccountSecretsResponse
	if err := client.Call("export_account_secrets", rpc.ExportSecretsParam{
		AccountID: id,
		Password:  string(password),
	}, &res); err != nil {
		fatal("export_account_secrets: %v", err)
	}
	fmt.Printf("Account:    %s\n", res.AccountSecrets.AccountID)
	fmt.Printf("Seed:       %s\n", res.AccountSecrets.Seed)
	fmt.Printf("Spend xpub: %s\n", res.AccountSecrets.SpendXPub)
}

func cmdMnemonic() {
	m, err := wallet.NewMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}
	fmt.Println(m)
}

// splitPositional pulls a leading positional argument off args so flags
// may follow it.
func splitPositional(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
