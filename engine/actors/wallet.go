package actors

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	jsoniter "github.com/json-iterator/go"
	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/sasha-s/go-deadlock"

	"nostrevents/engine/library"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Wallet is what is stored in wallet.dat.
type Wallet struct {
	PrivateKey string `json:"private_key"`
	SeedWords  string `json:"seed_words,omitempty"`
	Account    string `json:"account"`
}

// Key decodes the wallet's private key.
func (w Wallet) Key() (*library.PrivateKey, error) {
	return library.PrivateKeyFromHex(w.PrivateKey)
}

var currentWallet Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the current Wallet, restoring it from rootDir or creating
// and saving a new one if there isn't one already.
func MyWallet() (Wallet, error) {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) > 0 {
		return currentWallet, nil
	}
	rootDir := MakeOrGetConfig().GetString("rootDir")
	if w, err := readWallet(rootDir); err == nil {
		currentWallet = w
		return currentWallet, nil
	} else if !os.IsNotExist(err) {
		return Wallet{}, err
	}
	library.LogCLI("Generating a new wallet, write down the seed words if you want to keep it", 4)
	w, err := makeNewWallet()
	if err != nil {
		return Wallet{}, err
	}
	if err := writeWallet(rootDir, w); err != nil {
		return Wallet{}, err
	}
	fmt.Printf("\n\n~NEW WALLET~\nPublic Key: %s\nSeed Words: %s\n\n", w.Account, w.SeedWords)
	currentWallet = w
	return currentWallet, nil
}

func makeNewWallet() (Wallet, error) {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		return Wallet{}, err
	}
	seed := nip06.SeedFromWords(seedWords)
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return Wallet{}, err
	}
	account, err := getPubKey(sk)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{
		PrivateKey: sk,
		SeedWords:  seedWords,
		Account:    account,
	}, nil
}

func getPubKey(privateKey string) (string, error) {
	keyb, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("decoding key from hex: %w", err)
	}
	_, pubkey := btcec.PrivKeyFromBytes(keyb)
	return hex.EncodeToString(schnorr.SerializePubKey(pubkey)), nil
}

func walletFile(rootDir string) string {
	return filepath.Join(rootDir, "wallet.dat")
}

func writeWallet(rootDir string, w Wallet) error {
	bytes, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return os.WriteFile(walletFile(rootDir), bytes, 0600)
}

func readWallet(rootDir string) (w Wallet, err error) {
	file, err := os.ReadFile(walletFile(rootDir))
	if err != nil {
		return w, err
	}
	if err = json.Unmarshal(file, &w); err != nil {
		return w, fmt.Errorf("parsing wallet file: %w", err)
	}
	if _, err = w.Key(); err != nil {
		return w, fmt.Errorf("wallet file: %w", err)
	}
	return w, nil
}
