package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/eiannone/keyboard"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"nostrevents/engine/actors"
	"nostrevents/engine/delegation"
	"nostrevents/engine/events"
	"nostrevents/engine/library"
	"nostrevents/engine/pow"
	"nostrevents/engine/tags"
	"nostrevents/engine/zaps"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func RootCommand(conf *viper.Viper) *cobra.Command {
	var nsec string
	rootCmd := &cobra.Command{
		Use:   "event-tool",
		Short: "build, sign, mine and inspect nostr events",
	}
	rootCmd.PersistentFlags().StringVar(&nsec, "nsec", "", "sign with this key (nsec or hex) instead of the wallet in rootDir")
	rootCmd.PersistentFlags().Int("loglevel", conf.GetInt("logLevel"), "0 fatal .. 5 trace")
	_ = conf.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("loglevel"))
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		library.SetLogLevel(conf.GetInt("logLevel"))
	}
	signingKey := func() (*library.PrivateKey, error) {
		if nsec != "" {
			if strings.HasPrefix(nsec, "nsec1") {
				return library.PrivateKeyFromNsec(nsec)
			}
			return library.PrivateKeyFromHex(nsec)
		}
		w, err := actors.MyWallet()
		if err != nil {
			return nil, err
		}
		return w.Key()
	}

	var content string
	var rawTags []string
	sign := &cobra.Command{
		Use:   "sign",
		Short: "sign a new event and print it as json",
		Long: "Tags are given as json arrays, for example --tag '[\"e\",\"<id>\",\"\",\"reply\"]'.\n" +
			"With --pow the event is mined first; press q to give up.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			list, err := parseTags(rawTags)
			if err != nil {
				return err
			}
			if client := conf.GetString("client"); client != "" {
				list = append(list, tags.Other{Tag: "client", Data: []string{client}})
			}
			pre := events.PreEvent{
				PubKey:    key.PublicKey(),
				CreatedAt: library.Now(),
				Kind:      library.Kind(conf.GetUint32("kind")),
				Tags:      list,
				Content:   content,
			}
			e, err := signOrMine(pre, key, uint8(conf.GetUint("powBits")))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	sign.Flags().StringVarP(&content, "content", "c", "", "event content")
	sign.Flags().StringArrayVarP(&rawTags, "tag", "t", nil, "a tag as a json array, may be repeated")
	sign.Flags().Uint32P("kind", "k", conf.GetUint32("kind"), "event kind")
	sign.Flags().Uint8P("pow", "p", uint8(conf.GetUint("powBits")), "leading zero bits to mine for")
	_ = conf.BindPFlag("kind", sign.Flags().Lookup("kind"))
	_ = conf.BindPFlag("powBits", sign.Flags().Lookup("pow"))
	rootCmd.AddCommand(sign)

	verify := &cobra.Command{
		Use:   "verify",
		Short: "read events as json from stdin, one per line, verify them and describe what they say",
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyAll(cmd.InOrStdin(), cmd.OutOrStdout(), actors.MaxFutureTime(conf))
		},
	}
	rootCmd.AddCommand(verify)

	var conditions, delegatee string
	delegate := &cobra.Command{
		Use:   "delegate",
		Short: "sign a delegation token and print the tag the delegatee should use",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			pk, err := parsePublicKey(delegatee)
			if err != nil {
				return err
			}
			tag, err := delegation.NewTag(key, pk, conditions)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), tag.Strings())
		},
	}
	delegate.Flags().StringVar(&delegatee, "delegatee", "", "npub or hex pubkey of the delegatee")
	delegate.Flags().StringVar(&conditions, "conditions", "", "for example kind=1&created_at>1680000000")
	rootCmd.AddCommand(delegate)

	var to, message string
	dm := &cobra.Command{
		Use:   "dm",
		Short: "sign an encrypted direct message",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			pk, err := parsePublicKey(to)
			if err != nil {
				return err
			}
			pre, err := events.NewNIP04(key, pk, message)
			if err != nil {
				return err
			}
			e, err := events.New(pre, key)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	dm.Flags().StringVar(&to, "to", "", "npub or hex pubkey of the recipient")
	dm.Flags().StringVarP(&message, "message", "m", "", "plain text message")
	rootCmd.AddCommand(dm)

	var zapped, address string
	var msats uint64
	var relays []string
	zap := &cobra.Command{
		Use:   "zap-request",
		Short: "sign a zap request for a person or an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			r := zaps.Request{Amount: library.MilliSatoshi(msats), Content: content, LightningAddress: address}
			if r.Recipient, err = parsePublicKey(to); err != nil {
				return err
			}
			if zapped != "" {
				id, err := library.IdFromHex(zapped)
				if err != nil {
					return err
				}
				r.Zapped = &id
			}
			if len(relays) == 0 {
				relays = conf.GetStringSlice("relays")
			}
			for _, u := range relays {
				relay, err := library.ParseRelayURL(library.UncheckedURL(u))
				if err != nil {
					return err
				}
				r.Relays = append(r.Relays, relay)
			}
			e, err := zaps.NewRequest(key, r)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	zap.Flags().StringVar(&to, "to", "", "npub or hex pubkey of the recipient")
	zap.Flags().StringVar(&zapped, "event", "", "hex id of the zapped event")
	zap.Flags().StringVar(&address, "lud16", "", "lightning address of the recipient")
	zap.Flags().Uint64Var(&msats, "msats", 1000, "amount in millisatoshi")
	zap.Flags().StringArrayVar(&relays, "relay", nil, "relay for the receipt, may be repeated")
	zap.Flags().StringVarP(&content, "content", "c", "", "zap comment")
	rootCmd.AddCommand(zap)

	var profile events.Profile
	setMetadata := &cobra.Command{
		Use:   "set-metadata",
		Short: "sign a kind 0 profile event",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			if profile.Lud16 != "" {
				if _, ok := profile.LightningAddress(); !ok {
					return fmt.Errorf("%q is not a lightning address", profile.Lud16)
				}
			}
			pre, err := events.NewSetMetadata(key.PublicKey(), profile)
			if err != nil {
				return err
			}
			e, err := events.New(pre, key)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	setMetadata.Flags().StringVar(&profile.Name, "name", "", "")
	setMetadata.Flags().StringVar(&profile.DisplayName, "display-name", "", "")
	setMetadata.Flags().StringVar(&profile.About, "about", "", "")
	setMetadata.Flags().StringVar(&profile.Picture, "picture", "", "")
	setMetadata.Flags().StringVar(&profile.Nip05, "nip05", "", "")
	setMetadata.Flags().StringVar(&profile.Lud16, "lud16", "", "lightning address")
	rootCmd.AddCommand(setMetadata)

	var reason string
	deleteCmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "sign a deletion request for events you published",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			ids := make([]library.Id, 0, len(args))
			for _, a := range args {
				id, err := library.IdFromHex(a)
				if err != nil {
					return fmt.Errorf("%s: %w", a, err)
				}
				ids = append(ids, id)
			}
			e, err := events.New(events.NewDeletion(key.PublicKey(), reason, ids...), key)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	deleteCmd.Flags().StringVar(&reason, "reason", "", "why the events are deleted")
	rootCmd.AddCommand(deleteCmd)

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "print the signing key's public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := signingKey()
			if err != nil {
				return err
			}
			npub, err := key.PublicKey().Npub()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", key.PublicKey().Hex(), npub)
			return nil
		},
	}
	rootCmd.AddCommand(whoami)

	return rootCmd
}

func parseTags(raw []string) ([]tags.Tag, error) {
	list := make([]tags.Tag, 0, len(raw))
	for _, r := range raw {
		var fields []string
		if err := json.Unmarshal([]byte(r), &fields); err != nil {
			return nil, fmt.Errorf("tag %s: %w", r, err)
		}
		list = append(list, tags.Parse(fields))
	}
	return list, nil
}

func parsePublicKey(s string) (library.PublicKey, error) {
	if strings.HasPrefix(s, "npub1") {
		return library.PublicKeyFromNpub(s)
	}
	return library.PublicKeyFromHex(s)
}

func signOrMine(pre events.PreEvent, key *library.PrivateKey, bits uint8) (*events.Event, error) {
	if bits == 0 {
		return events.New(pre, key)
	}
	progress := make(chan uint8, 8)
	done := make(chan struct{})
	defer close(done)
	if keys, err := keyboard.GetKeys(10); err != nil {
		library.LogCLI(fmt.Sprintf("q to quit is unavailable: %s", err), 3)
	} else {
		// the terminal stays in raw mode until Close
		defer keyboard.Close()
		go listenForQuit(keys, done)
	}
	go func() {
		for {
			select {
			case work := <-progress:
				library.LogCLI(fmt.Sprintf("best work so far: %d of %d bits", work, bits), 4)
			case <-done:
				return
			}
		}
	}()
	return pow.Miner{Workers: 0}.Mine(pre, key, bits, progress)
}

// listenForQuit is the only way out of a long search.
func listenForQuit(keys <-chan keyboard.KeyEvent, done <-chan struct{}) {
	for {
		select {
		case ev, ok := <-keys:
			if !ok {
				return
			}
			if ev.Err != nil {
				library.LogCLI(ev.Err.Error(), 2)
				return
			}
			if ev.Rune == 'q' {
				library.LogCLI("mining abandoned", 4)
				_ = keyboard.Close()
				os.Exit(1)
			}
		case <-done:
			return
		}
	}
}

func verifyAll(in io.Reader, out io.Writer, maxTime *library.Unixtime) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var failed bool
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := events.ParseJSON([]byte(line))
		if err != nil {
			library.LogCLI(err, 2)
			failed = true
			continue
		}
		if err := e.Verify(maxTime); err != nil {
			fmt.Fprintf(out, "%s INVALID: %s\n", e.ID, err)
			failed = true
			continue
		}
		describe(out, e)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if failed {
		return errors.New("some events failed verification")
	}
	return nil
}

func describe(out io.Writer, e *events.Event) {
	fmt.Fprintf(out, "%s OK kind %s by %s pow %d\n", e.ID, e.Kind, e.PubKey, e.Pow())
	if r, ok := e.RepliesTo(); ok {
		fmt.Fprintf(out, "  replies to %s\n", r.ID)
	}
	if r, ok := e.RepliesToRoot(); ok {
		fmt.Fprintf(out, "  thread root %s\n", r.ID)
	}
	for _, m := range e.Mentions() {
		fmt.Fprintf(out, "  mentions %s\n", m.ID)
	}
	for _, p := range e.People() {
		fmt.Fprintf(out, "  tags person %s\n", p.Pubkey)
	}
	if r, ok := e.ReactsTo(); ok {
		fmt.Fprintf(out, "  reacts %q to %s\n", r.Content, r.ID)
	}
	if d, ok := e.Deletes(); ok {
		fmt.Fprintf(out, "  deletes %v reason %q\n", d.IDs, d.Reason)
	}
	if c, ok := e.Client(); ok {
		fmt.Fprintf(out, "  client %s\n", c)
	}
	if s, ok := e.Subject(); ok {
		fmt.Fprintf(out, "  subject %q\n", s)
	}
	if w, ok := e.ContentWarning(); ok {
		fmt.Fprintf(out, "  content warning %q\n", w)
	}
	if p, ok := e.Parameter(); ok {
		fmt.Fprintf(out, "  parameter %q\n", p)
	}
	if x, ok := e.Expiration(); ok {
		fmt.Fprintf(out, "  expires %s\n", x.Time().UTC())
	}
	if h := e.Hashtags(); len(h) > 0 {
		fmt.Fprintf(out, "  hashtags %v\n", h)
	}
	if u := e.URLs(); len(u) > 0 {
		fmt.Fprintf(out, "  urls %v\n", u)
	}
	switch d := delegation.Verify(e); d.Status {
	case delegation.DelegatedBy:
		fmt.Fprintf(out, "  delegated by %s\n", d.Delegator)
	case delegation.Invalid:
		fmt.Fprintf(out, "  invalid delegation: %s\n", d.Reason)
	}
	z, err := zaps.FromEvent(e, zaps.DecodePay{})
	if err != nil {
		fmt.Fprintf(out, "  bad zap receipt: %s\n", err)
	} else if z != nil {
		fmt.Fprintf(out, "  zaps %s for %d msat paid to %s\n", z.ID, z.Amount, z.Pubkey)
	}
}

// printJSON writes events with their own marshaller so that the bytes are not
// re-escaped.
func printJSON(out io.Writer, v interface{}) error {
	var b []byte
	var err error
	if e, ok := v.(*events.Event); ok {
		b, err = e.MarshalJSON()
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
