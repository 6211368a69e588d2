package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ringOTS-Signature/config"
	"ringOTS-Signature/keys"
	"ringOTS-Signature/keystore"
	"ringOTS-Signature/random"
	"ringOTS-Signature/signverify"
)

func newLogger(verbose bool) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return l
}

func source(seed string) random.Source {
	if seed == "" {
		return random.System()
	}
	rng, err := random.NewSeeded([]byte(seed))
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	return rng
}

func loadEngine(path string, logger *zap.Logger, rng random.Source) *signverify.Engine {
	ps, setup, err := config.LoadSetup(path)
	if err != nil {
		log.Fatalf("load setup %s: %v", path, err)
	}
	e, err := signverify.New(setup, signverify.WithLogger(logger), signverify.WithRandom(rng))
	if err != nil {
		log.Fatalf("engine for %s: %v", ps.Name, err)
	}
	return e
}

func openStore(dir string) *keystore.Store {
	st, err := keystore.Open(dir)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	return st
}

func needFlag(name, v string) {
	if v == "" {
		log.Fatalf("missing -%s", name)
	}
}

func runSetup(args []string) {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	preset := fs.String("preset", "toy", "parameter preset")
	paramsPath := fs.String("params", "", "JSON or YAML parameter file")
	seed := fs.String("seed", "", "deterministic family seed")
	out := fs.String("out", "setup.json", "output setup file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	logger := newLogger(*verbose)
	defer logger.Sync()

	var (
		ps  config.ParameterSet
		err error
	)
	if *paramsPath != "" {
		ps, err = config.LoadParams(*paramsPath)
	} else {
		ps, err = config.Lookup(*preset)
	}
	if err != nil {
		log.Fatalf("parameters: %v", err)
	}
	setup, err := ps.NewSetup(source(*seed))
	if err != nil {
		log.Fatalf("setup: %v", err)
	}
	if err := config.SaveSetup(*out, ps, setup); err != nil {
		log.Fatalf("save setup: %v", err)
	}
	logger.Info("setup written",
		zap.String("path", *out),
		zap.String("params", ps.Name),
		zap.Stringer("ring", setup.Ring),
		zap.Bool("ntt", setup.Family.Accelerated()))
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	setupPath := fs.String("setup", "setup.json", "setup file")
	storeDir := fs.String("store", "ots_keys", "key store directory")
	id := fs.String("id", "", "identity to store the key pair under")
	seed := fs.String("seed", "", "deterministic keygen seed")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	needFlag("id", *id)
	logger := newLogger(*verbose)
	defer logger.Sync()

	e := loadEngine(*setupPath, logger, source(*seed))
	kp, err := e.GenerateKey()
	if err != nil {
		log.Fatalf("keygen: %v", err)
	}
	st := openStore(*storeDir)
	defer st.Close()
	if err := st.Put(*id, kp); err != nil {
		log.Fatalf("store: %v", err)
	}
	fmt.Printf("generated %s key pair for %q\n", kp.Scheme(), *id)
}

func runSign(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	setupPath := fs.String("setup", "setup.json", "setup file")
	storeDir := fs.String("store", "ots_keys", "key store directory")
	id := fs.String("id", "", "signing identity")
	msg := fs.String("m", "", "message string")
	out := fs.String("out", "signature.bin", "signature output file")
	timeout := fs.Duration("timeout", time.Minute, "signing deadline")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	needFlag("id", *id)
	logger := newLogger(*verbose)
	defer logger.Sync()

	e := loadEngine(*setupPath, logger, random.System())
	st := openStore(*storeDir)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	res, err := signStored(ctx, e, st, *id, []byte(*msg), logger)
	cancel()
	if cerr := st.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close store: %w", cerr)
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, res.Signature, 0o644); err != nil {
		log.Fatalf("write signature: %v", err)
	}
	fmt.Printf("signature: %s (%d bytes, attempts=%d)\n", *out, len(res.Signature), res.Attempts)
}

// signStored signs msg with the key stored under id. The use counter only
// advances once a signature exists, so a failed attempt may be retried.
func signStored(ctx context.Context, e *signverify.Engine, st *keystore.Store, id string, msg []byte, logger *zap.Logger) (signverify.SignResult, error) {
	entry, err := st.Get(id)
	if err != nil {
		return signverify.SignResult{}, fmt.Errorf("load key: %w", err)
	}
	if entry.Uses > 0 {
		logger.Warn("one-time key reused; signatures under this key are forgeable",
			zap.String("id", id), zap.Int("uses", entry.Uses+1))
	}
	res, err := e.SignDetailed(ctx, entry.Pair.Private, msg)
	if err != nil {
		return signverify.SignResult{}, fmt.Errorf("sign: %w", err)
	}
	if _, err := st.MarkUsed(id); err != nil {
		return signverify.SignResult{}, fmt.Errorf("mark used: %w", err)
	}
	return res, nil
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	setupPath := fs.String("setup", "setup.json", "setup file")
	storeDir := fs.String("store", "ots_keys", "key store directory")
	id := fs.String("id", "", "signer identity")
	msg := fs.String("m", "", "message string")
	sigPath := fs.String("sig", "signature.bin", "signature file")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)
	needFlag("id", *id)
	logger := newLogger(*verbose)
	defer logger.Sync()

	e := loadEngine(*setupPath, logger, random.System())
	st := openStore(*storeDir)
	defer st.Close()
	entry, err := st.Get(*id)
	if err != nil {
		log.Fatalf("load key: %v", err)
	}
	sig, err := os.ReadFile(*sigPath)
	if err != nil {
		log.Fatalf("read signature: %v", err)
	}
	if err := e.Verify(entry.Pair.Public, []byte(*msg), sig); err != nil {
		log.Fatalf("verify failed: %v", err)
	}
	fmt.Println("signature verified")
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	storeDir := fs.String("store", "ots_keys", "key store directory")
	id := fs.String("id", "", "identity to export")
	out := fs.String("out", "export", "output directory")
	fs.Parse(args)
	needFlag("id", *id)

	st := openStore(*storeDir)
	defer st.Close()
	entry, err := st.Get(*id)
	if err != nil {
		log.Fatalf("load key: %v", err)
	}
	if err := keys.SavePrivate(*out, entry.Pair.Private); err != nil {
		log.Fatalf("export private json: %v", err)
	}
	if err := keys.SavePublic(*out, entry.Pair.Public); err != nil {
		log.Fatalf("export public json: %v", err)
	}
	skDER, err := keys.MarshalPrivateKeyDER(entry.Pair.Private)
	if err != nil {
		log.Fatalf("private der: %v", err)
	}
	pkDER, err := keys.MarshalPublicKeyDER(entry.Pair.Public)
	if err != nil {
		log.Fatalf("public der: %v", err)
	}
	if err := os.WriteFile(filepath.Join(*out, "private.der"), skDER, 0o600); err != nil {
		log.Fatalf("write private der: %v", err)
	}
	if err := os.WriteFile(filepath.Join(*out, "public.der"), pkDER, 0o644); err != nil {
		log.Fatalf("write public der: %v", err)
	}
	fmt.Printf("exported %q (%s, used %d times) to %s\n", *id, entry.Pair.Scheme(), entry.Uses, *out)
}
