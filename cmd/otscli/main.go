package main

import (
	"fmt"
	"os"
)

func usage() {
	fmt.Println(`usage: otscli <setup|gen|sign|verify|export> [options]

Subcommands:
  setup    Sample a hash family and write the public setup file
           Flags:
             -preset <name>     parameter preset (toy, toy-tss, lmots-256, tss-256)
             -params <file>     JSON or YAML parameter file (overrides -preset)
             -seed   <string>   derive the family deterministically from seed
             -out    <file>     output path (default: setup.json)

  gen      Generate a one-time key pair and store it under -id
           Flags:
             -setup <file>  -store <dir>  -id <name>  [-seed <string>]

  sign     Sign -m with the key stored under -id and write the raw signature
           Flags:
             -setup <file>  -store <dir>  -id <name>  -m <message>  -out <file>
           Signing twice with one identity prints a reuse warning.

  verify   Verify -sig over -m against the public key of -id
           Flags:
             -setup <file>  -store <dir>  -id <name>  -m <message>  -sig <file>

  export   Write {private,public}.json and .der for -id into -out

Every subcommand accepts -v for debug logging.`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	args := os.Args[2:]
	switch os.Args[1] {
	case "setup":
		runSetup(args)
	case "gen":
		runGen(args)
	case "sign":
		runSign(args)
	case "verify":
		runVerify(args)
	case "export":
		runExport(args)
	default:
		usage()
	}
}
