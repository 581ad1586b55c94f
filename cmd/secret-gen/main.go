package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"aeobro.backend/pkg/utils"
)

const minSecretBytes = 32

func validateInputs(nBytes int) error {
	if nBytes < minSecretBytes {
		return fmt.Errorf("invalid bytes: %d (minimum %d)", nBytes, minSecretBytes)
	}
	return nil
}

// buildEnv returns the .env lines for a fresh signing secret
func buildEnv(nBytes int) (string, error) {
	secret, err := utils.RandomHex(nBytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return "JWT_SECRET=" + secret + "\n", nil
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("secret-gen", flag.ContinueOnError)
	nBytes := fs.Int("bytes", 48, "random bytes in the secret")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := validateInputs(*nBytes); err != nil {
		return err
	}

	env, err := buildEnv(*nBytes)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "Generated signing secret")
	_, _ = fmt.Fprint(out, env)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
