// Command hashpw prints a bcrypt hash to use as ADMIN_PASSWORD. The secret
// is read from the first argument, or from the first line of stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/PGMA10/rrak-website/internal/auth"
)

func main() {
	secret, err := readSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("read secret")
	}
	if secret == "" {
		log.Fatal().Msg("usage: hashpw <secret>  (or pipe it on stdin)")
	}
	hash, err := auth.HashSecret(secret)
	if err != nil {
		log.Fatal().Err(err).Msg("hash secret")
	}
	fmt.Println(hash)
}

func readSecret() (string, error) {
	if len(os.Args) > 1 {
		return os.Args[1], nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
