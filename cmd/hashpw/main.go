// Command hashpw читает пароль с терминала без эха и печатает его
// bcrypt хеш. Утилита для ручного заведения учетных записей и тестов.
package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/nvoronin/passport/internal/crypto"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hashpw: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	hash, err := crypto.HashPassword(string(password))
	if err != nil {
		return err
	}

	fmt.Println(hash)
	return nil
}
