// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Denis Korchagin

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dkorchagin/vaultguard/internal/adapter"
	"github.com/dkorchagin/vaultguard/internal/client"
	"github.com/dkorchagin/vaultguard/internal/config"
	"github.com/dkorchagin/vaultguard/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("vaultguard-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	vault, err := client.New(serverAdapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create vault client")
	}

	if err = run(vault); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

// run drives a minimal line-based console over the vault client.
func run(vault *client.VaultClient) error {
	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	fmt.Println("commands: register | login | logout | recover | whoami | version | quit")

	for {
		fmt.Print("> ")
		if !in.Scan() {
			return in.Err()
		}

		switch strings.TrimSpace(in.Text()) {
		case "register":
			email, password := promptCredentials(in)
			grant, err := vault.Register(ctx, email, password)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("registered, user %d, vault unlocked\n", grant.UserID)

		case "login":
			email, password := promptCredentials(in)
			grant, err := vault.Login(ctx, email, password)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("logged in, user %d, vault unlocked\n", grant.UserID)

		case "logout":
			if err := vault.Logout(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("logged out, vault locked")

		case "recover":
			// rotation requires the recovered DEK, which the console gets
			// from the active session; a full recovery-phrase import flow
			// lives outside this demo client
			dek, err := vault.DEK()
			if err != nil {
				fmt.Println("error: recover needs an unlocked vault in this client:", err)
				continue
			}
			email, password := promptCredentials(in)
			grant, err := vault.Recover(ctx, email, password, dek)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("credentials rotated, user %d\n", grant.UserID)

		case "whoami":
			grant, active := vault.Session()
			if !active {
				fmt.Println("not logged in")
				continue
			}
			fmt.Printf("user %d, session expires %s\n", grant.UserID, grant.ExpiresAt)

		case "version":
			version, err := vault.ServerVersion(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("server version:", version)

		case "quit", "exit":
			return nil

		case "":
			// ignore blank lines

		default:
			fmt.Println("unknown command")
		}
	}
}

func promptCredentials(in *bufio.Scanner) (email, password string) {
	fmt.Print("email: ")
	if in.Scan() {
		email = strings.TrimSpace(in.Text())
	}
	fmt.Print("master password: ")
	if in.Scan() {
		password = in.Text()
	}
	return email, password
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
