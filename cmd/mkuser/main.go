package main

import (
	"context"
	"errors"
	"os"

	"opskit/pkg/cmdrun"
	"opskit/pkg/log"
	"opskit/pkg/provision"
)

func main() {
	p := provision.New(cmdrun.ExecRunner{}, os.Stdin, os.Stdout)

	req, err := p.Prompt()
	if err != nil {
		log.Fatal().Err(err).Msg("Prompt failed")
	}

	if err := p.Create(context.Background(), req); err != nil {
		var exists provision.UserExistsError
		if errors.As(err, &exists) {
			log.Error().Str("username", exists.Username).Msg("User already exists, refusing to continue")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("User creation failed")
	}
}
