package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"opskit/pkg/config"
	"opskit/pkg/log"
	"opskit/pkg/models"
	"opskit/pkg/ticket"
)

func main() {
	summary := flag.String("summary", "", "Incident summary (required)")
	description := flag.String("description", "", "Incident description")
	priority := flag.String("priority", "Major", "Incident priority")
	flag.Parse()

	if *summary == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadTicket()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ticket configuration")
	}

	client := ticket.NewClient(cfg)
	key, err := client.Create(context.Background(), models.Incident{
		Summary:     *summary,
		Description: *description,
		Priority:    *priority,
		Reporter:    cfg.Username,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ticket")
	}

	fmt.Println(key)
}
