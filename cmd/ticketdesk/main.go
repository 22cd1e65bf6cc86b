// Command ticketdesk serves the ticket desk REST API.
//
//	@title			Ticket Desk API
//	@version		1.0
//	@description	Support tickets and agents with group-scoped assignment.
//	@BasePath		/
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-ticket-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("ticketdesk")
		os.Exit(1)
	}
}
