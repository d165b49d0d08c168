package configs

import (
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/rs/zerolog/log"
)

func midtransEnvironment(env ENV) midtrans.EnvironmentType {
	if env.MidtransProduction {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// NewMidtransClients returns nil clients when no server key is configured.
func NewMidtransClients(env ENV) (*snap.Client, *coreapi.Client) {
	if env.MidtransServerKey == "" {
		log.Info().Msg("midtrans disabled: MIDTRANS_SERVER_KEY not set")
		return nil, nil
	}

	var snapClient snap.Client
	snapClient.New(env.MidtransServerKey, midtransEnvironment(env))

	var coreClient coreapi.Client
	coreClient.New(env.MidtransServerKey, midtransEnvironment(env))

	midtrans.ClientKey = env.MidtransClientKey
	log.Info().Bool("production", env.MidtransProduction).Msg("midtrans snap and core api clients initialized")
	return &snapClient, &coreClient
}
