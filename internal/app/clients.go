package app

import (
	"github.com/sableworks/vaultbreak-backend/internal/clients/ai"
	"github.com/sableworks/vaultbreak-backend/internal/clients/redisx"
	"github.com/sableworks/vaultbreak-backend/internal/clients/zk"
	"github.com/sableworks/vaultbreak-backend/internal/logger"
)

type Clients struct {
	ZK    zk.Client
	AI    ai.Client
	Cache *redisx.Cache
}

func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")
	return Clients{
		ZK:    zk.NewClient(log),
		AI:    ai.NewClient(log),
		Cache: redisx.New(log),
	}
}
