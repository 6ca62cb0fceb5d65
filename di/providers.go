package di

import (
	"slotbook/config"
	"slotbook/infras/kafka"
	"slotbook/infras/otel"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/internal/integrations/eventbus"
	"slotbook/internal/integrations/relay"
)

// provideNotifier mirrors every relay notification onto the event bus when Kafka is configured.
func provideNotifier(cfg *config.Config, ot otel.Otel, client kafka.Client) gateway.Notifier {
	return eventbus.New(cfg, relay.New(cfg, ot), client)
}

func provideCatalog(cfg *config.Config) *model.Catalog {
	return model.ParseCatalog(cfg.App.Services)
}
