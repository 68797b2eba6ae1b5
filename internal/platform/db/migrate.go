package db

import (
	contestpg "encore/contexts/contest-operations/contest-service/adapters/postgres"
	trackpg "encore/contexts/contest-operations/track-service/adapters/postgres"
	votepg "encore/contexts/contest-operations/vote-ledger/adapters/postgres"
	paymentpg "encore/contexts/finance-core/payment-verifier/adapters/postgres"
	moderationpg "encore/contexts/moderation-safety/moderation-service/adapters/postgres"
)

// Migrate creates or updates every module's tables.
func (p *Postgres) Migrate() error {
	models := make([]any, 0)
	models = append(models, contestpg.Models()...)
	models = append(models, trackpg.Models()...)
	models = append(models, trackpg.DedupModels()...)
	models = append(models, votepg.Models()...)
	models = append(models, paymentpg.Models()...)
	models = append(models, moderationpg.Models()...)
	return p.DB.AutoMigrate(models...)
}
