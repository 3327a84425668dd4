package compliance

import (
	"context"
	"log"
)

// PhraseSyncer pushes a jurisdiction's flagged phrases to an outside
// service, such as an entity recognizer that should highlight them.
// Failures are reported but never stop classification.
type PhraseSyncer interface {
	SyncPhrases(ctx context.Context, jurisdiction string, phrases []string) error
}

// LogSyncer only logs what would be pushed
type LogSyncer struct{}

// SyncPhrases implements PhraseSyncer
func (LogSyncer) SyncPhrases(_ context.Context, jurisdiction string, phrases []string) error {
	log.Printf("compliance: %d phrases for %s ready to sync", len(phrases), jurisdiction)
	return nil
}

// SyncJurisdiction pushes the jurisdiction's phrases through s and logs any
// failure. It never returns an error.
func SyncJurisdiction(ctx context.Context, s PhraseSyncer, book *RuleBook, jurisdiction string) {
	if s == nil {
		return
	}
	if err := s.SyncPhrases(ctx, jurisdiction, book.Phrases(jurisdiction)); err != nil {
		log.Printf("compliance: failed to sync phrases for %s: %v", jurisdiction, err)
	}
}
