package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// seedDate builds the fixed publication date of a seed record.
func seedDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SeedOffers returns the built-in demo listings: nine postings around
// Abidjan, three of them certified. IDs are fixed so the seed is stable
// across restarts.
func SeedOffers() []Offer {
	return []Offer{
		{
			ID:              "9",
			Title:           "TRAVAIL - Grande Entreprise de Cosmétique",
			Location:        "Abidjan",
			StoreName:       "Grande Entreprise de Cosmétique",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Jeunes filles et garçons pour des postes disponibles. Rien à payer. Possibilité logement. Transport et nourriture assurés.",
			Phone:           "+2250788615231",
			WhatsApp:        "+2250788615231",
			Certified:       false,
			PostedAt:        seedDate(2025, time.January, 20),
			Translations:    &Translations{Bambara: "baarakɛla", Baoule: "wɛnwɛn"},
		},
		{
			ID:              "1",
			Title:           "Servante",
			Location:        "Abidjan, Cocody",
			StoreName:       "Résidence Les Palmiers",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Femme expérimentée, ponctuelle, propre",
			Phone:           "+2250701234567",
			WhatsApp:        "+2250701234567",
			Certified:       true,
			PostedAt:        seedDate(2025, time.July, 20),
			Translations:    &Translations{Bambara: "barakela", Baoule: "wɛnwɛn"},
		},
		{
			ID:              "2",
			Title:           "Laveur de véhicules",
			Location:        "Abidjan, Plateau",
			StoreName:       "Station Total Plateau",
			Country:         "Côte d'Ivoire",
			WorkMode:        "2 fois par semaine",
			RequiredProfile: "Homme jeune, dynamique, disponible",
			Phone:           "+2250702345678",
			WhatsApp:        "+2250702345678",
			Certified:       false,
			PostedAt:        seedDate(2024, time.January, 14),
			Translations:    &Translations{Bambara: "mobilikɛla", Baoule: "mobilikɛla"},
		},
		{
			ID:              "3",
			Title:           "Serveuse dans maquis",
			Location:        "Abidjan, Yopougon",
			StoreName:       "Maquis Chez Fatou",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Femme souriante, bonne présentation",
			Phone:           "+2250703456789",
			WhatsApp:        "+2250703456789",
			Certified:       false,
			PostedAt:        seedDate(2024, time.January, 13),
			Translations:    &Translations{Bambara: "dumunikɛla", Baoule: "dumunikɛla"},
		},
		{
			ID:              "4",
			Title:           "Gérant de magasin",
			Location:        "Abidjan, Treichville",
			StoreName:       "Boutique Mode Africaine",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Personne responsable, expérience en vente",
			Phone:           "+2250704567890",
			WhatsApp:        "+2250704567890",
			Certified:       false,
			PostedAt:        seedDate(2024, time.January, 12),
			Translations:    &Translations{Bambara: "butikikɛla", Baoule: "butikikɛla"},
		},
		{
			ID:              "5",
			Title:           "Cuisinier",
			Location:        "Abidjan, Marcory",
			StoreName:       "Restaurant Le Gourmet",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Cuisinier expérimenté, spécialité africaine",
			Phone:           "+2250705678901",
			WhatsApp:        "+2250705678901",
			Certified:       true,
			PostedAt:        seedDate(2024, time.January, 11),
			Translations:    &Translations{Bambara: "dumunikɛla", Baoule: "dumunikɛla"},
		},
		{
			ID:              "6",
			Title:           "Gardien",
			Location:        "Abidjan, Riviera",
			StoreName:       "Résidence Riviera 2",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Homme sérieux, disponible 24h/24",
			Phone:           "+2250706789012",
			WhatsApp:        "+2250706789012",
			Certified:       false,
			PostedAt:        seedDate(2024, time.January, 10),
			Translations:    &Translations{Bambara: "sɔgɔsɔgɔkɛla", Baoule: "sɔgɔsɔgɔkɛla"},
		},
		{
			ID:              "7",
			Title:           "Femme de ménage",
			Location:        "Abidjan, Deux Plateaux",
			StoreName:       "Villa Résidentielle",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps partiel",
			RequiredProfile: "Femme propre, expérimentée en ménage",
			Phone:           "+2250707890123",
			WhatsApp:        "+2250707890123",
			Certified:       true,
			PostedAt:        seedDate(2024, time.January, 9),
			Translations:    &Translations{Bambara: "soɔkɛla", Baoule: "soɔkɛla"},
		},
		{
			ID:              "8",
			Title:           "Chauffeur",
			Location:        "Abidjan, Zone 4",
			StoreName:       "Entreprise de Transport",
			Country:         "Côte d'Ivoire",
			WorkMode:        "Temps plein",
			RequiredProfile: "Chauffeur expérimenté, permis B, ponctuel",
			Phone:           "+2250708901234",
			WhatsApp:        "+2250708901234",
			Certified:       false,
			PostedAt:        seedDate(2024, time.January, 8),
			Translations:    &Translations{Bambara: "mobilikɛla", Baoule: "mobilikɛla"},
		},
	}
}

// SeedIfEmpty inserts the built-in demo listings when (and only when) the
// store is empty. An existing dataset, however small, is never touched, so a
// user's own postings survive restarts.
func SeedIfEmpty(ctx context.Context, store Store) error {
	existing, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("job: seed: list: %w", err)
	}
	if len(existing) > 0 {
		slog.Debug("job store already populated, skipping seed", "count", len(existing))
		return nil
	}

	seeds := SeedOffers()
	for _, o := range seeds {
		if _, err := store.Add(ctx, o); err != nil {
			return fmt.Errorf("job: seed: add %q: %w", o.ID, err)
		}
	}
	slog.Info("seeded job store with demo listings", "count", len(seeds))
	return nil
}
