package mongodb

import (
	"fmt"
	"time"

	"github.com/teamdash/teamdash/shared/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GciRankings returns rankings newest year first, best rank first within a
// year. A zero year returns every year.
func (s *Storage) GciRankings(year int) ([]domain.GciRanking, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	filter := bson.M{"type": domain.IndexGciRanking}
	if year != 0 {
		filter["year"] = year
	}
	return findAll[domain.GciRanking](ctx, s.coll(globalIndexCollection), filter,
		options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "rank", Value: 1}}))
}

// RiskyCountries returns alerts raised at or after since, newest first. A zero
// since returns every alert.
func (s *Storage) RiskyCountries(since time.Time) ([]domain.RiskyCountry, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	filter := bson.M{"type": domain.IndexRiskyCountry}
	if !since.IsZero() {
		filter["timestamp"] = bson.M{"$gte": since}
	}
	return findAll[domain.RiskyCountry](ctx, s.coll(globalIndexCollection), filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
}

// ReplaceGlobalIndex drops the whole index and writes the given documents.
func (s *Storage) ReplaceGlobalIndex(rankings []domain.GciRanking, countries []domain.RiskyCountry) (int, error) {
	if err := s.clearGlobalIndex(); err != nil {
		return 0, err
	}

	for i := range rankings {
		rankings[i].Type = domain.IndexGciRanking
	}
	for i := range countries {
		countries[i].Type = domain.IndexRiskyCountry
	}
	n, err := insertMany(s, globalIndexCollection, rankings)
	if err != nil {
		return n, err
	}
	m, err := insertMany(s, globalIndexCollection, countries)
	return n + m, err
}

func (s *Storage) clearGlobalIndex() error {
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.coll(globalIndexCollection).DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear %s: %w", globalIndexCollection, err)
	}
	return nil
}
