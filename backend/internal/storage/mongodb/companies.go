package mongodb

import (
	"fmt"
	"regexp"

	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Storage) Companies() ([]domain.Company, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return findAll[domain.Company](ctx, s.coll(companiesCollection), bson.M{},
		options.Find().SetSort(bson.D{{Key: "company_id", Value: 1}}))
}

func (s *Storage) Company(id domain.Id) (domain.Company, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var c domain.Company
	err := findOne(ctx, s.coll(companiesCollection), bson.M{"_id": id}, &c, "Company")
	return c, err
}

func (s *Storage) InsertCompany(c domain.Company) (domain.Id, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	c.Id = domain.Id{}
	res, err := s.coll(companiesCollection).InsertOne(ctx, c)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Id{}, internal_errors.Conflict(fmt.Sprintf("Company id %s already exists", c.CompanyId))
		}
		return domain.Id{}, fmt.Errorf("failed to insert company: %w", err)
	}
	id, _ := res.InsertedID.(domain.Id)
	return id, nil
}

func (s *Storage) ReplaceCompany(c domain.Company) error {
	return s.replace(companiesCollection, c.Id, c, "Company")
}

// MaxCompanyId returns the lexicographically largest company id with the
// prefix followed by digits, or "" when there is none.
func (s *Storage) MaxCompanyId(prefix string) (string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	filter := bson.M{"company_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix) + `\d+$`}}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "company_id", Value: -1}}).
		SetProjection(bson.M{"company_id": 1})

	var doc struct {
		CompanyId string `bson:"company_id"`
	}
	err := s.coll(companiesCollection).FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find max company id: %w", err)
	}
	return doc.CompanyId, nil
}

// CompanyNames scans the companies collection into a company_id -> company_name map.
func (s *Storage) CompanyNames() (map[string]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	type entry struct {
		CompanyId   string `bson:"company_id"`
		CompanyName string `bson:"company_name"`
	}
	entries, err := findAll[entry](ctx, s.coll(companiesCollection),
		bson.M{"company_id": bson.M{"$exists": true, "$ne": ""}},
		options.Find().SetProjection(bson.M{"company_id": 1, "company_name": 1}))
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		names[e.CompanyId] = e.CompanyName
	}
	return names, nil
}

func (s *Storage) UpdateCompanyStatus(id domain.Id, status domain.CompanyStatus) error {
	return s.setField(companiesCollection, id, "status", status)
}
