package mongodb

import (
	"errors"
	"fmt"

	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeleteRecords removes all listed documents of kind in one statement.
func (s *Storage) DeleteRecords(kind domain.RecordKind, ids []domain.Id) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(recordCollection(kind)).DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s records: %w", kind, err)
	}
	return res.DeletedCount, nil
}

// Columns lists the field names of one sample document, without _id.
func (s *Storage) Columns(kind domain.RecordKind) ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var sample bson.Raw
	err := s.coll(recordCollection(kind)).FindOne(ctx, bson.M{}).Decode(&sample)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s: %w", kind, err)
	}
	elems, err := sample.Elements()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sample: %w", kind, err)
	}
	columns := make([]string, 0, len(elems))
	for _, e := range elems {
		if e.Key() != "_id" {
			columns = append(columns, e.Key())
		}
	}
	return columns, nil
}

// BackfillCompanyNames writes the current company name onto dev projects and
// incidents referencing each company. Returns the number of modified documents.
func (s *Storage) BackfillCompanyNames(names map[string]string) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var modified int64
	for _, collection := range []string{devCollection, incidentsCollection} {
		models := make([]mongo.WriteModel, 0, len(names))
		for id, name := range names {
			models = append(models, mongo.NewUpdateManyModel().
				SetFilter(bson.M{"company_id": id, "company_name": bson.M{"$ne": name}}).
				SetUpdate(bson.M{"$set": bson.M{"company_name": name}}))
		}
		if len(models) == 0 {
			continue
		}
		res, err := s.coll(collection).BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
		if err != nil {
			return modified, fmt.Errorf("failed to backfill %s: %w", collection, err)
		}
		modified += res.ModifiedCount
	}
	return modified, nil
}

// InsertCompanies bulk inserts generated companies.
func (s *Storage) InsertCompanies(companies []domain.Company) (int, error) {
	return insertMany(s, companiesCollection, companies)
}

func (s *Storage) InsertIncidents(incidents []domain.Incident) (int, error) {
	return insertMany(s, incidentsCollection, incidents)
}

func (s *Storage) InsertDevProjects(projects []domain.DevProject) (int, error) {
	return insertMany(s, devCollection, projects)
}

// Reset empties the collection of kind.
func (s *Storage) Reset(kind domain.RecordKind) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(recordCollection(kind)).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to reset %s: %w", kind, err)
	}
	return res.DeletedCount, nil
}

func insertMany[T any](s *Storage, collection string, items []T) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	docs := make([]any, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	res, err := s.coll(collection).InsertMany(ctx, docs)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, internal_errors.Conflict("generated records collide with existing ones")
		}
		return 0, fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return len(res.InsertedIDs), nil
}

func (s *Storage) replace(collection string, id domain.Id, doc any, what string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return internal_errors.Conflict(what + " collides with an existing record")
		}
		return fmt.Errorf("failed to replace %s: %w", what, err)
	}
	if res.MatchedCount == 0 {
		return internal_errors.NotFound(what + " not found")
	}
	return nil
}

func (s *Storage) setField(collection string, id domain.Id, field string, value any) error {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return fmt.Errorf("failed to update %s.%s: %w", collection, field, err)
	}
	if res.MatchedCount == 0 {
		return internal_errors.NotFound("Record not found")
	}
	return nil
}
