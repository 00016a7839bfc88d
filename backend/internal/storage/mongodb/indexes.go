package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes that close id allocation and
// registration races, plus the board listing indexes.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetName(field + "_unique"),
		}
	}
	specs := map[string][]mongo.IndexModel{
		membersCollection:   {unique("userId")},
		adminsCollection:    {unique("userId")},
		companiesCollection: {unique("company_id")},
		incidentsCollection: {
			{
				Keys: bson.D{{Key: "incident_no", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("incident_no_unique").
					SetPartialFilterExpression(bson.M{"incident_no": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "company_id", Value: 1}}},
		},
		devCollection: {{Keys: bson.D{{Key: "company_id", Value: 1}}}},
		postsCollection: {{
			Keys: bson.D{
				{Key: "isNotice", Value: -1},
				{Key: "createdDate", Value: -1},
				{Key: "createdTime", Value: -1},
				{Key: "_id", Value: -1},
			},
		}},
		commentsCollection: {{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdDate", Value: 1}}}},
		globalIndexCollection: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "year", Value: -1}, {Key: "rank", Value: 1}}},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for collection, models := range specs {
		if _, err := s.coll(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

// SyncAccountKeys reserves the user id and nickname of accounts written before
// reservations existed. Keys that are already reserved are left alone.
func (s *Storage) SyncAccountKeys(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	synced := 0
	for _, t := range []domain.AccountType{domain.AccountMember, domain.AccountAdmin} {
		accounts, err := findAll[domain.Account](ctx, s.coll(accountCollection(t)), bson.M{})
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			continue
		}
		docs := make([]any, 0, len(accounts)*2)
		for _, acc := range accounts {
			for _, k := range accountKeys(acc) {
				docs = append(docs, keyDoc{Id: k.String(), UserId: acc.UserId, AccountType: t, Token: "sync"})
			}
		}
		res, err := s.coll(accountKeysCollection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to sync account keys: %w", err)
		}
		if res != nil {
			synced += len(res.InsertedIDs)
		}
	}
	if synced > 0 {
		logger.Log.Info("reserved keys for existing accounts", "count", synced)
	}
	return nil
}
