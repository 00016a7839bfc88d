package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// keyDoc reserves one value of the namespace shared by members and admins.
// The unique _id makes the reservation atomic.
type keyDoc struct {
	Id          string             `bson:"_id"`
	UserId      domain.UserId      `bson:"userId"`
	AccountType domain.AccountType `bson:"accountType"`
	Token       string             `bson:"token"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func accountKeys(acc domain.Account) []domain.AccountKey {
	return []domain.AccountKey{
		{Kind: domain.KeyUserId, Value: acc.UserId},
		{Kind: domain.KeyNickname, Value: acc.Nickname},
	}
}

// reserve inserts all keys or none. On conflict the keys this call managed to
// insert are released and a Conflict error names the taken value.
// The returned token identifies this reservation.
func (s *Storage) reserve(ctx context.Context, t domain.AccountType, userId domain.UserId, keys []domain.AccountKey) (string, error) {
	token := uuid.NewString()
	docs := make([]any, len(keys))
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = k.String()
		docs[i] = keyDoc{Id: ids[i], UserId: userId, AccountType: t, Token: token, CreatedAt: time.Now().UTC()}
	}

	_, err := s.coll(accountKeysCollection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return token, nil
	}
	s.release(ctx, bson.M{"_id": bson.M{"$in": ids}, "token": token})
	if mongo.IsDuplicateKeyError(err) {
		return "", internal_errors.Conflict(conflictMessage(ctx, s, keys))
	}
	return "", fmt.Errorf("failed to reserve account keys: %w", err)
}

func conflictMessage(ctx context.Context, s *Storage, keys []domain.AccountKey) string {
	for _, k := range keys {
		n, err := s.coll(accountKeysCollection).CountDocuments(ctx, bson.M{"_id": k.String()})
		if err == nil && n > 0 {
			if k.Kind == domain.KeyNickname {
				return "Nickname already exists"
			}
			return "User id already exists"
		}
	}
	return "Account already exists"
}

func (s *Storage) release(ctx context.Context, filter bson.M) {
	if _, err := s.coll(accountKeysCollection).DeleteMany(ctx, filter); err != nil {
		logger.Log.Error("failed to release account keys", "filter", filter, "error", err)
	}
}

// SaveAccount stores a new account after reserving its user id and nickname.
// An existing account with either value is never touched.
func (s *Storage) SaveAccount(t domain.AccountType, acc domain.Account) (domain.Id, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	token, err := s.reserve(ctx, t, acc.UserId, accountKeys(acc))
	if err != nil {
		return domain.Id{}, err
	}

	acc.Id = domain.Id{}
	res, err := s.coll(accountCollection(t)).InsertOne(ctx, acc)
	if err != nil {
		s.release(ctx, bson.M{"token": token})
		if mongo.IsDuplicateKeyError(err) {
			return domain.Id{}, internal_errors.Conflict("User id already exists")
		}
		return domain.Id{}, fmt.Errorf("failed to insert account: %w", err)
	}
	id, _ := res.InsertedID.(domain.Id)
	return id, nil
}

func (s *Storage) Account(t domain.AccountType, userId domain.UserId) (domain.Account, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var acc domain.Account
	if err := findOne(ctx, s.coll(accountCollection(t)), bson.M{"userId": userId}, &acc, "Account"); err != nil {
		return domain.Account{}, err
	}
	acc.Type = t
	return acc, nil
}

func (s *Storage) Accounts(t domain.AccountType) ([]domain.Account, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	accounts, err := findAll[domain.Account](ctx, s.coll(accountCollection(t)), bson.M{},
		options.Find().SetSort(bson.D{{Key: "userId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].Type = t
	}
	return accounts, nil
}

func (s *Storage) UpdatePassword(t domain.AccountType, userId domain.UserId, passHash string) error {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(accountCollection(t)).UpdateOne(ctx, bson.M{"userId": userId}, bson.M{"$set": bson.M{"password": passHash}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return internal_errors.NotFound("Account not found")
	}
	return nil
}

// UpdateNickname reserves the new nickname first, then releases the old one.
func (s *Storage) UpdateNickname(t domain.AccountType, userId domain.UserId, nickname domain.Nickname) error {
	ctx, cancel := s.ctx()
	defer cancel()

	var acc domain.Account
	if err := findOne(ctx, s.coll(accountCollection(t)), bson.M{"userId": userId}, &acc, "Account"); err != nil {
		return err
	}
	if acc.Nickname == nickname {
		return nil
	}
	token, err := s.reserve(ctx, t, userId, []domain.AccountKey{{Kind: domain.KeyNickname, Value: nickname}})
	if err != nil {
		return err
	}
	if _, err := s.coll(accountCollection(t)).UpdateOne(ctx, bson.M{"userId": userId}, bson.M{"$set": bson.M{"nickname": nickname}}); err != nil {
		s.release(ctx, bson.M{"token": token})
		return fmt.Errorf("failed to update nickname: %w", err)
	}
	s.release(ctx, bson.M{"_id": domain.AccountKey{Kind: domain.KeyNickname, Value: acc.Nickname}.String(), "userId": userId})
	return nil
}

// DeleteAccounts hard deletes accounts and frees their keys.
func (s *Storage) DeleteAccounts(t domain.AccountType, userIds []domain.UserId) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(accountCollection(t)).DeleteMany(ctx, bson.M{"userId": bson.M{"$in": userIds}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete accounts: %w", err)
	}
	s.release(ctx, bson.M{"userId": bson.M{"$in": userIds}, "accountType": t})
	return res.DeletedCount, nil
}

// KeyTaken reports whether the value is used by any member or admin.
func (s *Storage) KeyTaken(key domain.AccountKey) (bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	n, err := s.coll(accountKeysCollection).CountDocuments(ctx, bson.M{"_id": key.String()})
	if err != nil {
		return false, fmt.Errorf("failed to check account key: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	field := "userId"
	if key.Kind == domain.KeyNickname {
		field = "nickname"
	}
	for _, c := range []string{membersCollection, adminsCollection} {
		n, err := s.coll(c).CountDocuments(ctx, bson.M{field: key.Value})
		if err != nil {
			return false, fmt.Errorf("failed to check %s: %w", c, err)
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}
