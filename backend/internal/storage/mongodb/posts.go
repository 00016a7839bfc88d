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

var postOrder = bson.D{
	{Key: "isNotice", Value: -1},
	{Key: "createdDate", Value: -1},
	{Key: "createdTime", Value: -1},
	{Key: "_id", Value: -1},
}

func (s *Storage) SavePost(p domain.Post) (domain.Id, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	p.Id = domain.Id{}
	p.SoftDelete = domain.SoftDelete{}
	res, err := s.coll(postsCollection).InsertOne(ctx, p)
	if err != nil {
		return domain.Id{}, fmt.Errorf("failed to insert post: %w", err)
	}
	id, _ := res.InsertedID.(domain.Id)
	return id, nil
}

// Posts returns one page of live posts, notices first, newest first.
func (s *Storage) Posts(page, size int) (domain.PostPage, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	filter := bson.D{liveFilter}
	total, err := s.coll(postsCollection).CountDocuments(ctx, filter)
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("failed to count posts: %w", err)
	}
	posts, err := findAll[domain.Post](ctx, s.coll(postsCollection), filter,
		options.Find().SetSort(postOrder).SetSkip(int64(page)*int64(size)).SetLimit(int64(size)))
	if err != nil {
		return domain.PostPage{}, err
	}
	return domain.PostPage{
		Posts:         posts,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// ViewPost increments the view counter of a live post and returns it.
// Every call counts.
func (s *Storage) ViewPost(id domain.Id) (domain.Post, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var p domain.Post
	err := s.coll(postsCollection).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}, liveFilter},
		bson.M{"$inc": bson.M{"viewCount": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Post{}, internal_errors.NotFound("Post not found")
	}
	if err != nil {
		return domain.Post{}, fmt.Errorf("failed to view post: %w", err)
	}
	return p, nil
}

// Post returns a live post without counting a view.
func (s *Storage) Post(id domain.Id) (domain.Post, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var p domain.Post
	err := findOne(ctx, s.coll(postsCollection), bson.D{{Key: "_id", Value: id}, liveFilter}, &p, "Post")
	return p, err
}

func (s *Storage) UpdatePost(id domain.Id, patch domain.PostPatch) error {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.IsNotice != nil {
		set["isNotice"] = *patch.IsNotice
	}
	if patch.IsAnswered != nil {
		set["isAnswered"] = *patch.IsAnswered
	}
	return s.updateLive(postsCollection, id, set, "Post")
}

func (s *Storage) MarkPostAnswered(id domain.Id) error {
	return s.updateLive(postsCollection, id, bson.M{"isAnswered": true}, "Post")
}

// SoftDeletePost marks the post and all of its live comments deleted with the
// same stamp. Comments go first so a failed call can simply be retried.
func (s *Storage) SoftDeletePost(id domain.Id, stamp domain.Stamp) (int64, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var live bson.M
	if err := findOne(ctx, s.coll(postsCollection), bson.D{{Key: "_id", Value: id}, liveFilter}, &live, "Post"); err != nil {
		return 0, err
	}

	deletion := deletionSet(stamp)
	res, err := s.coll(commentsCollection).UpdateMany(ctx,
		bson.D{postRef(id), liveFilter}, deletion)
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments of post: %w", err)
	}

	postRes, err := s.coll(postsCollection).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}, liveFilter}, deletion)
	if err != nil {
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}
	if postRes.MatchedCount == 0 {
		return 0, internal_errors.NotFound("Post not found")
	}
	return res.ModifiedCount, nil
}

func deletionSet(stamp domain.Stamp) bson.M {
	return bson.M{"$set": bson.M{
		"deleted":     true,
		"deletedDate": stamp.Date,
		"deletedTime": stamp.Time,
	}}
}

func (s *Storage) updateLive(collection string, id domain.Id, set bson.M, what string) error {
	if len(set) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(collection).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}, liveFilter}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", collection, err)
	}
	if res.MatchedCount == 0 {
		return internal_errors.NotFound(what + " not found")
	}
	return nil
}
