package mongodb

import (
	"fmt"

	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Storage) SaveComment(c domain.Comment) (domain.Id, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	c.Id = domain.Id{}
	c.SoftDelete = domain.SoftDelete{}
	res, err := s.coll(commentsCollection).InsertOne(ctx, c)
	if err != nil {
		return domain.Id{}, fmt.Errorf("failed to insert comment: %w", err)
	}
	id, _ := res.InsertedID.(domain.Id)
	return id, nil
}

// Comments lists live comments of a post, oldest first.
func (s *Storage) Comments(postId domain.Id) ([]domain.Comment, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	comments, err := findAll[domain.Comment](ctx, s.coll(commentsCollection),
		bson.D{postRef(postId), liveFilter},
		options.Find().SetSort(bson.D{
			{Key: "createdDate", Value: 1},
			{Key: "createdTime", Value: 1},
			{Key: "_id", Value: 1},
		}))
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].Normalize()
	}
	return comments, nil
}

// postRef matches comments pointing at postId. Older comments hold the id as
// a hex string rather than an ObjectId.
func postRef(postId domain.Id) bson.E {
	return bson.E{Key: "postId", Value: bson.M{"$in": bson.A{postId, postId.Hex()}}}
}

func (s *Storage) Comment(id domain.Id) (domain.Comment, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var c domain.Comment
	err := findOne(ctx, s.coll(commentsCollection), bson.D{{Key: "_id", Value: id}, liveFilter}, &c, "Comment")
	c.Normalize()
	return c, err
}

func (s *Storage) SoftDeleteComment(id domain.Id, stamp domain.Stamp) error {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.coll(commentsCollection).UpdateOne(ctx, bson.D{{Key: "_id", Value: id}, liveFilter}, deletionSet(stamp))
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return internal_errors.NotFound("Comment not found")
	}
	return nil
}
