package mongodb

import (
	"fmt"

	"github.com/teamdash/teamdash/shared/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Storage) DevProjects() ([]domain.DevProject, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return findAll[domain.DevProject](ctx, s.coll(devCollection), bson.M{},
		options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: -1}}))
}

func (s *Storage) DevProject(id domain.Id) (domain.DevProject, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var p domain.DevProject
	err := findOne(ctx, s.coll(devCollection), bson.M{"_id": id}, &p, "Dev project")
	return p, err
}

func (s *Storage) InsertDevProject(p domain.DevProject) (domain.Id, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	p.Id = domain.Id{}
	res, err := s.coll(devCollection).InsertOne(ctx, p)
	if err != nil {
		return domain.Id{}, fmt.Errorf("failed to insert dev project: %w", err)
	}
	id, _ := res.InsertedID.(domain.Id)
	return id, nil
}

func (s *Storage) ReplaceDevProject(p domain.DevProject) error {
	return s.replace(devCollection, p.Id, p, "Dev project")
}
