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

func (s *Storage) Incidents() ([]domain.Incident, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	return findAll[domain.Incident](ctx, s.coll(incidentsCollection), bson.M{},
		options.Find().SetSort(bson.D{{Key: "incident_date", Value: -1}, {Key: "incident_no", Value: -1}}))
}

func (s *Storage) Incident(id domain.Id) (domain.Incident, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	var i domain.Incident
	err := findOne(ctx, s.coll(incidentsCollection), bson.M{"_id": id}, &i, "Incident")
	return i, err
}

func (s *Storage) InsertIncident(i domain.Incident) (domain.Id, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	i.Id = domain.Id{}
	res, err := s.coll(incidentsCollection).InsertOne(ctx, i)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Id{}, internal_errors.Conflict(fmt.Sprintf("Incident number %s already exists", i.IncidentNo))
		}
		return domain.Id{}, fmt.Errorf("failed to insert incident: %w", err)
	}
	id, _ := res.InsertedID.(domain.Id)
	return id, nil
}

func (s *Storage) ReplaceIncident(i domain.Incident) error {
	return s.replace(incidentsCollection, i.Id, i, "Incident")
}

// MaxIncidentSeq returns the highest daily sequence already used for the
// "YYMMDD" prefix, or 0.
func (s *Storage) MaxIncidentSeq(dayPrefix string) (int, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	filter := bson.M{"incident_no": bson.M{"$regex": "^" + regexp.QuoteMeta(dayPrefix) + `\d{3}$`}}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "incident_no", Value: -1}}).
		SetProjection(bson.M{"incident_no": 1})

	var doc struct {
		IncidentNo domain.IncidentNo `bson:"incident_no"`
	}
	err := s.coll(incidentsCollection).FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find max incident number: %w", err)
	}
	return doc.IncidentNo.Seq(), nil
}

func (s *Storage) UpdateIncidentStatus(id domain.Id, status domain.IncidentStatus) error {
	return s.setField(incidentsCollection, id, "status", status)
}
