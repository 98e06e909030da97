package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daralachab/reservation-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reservationsCollection = "reservations"
	statusChecksCollection = "status_checks"
)

// MongoStore keeps records as documents. Timestamps are ISO-8601 strings so
// documents written by earlier deployments load unchanged.
type MongoStore struct {
	client       *mongo.Client
	reservations *mongo.Collection
	statusChecks *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client:       client,
		reservations: db.Collection(reservationsCollection),
		statusChecks: db.Collection(statusChecksCollection),
	}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.reservations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type reservationDocument struct {
	ID        string        `bson:"id"`
	Name      string        `bson:"name"`
	Phone     string        `bson:"phone"`
	Email     *string       `bson:"email"`
	Date      string        `bson:"date"`
	Time      string        `bson:"time"`
	Persons   int           `bson:"persons"`
	Message   *string       `bson:"message"`
	Status    string        `bson:"status"`
	Timestamp bson.RawValue `bson:"timestamp,omitempty"`
}

func (d reservationDocument) toModel() models.Reservation {
	return models.Reservation{
		ID:        d.ID,
		Name:      d.Name,
		Phone:     d.Phone,
		Email:     d.Email,
		Date:      d.Date,
		Time:      d.Time,
		Persons:   d.Persons,
		Message:   d.Message,
		Status:    models.Status(d.Status),
		Timestamp: decodeTimestamp(d.Timestamp),
	}
}

func reservationBSON(r *models.Reservation) bson.M {
	doc := bson.M{
		"id":      r.ID,
		"name":    r.Name,
		"phone":   r.Phone,
		"email":   r.Email,
		"date":    r.Date,
		"time":    r.Time,
		"persons": r.Persons,
		"message": r.Message,
		"status":  string(r.Status),
	}
	if r.Timestamp != nil {
		doc["timestamp"] = r.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	return doc
}

// decodeTimestamp accepts ISO strings and native BSON dates; anything else
// reads as absent.
func decodeTimestamp(v bson.RawValue) *time.Time {
	if s, ok := v.StringValueOK(); ok {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			// naive isoformat without an offset
			t, err = time.Parse("2006-01-02T15:04:05.999999999", s)
			if err != nil {
				return nil
			}
		}
		t = t.UTC()
		return &t
	}
	if t, ok := v.TimeOK(); ok {
		t = t.UTC()
		return &t
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, r *models.Reservation) error {
	_, err := s.reservations.InsertOne(ctx, reservationBSON(r))
	return err
}

func mongoFilter(filter Filter) bson.M {
	q := bson.M{}
	if filter.Status != "" {
		if filter.Status == models.StatusPending {
			q["status"] = bson.M{"$in": bson.A{string(filter.Status), "", nil}}
		} else {
			q["status"] = string(filter.Status)
		}
	}
	dates := bson.M{}
	if filter.DateFrom != "" {
		dates["$gte"] = filter.DateFrom
	}
	if filter.DateTo != "" {
		dates["$lte"] = filter.DateTo
	}
	if len(dates) > 0 {
		q["date"] = dates
	}
	return q
}

func (s *MongoStore) FindAll(ctx context.Context, filter Filter) ([]models.Reservation, error) {
	cur, err := s.reservations.Find(ctx, mongoFilter(filter))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []reservationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	reservations := make([]models.Reservation, 0, len(docs))
	for _, d := range docs {
		reservations = append(reservations, d.toModel())
	}
	return reservations, nil
}

func (s *MongoStore) UpdateFields(ctx context.Context, id string, fields Fields) (*models.Reservation, error) {
	if fields.empty() {
		return s.FindOne(ctx, id)
	}
	set := bson.M{}
	if fields.Status != nil {
		set["status"] = string(*fields.Status)
	}
	if fields.Persons != nil {
		set["persons"] = *fields.Persons
	}

	res := s.reservations.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	return decodeOne(res, id)
}

func (s *MongoStore) FindOne(ctx context.Context, id string) (*models.Reservation, error) {
	return decodeOne(s.reservations.FindOne(ctx, bson.M{"id": id}), id)
}

func (s *MongoStore) DeleteOne(ctx context.Context, id string) (int64, error) {
	res, err := s.reservations.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type statusCheckDocument struct {
	ID         string        `bson:"id"`
	ClientName string        `bson:"client_name"`
	Timestamp  bson.RawValue `bson:"timestamp,omitempty"`
}

func (s *MongoStore) InsertStatusCheck(ctx context.Context, c *models.StatusCheck) error {
	_, err := s.statusChecks.InsertOne(ctx, bson.M{
		"id":          c.ID,
		"client_name": c.ClientName,
		"timestamp":   c.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	return err
}

func (s *MongoStore) ListStatusChecks(ctx context.Context, limit int) ([]models.StatusCheck, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.statusChecks.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []statusCheckDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	checks := make([]models.StatusCheck, 0, len(docs))
	for _, d := range docs {
		c := models.StatusCheck{ID: d.ID, ClientName: d.ClientName}
		if ts := decodeTimestamp(d.Timestamp); ts != nil {
			c.Timestamp = *ts
		}
		checks = append(checks, c)
	}
	return checks, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func decodeOne(res *mongo.SingleResult, id string) (*models.Reservation, error) {
	var doc reservationDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("decode reservation %s: %w", id, err)
	}
	r := doc.toModel()
	return &r, nil
}
