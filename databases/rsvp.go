package databases

// go generate: mockery --name RSVPDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/models"
)

const rsvpCollectionName = "rsvps"

// RSVPDatabase contains the methods to use with the rsvp database
type RSVPDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RSVP, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RSVP, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, rsvp models.RSVP, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type rsvpDatabase struct {
	db DatabaseHelper
}

// NewRSVPDatabase initializes a new instance of rsvp database with the provided db connection
func NewRSVPDatabase(db DatabaseHelper) RSVPDatabase {
	return &rsvpDatabase{
		db: db,
	}
}

func (r *rsvpDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.RSVP, error) {
	rsvp := &models.RSVP{}
	err := r.db.Collection(rsvpCollectionName).FindOne(ctx, filter, opts...).Decode(&rsvp)
	if err != nil {
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	cur, err := r.db.Collection(rsvpCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&rsvps)
	if err != nil {
		return nil, err
	}
	return rsvps, nil
}

func (r *rsvpDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return r.db.Collection(rsvpCollectionName).CountDocuments(ctx, filter, opts...)
}

func (r *rsvpDatabase) InsertOne(ctx context.Context, rsvp models.RSVP, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return r.db.Collection(rsvpCollectionName).InsertOne(ctx, rsvp, opts...)
}

func (r *rsvpDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return r.db.Collection(rsvpCollectionName).DeleteOne(ctx, filter, opts...)
}

// EnsureRSVPIndexes creates the unique index on rsvps.code. The index makes
// the store itself refuse a second submission for the same code, so two
// browser sessions racing past the duplicate pre-check cannot both commit.
func EnsureRSVPIndexes(ctx context.Context, db DatabaseHelper) error {
	unique := true
	name, err := db.Collection(rsvpCollectionName).CreateIndex(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: &options.IndexOptions{Unique: &unique},
	})
	if err != nil {
		return err
	}
	zap.S().Debugw("ensured rsvp index", "name", name)
	return nil
}
