package databases

// go generate: mockery --name InviteCodeDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/miralles/wedding-rsvp-api/models"
)

const inviteCodeCollectionName = "invitationCodes"

// InviteCodeDatabase contains the methods to use with the invitation code database
type InviteCodeDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.InvitationCode, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InvitationCode, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, code models.InvitationCode, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	IncrementUsed(ctx context.Context, id primitive.ObjectID, delta int) error
}

type inviteCodeDatabase struct {
	db DatabaseHelper
}

// NewInviteCodeDatabase initializes a new instance of invitation code database with the provided db connection
func NewInviteCodeDatabase(db DatabaseHelper) InviteCodeDatabase {
	return &inviteCodeDatabase{
		db: db,
	}
}

func (c *inviteCodeDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.InvitationCode, error) {
	code := &models.InvitationCode{}
	err := c.db.Collection(inviteCodeCollectionName).FindOne(ctx, filter, opts...).Decode(&code)
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (c *inviteCodeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.InvitationCode, error) {
	var codes []models.InvitationCode
	cur, err := c.db.Collection(inviteCodeCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&codes)
	if err != nil {
		return nil, err
	}
	return codes, nil
}

func (c *inviteCodeDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(inviteCodeCollectionName).CountDocuments(ctx, filter, opts...)
}

func (c *inviteCodeDatabase) InsertOne(ctx context.Context, code models.InvitationCode, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(inviteCodeCollectionName).InsertOne(ctx, code, opts...)
}

func (c *inviteCodeDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(inviteCodeCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *inviteCodeDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(inviteCodeCollectionName).DeleteOne(ctx, filter, opts...)
}

// IncrementUsed adjusts usedGuests by delta with the store's atomic $inc
// primitive. Never a read-modify-write; callers keep creates and deletes
// paired so the counter cannot drift.
func (c *inviteCodeDatabase) IncrementUsed(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := c.db.Collection(inviteCodeCollectionName).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"usedGuests": delta},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	return err
}
